package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/krelinga/chunked-transcoder/internal"
	"github.com/riverqueue/river"
)

const (
	ingestTimeout = 30 * time.Minute
	encodeTimeout = 30 * time.Minute
	muxTimeout    = 30 * time.Minute
)

// settle turns a stage result into the error River should see. Permanent
// failures cancel the job so River does not retry them blindly.
func settle(err error) error {
	if err == nil || internal.IsRetryable(err) {
		return err
	}
	return river.JobCancel(err)
}

// logIgnored logs an event the stage refused because its record had already
// moved on. River completes such jobs normally.
func logIgnored(ctx context.Context, kind string, resp internal.Response, err error) {
	if err != nil {
		return
	}
	if ignored := resp.Err(); ignored != nil {
		slog.InfoContext(ctx, "event ignored", slog.String("kind", kind), slog.Any("reason", ignored))
	}
}

// IngestWorker runs the ingest stage for River ingest jobs.
type IngestWorker struct {
	river.WorkerDefaults[internal.IngestJobArgs]
	Ingester *internal.Ingester
}

func (w *IngestWorker) Timeout(*river.Job[internal.IngestJobArgs]) time.Duration {
	return ingestTimeout
}

func (w *IngestWorker) Work(ctx context.Context, job *river.Job[internal.IngestJobArgs]) error {
	resp, err := w.Ingester.Handle(ctx, job.Args)
	logIgnored(ctx, job.Kind, resp, err)
	return settle(err)
}

// EncodeWorker runs the encode stage and records transcoding progress as the
// River job's output.
type EncodeWorker struct {
	river.WorkerDefaults[internal.EncodeJobArgs]
	Encoder *internal.Encoder
}

func (w *EncodeWorker) Timeout(*river.Job[internal.EncodeJobArgs]) time.Duration {
	return encodeTimeout
}

// progressRecorder throttles progress updates so the job row is not
// rewritten for every line of encoder output.
type progressRecorder struct {
	ctx        context.Context
	interval   time.Duration
	lastUpdate time.Time
	last       int
}

func (p *progressRecorder) record(progress float64) {
	current := int(progress)
	if current == p.last || time.Since(p.lastUpdate) < p.interval {
		return
	}
	if err := river.RecordOutput(p.ctx, internal.ChunkProgress{Progress: progress}); err != nil {
		return
	}
	p.lastUpdate = time.Now()
	p.last = current
}

func (w *EncodeWorker) Work(ctx context.Context, job *river.Job[internal.EncodeJobArgs]) error {
	recorder := &progressRecorder{ctx: ctx, interval: 5 * time.Second}
	resp, err := w.Encoder.Handle(ctx, job.Args, recorder.record)
	logIgnored(ctx, job.Kind, resp, err)
	switch {
	case err != nil:
		msg := err.Error()
		_ = river.RecordOutput(ctx, internal.ChunkProgress{Progress: float64(recorder.last), Error: &msg})
	case resp.StatusCode == internal.StatusOK:
		_ = river.RecordOutput(ctx, internal.ChunkProgress{Progress: 100})
	}
	return settle(err)
}

// MuxWorker runs the mux stage. Every failure is retried: the video stays in
// muxing until a run succeeds.
type MuxWorker struct {
	river.WorkerDefaults[internal.MuxJobArgs]
	Muxer *internal.Muxer
}

func (w *MuxWorker) Timeout(*river.Job[internal.MuxJobArgs]) time.Duration {
	return muxTimeout
}

func (w *MuxWorker) Work(ctx context.Context, job *river.Job[internal.MuxJobArgs]) error {
	resp, err := w.Muxer.Handle(ctx, job.Args)
	logIgnored(ctx, job.Kind, resp, err)
	return err
}
