package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFakeProcessor = errors.New("fake processor failure")

// fakeProcessor stands in for ffmpeg. Segment produces one chunk per started
// segment of the source's registered duration; Transcode copies its input.
type fakeProcessor struct {
	mu            sync.Mutex
	durations     map[string]time.Duration
	failSegment   bool
	failTranscode map[string]bool
	failConcat    bool
	segmentCalls  int
	concatOrder   []string
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		durations:     make(map[string]time.Duration),
		failTranscode: make(map[string]bool),
	}
}

func (p *fakeProcessor) Segment(_ context.Context, _, outDir, fileName string, segment time.Duration) ([]string, error) {
	p.mu.Lock()
	p.segmentCalls++
	duration := p.durations[fileName]
	fail := p.failSegment
	p.mu.Unlock()

	if fail {
		return nil, errFakeProcessor
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return nil, err
	}
	n := int(math.Ceil(float64(duration) / float64(segment)))
	paths := make([]string, 0, n)
	for seq := 0; seq < n; seq++ {
		path := filepath.Join(outDir, ChunkFileName(seq, fileName))
		if err := os.WriteFile(path, []byte(fmt.Sprintf("chunk %d", seq)), 0640); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (p *fakeProcessor) ExtractAudio(_ context.Context, _, dst string) error {
	return os.WriteFile(dst, []byte("audio"), 0640)
}

func (p *fakeProcessor) Transcode(_ context.Context, params TranscodeParams) error {
	p.mu.Lock()
	fail := p.failTranscode[filepath.Base(params.SourcePath)]
	p.mu.Unlock()
	if fail {
		return errFakeProcessor
	}

	data, err := os.ReadFile(params.SourcePath)
	if err != nil {
		return err
	}
	if params.ProgressCallback != nil {
		params.ProgressCallback(100)
	}
	return os.WriteFile(params.DestinationPath, append([]byte("encoded "), data...), 0640)
}

func (p *fakeProcessor) Concat(_ context.Context, manifest, _, dst string) error {
	p.mu.Lock()
	fail := p.failConcat
	p.mu.Unlock()
	if fail {
		return errFakeProcessor
	}

	f, err := os.Open(manifest)
	if err != nil {
		return err
	}
	defer f.Close()

	var order []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(strings.TrimPrefix(scanner.Text(), "file '"), "'")
		order = append(order, filepath.Base(line))
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	p.concatOrder = order
	p.mu.Unlock()
	return os.WriteFile(dst, []byte(strings.Join(order, "\n")), 0640)
}

var errConnReset = errors.New("read tcp 10.0.0.7:5432: connection reset by peer")

type fault struct {
	skip      int
	remaining int
	committed bool
}

// faultyStore fails chosen calls with a connection error. A committed fault
// lets the call through first, the way a lost commit acknowledgement looks.
type faultyStore struct {
	Store

	mu     sync.Mutex
	faults map[string]*fault
	// listChunks, when set, rewrites what ChunksByVideoID returns.
	listChunks func([]*ChunkJob) []*ChunkJob
}

func newFaultyStore(store Store) *faultyStore {
	return &faultyStore{Store: store, faults: make(map[string]*fault)}
}

func (s *faultyStore) failNext(method string, times int, committed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method] = &fault{remaining: times, committed: committed}
}

// failAfter lets skip calls through before failing the next times calls.
func (s *faultyStore) failAfter(method string, skip, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method] = &fault{skip: skip, remaining: times}
}

// call runs fn unless method has a fault pending.
func (s *faultyStore) call(method string, fn func() error) error {
	s.mu.Lock()
	f := s.faults[method]
	fail := false
	switch {
	case f == nil:
	case f.skip > 0:
		f.skip--
	case f.remaining > 0:
		f.remaining--
		fail = true
	}
	s.mu.Unlock()

	if !fail {
		return fn()
	}
	if f.committed {
		if err := fn(); err != nil {
			return err
		}
	}
	return errConnReset
}

func (s *faultyStore) GetIngestJob(ctx context.Context, id uuid.UUID) (job *IngestJob, err error) {
	err = s.call("GetIngestJob", func() error {
		job, err = s.Store.GetIngestJob(ctx, id)
		return err
	})
	return job, err
}

func (s *faultyStore) UpdateIngestStatus(ctx context.Context, id uuid.UUID, from, to IngestStatus) error {
	return s.call("UpdateIngestStatus", func() error {
		return s.Store.UpdateIngestStatus(ctx, id, from, to)
	})
}

func (s *faultyStore) RegisterChunks(ctx context.Context, ingestID uuid.UUID, video *Video, chunks []*ChunkJob) error {
	return s.call("RegisterChunks", func() error {
		return s.Store.RegisterChunks(ctx, ingestID, video, chunks)
	})
}

func (s *faultyStore) FailIngest(ctx context.Context, id uuid.UUID, from IngestStatus, reason string) error {
	return s.call("FailIngest", func() error {
		return s.Store.FailIngest(ctx, id, from, reason)
	})
}

func (s *faultyStore) GetChunkJob(ctx context.Context, id uuid.UUID) (chunk *ChunkJob, err error) {
	err = s.call("GetChunkJob", func() error {
		chunk, err = s.Store.GetChunkJob(ctx, id)
		return err
	})
	return chunk, err
}

func (s *faultyStore) CompleteChunk(ctx context.Context, chunkID uuid.UUID) (completion *Completion, err error) {
	err = s.call("CompleteChunk", func() error {
		completion, err = s.Store.CompleteChunk(ctx, chunkID)
		return err
	})
	return completion, err
}

func (s *faultyStore) FailChunk(ctx context.Context, chunkID uuid.UUID, reason string) error {
	return s.call("FailChunk", func() error {
		return s.Store.FailChunk(ctx, chunkID, reason)
	})
}

func (s *faultyStore) ChunksByVideoID(ctx context.Context, videoID uuid.UUID) ([]*ChunkJob, error) {
	chunks, err := s.Store.ChunksByVideoID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	list := s.listChunks
	s.mu.Unlock()
	if list != nil {
		chunks = list(chunks)
	}
	return chunks, nil
}

// pipeline wires the three stages to a MemoryStore whose events are queued
// rather than delivered, so tests choose the order and concurrency of
// delivery. The stages reach the store through faulty.
type pipeline struct {
	t        *testing.T
	store    *MemoryStore
	faulty   *faultyStore
	blob     *LocalBlobStore
	proc     *fakeProcessor
	ingester *Ingester
	encoder  *Encoder
	muxer    *Muxer

	mu        sync.Mutex
	queue     []river.JobArgs
	muxEvents int
	webhooks  []WebhookJobArgs
}

func newPipeline(t *testing.T) *pipeline {
	p := &pipeline{t: t, proc: newFakeProcessor()}
	p.store = NewMemoryStore(p.dispatch)
	p.faulty = newFaultyStore(p.store)

	blob, err := NewLocalBlobStore(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	p.blob = blob

	cfg := &PipelineConfig{
		ScratchDir:      t.TempDir(),
		SegmentDuration: 6 * time.Second,
		Profile:         ProfilePreview,
		EncodeWorkers:   4,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p.ingester = &Ingester{Store: p.faulty, Blob: blob, Processor: p.proc, Config: cfg, Logger: logger}
	p.encoder = &Encoder{Store: p.faulty, Blob: blob, Processor: p.proc, Config: cfg, Logger: logger}
	p.muxer = &Muxer{Store: p.faulty, Blob: blob, Processor: p.proc, Config: cfg, Logger: logger}
	return p
}

func (p *pipeline) dispatch(_ context.Context, args river.JobArgs) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch a := args.(type) {
	case WebhookJobArgs:
		p.webhooks = append(p.webhooks, a)
		return
	case MuxJobArgs:
		p.muxEvents++
	}
	p.queue = append(p.queue, args)
}

// take removes and returns the queued events of one kind.
func (p *pipeline) take(kind string) []river.JobArgs {
	p.mu.Lock()
	defer p.mu.Unlock()
	var taken, kept []river.JobArgs
	for _, args := range p.queue {
		if args.Kind() == kind {
			taken = append(taken, args)
		} else {
			kept = append(kept, args)
		}
	}
	p.queue = kept
	return taken
}

func (p *pipeline) muxCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muxEvents
}

// addSource uploads a source file and registers its duration with the fake
// processor.
func (p *pipeline) addSource(fileName string, duration time.Duration) {
	local := filepath.Join(p.t.TempDir(), fileName)
	require.NoError(p.t, os.WriteFile(local, []byte("source"), 0640))
	require.NoError(p.t, p.blob.Upload(context.Background(), local, SourceKey(fileName)))
	p.proc.mu.Lock()
	p.proc.durations[fileName] = duration
	p.proc.mu.Unlock()
}

// ingest creates an ingest job and delivers its event.
func (p *pipeline) ingest(fileName string) (*IngestJob, Response, error) {
	ctx := context.Background()
	uri := "http://hooks.example/" + fileName
	job := &IngestJob{ID: uuid.New(), FileName: fileName, WebhookURI: &uri}
	require.NoError(p.t, p.store.CreateIngestJob(ctx, job))

	events := p.take("ingest")
	require.Len(p.t, events, 1)
	resp, err := p.ingester.Handle(ctx, events[0].(IngestJobArgs))
	return job, resp, err
}

// encodeAll delivers every queued encode event, each `copies` times, all at
// once.
func (p *pipeline) encodeAll(copies int) []error {
	events := p.take("encode")
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	start := make(chan struct{})
	for _, ev := range events {
		for i := 0; i < copies; i++ {
			wg.Add(1)
			go func(args EncodeJobArgs) {
				defer wg.Done()
				<-start
				if _, err := p.encoder.Handle(context.Background(), args, nil); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}(ev.(EncodeJobArgs))
		}
	}
	close(start)
	wg.Wait()
	return errs
}

func (p *pipeline) videoOf(job *IngestJob) *Video {
	got, err := p.store.GetIngestJob(context.Background(), job.ID)
	require.NoError(p.t, err)
	require.NotNil(p.t, got.VideoID)
	video, err := p.store.GetVideo(context.Background(), *got.VideoID)
	require.NoError(p.t, err)
	return video
}

func TestPipelineTwentySecondSource(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("sample.mp4", 20*time.Second)

	job, resp, err := p.ingest("sample.mp4")
	require.NoError(t, err)
	assert.Equal(t, okResponse(), resp)

	video := p.videoOf(job)
	assert.Equal(t, "sample", video.Name)
	assert.Equal(t, 4, video.ChunkCount)

	chunks, err := p.store.ChunksByVideoID(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Seq)
		assert.Equal(t, ChunkNew, chunk.Status)
		assert.Equal(t, video.ID, chunk.VideoID)
		assert.Equal(t, fmt.Sprintf("sample/%04d_sample.mp4", i), chunk.InputPath)
		assert.Equal(t, fmt.Sprintf("sample/encoded_%04d_sample.mp4", i), chunk.OutputPath)

		ok, err := p.blob.Exists(ctx, chunk.InputPath)
		require.NoError(t, err)
		assert.True(t, ok, "chunk %d uploaded", i)
	}
	ok, err := p.blob.Exists(ctx, "sample/audio.aac")
	require.NoError(t, err)
	assert.True(t, ok, "audio uploaded")

	assert.Empty(t, p.encodeAll(1))
	assert.Equal(t, 1, p.muxCount())

	muxEvents := p.take("mux")
	require.Len(t, muxEvents, 1)
	resp, err = p.muxer.Handle(ctx, muxEvents[0].(MuxJobArgs))
	require.NoError(t, err)
	assert.Equal(t, okResponse(), resp)

	video, err = p.store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, VideoDone, video.Status)
	require.NotNil(t, video.OutputPath)
	assert.Equal(t, "encoded/mux_"+video.ID.String()+".mp4", *video.OutputPath)

	ok, err = p.blob.Exists(ctx, *video.OutputPath)
	require.NoError(t, err)
	assert.True(t, ok, "muxed output uploaded")
	assert.Equal(t, []string{
		"encoded_0000_sample.mp4",
		"encoded_0001_sample.mp4",
		"encoded_0002_sample.mp4",
		"encoded_0003_sample.mp4",
	}, p.proc.concatOrder)

	require.Len(t, p.webhooks, 1)
	assert.Equal(t, job.ID, p.webhooks[0].IngestID)
	assert.Nil(t, p.webhooks[0].Error)

	// A redelivered mux event finds the video done.
	resp, err = p.muxer.Handle(ctx, muxEvents[0].(MuxJobArgs))
	require.NoError(t, err)
	assert.Equal(t, StatusBadRequest, resp.StatusCode)
}

func TestEncodeConcurrentDeliveriesTriggerMuxOnce(t *testing.T) {
	p := newPipeline(t)
	p.addSource("long.mp4", 32*6*time.Second)

	job, _, err := p.ingest("long.mp4")
	require.NoError(t, err)

	// Every encode event is delivered three times concurrently.
	assert.Empty(t, p.encodeAll(3))
	assert.Equal(t, 1, p.muxCount())

	video := p.videoOf(job)
	assert.Equal(t, VideoMuxing, video.Status)
	assert.Zero(t, video.Remaining)

	chunks, err := p.store.ChunksByVideoID(context.Background(), video.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 32)
	for _, chunk := range chunks {
		assert.Equal(t, ChunkEncoded, chunk.Status)
	}
}

func TestEncodeDuplicateAfterEncoded(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("clip.mp4", 12*time.Second)

	_, _, err := p.ingest("clip.mp4")
	require.NoError(t, err)

	events := p.take("encode")
	require.Len(t, events, 2)
	for _, ev := range events {
		resp, err := p.encoder.Handle(ctx, ev.(EncodeJobArgs), nil)
		require.NoError(t, err)
		assert.Equal(t, okResponse(), resp)
	}
	assert.Equal(t, 1, p.muxCount())

	for _, ev := range events {
		resp, err := p.encoder.Handle(ctx, ev.(EncodeJobArgs), nil)
		require.NoError(t, err)
		assert.Equal(t, StatusBadRequest, resp.StatusCode)
	}
	assert.Equal(t, 1, p.muxCount())
}

func TestEncodeResumesChunkLeftEncoding(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("clip.mp4", 6*time.Second)

	_, _, err := p.ingest("clip.mp4")
	require.NoError(t, err)
	events := p.take("encode")
	require.Len(t, events, 1)
	args := events[0].(EncodeJobArgs)

	// An earlier attempt claimed the chunk and then died.
	require.NoError(t, p.store.UpdateChunkStatus(ctx, args.ChunkID, ChunkNew, ChunkEncoding))

	resp, err := p.encoder.Handle(ctx, args, nil)
	require.NoError(t, err)
	assert.Equal(t, okResponse(), resp)
	assert.Equal(t, 1, p.muxCount())
}

func TestEncodeFailuresBlockMux(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("movie.mp4", 5*6*time.Second)
	p.proc.failTranscode[ChunkFileName(1, "movie.mp4")] = true
	p.proc.failTranscode[ChunkFileName(3, "movie.mp4")] = true

	job, _, err := p.ingest("movie.mp4")
	require.NoError(t, err)

	errs := p.encodeAll(1)
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrProcessorFailure)
		assert.False(t, IsRetryable(err))
	}
	assert.Zero(t, p.muxCount())

	video := p.videoOf(job)
	assert.Equal(t, VideoEncoding, video.Status)
	assert.Equal(t, 2, video.Remaining)
	assert.Equal(t, 2, video.FailedChunks)
	assert.Len(t, p.webhooks, 2, "one failure notification per chunk")

	// Operator retry after the cause is fixed.
	p.proc.mu.Lock()
	p.proc.failTranscode = map[string]bool{}
	p.proc.mu.Unlock()
	chunks, err := p.store.ChunksByVideoID(ctx, video.ID)
	require.NoError(t, err)
	for _, chunk := range chunks {
		if chunk.Status == ChunkFailed {
			require.NoError(t, p.store.RetryChunk(ctx, chunk.ID))
		}
	}

	assert.Empty(t, p.encodeAll(1))
	assert.Equal(t, 1, p.muxCount())
	video = p.videoOf(job)
	assert.Equal(t, VideoMuxing, video.Status)
	assert.Zero(t, video.FailedChunks)
}

func TestIngestDuplicateDelivery(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("clip.mp4", 18*time.Second)

	job, resp, err := p.ingest("clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, okResponse(), resp)

	resp, err = p.ingester.Handle(ctx, IngestJobArgs{JobID: job.ID, FileName: job.FileName})
	require.NoError(t, err)
	assert.Equal(t, StatusBadRequest, resp.StatusCode)

	assert.Equal(t, 1, p.proc.segmentCalls)
	assert.Len(t, p.take("encode"), 3)
	video := p.videoOf(job)
	chunks, err := p.store.ChunksByVideoID(ctx, video.ID)
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func TestIngestUnknownJob(t *testing.T) {
	p := newPipeline(t)
	resp, err := p.ingester.Handle(context.Background(), IngestJobArgs{JobID: uuid.New(), FileName: "nope.mp4"})
	require.NoError(t, err)
	assert.Equal(t, StatusBadRequest, resp.StatusCode)
}

func TestIngestZeroChunks(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("empty.mp4", 0)

	job, resp, err := p.ingest("empty.mp4")
	require.NoError(t, err)
	assert.Equal(t, okResponse(), resp)

	got, err := p.store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestDone, got.Status)
	assert.Nil(t, got.VideoID)
	assert.Empty(t, p.take("encode"))
	assert.Zero(t, p.muxCount())
}

func TestIngestProcessorFailure(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("broken.mp4", 12*time.Second)
	p.proc.failSegment = true

	job, _, err := p.ingest("broken.mp4")
	assert.ErrorIs(t, err, ErrProcessorFailure)
	assert.False(t, IsRetryable(err))

	got, err := p.store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestFailed, got.Status)
	require.NotNil(t, got.Error)
	require.Len(t, p.webhooks, 1)
	assert.NotNil(t, p.webhooks[0].Error)
}

func TestIngestTransferFailureReverts(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)

	// The source was never uploaded.
	job, _, err := p.ingest("missing.mp4")
	assert.ErrorIs(t, err, ErrTransferFailure)
	assert.True(t, IsRetryable(err))

	got, err := p.store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestNew, got.Status)

	// Redelivery once the upload lands succeeds.
	p.addSource("missing.mp4", 6*time.Second)
	resp, err := p.ingester.Handle(ctx, IngestJobArgs{JobID: job.ID, FileName: job.FileName})
	require.NoError(t, err)
	assert.Equal(t, okResponse(), resp)
	assert.Len(t, p.take("encode"), 1)
}

func TestMuxOrdersChunksBySeq(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("movie.mp4", 4*6*time.Second)

	_, _, err := p.ingest("movie.mp4")
	require.NoError(t, err)
	assert.Empty(t, p.encodeAll(1))

	// The manifest order must not depend on the order the store lists in.
	p.faulty.listChunks = func(chunks []*ChunkJob) []*ChunkJob {
		return []*ChunkJob{chunks[2], chunks[0], chunks[3], chunks[1]}
	}
	muxEvents := p.take("mux")
	require.Len(t, muxEvents, 1)
	resp, err := p.muxer.Handle(ctx, muxEvents[0].(MuxJobArgs))
	require.NoError(t, err)
	assert.Equal(t, okResponse(), resp)
	assert.Equal(t, []string{
		"encoded_0000_movie.mp4",
		"encoded_0001_movie.mp4",
		"encoded_0002_movie.mp4",
		"encoded_0003_movie.mp4",
	}, p.proc.concatOrder)
}

func TestMuxMissingAudio(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("clip.mp4", 6*time.Second)

	job, _, err := p.ingest("clip.mp4")
	require.NoError(t, err)
	assert.Empty(t, p.encodeAll(1))

	video := p.videoOf(job)
	require.NoError(t, os.Remove(filepath.Join(p.blob.root, filepath.FromSlash(video.AudioPath))))

	muxEvents := p.take("mux")
	require.Len(t, muxEvents, 1)
	_, err = p.muxer.Handle(ctx, muxEvents[0].(MuxJobArgs))
	assert.ErrorIs(t, err, ErrMissingAudio)

	video = p.videoOf(job)
	assert.Equal(t, VideoMuxing, video.Status, "failed mux can be retried")
}

func TestMuxFailuresKeepVideoMuxing(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *pipeline, video *Video)
		want  error
	}{
		{
			name: "chunk count mismatch",
			setup: func(p *pipeline, _ *Video) {
				p.faulty.listChunks = func(chunks []*ChunkJob) []*ChunkJob {
					return chunks[:len(chunks)-1]
				}
			},
			want: ErrMissingChunk,
		},
		{
			name: "chunk not encoded",
			setup: func(p *pipeline, _ *Video) {
				p.faulty.listChunks = func(chunks []*ChunkJob) []*ChunkJob {
					chunks[1].Status = ChunkEncoding
					return chunks
				}
			},
			want: ErrMissingChunk,
		},
		{
			name: "encoded chunk missing from blob store",
			setup: func(p *pipeline, video *Video) {
				chunks, err := p.store.ChunksByVideoID(context.Background(), video.ID)
				require.NoError(p.t, err)
				require.NoError(p.t, os.Remove(filepath.Join(p.blob.root, filepath.FromSlash(chunks[2].OutputPath))))
			},
			want: ErrMissingChunk,
		},
		{
			name: "concat failure",
			setup: func(p *pipeline, _ *Video) {
				p.proc.failConcat = true
			},
			want: ErrProcessorFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			p := newPipeline(t)
			p.addSource("clip.mp4", 3*6*time.Second)

			job, _, err := p.ingest("clip.mp4")
			require.NoError(t, err)
			assert.Empty(t, p.encodeAll(1))
			tt.setup(p, p.videoOf(job))

			muxEvents := p.take("mux")
			require.Len(t, muxEvents, 1)
			resp, err := p.muxer.Handle(ctx, muxEvents[0].(MuxJobArgs))
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, resp.StatusCode)

			video := p.videoOf(job)
			assert.Equal(t, VideoMuxing, video.Status)
			assert.Nil(t, video.OutputPath)
			ok, err := p.blob.Exists(ctx, MuxKey(video.ID))
			require.NoError(t, err)
			assert.False(t, ok, "no output published")
		})
	}
}

func TestEncodeTransientStoreErrors(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		committed bool
		// redelivered is the response to the second delivery.
		redelivered int
		wantStatus  ChunkStatus
	}{
		{name: "lookup fails", method: "GetChunkJob", redelivered: StatusOK, wantStatus: ChunkNew},
		{name: "completion fails", method: "CompleteChunk", redelivered: StatusOK, wantStatus: ChunkEncoding},
		{name: "completion acknowledgement lost", method: "CompleteChunk", committed: true, redelivered: StatusBadRequest, wantStatus: ChunkEncoded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			p := newPipeline(t)
			p.addSource("clip.mp4", 6*time.Second)

			job, _, err := p.ingest("clip.mp4")
			require.NoError(t, err)
			events := p.take("encode")
			require.Len(t, events, 1)
			args := events[0].(EncodeJobArgs)

			p.faulty.failNext(tt.method, 1, tt.committed)
			_, err = p.encoder.Handle(ctx, args, nil)
			assert.ErrorIs(t, err, errConnReset)
			assert.True(t, IsRetryable(err))
			assert.NotErrorIs(t, err, ErrStoreFailure)

			chunk, err := p.store.GetChunkJob(ctx, args.ChunkID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, chunk.Status)

			resp, err := p.encoder.Handle(ctx, args, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.redelivered, resp.StatusCode)
			assert.Equal(t, 1, p.muxCount())
			assert.Equal(t, VideoMuxing, p.videoOf(job).Status)
		})
	}
}

func TestEncodeFailureNotRecordedCanBeRetried(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("clip.mp4", 6*time.Second)
	p.proc.failTranscode[ChunkFileName(0, "clip.mp4")] = true

	job, _, err := p.ingest("clip.mp4")
	require.NoError(t, err)
	events := p.take("encode")
	require.Len(t, events, 1)
	args := events[0].(EncodeJobArgs)

	p.faulty.failNext("FailChunk", 1, false)
	_, err = p.encoder.Handle(ctx, args, nil)
	assert.ErrorIs(t, err, errConnReset)
	assert.True(t, IsRetryable(err))

	chunk, err := p.store.GetChunkJob(ctx, args.ChunkID)
	require.NoError(t, err)
	assert.Equal(t, ChunkEncoding, chunk.Status)

	// An operator can restart the stranded chunk without waiting for a
	// redelivery.
	p.proc.mu.Lock()
	p.proc.failTranscode = map[string]bool{}
	p.proc.mu.Unlock()
	require.NoError(t, p.store.RetryChunk(ctx, args.ChunkID))
	assert.Empty(t, p.encodeAll(1))
	assert.Equal(t, 1, p.muxCount())
	assert.Equal(t, VideoMuxing, p.videoOf(job).Status)
}

func TestIngestTransientStoreErrors(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		committed bool
	}{
		{name: "lookup fails", method: "GetIngestJob"},
		{name: "claim fails", method: "UpdateIngestStatus"},
		{name: "claim acknowledgement lost", method: "UpdateIngestStatus", committed: true},
		{name: "registration fails", method: "RegisterChunks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			p := newPipeline(t)
			p.addSource("clip.mp4", 12*time.Second)

			p.faulty.failNext(tt.method, 1, tt.committed)
			job, _, err := p.ingest("clip.mp4")
			assert.ErrorIs(t, err, errConnReset)
			assert.True(t, IsRetryable(err))

			got, err := p.store.GetIngestJob(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, IngestNew, got.Status)
			assert.Empty(t, p.take("encode"))

			resp, err := p.ingester.Handle(ctx, IngestJobArgs{JobID: job.ID, FileName: job.FileName})
			require.NoError(t, err)
			assert.Equal(t, okResponse(), resp)
			assert.Len(t, p.take("encode"), 2)
		})
	}
}

func TestIngestStrandedWhenRevertFails(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t)
	p.addSource("clip.mp4", 12*time.Second)

	// Registration fails, and so does the revert that follows the claim.
	p.faulty.failNext("RegisterChunks", 1, false)
	p.faulty.failAfter("UpdateIngestStatus", 1, 1)
	job, _, err := p.ingest("clip.mp4")
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.False(t, IsRetryable(err))

	got, err := p.store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestIngesting, got.Status)

	require.NoError(t, p.store.RetryIngest(ctx, job.ID))
	events := p.take("ingest")
	require.Len(t, events, 1)
	resp, err := p.ingester.Handle(ctx, events[0].(IngestJobArgs))
	require.NoError(t, err)
	assert.Equal(t, okResponse(), resp)
	assert.Len(t, p.take("encode"), 2)
}

func TestCheckForGaps(t *testing.T) {
	assert.NoError(t, checkForGaps([]string{"0000_a.mp4", "0001_a.mp4", "0002_a.mp4"}))
	assert.NoError(t, checkForGaps(nil))

	err := checkForGaps([]string{"0000_a.mp4", "0001_a.mp4", "0004_a.mp4"})
	assert.ErrorIs(t, err, ErrMissingChunk)
	assert.Contains(t, err.Error(), "[2 3]")

	assert.ErrorIs(t, checkForGaps([]string{"0000_a.mp4", "0000_a.mp4"}), ErrMissingChunk)

	err = checkForGaps([]string{"0002_a.mp4", "0003_a.mp4"})
	assert.ErrorIs(t, err, ErrMissingChunk)
	assert.Contains(t, err.Error(), "[0 1]")
}
