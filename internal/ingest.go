package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Ingester splits a source video into chunks and registers a chunk job for
// each of them.
type Ingester struct {
	Store     Store
	Blob      BlobStore
	Processor MediaProcessor
	Config    *PipelineConfig
	Logger    *slog.Logger
}

// Handle processes one ingest event. Only an ingest job in IngestNew is
// worked on; any other status yields a StatusBadRequest response and no
// side effects, which makes redelivered events harmless.
func (i *Ingester) Handle(ctx context.Context, args IngestJobArgs) (resp Response, err error) {
	defer observeStage(QueueIngest, time.Now(), &resp, &err)
	logger := stageLogger(i.Logger, QueueIngest).With(slog.String("ingest_id", args.JobID.String()))

	job, err := i.Store.GetIngestJob(ctx, args.JobID)
	if errors.Is(err, ErrNotFound) {
		return badRequest("ingest job %s not found", args.JobID), nil
	}
	if err != nil {
		return Response{}, storeError("failed to get ingest job", err)
	}
	if job.Status != IngestNew {
		logger.Info("ignoring ingest event", slog.String("status", string(job.Status)))
		return badRequest("ingest job %s is %s, not %s", job.ID, job.Status, IngestNew), nil
	}

	err = i.Store.UpdateIngestStatus(ctx, job.ID, IngestNew, IngestIngesting)
	if errors.Is(err, ErrConditionFailed) {
		logger.Info("ingest job claimed by a concurrent delivery")
		return badRequest("ingest job %s already claimed", job.ID), nil
	}
	if err != nil {
		// The claim may have committed before the error; undo it.
		return Response{}, i.revert(ctx, logger, job.ID, storeError("failed to claim ingest job", err))
	}

	scratch, err := os.MkdirTemp(i.Config.ScratchDir, "ingest-*")
	if err != nil {
		return Response{}, i.revert(ctx, logger, job.ID, fmt.Errorf("%w: failed to create scratch directory: %w", ErrTransferFailure, err))
	}
	defer os.RemoveAll(scratch)

	src := filepath.Join(scratch, filepath.Base(job.FileName))
	if err := i.Blob.Download(ctx, SourceKey(job.FileName), src); err != nil {
		return Response{}, i.revert(ctx, logger, job.ID, fmt.Errorf("%w: failed to download source: %w", ErrTransferFailure, err))
	}

	chunkPaths, err := i.Processor.Segment(ctx, src, filepath.Join(scratch, "chunks"), job.FileName, i.Config.SegmentDuration)
	if err != nil {
		return Response{}, i.processorFailed(ctx, logger, job.ID, "failed to segment source", err)
	}

	if len(chunkPaths) == 0 {
		logger.Warn("source produced no chunks", slog.String("file", job.FileName))
		if err := i.Store.UpdateIngestStatus(ctx, job.ID, IngestIngesting, IngestDone); err != nil {
			return Response{}, i.storeFailed(ctx, logger, job.ID, storeError("failed to finish empty ingest", err))
		}
		return okResponse(), nil
	}

	audio := filepath.Join(scratch, AudioFileName)
	if err := i.Processor.ExtractAudio(ctx, src, audio); err != nil {
		return Response{}, i.processorFailed(ctx, logger, job.ID, "failed to extract audio", err)
	}

	name := VideoName(job.FileName)
	video := &Video{
		ID:        uuid.New(),
		Name:      name,
		AudioPath: AudioKey(name),
	}
	if err := i.Blob.Upload(ctx, audio, video.AudioPath); err != nil {
		return Response{}, i.revert(ctx, logger, job.ID, fmt.Errorf("%w: failed to upload audio: %w", ErrTransferFailure, err))
	}

	chunks := make([]*ChunkJob, 0, len(chunkPaths))
	for _, path := range chunkPaths {
		seq, err := ChunkSeq(path)
		if err != nil {
			return Response{}, i.processorFailed(ctx, logger, job.ID, "unexpected chunk name", err)
		}
		chunkFile := filepath.Base(path)
		chunk := &ChunkJob{
			ID:         uuid.New(),
			Seq:        seq,
			InputPath:  ChunkKey(name, chunkFile),
			OutputPath: EncodedChunkKey(name, chunkFile),
		}
		if err := i.Blob.Upload(ctx, path, chunk.InputPath); err != nil {
			return Response{}, i.revert(ctx, logger, job.ID, fmt.Errorf("%w: failed to upload chunk %d: %w", ErrTransferFailure, seq, err))
		}
		chunks = append(chunks, chunk)
	}

	if err := i.Store.RegisterChunks(ctx, job.ID, video, chunks); err != nil {
		return Response{}, i.storeFailed(ctx, logger, job.ID, storeError("failed to register chunks", err))
	}
	chunksRegistered.Add(float64(len(chunks)))

	logger.Info("registered chunks",
		slog.String("video_id", video.ID.String()),
		slog.Int("chunks", len(chunks)))
	return okResponse(), nil
}

// revert hands the ingest job back to IngestNew so a redelivery can start
// over, then returns cause. The write ignores cancellation of ctx since an
// interrupted attempt must still be reverted. A job that is no longer in
// IngestIngesting is left as it is.
func (i *Ingester) revert(ctx context.Context, logger *slog.Logger, id uuid.UUID, cause error) error {
	err := i.Store.UpdateIngestStatus(context.WithoutCancel(ctx), id, IngestIngesting, IngestNew)
	if err != nil && !errors.Is(err, ErrConditionFailed) {
		logger.Error("failed to revert ingest job, it needs a manual retry",
			slog.Any("error", err), slog.Any("cause", cause))
		return fmt.Errorf("%w: failed to revert ingest job after %v: %w", ErrStoreFailure, cause, err)
	}
	logger.Warn("ingest reverted for retry", slog.Any("error", cause))
	return cause
}

// storeFailed reverts the job when a store error is retryable and otherwise
// returns it unchanged.
func (i *Ingester) storeFailed(ctx context.Context, logger *slog.Logger, id uuid.UUID, err error) error {
	if !IsRetryable(err) {
		logger.Error("ingest stuck, it needs a manual retry", slog.Any("error", err))
		return err
	}
	return i.revert(ctx, logger, id, err)
}

// processorFailed marks the ingest job failed. A canceled context is not the
// processor's fault, so in that case the job is reverted instead.
func (i *Ingester) processorFailed(ctx context.Context, logger *slog.Logger, id uuid.UUID, msg string, cause error) error {
	if ctx.Err() != nil {
		return i.revert(ctx, logger, id, fmt.Errorf("%s: %w", msg, ctx.Err()))
	}
	reason := fmt.Sprintf("%s: %v", msg, cause)
	if err := i.Store.FailIngest(context.WithoutCancel(ctx), id, IngestIngesting, reason); err != nil {
		return i.storeFailed(ctx, logger, id, storeError("failed to mark ingest job failed", err))
	}
	logger.Error("ingest failed", slog.String("reason", reason))
	return fmt.Errorf("%w: %s: %w", ErrProcessorFailure, msg, cause)
}
