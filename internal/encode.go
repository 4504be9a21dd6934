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

// Encoder transcodes one chunk and records its completion. The completion
// that finishes the last outstanding chunk of a video triggers the mux.
type Encoder struct {
	Store     Store
	Blob      BlobStore
	Processor MediaProcessor
	Config    *PipelineConfig
	Logger    *slog.Logger
}

// Handle processes one encode event. A chunk in ChunkNew is claimed; a chunk
// already in ChunkEncoding is resumed, since that is what a redelivery after
// a retryable failure looks like. progress may be nil.
func (e *Encoder) Handle(ctx context.Context, args EncodeJobArgs, progress ProgressCallback) (resp Response, err error) {
	defer observeStage(QueueEncode, time.Now(), &resp, &err)
	logger := stageLogger(e.Logger, QueueEncode).With(
		slog.String("chunk_id", args.ChunkID.String()),
		slog.String("video_id", args.VideoID.String()))

	chunk, err := e.Store.GetChunkJob(ctx, args.ChunkID)
	if errors.Is(err, ErrNotFound) {
		return badRequest("chunk job %s not found", args.ChunkID), nil
	}
	if err != nil {
		return Response{}, storeError("failed to get chunk job", err)
	}

	switch chunk.Status {
	case ChunkNew:
		err := e.Store.UpdateChunkStatus(ctx, chunk.ID, ChunkNew, ChunkEncoding)
		if errors.Is(err, ErrConditionFailed) {
			logger.Info("chunk claimed by a concurrent delivery")
			return badRequest("chunk job %s already claimed", chunk.ID), nil
		}
		if err != nil {
			return Response{}, storeError("failed to claim chunk job", err)
		}
	case ChunkEncoding:
		logger.Info("resuming chunk")
	default:
		logger.Info("ignoring encode event", slog.String("status", string(chunk.Status)))
		return badRequest("chunk job %s is %s", chunk.ID, chunk.Status), nil
	}

	scratch, err := os.MkdirTemp(e.Config.ScratchDir, "encode-*")
	if err != nil {
		return Response{}, fmt.Errorf("%w: failed to create scratch directory: %w", ErrTransferFailure, err)
	}
	defer os.RemoveAll(scratch)

	src := filepath.Join(scratch, filepath.Base(args.InputPath))
	if err := e.Blob.Download(ctx, args.InputPath, src); err != nil {
		return Response{}, fmt.Errorf("%w: failed to download chunk: %w", ErrTransferFailure, err)
	}

	dst := filepath.Join(scratch, filepath.Base(args.OutputPath))
	err = e.Processor.Transcode(ctx, TranscodeParams{
		SourcePath:       src,
		DestinationPath:  dst,
		ProgressCallback: progress,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Response{}, fmt.Errorf("transcode interrupted: %w", ctx.Err())
		}
		return Response{}, e.fail(ctx, logger, chunk.ID, err)
	}

	if err := e.Blob.Upload(ctx, dst, args.OutputPath); err != nil {
		return Response{}, fmt.Errorf("%w: failed to upload encoded chunk: %w", ErrTransferFailure, err)
	}

	completion, err := e.Store.CompleteChunk(ctx, chunk.ID)
	if errors.Is(err, ErrConditionFailed) {
		logger.Info("chunk completed by a concurrent delivery")
		return badRequest("chunk job %s already completed", chunk.ID), nil
	}
	if err != nil {
		return Response{}, storeError("failed to complete chunk job", err)
	}

	if completion.Claimed {
		muxTriggers.Inc()
		logger.Info("last chunk encoded, mux triggered")
	} else {
		logger.Info("chunk encoded", slog.Int("remaining", completion.Remaining))
	}
	return okResponse(), nil
}

func (e *Encoder) fail(ctx context.Context, logger *slog.Logger, id uuid.UUID, cause error) error {
	reason := fmt.Sprintf("transcode failed: %v", cause)
	if err := e.Store.FailChunk(context.WithoutCancel(ctx), id, reason); err != nil {
		// Left in ChunkEncoding, a retryable error gets the chunk resumed.
		return storeError("failed to mark chunk job failed", err)
	}
	logger.Error("chunk failed", slog.String("reason", reason))
	return fmt.Errorf("%w: %w", ErrProcessorFailure, cause)
}
