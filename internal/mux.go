package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Muxer joins the encoded chunks of a video with its audio track and
// publishes the result. Every error leaves the video in VideoMuxing so the
// event can be redelivered.
type Muxer struct {
	Store     Store
	Blob      BlobStore
	Processor MediaProcessor
	Config    *PipelineConfig
	Logger    *slog.Logger
}

func (m *Muxer) Handle(ctx context.Context, args MuxJobArgs) (resp Response, err error) {
	defer observeStage(QueueMux, time.Now(), &resp, &err)
	logger := stageLogger(m.Logger, QueueMux).With(slog.String("video_id", args.VideoID.String()))

	video, err := m.Store.GetVideo(ctx, args.VideoID)
	if errors.Is(err, ErrNotFound) {
		return badRequest("video %s not found", args.VideoID), nil
	}
	if err != nil {
		return Response{}, fmt.Errorf("failed to get video: %w", err)
	}
	if video.Status != VideoMuxing {
		logger.Info("ignoring mux event", slog.String("status", string(video.Status)))
		return badRequest("video %s is %s, not %s", video.ID, video.Status, VideoMuxing), nil
	}

	chunks, err := m.Store.ChunksByVideoID(ctx, video.ID)
	if err != nil {
		return Response{}, fmt.Errorf("failed to list chunks: %w", err)
	}
	if len(chunks) != video.ChunkCount {
		return Response{}, fmt.Errorf("%w: video %s has %d of %d chunks", ErrMissingChunk, video.ID, len(chunks), video.ChunkCount)
	}
	for _, chunk := range chunks {
		if chunk.Status != ChunkEncoded {
			return Response{}, fmt.Errorf("%w: chunk %d (%s) is %s", ErrMissingChunk, chunk.Seq, chunk.ID, chunk.Status)
		}
	}

	var absent []int
	for _, chunk := range chunks {
		ok, err := m.Blob.Exists(ctx, chunk.OutputPath)
		if err != nil {
			return Response{}, fmt.Errorf("failed to check chunk %d: %w", chunk.Seq, err)
		}
		if !ok {
			absent = append(absent, chunk.Seq)
		}
	}
	if len(absent) > 0 {
		return Response{}, fmt.Errorf("%w: no encoded output for chunks %v", ErrMissingChunk, absent)
	}

	ok, err := m.Blob.Exists(ctx, video.AudioPath)
	if err != nil {
		return Response{}, fmt.Errorf("failed to check audio: %w", err)
	}
	if !ok {
		return Response{}, fmt.Errorf("%w: %s", ErrMissingAudio, video.AudioPath)
	}

	scratch, err := os.MkdirTemp(m.Config.ScratchDir, "mux-*")
	if err != nil {
		return Response{}, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	audio := filepath.Join(scratch, AudioFileName)
	if err := m.Blob.Download(ctx, video.AudioPath, audio); err != nil {
		return Response{}, fmt.Errorf("failed to download audio: %w", err)
	}

	local := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		path := filepath.Join(scratch, filepath.Base(chunk.OutputPath))
		if err := m.Blob.Download(ctx, chunk.OutputPath, path); err != nil {
			return Response{}, fmt.Errorf("failed to download chunk %d: %w", chunk.Seq, err)
		}
		local = append(local, path)
	}

	// Store order is by seq already; the file names are what ffmpeg sees, so
	// order by those.
	if err := SortChunkPaths(local); err != nil {
		return Response{}, err
	}
	if err := checkForGaps(local); err != nil {
		return Response{}, err
	}

	manifest := filepath.Join(scratch, "concat.txt")
	if err := WriteConcatManifest(manifest, local); err != nil {
		return Response{}, err
	}

	key := MuxKey(video.ID)
	output := filepath.Join(scratch, filepath.Base(key))
	if err := m.Processor.Concat(ctx, manifest, audio, output); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrProcessorFailure, err)
	}
	if err := m.Blob.Upload(ctx, output, key); err != nil {
		return Response{}, fmt.Errorf("%w: failed to upload output: %w", ErrTransferFailure, err)
	}

	err = m.Store.FinishVideo(ctx, video.ID, key)
	if errors.Is(err, ErrConditionFailed) {
		logger.Info("video finished by a concurrent delivery")
		return badRequest("video %s already finished", video.ID), nil
	}
	if err != nil {
		return Response{}, fmt.Errorf("failed to finish video: %w", err)
	}

	logger.Info("video muxed", slog.String("output", key), slog.Int("chunks", len(local)))
	return okResponse(), nil
}

// checkForGaps reports sequence numbers missing from paths, which must
// already be sorted. Numbering starts at zero, so a missing leading chunk is
// a gap too.
func checkForGaps(paths []string) error {
	var gaps []int
	prev := -1
	for _, path := range paths {
		seq, err := ChunkSeq(path)
		if err != nil {
			return err
		}
		if seq == prev {
			return fmt.Errorf("%w: duplicate chunk %d", ErrMissingChunk, seq)
		}
		for missing := prev + 1; missing < seq; missing++ {
			gaps = append(gaps, missing)
		}
		prev = seq
	}
	if len(gaps) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingChunk, gaps)
	}
	return nil
}
