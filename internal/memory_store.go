package internal

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// MemoryStore is a Store held in process memory with the same conditional
// semantics as PostgresStore. Events are handed to Dispatch after the write
// that produced them is applied, in the order they were produced.
type MemoryStore struct {
	mu      sync.Mutex
	ingests map[uuid.UUID]*IngestJob
	chunks  map[uuid.UUID]*ChunkJob
	videos  map[uuid.UUID]*Video

	// Dispatch receives every emitted event. It may call back into the store.
	Dispatch func(ctx context.Context, args river.JobArgs)
}

func NewMemoryStore(dispatch func(ctx context.Context, args river.JobArgs)) *MemoryStore {
	return &MemoryStore{
		ingests:  make(map[uuid.UUID]*IngestJob),
		chunks:   make(map[uuid.UUID]*ChunkJob),
		videos:   make(map[uuid.UUID]*Video),
		Dispatch: dispatch,
	}
}

// update runs fn under the store lock and dispatches whatever it emitted once
// the lock is released.
func (s *MemoryStore) update(ctx context.Context, fn func(emit func(river.JobArgs)) error) error {
	var events []river.JobArgs
	emit := func(args river.JobArgs) { events = append(events, args) }

	s.mu.Lock()
	err := fn(emit)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.Dispatch != nil {
		for _, args := range events {
			s.Dispatch(ctx, args)
		}
	}
	return nil
}

func emitWebhook(emit func(river.JobArgs), args *WebhookJobArgs) {
	if args != nil {
		emit(*args)
	}
}

func (s *MemoryStore) CreateIngestJob(ctx context.Context, job *IngestJob) error {
	return s.update(ctx, func(emit func(river.JobArgs)) error {
		if _, ok := s.ingests[job.ID]; ok {
			return fmt.Errorf("%w: ingest job %s", ErrDuplicateKey, job.ID)
		}
		now := time.Now()
		job.Status = IngestNew
		job.CreatedAt = now
		job.UpdatedAt = now
		stored := *job
		s.ingests[job.ID] = &stored
		emit(IngestJobArgs{JobID: job.ID, FileName: job.FileName})
		return nil
	})
}

func (s *MemoryStore) GetIngestJob(_ context.Context, id uuid.UUID) (*IngestJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.ingests[id]
	if !ok {
		return nil, fmt.Errorf("%w: ingest_jobs %s", ErrNotFound, id)
	}
	copied := *job
	return &copied, nil
}

func (s *MemoryStore) ingestIn(id uuid.UUID, from ...IngestStatus) (*IngestJob, error) {
	job, ok := s.ingests[id]
	if !ok {
		return nil, fmt.Errorf("%w: ingest_jobs %s", ErrNotFound, id)
	}
	if !slices.Contains(from, job.Status) {
		return nil, fmt.Errorf("%w: ingest_jobs %s is %q, want %q", ErrConditionFailed, id, job.Status, from)
	}
	return job, nil
}

func (s *MemoryStore) UpdateIngestStatus(ctx context.Context, id uuid.UUID, from, to IngestStatus) error {
	return s.update(ctx, func(func(river.JobArgs)) error {
		job, err := s.ingestIn(id, from)
		if err != nil {
			return err
		}
		job.Status = to
		job.UpdatedAt = time.Now()
		return nil
	})
}

func (s *MemoryStore) FailIngest(ctx context.Context, id uuid.UUID, from IngestStatus, reason string) error {
	return s.update(ctx, func(emit func(river.JobArgs)) error {
		job, err := s.ingestIn(id, from)
		if err != nil {
			return err
		}
		job.Status = IngestFailed
		job.Error = &reason
		job.UpdatedAt = time.Now()
		emitWebhook(emit, webhookFor(job, nil, nil, &reason))
		return nil
	})
}

func (s *MemoryStore) RegisterChunks(ctx context.Context, ingestID uuid.UUID, video *Video, chunks []*ChunkJob) error {
	return s.update(ctx, func(emit func(river.JobArgs)) error {
		job, err := s.ingestIn(ingestID, IngestIngesting)
		if err != nil {
			return err
		}
		if _, ok := s.videos[video.ID]; ok {
			return fmt.Errorf("%w: video %s", ErrDuplicateKey, video.ID)
		}
		seen := make(map[uuid.UUID]bool, len(chunks))
		for _, chunk := range chunks {
			if _, ok := s.chunks[chunk.ID]; ok || seen[chunk.ID] {
				return fmt.Errorf("%w: chunk job %s", ErrDuplicateKey, chunk.ID)
			}
			seen[chunk.ID] = true
		}

		now := time.Now()
		video.IngestID = ingestID
		video.ChunkCount = len(chunks)
		video.Remaining = len(chunks)
		video.Status = VideoEncoding
		video.CreatedAt = now
		video.UpdatedAt = now
		storedVideo := *video
		s.videos[video.ID] = &storedVideo

		for _, chunk := range chunks {
			chunk.VideoID = video.ID
			chunk.Status = ChunkNew
			chunk.CreatedAt = now
			chunk.UpdatedAt = now
			storedChunk := *chunk
			s.chunks[chunk.ID] = &storedChunk
		}

		videoID := video.ID
		job.Status = IngestEncoding
		job.VideoID = &videoID
		job.UpdatedAt = now

		for _, chunk := range chunks {
			emit(encodeArgsFor(chunk))
		}
		return nil
	})
}

func (s *MemoryStore) RetryIngest(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, func(emit func(river.JobArgs)) error {
		job, err := s.ingestIn(id, RetryableIngestStatuses...)
		if err != nil {
			return err
		}
		job.Status = IngestNew
		job.Error = nil
		job.UpdatedAt = time.Now()
		emit(IngestJobArgs{JobID: job.ID, FileName: job.FileName})
		return nil
	})
}

func (s *MemoryStore) GetChunkJob(_ context.Context, id uuid.UUID) (*ChunkJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, fmt.Errorf("%w: chunk_jobs %s", ErrNotFound, id)
	}
	copied := *chunk
	return &copied, nil
}

func (s *MemoryStore) chunkIn(id uuid.UUID, from ...ChunkStatus) (*ChunkJob, error) {
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, fmt.Errorf("%w: chunk_jobs %s", ErrNotFound, id)
	}
	if !slices.Contains(from, chunk.Status) {
		return nil, fmt.Errorf("%w: chunk_jobs %s is %q, want %q", ErrConditionFailed, id, chunk.Status, from)
	}
	return chunk, nil
}

func (s *MemoryStore) UpdateChunkStatus(ctx context.Context, id uuid.UUID, from, to ChunkStatus) error {
	return s.update(ctx, func(func(river.JobArgs)) error {
		chunk, err := s.chunkIn(id, from)
		if err != nil {
			return err
		}
		chunk.Status = to
		chunk.UpdatedAt = time.Now()
		return nil
	})
}

func (s *MemoryStore) ChunksByVideoID(_ context.Context, videoID uuid.UUID) ([]*ChunkJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var chunks []*ChunkJob
	for _, chunk := range s.chunks {
		if chunk.VideoID == videoID {
			copied := *chunk
			chunks = append(chunks, &copied)
		}
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Seq < chunks[j].Seq
	})
	return chunks, nil
}

func (s *MemoryStore) CompleteChunk(ctx context.Context, chunkID uuid.UUID) (*Completion, error) {
	var completion Completion
	err := s.update(ctx, func(emit func(river.JobArgs)) error {
		chunk, err := s.chunkIn(chunkID, ChunkEncoding)
		if err != nil {
			return err
		}
		video, ok := s.videos[chunk.VideoID]
		if !ok {
			return fmt.Errorf("%w: videos %s", ErrNotFound, chunk.VideoID)
		}

		now := time.Now()
		chunk.Status = ChunkEncoded
		chunk.UpdatedAt = now
		video.Remaining--
		video.UpdatedAt = now

		completion.VideoID = video.ID
		completion.Remaining = video.Remaining
		if video.Remaining == 0 && video.Status == VideoEncoding {
			video.Status = VideoMuxing
			completion.Claimed = true
			emit(MuxJobArgs{VideoID: video.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (s *MemoryStore) FailChunk(ctx context.Context, chunkID uuid.UUID, reason string) error {
	return s.update(ctx, func(emit func(river.JobArgs)) error {
		chunk, err := s.chunkIn(chunkID, ChunkEncoding)
		if err != nil {
			return err
		}
		video, ok := s.videos[chunk.VideoID]
		if !ok {
			return fmt.Errorf("%w: videos %s", ErrNotFound, chunk.VideoID)
		}

		now := time.Now()
		chunk.Status = ChunkFailed
		chunk.Error = &reason
		chunk.UpdatedAt = now
		video.FailedChunks++
		video.UpdatedAt = now

		if job, ok := s.ingests[video.IngestID]; ok {
			videoID := video.ID
			msg := fmt.Sprintf("chunk %s failed: %s", chunkID, reason)
			emitWebhook(emit, webhookFor(job, &videoID, nil, &msg))
		}
		return nil
	})
}

func (s *MemoryStore) RetryChunk(ctx context.Context, chunkID uuid.UUID) error {
	return s.update(ctx, func(emit func(river.JobArgs)) error {
		chunk, err := s.chunkIn(chunkID, RetryableChunkStatuses...)
		if err != nil {
			return err
		}
		now := time.Now()
		if video, ok := s.videos[chunk.VideoID]; ok && chunk.Status == ChunkFailed {
			video.FailedChunks--
			video.UpdatedAt = now
		}
		chunk.Status = ChunkNew
		chunk.Error = nil
		chunk.UpdatedAt = now
		emit(encodeArgsFor(chunk))
		return nil
	})
}

func (s *MemoryStore) GetVideo(_ context.Context, id uuid.UUID) (*Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return nil, fmt.Errorf("%w: videos %s", ErrNotFound, id)
	}
	copied := *video
	return &copied, nil
}

func (s *MemoryStore) videoIn(id uuid.UUID, from VideoStatus) (*Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return nil, fmt.Errorf("%w: videos %s", ErrNotFound, id)
	}
	if video.Status != from {
		return nil, fmt.Errorf("%w: videos %s is %q, want %q", ErrConditionFailed, id, video.Status, from)
	}
	return video, nil
}

func (s *MemoryStore) TriggerMux(ctx context.Context, videoID uuid.UUID) error {
	return s.update(ctx, func(emit func(river.JobArgs)) error {
		if _, err := s.videoIn(videoID, VideoMuxing); err != nil {
			return err
		}
		emit(MuxJobArgs{VideoID: videoID})
		return nil
	})
}

func (s *MemoryStore) FinishVideo(ctx context.Context, videoID uuid.UUID, outputPath string) error {
	return s.update(ctx, func(emit func(river.JobArgs)) error {
		video, err := s.videoIn(videoID, VideoMuxing)
		if err != nil {
			return err
		}
		video.Status = VideoDone
		video.OutputPath = &outputPath
		video.UpdatedAt = time.Now()

		if job, ok := s.ingests[video.IngestID]; ok {
			id := video.ID
			emitWebhook(emit, webhookFor(job, &id, &outputPath, nil))
		}
		return nil
	})
}
