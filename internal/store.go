package internal

import (
	"context"

	"github.com/google/uuid"
)

// Store is the durable job-state store shared by every stage. Writes that
// represent a state change emit the matching event (a River job) atomically
// with the write itself, so an event is never lost or sent for a write that
// did not commit.
//
// Conditional updates take the status the caller expects to find. They fail
// with ErrNotFound if the record does not exist and ErrConditionFailed if it
// is in any other status. The store does not check that a transition moves
// forward; callers must not issue backward transitions.
type Store interface {
	// CreateIngestJob inserts a new ingest in IngestNew and emits its ingest
	// event. Fails with ErrDuplicateKey if the id is taken.
	CreateIngestJob(ctx context.Context, job *IngestJob) error
	GetIngestJob(ctx context.Context, id uuid.UUID) (*IngestJob, error)
	UpdateIngestStatus(ctx context.Context, id uuid.UUID, from, to IngestStatus) error
	// FailIngest moves an ingest from `from` to IngestFailed and records why.
	FailIngest(ctx context.Context, id uuid.UUID, from IngestStatus, reason string) error
	// RetryIngest moves an ingest in one of RetryableIngestStatuses back to
	// IngestNew, clears its error and emits a fresh ingest event. It is the
	// operator's way out for a failed ingest or one whose worker gave up.
	RetryIngest(ctx context.Context, id uuid.UUID) error

	// RegisterChunks records the fan-out of one ingest: the video with its
	// remaining counter set to len(chunks), every chunk in ChunkNew, the ingest
	// moved from IngestIngesting to IngestEncoding, and one encode event per
	// chunk. All or nothing.
	RegisterChunks(ctx context.Context, ingestID uuid.UUID, video *Video, chunks []*ChunkJob) error

	GetChunkJob(ctx context.Context, id uuid.UUID) (*ChunkJob, error)
	UpdateChunkStatus(ctx context.Context, id uuid.UUID, from, to ChunkStatus) error
	// ChunksByVideoID returns every chunk of a video ordered by Seq.
	ChunksByVideoID(ctx context.Context, videoID uuid.UUID) ([]*ChunkJob, error)
	// CompleteChunk moves a chunk from ChunkEncoding to ChunkEncoded and
	// decrements its video's remaining counter. The call that takes the counter
	// to zero claims the video (VideoEncoding to VideoMuxing) and emits the mux
	// event; every other call reports Claimed == false.
	CompleteChunk(ctx context.Context, chunkID uuid.UUID) (*Completion, error)
	// FailChunk moves a chunk from ChunkEncoding to ChunkFailed. A failed chunk
	// keeps its video's counter above zero, which blocks muxing.
	FailChunk(ctx context.Context, chunkID uuid.UUID, reason string) error
	// RetryChunk moves a chunk in one of RetryableChunkStatuses back to
	// ChunkNew and emits a fresh encode event. A failed chunk stops counting
	// against its video.
	RetryChunk(ctx context.Context, chunkID uuid.UUID) error

	GetVideo(ctx context.Context, id uuid.UUID) (*Video, error)
	// TriggerMux re-emits the mux event for a video already in VideoMuxing.
	TriggerMux(ctx context.Context, videoID uuid.UUID) error
	// FinishVideo moves a video from VideoMuxing to VideoDone.
	FinishVideo(ctx context.Context, videoID uuid.UUID, outputPath string) error
}
