package internal

import (
	"time"

	"github.com/google/uuid"
)

type IngestStatus string

const (
	IngestNew       IngestStatus = "new"
	IngestIngesting IngestStatus = "ingesting"
	IngestEncoding  IngestStatus = "encoding"
	IngestDone      IngestStatus = "done"
	IngestFailed    IngestStatus = "failed"
)

// RetryableIngestStatuses are the statuses RetryIngest starts over from:
// a failed ingest, or one stranded before its chunks were registered.
var RetryableIngestStatuses = []IngestStatus{IngestNew, IngestIngesting, IngestFailed}

type ChunkStatus string

const (
	ChunkNew      ChunkStatus = "new"
	ChunkEncoding ChunkStatus = "encoding"
	ChunkEncoded  ChunkStatus = "encoded"
	ChunkFailed   ChunkStatus = "failed"
)

// RetryableChunkStatuses are the statuses RetryChunk starts over from:
// every status short of ChunkEncoded.
var RetryableChunkStatuses = []ChunkStatus{ChunkNew, ChunkEncoding, ChunkFailed}

type VideoStatus string

const (
	VideoEncoding VideoStatus = "encoding"
	VideoMuxing   VideoStatus = "muxing"
	VideoDone     VideoStatus = "done"
)

// IngestJob is one uploaded source file waiting to be split into chunks.
type IngestJob struct {
	ID           uuid.UUID
	FileName     string
	Status       IngestStatus
	VideoID      *uuid.UUID
	Error        *string
	WebhookURI   *string
	WebhookToken []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChunkJob is one segment of a source video. VideoID groups the chunks
// produced by a single ingest and never changes after creation.
type ChunkJob struct {
	ID         uuid.UUID
	VideoID    uuid.UUID
	Seq        int
	InputPath  string
	OutputPath string
	Status     ChunkStatus
	Error      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Video tracks fan-in progress for the chunks of one ingest. Remaining is
// decremented once per chunk that reaches ChunkEncoded; the transition from
// VideoEncoding to VideoMuxing is the mux claim.
type Video struct {
	ID           uuid.UUID
	IngestID     uuid.UUID
	Name         string
	ChunkCount   int
	Remaining    int
	FailedChunks int
	AudioPath    string
	OutputPath   *string
	Status       VideoStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Completion is the outcome of marking a chunk encoded.
type Completion struct {
	VideoID   uuid.UUID
	Remaining int
	// Claimed is true for exactly one chunk per video: the one whose
	// completion took Remaining to zero. The mux job has been enqueued.
	Claimed bool
}
