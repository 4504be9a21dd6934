package internal

import (
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// River queues, one per stage so encode parallelism can be tuned on its own.
const (
	QueueIngest  = "ingest"
	QueueEncode  = "encode"
	QueueMux     = "mux"
	QueueWebhook = "webhook"
)

// IngestJobArgs is the event emitted when a new IngestJob is created.
type IngestJobArgs struct {
	JobID    uuid.UUID `json:"jobId"`
	FileName string    `json:"fileName"`
}

// Kind returns the job kind identifier for River.
func (IngestJobArgs) Kind() string {
	return "ingest"
}

func (IngestJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueIngest}
}

// EncodeJobArgs is the event emitted for every ChunkJob that enters ChunkNew.
type EncodeJobArgs struct {
	ChunkID    uuid.UUID `json:"chunkId"`
	VideoID    uuid.UUID `json:"videoId"`
	InputPath  string    `json:"inputPath"`
	OutputPath string    `json:"outputPath"`
}

// Kind returns the job kind identifier for River.
func (EncodeJobArgs) Kind() string {
	return "encode"
}

func (EncodeJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueEncode}
}

// MuxJobArgs is emitted once per video, by the chunk completion that claims it.
type MuxJobArgs struct {
	VideoID uuid.UUID `json:"videoId"`
}

// Kind returns the job kind identifier for River.
func (MuxJobArgs) Kind() string {
	return "mux"
}

func (MuxJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueMux}
}

// ChunkProgress is recorded as River job output while a chunk is encoding.
type ChunkProgress struct {
	// Progress is the transcoding progress percentage (0-100).
	Progress float64 `json:"progress"`
	// Error contains an error message if the chunk failed.
	Error *string `json:"error,omitempty"`
}

// WebhookJobArgs contains the arguments for a webhook notification job.
type WebhookJobArgs struct {
	URI        string     `json:"uri"`
	Token      []byte     `json:"token,omitempty"`
	IngestID   uuid.UUID  `json:"ingestId"`
	VideoID    *uuid.UUID `json:"videoId,omitempty"`
	OutputPath *string    `json:"outputPath,omitempty"`
	Error      *string    `json:"error,omitempty"`
}

// Kind returns the job kind identifier for River.
func (WebhookJobArgs) Kind() string {
	return "webhook"
}

func (WebhookJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueWebhook}
}

// webhookFor builds the notification for an ingest, or returns nil when the
// ingest did not ask for one.
func webhookFor(job *IngestJob, videoID *uuid.UUID, outputPath *string, errMsg *string) *WebhookJobArgs {
	if job.WebhookURI == nil || *job.WebhookURI == "" {
		return nil
	}
	return &WebhookJobArgs{
		URI:        *job.WebhookURI,
		Token:      job.WebhookToken,
		IngestID:   job.ID,
		VideoID:    videoID,
		OutputPath: outputPath,
		Error:      errMsg,
	}
}
