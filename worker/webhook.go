package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/krelinga/chunked-transcoder/internal"
	"github.com/riverqueue/river"
)

// WebhookPayload is the JSON body sent to the webhook URI.
type WebhookPayload struct {
	Token      []byte     `json:"token,omitempty"`
	IngestID   uuid.UUID  `json:"ingestId"`
	VideoID    *uuid.UUID `json:"videoId,omitempty"`
	Status     string     `json:"status"`
	OutputPath *string    `json:"outputPath,omitempty"`
	Error      *string    `json:"error,omitempty"`
}

const (
	webhookStatusDone   = "done"
	webhookStatusFailed = "failed"
)

func payloadFor(args internal.WebhookJobArgs) WebhookPayload {
	payload := WebhookPayload{
		Token:      args.Token,
		IngestID:   args.IngestID,
		VideoID:    args.VideoID,
		Status:     webhookStatusDone,
		OutputPath: args.OutputPath,
		Error:      args.Error,
	}
	if args.Error != nil {
		payload.Status = webhookStatusFailed
	}
	return payload
}

// WebhookWorker handles webhook notification jobs.
type WebhookWorker struct {
	river.WorkerDefaults[internal.WebhookJobArgs]
	HTTPClient *http.Client
}

// Work POSTs the notification. Any non-2xx response is returned as an error
// so River retries delivery.
func (w *WebhookWorker) Work(ctx context.Context, job *river.Job[internal.WebhookJobArgs]) error {
	body, err := json.Marshal(payloadFor(job.Args))
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.Args.URI, bytes.NewReader(body))
	if err != nil {
		return river.JobCancel(fmt.Errorf("failed to create webhook request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return nil
}
