package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/krelinga/chunked-transcoder/ctrest"
	"github.com/krelinga/chunked-transcoder/internal"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Error codes returned in ctrest.Error.Code.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeDuplicateUUID  = "DUPLICATE_UUID"
	codeConflict       = "CONFLICT"
	codeInternal       = "INTERNAL_ERROR"
)

// Server implements the ctrest.StrictServerInterface over a job store.
type Server struct {
	store  internal.Store
	logger *slog.Logger
}

// NewServer creates a new Server instance.
func NewServer(store internal.Store, logger *slog.Logger) *Server {
	return &Server{
		store:  store,
		logger: logger,
	}
}

// Router returns the HTTP handler for every API route plus /metrics.
func (s *Server) Router() (http.Handler, error) {
	validate, err := newRequestValidator()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(validate)
		strictHandler := ctrest.NewStrictHandlerWithOptions(s, nil, ctrest.StrictHTTPServerOptions{
			RequestErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
				writeError(w, http.StatusBadRequest, codeInvalidRequest, err)
			},
			ResponseErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
				writeError(w, http.StatusInternalServerError, codeInternal, err)
			},
		})
		ctrest.HandlerWithOptions(strictHandler, ctrest.ChiServerOptions{
			BaseRouter: r,
			ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
				writeError(w, http.StatusBadRequest, codeInvalidRequest, err)
			},
		})
	})
	return r, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		level := slog.LevelInfo
		if ww.Status() >= 500 {
			level = slog.LevelError
		} else if ww.Status() >= 400 {
			level = slog.LevelWarn
		}
		s.logger.Log(r.Context(), level, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", chimiddleware.GetReqID(r.Context())))
	})
}

// writeError answers requests rejected before they reach a handler.
func writeError(w http.ResponseWriter, status int, code string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ctrest.Error{Code: code, Message: err.Error()})
}

func apiError(code, format string, args ...any) ctrest.Error {
	return ctrest.Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// validFileName accepts a bare file name, since sources live directly under
// the input prefix.
func validFileName(name string) bool {
	return name != "" && name != "." && name != ".." && path.Base(name) == name
}

// CreateIngest handles POST /ingests requests.
func (s *Server) CreateIngest(ctx context.Context, request ctrest.CreateIngestRequestObject) (ctrest.CreateIngestResponseObject, error) {
	if request.Body == nil {
		return ctrest.CreateIngest400JSONResponse(apiError(codeInvalidRequest, "Request body is required")), nil
	}
	if !validFileName(request.Body.FileName) {
		return ctrest.CreateIngest400JSONResponse(apiError(codeInvalidRequest, "Invalid file name: %q", request.Body.FileName)), nil
	}

	job := &internal.IngestJob{
		ID:           uuid.New(),
		FileName:     request.Body.FileName,
		WebhookURI:   request.Body.WebhookUri,
		WebhookToken: request.Body.WebhookToken,
	}
	if request.Body.Uuid != nil {
		job.ID = *request.Body.Uuid
	}

	err := s.store.CreateIngestJob(ctx, job)
	if errors.Is(err, internal.ErrDuplicateKey) {
		return ctrest.CreateIngest409JSONResponse(apiError(codeDuplicateUUID, "An ingest job with UUID %s already exists", job.ID)), nil
	}
	if err != nil {
		return ctrest.CreateIngest500JSONResponse(apiError(codeInternal, "failed to create ingest job: %v", err)), nil
	}

	return ctrest.CreateIngest201JSONResponse(newIngest(job, nil)), nil
}

// GetIngest handles GET /ingests/{uuid} requests.
func (s *Server) GetIngest(ctx context.Context, request ctrest.GetIngestRequestObject) (ctrest.GetIngestResponseObject, error) {
	job, err := s.store.GetIngestJob(ctx, request.Uuid)
	if errors.Is(err, internal.ErrNotFound) {
		return ctrest.GetIngest404JSONResponse(apiError(codeNotFound, "Ingest job with UUID %s not found", request.Uuid)), nil
	}
	if err != nil {
		return ctrest.GetIngest500JSONResponse(apiError(codeInternal, "failed to get ingest job: %v", err)), nil
	}

	var chunks []*internal.ChunkJob
	if job.VideoID != nil {
		chunks, err = s.store.ChunksByVideoID(ctx, *job.VideoID)
		if err != nil {
			return ctrest.GetIngest500JSONResponse(apiError(codeInternal, "failed to list chunks: %v", err)), nil
		}
	}
	return ctrest.GetIngest200JSONResponse(newIngest(job, chunks)), nil
}

// RetryIngest handles POST /ingests/{uuid}/retry requests.
func (s *Server) RetryIngest(ctx context.Context, request ctrest.RetryIngestRequestObject) (ctrest.RetryIngestResponseObject, error) {
	err := s.store.RetryIngest(ctx, request.Uuid)
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return ctrest.RetryIngest404JSONResponse(apiError(codeNotFound, "Ingest job with UUID %s not found", request.Uuid)), nil
	case errors.Is(err, internal.ErrConditionFailed):
		return ctrest.RetryIngest409JSONResponse(apiError(codeConflict, "Ingest job %s has already registered its chunks", request.Uuid)), nil
	case err != nil:
		return ctrest.RetryIngest500JSONResponse(apiError(codeInternal, "failed to retry ingest job: %v", err)), nil
	}
	s.logger.InfoContext(ctx, "ingest retry requested", slog.String("ingest_id", request.Uuid.String()))
	return ctrest.RetryIngest202Response{}, nil
}

// GetVideo handles GET /videos/{videoId} requests.
func (s *Server) GetVideo(ctx context.Context, request ctrest.GetVideoRequestObject) (ctrest.GetVideoResponseObject, error) {
	video, err := s.store.GetVideo(ctx, request.VideoId)
	if errors.Is(err, internal.ErrNotFound) {
		return ctrest.GetVideo404JSONResponse(apiError(codeNotFound, "Video %s not found", request.VideoId)), nil
	}
	if err != nil {
		return ctrest.GetVideo500JSONResponse(apiError(codeInternal, "failed to get video: %v", err)), nil
	}
	chunks, err := s.store.ChunksByVideoID(ctx, video.ID)
	if err != nil {
		return ctrest.GetVideo500JSONResponse(apiError(codeInternal, "failed to list chunks: %v", err)), nil
	}
	return ctrest.GetVideo200JSONResponse(newVideo(video, chunks)), nil
}

// TriggerMux handles POST /videos/{videoId}/mux requests.
func (s *Server) TriggerMux(ctx context.Context, request ctrest.TriggerMuxRequestObject) (ctrest.TriggerMuxResponseObject, error) {
	err := s.store.TriggerMux(ctx, request.VideoId)
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return ctrest.TriggerMux404JSONResponse(apiError(codeNotFound, "Video %s not found", request.VideoId)), nil
	case errors.Is(err, internal.ErrConditionFailed):
		return ctrest.TriggerMux409JSONResponse(apiError(codeConflict, "Video %s is not muxing", request.VideoId)), nil
	case err != nil:
		return ctrest.TriggerMux500JSONResponse(apiError(codeInternal, "failed to trigger mux: %v", err)), nil
	}
	s.logger.InfoContext(ctx, "mux requested", slog.String("video_id", request.VideoId.String()))
	return ctrest.TriggerMux202Response{}, nil
}

// RetryChunk handles POST /chunks/{chunkId}/retry requests.
func (s *Server) RetryChunk(ctx context.Context, request ctrest.RetryChunkRequestObject) (ctrest.RetryChunkResponseObject, error) {
	err := s.store.RetryChunk(ctx, request.ChunkId)
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return ctrest.RetryChunk404JSONResponse(apiError(codeNotFound, "Chunk %s not found", request.ChunkId)), nil
	case errors.Is(err, internal.ErrConditionFailed):
		return ctrest.RetryChunk409JSONResponse(apiError(codeConflict, "Chunk %s is already encoded", request.ChunkId)), nil
	case err != nil:
		return ctrest.RetryChunk500JSONResponse(apiError(codeInternal, "failed to retry chunk: %v", err)), nil
	}
	s.logger.InfoContext(ctx, "chunk retry requested", slog.String("chunk_id", request.ChunkId.String()))
	return ctrest.RetryChunk202Response{}, nil
}

func newIngest(job *internal.IngestJob, chunks []*internal.ChunkJob) ctrest.Ingest {
	resp := ctrest.Ingest{
		Uuid:      job.ID,
		FileName:  job.FileName,
		Status:    ctrest.IngestStatus(job.Status),
		VideoId:   job.VideoID,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.UTC(),
		UpdatedAt: job.UpdatedAt.UTC(),
	}
	if job.VideoID != nil {
		counts := &ctrest.ChunkCounts{Total: len(chunks)}
		for _, chunk := range chunks {
			switch chunk.Status {
			case internal.ChunkNew:
				counts.New++
			case internal.ChunkEncoding:
				counts.Encoding++
			case internal.ChunkEncoded:
				counts.Encoded++
			case internal.ChunkFailed:
				counts.Failed++
			}
		}
		resp.Chunks = counts
	}
	return resp
}

func newVideo(video *internal.Video, chunks []*internal.ChunkJob) ctrest.Video {
	resp := ctrest.Video{
		Id:         video.ID,
		IngestId:   video.IngestID,
		Name:       video.Name,
		Status:     ctrest.VideoStatus(video.Status),
		Remaining:  video.Remaining,
		OutputPath: video.OutputPath,
		Chunks:     make([]ctrest.Chunk, 0, len(chunks)),
		CreatedAt:  video.CreatedAt.UTC(),
		UpdatedAt:  video.UpdatedAt.UTC(),
	}
	for _, chunk := range chunks {
		resp.Chunks = append(resp.Chunks, ctrest.Chunk{
			Id:     chunk.ID,
			Seq:    chunk.Seq,
			Status: ctrest.ChunkStatus(chunk.Status),
			Error:  chunk.Error,
		})
	}
	return resp
}
