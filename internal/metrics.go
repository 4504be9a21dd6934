package internal

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage outcomes reported by the stage counters.
const (
	OutcomeOK        = "ok"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
	OutcomeRetry     = "retry"
)

var (
	stageInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chunked_transcoder_stage_invocations_total",
		Help: "Stage handler invocations by outcome",
	}, []string{"stage", "outcome"})
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chunked_transcoder_stage_duration_seconds",
		Help:    "Time spent in a stage handler",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"stage"})
	muxTriggers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chunked_transcoder_mux_triggers_total",
		Help: "Chunk completions that claimed a video for muxing",
	})
	chunksRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chunked_transcoder_chunks_registered_total",
		Help: "Chunk jobs created by the ingest stage",
	})
)

// observeStage records one handler invocation. It is meant to be deferred
// with a pointer to the handler's named error result.
func observeStage(stage string, start time.Time, resp *Response, err *error) {
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	stageInvocations.WithLabelValues(stage, outcomeOf(*resp, *err)).Inc()
}

func outcomeOf(resp Response, err error) string {
	switch {
	case err != nil && IsRetryable(err):
		return OutcomeRetry
	case err != nil:
		return OutcomeFailed
	case resp.StatusCode == StatusBadRequest:
		return OutcomeDuplicate
	default:
		return OutcomeOK
	}
}
