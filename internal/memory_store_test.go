package internal

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventLog records dispatched events for assertions.
type eventLog struct {
	mu     sync.Mutex
	events []river.JobArgs
}

func (l *eventLog) dispatch(_ context.Context, args river.JobArgs) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, args)
}

func (l *eventLog) count(kind string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

// registeredVideo creates an ingest job and registers n chunks for it.
func registeredVideo(t *testing.T, store Store, n int) (*IngestJob, *Video, []*ChunkJob) {
	t.Helper()
	ctx := context.Background()

	uri := "http://hooks.example/done"
	job := &IngestJob{ID: uuid.New(), FileName: "movie.mp4", WebhookURI: &uri, WebhookToken: []byte("secret")}
	require.NoError(t, store.CreateIngestJob(ctx, job))
	require.NoError(t, store.UpdateIngestStatus(ctx, job.ID, IngestNew, IngestIngesting))

	video := &Video{ID: uuid.New(), Name: "movie", AudioPath: AudioKey("movie")}
	chunks := make([]*ChunkJob, n)
	for i := range chunks {
		file := ChunkFileName(i, job.FileName)
		chunks[i] = &ChunkJob{
			ID:         uuid.New(),
			Seq:        i,
			InputPath:  ChunkKey("movie", file),
			OutputPath: EncodedChunkKey("movie", file),
		}
	}
	require.NoError(t, store.RegisterChunks(ctx, job.ID, video, chunks))
	return job, video, chunks
}

func TestMemoryStoreIngestJobs(t *testing.T) {
	ctx := context.Background()
	events := &eventLog{}
	store := NewMemoryStore(events.dispatch)

	job := &IngestJob{ID: uuid.New(), FileName: "movie.mp4"}
	require.NoError(t, store.CreateIngestJob(ctx, job))
	assert.Equal(t, 1, events.count("ingest"))

	err := store.CreateIngestJob(ctx, &IngestJob{ID: job.ID, FileName: "other.mp4"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, 1, events.count("ingest"))

	got, err := store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestNew, got.Status)
	assert.Equal(t, "movie.mp4", got.FileName)

	_, err = store.GetIngestJob(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.UpdateIngestStatus(ctx, job.ID, IngestIngesting, IngestEncoding), ErrConditionFailed)
	assert.ErrorIs(t, store.UpdateIngestStatus(ctx, uuid.New(), IngestNew, IngestIngesting), ErrNotFound)
	require.NoError(t, store.UpdateIngestStatus(ctx, job.ID, IngestNew, IngestIngesting))

	require.NoError(t, store.FailIngest(ctx, job.ID, IngestIngesting, "bad source"))
	got, err = store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "bad source", *got.Error)
	assert.Zero(t, events.count("webhook"), "no webhook without a URI")
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	job := &IngestJob{ID: uuid.New(), FileName: "movie.mp4"}
	require.NoError(t, store.CreateIngestJob(ctx, job))

	got, err := store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	got.Status = IngestDone

	again, err := store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestNew, again.Status)
}

func TestMemoryStoreRegisterChunks(t *testing.T) {
	ctx := context.Background()
	events := &eventLog{}
	store := NewMemoryStore(events.dispatch)

	job, video, chunks := registeredVideo(t, store, 3)
	assert.Equal(t, 3, events.count("encode"))

	gotJob, err := store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestEncoding, gotJob.Status)
	require.NotNil(t, gotJob.VideoID)
	assert.Equal(t, video.ID, *gotJob.VideoID)

	gotVideo, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, VideoEncoding, gotVideo.Status)
	assert.Equal(t, 3, gotVideo.ChunkCount)
	assert.Equal(t, 3, gotVideo.Remaining)
	assert.Equal(t, job.ID, gotVideo.IngestID)

	listed, err := store.ChunksByVideoID(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for i, chunk := range listed {
		assert.Equal(t, i, chunk.Seq)
		assert.Equal(t, ChunkNew, chunk.Status)
		assert.Equal(t, video.ID, chunk.VideoID)
		assert.Equal(t, chunks[i].ID, chunk.ID)
	}

	// The ingest job has left IngestIngesting, so a second registration fails
	// without touching anything.
	err = store.RegisterChunks(ctx, job.ID, &Video{ID: uuid.New()}, []*ChunkJob{{ID: uuid.New()}})
	assert.ErrorIs(t, err, ErrConditionFailed)
	assert.Equal(t, 3, events.count("encode"))
}

func TestMemoryStoreRegisterChunksDuplicateChunk(t *testing.T) {
	ctx := context.Background()
	events := &eventLog{}
	store := NewMemoryStore(events.dispatch)
	_, _, chunks := registeredVideo(t, store, 1)

	job := &IngestJob{ID: uuid.New(), FileName: "second.mp4"}
	require.NoError(t, store.CreateIngestJob(ctx, job))
	require.NoError(t, store.UpdateIngestStatus(ctx, job.ID, IngestNew, IngestIngesting))

	video := &Video{ID: uuid.New(), Name: "second"}
	err := store.RegisterChunks(ctx, job.ID, video, []*ChunkJob{{ID: uuid.New()}, {ID: chunks[0].ID}})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = store.GetVideo(ctx, video.ID)
	assert.ErrorIs(t, err, ErrNotFound, "registration is all or nothing")
	got, err := store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestIngesting, got.Status)
}

func TestMemoryStoreCompleteChunk(t *testing.T) {
	ctx := context.Background()
	events := &eventLog{}
	store := NewMemoryStore(events.dispatch)
	_, video, chunks := registeredVideo(t, store, 2)

	_, err := store.CompleteChunk(ctx, chunks[0].ID)
	assert.ErrorIs(t, err, ErrConditionFailed, "chunk must be encoding")

	for _, chunk := range chunks {
		require.NoError(t, store.UpdateChunkStatus(ctx, chunk.ID, ChunkNew, ChunkEncoding))
	}

	first, err := store.CompleteChunk(ctx, chunks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, &Completion{VideoID: video.ID, Remaining: 1}, first)
	assert.Zero(t, events.count("mux"))

	_, err = store.CompleteChunk(ctx, chunks[0].ID)
	assert.ErrorIs(t, err, ErrConditionFailed, "a chunk completes once")

	last, err := store.CompleteChunk(ctx, chunks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, &Completion{VideoID: video.ID, Remaining: 0, Claimed: true}, last)
	assert.Equal(t, 1, events.count("mux"))

	gotVideo, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, VideoMuxing, gotVideo.Status)
	assert.Zero(t, gotVideo.Remaining)
}

func TestMemoryStoreConcurrentCompletionClaimsOnce(t *testing.T) {
	ctx := context.Background()
	events := &eventLog{}
	store := NewMemoryStore(events.dispatch)
	const n = 64
	_, _, chunks := registeredVideo(t, store, n)
	for _, chunk := range chunks {
		require.NoError(t, store.UpdateChunkStatus(ctx, chunk.ID, ChunkNew, ChunkEncoding))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	claims := 0
	start := make(chan struct{})
	for _, chunk := range chunks {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			<-start
			completion, err := store.CompleteChunk(ctx, id)
			if !assert.NoError(t, err) {
				return
			}
			if completion.Claimed {
				mu.Lock()
				claims++
				mu.Unlock()
			}
		}(chunk.ID)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, claims)
	assert.Equal(t, 1, events.count("mux"))
}

func TestMemoryStoreFailAndRetryChunk(t *testing.T) {
	ctx := context.Background()
	events := &eventLog{}
	store := NewMemoryStore(events.dispatch)
	_, video, chunks := registeredVideo(t, store, 2)

	// A chunk stranded in encoding by a worker that gave up is retryable.
	require.NoError(t, store.UpdateChunkStatus(ctx, chunks[1].ID, ChunkNew, ChunkEncoding))
	require.NoError(t, store.RetryChunk(ctx, chunks[1].ID))
	assert.Equal(t, 3, events.count("encode"))

	require.NoError(t, store.UpdateChunkStatus(ctx, chunks[0].ID, ChunkNew, ChunkEncoding))
	require.NoError(t, store.FailChunk(ctx, chunks[0].ID, "encoder crashed"))
	assert.Equal(t, 1, events.count("webhook"))

	gotChunk, err := store.GetChunkJob(ctx, chunks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, ChunkFailed, gotChunk.Status)
	require.NotNil(t, gotChunk.Error)
	assert.Equal(t, "encoder crashed", *gotChunk.Error)

	gotVideo, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotVideo.FailedChunks)
	assert.Equal(t, 2, gotVideo.Remaining, "a failed chunk does not count as done")

	require.NoError(t, store.RetryChunk(ctx, chunks[0].ID))
	assert.Equal(t, 4, events.count("encode"))

	gotChunk, err = store.GetChunkJob(ctx, chunks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, ChunkNew, gotChunk.Status)
	assert.Nil(t, gotChunk.Error)

	gotVideo, err = store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Zero(t, gotVideo.FailedChunks)

	require.NoError(t, store.UpdateChunkStatus(ctx, chunks[1].ID, ChunkNew, ChunkEncoding))
	_, err = store.CompleteChunk(ctx, chunks[1].ID)
	require.NoError(t, err)
	assert.ErrorIs(t, store.RetryChunk(ctx, chunks[1].ID), ErrConditionFailed, "encoded chunks are final")
	assert.ErrorIs(t, store.RetryChunk(ctx, uuid.New()), ErrNotFound)
}

func TestMemoryStoreRetryIngest(t *testing.T) {
	ctx := context.Background()
	events := &eventLog{}
	store := NewMemoryStore(events.dispatch)

	job := &IngestJob{ID: uuid.New(), FileName: "movie.mp4"}
	require.NoError(t, store.CreateIngestJob(ctx, job))
	require.NoError(t, store.UpdateIngestStatus(ctx, job.ID, IngestNew, IngestIngesting))

	// Stranded in ingesting.
	require.NoError(t, store.RetryIngest(ctx, job.ID))
	assert.Equal(t, 2, events.count("ingest"))

	require.NoError(t, store.UpdateIngestStatus(ctx, job.ID, IngestNew, IngestIngesting))
	require.NoError(t, store.FailIngest(ctx, job.ID, IngestIngesting, "segment failed"))
	require.NoError(t, store.RetryIngest(ctx, job.ID))
	assert.Equal(t, 3, events.count("ingest"))

	got, err := store.GetIngestJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, IngestNew, got.Status)
	assert.Nil(t, got.Error)

	done, _, _ := registeredVideo(t, store, 1)
	assert.ErrorIs(t, store.RetryIngest(ctx, done.ID), ErrConditionFailed, "registered ingests are past retrying")
	assert.ErrorIs(t, store.RetryIngest(ctx, uuid.New()), ErrNotFound)
}

func TestMemoryStoreMuxLifecycle(t *testing.T) {
	ctx := context.Background()
	events := &eventLog{}
	store := NewMemoryStore(events.dispatch)
	job, video, chunks := registeredVideo(t, store, 1)

	assert.ErrorIs(t, store.TriggerMux(ctx, video.ID), ErrConditionFailed)
	assert.ErrorIs(t, store.TriggerMux(ctx, uuid.New()), ErrNotFound)
	assert.ErrorIs(t, store.FinishVideo(ctx, video.ID, MuxKey(video.ID)), ErrConditionFailed)

	require.NoError(t, store.UpdateChunkStatus(ctx, chunks[0].ID, ChunkNew, ChunkEncoding))
	_, err := store.CompleteChunk(ctx, chunks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, events.count("mux"))

	require.NoError(t, store.TriggerMux(ctx, video.ID))
	assert.Equal(t, 2, events.count("mux"))

	require.NoError(t, store.FinishVideo(ctx, video.ID, MuxKey(video.ID)))
	gotVideo, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, VideoDone, gotVideo.Status)
	require.NotNil(t, gotVideo.OutputPath)
	assert.Equal(t, MuxKey(video.ID), *gotVideo.OutputPath)

	events.mu.Lock()
	last := events.events[len(events.events)-1]
	events.mu.Unlock()
	hook, ok := last.(WebhookJobArgs)
	require.True(t, ok, "finishing emits the success webhook")
	assert.Equal(t, job.ID, hook.IngestID)
	assert.Equal(t, []byte("secret"), hook.Token)
	assert.Nil(t, hook.Error)
	require.NotNil(t, hook.OutputPath)
	assert.Equal(t, MuxKey(video.ID), *hook.OutputPath)

	assert.ErrorIs(t, store.TriggerMux(ctx, video.ID), ErrConditionFailed)
}
