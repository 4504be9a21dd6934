package internal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// JobInserter inserts River jobs inside a caller's transaction.
// *river.Client[pgx.Tx] satisfies it.
type JobInserter interface {
	InsertTx(ctx context.Context, tx pgx.Tx, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// PostgresStore is the production Store. Events are River jobs inserted in
// the same transaction as the write that caused them.
type PostgresStore struct {
	pool *pgxpool.Pool
	jobs JobInserter
}

// NewPostgresStore creates a Store backed by pool. jobs is usually an
// insert-only River client sharing the same pool.
func NewPostgresStore(pool *pgxpool.Pool, jobs JobInserter) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		jobs: jobs,
	}
}

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

const (
	ingestColumns = "id, file_name, status, video_id, error, webhook_uri, webhook_token, created_at, updated_at"
	chunkColumns  = "id, video_id, seq, input_path, output_path, status, error, created_at, updated_at"
	videoColumns  = "id, ingest_id, name, chunk_count, remaining, failed_chunks, audio_path, output_path, status, created_at, updated_at"
)

type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// prefixColumns qualifies every column in a column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func scanIngest(row pgx.Row) (*IngestJob, error) {
	var job IngestJob
	err := row.Scan(&job.ID, &job.FileName, &job.Status, &job.VideoID, &job.Error,
		&job.WebhookURI, &job.WebhookToken, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func scanChunk(row pgx.Row) (*ChunkJob, error) {
	var chunk ChunkJob
	err := row.Scan(&chunk.ID, &chunk.VideoID, &chunk.Seq, &chunk.InputPath, &chunk.OutputPath,
		&chunk.Status, &chunk.Error, &chunk.CreatedAt, &chunk.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

func scanVideo(row pgx.Row) (*Video, error) {
	var video Video
	err := row.Scan(&video.ID, &video.IngestID, &video.Name, &video.ChunkCount, &video.Remaining,
		&video.FailedChunks, &video.AudioPath, &video.OutputPath, &video.Status, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// notFoundOr maps pgx.ErrNoRows to ErrNotFound.
func notFoundOr(err error, what string, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return fmt.Errorf("failed to read %s %s: %w", what, id, err)
}

// conditionError explains why a conditional update on table matched no rows.
func conditionError(ctx context.Context, q querier, table string, id uuid.UUID, want string) error {
	var current string
	err := q.QueryRow(ctx, "SELECT status FROM "+table+" WHERE id = $1", id).Scan(&current)
	if err != nil {
		return notFoundOr(err, table, id)
	}
	return fmt.Errorf("%w: %s %s is %q, want %q", ErrConditionFailed, table, id, current, want)
}

// withTx runs fn in a transaction that is committed only if fn succeeds.
func (s *PostgresStore) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) emit(ctx context.Context, tx pgx.Tx, args river.JobArgs) error {
	if _, err := s.jobs.InsertTx(ctx, tx, args, nil); err != nil {
		return fmt.Errorf("failed to insert %s job: %w", args.Kind(), err)
	}
	return nil
}

func (s *PostgresStore) emitWebhook(ctx context.Context, tx pgx.Tx, args *WebhookJobArgs) error {
	if args == nil {
		return nil
	}
	return s.emit(ctx, tx, *args)
}

func (s *PostgresStore) CreateIngestJob(ctx context.Context, job *IngestJob) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO ingest_jobs (id, file_name, status, webhook_uri, webhook_token)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at, updated_at`,
			job.ID, job.FileName, IngestNew, job.WebhookURI, job.WebhookToken,
		).Scan(&job.CreatedAt, &job.UpdatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ingest job %s", ErrDuplicateKey, job.ID)
		} else if err != nil {
			return fmt.Errorf("failed to insert ingest job: %w", err)
		}
		job.Status = IngestNew

		return s.emit(ctx, tx, IngestJobArgs{JobID: job.ID, FileName: job.FileName})
	})
}

func (s *PostgresStore) GetIngestJob(ctx context.Context, id uuid.UUID) (*IngestJob, error) {
	job, err := scanIngest(s.pool.QueryRow(ctx, "SELECT "+ingestColumns+" FROM ingest_jobs WHERE id = $1", id))
	if err != nil {
		return nil, notFoundOr(err, "ingest_jobs", id)
	}
	return job, nil
}

func (s *PostgresStore) UpdateIngestStatus(ctx context.Context, id uuid.UUID, from, to IngestStatus) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE ingest_jobs SET status = $3, updated_at = now() WHERE id = $1 AND status = $2",
		id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update ingest job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return conditionError(ctx, s.pool, "ingest_jobs", id, string(from))
	}
	return nil
}

func (s *PostgresStore) FailIngest(ctx context.Context, id uuid.UUID, from IngestStatus, reason string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		job, err := scanIngest(tx.QueryRow(ctx,
			`UPDATE ingest_jobs SET status = $3, error = $4, updated_at = now()
			 WHERE id = $1 AND status = $2
			 RETURNING `+ingestColumns,
			id, from, IngestFailed, reason))
		if errors.Is(err, pgx.ErrNoRows) {
			return conditionError(ctx, tx, "ingest_jobs", id, string(from))
		} else if err != nil {
			return fmt.Errorf("failed to fail ingest job %s: %w", id, err)
		}
		return s.emitWebhook(ctx, tx, webhookFor(job, nil, nil, &reason))
	})
}

func (s *PostgresStore) RetryIngest(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var prev IngestStatus
		err := tx.QueryRow(ctx, "SELECT status FROM ingest_jobs WHERE id = $1 FOR UPDATE", id).Scan(&prev)
		if err != nil {
			return notFoundOr(err, "ingest_jobs", id)
		}
		if !slices.Contains(RetryableIngestStatuses, prev) {
			return fmt.Errorf("%w: ingest_jobs %s is %q, want %q", ErrConditionFailed, id, prev, RetryableIngestStatuses)
		}

		job, err := scanIngest(tx.QueryRow(ctx,
			`UPDATE ingest_jobs SET status = $2, error = NULL, updated_at = now()
			 WHERE id = $1
			 RETURNING `+ingestColumns,
			id, IngestNew))
		if err != nil {
			return fmt.Errorf("failed to retry ingest job %s: %w", id, err)
		}

		return s.emit(ctx, tx, IngestJobArgs{JobID: job.ID, FileName: job.FileName})
	})
}

func (s *PostgresStore) RegisterChunks(ctx context.Context, ingestID uuid.UUID, video *Video, chunks []*ChunkJob) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		video.IngestID = ingestID
		video.ChunkCount = len(chunks)
		video.Remaining = len(chunks)
		video.Status = VideoEncoding
		err := tx.QueryRow(ctx,
			`INSERT INTO videos (id, ingest_id, name, chunk_count, remaining, audio_path, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING created_at, updated_at`,
			video.ID, ingestID, video.Name, video.ChunkCount, video.Remaining, video.AudioPath, video.Status,
		).Scan(&video.CreatedAt, &video.UpdatedAt)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: video %s", ErrDuplicateKey, video.ID)
		} else if err != nil {
			return fmt.Errorf("failed to insert video: %w", err)
		}

		for _, chunk := range chunks {
			chunk.VideoID = video.ID
			chunk.Status = ChunkNew
			err := tx.QueryRow(ctx,
				`INSERT INTO chunk_jobs (id, video_id, seq, input_path, output_path, status)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING created_at, updated_at`,
				chunk.ID, chunk.VideoID, chunk.Seq, chunk.InputPath, chunk.OutputPath, chunk.Status,
			).Scan(&chunk.CreatedAt, &chunk.UpdatedAt)
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: chunk job %s", ErrDuplicateKey, chunk.ID)
			} else if err != nil {
				return fmt.Errorf("failed to insert chunk job: %w", err)
			}
		}

		tag, err := tx.Exec(ctx,
			"UPDATE ingest_jobs SET status = $3, video_id = $4, updated_at = now() WHERE id = $1 AND status = $2",
			ingestID, IngestIngesting, IngestEncoding, video.ID)
		if err != nil {
			return fmt.Errorf("failed to update ingest job %s: %w", ingestID, err)
		}
		if tag.RowsAffected() == 0 {
			return conditionError(ctx, tx, "ingest_jobs", ingestID, string(IngestIngesting))
		}

		for _, chunk := range chunks {
			if err := s.emit(ctx, tx, encodeArgsFor(chunk)); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeArgsFor(chunk *ChunkJob) EncodeJobArgs {
	return EncodeJobArgs{
		ChunkID:    chunk.ID,
		VideoID:    chunk.VideoID,
		InputPath:  chunk.InputPath,
		OutputPath: chunk.OutputPath,
	}
}

func (s *PostgresStore) GetChunkJob(ctx context.Context, id uuid.UUID) (*ChunkJob, error) {
	chunk, err := scanChunk(s.pool.QueryRow(ctx, "SELECT "+chunkColumns+" FROM chunk_jobs WHERE id = $1", id))
	if err != nil {
		return nil, notFoundOr(err, "chunk_jobs", id)
	}
	return chunk, nil
}

func (s *PostgresStore) UpdateChunkStatus(ctx context.Context, id uuid.UUID, from, to ChunkStatus) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE chunk_jobs SET status = $3, updated_at = now() WHERE id = $1 AND status = $2",
		id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update chunk job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return conditionError(ctx, s.pool, "chunk_jobs", id, string(from))
	}
	return nil
}

func (s *PostgresStore) ChunksByVideoID(ctx context.Context, videoID uuid.UUID) ([]*ChunkJob, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+chunkColumns+" FROM chunk_jobs WHERE video_id = $1 ORDER BY seq", videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks of video %s: %w", videoID, err)
	}
	chunks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*ChunkJob, error) {
		return scanChunk(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks of video %s: %w", videoID, err)
	}
	return chunks, nil
}

func (s *PostgresStore) CompleteChunk(ctx context.Context, chunkID uuid.UUID) (*Completion, error) {
	var completion Completion
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE chunk_jobs SET status = $3, updated_at = now()
			 WHERE id = $1 AND status = $2
			 RETURNING video_id`,
			chunkID, ChunkEncoding, ChunkEncoded,
		).Scan(&completion.VideoID)
		if errors.Is(err, pgx.ErrNoRows) {
			return conditionError(ctx, tx, "chunk_jobs", chunkID, string(ChunkEncoding))
		} else if err != nil {
			return fmt.Errorf("failed to complete chunk job %s: %w", chunkID, err)
		}

		// The row lock taken here serializes every completion of this video.
		err = tx.QueryRow(ctx,
			"UPDATE videos SET remaining = remaining - 1, updated_at = now() WHERE id = $1 RETURNING remaining",
			completion.VideoID,
		).Scan(&completion.Remaining)
		if err != nil {
			return notFoundOr(err, "videos", completion.VideoID)
		}
		if completion.Remaining > 0 {
			return nil
		}

		tag, err := tx.Exec(ctx,
			"UPDATE videos SET status = $3, updated_at = now() WHERE id = $1 AND status = $2",
			completion.VideoID, VideoEncoding, VideoMuxing)
		if err != nil {
			return fmt.Errorf("failed to claim video %s: %w", completion.VideoID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		completion.Claimed = true
		return s.emit(ctx, tx, MuxJobArgs{VideoID: completion.VideoID})
	})
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// ingestOfVideo loads the ingest that produced a video.
func ingestOfVideo(ctx context.Context, q querier, videoID uuid.UUID) (*IngestJob, error) {
	job, err := scanIngest(q.QueryRow(ctx,
		`SELECT `+prefixColumns("i", ingestColumns)+`
		 FROM ingest_jobs i JOIN videos v ON v.ingest_id = i.id
		 WHERE v.id = $1`, videoID))
	if err != nil {
		return nil, notFoundOr(err, "videos", videoID)
	}
	return job, nil
}

func (s *PostgresStore) FailChunk(ctx context.Context, chunkID uuid.UUID, reason string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var videoID uuid.UUID
		err := tx.QueryRow(ctx,
			`UPDATE chunk_jobs SET status = $3, error = $4, updated_at = now()
			 WHERE id = $1 AND status = $2
			 RETURNING video_id`,
			chunkID, ChunkEncoding, ChunkFailed, reason,
		).Scan(&videoID)
		if errors.Is(err, pgx.ErrNoRows) {
			return conditionError(ctx, tx, "chunk_jobs", chunkID, string(ChunkEncoding))
		} else if err != nil {
			return fmt.Errorf("failed to fail chunk job %s: %w", chunkID, err)
		}

		if _, err := tx.Exec(ctx,
			"UPDATE videos SET failed_chunks = failed_chunks + 1, updated_at = now() WHERE id = $1",
			videoID); err != nil {
			return fmt.Errorf("failed to count failed chunk of video %s: %w", videoID, err)
		}

		job, err := ingestOfVideo(ctx, tx, videoID)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("chunk %s failed: %s", chunkID, reason)
		return s.emitWebhook(ctx, tx, webhookFor(job, &videoID, nil, &msg))
	})
}

func (s *PostgresStore) RetryChunk(ctx context.Context, chunkID uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var prev ChunkStatus
		err := tx.QueryRow(ctx, "SELECT status FROM chunk_jobs WHERE id = $1 FOR UPDATE", chunkID).Scan(&prev)
		if err != nil {
			return notFoundOr(err, "chunk_jobs", chunkID)
		}
		if !slices.Contains(RetryableChunkStatuses, prev) {
			return fmt.Errorf("%w: chunk_jobs %s is %q, want %q", ErrConditionFailed, chunkID, prev, RetryableChunkStatuses)
		}

		chunk, err := scanChunk(tx.QueryRow(ctx,
			`UPDATE chunk_jobs SET status = $2, error = NULL, updated_at = now()
			 WHERE id = $1
			 RETURNING `+chunkColumns,
			chunkID, ChunkNew))
		if err != nil {
			return fmt.Errorf("failed to retry chunk job %s: %w", chunkID, err)
		}

		if prev == ChunkFailed {
			if _, err := tx.Exec(ctx,
				"UPDATE videos SET failed_chunks = failed_chunks - 1, updated_at = now() WHERE id = $1",
				chunk.VideoID); err != nil {
				return fmt.Errorf("failed to uncount failed chunk of video %s: %w", chunk.VideoID, err)
			}
		}

		return s.emit(ctx, tx, encodeArgsFor(chunk))
	})
}

func (s *PostgresStore) GetVideo(ctx context.Context, id uuid.UUID) (*Video, error) {
	video, err := scanVideo(s.pool.QueryRow(ctx, "SELECT "+videoColumns+" FROM videos WHERE id = $1", id))
	if err != nil {
		return nil, notFoundOr(err, "videos", id)
	}
	return video, nil
}

func (s *PostgresStore) TriggerMux(ctx context.Context, videoID uuid.UUID) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var status VideoStatus
		err := tx.QueryRow(ctx, "SELECT status FROM videos WHERE id = $1 FOR UPDATE", videoID).Scan(&status)
		if err != nil {
			return notFoundOr(err, "videos", videoID)
		}
		if status != VideoMuxing {
			return fmt.Errorf("%w: videos %s is %q, want %q", ErrConditionFailed, videoID, status, VideoMuxing)
		}
		return s.emit(ctx, tx, MuxJobArgs{VideoID: videoID})
	})
}

func (s *PostgresStore) FinishVideo(ctx context.Context, videoID uuid.UUID, outputPath string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE videos SET status = $3, output_path = $4, updated_at = now()
			 WHERE id = $1 AND status = $2`,
			videoID, VideoMuxing, VideoDone, outputPath)
		if err != nil {
			return fmt.Errorf("failed to finish video %s: %w", videoID, err)
		}
		if tag.RowsAffected() == 0 {
			return conditionError(ctx, tx, "videos", videoID, string(VideoMuxing))
		}

		job, err := ingestOfVideo(ctx, tx, videoID)
		if err != nil {
			return err
		}
		return s.emitWebhook(ctx, tx, webhookFor(job, &videoID, &outputPath, nil))
	})
}
