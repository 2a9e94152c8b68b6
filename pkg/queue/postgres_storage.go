package queue

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/epreen/zimapp-web-sub001/pkg/pg"
)

// execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStorage persists tasks into the queue_tasks table for the external job runner.
type PostgresStorage struct {
	db execer
}

// NewPostgresStorage returns an EnqueuerRepository backed by Postgres.
func NewPostgresStorage(db execer) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const insertTaskSQL = `
INSERT INTO queue_tasks
	(id, queue, task_name, payload, status, priority, max_retries, dedup_key, scheduled_at, created_at)
VALUES
	($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`

// CreateTask implements EnqueuerRepository.
func (s *PostgresStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	_, err := s.db.Exec(ctx, insertTaskSQL,
		task.ID,
		task.Queue,
		task.TaskName,
		task.Payload,
		string(task.Status),
		int16(task.Priority),
		int16(task.MaxRetries),
		task.DedupKey,
		task.ScheduledAt,
		task.CreatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return errors.Join(ErrDuplicateTask, err)
	}
	return err
}
