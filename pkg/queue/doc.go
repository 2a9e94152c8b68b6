// Package queue records background tasks for an external job runner.
//
// Enqueuer turns a payload into a pending Task and hands it to an
// EnqueuerRepository. MemoryStorage keeps tasks in process for tests and
// local runs; PostgresStorage writes them to the queue_tasks table that the
// runner polls. Execution, retries and dead-lettering belong to the runner.
//
//	e, err := queue.NewEnqueuer(queue.NewPostgresStorage(pool))
//	if err != nil {
//		return err
//	}
//	task, err := e.Enqueue(ctx, payload,
//		queue.WithTaskName("transcode_video"),
//		queue.WithPriority(queue.PriorityHigh),
//	)
//
// Sentinel errors (ErrInvalidPriority, ErrDuplicateTask, ...) can be matched
// with errors.Is.
package queue
