package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/logger"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
	"github.com/epreen/zimapp-web-sub001/pkg/queue"
)

// Enqueuer writes tasks to the job queue. queue.Enqueuer satisfies it.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload any, opts ...queue.EnqueueOption) (*queue.Task, error)
}

// Payload is the body written to the queue for every dispatched job.
type Payload struct {
	ActorID      string          `json:"actor_id"`
	Plan         plan.Plan       `json:"plan"`
	Feature      plan.Feature    `json:"feature"`
	Job          JobName         `json:"job"`
	Data         json.RawMessage `json:"data,omitempty"`
	DispatchedAt time.Time       `json:"dispatched_at"`
}

// Result describes one dispatched job. Pending is set when a task for the
// same idempotency key was already waiting in the queue; TaskID is empty then.
type Result struct {
	Job     JobName `json:"job"`
	TaskID  string  `json:"task_id,omitempty"`
	Pending bool    `json:"pending,omitempty"`
}

// Dispatcher enqueues the jobs behind a confirmed feature action.
type Dispatcher struct {
	resolver *entitlement.Resolver
	enqueuer Enqueuer
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher's logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithClock overrides the dispatch timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher creates a dispatcher. A nil resolver uses the compiled-in catalog.
func NewDispatcher(resolver *entitlement.Resolver, enqueuer Enqueuer, opts ...Option) (*Dispatcher, error) {
	if enqueuer == nil {
		return nil, ErrNilEnqueuer
	}
	if resolver == nil {
		resolver = entitlement.NewResolver(nil)
	}
	d := &Dispatcher{
		resolver: resolver,
		enqueuer: enqueuer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = logger.OrDiscard(d.log).With(logger.Component("dispatch"))
	return d, nil
}

// DispatchOption configures a single Dispatch call.
type DispatchOption func(*dispatchOptions)

type dispatchOptions struct {
	idempotencyKey string
}

// WithIdempotencyKey deduplicates pending jobs across retries of the same action.
// Each job is stored with the key "<key>:<job>".
func WithIdempotencyKey(key string) DispatchOption {
	return func(o *dispatchOptions) {
		o.idempotencyKey = key
	}
}

// Dispatch confirms that actor may use f and enqueues every job behind it
// concurrently. Features without background work dispatch nothing and
// succeed.
//
// On error some jobs may already have been enqueued. Retrying with the same
// idempotency key enqueues only the jobs still missing: jobs already pending
// come back with Pending set. When every job is already pending Dispatch
// returns ErrAlreadyDispatched.
func (d *Dispatcher) Dispatch(ctx context.Context, actor entitlement.Actor, f plan.Feature, data json.RawMessage, opts ...DispatchOption) ([]Result, error) {
	if !f.Valid() {
		return nil, errors.Join(ErrUnknownFeature, fmt.Errorf("feature %q", f))
	}
	if !d.resolver.Can(ctx, actor, f) {
		d.log.InfoContext(ctx, "dispatch refused",
			logger.ActorID(actor.ID),
			logger.Plan(actor.Plan),
			logger.Feature(f),
		)
		return nil, ErrFeatureNotEntitled
	}

	options := &dispatchOptions{}
	for _, opt := range opts {
		opt(options)
	}

	jobs := JobsFor(f)
	results := make([]Result, len(jobs))
	now := d.now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			payload := Payload{
				ActorID:      actor.ID,
				Plan:         actor.Plan,
				Feature:      f,
				Job:          job,
				Data:         data,
				DispatchedAt: now,
			}
			enqueueOpts := []queue.EnqueueOption{queue.WithTaskName(job.String())}
			if options.idempotencyKey != "" {
				enqueueOpts = append(enqueueOpts, queue.WithDedupKey(options.idempotencyKey+":"+job.String()))
			}

			task, err := d.enqueuer.Enqueue(gctx, payload, enqueueOpts...)
			if options.idempotencyKey != "" && errors.Is(err, queue.ErrDuplicateTask) {
				results[i] = Result{Job: job, Pending: true}
				return nil
			}
			if err != nil {
				return errors.Join(ErrEnqueueFailed, fmt.Errorf("job %s: %w", job, err))
			}
			results[i] = Result{Job: job, TaskID: task.ID.String()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		d.log.ErrorContext(ctx, "dispatch failed",
			logger.ActorID(actor.ID),
			logger.Feature(f),
			logger.Error(err),
		)
		return nil, err
	}

	pending := 0
	for _, r := range results {
		if r.Pending {
			pending++
			d.log.DebugContext(ctx, "job already pending",
				logger.ActorID(actor.ID),
				logger.Feature(f),
				logger.Job(r.Job),
			)
			continue
		}
		d.log.DebugContext(ctx, "job enqueued",
			logger.ActorID(actor.ID),
			logger.Feature(f),
			logger.Job(r.Job),
			slog.String("task_id", r.TaskID),
		)
	}
	if len(results) > 0 && pending == len(results) {
		return results, ErrAlreadyDispatched
	}
	return results, nil
}
