package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/pg"
)

// queryRower is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRoleStore keeps assignments in role_assignments and processed
// events in billing_events.
type PostgresRoleStore struct {
	db queryRower
}

// NewPostgresRoleStore creates a store over db.
func NewPostgresRoleStore(db queryRower) *PostgresRoleStore {
	return &PostgresRoleStore{db: db}
}

const getAssignmentSQL = `SELECT actor_id, plan, role, updated_at FROM role_assignments WHERE actor_id = $1`

// applyAssignmentSQL records the event and upserts the assignment in one
// statement. The upsert only runs when the event row was inserted and skips
// assignments older than the stored one.
const applyAssignmentSQL = `
WITH recorded AS (
	INSERT INTO billing_events (provider, event_id) VALUES ($1, $2)
	ON CONFLICT DO NOTHING
	RETURNING 1
), upserted AS (
	INSERT INTO role_assignments (actor_id, plan, role, updated_at)
	SELECT $3, $4, $5, $6 WHERE EXISTS (SELECT 1 FROM recorded)
	ON CONFLICT (actor_id) DO UPDATE
		SET plan = EXCLUDED.plan, role = EXCLUDED.role, updated_at = EXCLUDED.updated_at
		WHERE role_assignments.updated_at <= EXCLUDED.updated_at
	RETURNING 1
)
SELECT EXISTS (SELECT 1 FROM recorded), EXISTS (SELECT 1 FROM upserted)`

// Get implements RoleStore.
func (s *PostgresRoleStore) Get(ctx context.Context, actorID string) (Assignment, error) {
	var (
		a          Assignment
		planSlug   string
		roleString string
	)
	err := s.db.QueryRow(ctx, getAssignmentSQL, actorID).Scan(&a.ActorID, &planSlug, &roleString, &a.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return Assignment{}, ErrAssignmentNotFound
	}
	if err != nil {
		return Assignment{}, errors.Join(ErrStoreFailed, fmt.Errorf("get assignment for %s: %w", actorID, err))
	}
	a.Plan = entitlement.ResolvePlan(planSlug)
	a.Role = entitlement.ResolveRole(roleString)
	return a, nil
}

// Apply implements RoleStore.
func (s *PostgresRoleStore) Apply(ctx context.Context, provider, eventID string, a Assignment) (WriteResult, error) {
	var recorded, stored bool
	err := s.db.QueryRow(ctx, applyAssignmentSQL,
		provider, eventID, a.ActorID, string(a.Plan), string(a.Role), a.UpdatedAt,
	).Scan(&recorded, &stored)
	if err != nil {
		return WriteDuplicate, errors.Join(ErrStoreFailed, fmt.Errorf("apply %s event %s: %w", provider, eventID, err))
	}
	return writeResult(recorded, stored), nil
}

var _ RoleStore = (*PostgresRoleStore)(nil)
