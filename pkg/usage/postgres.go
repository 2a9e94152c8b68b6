package usage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// queryRower is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresCounters counts seller resources in the marketplace tables.
type PostgresCounters struct {
	db  queryRower
	now func() time.Time
}

// NewPostgresCounters creates counters over db.
func NewPostgresCounters(db queryRower) *PostgresCounters {
	return &PostgresCounters{db: db, now: time.Now}
}

const (
	countProductsSQL    = `SELECT count(*) FROM products WHERE seller_id = $1 AND deleted_at IS NULL`
	countVideoAdsSQL    = `SELECT count(*) FROM video_ads WHERE seller_id = $1 AND active`
	countPromoPushesSQL = `SELECT count(*) FROM promo_pushes WHERE seller_id = $1 AND sent_at >= $2`
)

// Products counts the seller's live products.
func (p *PostgresCounters) Products(ctx context.Context, sellerID string) (int64, error) {
	return p.count(ctx, countProductsSQL, sellerID)
}

// VideoAds counts the seller's active video ads.
func (p *PostgresCounters) VideoAds(ctx context.Context, sellerID string) (int64, error) {
	return p.count(ctx, countVideoAdsSQL, sellerID)
}

// PromoPushes counts pushes sent since the start of the current UTC month.
func (p *PostgresCounters) PromoPushes(ctx context.Context, sellerID string) (int64, error) {
	now := p.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return p.count(ctx, countPromoPushesSQL, sellerID, monthStart)
}

// Register installs every counter into reg.
func (p *PostgresCounters) Register(reg *Registry) {
	reg.Register(plan.ResourceProducts, p.Products)
	reg.Register(plan.ResourceVideoAds, p.VideoAds)
	reg.Register(plan.ResourcePromoPushes, p.PromoPushes)
}

func (p *PostgresCounters) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := p.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
