package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL report repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const reportColumns = `
	id, lat, lng, category, description, reported_at
`

// Create persists a new report.
func (r *PostgresRepository) Create(ctx context.Context, rep Report) error {
	query := `
		INSERT INTO incident_reports (id, lat, lng, category, description, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		rep.ID,
		rep.Lat,
		rep.Lng,
		string(rep.Category),
		rep.Description,
		rep.ReportedAt,
	)
	return err
}

// ListRecent returns the newest reports, most recent first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM incident_reports
		ORDER BY reported_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReports(rows)
}

// ListNear returns reports within radiusKm of the given point, most recent
// first. The bounding box comparison happens in SQL; one degree is treated as
// 111 km, close enough for neighborhood-scale clustering.
func (r *PostgresRepository) ListNear(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]Report, error) {
	delta := radiusKm / 111.0

	query := `
		SELECT ` + reportColumns + `
		FROM incident_reports
		WHERE lat BETWEEN $1 AND $2
		  AND lng BETWEEN $3 AND $4
		ORDER BY reported_at DESC
		LIMIT $5
	`

	rows, err := r.pool.Query(ctx, query, lat-delta, lat+delta, lng-delta, lng+delta, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReports(rows)
}

// rowScanner matches pgx.Rows for report scanning.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanReports(rows rowScanner) ([]Report, error) {
	var reports []Report
	for rows.Next() {
		var rep Report
		var category string
		if err := rows.Scan(
			&rep.ID,
			&rep.Lat,
			&rep.Lng,
			&category,
			&rep.Description,
			&rep.ReportedAt,
		); err != nil {
			return nil, err
		}
		rep.Category = Category(category)
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
