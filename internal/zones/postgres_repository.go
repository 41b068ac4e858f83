package zones

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL zone repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const zoneColumns = `
	id, name, lat, lng, radius_km, risk_level, category, reason, created_at
`

// List returns all raw zone records, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Record, error) {
	query := `
		SELECT ` + zoneColumns + `
		FROM hazard_zones
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListByCategory returns raw records for a single category.
func (r *PostgresRepository) ListByCategory(ctx context.Context, category Category) ([]Record, error) {
	query := `
		SELECT ` + zoneColumns + `
		FROM hazard_zones
		WHERE category = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Create stores a new zone record.
func (r *PostgresRepository) Create(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO hazard_zones (id, name, lat, lng, radius_km, risk_level, category, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.Name,
		rec.Lat,
		rec.Lng,
		rec.RadiusKm,
		rec.Level,
		string(rec.Category),
		rec.Reason,
		rec.CreatedAt,
	)
	return err
}

// Delete removes a zone by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hazard_zones WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrZoneNotFound
	}
	return nil
}

// rowScanner matches pgx.Rows for record scanning.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows rowScanner) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var category string
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Lat,
			&rec.Lng,
			&rec.RadiusKm,
			&rec.Level,
			&category,
			&rec.Reason,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Category = Category(category)
		records = append(records, rec)
	}
	return records, rows.Err()
}
