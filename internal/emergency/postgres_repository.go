package emergency

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSOSRepository is a PostgreSQL implementation of SOSRepository.
type PostgresSOSRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSOSRepository creates a new PostgreSQL SOS repository.
func NewPostgresSOSRepository(pool *pgxpool.Pool) *PostgresSOSRepository {
	return &PostgresSOSRepository{pool: pool}
}

// Create persists a new SOS event.
func (r *PostgresSOSRepository) Create(ctx context.Context, ev SOSEvent) error {
	query := `
		INSERT INTO sos_events (id, lat, lng, message, contact_hint, triggered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		ev.ID,
		ev.Lat,
		ev.Lng,
		ev.Message,
		ev.ContactHint,
		ev.TriggeredAt,
	)
	return err
}

// PostgresBlacklistRepository is a PostgreSQL implementation of
// BlacklistRepository.
type PostgresBlacklistRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBlacklistRepository creates a new PostgreSQL blacklist
// repository.
func NewPostgresBlacklistRepository(pool *pgxpool.Pool) *PostgresBlacklistRepository {
	return &PostgresBlacklistRepository{pool: pool}
}

// List returns all blacklist entries.
func (r *PostgresBlacklistRepository) List(ctx context.Context) ([]BlacklistEntry, error) {
	query := `
		SELECT phone, label, added_at
		FROM phone_blacklist
		ORDER BY added_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []BlacklistEntry
	for rows.Next() {
		var e BlacklistEntry
		if err := rows.Scan(&e.Phone, &e.Label, &e.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Lookup returns the entry for a normalized phone number, or nil when the
// number is not blacklisted.
func (r *PostgresBlacklistRepository) Lookup(ctx context.Context, phone string) (*BlacklistEntry, error) {
	query := `
		SELECT phone, label, added_at
		FROM phone_blacklist
		WHERE phone = $1
	`

	var e BlacklistEntry
	err := r.pool.QueryRow(ctx, query, phone).Scan(&e.Phone, &e.Label, &e.AddedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
