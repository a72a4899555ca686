package record

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool used by the store, satisfied by
// pgxmock for tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore over an existing pool.
func NewPostgres(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects to the database, runs migrations, and returns the
// ready store.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "record: connect postgres")
	}
	s := NewPostgres(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS farming_records (
	id               TEXT PRIMARY KEY,
	crop_name        TEXT NOT NULL,
	planting_date    TEXT NOT NULL,
	expected_harvest TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	soil_type        TEXT NOT NULL DEFAULT 'Not specified',
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_farming_records_created_at
	ON farming_records (created_at DESC)`

// Migrate applies the farming_records schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "record: migrate")
	}
	return nil
}

const recordColumns = `id, crop_name, planting_date, expected_harvest, notes, soil_type, created_at, updated_at`

// Create inserts a new record, assigning its ID and timestamps.
func (s *PostgresStore) Create(ctx context.Context, r *FarmingRecord) error {
	prepare(r)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO farming_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.CropName, r.PlantingDate, r.ExpectedHarvest, r.Notes, r.SoilType,
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "record: create")
	}
	return nil
}

// Update rewrites an existing record's user-editable fields.
func (s *PostgresStore) Update(ctx context.Context, r *FarmingRecord) error {
	if r.SoilType == "" {
		r.SoilType = DefaultSoilType
	}
	r.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `
		UPDATE farming_records SET
			crop_name=$2, planting_date=$3, expected_harvest=$4,
			notes=$5, soil_type=$6, updated_at=$7
		WHERE id=$1`,
		r.ID, r.CropName, r.PlantingDate, r.ExpectedHarvest, r.Notes, r.SoilType, r.UpdatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "record: update %s", r.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "record: update %s", r.ID)
	}
	return nil
}

// Delete removes a record, reporting whether it existed.
func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM farming_records WHERE id=$1`, id)
	if err != nil {
		return false, eris.Wrapf(err, "record: delete %s", id)
	}
	return tag.RowsAffected() > 0, nil
}

// Get fetches a record by ID. A missing record is (nil, nil).
func (s *PostgresStore) Get(ctx context.Context, id string) (*FarmingRecord, error) {
	r := &FarmingRecord{}
	err := s.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM farming_records WHERE id=$1`, id).
		Scan(&r.ID, &r.CropName, &r.PlantingDate, &r.ExpectedHarvest, &r.Notes, &r.SoilType, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "record: get %s", id)
	}
	return r, nil
}

// List returns records newest-first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]FarmingRecord, error) {
	q := `SELECT ` + recordColumns + ` FROM farming_records ORDER BY created_at DESC`
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.pool.Query(ctx, q+` LIMIT $1`, limit)
	} else {
		rows, err = s.pool.Query(ctx, q)
	}
	if err != nil {
		return nil, eris.Wrap(err, "record: list")
	}
	defer rows.Close()

	var out []FarmingRecord
	for rows.Next() {
		var r FarmingRecord
		if err := rows.Scan(&r.ID, &r.CropName, &r.PlantingDate, &r.ExpectedHarvest, &r.Notes, &r.SoilType, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "record: scan")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "record: list rows")
	}
	return out, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return eris.Wrap(err, "record: ping")
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// prepare fills generated fields before insert.
func prepare(r *FarmingRecord) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SoilType == "" {
		r.SoilType = DefaultSoilType
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
}
