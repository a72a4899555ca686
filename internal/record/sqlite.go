package record

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// Fixed-width timestamp format so lexicographic and chronological order agree.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS farming_records (
	id               TEXT PRIMARY KEY,
	crop_name        TEXT NOT NULL,
	planting_date    TEXT NOT NULL,
	expected_harvest TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	soil_type        TEXT NOT NULL DEFAULT 'Not specified',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_farming_records_created_at
	ON farming_records (created_at DESC)`

// OpenSQLite opens (creating if needed) a SQLite database at the given path
// and configures WAL mode.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "record: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "record: exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "record: migrate sqlite")
	}
	return &SQLiteStore{db: db}, nil
}

// Create inserts a new record, assigning its ID and timestamps.
func (s *SQLiteStore) Create(ctx context.Context, r *FarmingRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SoilType == "" {
		r.SoilType = DefaultSoilType
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO farming_records (id, crop_name, planting_date, expected_harvest, notes, soil_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CropName, r.PlantingDate, r.ExpectedHarvest, r.Notes, r.SoilType,
		now.Format(sqliteTimeFormat), now.Format(sqliteTimeFormat),
	)
	if err != nil {
		return eris.Wrap(err, "record: create")
	}
	return nil
}

// Update rewrites an existing record's user-editable fields.
func (s *SQLiteStore) Update(ctx context.Context, r *FarmingRecord) error {
	if r.SoilType == "" {
		r.SoilType = DefaultSoilType
	}
	r.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE farming_records SET
			crop_name=?, planting_date=?, expected_harvest=?, notes=?, soil_type=?, updated_at=?
		WHERE id=?`,
		r.CropName, r.PlantingDate, r.ExpectedHarvest, r.Notes, r.SoilType,
		r.UpdatedAt.Format(sqliteTimeFormat), r.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "record: update %s", r.ID)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "record: update %s", r.ID)
	}
	return nil
}

// Delete removes a record, reporting whether it existed.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM farming_records WHERE id=?`, id)
	if err != nil {
		return false, eris.Wrapf(err, "record: delete %s", id)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Get fetches a record by ID. A missing record is (nil, nil).
func (s *SQLiteStore) Get(ctx context.Context, id string) (*FarmingRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, crop_name, planting_date, expected_harvest, notes, soil_type, created_at, updated_at
		FROM farming_records WHERE id=?`, id)
	r, err := scanSQLiteRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "record: get %s", id)
	}
	return r, nil
}

// List returns records newest-first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]FarmingRecord, error) {
	q := `
		SELECT id, crop_name, planting_date, expected_harvest, notes, soil_type, created_at, updated_at
		FROM farming_records ORDER BY created_at DESC, rowid DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, eris.Wrap(err, "record: list")
	}
	defer rows.Close()

	var out []FarmingRecord
	for rows.Next() {
		r, err := scanSQLiteRecord(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "record: scan")
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "record: list rows")
	}
	return out, nil
}

// Ping checks database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return eris.Wrap(err, "record: ping")
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanSQLiteRecord(scan func(dest ...any) error) (*FarmingRecord, error) {
	var (
		r                  FarmingRecord
		createdAt, updated string
	)
	if err := scan(&r.ID, &r.CropName, &r.PlantingDate, &r.ExpectedHarvest, &r.Notes, &r.SoilType, &createdAt, &updated); err != nil {
		return nil, err
	}
	var err error
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, eris.Wrap(err, "record: parse created_at")
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, eris.Wrap(err, "record: parse updated_at")
	}
	return &r, nil
}
