// Package sqlite implements the vehicles API stores on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	sqlitemigrate "github.com/louisbranch/autofix/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage/sqlite/migrations"
)

const timeFormat = time.RFC3339Nano

const vehicleColumns = `id, license_plate_number, brand, model, type, manufacture_year, engine_type, mileage`

// Store provides the SQLite-backed vehicles API storage.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListVehicles returns every vehicle in ascending id order.
func (s *Store) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}
	return vehicles, nil
}

// GetVehicle returns one vehicle or storage.ErrNotFound.
func (s *Store) GetVehicle(ctx context.Context, id int64) (domain.Vehicle, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Vehicle{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Vehicle{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("get vehicle %d: %w", id, err)
	}
	return v, nil
}

// CreateVehicle inserts v and returns it with its assigned id.
func (s *Store) CreateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Vehicle{}, err
	}
	stamp := s.now().UTC().Format(timeFormat)
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO vehicles (license_plate_number, brand, model, type, manufacture_year, engine_type, mileage, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.LicensePlateNumber, v.Brand, v.Model, v.Type, v.ManufactureYear, v.EngineType, v.Mileage, stamp, stamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Vehicle{}, storage.ErrPlateTaken
		}
		return domain.Vehicle{}, fmt.Errorf("insert vehicle: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("read vehicle id: %w", err)
	}
	v.ID = id
	return v, nil
}

// UpdateVehicle replaces the stored fields of v.ID.
func (s *Store) UpdateVehicle(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Vehicle{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE vehicles
SET license_plate_number = ?, brand = ?, model = ?, type = ?, manufacture_year = ?, engine_type = ?, mileage = ?, updated_at = ?
WHERE id = ?`,
		v.LicensePlateNumber, v.Brand, v.Model, v.Type, v.ManufactureYear, v.EngineType, v.Mileage,
		s.now().UTC().Format(timeFormat), v.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Vehicle{}, storage.ErrPlateTaken
		}
		return domain.Vehicle{}, fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	if err := requireAffected(result); err != nil {
		return domain.Vehicle{}, err
	}
	return v, nil
}

// DeleteVehicle removes a vehicle or returns storage.ErrNotFound.
func (s *Store) DeleteVehicle(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	return requireAffected(result)
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(&v.ID, &v.LicensePlateNumber, &v.Brand, &v.Model, &v.Type, &v.ManufactureYear, &v.EngineType, &v.Mileage)
	return v, err
}

func requireAffected(result sql.Result) error {
	return requireAffectedOr(result, storage.ErrNotFound)
}

func requireAffectedOr(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
