package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage"
)

// repairTimeFormat is the SQLite date-time text layout, so julianday and
// lexical range scans work on the stored columns.
const repairTimeFormat = "2006-01-02 15:04:05"

const repairColumns = `id, vehicle_id, repair_type_id, entry_at, exit_at, pickup_at, repair_cost, status`

const repairTypeColumns = `id, name, gasoline_price, diesel_price, hybrid_price, electric_price`

// ListRepairTypes returns the repair type catalog by id.
func (s *Store) ListRepairTypes(ctx context.Context) ([]domain.RepairType, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+repairTypeColumns+` FROM repair_types ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list repair types: %w", err)
	}
	defer rows.Close()

	types := []domain.RepairType{}
	for rows.Next() {
		t, err := scanRepairType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan repair type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repair types: %w", err)
	}
	return types, nil
}

// GetRepairType returns one repair type or storage.ErrRepairTypeNotFound.
func (s *Store) GetRepairType(ctx context.Context, id int64) (domain.RepairType, error) {
	if err := s.ready(ctx); err != nil {
		return domain.RepairType{}, err
	}
	t, err := scanRepairType(s.sqlDB.QueryRowContext(ctx, `SELECT `+repairTypeColumns+` FROM repair_types WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RepairType{}, storage.ErrRepairTypeNotFound
	}
	if err != nil {
		return domain.RepairType{}, fmt.Errorf("get repair type %d: %w", id, err)
	}
	return t, nil
}

// ListRepairs returns every repair in ascending id order.
func (s *Store) ListRepairs(ctx context.Context) ([]domain.Repair, error) {
	return s.queryRepairs(ctx, `SELECT `+repairColumns+` FROM repairs ORDER BY id ASC`)
}

// ListVehicleRepairs returns the repairs of one vehicle by entry time.
func (s *Store) ListVehicleRepairs(ctx context.Context, vehicleID int64) ([]domain.Repair, error) {
	return s.queryRepairs(ctx, `SELECT `+repairColumns+` FROM repairs WHERE vehicle_id = ? ORDER BY entry_at ASC, id ASC`, vehicleID)
}

func (s *Store) queryRepairs(ctx context.Context, query string, args ...any) ([]domain.Repair, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list repairs: %w", err)
	}
	defer rows.Close()

	repairs := []domain.Repair{}
	for rows.Next() {
		r, err := scanRepair(rows)
		if err != nil {
			return nil, fmt.Errorf("scan repair: %w", err)
		}
		repairs = append(repairs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repairs: %w", err)
	}
	return repairs, nil
}

// GetRepair returns one repair or storage.ErrRepairNotFound.
func (s *Store) GetRepair(ctx context.Context, id int64) (domain.Repair, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Repair{}, err
	}
	r, err := scanRepair(s.sqlDB.QueryRowContext(ctx, `SELECT `+repairColumns+` FROM repairs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Repair{}, storage.ErrRepairNotFound
	}
	if err != nil {
		return domain.Repair{}, fmt.Errorf("get repair %d: %w", id, err)
	}
	return r, nil
}

// CreateRepair inserts r and returns it with its assigned id. A foreign key
// failure is reported as storage.ErrNotFound; callers check the repair type
// first.
func (s *Store) CreateRepair(ctx context.Context, r domain.Repair) (domain.Repair, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Repair{}, err
	}
	stamp := s.now().UTC().Format(timeFormat)
	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO repairs (vehicle_id, repair_type_id, entry_at, exit_at, pickup_at, repair_cost, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.VehicleID, r.RepairTypeID, formatRepairTime(r.EntryAt), nullableTime(r.ExitAt), nullableTime(r.PickupAt),
		r.RepairCost, r.Status, stamp, stamp,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Repair{}, storage.ErrNotFound
		}
		return domain.Repair{}, fmt.Errorf("insert repair: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Repair{}, fmt.Errorf("read repair id: %w", err)
	}
	r.ID = id
	return r, nil
}

// UpdateRepair replaces the stored fields of r.ID.
func (s *Store) UpdateRepair(ctx context.Context, r domain.Repair) (domain.Repair, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Repair{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE repairs
SET vehicle_id = ?, repair_type_id = ?, entry_at = ?, exit_at = ?, pickup_at = ?, repair_cost = ?, status = ?, updated_at = ?
WHERE id = ?`,
		r.VehicleID, r.RepairTypeID, formatRepairTime(r.EntryAt), nullableTime(r.ExitAt), nullableTime(r.PickupAt),
		r.RepairCost, r.Status, s.now().UTC().Format(timeFormat), r.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Repair{}, storage.ErrNotFound
		}
		return domain.Repair{}, fmt.Errorf("update repair %d: %w", r.ID, err)
	}
	if err := requireAffectedOr(result, storage.ErrRepairNotFound); err != nil {
		return domain.Repair{}, err
	}
	return r, nil
}

// DeleteRepair removes a repair or returns storage.ErrRepairNotFound.
func (s *Store) DeleteRepair(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM repairs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete repair %d: %w", id, err)
	}
	return requireAffectedOr(result, storage.ErrRepairNotFound)
}

// CountVehicleRepairs counts the repairs of vehicleID entered in [from, to].
func (s *Store) CountVehicleRepairs(ctx context.Context, vehicleID int64, from, to time.Time) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM repairs WHERE vehicle_id = ? AND entry_at >= ? AND entry_at <= ?`,
		vehicleID, formatRepairTime(from), formatRepairTime(to),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count repairs of vehicle %d: %w", vehicleID, err)
	}
	return count, nil
}

func scanRepairType(row rowScanner) (domain.RepairType, error) {
	var t domain.RepairType
	err := row.Scan(&t.ID, &t.Name, &t.GasolinePrice, &t.DieselPrice, &t.HybridPrice, &t.ElectricPrice)
	return t, err
}

func scanRepair(row rowScanner) (domain.Repair, error) {
	var (
		r            domain.Repair
		entry        string
		exit, pickup sql.NullString
	)
	if err := row.Scan(&r.ID, &r.VehicleID, &r.RepairTypeID, &entry, &exit, &pickup, &r.RepairCost, &r.Status); err != nil {
		return domain.Repair{}, err
	}
	var err error
	if r.EntryAt, err = parseRepairTime(entry); err != nil {
		return domain.Repair{}, err
	}
	if r.ExitAt, err = parseNullableTime(exit); err != nil {
		return domain.Repair{}, err
	}
	if r.PickupAt, err = parseNullableTime(pickup); err != nil {
		return domain.Repair{}, err
	}
	return r, nil
}

func formatRepairTime(t time.Time) string {
	return t.UTC().Format(repairTimeFormat)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatRepairTime(*t)
}

func parseRepairTime(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(repairTimeFormat, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse repair time %q: %w", raw, err)
	}
	return t, nil
}

func parseNullableTime(raw sql.NullString) (*time.Time, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	t, err := parseRepairTime(raw.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isForeignKeyViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}
