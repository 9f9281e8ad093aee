package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage"
)

const chargeColumns = `id, description, amount, type, vehicle_type`

const discountColumns = `id, description, amount, type, brand`

// ListCharges returns every charge in ascending id order.
func (s *Store) ListCharges(ctx context.Context) ([]domain.Charge, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+chargeColumns+` FROM charges ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list charges: %w", err)
	}
	defer rows.Close()

	charges := []domain.Charge{}
	for rows.Next() {
		var c domain.Charge
		if err := rows.Scan(&c.ID, &c.Description, &c.Amount, &c.Type, &c.VehicleType); err != nil {
			return nil, fmt.Errorf("scan charge: %w", err)
		}
		charges = append(charges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate charges: %w", err)
	}
	return charges, nil
}

// GetCharge returns one charge or storage.ErrChargeNotFound.
func (s *Store) GetCharge(ctx context.Context, id int64) (domain.Charge, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Charge{}, err
	}
	var c domain.Charge
	err := s.sqlDB.QueryRowContext(ctx, `SELECT `+chargeColumns+` FROM charges WHERE id = ?`, id).
		Scan(&c.ID, &c.Description, &c.Amount, &c.Type, &c.VehicleType)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Charge{}, storage.ErrChargeNotFound
	}
	if err != nil {
		return domain.Charge{}, fmt.Errorf("get charge %d: %w", id, err)
	}
	return c, nil
}

// CreateCharge inserts c and returns it with its assigned id.
func (s *Store) CreateCharge(ctx context.Context, c domain.Charge) (domain.Charge, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Charge{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO charges (description, amount, type, vehicle_type) VALUES (?, ?, ?, ?)`,
		c.Description, c.Amount, c.Type, c.VehicleType,
	)
	if err != nil {
		return domain.Charge{}, fmt.Errorf("insert charge: %w", err)
	}
	if c.ID, err = result.LastInsertId(); err != nil {
		return domain.Charge{}, fmt.Errorf("read charge id: %w", err)
	}
	return c, nil
}

// UpdateCharge replaces the stored fields of c.ID.
func (s *Store) UpdateCharge(ctx context.Context, c domain.Charge) (domain.Charge, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Charge{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE charges SET description = ?, amount = ?, type = ?, vehicle_type = ? WHERE id = ?`,
		c.Description, c.Amount, c.Type, c.VehicleType, c.ID,
	)
	if err != nil {
		return domain.Charge{}, fmt.Errorf("update charge %d: %w", c.ID, err)
	}
	if err := requireAffectedOr(result, storage.ErrChargeNotFound); err != nil {
		return domain.Charge{}, err
	}
	return c, nil
}

// DeleteCharge removes a charge or returns storage.ErrChargeNotFound.
func (s *Store) DeleteCharge(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM charges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete charge %d: %w", id, err)
	}
	return requireAffectedOr(result, storage.ErrChargeNotFound)
}

// ListDiscounts returns every discount in ascending id order.
func (s *Store) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+discountColumns+` FROM discounts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()

	discounts := []domain.Discount{}
	for rows.Next() {
		var d domain.Discount
		if err := rows.Scan(&d.ID, &d.Description, &d.Amount, &d.Type, &d.Brand); err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discounts: %w", err)
	}
	return discounts, nil
}

// GetDiscount returns one discount or storage.ErrDiscountNotFound.
func (s *Store) GetDiscount(ctx context.Context, id int64) (domain.Discount, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Discount{}, err
	}
	var d domain.Discount
	err := s.sqlDB.QueryRowContext(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = ?`, id).
		Scan(&d.ID, &d.Description, &d.Amount, &d.Type, &d.Brand)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Discount{}, storage.ErrDiscountNotFound
	}
	if err != nil {
		return domain.Discount{}, fmt.Errorf("get discount %d: %w", id, err)
	}
	return d, nil
}

// CreateDiscount inserts d and returns it with its assigned id.
func (s *Store) CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Discount{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO discounts (description, amount, type, brand) VALUES (?, ?, ?, ?)`,
		d.Description, d.Amount, d.Type, d.Brand,
	)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("insert discount: %w", err)
	}
	if d.ID, err = result.LastInsertId(); err != nil {
		return domain.Discount{}, fmt.Errorf("read discount id: %w", err)
	}
	return d, nil
}

// UpdateDiscount replaces the stored fields of d.ID.
func (s *Store) UpdateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Discount{}, err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE discounts SET description = ?, amount = ?, type = ?, brand = ? WHERE id = ?`,
		d.Description, d.Amount, d.Type, d.Brand, d.ID,
	)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("update discount %d: %w", d.ID, err)
	}
	if err := requireAffectedOr(result, storage.ErrDiscountNotFound); err != nil {
		return domain.Discount{}, err
	}
	return d, nil
}

// DeleteDiscount removes a discount or returns storage.ErrDiscountNotFound.
func (s *Store) DeleteDiscount(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM discounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete discount %d: %w", id, err)
	}
	return requireAffectedOr(result, storage.ErrDiscountNotFound)
}
