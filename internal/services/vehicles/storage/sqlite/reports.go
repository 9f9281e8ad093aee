package sqlite

import (
	"context"
	"fmt"

	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

// RepairTypeSummary counts the vehicles repaired and the amount billed per
// repair type, largest amount first.
func (s *Store) RepairTypeSummary(ctx context.Context) ([]domain.RepairTypeSummary, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT rt.name, COUNT(DISTINCT r.vehicle_id), COALESCE(SUM(r.repair_cost), 0) AS total
FROM repairs r
JOIN repair_types rt ON rt.id = r.repair_type_id
GROUP BY rt.id, rt.name
ORDER BY total DESC, rt.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("repair type summary: %w", err)
	}
	defer rows.Close()

	out := []domain.RepairTypeSummary{}
	for rows.Next() {
		var row domain.RepairTypeSummary
		if err := rows.Scan(&row.RepairType, &row.VehicleCount, &row.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan repair type summary: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repair type summary: %w", err)
	}
	return out, nil
}

// AverageRepairTimeByBrand averages entry-to-exit hours of finished repairs
// per brand, fastest first.
func (s *Store) AverageRepairTimeByBrand(ctx context.Context) ([]domain.AverageRepairTime, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT v.brand, AVG((julianday(r.exit_at) - julianday(r.entry_at)) * 24.0) AS hours
FROM repairs r
JOIN vehicles v ON v.id = r.vehicle_id
WHERE r.exit_at IS NOT NULL
GROUP BY v.brand
ORDER BY hours ASC, v.brand ASC`)
	if err != nil {
		return nil, fmt.Errorf("average repair time: %w", err)
	}
	defer rows.Close()

	out := []domain.AverageRepairTime{}
	for rows.Next() {
		var row domain.AverageRepairTime
		if err := rows.Scan(&row.Brand, &row.AverageHours); err != nil {
			return nil, fmt.Errorf("scan average repair time: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate average repair time: %w", err)
	}
	return out, nil
}

// RepairTypeEngineSummary counts the vehicles repaired and the amount
// billed per repair type and engine type.
func (s *Store) RepairTypeEngineSummary(ctx context.Context) ([]domain.RepairTypeEngineSummary, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT rt.name, v.engine_type, COUNT(DISTINCT r.vehicle_id), COALESCE(SUM(r.repair_cost), 0)
FROM repairs r
JOIN repair_types rt ON rt.id = r.repair_type_id
JOIN vehicles v ON v.id = r.vehicle_id
GROUP BY rt.id, rt.name, v.engine_type
ORDER BY rt.id ASC, v.engine_type ASC`)
	if err != nil {
		return nil, fmt.Errorf("repair type engine summary: %w", err)
	}
	defer rows.Close()

	out := []domain.RepairTypeEngineSummary{}
	for rows.Next() {
		var row domain.RepairTypeEngineSummary
		if err := rows.Scan(&row.RepairType, &row.EngineType, &row.VehicleCount, &row.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan repair type engine summary: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate repair type engine summary: %w", err)
	}
	return out, nil
}
