package app

import (
	"context"

	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage"
)

// ReportService serves the shop reports. Each report is an empty list when
// there are no repairs.
type ReportService struct {
	store   storage.ReportStore
	repairs *RepairService
}

// NewReportService builds a ReportService. repairs bills the repair cost
// report.
func NewReportService(store storage.ReportStore, repairs *RepairService) *ReportService {
	return &ReportService{store: store, repairs: repairs}
}

// RepairTypes summarizes repairs per repair type.
func (s *ReportService) RepairTypes(ctx context.Context) ([]domain.RepairTypeSummary, error) {
	rows, err := s.store.RepairTypeSummary(ctx)
	if err != nil {
		return nil, mapStoreError(err, "repair type report")
	}
	return nonNil(rows), nil
}

// AverageRepairTime averages finished repair hours per brand.
func (s *ReportService) AverageRepairTime(ctx context.Context) ([]domain.AverageRepairTime, error) {
	rows, err := s.store.AverageRepairTimeByBrand(ctx)
	if err != nil {
		return nil, mapStoreError(err, "average repair time report")
	}
	return nonNil(rows), nil
}

// RepairTypesByEngine summarizes repairs per repair type and engine type.
func (s *ReportService) RepairTypesByEngine(ctx context.Context) ([]domain.RepairTypeEngineSummary, error) {
	rows, err := s.store.RepairTypeEngineSummary(ctx)
	if err != nil {
		return nil, mapStoreError(err, "repair type by engine report")
	}
	return nonNil(rows), nil
}

// RepairCosts totals the billed cost of every vehicle's repairs.
func (s *ReportService) RepairCosts(ctx context.Context) ([]domain.RepairCostReport, error) {
	return s.repairs.CostReport(ctx)
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
