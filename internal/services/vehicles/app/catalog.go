package app

import (
	"context"

	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
	"github.com/louisbranch/autofix/internal/services/vehicles/storage"
)

// CatalogStore is the storage a CatalogService needs.
type CatalogStore interface {
	storage.ChargeStore
	storage.DiscountStore
}

// CatalogService manages the flat charges and discounts added to bills.
type CatalogService struct {
	store CatalogStore
}

// NewCatalogService builds a CatalogService.
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// ListCharges returns every charge.
func (s *CatalogService) ListCharges(ctx context.Context) ([]domain.Charge, error) {
	charges, err := s.store.ListCharges(ctx)
	if err != nil {
		return nil, mapStoreError(err, "list charges")
	}
	if charges == nil {
		charges = []domain.Charge{}
	}
	return charges, nil
}

// GetCharge returns one charge.
func (s *CatalogService) GetCharge(ctx context.Context, id int64) (domain.Charge, error) {
	charge, err := s.store.GetCharge(ctx, id)
	if err != nil {
		return domain.Charge{}, mapStoreError(err, "get charge")
	}
	return charge, nil
}

// CreateCharge validates and stores a charge.
func (s *CatalogService) CreateCharge(ctx context.Context, c domain.Charge) (domain.Charge, error) {
	c = domain.NormalizeCharge(c)
	c.ID = 0
	if err := domain.ValidateCharge(c); err != nil {
		return domain.Charge{}, err
	}
	created, err := s.store.CreateCharge(ctx, c)
	if err != nil {
		return domain.Charge{}, mapStoreError(err, "create charge")
	}
	return created, nil
}

// UpdateCharge replaces the charge with id.
func (s *CatalogService) UpdateCharge(ctx context.Context, id int64, c domain.Charge) (domain.Charge, error) {
	c = domain.NormalizeCharge(c)
	c.ID = id
	if err := domain.ValidateCharge(c); err != nil {
		return domain.Charge{}, err
	}
	updated, err := s.store.UpdateCharge(ctx, c)
	if err != nil {
		return domain.Charge{}, mapStoreError(err, "update charge")
	}
	return updated, nil
}

// DeleteCharge removes the charge with id.
func (s *CatalogService) DeleteCharge(ctx context.Context, id int64) error {
	if err := s.store.DeleteCharge(ctx, id); err != nil {
		return mapStoreError(err, "delete charge")
	}
	return nil
}

// ListDiscounts returns every discount.
func (s *CatalogService) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	discounts, err := s.store.ListDiscounts(ctx)
	if err != nil {
		return nil, mapStoreError(err, "list discounts")
	}
	if discounts == nil {
		discounts = []domain.Discount{}
	}
	return discounts, nil
}

// GetDiscount returns one discount.
func (s *CatalogService) GetDiscount(ctx context.Context, id int64) (domain.Discount, error) {
	discount, err := s.store.GetDiscount(ctx, id)
	if err != nil {
		return domain.Discount{}, mapStoreError(err, "get discount")
	}
	return discount, nil
}

// CreateDiscount validates and stores a discount.
func (s *CatalogService) CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	d = domain.NormalizeDiscount(d)
	d.ID = 0
	if err := domain.ValidateDiscount(d); err != nil {
		return domain.Discount{}, err
	}
	created, err := s.store.CreateDiscount(ctx, d)
	if err != nil {
		return domain.Discount{}, mapStoreError(err, "create discount")
	}
	return created, nil
}

// UpdateDiscount replaces the discount with id.
func (s *CatalogService) UpdateDiscount(ctx context.Context, id int64, d domain.Discount) (domain.Discount, error) {
	d = domain.NormalizeDiscount(d)
	d.ID = id
	if err := domain.ValidateDiscount(d); err != nil {
		return domain.Discount{}, err
	}
	updated, err := s.store.UpdateDiscount(ctx, d)
	if err != nil {
		return domain.Discount{}, mapStoreError(err, "update discount")
	}
	return updated, nil
}

// DeleteDiscount removes the discount with id.
func (s *CatalogService) DeleteDiscount(ctx context.Context, id int64) error {
	if err := s.store.DeleteDiscount(ctx, id); err != nil {
		return mapStoreError(err, "delete discount")
	}
	return nil
}
