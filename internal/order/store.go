package order

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store persists placed orders. Checkout depends only on this interface, so
// the flow is testable without Postgres.
type Store interface {
	Create(ctx context.Context, o *Order) error
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
	UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus, reference string) error
}

// Config holds the Postgres connection settings.
type Config struct {
	URL string `envconfig:"DATABASE_URL" required:"true"`
}

// GormStore is the Postgres-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(cfg Config) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&Order{}, &Item{}); err != nil {
		return nil, fmt.Errorf("migrate order schema: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Create(ctx context.Context, o *Order) error {
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("create order %s: %w", o.ID, err)
	}
	return nil
}

func (s *GormStore) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", customerID, err)
	}
	return orders, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	err := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("update order %s status: %w", orderID, err)
	}
	return nil
}

func (s *GormStore) UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus, reference string) error {
	err := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"payment_status": status, "payment_reference": reference}).Error
	if err != nil {
		return fmt.Errorf("update order %s payment status: %w", orderID, err)
	}
	return nil
}

var _ Store = (*GormStore)(nil)
