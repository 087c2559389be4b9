package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListAsCustomer(ctx context.Context, userID string) ([]models.Order, error)
	ListAsProvider(ctx context.Context, userID string) ([]models.Order, error)

	// UpdateStatusGuarded moves the order from one status to another in a
	// single guarded UPDATE, recomputing the derived flags. Returns false
	// when the row no longer holds the expected current status (lost to a
	// concurrent transition).
	UpdateStatusGuarded(ctx context.Context, orderID string, from, to models.OrderStatus) (bool, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Provider").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) ListAsCustomer(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, "customer_id = ?", userID)
}

func (r *gormOrderRepository) ListAsProvider(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, "provider_id = ?", userID)
}

func (r *gormOrderRepository) list(ctx context.Context, cond, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Provider").
		Where(cond, userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) UpdateStatusGuarded(ctx context.Context, orderID string, from, to models.OrderStatus) (bool, error) {
	isCompleted, isPaid, isCancelled := models.DerivedFlags(to)

	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{
			"status":       to,
			"is_completed": isCompleted,
			"is_paid":      isPaid,
			"is_cancelled": isCancelled,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update status for order %s: %w", orderID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
