package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/status"
)

// ErrStaleStatus is returned when a guarded update finds the order no
// longer in the expected status. The caller lost the race and must
// re-read before retrying.
var ErrStaleStatus = errors.New("order status changed concurrently")

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems inserts the order and all of its items in a single
// transaction. A failure anywhere rolls the whole booking back; an order
// row can never exist without its items.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = now
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		order.Items = items
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&order.Items).Error
	})
}

// GetByID fetches an order with its items. Returns (nil, nil) when the
// order does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListParams filters the order listing by owning role ids and statuses.
type ListParams struct {
	UserID   string
	VendorID string
	RiderID  string
	Statuses []status.Status
	Limit    int
}

func (r *OrderRepository) List(ctx context.Context, p ListParams) ([]models.Order, error) {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 50
	}

	q := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC").Limit(p.Limit)
	if p.UserID != "" {
		q = q.Where("user_id = ?", p.UserID)
	}
	if p.VendorID != "" {
		q = q.Where("vendor_id = ?", p.VendorID)
	}
	if p.RiderID != "" {
		q = q.Where("rider_id = ?", p.RiderID)
	}
	if len(p.Statuses) > 0 {
		q = q.Where("status IN ?", p.Statuses)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves an order from one status to another, guarded by the
// expected current status so a concurrent writer cannot be silently
// overwritten.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to status.Status) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// AssignRider sets the rider and moves the order to the target status in
// one guarded update.
func (r *OrderRepository) AssignRider(ctx context.Context, id, riderID string, from, to status.Status) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"rider_id": riderID, "status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
