package models

import (
	"time"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/geo"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/status"
)

// Order is a single delivery transaction linking a customer, vendor,
// optional rider and one or more items. Orders are never deleted, only
// status-transitioned.
type Order struct {
	ID                  string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID              string        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	VendorID            string        `gorm:"type:varchar(36);not null;index" json:"vendor_id"`
	RiderID             *string       `gorm:"type:varchar(36);index" json:"rider_id"`
	DeliveryAddressID   *string       `gorm:"type:varchar(36)" json:"delivery_address_id"`
	TotalAmount         float64       `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status              status.Status `gorm:"type:varchar(32);default:'pending';index" json:"status"`
	PaymentMethod       string        `gorm:"type:varchar(32)" json:"payment_method"`
	PaymentStatus       string        `gorm:"type:varchar(32);default:'unpaid'" json:"payment_status"`
	SpecialInstructions string        `gorm:"type:text" json:"special_instructions"`
	Items               []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// ItemKind tags the order-item variant: a menu purchase referencing a
// vendor menu item, or a logistics package carrying its own pickup and
// dropoff details.
type ItemKind string

const (
	ItemKindMenu    ItemKind = "menu"
	ItemKindPackage ItemKind = "package"
)

// OrderItem is one line of an order. Menu rows populate MenuItemID;
// package rows populate the pickup/dropoff columns instead. Immutable
// after creation.
type OrderItem struct {
	ID         string   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID    string   `gorm:"type:varchar(36);not null;index" json:"order_id"`
	Kind       ItemKind `gorm:"type:varchar(16);not null" json:"kind"`
	MenuItemID *string  `gorm:"type:varchar(36)" json:"menu_item_id"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	Price      float64  `gorm:"type:decimal(10,2)" json:"price"`

	PickupAddress   string  `gorm:"type:varchar(255)" json:"pickup_address,omitempty"`
	PickupLat       float64 `json:"pickup_lat,omitempty"`
	PickupLng       float64 `json:"pickup_lng,omitempty"`
	DropoffAddress  string  `gorm:"type:varchar(255)" json:"dropoff_address,omitempty"`
	DropoffLat      float64 `json:"dropoff_lat,omitempty"`
	DropoffLng      float64 `json:"dropoff_lng,omitempty"`
	ItemDescription string  `gorm:"type:text" json:"item_description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// PickupCoords returns the package pickup coordinate.
func (i *OrderItem) PickupCoords() geo.Coordinate {
	return geo.Coordinate{Lat: i.PickupLat, Lng: i.PickupLng}
}

// DropoffCoords returns the package dropoff coordinate.
func (i *OrderItem) DropoffCoords() geo.Coordinate {
	return geo.Coordinate{Lat: i.DropoffLat, Lng: i.DropoffLng}
}
