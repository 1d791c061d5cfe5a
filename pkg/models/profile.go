package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the single wide table serving all four roles. Role-specific
// fields are optional; invariants like "an order's rider must have role
// rider" are enforced by application code, not the schema.
type Profile struct {
	ID    string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name  string `gorm:"type:varchar(100);not null" json:"name"`
	Email string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone string `gorm:"type:varchar(20)" json:"phone"`
	Role  string `gorm:"type:varchar(16);not null;index" json:"role"`

	// Rider fields.
	VehicleType  string `gorm:"type:varchar(32)" json:"vehicle_type,omitempty"`
	LicensePlate string `gorm:"type:varchar(32)" json:"license_plate,omitempty"`

	// Vendor fields.
	BusinessName string `gorm:"type:varchar(100)" json:"business_name,omitempty"`
	LogoURL      string `gorm:"type:varchar(255)" json:"logo_url,omitempty"`
	BannerURL    string `gorm:"type:varchar(255)" json:"banner_url,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

// DeliveryAddress is a saved user address an order may reference.
type DeliveryAddress struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Label     string    `gorm:"type:varchar(64)" json:"label"`
	Address   string    `gorm:"type:varchar(255);not null" json:"address"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DeliveryAddress) TableName() string {
	return "delivery_addresses"
}

// RateConfig is the banded pricing configuration row. A single active row
// is expected; the most recently updated one wins.
type RateConfig struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LowRatePerKm float64   `gorm:"type:decimal(10,2);not null" json:"low_rate_per_km"`
	HighRatePerKm float64  `gorm:"type:decimal(10,2);not null" json:"high_rate_per_km"`
	ThresholdKm  float64   `gorm:"not null" json:"threshold_km"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (RateConfig) TableName() string {
	return "rate_configs"
}
