package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentType is how a receipt was paid.
type PaymentType string

const (
	PaymentTypeCash PaymentType = "CASH"
	PaymentTypeCard PaymentType = "CARD"
)

// Valid reports whether the payment type is one of the known values.
func (t PaymentType) Valid() bool {
	return t == PaymentTypeCash || t == PaymentTypeCard
}

// Receipt represents one completed sale. Immutable once created: total, rest
// and the product lines are fixed at creation time and PaymentAmount >= Total
// always holds for a persisted receipt.
type Receipt struct {
	ID            string          `json:"id" gorm:"type:char(26);primaryKey"`
	UserID        string          `json:"user_id" gorm:"type:char(26);not null;index"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	PaymentType   PaymentType     `json:"payment_type" gorm:"type:varchar(10);not null;index"`
	PaymentAmount decimal.Decimal `json:"payment_amount" gorm:"type:decimal(10,2);not null"`
	Rest          decimal.Decimal `json:"rest" gorm:"type:decimal(10,2);not null"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relations
	User     User             `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Products []ReceiptProduct `json:"products" gorm:"foreignKey:ReceiptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// BeforeCreate sets the ULID before creating the record.
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}
