package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceiptProduct is a line item owned exclusively by one receipt. Its
// lifecycle is bound to the receipt: created with it, removed only by the
// cascading delete of its parent.
type ReceiptProduct struct {
	ID        string          `json:"id" gorm:"type:char(26);primaryKey"`
	ReceiptID string          `json:"receipt_id" gorm:"type:char(26);not null;index"`
	Name      string          `json:"name" gorm:"size:255;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate sets the ULID before creating the record.
func (p *ReceiptProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}
