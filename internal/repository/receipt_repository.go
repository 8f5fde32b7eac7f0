package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tappress/checkbox/internal/model"
)

// ReceiptFilter narrows receipt listing. Nil fields are skipped; set fields
// apply conjunctively as inclusive bounds.
type ReceiptFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	PaymentType *model.PaymentType
	MinTotal    *decimal.Decimal
}

// ReceiptRepository defines receipt persistence operations.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	FindByID(ctx context.Context, id string) (*model.Receipt, error)
	FindByIDAndUser(ctx context.Context, id, userID string) (*model.Receipt, error)
	Count(ctx context.Context, userID string, filter ReceiptFilter) (int64, error)
	List(ctx context.Context, userID string, filter ReceiptFilter, offset, limit int) ([]model.Receipt, error)
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository.
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

// Create persists the receipt header together with its product lines. GORM
// writes the association in a single transaction, so either everything lands
// or nothing does.
func (r *receiptRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *receiptRepository) FindByID(ctx context.Context, id string) (*model.Receipt, error) {
	var receipt model.Receipt
	if err := r.db.WithContext(ctx).Preload("Products").
		Where("id = ?", id).First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Receipt, error) {
	var receipt model.Receipt
	if err := r.db.WithContext(ctx).Preload("Products").
		Where("id = ? AND user_id = ?", id, userID).First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// Count returns the number of matching rows before pagination.
func (r *receiptRepository) Count(ctx context.Context, userID string, filter ReceiptFilter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, userID, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// List returns one page of matching receipts ordered by id. IDs are ULIDs,
// so the order is stable and follows creation time.
func (r *receiptRepository) List(ctx context.Context, userID string, filter ReceiptFilter, offset, limit int) ([]model.Receipt, error) {
	var receipts []model.Receipt
	if err := r.filtered(ctx, userID, filter).Preload("Products").
		Order("id").Offset(offset).Limit(limit).Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// filtered builds a fresh query for the user with all supplied filter bounds
// applied. Count and List each call it so they never share builder state.
func (r *receiptRepository) filtered(ctx context.Context, userID string, filter ReceiptFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Receipt{}).Where("user_id = ?", userID)
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	if filter.PaymentType != nil {
		query = query.Where("payment_type = ?", *filter.PaymentType)
	}
	if filter.MinTotal != nil {
		query = query.Where("total >= ?", *filter.MinTotal)
	}
	return query
}
