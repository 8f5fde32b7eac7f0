package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tappress/checkbox/internal/errors"
	"github.com/tappress/checkbox/internal/model"
	"github.com/tappress/checkbox/internal/repository"
)

// CreateReceiptProduct is one validated input line for receipt creation.
type CreateReceiptProduct struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// ReceiptPayment is the validated payment part of receipt creation.
type ReceiptPayment struct {
	Type   model.PaymentType
	Amount decimal.Decimal
}

// CreateReceiptInput is the typed command for receipt creation.
type CreateReceiptInput struct {
	Products []CreateReceiptProduct
	Payment  ReceiptPayment
}

// ReceiptService handles receipt creation, querying and plaintext rendering.
type ReceiptService interface {
	Create(ctx context.Context, userID string, input CreateReceiptInput) (*model.Receipt, error)
	GetUserReceipt(ctx context.Context, receiptID, userID string) (*model.Receipt, error)
	List(ctx context.Context, userID string, filter repository.ReceiptFilter, offset, limit int) ([]model.Receipt, int64, error)
	GetPlaintext(ctx context.Context, receiptID string, lineLength int) (string, error)
}

type receiptService struct {
	receipts repository.ReceiptRepository
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(receipts repository.ReceiptRepository) ReceiptService {
	return &receiptService{receipts: receipts}
}

// Create prices the line items with exact decimal arithmetic, validates
// payment sufficiency and persists header plus lines atomically. The receipt
// is re-read afterwards so the response carries generated ids and the
// database timestamp.
func (s *receiptService) Create(ctx context.Context, userID string, input CreateReceiptInput) (*model.Receipt, error) {
	products := make([]model.ReceiptProduct, 0, len(input.Products))
	receiptTotal := decimal.Zero

	for _, p := range input.Products {
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		receiptTotal = receiptTotal.Add(lineTotal)

		products = append(products, model.ReceiptProduct{
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
			Total:    lineTotal,
		})
	}

	if input.Payment.Amount.LessThan(receiptTotal) {
		return nil, errors.NewPaymentAmountMismatch(
			"Amount to pay: %s. Amount paid: %s",
			receiptTotal.StringFixed(2), input.Payment.Amount.StringFixed(2),
		)
	}

	receipt := &model.Receipt{
		UserID:        userID,
		Products:      products,
		PaymentType:   input.Payment.Type,
		PaymentAmount: input.Payment.Amount,
		Total:         receiptTotal,
		Rest:          input.Payment.Amount.Sub(receiptTotal),
	}
	if err := s.receipts.Create(ctx, receipt); err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}

	return s.GetUserReceipt(ctx, receipt.ID, userID)
}

// GetUserReceipt returns a receipt owned by the user. A receipt owned by a
// different user is indistinguishable from an absent one.
func (s *receiptService) GetUserReceipt(ctx context.Context, receiptID, userID string) (*model.Receipt, error) {
	receipt, err := s.receipts.FindByIDAndUser(ctx, receiptID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFound("Receipt (id=%s) not found", receiptID)
		}
		return nil, fmt.Errorf("find receipt: %w", err)
	}
	return receipt, nil
}

// List returns one page of the user's receipts plus the total match count
// before pagination. An empty result set with offset 0 yields an empty page;
// any offset past the last matching row fails with InvalidOffset.
func (s *receiptService) List(ctx context.Context, userID string, filter repository.ReceiptFilter, offset, limit int) ([]model.Receipt, int64, error) {
	total, err := s.receipts.Count(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count receipts: %w", err)
	}

	maxOffset := total - 1
	if int64(offset) > maxOffset && !(offset == 0 && total == 0) {
		return nil, 0, errors.NewInvalidOffset("Max offset value is %d", maxOffset)
	}
	if total == 0 {
		return []model.Receipt{}, 0, nil
	}

	receipts, err := s.receipts.List(ctx, userID, filter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, total, nil
}

// GetPlaintext renders a receipt as fixed-width text. Lookup is by id only:
// printed receipts are meant to be shareable without an account.
func (s *receiptService) GetPlaintext(ctx context.Context, receiptID string, lineLength int) (string, error) {
	receipt, err := s.receipts.FindByID(ctx, receiptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", errors.NewNotFound("Receipt (id=%s) not found", receiptID)
		}
		return "", fmt.Errorf("find receipt: %w", err)
	}
	return FormatReceipt(receipt, lineLength), nil
}
