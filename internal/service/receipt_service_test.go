package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tappress/checkbox/internal/errors"
	"github.com/tappress/checkbox/internal/model"
	"github.com/tappress/checkbox/internal/repository"
)

// MockReceiptRepository is a mock implementation of ReceiptRepository.
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id string) (*model.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Receipt, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Count(ctx context.Context, userID string, filter repository.ReceiptFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptRepository) List(ctx context.Context, userID string, filter repository.ReceiptFilter, offset, limit int) ([]model.Receipt, error) {
	args := m.Called(ctx, userID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Receipt), args.Error(1)
}

func cashPayment(amount string) ReceiptPayment {
	return ReceiptPayment{Type: model.PaymentTypeCash, Amount: decimal.RequireFromString(amount)}
}

func TestReceiptService_Create(t *testing.T) {
	input := CreateReceiptInput{
		Products: []CreateReceiptProduct{
			{Name: "Product 1", Price: decimal.RequireFromString("10.50"), Quantity: 2},
			{Name: "Product 2", Price: decimal.RequireFromString("5.00"), Quantity: 1},
		},
		Payment: cashPayment("26.00"),
	}

	mockRepo := new(MockReceiptRepository)
	var created *model.Receipt
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Receipt")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Receipt)
			created.ID = "01J5TESTRECEIPT00000000000"
			created.CreatedAt = time.Now()
		}).
		Return(nil)
	mockRepo.On("FindByIDAndUser", mock.Anything, "01J5TESTRECEIPT00000000000", "user-1").
		Return(&model.Receipt{ID: "01J5TESTRECEIPT00000000000", UserID: "user-1"}, nil)

	svc := NewReceiptService(mockRepo)
	receipt, err := svc.Create(context.Background(), "user-1", input)

	require.NoError(t, err)
	assert.Equal(t, "01J5TESTRECEIPT00000000000", receipt.ID)

	// Pricing is exact decimal arithmetic over the input order.
	require.NotNil(t, created)
	assert.Equal(t, "26.00", created.Total.StringFixed(2))
	assert.Equal(t, "0.00", created.Rest.StringFixed(2))
	require.Len(t, created.Products, 2)
	assert.Equal(t, "Product 1", created.Products[0].Name)
	assert.Equal(t, "21.00", created.Products[0].Total.StringFixed(2))
	assert.Equal(t, "5.00", created.Products[1].Total.StringFixed(2))

	mockRepo.AssertExpectations(t)
}

func TestReceiptService_Create_ComputesRest(t *testing.T) {
	mockRepo := new(MockReceiptRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Receipt")).
		Run(func(args mock.Arguments) {
			receipt := args.Get(1).(*model.Receipt)
			receipt.ID = "r1"
			assert.Equal(t, "9.00", receipt.Rest.StringFixed(2))
			assert.False(t, receipt.Rest.IsNegative())
		}).
		Return(nil)
	mockRepo.On("FindByIDAndUser", mock.Anything, "r1", "user-1").
		Return(&model.Receipt{ID: "r1", UserID: "user-1"}, nil)

	svc := NewReceiptService(mockRepo)
	_, err := svc.Create(context.Background(), "user-1", CreateReceiptInput{
		Products: []CreateReceiptProduct{
			{Name: "Product 1", Price: decimal.RequireFromString("10.50"), Quantity: 2},
		},
		Payment: cashPayment("30.00"),
	})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestReceiptService_Create_Underpayment(t *testing.T) {
	mockRepo := new(MockReceiptRepository)
	svc := NewReceiptService(mockRepo)

	receipt, err := svc.Create(context.Background(), "user-1", CreateReceiptInput{
		Products: []CreateReceiptProduct{
			{Name: "Product 1", Price: decimal.RequireFromString("10.50"), Quantity: 2},
			{Name: "Product 2", Price: decimal.RequireFromString("5.00"), Quantity: 1},
		},
		Payment: cashPayment("10.00"),
	})

	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.True(t, errors.IsKind(err, errors.KindPaymentAmountMismatch))
	assert.EqualError(t, err, "Amount to pay: 26.00. Amount paid: 10.00")

	// Nothing may be persisted on underpayment.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReceiptService_GetUserReceipt_OtherOwner(t *testing.T) {
	mockRepo := new(MockReceiptRepository)
	mockRepo.On("FindByIDAndUser", mock.Anything, "r1", "intruder").
		Return(nil, gorm.ErrRecordNotFound)

	svc := NewReceiptService(mockRepo)
	receipt, err := svc.GetUserReceipt(context.Background(), "r1", "intruder")

	assert.Nil(t, receipt)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
	assert.EqualError(t, err, "Receipt (id=r1) not found")
}

func TestReceiptService_List(t *testing.T) {
	page := func(n int) []model.Receipt {
		items := make([]model.Receipt, n)
		return items
	}

	tests := []struct {
		name       string
		total      int64
		offset     int
		limit      int
		pageSize   int
		wantErr    string
		wantFetch  bool
		wantLength int
	}{
		{name: "first page", total: 5, offset: 0, limit: 2, pageSize: 2, wantFetch: true, wantLength: 2},
		{name: "last partial page", total: 5, offset: 4, limit: 2, pageSize: 1, wantFetch: true, wantLength: 1},
		{name: "offset past the end", total: 5, offset: 5, limit: 2, wantErr: "Max offset value is 4"},
		{name: "empty set with offset zero", total: 0, offset: 0, limit: 100, wantLength: 0},
		{name: "empty set with positive offset", total: 0, offset: 1, limit: 100, wantErr: "Max offset value is -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockReceiptRepository)
			mockRepo.On("Count", mock.Anything, "user-1", mock.Anything).Return(tt.total, nil)
			if tt.wantFetch {
				mockRepo.On("List", mock.Anything, "user-1", mock.Anything, tt.offset, tt.limit).
					Return(page(tt.pageSize), nil)
			}

			svc := NewReceiptService(mockRepo)
			items, total, err := svc.List(context.Background(), "user-1", repository.ReceiptFilter{}, tt.offset, tt.limit)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsKind(err, errors.KindInvalidOffset))
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Len(t, items, tt.wantLength)
			if !tt.wantFetch {
				mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestReceiptService_GetPlaintext(t *testing.T) {
	mockRepo := new(MockReceiptRepository)
	mockRepo.On("FindByID", mock.Anything, "r1").Return(testReceipt(), nil)

	svc := NewReceiptService(mockRepo)
	text, err := svc.GetPlaintext(context.Background(), "r1", DefaultLineLength)

	require.NoError(t, err)
	assert.Contains(t, text, "checkbox.ua")
	assert.Contains(t, text, "Дякуємо за покупку!")
}

func TestReceiptService_GetPlaintext_NotFound(t *testing.T) {
	mockRepo := new(MockReceiptRepository)
	mockRepo.On("FindByID", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	svc := NewReceiptService(mockRepo)
	_, err := svc.GetPlaintext(context.Background(), "missing", DefaultLineLength)

	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}
