package service_test

import (
	"context"
	"errors"
	"rentkit/config"
	"rentkit/infras/otel/mocks"
	invoiceMocks "rentkit/internal/domains/invoice/mocks"
	"rentkit/internal/domains/invoice/model"
	"rentkit/internal/domains/invoice/model/dto"
	"rentkit/internal/domains/invoice/service"
	settingsModel "rentkit/internal/domains/settings/model"
	settingsMocks "rentkit/internal/domains/settings/service/mocks"
	cacheMocks "rentkit/shared/cache/mocks"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/failure"
	gModel "rentkit/shared/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func ownerCtx(owner string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, owner)
}

func newService(ctrl *gomock.Controller) (*invoiceMocks.MockInvoice, *settingsMocks.MockSettings, *cacheMocks.MockRedisCache, service.Invoice) {
	mockRepo := invoiceMocks.NewMockInvoice(ctrl)
	mockSettings := settingsMocks.NewMockSettings(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	svc := service.New(mockRepo, mockSettings, cfg, mockCache, mocks.NewOtel())

	return mockRepo, mockSettings, mockCache, svc
}

func TestInvoiceService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("derives number and totals", func(t *testing.T) {
		mockRepo, mockSettings, mockCache, svc := newService(ctrl)

		mockSettings.EXPECT().
			Resolve(gomock.Any()).
			Return(settingsModel.Settings{InvoicePrefix: "INV-"}, nil)
		mockRepo.EXPECT().
			GetLatest(gomock.Any(), gomock.Any()).
			Return(model.Invoice{Sequence: "041"}, nil)
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		var inserted model.Invoice

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, inv model.Invoice) error {
				inserted = inv

				return nil
			})
		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Create(ownerCtx("owner-a"), dto.CreateInvoiceRequest{
			ClientName: "Acme Constructions",
			Items: []dto.ItemRequest{
				{MachineName: "JS220", Hours: "10", Rate: "100"},
			},
			Tax:      180,
			Discount: 80,
		})

		assert.NoError(t, err)
		assert.Equal(t, "042", inserted.Sequence)
		assert.Equal(t, "INV-042", inserted.Number)
		assert.Equal(t, float64(1000), inserted.Subtotal)
		assert.Equal(t, float64(1100), inserted.GrandTotal)
		assert.Equal(t, model.StatusPending, inserted.Status)
		assert.Equal(t, float64(1100), res.Balance)
	})

	t.Run("duplicate number conflicts", func(t *testing.T) {
		mockRepo, _, _, svc := newService(ctrl)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := svc.Create(ownerCtx("owner-a"), dto.CreateInvoiceRequest{
			ClientName: "Acme Constructions",
			Items:      []dto.ItemRequest{{MachineName: "JS220"}},
			Number:     "INV-042",
		})

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("same number under another owner is allowed", func(t *testing.T) {
		mockRepo, _, mockCache, svc := newService(ctrl)

		// The uniqueness check is owner-scoped, so the other owner's
		// invoice is invisible here.
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)
		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		_, err := svc.Create(ownerCtx("owner-b"), dto.CreateInvoiceRequest{
			ClientName: "Acme Constructions",
			Items:      []dto.ItemRequest{{MachineName: "JS220"}},
			Number:     "INV-042",
		})

		assert.NoError(t, err)
	})
}

func TestInvoiceService_AddPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("appends without touching status", func(t *testing.T) {
		mockRepo, _, mockCache, svc := newService(ctrl)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Invoice{
				ID:         "invoice-1",
				GrandTotal: 1000,
				Status:     model.StatusPending,
				Payments: model.Payments{
					{Date: "2025-04-01", Amount: 300},
				},
				Metadata: gModel.Metadata{CreatedBy: "owner-a"},
			}, nil)

		var updated map[string]any

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				updated = fields

				return nil
			})
		mockCache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()
		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.AddPayment(ownerCtx("owner-a"), dto.AddPaymentRequest{
			Date:   "2025-05-01",
			Method: "bank transfer",
			Amount: 500,
		}, "invoice-1")

		assert.NoError(t, err)

		payments, ok := updated[model.FieldPayments].(model.Payments)
		assert.True(t, ok)
		assert.Len(t, payments, 2)

		// status is never part of the payment write
		_, statusTouched := updated[model.FieldStatus]
		assert.False(t, statusTouched)

		assert.Equal(t, float64(800), res.AmountPaid)
		assert.Equal(t, float64(200), res.Balance)
		assert.Equal(t, model.StatusPending, res.Status)
	})

	t.Run("overpayment accepted with negative balance", func(t *testing.T) {
		mockRepo, _, mockCache, svc := newService(ctrl)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Invoice{
				ID:         "invoice-1",
				GrandTotal: 100,
				Status:     model.StatusPending,
				Payments:   model.Payments{},
				Metadata:   gModel.Metadata{CreatedBy: "owner-a"},
			}, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		mockCache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()
		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.AddPayment(ownerCtx("owner-a"), dto.AddPaymentRequest{
			Date:   "2025-05-01",
			Amount: 250,
		}, "invoice-1")

		assert.NoError(t, err)
		assert.Equal(t, float64(250), res.AmountPaid)
		assert.Equal(t, float64(-150), res.Balance)
	})
}

func TestInvoiceService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name     string
		current  string
		target   string
		wantErr  bool
		wantCode int
	}{
		{name: "pending to success", current: model.StatusPending, target: model.StatusSuccess},
		{name: "success to paid", current: model.StatusSuccess, target: model.StatusPaid},
		{name: "pending to paid", current: model.StatusPending, target: model.StatusPaid},
		{name: "paid is terminal", current: model.StatusPaid, target: model.StatusPending, wantErr: true, wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo, _, mockCache, svc := newService(ctrl)

			mockRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(model.Invoice{
					ID:       "invoice-1",
					Status:   tt.current,
					Metadata: gModel.Metadata{CreatedBy: "owner-a"},
				}, nil)

			if !tt.wantErr {
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			}

			err := svc.UpdateStatus(ownerCtx("owner-a"), dto.UpdateInvoiceStatusRequest{Status: tt.target}, "invoice-1")

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestInvoiceService_GetAll(t *testing.T) {
	t.Run("list and count queries are owner scoped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo, _, mockCache, svc := newService(ctrl)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)
		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "owner-a", args[constant.FieldCreatedBy])

				return 1, nil
			})
		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Invoice, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "owner-a", args[constant.FieldCreatedBy])

				return []model.Invoice{{ID: "invoice-1", Number: "INV/2025-26/003", Status: model.StatusPending, Metadata: gModel.Metadata{CreatedBy: "owner-a"}}}, nil
			})
		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.GetAll(
			ownerCtx("owner-a"),
			gDto.QueryParams{},
			gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd},
		)

		assert.NoError(t, err)
		assert.Len(t, res.Invoices, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}
