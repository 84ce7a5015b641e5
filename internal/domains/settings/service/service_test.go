package service_test

import (
	"context"
	"errors"
	"rentkit/config"
	"rentkit/infras/otel/mocks"
	settingsMocks "rentkit/internal/domains/settings/mocks"
	"rentkit/internal/domains/settings/model"
	"rentkit/internal/domains/settings/model/dto"
	"rentkit/internal/domains/settings/service"
	cacheMocks "rentkit/shared/cache/mocks"
	"rentkit/shared/constant"
	"rentkit/shared/failure"
	gModel "rentkit/shared/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func ownerCtx(owner string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, owner)
}

func newService(ctrl *gomock.Controller) (*settingsMocks.MockSettings, *cacheMocks.MockRedisCache, service.Settings) {
	mockRepo := settingsMocks.NewMockSettings(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Billing.QuotationPrefix = "QUO/{{xxxx}}-{{yy}}/"
	cfg.Billing.InvoicePrefix = "INV/{{xxxx}}-{{yy}}/"

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

	return mockRepo, mockCache, svc
}

func TestSettingsService_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("returns existing row", func(t *testing.T) {
		mockRepo, _, svc := newService(ctrl)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Settings{
				ID:              "settings-1",
				QuotationPrefix: "Q-",
				Metadata:        gModel.Metadata{CreatedBy: "owner-a"},
			}, nil)

		res, err := svc.Resolve(ownerCtx("owner-a"))

		assert.NoError(t, err)
		assert.Equal(t, "settings-1", res.ID)
		assert.Equal(t, "Q-", res.QuotationPrefix)
	})

	t.Run("creates defaults on first access", func(t *testing.T) {
		mockRepo, _, svc := newService(ctrl)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Settings{}, nil)

		var inserted model.Settings

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, settings model.Settings) error {
				inserted = settings

				return nil
			})

		res, err := svc.Resolve(ownerCtx("owner-a"))

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, res.ID, inserted.ID)
		assert.Equal(t, "QUO/{{xxxx}}-{{yy}}/", inserted.QuotationPrefix)
		assert.Equal(t, "INV/{{xxxx}}-{{yy}}/", inserted.InvoicePrefix)
		assert.Equal(t, "owner-a", inserted.CreatedBy)
	})

	t.Run("propagates repository error", func(t *testing.T) {
		mockRepo, _, svc := newService(ctrl)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Settings{}, errors.New("connection refused"))

		_, err := svc.Resolve(ownerCtx("owner-a"))

		assert.Error(t, err)
	})
}

func TestSettingsService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("rejects empty request", func(t *testing.T) {
		_, _, svc := newService(ctrl)

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateSettingsRequest{})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("binds jsonb columns through model types", func(t *testing.T) {
		mockRepo, mockCache, svc := newService(ctrl)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Settings{
				ID:       "settings-1",
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

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateSettingsRequest{
			CompanyName: "Acme Rentals",
			BankDetails: &[]dto.BankDetailRequest{
				{BankName: "HDFC", AccountNumber: "0012345678"},
			},
			Terms: &[]dto.TermRequest{
				{Title: "Payment", Content: "Due within 15 days."},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "Acme Rentals", updated["company_name"])

		details, ok := updated["bank_details"].(model.BankDetails)
		assert.True(t, ok)
		assert.Equal(t, "HDFC", details[0].BankName)

		terms, ok := updated["terms"].(model.Terms)
		assert.True(t, ok)
		assert.Equal(t, "Payment", terms[0].Title)
	})
}
