package service_test

import (
	"context"
	"errors"
	"rentkit/config"
	"rentkit/infras/otel/mocks"
	quotationMocks "rentkit/internal/domains/quotation/mocks"
	"rentkit/internal/domains/quotation/model"
	"rentkit/internal/domains/quotation/model/dto"
	"rentkit/internal/domains/quotation/service"
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

func TestQuotationService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := quotationMocks.NewMockQuotation(ctrl)
	mockSettings := settingsMocks.NewMockSettings(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockSettings, cfg, mockCache, mockOtel)

	ownerSettings := settingsModel.Settings{
		ID:              "settings-1",
		QuotationPrefix: "QUO/{{xxxx}}-{{yy}}/",
	}

	t.Run("computes total, sequence and number", func(t *testing.T) {
		mockSettings.EXPECT().
			Resolve(gomock.Any()).
			Return(ownerSettings, nil)
		mockRepo.EXPECT().
			GetLatest(gomock.Any(), gomock.Any()).
			Return(model.Quotation{Sequence: "007"}, nil)

		var inserted model.Quotation

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q model.Quotation) error {
				inserted = q

				return nil
			})
		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Create(ownerCtx("owner-a"), dto.CreateQuotationRequest{
			ClientName: "Acme Constructions",
			Items: []dto.ItemRequest{
				{MachineName: "JS220", Hours: "2", Rate: "100"},
				{MachineName: "JS205", Hours: "3", Rate: "50"},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "008", inserted.Sequence)

		assert.Contains(t, inserted.Number, "QUO/")
		assert.True(t, len(inserted.Number) > len("QUO/008"))
		assert.Equal(t, float64(350), inserted.Total)
		assert.Equal(t, model.StatusPending, inserted.Status)
		assert.Equal(t, "owner-a", inserted.CreatedBy)
		assert.Equal(t, inserted.Number, res.Number)
	})

	t.Run("malformed item numerics degrade to zero", func(t *testing.T) {
		mockSettings.EXPECT().
			Resolve(gomock.Any()).
			Return(ownerSettings, nil)
		mockRepo.EXPECT().
			GetLatest(gomock.Any(), gomock.Any()).
			Return(model.Quotation{}, nil)

		var inserted model.Quotation

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q model.Quotation) error {
				inserted = q

				return nil
			})
		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		_, err := svc.Create(ownerCtx("owner-a"), dto.CreateQuotationRequest{
			ClientName: "Acme Constructions",
			Items: []dto.ItemRequest{
				{MachineName: "JS220", Hours: "abc", Rate: "100"},
				{MachineName: "JS205", Hours: "4", Rate: "25"},
			},
		})

		assert.NoError(t, err)
		// first line contributes 0, sequence starts at 001
		assert.Equal(t, float64(100), inserted.Total)
		assert.Equal(t, "001", inserted.Sequence)
	})

	t.Run("submitted sequence and number stored verbatim", func(t *testing.T) {
		var inserted model.Quotation

		// no Resolve/GetLatest expectations: a pinned number must not
		// trigger server-side derivation
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q model.Quotation) error {
				inserted = q

				return nil
			})
		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Create(ownerCtx("owner-a"), dto.CreateQuotationRequest{
			ClientName: "Acme Constructions",
			Sequence:   "042",
			Number:     "QUO/2025-26/042",
			Items: []dto.ItemRequest{
				{MachineName: "JS220", Hours: "2", Rate: "100"},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "042", inserted.Sequence)
		assert.Equal(t, "QUO/2025-26/042", inserted.Number)
		assert.Equal(t, "QUO/2025-26/042", res.Number)
	})
}

func TestQuotationService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := quotationMocks.NewMockQuotation(ctrl)
	mockSettings := settingsMocks.NewMockSettings(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockSettings, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		current   string
		target    string
		wantErr   bool
		wantCode  int
		expectSet bool
	}{
		{
			name:      "pending can be cancelled",
			current:   model.StatusPending,
			target:    model.StatusCancelled,
			expectSet: true,
		},
		{
			name:     "converted is terminal",
			current:  model.StatusConverted,
			target:   model.StatusCancelled,
			wantErr:  true,
			wantCode: 400,
		},
		{
			name:     "cancelled is terminal",
			current:  model.StatusCancelled,
			target:   model.StatusPending,
			wantErr:  true,
			wantCode: 400,
		},
		{
			name:     "converted only via rental creation",
			current:  model.StatusPending,
			target:   model.StatusConverted,
			wantErr:  true,
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(model.Quotation{
					ID:       "quotation-1",
					Status:   tt.current,
					Metadata: gModel.Metadata{CreatedBy: "owner-a"},
				}, nil)

			if tt.expectSet {
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

			err := svc.UpdateStatus(ownerCtx("owner-a"), dto.UpdateQuotationStatusRequest{Status: tt.target}, "quotation-1")

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestQuotationService_NextNumber(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := quotationMocks.NewMockQuotation(ctrl)
	mockSettings := settingsMocks.NewMockSettings(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockSettings, cfg, mockCache, mockOtel)

	t.Run("first quotation starts at 001", func(t *testing.T) {
		mockSettings.EXPECT().
			Resolve(gomock.Any()).
			Return(settingsModel.Settings{QuotationPrefix: "Q-"}, nil)
		mockRepo.EXPECT().
			GetLatest(gomock.Any(), gomock.Any()).
			Return(model.Quotation{}, nil)

		res, err := svc.NextNumber(ownerCtx("owner-a"))

		assert.NoError(t, err)
		assert.Equal(t, "001", res.Sequence)
		assert.Equal(t, "Q-001", res.Number)
	})

	t.Run("garbage stored sequence falls back to 001", func(t *testing.T) {
		mockSettings.EXPECT().
			Resolve(gomock.Any()).
			Return(settingsModel.Settings{QuotationPrefix: "Q-"}, nil)
		mockRepo.EXPECT().
			GetLatest(gomock.Any(), gomock.Any()).
			Return(model.Quotation{Sequence: "n/a"}, nil)

		res, err := svc.NextNumber(ownerCtx("owner-a"))

		assert.NoError(t, err)
		assert.Equal(t, "001", res.Sequence)
	})
}

func TestQuotationService_GetAll(t *testing.T) {
	t.Run("list and count queries are owner scoped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := quotationMocks.NewMockQuotation(ctrl)
		mockSettings := settingsMocks.NewMockSettings(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		cfg := &config.Config{}
		cfg.Cache.TTL = 3600

		svc := service.New(mockRepo, mockSettings, cfg, mockCache, mocks.NewOtel())

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
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Quotation, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "owner-a", args[constant.FieldCreatedBy])

				return []model.Quotation{{ID: "quotation-1", Number: "QUO/2025-26/008", Status: model.StatusPending, Metadata: gModel.Metadata{CreatedBy: "owner-a"}}}, nil
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
		assert.Len(t, res.Quotations, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}
