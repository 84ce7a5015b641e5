package service_test

import (
	"context"
	"errors"
	"rentkit/config"
	"rentkit/infras/otel/mocks"
	machineMocks "rentkit/internal/domains/machine/mocks"
	"rentkit/internal/domains/machine/model"
	"rentkit/internal/domains/machine/model/dto"
	"rentkit/internal/domains/machine/service"
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

func TestMachineService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := machineMocks.NewMockMachine(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		req       dto.CreateMachineRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req: dto.CreateMachineRequest{
				Model:         "JS220",
				Manufacturer:  "JCB",
				VehicleNumber: "KA-01-1234",
				RentalRate:    1200,
			},
			setupMock: func() {
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
			},
			wantErr: false,
		},
		{
			name: "duplicate vehicle number for same owner",
			req: dto.CreateMachineRequest{
				Model:         "JS220",
				VehicleNumber: "KA-01-1234",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "repository error",
			req: dto.CreateMachineRequest{
				Model:         "JS220",
				VehicleNumber: "KA-01-9999",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Create(ownerCtx("owner-a"), tt.req)

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			}
		})
	}
}

func TestMachineService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := machineMocks.NewMockMachine(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	t.Run("owner mismatch reads as not found", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		// The owner filter excludes the row, so the repository
		// returns a zero machine.
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Machine{}, nil)

		_, err := svc.Get(ownerCtx("owner-b"), "machine-1")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("owned machine found", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Machine{
				ID:            "machine-1",
				Model:         "JS220",
				VehicleNumber: "KA-01-1234",
				Metadata:      gModel.Metadata{CreatedBy: "owner-a"},
			}, nil)
		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(ownerCtx("owner-a"), "machine-1")

		assert.NoError(t, err)
		assert.Equal(t, "machine-1", res.ID)
		assert.Equal(t, "KA-01-1234", res.VehicleNumber)
	})
}

func TestMachineService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := machineMocks.NewMockMachine(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	t.Run("empty update rejected", func(t *testing.T) {
		err := svc.Update(ownerCtx("owner-a"), dto.UpdateMachineRequest{}, "machine-1")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("vehicle number collision rejected", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateMachineRequest{VehicleNumber: "KA-01-0001"}, "machine-1")

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("successful update", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
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

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateMachineRequest{Model: "JS205"}, "machine-1")

		assert.NoError(t, err)
	})
}

func TestMachineService_GetAll(t *testing.T) {
	t.Run("list and count queries are owner scoped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := machineMocks.NewMockMachine(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		cfg := &config.Config{}
		cfg.Cache.TTL = 3600

		svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())

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
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Machine, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "owner-a", args[constant.FieldCreatedBy])

				return []model.Machine{{ID: "machine-1", VehicleNumber: "KA-01-1234", Metadata: gModel.Metadata{CreatedBy: "owner-a"}}}, nil
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
		assert.Len(t, res.Machines, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}
