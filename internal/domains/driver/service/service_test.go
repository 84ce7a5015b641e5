package service_test

import (
	"context"
	"errors"
	"rentkit/config"
	"rentkit/infras/otel/mocks"
	s3Mocks "rentkit/infras/s3/mocks"
	driverMocks "rentkit/internal/domains/driver/mocks"
	"rentkit/internal/domains/driver/model"
	"rentkit/internal/domains/driver/model/dto"
	"rentkit/internal/domains/driver/service"
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

func newService(t *testing.T) (service.Driver, *driverMocks.MockDriver, *cacheMocks.MockRedisCache, *s3Mocks.MockS3) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := driverMocks.NewMockDriver(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "rentkit-media"

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel(), mockS3)

	return svc, mockRepo, mockCache, mockS3
}

func TestDriverService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateDriverRequest
		setupMock func(repo *driverMocks.MockDriver, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req: dto.CreateDriverRequest{
				Name:       "Ramesh Kumar",
				Phone:      "+91-98400-12345",
				NationalID: "AADH-4821",
			},
			setupMock: func(repo *driverMocks.MockDriver, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mod model.Driver) error {
						assert.Equal(t, "AADH-4821", mod.NationalID)
						assert.Equal(t, "owner-a", mod.CreatedBy)

						return nil
					})
				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "duplicate national id for same owner",
			req: dto.CreateDriverRequest{
				Name:       "Ramesh Kumar",
				NationalID: "AADH-4821",
			},
			setupMock: func(repo *driverMocks.MockDriver, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "repository error",
			req: dto.CreateDriverRequest{
				Name:       "Ramesh Kumar",
				NationalID: "AADH-9999",
			},
			setupMock: func(repo *driverMocks.MockDriver, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache, _ := newService(t)
			tt.setupMock(mockRepo, mockCache)

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

func TestDriverService_Get(t *testing.T) {
	t.Run("owner mismatch reads as not found", func(t *testing.T) {
		svc, mockRepo, mockCache, _ := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Driver{}, nil)

		_, err := svc.Get(ownerCtx("owner-b"), "driver-1")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("owned driver found", func(t *testing.T) {
		svc, mockRepo, mockCache, _ := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Driver{
				ID:         "driver-1",
				Name:       "Ramesh Kumar",
				NationalID: "AADH-4821",
				Metadata:   gModel.Metadata{CreatedBy: "owner-a"},
			}, nil)
		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(ownerCtx("owner-a"), "driver-1")

		assert.NoError(t, err)
		assert.Equal(t, "driver-1", res.ID)
		assert.Equal(t, "AADH-4821", res.NationalID)
	})
}

func TestDriverService_Update(t *testing.T) {
	t.Run("empty update rejected", func(t *testing.T) {
		svc, _, _, _ := newService(t)

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateDriverRequest{}, "driver-1")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("national id collision rejected", func(t *testing.T) {
		svc, mockRepo, _, _ := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateDriverRequest{NationalID: "AADH-4821"}, "driver-1")

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("successful update", func(t *testing.T) {
		svc, mockRepo, mockCache, _ := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "Suresh Kumar", fields["name"])

				return nil
			})
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateDriverRequest{Name: "Suresh Kumar"}, "driver-1")

		assert.NoError(t, err)
	})
}

func TestDriverService_UploadPhoto(t *testing.T) {
	const photo = "data:image/png;base64,aGVsbG8gd29ybGQ="

	t.Run("uploads and stores the photo url", func(t *testing.T) {
		svc, mockRepo, mockCache, mockS3 := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Driver{
				ID:       "driver-1",
				Metadata: gModel.Metadata{CreatedBy: "owner-a"},
			}, nil)
		mockS3.EXPECT().
			UploadFileBytes(gomock.Any(), "rentkit-media", model.EntityName, "driver-1.png", "image/png", []byte("hello world")).
			Return("https://cdn.example.com/driver/driver-1.png", nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "https://cdn.example.com/driver/driver-1.png", fields[model.FieldPhotoURL])

				return nil
			})
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.UploadPhoto(ownerCtx("owner-a"), dto.UploadPhotoRequest{Photo: photo}, "driver-1")

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/driver/driver-1.png", res.URL)
	})

	t.Run("unknown driver rejected", func(t *testing.T) {
		svc, mockRepo, _, _ := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Driver{}, nil)

		_, err := svc.UploadPhoto(ownerCtx("owner-a"), dto.UploadPhotoRequest{Photo: photo}, "driver-404")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("non data-uri payload rejected", func(t *testing.T) {
		svc, mockRepo, _, _ := newService(t)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Driver{
				ID:       "driver-1",
				Metadata: gModel.Metadata{CreatedBy: "owner-a"},
			}, nil)

		_, err := svc.UploadPhoto(ownerCtx("owner-a"), dto.UploadPhotoRequest{Photo: "not-a-data-uri"}, "driver-1")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestDriverService_GetAll(t *testing.T) {
	t.Run("list and count queries are owner scoped", func(t *testing.T) {
		svc, mockRepo, mockCache, _ := newService(t)

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
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Driver, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "owner-a", args[constant.FieldCreatedBy])

				return []model.Driver{{ID: "driver-1", NationalID: "AADH-4821", Metadata: gModel.Metadata{CreatedBy: "owner-a"}}}, nil
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
		assert.Len(t, res.Drivers, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}
