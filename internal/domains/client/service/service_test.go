package service_test

import (
	"context"
	"errors"
	"rentkit/config"
	"rentkit/infras/otel/mocks"
	clientMocks "rentkit/internal/domains/client/mocks"
	"rentkit/internal/domains/client/model"
	"rentkit/internal/domains/client/model/dto"
	"rentkit/internal/domains/client/service"
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

func newService(t *testing.T) (service.Client, *clientMocks.MockClient, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := clientMocks.NewMockClient(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func TestClientService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateClientRequest
		setupMock func(repo *clientMocks.MockClient, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req: dto.CreateClientRequest{
				Name:  "Sharma Constructions",
				Email: "accounts@sharma.example.com",
				Phone: "+91-98400-55555",
			},
			setupMock: func(repo *clientMocks.MockClient, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mod model.Client) error {
						assert.Equal(t, "accounts@sharma.example.com", mod.Email)
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
			name: "duplicate email for same owner",
			req: dto.CreateClientRequest{
				Name:  "Sharma Constructions",
				Email: "accounts@sharma.example.com",
			},
			setupMock: func(repo *clientMocks.MockClient, _ *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "repository error",
			req: dto.CreateClientRequest{
				Name:  "Sharma Constructions",
				Email: "other@sharma.example.com",
			},
			setupMock: func(repo *clientMocks.MockClient, _ *cacheMocks.MockRedisCache) {
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
			svc, mockRepo, mockCache := newService(t)
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

func TestClientService_Get(t *testing.T) {
	t.Run("owner mismatch reads as not found", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Client{}, nil)

		_, err := svc.Get(ownerCtx("owner-b"), "client-1")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("owned client found", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Client{
				ID:       "client-1",
				Name:     "Sharma Constructions",
				Email:    "accounts@sharma.example.com",
				Metadata: gModel.Metadata{CreatedBy: "owner-a"},
			}, nil)
		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(ownerCtx("owner-a"), "client-1")

		assert.NoError(t, err)
		assert.Equal(t, "client-1", res.ID)
		assert.Equal(t, "Sharma Constructions", res.Name)
	})
}

func TestClientService_Update(t *testing.T) {
	t.Run("empty update rejected", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateClientRequest{}, "client-1")

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("email collision rejected", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateClientRequest{Email: "taken@example.com"}, "client-1")

		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("successful update", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "Sharma Infra Pvt Ltd", fields["name"])

				return nil
			})
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Update(ownerCtx("owner-a"), dto.UpdateClientRequest{Name: "Sharma Infra Pvt Ltd"}, "client-1")

		assert.NoError(t, err)
	})
}

func TestClientService_Delete(t *testing.T) {
	t.Run("unknown client rejected", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(ownerCtx("owner-a"), "client-404")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("successful delete", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Delete(ownerCtx("owner-a"), "client-1")

		assert.NoError(t, err)
	})
}

func TestClientService_GetAll(t *testing.T) {
	t.Run("list and count queries are owner scoped", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

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
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Client, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "owner-a", args[constant.FieldCreatedBy])

				return []model.Client{{ID: "client-1", Email: "accounts@sharma.example.com", Metadata: gModel.Metadata{CreatedBy: "owner-a"}}}, nil
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
		assert.Len(t, res.Clients, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}
