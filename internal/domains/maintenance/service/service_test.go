package service_test

import (
	"context"
	"rentkit/config"
	"rentkit/infras/otel/mocks"
	machineMocks "rentkit/internal/domains/machine/mocks"
	maintenanceMocks "rentkit/internal/domains/maintenance/mocks"
	"rentkit/internal/domains/maintenance/model"
	"rentkit/internal/domains/maintenance/model/dto"
	"rentkit/internal/domains/maintenance/service"
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

func newService(ctrl *gomock.Controller) (*maintenanceMocks.MockMaintenanceLog, *machineMocks.MockMachine, *cacheMocks.MockRedisCache, service.Maintenance) {
	mockRepo := maintenanceMocks.NewMockMaintenanceLog(ctrl)
	mockMachines := machineMocks.NewMockMachine(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	svc := service.New(mockRepo, mockMachines, cfg, mockCache, mocks.NewOtel())

	return mockRepo, mockMachines, mockCache, svc
}

func TestMaintenanceService_AppendEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("first entry creates the log", func(t *testing.T) {
		mockRepo, mockMachines, mockCache, svc := newService(ctrl)

		mockMachines.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.MaintenanceLog{}, nil)

		var inserted model.MaintenanceLog

		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, logRow model.MaintenanceLog) error {
				inserted = logRow

				return nil
			})
		mockCache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.AppendEntry(ownerCtx("owner-a"), dto.AppendEntryRequest{
			Date: "2025-04-01",
			Items: []dto.EntryItemRequest{
				{Description: "oil change", Cost: 120},
			},
		}, "machine-1")

		assert.NoError(t, err)
		assert.Equal(t, "machine-1", inserted.MachineID)
		assert.Len(t, inserted.Entries, 1)
		assert.Equal(t, float64(120), res.Total)
	})

	t.Run("same date merges items without dedup", func(t *testing.T) {
		mockRepo, mockMachines, mockCache, svc := newService(ctrl)

		mockMachines.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.MaintenanceLog{
				ID:        "log-1",
				MachineID: "machine-1",
				Entries: model.Entries{
					{Date: "2025-04-01", Items: []model.EntryItem{{Description: "oil change", Cost: 120}}},
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

		res, err := svc.AppendEntry(ownerCtx("owner-a"), dto.AppendEntryRequest{
			Date: "2025-04-01",
			Items: []dto.EntryItemRequest{
				{Description: "oil change", Cost: 120},
				{Description: "filter", Cost: 40},
			},
		}, "machine-1")

		assert.NoError(t, err)

		entries, ok := updated[model.FieldEntries].(model.Entries)
		assert.True(t, ok)
		assert.Len(t, entries, 1)
		assert.Len(t, entries[0].Items, 3)

		assert.Equal(t, float64(280), res.Total)
		assert.Equal(t, float64(280), res.Entries[0].Total)
	})

	t.Run("new date adds an entry", func(t *testing.T) {
		mockRepo, mockMachines, mockCache, svc := newService(ctrl)

		mockMachines.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.MaintenanceLog{
				ID:        "log-1",
				MachineID: "machine-1",
				Entries: model.Entries{
					{Date: "2025-04-01", Items: []model.EntryItem{{Description: "oil change", Cost: 120}}},
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

		_, err := svc.AppendEntry(ownerCtx("owner-a"), dto.AppendEntryRequest{
			Date: "2025-04-02",
			Items: []dto.EntryItemRequest{
				{Description: "hydraulic check", Cost: 90},
			},
		}, "machine-1")

		assert.NoError(t, err)

		entries, ok := updated[model.FieldEntries].(model.Entries)
		assert.True(t, ok)
		assert.Len(t, entries, 2)
	})

	t.Run("unknown machine rejected", func(t *testing.T) {
		_, mockMachines, _, svc := newService(ctrl)

		mockMachines.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := svc.AppendEntry(ownerCtx("owner-a"), dto.AppendEntryRequest{
			Date:  "2025-04-01",
			Items: []dto.EntryItemRequest{{Description: "oil change"}},
		}, "machine-404")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestEntriesMerge(t *testing.T) {
	entries := model.Entries{}

	entries = entries.Merge("2025-04-01", []model.EntryItem{{Description: "oil change", Cost: 100}})
	entries = entries.Merge("2025-04-01", []model.EntryItem{{Description: "oil change", Cost: 100}})
	entries = entries.Merge("2025-04-02", []model.EntryItem{{Description: "filter", Cost: 50}})

	assert.Len(t, entries, 2)
	assert.Len(t, entries[0].Items, 2)
	assert.Equal(t, float64(250), entries.Total())

	// date strings are matched verbatim
	entries = entries.Merge("2025-4-1", []model.EntryItem{{Description: "greasing", Cost: 10}})
	assert.Len(t, entries, 3)
}
