package service_test

import (
	"context"
	"errors"
	"rentkit/config"
	"rentkit/infras/otel/mocks"
	txMocks "rentkit/infras/postgres/mocks"
	clientMocks "rentkit/internal/domains/client/mocks"
	driverMocks "rentkit/internal/domains/driver/mocks"
	machineMocks "rentkit/internal/domains/machine/mocks"
	quotationMocks "rentkit/internal/domains/quotation/mocks"
	quotationModel "rentkit/internal/domains/quotation/model"
	rentalMocks "rentkit/internal/domains/rental/mocks"
	"rentkit/internal/domains/rental/model"
	"rentkit/internal/domains/rental/model/dto"
	"rentkit/internal/domains/rental/service"
	cacheMocks "rentkit/shared/cache/mocks"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/failure"
	gModel "rentkit/shared/model"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixtures struct {
	repo       *rentalMocks.MockRental
	quotations *quotationMocks.MockQuotation
	clients    *clientMocks.MockClient
	machines   *machineMocks.MockMachine
	drivers    *driverMocks.MockDriver
	tx         *txMocks.MockTransactor
	cache      *cacheMocks.MockRedisCache
	svc        service.Rental
}

func setup(ctrl *gomock.Controller) fixtures {
	f := fixtures{
		repo:       rentalMocks.NewMockRental(ctrl),
		quotations: quotationMocks.NewMockQuotation(ctrl),
		clients:    clientMocks.NewMockClient(ctrl),
		machines:   machineMocks.NewMockMachine(ctrl),
		drivers:    driverMocks.NewMockDriver(ctrl),
		tx:         txMocks.NewMockTransactor(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	f.svc = service.New(f.repo, f.quotations, f.clients, f.machines, f.drivers, f.tx, cfg, f.cache, mocks.NewOtel())

	return f
}

func ownerCtx(owner string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, owner)
}

func expectReferences(f fixtures, client, machine, driver bool) {
	f.clients.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(client, nil)

	if !client {
		return
	}

	f.machines.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(machine, nil)

	if !machine {
		return
	}

	f.drivers.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(driver, nil)
}

func validRequest() dto.CreateRentalRequest {
	return dto.CreateRentalRequest{
		ClientID:  "0b815cb0-64f1-4f3c-9e9f-7c8a3e6f0a01",
		MachineID: "0b815cb0-64f1-4f3c-9e9f-7c8a3e6f0a02",
		DriverID:  "0b815cb0-64f1-4f3c-9e9f-7c8a3e6f0a03",
	}
}

func TestRentalService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("without quotation inserts directly", func(t *testing.T) {
		f := setup(ctrl)

		expectReferences(f, true, true, true)

		var inserted model.Rental

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r model.Rental) error {
				inserted = r

				return nil
			})
		f.cache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := f.svc.Create(ownerCtx("owner-a"), validRequest())

		assert.NoError(t, err)
		assert.Equal(t, model.StatusOngoing, inserted.Status)
		assert.Nil(t, inserted.QuotationID)
		assert.Equal(t, inserted.ID, res.ID)
	})

	t.Run("missing machine rejected", func(t *testing.T) {
		f := setup(ctrl)

		expectReferences(f, true, false, false)

		_, err := f.svc.Create(ownerCtx("owner-a"), validRequest())

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("quotation conversion runs in one transaction", func(t *testing.T) {
		f := setup(ctrl)

		expectReferences(f, true, true, true)

		req := validRequest()
		req.QuotationID = "0b815cb0-64f1-4f3c-9e9f-7c8a3e6f0a04"

		f.quotations.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(quotationModel.Quotation{
				ID:       req.QuotationID,
				Status:   quotationModel.StatusPending,
				Metadata: gModel.Metadata{CreatedBy: "owner-a"},
			}, nil)

		f.tx.EXPECT().
			WithinTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
				return fn(nil)
			})
		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		var statusUpdate map[string]any

		f.quotations.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				statusUpdate = fields

				return nil
			})
		f.cache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		_, err := f.svc.Create(ownerCtx("owner-a"), req)

		assert.NoError(t, err)
		assert.Equal(t, quotationModel.StatusConverted, statusUpdate[quotationModel.FieldStatus])
	})

	t.Run("non-pending quotation rejects conversion", func(t *testing.T) {
		f := setup(ctrl)

		expectReferences(f, true, true, true)

		req := validRequest()
		req.QuotationID = "0b815cb0-64f1-4f3c-9e9f-7c8a3e6f0a04"

		f.quotations.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(quotationModel.Quotation{
				ID:     req.QuotationID,
				Status: quotationModel.StatusConverted,
			}, nil)

		_, err := f.svc.Create(ownerCtx("owner-a"), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("conversion failure rolls back the rental", func(t *testing.T) {
		f := setup(ctrl)

		expectReferences(f, true, true, true)

		req := validRequest()
		req.QuotationID = "0b815cb0-64f1-4f3c-9e9f-7c8a3e6f0a04"

		f.quotations.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(quotationModel.Quotation{
				ID:     req.QuotationID,
				Status: quotationModel.StatusPending,
			}, nil)

		f.tx.EXPECT().
			WithinTx(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
				return fn(nil)
			})
		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)
		f.quotations.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		_, err := f.svc.Create(ownerCtx("owner-a"), req)

		assert.Error(t, err)
	})

	t.Run("unknown quotation rejected", func(t *testing.T) {
		f := setup(ctrl)

		expectReferences(f, true, true, true)

		req := validRequest()
		req.QuotationID = "0b815cb0-64f1-4f3c-9e9f-7c8a3e6f0a04"

		f.quotations.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(quotationModel.Quotation{}, nil)

		_, err := f.svc.Create(ownerCtx("owner-a"), req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

func TestRentalService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name     string
		current  string
		target   string
		wantErr  bool
		wantCode int
	}{
		{name: "pending to ongoing", current: model.StatusPending, target: model.StatusOngoing},
		{name: "ongoing to completed", current: model.StatusOngoing, target: model.StatusCompleted},
		{name: "ongoing to cancelled", current: model.StatusOngoing, target: model.StatusCancelled},
		{name: "completed is terminal", current: model.StatusCompleted, target: model.StatusOngoing, wantErr: true, wantCode: 400},
		{name: "cancelled is terminal", current: model.StatusCancelled, target: model.StatusOngoing, wantErr: true, wantCode: 400},
		{name: "no skipping pending to completed", current: model.StatusPending, target: model.StatusCompleted, wantErr: true, wantCode: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(ctrl)

			f.repo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(model.Rental{
					ID:       "rental-1",
					Status:   tt.current,
					Metadata: gModel.Metadata{CreatedBy: "owner-a"},
				}, nil)

			if !tt.wantErr {
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
				f.cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
				f.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			}

			err := f.svc.UpdateStatus(ownerCtx("owner-a"), dto.UpdateRentalStatusRequest{Status: tt.target}, "rental-1")

			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestRentalService_GetAll(t *testing.T) {
	t.Run("list and count queries are owner scoped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := setup(ctrl)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)
		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "owner-a", args[constant.FieldCreatedBy])

				return 1, nil
			})
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Rental, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, "owner-a", args[constant.FieldCreatedBy])

				return []model.Rental{{
					ID:       "rental-1",
					Status:   model.StatusOngoing,
					Metadata: gModel.Metadata{CreatedBy: "owner-a"},
				}}, nil
			})
		f.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := f.svc.GetAll(
			ownerCtx("owner-a"),
			gDto.QueryParams{},
			gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd},
		)

		assert.NoError(t, err)
		assert.Len(t, res.Rentals, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}
