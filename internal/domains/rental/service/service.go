package service

import (
	"context"
	"fmt"
	"rentkit/config"
	"rentkit/infras/otel"
	"rentkit/infras/postgres"
	clientModel "rentkit/internal/domains/client/model"
	clientRepo "rentkit/internal/domains/client/repository"
	driverModel "rentkit/internal/domains/driver/model"
	driverRepo "rentkit/internal/domains/driver/repository"
	machineModel "rentkit/internal/domains/machine/model"
	machineRepo "rentkit/internal/domains/machine/repository"
	quotationModel "rentkit/internal/domains/quotation/model"
	quotationRepo "rentkit/internal/domains/quotation/repository"
	"rentkit/internal/domains/rental/model"
	"rentkit/internal/domains/rental/model/dto"
	"rentkit/internal/domains/rental/repository"
	"rentkit/shared"
	"rentkit/shared/cache"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/failure"
	"rentkit/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRental    = "rental:get"
	cacheGetAllRental = "rental:gets"
	cacheCountRental  = "rental:count"

	cacheQuotationPrefix = "quotation"
)

type Rental interface {
	Create(ctx context.Context, req dto.CreateRentalRequest) (dto.RentalResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRentalsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RentalResponse, error)
	Update(ctx context.Context, req dto.UpdateRentalRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateRentalStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo       repository.Rental
	quotations quotationRepo.Quotation
	clients    clientRepo.Client
	machines   machineRepo.Machine
	drivers    driverRepo.Driver
	tx         postgres.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Rental,
	quotations quotationRepo.Quotation,
	clients clientRepo.Client,
	machines machineRepo.Machine,
	drivers driverRepo.Driver,
	tx postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Rental {
	return &serviceImpl{
		repo:       repo,
		quotations: quotations,
		clients:    clients,
		machines:   machines,
		drivers:    drivers,
		tx:         tx,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// checkReferences verifies that the referenced client, machine and
// driver all belong to the requesting owner.
func (s *serviceImpl) checkReferences(ctx context.Context, req dto.CreateRentalRequest, user string) error {
	clientExists, err := s.clients.Exist(ctx, shared.FilterByIDOwned(req.ClientID, user, clientModel.FieldID, clientModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check client: %w", err)
	}

	if !clientExists {
		return failure.BadRequestFromString("client does not exist") // nolint:wrapcheck
	}

	machineExists, err := s.machines.Exist(ctx, shared.FilterByIDOwned(req.MachineID, user, machineModel.FieldID, machineModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check machine: %w", err)
	}

	if !machineExists {
		return failure.BadRequestFromString("machine does not exist") // nolint:wrapcheck
	}

	driverExists, err := s.drivers.Exist(ctx, shared.FilterByIDOwned(req.DriverID, user, driverModel.FieldID, driverModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to check driver: %w", err)
	}

	if !driverExists {
		return failure.BadRequestFromString("driver does not exist") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRentalRequest) (res dto.RentalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.checkReferences(ctx, req, user); err != nil {
		return res, err
	}

	rental := req.ToModel(user)

	if rental.QuotationID == nil {
		if err = s.repo.Insert(ctx, rental); err != nil {
			log.Error().Err(err).Msg("failed to create rental")

			return res, fmt.Errorf("failed to create rental: %w", err)
		}
	} else if err = s.createWithConversion(ctx, rental, user); err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRental)
		shared.InvalidateCaches(c, s.cache, cacheCountRental)

		if rental.QuotationID != nil {
			shared.InvalidateCaches(c, s.cache, cacheQuotationPrefix)
		}
	}()

	res.FromModel(rental)

	return res, nil
}

// createWithConversion inserts the rental and flips the referenced
// quotation to Converted in a single transaction. Either both rows
// land or neither does.
func (s *serviceImpl) createWithConversion(ctx context.Context, rental model.Rental, user string) error {
	quotationFilter := shared.FilterByIDOwned(*rental.QuotationID, user, quotationModel.FieldID, quotationModel.TableName)

	quotation, err := s.quotations.Get(ctx, quotationFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get quotation")

		return fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.ID == constant.Empty {
		return failure.BadRequestFromString("quotation does not exist") // nolint:wrapcheck
	}

	if quotation.Status != quotationModel.StatusPending {
		return failure.BadRequestFromString( // nolint:wrapcheck
			fmt.Sprintf("quotation is %s and cannot be converted", quotation.Status),
		)
	}

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, rental); err != nil {
			return fmt.Errorf("failed to create rental: %w", err)
		}

		updatedFields := map[string]any{
			quotationModel.FieldStatus: quotationModel.StatusConverted,
			constant.FieldModifiedAt:   timezone.Now(),
			constant.FieldModifiedBy:   user,
		}

		if err := s.quotations.UpdateTx(ctx, tx, updatedFields, quotationFilter); err != nil {
			return fmt.Errorf("failed to convert quotation: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).
			Str("quotationID", quotation.ID).
			Msg("rental creation with quotation conversion rolled back")

		return fmt.Errorf("failed to create rental from quotation: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRentalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	owned := shared.ScopeToOwner(filter, user, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRental, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rentals")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rentals")

		return res, fmt.Errorf("failed to count rentals: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rentals")

		return res, fmt.Errorf("failed to get rentals: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rentals to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	owned := shared.ScopeToOwner(filter, user, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRental, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rentals")

		return res, fmt.Errorf("failed to count rentals: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rental count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RentalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(cacheGetRental, user, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	rental, err := s.repo.Get(ctx, shared.FilterByIDOwned(id, user, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get rental")

		return res, fmt.Errorf("failed to get rental: %w", err)
	}

	if rental.ID == constant.Empty {
		return res, failure.NotFound("rental not found") // nolint:wrapcheck
	}

	res.FromModel(rental)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rental to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRentalRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateRentalRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if rental exists")

		return fmt.Errorf("failed to check if rental exists: %w", err)
	}

	if !exist {
		return failure.NotFound("rental not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update rental")

		return fmt.Errorf("failed to update rental: %w", err)
	}

	s.invalidate(ctx, user, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateRentalStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	rental, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rental")

		return fmt.Errorf("failed to get rental: %w", err)
	}

	if rental.ID == constant.Empty {
		return failure.NotFound("rental not found") // nolint:wrapcheck
	}

	if !model.CanTransition(rental.Status, req.Status) {
		return failure.BadRequestFromString( // nolint:wrapcheck
			fmt.Sprintf("cannot change rental status from %s to %s", rental.Status, req.Status),
		)
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update rental status")

		return fmt.Errorf("failed to update rental status: %w", err)
	}

	s.invalidate(ctx, user, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if rental exists")

		return fmt.Errorf("failed to check if rental exists: %w", err)
	}

	if !exist {
		return failure.NotFound("rental not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete rental")

		return fmt.Errorf("failed to delete rental: %w", err)
	}

	s.invalidate(ctx, user, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, user, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRental, user, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete rental from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRental)
		shared.InvalidateCaches(c, s.cache, cacheCountRental)
	}()
}
