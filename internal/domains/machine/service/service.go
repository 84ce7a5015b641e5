package service

import (
	"context"
	"fmt"
	"rentkit/config"
	"rentkit/infras/otel"
	"rentkit/internal/domains/machine/model"
	"rentkit/internal/domains/machine/model/dto"
	"rentkit/internal/domains/machine/repository"
	"rentkit/shared"
	"rentkit/shared/cache"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetMachine    = "machine:get"
	cacheGetAllMachine = "machine:gets"
	cacheCountMachine  = "machine:count"
)

type Machine interface {
	Create(ctx context.Context, req dto.CreateMachineRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetMachinesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.MachineResponse, error)
	Update(ctx context.Context, req dto.UpdateMachineRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Machine
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Machine, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Machine {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMachineRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	// Vehicle number is unique within one owner's fleet only.
	duplicate, err := s.repo.Exist(ctx, shared.FilterByFieldOwned(
		model.FieldVehicleNumber, req.VehicleNumber, user, model.FieldID, "", model.TableName,
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to check vehicle number")

		return fmt.Errorf("failed to check vehicle number: %w", err)
	}

	if duplicate {
		return failure.Conflict("vehicle number already registered") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create machine")

		return fmt.Errorf("failed to create machine: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllMachine)
		shared.InvalidateCaches(c, s.cache, cacheCountMachine)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMachinesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	owned := shared.ScopeToOwner(filter, user, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMachine, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for machines")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count machines")

		return res, fmt.Errorf("failed to count machines: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to get machines")

		return res, fmt.Errorf("failed to get machines: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save machines to cache")
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

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMachine, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to count machines")

		return res, fmt.Errorf("failed to count machines: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save machine count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MachineResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(cacheGetMachine, user, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	machine, err := s.repo.Get(ctx, shared.FilterByIDOwned(id, user, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get machine")

		return res, fmt.Errorf("failed to get machine: %w", err)
	}

	if machine.ID == constant.Empty {
		return res, failure.NotFound("machine not found") // nolint:wrapcheck
	}

	res.FromModel(machine)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save machine to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMachineRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateMachineRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if machine exists")

		return fmt.Errorf("failed to check if machine exists: %w", err)
	}

	if !exist {
		return failure.NotFound("machine not found") // nolint:wrapcheck
	}

	if req.VehicleNumber != "" {
		duplicate, err := s.repo.Exist(ctx, shared.FilterByFieldOwned(
			model.FieldVehicleNumber, req.VehicleNumber, user, model.FieldID, id, model.TableName,
		))
		if err != nil {
			log.Error().Err(err).Msg("failed to check vehicle number")

			return fmt.Errorf("failed to check vehicle number: %w", err)
		}

		if duplicate {
			return failure.Conflict("vehicle number already registered") // nolint:wrapcheck
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update machine")

		return fmt.Errorf("failed to update machine: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMachine, user, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete machine from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMachine)
		shared.InvalidateCaches(c, s.cache, cacheCountMachine)
	}()

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
		log.Error().Err(err).Msg("failed to check if machine exists")

		return fmt.Errorf("failed to check if machine exists: %w", err)
	}

	if !exist {
		return failure.NotFound("machine not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete machine")

		return fmt.Errorf("failed to delete machine: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMachine, user, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete machine from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMachine)
		shared.InvalidateCaches(c, s.cache, cacheCountMachine)
	}()

	return nil
}
