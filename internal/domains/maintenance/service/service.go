package service

import (
	"context"
	"fmt"
	"rentkit/config"
	"rentkit/infras/otel"
	machineModel "rentkit/internal/domains/machine/model"
	machineRepo "rentkit/internal/domains/machine/repository"
	"rentkit/internal/domains/maintenance/model"
	"rentkit/internal/domains/maintenance/model/dto"
	"rentkit/internal/domains/maintenance/repository"
	"rentkit/shared"
	"rentkit/shared/cache"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/failure"
	"rentkit/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheGetMaintenance = "maintenance:get"

type Maintenance interface {
	AppendEntry(ctx context.Context, req dto.AppendEntryRequest, machineID string) (dto.MaintenanceLogResponse, error)
	Get(ctx context.Context, machineID string) (dto.MaintenanceLogResponse, error)
	Delete(ctx context.Context, machineID string) error
}

type serviceImpl struct {
	repo     repository.MaintenanceLog
	machines machineRepo.Machine
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.MaintenanceLog, machines machineRepo.Machine, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Maintenance {
	return &serviceImpl{
		repo:     repo,
		machines: machines,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) logFilter(machineID, user string) gDto.FilterGroup {
	return shared.FilterByFieldOwned(model.FieldMachineID, machineID, user, model.FieldID, "", model.TableName)
}

// AppendEntry merges the dated items into the machine's log, creating
// the log itself on first use.
func (s *serviceImpl) AppendEntry(ctx context.Context, req dto.AppendEntryRequest, machineID string) (res dto.MaintenanceLogResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AppendEntry")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	machineExists, err := s.machines.Exist(ctx, shared.FilterByIDOwned(machineID, user, machineModel.FieldID, machineModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check machine")

		return res, fmt.Errorf("failed to check machine: %w", err)
	}

	if !machineExists {
		return res, failure.NotFound("machine not found") // nolint:wrapcheck
	}

	logRow, err := s.repo.Get(ctx, s.logFilter(machineID, user))
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance log")

		return res, fmt.Errorf("failed to get maintenance log: %w", err)
	}

	if logRow.ID == constant.Empty {
		logRow = dto.NewLog(machineID, user)
		logRow.Entries = logRow.Entries.Merge(req.Date, req.ToItems())

		if err = s.repo.Insert(ctx, logRow); err != nil {
			log.Error().Err(err).Msg("failed to create maintenance log")

			return res, fmt.Errorf("failed to create maintenance log: %w", err)
		}
	} else {
		logRow.Entries = logRow.Entries.Merge(req.Date, req.ToItems())
		logRow.ModifiedAt = timezone.Now()
		logRow.ModifiedBy = user

		updatedFields := map[string]any{
			model.FieldEntries:       logRow.Entries,
			constant.FieldModifiedAt: logRow.ModifiedAt,
			constant.FieldModifiedBy: user,
		}

		if err = s.repo.Update(ctx, updatedFields, s.logFilter(machineID, user)); err != nil {
			log.Error().Err(err).Msg("failed to update maintenance log")

			return res, fmt.Errorf("failed to update maintenance log: %w", err)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMaintenance, user, machineID)); err != nil {
			log.Error().Err(err).Msg("failed to delete maintenance log from cache")
		}
	}()

	res.FromModel(logRow)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, machineID string) (res dto.MaintenanceLogResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(cacheGetMaintenance, user, machineID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	logRow, err := s.repo.Get(ctx, s.logFilter(machineID, user))
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance log")

		return res, fmt.Errorf("failed to get maintenance log: %w", err)
	}

	if logRow.ID == constant.Empty {
		return res, failure.NotFound("maintenance log not found") // nolint:wrapcheck
	}

	res.FromModel(logRow)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance log to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, machineID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := s.logFilter(machineID, user)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if maintenance log exists")

		return fmt.Errorf("failed to check if maintenance log exists: %w", err)
	}

	if !exist {
		return failure.NotFound("maintenance log not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete maintenance log")

		return fmt.Errorf("failed to delete maintenance log: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMaintenance, user, machineID)); err != nil {
			log.Error().Err(err).Msg("failed to delete maintenance log from cache")
		}
	}()

	return nil
}
