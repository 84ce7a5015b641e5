package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"rentkit/config"
	"rentkit/infras/otel"
	"rentkit/internal/domains/settings/model"
	"rentkit/internal/domains/settings/model/dto"
	"rentkit/internal/domains/settings/repository"
	"rentkit/shared"
	"rentkit/shared/cache"
	"rentkit/shared/constant"
	"rentkit/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheGetSettings = "settings:get"

type Settings interface {
	Get(ctx context.Context) (dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) error
	// Resolve returns the owner's settings row, creating the default
	// one on first access. Other services read numbering templates
	// through it.
	Resolve(ctx context.Context) (model.Settings, error)
}

type serviceImpl struct {
	repo  repository.Settings
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Settings, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Settings {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Resolve(ctx context.Context) (res model.Settings, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err = s.repo.Get(ctx, shared.FilterByOwner(user, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return res, fmt.Errorf("failed to get settings: %w", err)
	}

	if res.ID != constant.Empty {
		return res, nil
	}

	res = dto.DefaultModel(user, s.cfg)

	if err = s.repo.Insert(ctx, res); err != nil {
		log.Error().Err(err).Msg("failed to create default settings")

		return res, fmt.Errorf("failed to create default settings: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.SettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(cacheGetSettings, user)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	settings, err := s.Resolve(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(settings)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save settings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSettingsRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateSettingsRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	settings, err := s.Resolve(ctx)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, user)

	// JSONB columns go through their Valuer types so sqlx can bind them.
	if req.BankDetails != nil {
		details := make(model.BankDetails, len(*req.BankDetails))
		for i, d := range *req.BankDetails {
			details[i] = model.BankDetail(d)
		}

		updatedFields["bank_details"] = details
	}

	if req.Terms != nil {
		terms := make(model.Terms, len(*req.Terms))
		for i, t := range *req.Terms {
			terms[i] = model.Term(t)
		}

		updatedFields["terms"] = terms
	}

	filter := shared.FilterByIDOwned(settings.ID, user, model.FieldID, model.TableName)

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update settings")

		return fmt.Errorf("failed to update settings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSettings, user)); err != nil {
			log.Error().Err(err).Msg("failed to delete settings from cache")
		}
	}()

	return nil
}
