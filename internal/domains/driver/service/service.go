package service

import (
	"context"
	b64 "encoding/base64"
	"fmt"
	"rentkit/config"
	"rentkit/infras/otel"
	"rentkit/infras/s3"
	"rentkit/internal/domains/driver/model"
	"rentkit/internal/domains/driver/model/dto"
	"rentkit/internal/domains/driver/repository"
	"rentkit/shared"
	"rentkit/shared/base64"
	"rentkit/shared/cache"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/failure"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetDriver    = "driver:get"
	cacheGetAllDriver = "driver:gets"
	cacheCountDriver  = "driver:count"
)

type Driver interface {
	Create(ctx context.Context, req dto.CreateDriverRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetDriversResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.DriverResponse, error)
	Update(ctx context.Context, req dto.UpdateDriverRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, req dto.UploadPhotoRequest, id string) (dto.UploadPhotoResponse, error)
}

type serviceImpl struct {
	repo  repository.Driver
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Driver, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Driver {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateDriverRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	// National id is unique within one owner's roster only.
	duplicate, err := s.repo.Exist(ctx, shared.FilterByFieldOwned(
		model.FieldNationalID, req.NationalID, user, model.FieldID, "", model.TableName,
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to check national id")

		return fmt.Errorf("failed to check national id: %w", err)
	}

	if duplicate {
		return failure.Conflict("national id already registered") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create driver")

		return fmt.Errorf("failed to create driver: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllDriver)
		shared.InvalidateCaches(c, s.cache, cacheCountDriver)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetDriversResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	owned := shared.ScopeToOwner(filter, user, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllDriver, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for drivers")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count drivers")

		return res, fmt.Errorf("failed to count drivers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to get drivers")

		return res, fmt.Errorf("failed to get drivers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save drivers to cache")
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

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountDriver, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to count drivers")

		return res, fmt.Errorf("failed to count drivers: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save driver count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.DriverResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(cacheGetDriver, user, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	driver, err := s.repo.Get(ctx, shared.FilterByIDOwned(id, user, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get driver")

		return res, fmt.Errorf("failed to get driver: %w", err)
	}

	if driver.ID == constant.Empty {
		return res, failure.NotFound("driver not found") // nolint:wrapcheck
	}

	res.FromModel(driver)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save driver to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateDriverRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateDriverRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if driver exists")

		return fmt.Errorf("failed to check if driver exists: %w", err)
	}

	if !exist {
		return failure.NotFound("driver not found") // nolint:wrapcheck
	}

	if req.NationalID != "" {
		duplicate, err := s.repo.Exist(ctx, shared.FilterByFieldOwned(
			model.FieldNationalID, req.NationalID, user, model.FieldID, id, model.TableName,
		))
		if err != nil {
			log.Error().Err(err).Msg("failed to check national id")

			return fmt.Errorf("failed to check national id: %w", err)
		}

		if duplicate {
			return failure.Conflict("national id already registered") // nolint:wrapcheck
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update driver")

		return fmt.Errorf("failed to update driver: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetDriver, user, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete driver from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllDriver)
		shared.InvalidateCaches(c, s.cache, cacheCountDriver)
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
		log.Error().Err(err).Msg("failed to check if driver exists")

		return fmt.Errorf("failed to check if driver exists: %w", err)
	}

	if !exist {
		return failure.NotFound("driver not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete driver")

		return fmt.Errorf("failed to delete driver: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetDriver, user, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete driver from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllDriver)
		shared.InvalidateCaches(c, s.cache, cacheCountDriver)
	}()

	return nil
}

func (s *serviceImpl) UploadPhoto(ctx context.Context, req dto.UploadPhotoRequest, id string) (res dto.UploadPhotoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadPhoto")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	driver, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get driver")

		return res, fmt.Errorf("failed to get driver: %w", err)
	}

	if driver.ID == constant.Empty {
		return res, failure.NotFound("driver not found") // nolint:wrapcheck
	}

	contentType := base64.GetContentType(req.Photo)

	marker := ";base64,"
	idx := strings.Index(req.Photo, marker)
	if idx == -1 {
		return res, failure.BadRequestFromString("photo must be a base64 data URI") // nolint:wrapcheck
	}

	fileData, err := b64.StdEncoding.DecodeString(req.Photo[idx+len(marker):])
	if err != nil {
		return res, failure.BadRequestFromString("photo payload is not valid base64") // nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName
	fileName := id + "." + strings.TrimPrefix(contentType, "image/")

	url, err := s.s3.UploadFileBytes(ctx, bucketName, model.EntityName, fileName, contentType, fileData)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload photo to S3")

		return res, fmt.Errorf("failed to upload photo to S3: %w", err)
	}

	if err = s.repo.Update(ctx, map[string]any{model.FieldPhotoURL: url}, filter); err != nil {
		log.Error().Err(err).Msg("failed to save photo url")

		return res, fmt.Errorf("failed to save photo url: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if driver.PhotoURL != constant.Empty && driver.PhotoURL != url {
			objectName := s.s3.GetObjectNameFromURL(bucketName, driver.PhotoURL)
			if objectName == constant.Empty {
				log.Warn().Str("url", driver.PhotoURL).Msg("failed to extract object name from URL")
			} else if err := s.s3.DeleteFile(c, bucketName, model.EntityName, objectName); err != nil {
				log.Error().Err(err).Str("objectName", objectName).Msg("failed to delete old photo from S3")
			}
		}

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetDriver, user, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete driver from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllDriver)
	}()

	res.URL = url

	return res, nil
}
