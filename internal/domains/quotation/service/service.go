package service

import (
	"context"
	"fmt"
	"rentkit/config"
	"rentkit/infras/otel"
	"rentkit/internal/domains/quotation/model"
	"rentkit/internal/domains/quotation/model/dto"
	"rentkit/internal/domains/quotation/repository"
	settingsService "rentkit/internal/domains/settings/service"
	"rentkit/shared"
	"rentkit/shared/billing"
	"rentkit/shared/cache"
	"rentkit/shared/constant"
	"rentkit/shared/docnum"
	gDto "rentkit/shared/dto"
	"rentkit/shared/failure"
	"rentkit/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetQuotation    = "quotation:get"
	cacheGetAllQuotation = "quotation:gets"
	cacheCountQuotation  = "quotation:count"
)

type Quotation interface {
	Create(ctx context.Context, req dto.CreateQuotationRequest) (dto.QuotationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetQuotationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.QuotationResponse, error)
	NextNumber(ctx context.Context) (dto.NextNumberResponse, error)
	Update(ctx context.Context, req dto.UpdateQuotationRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateQuotationStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Quotation
	settings settingsService.Settings
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Quotation, settings settingsService.Settings, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Quotation {
	return &serviceImpl{
		repo:     repo,
		settings: settings,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func lineItems(items model.Items) []billing.LineItem {
	converted := make([]billing.LineItem, len(items))
	for i, item := range items {
		converted[i] = billing.LineItem{Hours: item.Hours, Rate: item.Rate}
	}

	return converted
}

// nextNumber resolves the next sequence and formatted document number
// from the owner's latest quotation and numbering templates.
func (s *serviceImpl) nextNumber(ctx context.Context, user string) (sequence, number string, err error) {
	settings, err := s.settings.Resolve(ctx)
	if err != nil {
		return "", "", err
	}

	latest, err := s.repo.GetLatest(ctx, shared.FilterByOwner(user, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get latest quotation")

		return "", "", fmt.Errorf("failed to get latest quotation: %w", err)
	}

	sequence = docnum.NextSequence(latest.Sequence)
	number = docnum.Format(settings.QuotationPrefix, settings.QuotationSuffix, sequence, timezone.Now())

	return sequence, number, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateQuotationRequest) (res dto.QuotationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	quotation := req.ToModel(user)
	quotation.Total = billing.Total(lineItems(quotation.Items))

	// A submitted number is stored verbatim; unlike invoices there is
	// no uniqueness check on quotation numbers.
	if quotation.Number == constant.Empty {
		quotation.Sequence, quotation.Number, err = s.nextNumber(ctx, user)
		if err != nil {
			return res, err
		}
	}

	if err = s.repo.Insert(ctx, quotation); err != nil {
		log.Error().Err(err).Msg("failed to create quotation")

		return res, fmt.Errorf("failed to create quotation: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllQuotation)
		shared.InvalidateCaches(c, s.cache, cacheCountQuotation)
	}()

	res.FromModel(quotation)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetQuotationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	owned := shared.ScopeToOwner(filter, user, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllQuotation, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for quotations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count quotations")

		return res, fmt.Errorf("failed to count quotations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to get quotations")

		return res, fmt.Errorf("failed to get quotations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save quotations to cache")
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

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountQuotation, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to count quotations")

		return res, fmt.Errorf("failed to count quotations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save quotation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.QuotationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(cacheGetQuotation, user, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	quotation, err := s.repo.Get(ctx, shared.FilterByIDOwned(id, user, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get quotation")

		return res, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.ID == constant.Empty {
		return res, failure.NotFound("quotation not found") // nolint:wrapcheck
	}

	res.FromModel(quotation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save quotation to cache")
		}
	}()

	return res, nil
}

// NextNumber previews the next quotation number without reserving it.
// Concurrent creates may still race to the same sequence.
func (s *serviceImpl) NextNumber(ctx context.Context) (res dto.NextNumberResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".NextNumber")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res.Sequence, res.Number, err = s.nextNumber(ctx, user)

	return res, err
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateQuotationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateQuotationRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if quotation exists")

		return fmt.Errorf("failed to check if quotation exists: %w", err)
	}

	if !exist {
		return failure.NotFound("quotation not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	// Replacing the items re-derives the stored total.
	if req.Items != nil {
		items := make(model.Items, len(*req.Items))
		for i, item := range *req.Items {
			items[i] = model.Item(item)
		}

		updatedFields["items"] = items
		updatedFields["total"] = billing.Total(lineItems(items))
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update quotation")

		return fmt.Errorf("failed to update quotation: %w", err)
	}

	s.invalidate(ctx, user, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateQuotationStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	quotation, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get quotation")

		return fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.ID == constant.Empty {
		return failure.NotFound("quotation not found") // nolint:wrapcheck
	}

	if !model.CanTransition(quotation.Status, req.Status) {
		return failure.BadRequestFromString( // nolint:wrapcheck
			fmt.Sprintf("cannot change quotation status from %s to %s", quotation.Status, req.Status),
		)
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update quotation status")

		return fmt.Errorf("failed to update quotation status: %w", err)
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
		log.Error().Err(err).Msg("failed to check if quotation exists")

		return fmt.Errorf("failed to check if quotation exists: %w", err)
	}

	if !exist {
		return failure.NotFound("quotation not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete quotation")

		return fmt.Errorf("failed to delete quotation: %w", err)
	}

	s.invalidate(ctx, user, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, user, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetQuotation, user, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete quotation from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllQuotation)
		shared.InvalidateCaches(c, s.cache, cacheCountQuotation)
	}()
}
