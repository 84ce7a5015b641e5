package service

import (
	"context"
	"fmt"
	"rentkit/config"
	"rentkit/infras/otel"
	"rentkit/internal/domains/invoice/model"
	"rentkit/internal/domains/invoice/model/dto"
	"rentkit/internal/domains/invoice/repository"
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
	cacheGetInvoice    = "invoice:get"
	cacheGetAllInvoice = "invoice:gets"
	cacheCountInvoice  = "invoice:count"
)

type Invoice interface {
	Create(ctx context.Context, req dto.CreateInvoiceRequest) (dto.InvoiceResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetInvoicesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.InvoiceResponse, error)
	NextNumber(ctx context.Context) (dto.NextNumberResponse, error)
	Update(ctx context.Context, req dto.UpdateInvoiceRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateInvoiceStatusRequest, id string) error
	AddPayment(ctx context.Context, req dto.AddPaymentRequest, id string) (dto.InvoiceResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Invoice
	settings settingsService.Settings
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Invoice, settings settingsService.Settings, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Invoice {
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

func (s *serviceImpl) nextNumber(ctx context.Context, user string) (sequence, number string, err error) {
	settings, err := s.settings.Resolve(ctx)
	if err != nil {
		return "", "", err
	}

	latest, err := s.repo.GetLatest(ctx, shared.FilterByOwner(user, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get latest invoice")

		return "", "", fmt.Errorf("failed to get latest invoice: %w", err)
	}

	sequence = docnum.NextSequence(latest.Sequence)
	number = docnum.Format(settings.InvoicePrefix, settings.InvoiceSuffix, sequence, timezone.Now())

	return sequence, number, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateInvoiceRequest) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	invoice := req.ToModel(user)

	if invoice.Number == constant.Empty {
		invoice.Sequence, invoice.Number, err = s.nextNumber(ctx, user)
		if err != nil {
			return res, err
		}
	}

	// The invoice number is a business identifier; two invoices under
	// one owner must never share it. Conflict tells the caller to
	// fetch a fresh number and retry.
	duplicate, err := s.repo.Exist(ctx, shared.FilterByFieldOwned(
		model.FieldNumber, invoice.Number, user, model.FieldID, "", model.TableName,
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to check invoice number")

		return res, fmt.Errorf("failed to check invoice number: %w", err)
	}

	if duplicate {
		return res, failure.Conflict("invoice number already used") // nolint:wrapcheck
	}

	invoice.Subtotal = billing.Total(lineItems(invoice.Items))
	invoice.GrandTotal = invoice.Subtotal + invoice.Tax - invoice.Discount

	if err = s.repo.Insert(ctx, invoice); err != nil {
		log.Error().Err(err).Msg("failed to create invoice")

		return res, fmt.Errorf("failed to create invoice: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllInvoice)
		shared.InvalidateCaches(c, s.cache, cacheCountInvoice)
	}()

	res.FromModel(invoice)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetInvoicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	owned := shared.ScopeToOwner(filter, user, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllInvoice, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for invoices")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count invoices")

		return res, fmt.Errorf("failed to count invoices: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoices")

		return res, fmt.Errorf("failed to get invoices: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoices to cache")
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

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountInvoice, req, owned)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, owned)
	if err != nil {
		log.Error().Err(err).Msg("failed to count invoices")

		return res, fmt.Errorf("failed to count invoices: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoice count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(cacheGetInvoice, user, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	invoice, err := s.repo.Get(ctx, shared.FilterByIDOwned(id, user, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return res, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return res, failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	res.FromModel(invoice)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoice to cache")
		}
	}()

	return res, nil
}

// NextNumber previews the next invoice number without reserving it.
func (s *serviceImpl) NextNumber(ctx context.Context) (res dto.NextNumberResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".NextNumber")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res.Sequence, res.Number, err = s.nextNumber(ctx, user)

	return res, err
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateInvoiceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateInvoiceRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	invoice, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)

	// Any change to items, tax or discount re-derives the stored
	// totals from the resulting state.
	subtotal := invoice.Subtotal
	tax := invoice.Tax
	discount := invoice.Discount
	recompute := false

	if req.Items != nil {
		items := make(model.Items, len(*req.Items))
		for i, item := range *req.Items {
			items[i] = model.Item(item)
		}

		subtotal = billing.Total(lineItems(items))
		updatedFields["items"] = items
		recompute = true
	}

	if req.Tax != nil {
		tax = *req.Tax
		recompute = true
	}

	if req.Discount != nil {
		discount = *req.Discount
		recompute = true
	}

	if recompute {
		updatedFields["subtotal"] = subtotal
		updatedFields["grand_total"] = subtotal + tax - discount
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update invoice")

		return fmt.Errorf("failed to update invoice: %w", err)
	}

	s.invalidate(ctx, user, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateInvoiceStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	invoice, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	if !model.CanTransition(invoice.Status, req.Status) {
		return failure.BadRequestFromString( // nolint:wrapcheck
			fmt.Sprintf("cannot change invoice status from %s to %s", invoice.Status, req.Status),
		)
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update invoice status")

		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.invalidate(ctx, user, id)

	return nil
}

// AddPayment appends a payment to the invoice. Recording a payment
// never moves the status; settling the invoice is a separate, explicit
// status change.
func (s *serviceImpl) AddPayment(ctx context.Context, req dto.AddPaymentRequest, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	invoice, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return res, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return res, failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	invoice.Payments = append(invoice.Payments, model.Payment(req))
	invoice.ModifiedAt = timezone.Now()
	invoice.ModifiedBy = user

	updatedFields := map[string]any{
		model.FieldPayments:      invoice.Payments,
		constant.FieldModifiedAt: invoice.ModifiedAt,
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to add payment")

		return res, fmt.Errorf("failed to add payment: %w", err)
	}

	s.invalidate(ctx, user, id)

	res.FromModel(invoice)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByIDOwned(id, user, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if invoice exists")

		return fmt.Errorf("failed to check if invoice exists: %w", err)
	}

	if !exist {
		return failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete invoice")

		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.invalidate(ctx, user, id)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, user, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetInvoice, user, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete invoice from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllInvoice)
		shared.InvalidateCaches(c, s.cache, cacheCountInvoice)
	}()
}
