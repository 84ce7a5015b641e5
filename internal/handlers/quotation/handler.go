package quotation

import (
	"net/http"
	"rentkit/infras/otel"
	"rentkit/internal/domains/quotation/model"
	"rentkit/internal/domains/quotation/model/dto"
	"rentkit/internal/domains/quotation/service"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/validator"
	"rentkit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Quotation
	otel    otel.Otel
}

func New(service service.Quotation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/quotations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateQuotation)
		routerGroup.Get("/", handler.GetQuotations)
		routerGroup.Get("/next-number", handler.GetNextNumber)
		routerGroup.Get("/{id}", handler.GetQuotationByID)
		routerGroup.Patch("/{id}", handler.UpdateQuotation)
		routerGroup.Patch("/{id}/status", handler.UpdateQuotationStatus)
		routerGroup.Delete("/{id}", handler.DeleteQuotation)
	})
}

// CreateQuotation handles the creation of a new quotation.
// @Summary Create a new quotation
// @Description Create a new quotation; the document number is derived from the owner's settings templates.
// @Tags Quotation
// @Accept json
// @Produce json
// @Param request body dto.CreateQuotationRequest true "Create Quotation Request"
// @Success 201 {object} dto.QuotationResponse "Created quotation"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/quotations [post]
// @Security BearerAuth
func (handler *Handler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateQuotation")
	defer scope.End()

	req := dto.CreateQuotationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create quotation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Quotation created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetQuotations retrieves all quotations based on query parameters.
// @Summary Get all quotations
// @Description Retrieve all quotations with optional filtering and pagination.
// @Tags Quotation
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param number query string false "Filter by number"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.GetQuotationsResponse "List of quotations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/quotations [get]
// @Security BearerAuth
func (handler *Handler) GetQuotations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetQuotations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldNumber,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldNumber),
				Table:    model.TableName,
			},
		},
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	quotations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get quotations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Quotations retrieved successfully")

	response.WithJSON(w, http.StatusOK, quotations)
}

// GetNextNumber previews the next quotation number.
// @Summary Preview the next quotation number
// @Description Preview the next quotation number without reserving it.
// @Tags Quotation
// @Accept json
// @Produce json
// @Success 200 {object} dto.NextNumberResponse "Next quotation number"
// @Failure 500 {object} response.Error
// @Router /v1/quotations/next-number [get]
// @Security BearerAuth
func (handler *Handler) GetNextNumber(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNextNumber")
	defer scope.End()

	res, err := handler.service.NextNumber(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get next quotation number")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Next quotation number retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetQuotationByID retrieves a quotation by its ID.
// @Summary Get a quotation by ID
// @Description Retrieve a quotation by its unique identifier.
// @Tags Quotation
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} dto.QuotationResponse "Quotation details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/quotations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetQuotationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetQuotationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	quotation, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get quotation by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Quotation retrieved successfully")

	response.WithJSON(w, http.StatusOK, quotation)
}

// UpdateQuotation updates an existing quotation by its ID.
// @Summary Update a quotation by ID
// @Description Update the details of an existing quotation; the total is recomputed when items change.
// @Tags Quotation
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body dto.UpdateQuotationRequest true "Update Quotation Request"
// @Success 200 {object} response.Message "Quotation updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/quotations/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateQuotation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateQuotation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateQuotationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update quotation")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Quotation updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Quotation updated successfully")
}

// UpdateQuotationStatus updates a quotation's status.
// @Summary Update a quotation's status
// @Description Move a quotation through its allowed status transitions.
// @Tags Quotation
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body dto.UpdateQuotationStatusRequest true "Update Quotation Status Request"
// @Success 200 {object} response.Message "Quotation status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/quotations/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateQuotationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateQuotationStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateQuotationStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update quotation status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Quotation status updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Quotation status updated successfully")
}

// DeleteQuotation deletes a quotation by its ID.
// @Summary Delete a quotation by ID
// @Description Delete a quotation using its unique identifier.
// @Tags Quotation
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.Message "Quotation deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/quotations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteQuotation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete quotation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Quotation deleted successfully")

	response.WithMessage(w, http.StatusOK, "Quotation deleted successfully")
}
