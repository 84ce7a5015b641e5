package rental

import (
	"net/http"
	"rentkit/infras/otel"
	"rentkit/internal/domains/rental/model"
	"rentkit/internal/domains/rental/model/dto"
	"rentkit/internal/domains/rental/service"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/validator"
	"rentkit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Rental
	otel    otel.Otel
}

func New(service service.Rental, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rentals", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRental)
		routerGroup.Get("/", handler.GetRentals)
		routerGroup.Get("/{id}", handler.GetRentalByID)
		routerGroup.Patch("/{id}", handler.UpdateRental)
		routerGroup.Patch("/{id}/status", handler.UpdateRentalStatus)
		routerGroup.Delete("/{id}", handler.DeleteRental)
	})
}

// CreateRental handles the creation of a new rental.
// @Summary Create a new rental
// @Description Create a new rental; a pending quotation may be converted in the same transaction.
// @Tags Rental
// @Accept json
// @Produce json
// @Param request body dto.CreateRentalRequest true "Create Rental Request"
// @Success 201 {object} dto.RentalResponse "Created rental"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rentals [post]
// @Security BearerAuth
func (handler *Handler) CreateRental(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRental")
	defer scope.End()

	req := dto.CreateRentalRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create rental")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Rental created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetRentals retrieves all rentals based on query parameters.
// @Summary Get all rentals
// @Description Retrieve all rentals with optional filtering and pagination.
// @Tags Rental
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.GetRentalsResponse "List of rentals"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rentals [get]
// @Security BearerAuth
func (handler *Handler) GetRentals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRentals")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	rentals, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rentals")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rentals retrieved successfully")

	response.WithJSON(w, http.StatusOK, rentals)
}

// GetRentalByID retrieves a rental by its ID.
// @Summary Get a rental by ID
// @Description Retrieve a rental by its unique identifier.
// @Tags Rental
// @Accept json
// @Produce json
// @Param id path string true "Rental ID"
// @Success 200 {object} dto.RentalResponse "Rental details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rentals/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRentalByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRentalByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	rental, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rental by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental retrieved successfully")

	response.WithJSON(w, http.StatusOK, rental)
}

// UpdateRental updates an existing rental by its ID.
// @Summary Update a rental by ID
// @Description Update the details of an existing rental; status changes go through the dedicated status endpoint.
// @Tags Rental
// @Accept json
// @Produce json
// @Param id path string true "Rental ID"
// @Param request body dto.UpdateRentalRequest true "Update Rental Request"
// @Success 200 {object} response.Message "Rental updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rentals/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRental(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRental")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateRentalRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update rental")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Rental updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Rental updated successfully")
}

// UpdateRentalStatus updates a rental's status.
// @Summary Update a rental's status
// @Description Move a rental through its allowed status transitions.
// @Tags Rental
// @Accept json
// @Produce json
// @Param id path string true "Rental ID"
// @Param request body dto.UpdateRentalStatusRequest true "Update Rental Status Request"
// @Success 200 {object} response.Message "Rental status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rentals/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRentalStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRentalStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateRentalStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update rental status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Rental status updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Rental status updated successfully")
}

// DeleteRental deletes a rental by its ID.
// @Summary Delete a rental by ID
// @Description Delete a rental using its unique identifier.
// @Tags Rental
// @Accept json
// @Produce json
// @Param id path string true "Rental ID"
// @Success 200 {object} response.Message "Rental deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rentals/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRental(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRental")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete rental")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rental deleted successfully")

	response.WithMessage(w, http.StatusOK, "Rental deleted successfully")
}
