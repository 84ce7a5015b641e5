package driver

import (
	"net/http"
	"rentkit/infras/otel"
	"rentkit/internal/domains/driver/model"
	"rentkit/internal/domains/driver/model/dto"
	"rentkit/internal/domains/driver/service"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/validator"
	"rentkit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Driver
	otel    otel.Otel
}

func New(service service.Driver, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/drivers", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateDriver)
		routerGroup.Get("/", handler.GetDrivers)
		routerGroup.Get("/{id}", handler.GetDriverByID)
		routerGroup.Patch("/{id}", handler.UpdateDriver)
		routerGroup.Delete("/{id}", handler.DeleteDriver)

		routerGroup.Post("/{id}/photo", handler.UploadDriverPhoto)
	})
}

// CreateDriver handles the creation of a new driver.
// @Summary Create a new driver
// @Description Create a new driver with the provided details.
// @Tags Driver
// @Accept json
// @Produce json
// @Param request body dto.CreateDriverRequest true "Create Driver Request"
// @Success 201 {object} response.Message "Driver created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/drivers [post]
// @Security BearerAuth
func (handler *Handler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateDriver")
	defer scope.End()

	req := dto.CreateDriverRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create driver")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Driver created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Driver created successfully")
}

// GetDrivers retrieves all drivers based on query parameters.
// @Summary Get all drivers
// @Description Retrieve all drivers with optional filtering and pagination.
// @Tags Driver
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param national_id query string false "Filter by national id"
// @Success 200 {object} dto.GetDriversResponse "List of drivers"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/drivers [get]
// @Security BearerAuth
func (handler *Handler) GetDrivers(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDrivers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldName,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldName),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldNationalID,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldNationalID),
				Table:    model.TableName,
			},
		},
	}

	drivers, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get drivers")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Drivers retrieved successfully")

	response.WithJSON(w, http.StatusOK, drivers)
}

// GetDriverByID retrieves a driver by its ID.
// @Summary Get a driver by ID
// @Description Retrieve a driver by its unique identifier.
// @Tags Driver
// @Accept json
// @Produce json
// @Param id path string true "Driver ID"
// @Success 200 {object} dto.DriverResponse "Driver details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/drivers/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetDriverByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDriverByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	driver, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get driver by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Driver retrieved successfully")

	response.WithJSON(w, http.StatusOK, driver)
}

// UpdateDriver updates an existing driver by its ID.
// @Summary Update a driver by ID
// @Description Update the details of an existing driver.
// @Tags Driver
// @Accept json
// @Produce json
// @Param id path string true "Driver ID"
// @Param request body dto.UpdateDriverRequest true "Update Driver Request"
// @Success 200 {object} response.Message "Driver updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/drivers/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateDriver")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateDriverRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update driver")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Driver updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Driver updated successfully")
}

// DeleteDriver deletes a driver by its ID.
// @Summary Delete a driver by ID
// @Description Delete a driver using its unique identifier.
// @Tags Driver
// @Accept json
// @Produce json
// @Param id path string true "Driver ID"
// @Success 200 {object} response.Message "Driver deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/drivers/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteDriver")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete driver")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Driver deleted successfully")

	response.WithMessage(w, http.StatusOK, "Driver deleted successfully")
}

// UploadDriverPhoto uploads a driver's licence photo.
// @Summary Upload a driver photo
// @Description Upload a base64 data-URI licence photo for the driver, replacing any previous one.
// @Tags Driver
// @Accept json
// @Produce json
// @Param id path string true "Driver ID"
// @Param request body dto.UploadPhotoRequest true "Upload Photo Request"
// @Success 200 {object} dto.UploadPhotoResponse "Uploaded photo URL"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/drivers/{id}/photo [post]
// @Security BearerAuth
func (handler *Handler) UploadDriverPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadDriverPhoto")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UploadPhotoRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UploadPhoto(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload driver photo")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Driver photo uploaded successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}
