package machine

import (
	"net/http"
	"rentkit/infras/otel"
	"rentkit/internal/domains/machine/model"
	"rentkit/internal/domains/machine/model/dto"
	"rentkit/internal/domains/machine/service"
	maintenanceDto "rentkit/internal/domains/maintenance/model/dto"
	maintenanceService "rentkit/internal/domains/maintenance/service"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/validator"
	"rentkit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service     service.Machine
	maintenance maintenanceService.Maintenance
	otel        otel.Otel
}

func New(service service.Machine, maintenance maintenanceService.Maintenance, otel otel.Otel) Handler {
	return Handler{
		service:     service,
		maintenance: maintenance,
		otel:        otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/machines", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMachine)
		routerGroup.Get("/", handler.GetMachines)
		routerGroup.Get("/{id}", handler.GetMachineByID)
		routerGroup.Patch("/{id}", handler.UpdateMachine)
		routerGroup.Delete("/{id}", handler.DeleteMachine)

		routerGroup.Post("/{id}/maintenance", handler.AppendMaintenanceEntry)
		routerGroup.Get("/{id}/maintenance", handler.GetMaintenanceLog)
		routerGroup.Delete("/{id}/maintenance", handler.DeleteMaintenanceLog)
	})
}

// CreateMachine handles the creation of a new machine.
// @Summary Create a new machine
// @Description Create a new machine with the provided details.
// @Tags Machine
// @Accept json
// @Produce json
// @Param request body dto.CreateMachineRequest true "Create Machine Request"
// @Success 201 {object} response.Message "Machine created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/machines [post]
// @Security BearerAuth
func (handler *Handler) CreateMachine(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMachine")
	defer scope.End()

	req := dto.CreateMachineRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create machine")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Machine created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Machine created successfully")
}

// GetMachines retrieves all machines based on query parameters.
// @Summary Get all machines
// @Description Retrieve all machines with optional filtering and pagination.
// @Tags Machine
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param model query string false "Filter by model"
// @Param manufacturer query string false "Filter by manufacturer"
// @Param vehicle_number query string false "Filter by vehicle number"
// @Success 200 {object} dto.GetMachinesResponse "List of machines"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/machines [get]
// @Security BearerAuth
func (handler *Handler) GetMachines(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMachines")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldModel,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldModel),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldManufacturer,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldManufacturer),
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldVehicleNumber,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldVehicleNumber),
				Table:    model.TableName,
			},
		},
	}

	machines, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get machines")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Machines retrieved successfully")

	response.WithJSON(w, http.StatusOK, machines)
}

// GetMachineByID retrieves a machine by its ID.
// @Summary Get a machine by ID
// @Description Retrieve a machine by its unique identifier.
// @Tags Machine
// @Accept json
// @Produce json
// @Param id path string true "Machine ID"
// @Success 200 {object} dto.MachineResponse "Machine details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/machines/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetMachineByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMachineByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	machine, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get machine by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Machine retrieved successfully")

	response.WithJSON(w, http.StatusOK, machine)
}

// UpdateMachine updates an existing machine by its ID.
// @Summary Update a machine by ID
// @Description Update the details of an existing machine.
// @Tags Machine
// @Accept json
// @Produce json
// @Param id path string true "Machine ID"
// @Param request body dto.UpdateMachineRequest true "Update Machine Request"
// @Success 200 {object} response.Message "Machine updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/machines/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMachine(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMachine")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateMachineRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update machine")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Machine updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Machine updated successfully")
}

// DeleteMachine deletes a machine by its ID.
// @Summary Delete a machine by ID
// @Description Delete a machine using its unique identifier.
// @Tags Machine
// @Accept json
// @Produce json
// @Param id path string true "Machine ID"
// @Success 200 {object} response.Message "Machine deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/machines/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMachine")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete machine")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Machine deleted successfully")

	response.WithMessage(w, http.StatusOK, "Machine deleted successfully")
}

// AppendMaintenanceEntry appends maintenance items to a machine's log.
// @Summary Append a maintenance entry
// @Description Append dated maintenance items to the machine's log, creating the log on first use.
// @Tags Machine
// @Accept json
// @Produce json
// @Param id path string true "Machine ID"
// @Param request body maintenanceDto.AppendEntryRequest true "Append Entry Request"
// @Success 200 {object} maintenanceDto.MaintenanceLogResponse "Maintenance log"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/machines/{id}/maintenance [post]
// @Security BearerAuth
func (handler *Handler) AppendMaintenanceEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AppendMaintenanceEntry")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := maintenanceDto.AppendEntryRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.maintenance.AppendEntry(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to append maintenance entry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance entry appended successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetMaintenanceLog retrieves a machine's maintenance log.
// @Summary Get a machine's maintenance log
// @Description Retrieve the maintenance log of a machine, with per-entry and whole-log totals.
// @Tags Machine
// @Accept json
// @Produce json
// @Param id path string true "Machine ID"
// @Success 200 {object} maintenanceDto.MaintenanceLogResponse "Maintenance log"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/machines/{id}/maintenance [get]
// @Security BearerAuth
func (handler *Handler) GetMaintenanceLog(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaintenanceLog")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.maintenance.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance log")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance log retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteMaintenanceLog deletes a machine's maintenance log.
// @Summary Delete a machine's maintenance log
// @Description Delete the whole maintenance log of a machine.
// @Tags Machine
// @Accept json
// @Produce json
// @Param id path string true "Machine ID"
// @Success 200 {object} response.Message "Maintenance log deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/machines/{id}/maintenance [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMaintenanceLog(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMaintenanceLog")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.maintenance.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete maintenance log")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Maintenance log deleted successfully")

	response.WithMessage(w, http.StatusOK, "Maintenance log deleted successfully")
}
