package invoice

import (
	"net/http"
	"rentkit/infras/otel"
	"rentkit/internal/domains/invoice/model"
	"rentkit/internal/domains/invoice/model/dto"
	"rentkit/internal/domains/invoice/service"
	"rentkit/shared/constant"
	gDto "rentkit/shared/dto"
	"rentkit/shared/validator"
	"rentkit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Invoice
	otel    otel.Otel
}

func New(service service.Invoice, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/invoices", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateInvoice)
		routerGroup.Get("/", handler.GetInvoices)
		routerGroup.Get("/next-number", handler.GetNextNumber)
		routerGroup.Get("/{id}", handler.GetInvoiceByID)
		routerGroup.Patch("/{id}", handler.UpdateInvoice)
		routerGroup.Patch("/{id}/status", handler.UpdateInvoiceStatus)
		routerGroup.Post("/{id}/payments", handler.AddInvoicePayment)
		routerGroup.Delete("/{id}", handler.DeleteInvoice)
	})
}

// CreateInvoice handles the creation of a new invoice.
// @Summary Create a new invoice
// @Description Create a new invoice; the number is derived from the owner's settings templates unless pinned from the preview.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param request body dto.CreateInvoiceRequest true "Create Invoice Request"
// @Success 201 {object} dto.InvoiceResponse "Created invoice"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices [post]
// @Security BearerAuth
func (handler *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateInvoice")
	defer scope.End()

	req := dto.CreateInvoiceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create invoice")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Invoice created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetInvoices retrieves all invoices based on query parameters.
// @Summary Get all invoices
// @Description Retrieve all invoices with optional filtering and pagination.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param number query string false "Filter by number"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.GetInvoicesResponse "List of invoices"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices [get]
// @Security BearerAuth
func (handler *Handler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoices")
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

	invoices, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invoices")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Invoices retrieved successfully")

	response.WithJSON(w, http.StatusOK, invoices)
}

// GetNextNumber previews the next invoice number.
// @Summary Preview the next invoice number
// @Description Preview the next invoice number without reserving it.
// @Tags Invoice
// @Accept json
// @Produce json
// @Success 200 {object} dto.NextNumberResponse "Next invoice number"
// @Failure 500 {object} response.Error
// @Router /v1/invoices/next-number [get]
// @Security BearerAuth
func (handler *Handler) GetNextNumber(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNextNumber")
	defer scope.End()

	res, err := handler.service.NextNumber(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get next invoice number")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Next invoice number retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetInvoiceByID retrieves a invoice by its ID.
// @Summary Get a invoice by ID
// @Description Retrieve a invoice by its unique identifier.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse "Invoice details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetInvoiceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoiceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	invoice, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invoice by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Invoice retrieved successfully")

	response.WithJSON(w, http.StatusOK, invoice)
}

// UpdateInvoice updates an existing invoice by its ID.
// @Summary Update a invoice by ID
// @Description Update the details of an existing invoice; the total is recomputed when items change.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body dto.UpdateInvoiceRequest true "Update Invoice Request"
// @Success 200 {object} response.Message "Invoice updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateInvoice")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateInvoiceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update invoice")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Invoice updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Invoice updated successfully")
}

// UpdateInvoiceStatus updates a invoice's status.
// @Summary Update a invoice's status
// @Description Move a invoice through its allowed status transitions.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body dto.UpdateInvoiceStatusRequest true "Update Invoice Status Request"
// @Success 200 {object} response.Message "Invoice status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateInvoiceStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateInvoiceStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update invoice status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Invoice status updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Invoice status updated successfully")
}

// DeleteInvoice deletes a invoice by its ID.
// @Summary Delete a invoice by ID
// @Description Delete a invoice using its unique identifier.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Message "Invoice deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteInvoice")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete invoice")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Invoice deleted successfully")

	response.WithMessage(w, http.StatusOK, "Invoice deleted successfully")
}

// AddInvoicePayment appends a payment to an invoice.
// @Summary Add a payment to an invoice
// @Description Append a payment to the invoice's payment list; the status is never changed by payments.
// @Tags Invoice
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body dto.AddPaymentRequest true "Add Payment Request"
// @Success 200 {object} dto.InvoiceResponse "Invoice with updated payments"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id}/payments [post]
// @Security BearerAuth
func (handler *Handler) AddInvoicePayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddInvoicePayment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AddPaymentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.AddPayment(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add invoice payment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Invoice payment added successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}
