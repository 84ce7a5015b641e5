package router

import (
	"rentkit/internal/handlers/auth"
	"rentkit/internal/handlers/client"
	"rentkit/internal/handlers/driver"
	"rentkit/internal/handlers/invoice"
	"rentkit/internal/handlers/machine"
	"rentkit/internal/handlers/quotation"
	"rentkit/internal/handlers/rental"
	"rentkit/internal/handlers/settings"
	"rentkit/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth      auth.Handler
	User      user.Handler
	Machine   machine.Handler
	Driver    driver.Handler
	Client    client.Handler
	Quotation quotation.Handler
	Rental    rental.Handler
	Invoice   invoice.Handler
	Settings  settings.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Machine.Router(routerGroup)
		r.DomainHandlers.Driver.Router(routerGroup)
		r.DomainHandlers.Client.Router(routerGroup)
		r.DomainHandlers.Quotation.Router(routerGroup)
		r.DomainHandlers.Rental.Router(routerGroup)
		r.DomainHandlers.Invoice.Router(routerGroup)
		r.DomainHandlers.Settings.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
