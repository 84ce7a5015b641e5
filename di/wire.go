//go:build wireinject
// +build wireinject

package di

import (
	"rentkit/config"
	"rentkit/infras/jwt"
	"rentkit/infras/otel"
	"rentkit/infras/postgres"
	"rentkit/infras/redis"
	"rentkit/infras/s3"
	authService "rentkit/internal/domains/auth/service"
	clientRepository "rentkit/internal/domains/client/repository"
	clientService "rentkit/internal/domains/client/service"
	driverRepository "rentkit/internal/domains/driver/repository"
	driverService "rentkit/internal/domains/driver/service"
	invoiceRepository "rentkit/internal/domains/invoice/repository"
	invoiceService "rentkit/internal/domains/invoice/service"
	machineRepository "rentkit/internal/domains/machine/repository"
	machineService "rentkit/internal/domains/machine/service"
	maintenanceRepository "rentkit/internal/domains/maintenance/repository"
	maintenanceService "rentkit/internal/domains/maintenance/service"
	quotationRepository "rentkit/internal/domains/quotation/repository"
	quotationService "rentkit/internal/domains/quotation/service"
	rentalRepository "rentkit/internal/domains/rental/repository"
	rentalService "rentkit/internal/domains/rental/service"
	settingsRepository "rentkit/internal/domains/settings/repository"
	settingsService "rentkit/internal/domains/settings/service"
	userRepository "rentkit/internal/domains/user/repository"
	userService "rentkit/internal/domains/user/service"
	authHandler "rentkit/internal/handlers/auth"
	clientHandler "rentkit/internal/handlers/client"
	driverHandler "rentkit/internal/handlers/driver"
	invoiceHandler "rentkit/internal/handlers/invoice"
	machineHandler "rentkit/internal/handlers/machine"
	quotationHandler "rentkit/internal/handlers/quotation"
	rentalHandler "rentkit/internal/handlers/rental"
	settingsHandler "rentkit/internal/handlers/settings"
	userHandler "rentkit/internal/handlers/user"
	"rentkit/permissions"
	"rentkit/shared/cache"
	"rentkit/transport/http"
	"rentkit/transport/http/middleware"
	"rentkit/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
	userService.New,
)

var machineDomain = wire.NewSet(
	machineRepository.New,
	machineService.New,
	maintenanceRepository.New,
	maintenanceService.New,
)

var driverDomain = wire.NewSet(
	driverRepository.New,
	driverService.New,
)

var clientDomain = wire.NewSet(
	clientRepository.New,
	clientService.New,
)

var billingDomain = wire.NewSet(
	settingsRepository.New,
	settingsService.New,
	quotationRepository.New,
	quotationService.New,
	rentalRepository.New,
	rentalService.New,
	invoiceRepository.New,
	invoiceService.New,
)

var domains = wire.NewSet(
	authDomain,
	machineDomain,
	driverDomain,
	clientDomain,
	billingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	machineHandler.New,
	driverHandler.New,
	clientHandler.New,
	quotationHandler.New,
	rentalHandler.New,
	invoiceHandler.New,
	settingsHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
