package handlers

import (
	"backoffice/internal/cache"
	"backoffice/internal/config"
	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// API carries the long-lived collaborators; per-request services are built
// in the handlers so each one logs with the request id. The settlement
// service is shared because it owns the per-agency mutexes.
type API struct {
	Env            config.Env
	Store          *repositories.MySQLLedgerStore
	Cache          *cache.TTLCache
	Settlements    *services.SettlementService
	DriverRateRepo repositories.DriverRateRepository
}

func NewAPI(env config.Env, store *repositories.MySQLLedgerStore, c *cache.TTLCache, settlements *services.SettlementService, driverRates repositories.DriverRateRepository) *API {
	return &API{
		Env:            env,
		Store:          store,
		Cache:          c,
		Settlements:    settlements,
		DriverRateRepo: driverRates,
	}
}

func (a *API) availability(c *gin.Context) services.AvailabilityService {
	return services.AvailabilityService{Store: a.Store, RequestID: middleware.GetRequestID(c)}
}

func (a *API) finance(c *gin.Context) services.FinanceService {
	return services.FinanceService{Store: a.Store, Cache: a.Cache, RequestID: middleware.GetRequestID(c)}
}

func (a *API) booking(c *gin.Context) services.BookingService {
	return services.BookingService{
		Availability: a.availability(c),
		Packages:     a.Store.Packages,
		Invalidate:   a.Cache.InvalidatePrefix,
		RequestID:    middleware.GetRequestID(c),
	}
}

func (a *API) driverLedger(c *gin.Context) services.DriverLedgerService {
	return services.DriverLedgerService{Store: a.DriverRateRepo, RequestID: middleware.GetRequestID(c)}
}

// statements is rebuilt per request like the other services so PDF render
// log lines carry the request id.
func (a *API) statements(c *gin.Context) services.StatementService {
	return services.StatementService{RequestID: middleware.GetRequestID(c)}
}
