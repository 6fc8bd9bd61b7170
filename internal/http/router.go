package api

import (
	"log"
	stdhttp "net/http"

	"backoffice/internal/config"
	h "backoffice/internal/http/handlers"
	"backoffice/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env config.Env, api *h.API) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.RequireAuth(env.JWTSecret)

	root := r.Group("/api")
	{
		root.GET("/health", h.Health)
		root.GET("/db-check", h.DBCheck)

		root.POST("/auth/login", api.Login)

		// Availability is read-only: candidate bookings are checked before
		// anything persists.
		root.POST("/availability/validate", api.ValidateAvailability)

		packages := root.Group("/packages")
		packages.POST("", auth, api.CreatePackage)
		packages.PUT("/:id/status", auth, api.UpdatePackageStatus)
		packages.GET("/:id/financials", api.PackageFinancials)
		packages.GET("/:id/financials/pdf", api.PackageFinancialsPDF)

		agencies := root.Group("/agencies")
		agencies.GET("/:id/settlements", api.AgencySettlementView)
		agencies.GET("/:id/settlements/pdf", api.AgencySettlementPDF)
		agencies.POST("/:id/settlements/settle", auth, api.SettleAgencyPeriod)

		root.POST("/settlements/cancel", auth, api.CancelSettlement)

		drivers := root.Group("/drivers")
		drivers.GET("/:id/rates", api.DriverRates)
		drivers.POST("/:id/rates", auth, api.AddDriverRate)
		drivers.POST("/:id/rates/pay", auth, api.PayDriverRates)
		drivers.POST("/:id/rates/unpay", auth, api.UnpayDriverRates)

		vehicles := root.Group("/vehicles")
		vehicles.GET("/:id/expenses", api.VehicleExpenses)
		vehicles.POST("/:id/expenses", auth, api.AddVehicleExpense)
	}

	return r
}
