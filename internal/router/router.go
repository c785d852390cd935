package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/ardiansyahrf/car-rental-api/internal/handler"
	"github.com/ardiansyahrf/car-rental-api/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register,
// login and refresh live under /v1/auth without a session; logout and
// profile require a valid access token so the denylist can revoke the
// presented token's ID.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, denylist middleware.TokenDenylist) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret, denylist))
	auth.POST("/logout", a.Logout)
	auth.GET("/profile", a.Profile, middleware.Require(middleware.OpManageOwnProfile))
	auth.PUT("/profile", a.UpdateProfile, middleware.Require(middleware.OpManageOwnProfile))
}

// RegisterPublic registers the unauthenticated catalog browse
// endpoints.  These carry the rate limiter and the response cache:
// listings are read far more often than the catalog changes.
func RegisterPublic(e *echo.Echo, cars *handler.CarHandler, cats *handler.CategoryHandler, limiter, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", limiter, cache)
	g.GET("/cars", cars.List)
	g.GET("/cars/:id", cars.Get)
	g.GET("/car-categories", cats.List)
}

// APIDeps bundles the handlers behind authenticated routes.
type APIDeps struct {
	Categories   *handler.CategoryHandler
	Cars         *handler.CarHandler
	Drivers      *handler.DriverHandler
	Maintenance  *handler.MaintenanceHandler
	Transactions *handler.TransactionHandler
	Reports      *handler.ReportHandler
}

// RegisterAPI registers every authenticated endpoint.  JWTAuth runs
// on the whole group; per-route authorization goes through the policy
// table so the role rules live in one place.
func RegisterAPI(e *echo.Echo, jwtSecret string, denylist middleware.TokenDenylist, d APIDeps) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret, denylist))

	manage := middleware.Require(middleware.OpManageCatalog)

	g.POST("/car-categories", d.Categories.Create, manage)
	g.GET("/car-categories/:id", d.Categories.Get, manage)
	g.PUT("/car-categories/:id", d.Categories.Update, manage)
	g.DELETE("/car-categories/:id", d.Categories.Delete, manage)

	g.POST("/cars", d.Cars.Create, manage)
	g.PUT("/cars/:id", d.Cars.Update, manage)
	g.DELETE("/cars/:id", d.Cars.Delete, manage)

	g.GET("/drivers", d.Drivers.List, manage)
	g.GET("/drivers/available", d.Drivers.ListAvailable, middleware.Require(middleware.OpRentCar))
	g.GET("/drivers/:id", d.Drivers.Get, manage)
	g.POST("/drivers", d.Drivers.Create, manage)
	g.PUT("/drivers/:id", d.Drivers.Update, manage)
	g.DELETE("/drivers/:id", d.Drivers.Delete, manage)

	g.POST("/car-maintenances", d.Maintenance.Create, manage)
	g.GET("/car-maintenances", d.Maintenance.List, manage)
	g.GET("/car-maintenances/:id", d.Maintenance.Get, manage)
	g.PUT("/car-maintenances/:id", d.Maintenance.Update, manage)
	g.DELETE("/car-maintenances/:id", d.Maintenance.Delete, manage)

	g.POST("/transactions", d.Transactions.Create, middleware.Require(middleware.OpRentCar))
	g.GET("/transactions", d.Transactions.ListAll, middleware.Require(middleware.OpViewAllRentals))
	g.GET("/transactions/customer", d.Transactions.ListMine, middleware.Require(middleware.OpViewOwnRentals))
	g.GET("/transactions/:id", d.Transactions.Get)
	g.PUT("/transactions/payment-proof-validation/:id", d.Transactions.ValidatePayment, middleware.Require(middleware.OpValidatePayment))
	g.PUT("/transactions/return-car/:id", d.Transactions.ReturnCar, middleware.Require(middleware.OpReturnCar))
	g.PUT("/transactions/upload-payment-proof/:id", d.Transactions.UploadPaymentProof, middleware.Require(middleware.OpUploadPaymentProof))
	g.POST("/transactions/generate_report", d.Reports.Generate, middleware.Require(middleware.OpGenerateReport))
}
