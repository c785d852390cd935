package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
)

// Operation names an access-controlled action.  Routes declare the
// operation they perform and the policy table below decides which
// roles may perform it, keeping all authorization rules in one place
// instead of scattering role lists across route registrations.
type Operation string

const (
	OpManageCatalog       Operation = "catalog:manage"        // categories, cars, drivers, maintenance CRUD
	OpRentCar             Operation = "rental:create"         // booking a car
	OpViewOwnRentals      Operation = "rental:view-own"       // customer transaction history
	OpViewAllRentals      Operation = "rental:view-all"       // admin transaction listing
	OpValidatePayment     Operation = "rental:validate"       // admin payment review
	OpReturnCar           Operation = "rental:return"         // customer returning their rental
	OpUploadPaymentProof  Operation = "rental:upload-proof"   // customer proof upload
	OpGenerateReport      Operation = "report:generate"       // admin monthly report export
	OpManageOwnProfile    Operation = "profile:manage"        // any authenticated user
)

// policy maps each operation to the roles allowed to perform it.
var policy = map[Operation][]string{
	OpManageCatalog:      {model.RoleAdmin},
	OpRentCar:            {model.RoleAdmin, model.RoleCustomer},
	OpViewOwnRentals:     {model.RoleCustomer},
	OpViewAllRentals:     {model.RoleAdmin},
	OpValidatePayment:    {model.RoleAdmin},
	OpReturnCar:          {model.RoleCustomer},
	OpUploadPaymentProof: {model.RoleCustomer},
	OpGenerateReport:     {model.RoleAdmin},
	OpManageOwnProfile:   {model.RoleAdmin, model.RoleCustomer},
}

// Require returns a middleware enforcing that the authenticated user's
// role may perform op.  It assumes JWTAuth ran earlier and stored the
// role under "role".  Unknown operations deny everyone.
func Require(op Operation) echo.MiddlewareFunc {
	allowed := make(map[string]bool)
	for _, r := range policy[op] {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
			}
			return next(c)
		}
	}
}
