package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
	"github.com/ardiansyahrf/car-rental-api/internal/repository"
)

// DriverHandler serves CRUD endpoints for drivers plus the public
// listing of currently available drivers used while booking.
type DriverHandler struct {
	Drivers *repository.DriverRepo
}

func NewDriverHandler(r *repository.DriverRepo) *DriverHandler {
	return &DriverHandler{Drivers: r}
}

type driverReq struct {
	Name          string `json:"name" validate:"required"`
	Gender        string `json:"gender" validate:"required,oneof=Male Female"`
	DOB           string `json:"dob" validate:"required"`
	Address       string `json:"address" validate:"required"`
	PhoneNumber   string `json:"phone_number" validate:"required"`
	LicenseNumber string `json:"license_number" validate:"required"`
	Status        string `json:"status"`
}

type driverResp struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Gender        string    `json:"gender"`
	DOB           string    `json:"dob"`
	Address       string    `json:"address"`
	PhoneNumber   string    `json:"phone_number"`
	LicenseNumber string    `json:"license_number"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toDriverResp(d model.Driver) driverResp {
	return driverResp{
		ID:            d.ID,
		Name:          d.Name,
		Gender:        d.Gender,
		DOB:           d.DOB.Format(dateLayout),
		Address:       d.Address,
		PhoneNumber:   d.PhoneNumber,
		LicenseNumber: d.LicenseNumber,
		Status:        d.Status,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

var driverStatuses = map[string]bool{
	model.DriverAvailable: true,
	model.DriverBooked:    true,
	model.DriverRented:    true,
}

func (req driverReq) toModel() (model.Driver, error) {
	dob, err := time.Parse(dateLayout, req.DOB)
	if err != nil {
		return model.Driver{}, errors.New("dob must be YYYY-MM-DD")
	}
	status := req.Status
	if status == "" {
		status = model.DriverAvailable
	}
	if !driverStatuses[status] {
		return model.Driver{}, errors.New("unknown driver status")
	}
	return model.Driver{
		Name:          req.Name,
		Gender:        req.Gender,
		DOB:           dob,
		Address:       req.Address,
		PhoneNumber:   req.PhoneNumber,
		LicenseNumber: req.LicenseNumber,
		Status:        status,
	}, nil
}

// Create handles POST /drivers.
func (h *DriverHandler) Create(c echo.Context) error {
	var req driverReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	d, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}

	id, err := h.Drivers.Create(c.Request().Context(), d)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "phone or license number already used"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create driver failed"})
	}
	created, err := h.Drivers.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load driver failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Driver added successfully", "data": toDriverResp(created)})
}

// List handles GET /drivers.
func (h *DriverHandler) List(c echo.Context) error {
	drivers, err := h.Drivers.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load drivers failed"})
	}
	items := make([]driverResp, 0, len(drivers))
	for _, d := range drivers {
		items = append(items, toDriverResp(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Drivers", "data": items})
}

// ListAvailable handles GET /drivers/available; customers pick from
// this list when booking with a driver.
func (h *DriverHandler) ListAvailable(c echo.Context) error {
	drivers, err := h.Drivers.ListAvailable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load drivers failed"})
	}
	items := make([]driverResp, 0, len(drivers))
	for _, d := range drivers {
		items = append(items, toDriverResp(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Available drivers", "data": items})
}

// Get handles GET /drivers/:id.
func (h *DriverHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid driver id"})
	}
	d, err := h.Drivers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "driver not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load driver failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Driver", "data": toDriverResp(d)})
}

// Update handles PUT /drivers/:id.
func (h *DriverHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid driver id"})
	}
	var req driverReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	d, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	d.ID = id

	if err := h.Drivers.Update(c.Request().Context(), d); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "driver not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"message": "phone or license number already used"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update driver failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Driver updated successfully"})
}

// Delete handles DELETE /drivers/:id.
func (h *DriverHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid driver id"})
	}
	if err := h.Drivers.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "driver not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"message": "driver has transactions"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete driver failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
