package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
	"github.com/ardiansyahrf/car-rental-api/internal/repository"
)

// MaintenanceHandler serves CRUD endpoints for car maintenance
// records.  Admin only.
type MaintenanceHandler struct {
	Maintenance *repository.MaintenanceRepo
	Cars        *repository.CarRepo
}

func NewMaintenanceHandler(m *repository.MaintenanceRepo, cars *repository.CarRepo) *MaintenanceHandler {
	return &MaintenanceHandler{Maintenance: m, Cars: cars}
}

type maintenanceReq struct {
	CarID           uint64          `json:"car_id" validate:"required"`
	Description     string          `json:"description" validate:"required"`
	Cost            decimal.Decimal `json:"cost"`
	MaintenanceDate string          `json:"maintenance_date" validate:"required"`
}

type maintenanceResp struct {
	ID              uint64          `json:"id"`
	CarID           uint64          `json:"car_id"`
	Description     string          `json:"description"`
	Cost            decimal.Decimal `json:"cost"`
	MaintenanceDate string          `json:"maintenance_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toMaintenanceResp(m model.CarMaintenance) maintenanceResp {
	return maintenanceResp{
		ID:              m.ID,
		CarID:           m.CarID,
		Description:     m.Description,
		Cost:            m.Cost,
		MaintenanceDate: m.MaintenanceDate.Format(dateLayout),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (req maintenanceReq) toModel() (model.CarMaintenance, error) {
	day, err := time.Parse(dateLayout, req.MaintenanceDate)
	if err != nil {
		return model.CarMaintenance{}, errors.New("maintenance_date must be YYYY-MM-DD")
	}
	if req.Cost.IsNegative() {
		return model.CarMaintenance{}, errors.New("cost must not be negative")
	}
	return model.CarMaintenance{
		CarID:           req.CarID,
		Description:     req.Description,
		Cost:            req.Cost,
		MaintenanceDate: day,
	}, nil
}

// Create handles POST /car-maintenances.  The referenced car must
// exist.
func (h *MaintenanceHandler) Create(c echo.Context) error {
	var req maintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	m, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}

	if _, err := h.Cars.GetByID(c.Request().Context(), m.CarID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load car failed"})
	}

	id, err := h.Maintenance.Create(c.Request().Context(), m)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create maintenance failed"})
	}
	created, err := h.Maintenance.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load maintenance failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Maintenance added successfully", "data": toMaintenanceResp(created)})
}

// List handles GET /car-maintenances.
func (h *MaintenanceHandler) List(c echo.Context) error {
	records, err := h.Maintenance.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load maintenances failed"})
	}
	items := make([]maintenanceResp, 0, len(records))
	for _, m := range records {
		items = append(items, toMaintenanceResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Maintenances", "data": items})
}

// Get handles GET /car-maintenances/:id.
func (h *MaintenanceHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid maintenance id"})
	}
	m, err := h.Maintenance.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "maintenance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load maintenance failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Maintenance", "data": toMaintenanceResp(m)})
}

// Update handles PUT /car-maintenances/:id.
func (h *MaintenanceHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid maintenance id"})
	}
	var req maintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	m, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	m.ID = id

	if err := h.Maintenance.Update(c.Request().Context(), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "maintenance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update maintenance failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Maintenance updated successfully"})
}

// Delete handles DELETE /car-maintenances/:id.
func (h *MaintenanceHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid maintenance id"})
	}
	if err := h.Maintenance.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "maintenance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete maintenance failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
