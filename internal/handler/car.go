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
	"github.com/ardiansyahrf/car-rental-api/internal/utils"
)

// CarHandler serves CRUD endpoints for the car catalog.  Listing and
// fetching are public; mutations are admin only (enforced by route
// middleware).
type CarHandler struct {
	Cars       *repository.CarRepo
	Categories *repository.CategoryRepo
}

func NewCarHandler(r *repository.CarRepo, cats *repository.CategoryRepo) *CarHandler {
	return &CarHandler{Cars: r, Categories: cats}
}

type carReq struct {
	CategoryID         uint64          `json:"category_id" validate:"required"`
	Name               string          `json:"name" validate:"required"`
	Transmission       string          `json:"transmission" validate:"required"`
	Fuel               string          `json:"fuel" validate:"required"`
	Color              string          `json:"color" validate:"required"`
	PlateNumber        string          `json:"plate_number" validate:"required"`
	Capacity           uint32          `json:"capacity" validate:"required"`
	RegistrationNumber uint64          `json:"registration_number" validate:"required"`
	Price              decimal.Decimal `json:"price"`
	Image              string          `json:"image"`
	Status             string          `json:"status"`
}

type carResp struct {
	ID                 uint64          `json:"id"`
	CategoryID         uint64          `json:"category_id"`
	Slug               string          `json:"slug"`
	Name               string          `json:"name"`
	Transmission       string          `json:"transmission"`
	Fuel               string          `json:"fuel"`
	Color              string          `json:"color"`
	PlateNumber        string          `json:"plate_number"`
	Capacity           uint32          `json:"capacity"`
	RegistrationNumber uint64          `json:"registration_number"`
	Price              decimal.Decimal `json:"price"`
	Image              string          `json:"image"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func toCarResp(car model.Car) carResp {
	return carResp{
		ID:                 car.ID,
		CategoryID:         car.CategoryID,
		Slug:               car.Slug,
		Name:               car.Name,
		Transmission:       car.Transmission,
		Fuel:               car.Fuel,
		Color:              car.Color,
		PlateNumber:        car.PlateNumber,
		Capacity:           car.Capacity,
		RegistrationNumber: car.RegistrationNumber,
		Price:              car.Price,
		Image:              car.Image,
		Status:             car.Status,
		CreatedAt:          car.CreatedAt,
		UpdatedAt:          car.UpdatedAt,
	}
}

var carStatuses = map[string]bool{
	model.CarAvailable:   true,
	model.CarBooked:      true,
	model.CarRented:      true,
	model.CarUnavailable: true,
}

func (req carReq) toModel() (model.Car, error) {
	if !req.Price.IsPositive() {
		return model.Car{}, errors.New("price must be positive")
	}
	status := req.Status
	if status == "" {
		status = model.CarAvailable
	}
	if !carStatuses[status] {
		return model.Car{}, errors.New("unknown car status")
	}
	return model.Car{
		CategoryID:         req.CategoryID,
		Name:               req.Name,
		Transmission:       req.Transmission,
		Fuel:               req.Fuel,
		Color:              req.Color,
		PlateNumber:        req.PlateNumber,
		Capacity:           req.Capacity,
		RegistrationNumber: req.RegistrationNumber,
		Price:              req.Price,
		Image:              req.Image,
		Status:             status,
	}, nil
}

// Create handles POST /cars.
func (h *CarHandler) Create(c echo.Context) error {
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	car, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	if _, err := h.Categories.GetByID(c.Request().Context(), car.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load category failed"})
	}
	car.Slug, err = utils.NewSlug(car.Name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "generate slug failed"})
	}

	id, err := h.Cars.Create(c.Request().Context(), car)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "car already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create car failed"})
	}
	created, err := h.Cars.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load car failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Car added successfully", "data": toCarResp(created)})
}

// List handles GET /cars (public).
func (h *CarHandler) List(c echo.Context) error {
	cars, err := h.Cars.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load cars failed"})
	}
	items := make([]carResp, 0, len(cars))
	for _, car := range cars {
		items = append(items, toCarResp(car))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Cars", "data": items})
}

// Get handles GET /cars/:id (public).
func (h *CarHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid car id"})
	}
	car, err := h.Cars.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load car failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Car", "data": toCarResp(car)})
}

// Update handles PUT /cars/:id.  The slug is kept stable across
// updates.
func (h *CarHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid car id"})
	}
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	car, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	car.ID = id

	if _, err := h.Categories.GetByID(c.Request().Context(), car.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load category failed"})
	}
	if err := h.Cars.Update(c.Request().Context(), car); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"message": "plate or registration number already used"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update car failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Car updated successfully"})
}

// Delete handles DELETE /cars/:id.
func (h *CarHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid car id"})
	}
	if err := h.Cars.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "car not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"message": "car has transactions"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete car failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
