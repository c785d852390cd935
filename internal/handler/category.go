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

// CategoryHandler serves CRUD endpoints for car categories.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(r *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: r}
}

type categoryReq struct {
	CarBrand string `json:"car_brand" validate:"required"`
	Type     string `json:"type" validate:"required"`
}

type categoryResp struct {
	ID        uint64    `json:"id"`
	CarBrand  string    `json:"car_brand"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCategoryResp(cat model.CarCategory) categoryResp {
	return categoryResp{
		ID:        cat.ID,
		CarBrand:  cat.CarBrand,
		Type:      cat.Type,
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
}

// Create handles POST /car-categories.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}

	id, err := h.Categories.Create(c.Request().Context(), req.CarBrand, req.Type)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create category failed"})
	}
	cat, err := h.Categories.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load category failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Category added successfully", "data": toCategoryResp(cat)})
}

// List handles GET /car-categories.
func (h *CategoryHandler) List(c echo.Context) error {
	cats, err := h.Categories.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load categories failed"})
	}
	items := make([]categoryResp, 0, len(cats))
	for _, cat := range cats {
		items = append(items, toCategoryResp(cat))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Categories", "data": items})
}

// Get handles GET /car-categories/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category id"})
	}
	cat, err := h.Categories.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load category failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category", "data": toCategoryResp(cat)})
}

// Update handles PUT /car-categories/:id.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}

	if err := h.Categories.Update(c.Request().Context(), id, req.CarBrand, req.Type); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"message": "category already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update category failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category updated successfully"})
}

// Delete handles DELETE /car-categories/:id.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category id"})
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "category not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"message": "category still referenced by cars"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete category failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
