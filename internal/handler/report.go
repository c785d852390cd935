package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ardiansyahrf/car-rental-api/internal/report"
	"github.com/ardiansyahrf/car-rental-api/internal/repository"
)

// ReportHandler renders the monthly rental report for admins.
type ReportHandler struct {
	Txns *repository.TransactionRepo
}

func NewReportHandler(txns *repository.TransactionRepo) *ReportHandler {
	return &ReportHandler{Txns: txns}
}

type generateReportReq struct {
	FromMonth string `json:"from_month" validate:"required"`
	FromYear  string `json:"from_year" validate:"required"`
	ToMonth   string `json:"to_month" validate:"required"`
	ToYear    string `json:"to_year" validate:"required"`
}

// Generate handles POST /transactions/generate_report.  It collects
// completed rentals in the inclusive month range and streams an xlsx
// workbook as an attachment.
func (h *ReportHandler) Generate(c echo.Context) error {
	var req generateReportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}

	rng, err := report.ParseRange(req.FromMonth, req.FromYear, req.ToMonth, req.ToYear)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}

	rows, err := h.Txns.ListSuccessBetween(c.Request().Context(), rng.From, rng.To)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load transactions failed"})
	}
	f, err := report.Build(rows)
	if err != nil {
		if errors.Is(err, report.ErrEmptyRange) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "No transactions found for the selected period"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "generate report failed"})
	}
	defer f.Close()

	filename := fmt.Sprintf("rental-report-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
