package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ardiansyahrf/car-rental-api/internal/config"
	"github.com/ardiansyahrf/car-rental-api/internal/model"
	"github.com/ardiansyahrf/car-rental-api/internal/pricing"
	"github.com/ardiansyahrf/car-rental-api/internal/queue"
	"github.com/ardiansyahrf/car-rental-api/internal/repository"
	"github.com/ardiansyahrf/car-rental-api/internal/service/queue_publisher"
	"github.com/ardiansyahrf/car-rental-api/internal/service/rental"
)

// TransactionHandler exposes the rental lifecycle over HTTP.  State
// transitions are delegated to the rental service; this layer binds
// requests, maps service errors to statuses and shapes responses.
type TransactionHandler struct {
	Cfg     config.Config
	Svc     *rental.Service
	Txns    *repository.TransactionRepo
	Cars    *repository.CarRepo
	Drivers *repository.DriverRepo
}

func NewTransactionHandler(cfg config.Config, svc *rental.Service, txns *repository.TransactionRepo, cars *repository.CarRepo, drivers *repository.DriverRepo) *TransactionHandler {
	return &TransactionHandler{Cfg: cfg, Svc: svc, Txns: txns, Cars: cars, Drivers: drivers}
}

// ----- DTOs -----

type createTransactionReq struct {
	CarName    string  `json:"car_name" validate:"required"`
	DriverName *string `json:"driver_name"`
	StartDate  string  `json:"start_date" validate:"required"`
	EndDate    string  `json:"end_date" validate:"required"`
}

type validatePaymentReq struct {
	RentalStatus string `json:"rental_status" validate:"required"`
}

type returnCarReq struct {
	ReturnDate string `json:"return_date" validate:"required"`
}

type transactionResp struct {
	ID            uint64           `json:"id"`
	UserID        uint64           `json:"user_id"`
	CarID         uint64           `json:"car_id"`
	DriverID      *uint64          `json:"driver_id"`
	Invoice       string           `json:"invoice"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	ReturnDate    *string          `json:"return_date"`
	RentalStatus  string           `json:"rental_status"`
	PaymentStatus string           `json:"payment_status"`
	PaymentProof  *string          `json:"payment_proof"`
	LateFee       *decimal.Decimal `json:"late_fee"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	CarName       string           `json:"car_name,omitempty"`
	DriverName    *string          `json:"driver_name,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func toTransactionResp(t model.Transaction) transactionResp {
	resp := transactionResp{
		ID:            t.ID,
		UserID:        t.UserID,
		CarID:         t.CarID,
		DriverID:      t.DriverID,
		Invoice:       t.Invoice,
		StartDate:     t.StartDate.Format(dateLayout),
		EndDate:       t.EndDate.Format(dateLayout),
		RentalStatus:  t.RentalStatus,
		PaymentStatus: t.PaymentStatus,
		PaymentProof:  t.PaymentProof,
		TotalCost:     t.TotalCost,
	}
	if t.ReturnDate != nil {
		s := t.ReturnDate.Format(dateLayout)
		resp.ReturnDate = &s
	}
	if t.LateFee.Valid {
		fee := t.LateFee.Decimal
		resp.LateFee = &fee
	}
	resp.CreatedAt = t.CreatedAt
	resp.UpdatedAt = t.UpdatedAt
	return resp
}

// Create handles POST /transactions: books a car (and optionally a
// driver) for the authenticated user.
func (h *TransactionHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req createTransactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Data Invalid!", "data": err.Error()})
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "start_date must be YYYY-MM-DD"})
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "end_date must be YYYY-MM-DD"})
	}

	t, err := h.Svc.Create(c.Request().Context(), rental.CreateInput{
		UserID:     uid,
		CarName:    req.CarName,
		DriverName: req.DriverName,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidPeriod):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "End date must be greater than start date"})
		case errors.Is(err, rental.ErrCarNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Car not found!"})
		case errors.Is(err, rental.ErrCarUnavailable):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Car is not available!"})
		case errors.Is(err, rental.ErrDriverNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Driver not found!"})
		case errors.Is(err, rental.ErrDriverUnavailable):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Driver is not available!"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "An error occurred while adding new transaction"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Transaction added successfully", "data": toTransactionResp(t)})
}

// ValidatePayment handles PUT /transactions/payment-proof-validation/:id.
// The body carries rental_status "Valid" or "Invalid"; anything else
// is rejected.
func (h *TransactionHandler) ValidatePayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid transaction id"})
	}
	var req validatePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.RentalStatus != "Valid" && req.RentalStatus != "Invalid" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "rental_status must be Valid or Invalid"})
	}
	approve := req.RentalStatus == "Valid"

	t, err := h.Svc.ValidatePayment(c.Request().Context(), id, approve)
	if err != nil {
		switch {
		case errors.Is(err, rental.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "transaction not found"})
		case errors.Is(err, rental.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"message": "transaction already validated"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "validate payment failed"})
		}
	}

	if approve {
		h.publishConfirmed(t)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment validated successfully", "data": toTransactionResp(t)})
}

// publishConfirmed emits the rental.confirmed event in the background.
// Publishing is best effort; the state change has already committed.
func (h *TransactionHandler) publishConfirmed(t model.Transaction) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		carName := ""
		if car, err := h.Cars.GetByID(ctx, t.CarID); err == nil {
			carName = car.Name
		}
		ev := queue.RentalConfirmedEvent{
			TransactionID: t.ID,
			Invoice:       t.Invoice,
			UserID:        t.UserID,
			CarID:         t.CarID,
			CarName:       carName,
			StartDate:     t.StartDate.Format(dateLayout),
			EndDate:       t.EndDate.Format(dateLayout),
			TotalCost:     t.TotalCost.String(),
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if t.DriverID != nil {
			ev.DriverID = *t.DriverID
		}
		_ = queue_publisher.PublishRentalConfirmed(ctx, ev)
	}()
}

// ReturnCar handles PUT /transactions/return-car/:id for the owning
// customer.
func (h *TransactionHandler) ReturnCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid transaction id"})
	}
	var req returnCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	returnDate, err := time.Parse(dateLayout, req.ReturnDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "return_date must be YYYY-MM-DD"})
	}

	t, err := h.Svc.ReturnCar(c.Request().Context(), id, uid, returnDate)
	if err != nil {
		switch {
		case errors.Is(err, rental.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "transaction not found"})
		case errors.Is(err, rental.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case errors.Is(err, rental.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"message": "rental is not in progress"})
		case errors.Is(err, rental.ErrInvalidReturnDate):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "return_date cannot be before the start date"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "return car failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Car returned successfully", "data": toTransactionResp(t)})
}

// UploadPaymentProof handles PUT /transactions/upload-payment-proof/:id.
// The multipart field payment_proof_image is stored under the upload
// directory and its reference recorded on the transaction.  Only the
// owner may upload, and only while the payment is still Pending.
func (h *TransactionHandler) UploadPaymentProof(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid transaction id"})
	}

	ctx := c.Request().Context()
	t, err := h.Txns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load transaction failed"})
	}
	if t.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	if t.PaymentStatus != model.PaymentPending {
		return c.JSON(http.StatusConflict, echo.Map{"message": "payment already reviewed"})
	}

	file, err := c.FormFile("payment_proof_image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "payment_proof_image is required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "read upload failed"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "store upload failed"})
	}
	ref := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(h.Cfg.UploadDir, ref))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "store upload failed"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "store upload failed"})
	}

	if err := h.Txns.SetPaymentProof(ctx, id, ref); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "save payment proof failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment proof uploaded successfully", "data": echo.Map{"payment_proof": ref}})
}

// ListAll handles GET /transactions for admins, newest first.
func (h *TransactionHandler) ListAll(c echo.Context) error {
	items, err := h.Txns.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load transactions failed"})
	}
	out := make([]transactionResp, 0, len(items))
	for _, t := range items {
		out = append(out, toTransactionResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Transactions", "data": out})
}

// ListMine handles GET /transactions/customer: the caller's rentals
// with car and driver names resolved.
func (h *TransactionHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	items, err := h.Txns.ListByUserDetailed(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load transactions failed"})
	}
	out := make([]transactionResp, 0, len(items))
	for _, d := range items {
		resp := toTransactionResp(d.Transaction)
		resp.CarName = d.CarName
		resp.DriverName = d.DriverName
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Transactions", "data": out})
}

// Get handles GET /transactions/:id.  Admins can fetch any
// transaction; customers only their own, with foreign ones reported
// as not found.
func (h *TransactionHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid transaction id"})
	}
	t, err := h.Txns.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load transaction failed"})
	}
	if currentRole(c) != model.RoleAdmin && t.UserID != uid {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "transaction not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Transaction", "data": toTransactionResp(t)})
}
