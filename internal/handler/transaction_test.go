package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyahrf/car-rental-api/internal/model"
	"github.com/ardiansyahrf/car-rental-api/internal/repository"
	"github.com/ardiansyahrf/car-rental-api/internal/validation"
)

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateRejectsMissingCarName(t *testing.T) {
	h := &TransactionHandler{}
	c, rec := newTestContext(t, http.MethodPost, "/v1/transactions",
		`{"start_date":"2026-03-01","end_date":"2026-03-04"}`)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Data Invalid!")
}

func TestCreateRejectsMalformedDate(t *testing.T) {
	h := &TransactionHandler{}
	c, rec := newTestContext(t, http.MethodPost, "/v1/transactions",
		`{"car_name":"Avanza","start_date":"01-03-2026","end_date":"2026-03-04"}`)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "start_date must be YYYY-MM-DD")
}

func TestValidatePaymentRejectsUnknownStatus(t *testing.T) {
	h := &TransactionHandler{}
	c, rec := newTestContext(t, http.MethodPut, "/v1/transactions/payment-proof-validation/3",
		`{"rental_status":"Approved"}`)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.ValidatePayment(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rental_status must be Valid or Invalid")
}

func TestReturnCarRejectsMalformedDate(t *testing.T) {
	h := &TransactionHandler{}
	c, rec := newTestContext(t, http.MethodPut, "/v1/transactions/return-car/3",
		`{"return_date":"next tuesday"}`)
	c.Set("user_id", uint64(7))
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.ReturnCar(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "return_date must be YYYY-MM-DD")
}

func transactionRowFor(userID uint64) *sqlmock.Rows {
	now := time.Now()
	cols := []string{"id", "user_id", "car_id", "driver_id", "invoice", "start_date",
		"end_date", "return_date", "rental_status", "payment_status", "payment_proof",
		"late_fee", "total_cost", "created_at", "updated_at"}
	return sqlmock.NewRows(cols).AddRow(3, userID, 5, nil, "INV/20260301/48213",
		now, now.AddDate(0, 0, 3), nil, model.RentalPending, model.PaymentPending,
		nil, nil, "600000.00", now, now)
}

func TestGetHidesForeignTransactionFromCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\?`).
		WithArgs(uint64(3)).
		WillReturnRows(transactionRowFor(12))

	h := &TransactionHandler{Txns: repository.NewTransactionRepo(db)}
	c, rec := newTestContext(t, http.MethodGet, "/v1/transactions/3", "")
	c.Set("user_id", uint64(7))
	c.Set("role", model.RoleCustomer)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllowsAdminOnAnyTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery(`SELECT (.+) FROM transactions WHERE id=\?`).
		WithArgs(uint64(3)).
		WillReturnRows(transactionRowFor(12))

	h := &TransactionHandler{Txns: repository.NewTransactionRepo(db)}
	c, rec := newTestContext(t, http.MethodGet, "/v1/transactions/3", "")
	c.Set("user_id", uint64(1))
	c.Set("role", model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "INV/20260301/48213")
	assert.NoError(t, mock.ExpectationsWereMet())
}
