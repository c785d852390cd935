package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyahrf/car-rental-api/internal/repository"
)

func TestUpdateProfileRewritesOwnRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`UPDATE users SET name=\?, address=\?, phone_number=\? WHERE id=\?`).
		WithArgs("Budi Santoso", "Jl. Melati 2", "081200011122", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id=\?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role_id", "name", "email",
			"password_hash", "address", "phone_number", "created_at", "updated_at"}).
			AddRow(7, 2, "Budi Santoso", "budi@example.com", "hash",
				"Jl. Melati 2", "081200011122", now, now))

	h := &AuthHandler{Users: repository.NewUserRepo(db)}
	c, rec := newTestContext(t, http.MethodPut, "/v1/profile",
		`{"name":"Budi Santoso","address":"Jl. Melati 2","phone_number":"081200011122"}`)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Budi Santoso")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileRejectsMissingFields(t *testing.T) {
	h := &AuthHandler{}
	c, rec := newTestContext(t, http.MethodPut, "/v1/profile", `{"name":"Budi Santoso"}`)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.UpdateProfile(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Data Invalid!")
}
