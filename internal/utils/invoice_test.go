package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoicePattern = regexp.MustCompile(`^INV/\d{8}/\d{5}$`)

func TestNewInvoiceFormat(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	inv, err := NewInvoice(now)
	require.NoError(t, err)
	assert.Regexp(t, invoicePattern, inv)
	assert.True(t, strings.HasPrefix(inv, "INV/20260301/"))
}

func TestNewInvoiceSuffixRange(t *testing.T) {
	now := time.Now()
	for i := 0; i < 100; i++ {
		inv, err := NewInvoice(now)
		require.NoError(t, err)
		parts := strings.Split(inv, "/")
		require.Len(t, parts, 3)
		n, err := strconv.Atoi(parts[2])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 10000)
		assert.LessOrEqual(t, n, 99999)
	}
}
