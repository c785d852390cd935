package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardiansyahrf/car-rental-api/internal/repository"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("March", "2026", "May", "2026")
	require.NoError(t, err)
	assert.Equal(t, date(2026, 3, 1), r.From)
	assert.Equal(t, date(2026, 6, 1), r.To)

	// Case-insensitive month names.
	r, err = ParseRange("march", "2026", "MARCH", "2026")
	require.NoError(t, err)
	assert.Equal(t, date(2026, 3, 1), r.From)
	assert.Equal(t, date(2026, 4, 1), r.To)
}

func TestParseRangeRejectsBadInput(t *testing.T) {
	_, err := ParseRange("Marchtober", "2026", "May", "2026")
	assert.Error(t, err)

	_, err = ParseRange("March", "twenty", "May", "2026")
	assert.Error(t, err)

	_, err = ParseRange("May", "2026", "March", "2026")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(decimal.Zero))
	assert.Equal(t, "999", FormatAmount(decimal.NewFromInt(999)))
	assert.Equal(t, "1.000", FormatAmount(decimal.NewFromInt(1000)))
	assert.Equal(t, "600.000", FormatAmount(decimal.NewFromInt(600000)))
	assert.Equal(t, "1.000.000", FormatAmount(decimal.NewFromInt(1000000)))
	assert.Equal(t, "-1.234.567", FormatAmount(decimal.NewFromInt(-1234567)))
	// Fraction digits are dropped.
	assert.Equal(t, "600.000", FormatAmount(decimal.RequireFromString("600000.00")))
}

func sampleRow(invoice string, start time.Time, total int64) repository.ReportRow {
	return repository.ReportRow{
		Invoice:      invoice,
		CustomerName: "Rina",
		CarName:      "Avanza",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 3),
		TotalCost:    decimal.NewFromInt(total),
	}
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrEmptyRange)
}

func TestBuildOneSheetPerMonth(t *testing.T) {
	rows := []repository.ReportRow{
		sampleRow("INV/20260301/10001", date(2026, 3, 1), 600000),
		sampleRow("INV/20260310/10002", date(2026, 3, 10), 400000),
		sampleRow("INV/20260402/10003", date(2026, 4, 2), 900000),
	}
	f, err := Build(rows)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"March 2026", "April 2026"}, f.GetSheetList())

	v, err := f.GetCellValue("March 2026", "A2")
	require.NoError(t, err)
	assert.Equal(t, "INV/20260301/10001", v)

	// Month total row follows the two March transactions.
	v, err = f.GetCellValue("March 2026", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total", v)
	v, err = f.GetCellValue("March 2026", "I4")
	require.NoError(t, err)
	assert.Equal(t, "1.000.000", v)

	v, err = f.GetCellValue("April 2026", "I3")
	require.NoError(t, err)
	assert.Equal(t, "900.000", v)
}

func TestBuildRendersDriverAndReturn(t *testing.T) {
	driver := "Budi"
	ret := date(2026, 3, 6)
	row := sampleRow("INV/20260301/10001", date(2026, 3, 1), 1300000)
	row.DriverName = &driver
	row.ReturnDate = &ret
	row.LateFee = decimal.NullDecimal{Decimal: decimal.NewFromInt(400000), Valid: true}

	f, err := Build([]repository.ReportRow{row})
	require.NoError(t, err)
	defer f.Close()

	for cell, want := range map[string]string{
		"D2": "Budi",
		"G2": "2026-03-06",
		"H2": "400.000",
		"I2": "1.300.000",
	} {
		v, err := f.GetCellValue("March 2026", cell)
		require.NoError(t, err)
		assert.Equal(t, want, v, cell)
	}
}
