// Package report renders the monthly rental report as an xlsx
// workbook: one sheet per month, one row per completed transaction,
// closed with a month total.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ardiansyahrf/car-rental-api/internal/repository"
)

// ErrEmptyRange is returned when no completed transactions fall in
// the requested months.
var ErrEmptyRange = errors.New("no transactions in the requested range")

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// Range is a half-open interval [From, To) covering whole months.
type Range struct {
	From time.Time
	To   time.Time
}

// ParseRange builds a Range from English month names and year strings
// as submitted by the report form, e.g. ("March", "2026", "May", "2026").
// The To month is inclusive.
func ParseRange(fromMonth, fromYear, toMonth, toYear string) (Range, error) {
	fm, ok := monthsByName[strings.ToLower(strings.TrimSpace(fromMonth))]
	if !ok {
		return Range{}, fmt.Errorf("unknown month %q", fromMonth)
	}
	tm, ok := monthsByName[strings.ToLower(strings.TrimSpace(toMonth))]
	if !ok {
		return Range{}, fmt.Errorf("unknown month %q", toMonth)
	}
	fy, err := strconv.Atoi(strings.TrimSpace(fromYear))
	if err != nil {
		return Range{}, fmt.Errorf("invalid year %q", fromYear)
	}
	ty, err := strconv.Atoi(strings.TrimSpace(toYear))
	if err != nil {
		return Range{}, fmt.Errorf("invalid year %q", toYear)
	}
	from := time.Date(fy, fm, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(ty, tm, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	if !to.After(from) {
		return Range{}, errors.New("end month is before start month")
	}
	return Range{From: from, To: to}, nil
}

// FormatAmount renders a money amount with `.` as the thousands
// separator and no fraction digits, e.g. 1000000 -> "1.000.000".
func FormatAmount(d decimal.Decimal) string {
	s := d.Round(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

var headers = []string{"Invoice", "Customer", "Car", "Driver", "Start Date",
	"End Date", "Return Date", "Late Fee", "Total Cost"}

// Build renders the workbook.  Rows are grouped into one sheet per
// calendar month of their start date, named like "March 2026", each
// ending with a month total row.  Rows must be ordered by start date,
// which ListSuccessBetween guarantees.
func Build(rows []repository.ReportRow) (*excelize.File, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyRange
	}

	f := excelize.NewFile()
	first := true

	var (
		sheet    string
		rowIdx   int
		monthSum decimal.Decimal
	)
	closeSheet := func() error {
		if sheet == "" {
			return nil
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			"Total", "", "", "", "", "", "", "", FormatAmount(monthSum),
		}); err != nil {
			return err
		}
		return nil
	}

	for _, r := range rows {
		name := r.StartDate.Format("January 2006")
		if name != sheet {
			if err := closeSheet(); err != nil {
				return nil, err
			}
			if first {
				// Rename the default sheet for the first month.
				if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
					return nil, err
				}
				first = false
			} else if _, err := f.NewSheet(name); err != nil {
				return nil, err
			}
			sheet = name
			monthSum = decimal.Zero
			if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
				return nil, err
			}
			rowIdx = 2
		}

		driver := "-"
		if r.DriverName != nil {
			driver = *r.DriverName
		}
		returned := "-"
		if r.ReturnDate != nil {
			returned = r.ReturnDate.Format("2006-01-02")
		}
		lateFee := decimal.Zero
		if r.LateFee.Valid {
			lateFee = r.LateFee.Decimal
		}

		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			r.Invoice, r.CustomerName, r.CarName, driver,
			r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"),
			returned, FormatAmount(lateFee), FormatAmount(r.TotalCost),
		}); err != nil {
			return nil, err
		}
		monthSum = monthSum.Add(r.TotalCost)
		rowIdx++
	}
	if err := closeSheet(); err != nil {
		return nil, err
	}
	return f, nil
}
