package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewInvoice builds an invoice number of the form
// INV/<YYYYMMDD>/<5 digits>, e.g. INV/20260301/48213.  The numeric
// suffix is random in [10000, 99999], so collisions within a day are
// possible; the transactions table enforces uniqueness and callers
// retry on a duplicate.
func NewInvoice(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV/%s/%d", now.Format("20060102"), n.Int64()+10000), nil
}
