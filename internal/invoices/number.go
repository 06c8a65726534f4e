package invoices

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateInvoiceNumber builds an order number of the form ORD-YYYYMMDD-NNNN.
// The four-digit suffix is random, not sequential, so numbers are readable but
// not guaranteed unique; the invoice ID remains the real identifier.
func GenerateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), 1000+rand.Intn(9000))
}
