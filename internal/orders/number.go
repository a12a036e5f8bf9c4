package orders

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber builds a human-readable order number:
// ORD-<UTC yyyyMMdd>-<8 uppercase hex chars>. The suffix comes from the
// first four random bytes of a UUID, so the unique index on
// orders.order_number stays the real uniqueness guarantee and PlaceOrder
// retries on the rare collision.
func NewOrderNumber(now time.Time) string {
	u := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(u[:4]))
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}
