package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newTransactionNumber builds the human-readable ticket number. Millisecond
// resolution is enough for one warung's counter; the unique index on the
// column catches same-millisecond collisions, which get a salted retry.
func newTransactionNumber(at time.Time) string {
	return fmt.Sprintf("TRX-%d", at.UnixMilli())
}

func saltedTransactionNumber(at time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("TRX-%d-%s", at.UnixMilli(), suffix)
}
