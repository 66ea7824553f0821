package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const bookingNumberPrefix = "PTX"

// GenerateBookingNumber returns a human-readable, URL-safe booking number:
// a fixed prefix, a base36 timestamp token and a short random suffix.
func GenerateBookingNumber() string {
	token := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("%s-%s-%s", bookingNumberPrefix, token, suffix)
}
