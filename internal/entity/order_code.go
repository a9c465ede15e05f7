package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidOrderNumber is returned when a supplied order number has no digits.
var ErrInvalidOrderNumber = errors.New("invalid order number")

// GenerateOrderNumber derives an order number from the last 8 digits of the
// millisecond timestamp.
func GenerateOrderNumber(now time.Time) int64 {
	n, _ := strconv.ParseInt(lastDigits(strconv.FormatInt(now.UnixMilli(), 10), 8), 10, 64)
	return n
}

// ParseOrderNumber keeps the last 8 digits of a caller-supplied order number.
func ParseOrderNumber(raw string) (int64, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, ErrInvalidOrderNumber
	}
	return strconv.ParseInt(lastDigits(b.String(), 8), 10, 64)
}

// FormatOrderCode renders ORD-YYYYMMDD-NNNNNN where NNNNNN are the last six
// digits of orderNumber.
func FormatOrderCode(date time.Time, orderNumber int64) string {
	if orderNumber < 0 {
		orderNumber = -orderNumber
	}
	return fmt.Sprintf("ORD-%s-%06d", date.Format("20060102"), orderNumber%1000000)
}

func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
