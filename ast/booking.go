package ast

import (
	"fmt"
	"strings"
)

// BookingMethod is the lot-matching policy declared on an Open directive.
// Strict is the default when an Open carries no booking-method string.
type BookingMethod int

const (
	BookingStrict BookingMethod = iota
	BookingNone
	BookingAverage
	BookingFifo
	BookingLifo
)

func (b BookingMethod) String() string {
	switch b {
	case BookingStrict:
		return "STRICT"
	case BookingNone:
		return "NONE"
	case BookingAverage:
		return "AVERAGE"
	case BookingFifo:
		return "FIFO"
	case BookingLifo:
		return "LIFO"
	default:
		return "STRICT"
	}
}

// ParseBookingMethod parses a booking-method string case-insensitively, per
// the original implementation's booking parser. An unrecognized string is
// an error naming the literal text that failed to match.
func ParseBookingMethod(s string) (BookingMethod, error) {
	switch strings.ToUpper(s) {
	case "STRICT":
		return BookingStrict, nil
	case "NONE":
		return BookingNone, nil
	case "AVERAGE":
		return BookingAverage, nil
	case "FIFO":
		return BookingFifo, nil
	case "LIFO":
		return BookingLifo, nil
	default:
		return BookingStrict, fmt.Errorf("unknown booking method %q", s)
	}
}
