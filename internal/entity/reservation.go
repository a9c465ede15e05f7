package entity

import "strings"

// Order status labels that drive stock reservation. Any other status string
// is accepted and stored but has no stock effect.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// ReservationState tracks whether an order currently holds stock. It is
// persisted next to the free-text status so the stock policy never has to be
// inferred from status strings.
type ReservationState string

const (
	ReservationUnreserved ReservationState = "unreserved"
	ReservationReserved   ReservationState = "reserved"
	ReservationReleased   ReservationState = "released"
)

// StockMode is the stock adjustment a transition requires.
type StockMode string

const (
	StockNone    StockMode = ""
	StockReserve StockMode = "reserve"
	StockRelease StockMode = "release"
)

// Delta returns the signed stock change for qty units.
func (m StockMode) Delta(qty int) int {
	switch m {
	case StockRelease:
		return qty
	case StockReserve:
		return -qty
	default:
		return 0
	}
}

// NormalizeStatus lower-cases and trims a status label.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// Next returns the reservation state an order moves to when its status
// becomes status, together with the stock adjustment that move requires.
//
//	unreserved|released --confirmed--> reserved  (reserve)
//	reserved --cancelled|refunded--> released    (release)
//
// Every other pair keeps the current state and touches no stock.
func (s ReservationState) Next(status string) (ReservationState, StockMode) {
	current := s
	if current == "" {
		current = ReservationUnreserved
	}

	switch NormalizeStatus(status) {
	case StatusConfirmed:
		if current != ReservationReserved {
			return ReservationReserved, StockReserve
		}
	case StatusCancelled, StatusRefunded:
		if current == ReservationReserved {
			return ReservationReleased, StockRelease
		}
	}
	return current, StockNone
}

// Valid reports whether s is a known reservation state.
func (s ReservationState) Valid() bool {
	switch s {
	case ReservationUnreserved, ReservationReserved, ReservationReleased:
		return true
	}
	return false
}
