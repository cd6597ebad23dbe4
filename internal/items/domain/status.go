package domain

// Status is the lifecycle state of a shipping request. States form a total
// order and an item only ever moves forward through it; "cancelled" is a
// terminal side-state outside the order.
type Status string

const (
	StatusOpen                  Status = "open"
	StatusAccepted              Status = "accepted"
	StatusPickedUp              Status = "picked-up"
	StatusAtOriginAirport       Status = "at-origin-airport"
	StatusInFlight              Status = "in-flight"
	StatusAtDestinationAirport  Status = "at-destination-airport"
	StatusOutForDelivery        Status = "out-for-delivery"
	StatusDelivered             Status = "delivered"
	StatusCompleted             Status = "completed"
	StatusCancelled             Status = "cancelled"
)

// statusOrder is the forward progression of an item. Cancelled is not part
// of the order.
var statusOrder = []Status{
	StatusOpen,
	StatusAccepted,
	StatusPickedUp,
	StatusAtOriginAirport,
	StatusInFlight,
	StatusAtDestinationAirport,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCompleted,
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	return s.Rank() >= 0
}

// Rank returns the position of s in the forward order, or -1 for
// cancelled/unknown values.
func (s Status) Rank() int {
	for i, v := range statusOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// Next returns the immediate successor of s in the forward order.
func (s Status) Next() (Status, bool) {
	r := s.Rank()
	if r < 0 || r == len(statusOrder)-1 {
		return "", false
	}
	return statusOrder[r+1], true
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ValidateTransition is the single gate through which an item's status may
// change. It checks both the ordering rule (only the immediate successor,
// never backwards, never out of a terminal state) and actor authority:
// the acceptor drives custody states up to and including delivered, only
// the owner confirms completion, and only the owner may cancel before
// delivery. Acceptance itself additionally requires the acceptor to be a
// different identity than the owner.
func ValidateTransition(item *Item, callerUID string, target Status) error {
	if !target.Valid() || target == StatusOpen {
		return ErrInvalidTransition
	}
	if item.Status.Terminal() {
		return ErrInvalidTransition
	}

	if target == StatusCancelled {
		if item.Status.Rank() >= StatusDelivered.Rank() {
			return ErrInvalidTransition
		}
		if callerUID != item.UserID {
			return ErrUnauthorized
		}
		return nil
	}

	next, ok := item.Status.Next()
	if !ok || target != next {
		return ErrInvalidTransition
	}

	switch target {
	case StatusAccepted:
		if callerUID == item.UserID {
			return ErrUnauthorized
		}
	case StatusCompleted:
		if callerUID != item.UserID {
			return ErrUnauthorized
		}
	default:
		if item.AcceptorID == nil || callerUID != *item.AcceptorID {
			return ErrUnauthorized
		}
	}

	return nil
}
