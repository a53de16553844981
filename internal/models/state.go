package models

import (
	"fmt"
	"strings"
)

// BookingState selects bookings relative to the current instant or by stored status.
type BookingState int

const (
	StateUnknown BookingState = iota
	StateAll
	StateCurrent
	StatePast
	StateFuture
	StateWaiting
	StateRejected
)

var stateNames = map[BookingState]string{
	StateAll:      "ALL",
	StateCurrent:  "CURRENT",
	StatePast:     "PAST",
	StateFuture:   "FUTURE",
	StateWaiting:  "WAITING",
	StateRejected: "REJECTED",
}

func (s BookingState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s BookingState) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

// ParseBookingState maps a state name to its value. An empty name means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "" {
		return StateAll, nil
	}
	for state, n := range stateNames {
		if n == name {
			return state, nil
		}
	}
	return StateUnknown, fmt.Errorf("Unknown state: %s", raw)
}
