package model

import (
	"time"

	"portwatch/internal/core/util"
)

// PortCall is one visit lifecycle of a vessel at the port. A call with a nil
// DepartureAt is open; at most one open call may exist per vessel. ArrivalAt
// and WaitingMinutes are set once at creation, DepartureAt once at closure.
type PortCall struct {
	ID             string     `json:"id" bson:"_id"`
	MMSI           int64      `json:"mmsi" bson:"mmsi"`
	ArrivalAt      time.Time  `json:"arrivalAt" bson:"arrivalAt"`
	DepartureAt    *time.Time `json:"departureAt,omitempty" bson:"departureAt,omitempty"`
	WaitingMinutes int        `json:"waitingMinutes" bson:"waitingMinutes"`

	// Open backs the partial unique index that enforces the one-open-call
	// invariant in storage. It is set on creation and unset on closure.
	Open bool `json:"-" bson:"open,omitempty"`
}

func NewPortCall(mmsi int64, arrivalAt time.Time, waitingMinutes int) *PortCall {
	return &PortCall{
		ID:             util.GenerateID(),
		MMSI:           mmsi,
		ArrivalAt:      arrivalAt,
		WaitingMinutes: waitingMinutes,
		Open:           true,
	}
}

// IsOpen reports whether the call has no departure recorded yet.
func (c *PortCall) IsOpen() bool {
	return c.DepartureAt == nil
}
