package models

import (
	"fmt"
	"time"
)

// Confirmation is returned once the calendar accepted the booking.
type Confirmation struct {
	Summary        string    `json:"summary"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Timezone       string    `json:"timezone"`
	Link           string    `json:"link"`                     // opaque reference returned by the calendar store
	Rescheduled    bool      `json:"rescheduled"`              // true when the requested slot was busy
	RequestedStart time.Time `json:"requestedStart,omitzero"` // the normalized interval before slot search
	RequestedEnd   time.Time `json:"requestedEnd,omitzero"`
	OracleCalls    int       `json:"oracleCalls"`
}

// Message renders the confirmation for the user.
func (c *Confirmation) Message() string {
	if !c.Rescheduled {
		return "Appointment booked successfully!"
	}
	return fmt.Sprintf("That time is already booked. Booked next available slot: %s to %s (%s)",
		c.Start.Format("2006-01-02 15:04"), c.End.Format("15:04"), c.Timezone)
}
