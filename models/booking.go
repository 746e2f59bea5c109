package models

import "time"

// CalendarEvent is an event stored by the self-hosted (MongoDB) calendar backend.
type CalendarEvent struct {
	ID        string    `bson:"id" json:"id"`
	Summary   string    `bson:"summary" json:"summary"`
	Start     time.Time `bson:"start" json:"start"`
	End       time.Time `bson:"end" json:"end"`
	Timezone  string    `bson:"timezone" json:"timezone"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
