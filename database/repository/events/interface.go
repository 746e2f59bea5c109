// File: database/repository/events/interface.go
package eventsRepo

import (
	"context"
	"time"

	"apptbot/models"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	eventsCollection = "events"
	linkPrefix       = "apptbot://events/"
)

// EventRepository is the self-hosted calendar backend. It satisfies calendar.Store.
type EventRepository interface {
	ListBusyIntervals(ctx context.Context, start, end time.Time) ([]models.Interval, error)
	CreateEvent(ctx context.Context, summary string, start, end time.Time) (string, error)
	GetByID(ctx context.Context, id string) (*models.CalendarEvent, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoEventRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoEventRepo constructs a MongoDB EventRepository on db.
func NewMongoEventRepo(db *mongo.Database) EventRepository {
	return &mongoEventRepo{
		coll: db.Collection(eventsCollection),
		now:  time.Now,
	}
}
