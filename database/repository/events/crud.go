// File: database/repository/events/crud.go
package eventsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"apptbot/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoEventRepo) CreateEvent(ctx context.Context, summary string, start, end time.Time) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ev := models.CalendarEvent{
		ID:        uuid.New().String(),
		Summary:   summary,
		Start:     start.UTC(),
		End:       end.UTC(),
		Timezone:  models.ZoneLabel(start),
		CreatedAt: r.now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, ev); err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	return linkPrefix + ev.ID, nil
}

func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (*models.CalendarEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ev models.CalendarEvent
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", id, err)
	}
	return &ev, nil
}
