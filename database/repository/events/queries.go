// File: database/repository/events/queries.go
package eventsRepo

import (
	"context"
	"fmt"
	"time"

	"apptbot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListBusyIntervals finds events with start < end and end > start, ordered by start.
func (r *mongoEventRepo) ListBusyIntervals(ctx context.Context, start, end time.Time) ([]models.Interval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"start": bson.M{"$lt": end.UTC()},
		"end":   bson.M{"$gt": start.UTC()},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "start", Value: 1}}).
		SetProjection(bson.M{"start": 1, "end": 1, "_id": 0})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query busy intervals: %w", err)
	}
	defer cursor.Close(ctx)

	var busy []models.Interval
	if err := cursor.All(ctx, &busy); err != nil {
		return nil, fmt.Errorf("error decoding busy intervals: %w", err)
	}
	return busy, nil
}
