package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"apptbot/models"

	"github.com/go-redis/redis/v8"
)

const outcomePrefix = "appt:job:"

// ErrJobNotFound is returned for unknown or expired job IDs.
var ErrJobNotFound = errors.New("job not found")

// OutcomeStore keeps async job outcomes for polling.
type OutcomeStore interface {
	Get(ctx context.Context, jobID string) (*models.Outcome, error)
	Set(ctx context.Context, outcome *models.Outcome) error
}

type RedisOutcomeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOutcomeStore(client *redis.Client, ttl time.Duration) *RedisOutcomeStore {
	return &RedisOutcomeStore{client: client, ttl: ttl}
}

func (s *RedisOutcomeStore) Get(ctx context.Context, jobID string) (*models.Outcome, error) {
	data, err := s.client.Get(ctx, outcomePrefix+jobID).Result()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	var out models.Outcome
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisOutcomeStore) Set(ctx context.Context, outcome *models.Outcome) error {
	b, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, outcomePrefix+outcome.JobID, b, s.ttl).Err()
}
