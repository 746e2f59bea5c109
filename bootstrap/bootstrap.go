// File: bootstrap/bootstrap.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"apptbot/config"
	"apptbot/database"
	eventsRepo "apptbot/database/repository/events"
	"apptbot/services/booking"
	"apptbot/services/calendar"
	ai "apptbot/services/intelligence"
	"apptbot/utils"

	"go.uber.org/zap"
)

// BuildOracle constructs the extraction oracle named by LLM_PROVIDER.
// The returned close func is never nil.
func BuildOracle(ctx context.Context, cfg *config.Config) (ai.Oracle, func() error, error) {
	noop := func() error { return nil }
	switch cfg.LLMProvider {
	case "openai":
		return ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), noop, nil
	case "gemini", "":
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, noop, fmt.Errorf("bootstrap: gemini client: %w", err)
		}
		return client, client.Close, nil
	default:
		return nil, noop, fmt.Errorf("bootstrap: unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// BuildCalendarStore constructs the calendar backend named by CALENDAR_BACKEND.
func BuildCalendarStore(ctx context.Context, cfg *config.Config) (calendar.Store, error) {
	switch cfg.CalendarBackend {
	case "memory":
		return calendar.NewMemoryStore(), nil
	case "mongo":
		repo := eventsRepo.NewMongoEventRepo(database.Database())
		ictx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := repo.EnsureIndexes(ictx); err != nil {
			return nil, fmt.Errorf("bootstrap: event indexes: %w", err)
		}
		return repo, nil
	case "google", "":
		store, err := calendar.NewGoogleStore(ctx, cfg.CalendarID, cfg.GoogleCredentialsFile, cfg.GoogleCredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: google calendar: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown CALENDAR_BACKEND %q", cfg.CalendarBackend)
	}
}

// NewSlotFinder applies the configured search window and business hours.
func NewSlotFinder(cfg *config.Config) booking.SlotFinder {
	return booking.SlotFinder{
		DaysAhead: cfg.SearchDaysAhead,
		FirstHour: cfg.BusinessHourStart,
		LastHour:  cfg.BusinessHourEnd,
	}
}

// BuildScheduler assembles the orchestrator from its collaborators.
func BuildScheduler(cfg *config.Config, oracle ai.Oracle, store calendar.Store, logger *zap.Logger, metrics *utils.Metrics) *booking.Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &booking.Scheduler{
		Oracle:          oracle,
		Calendar:        store,
		Finder:          NewSlotFinder(cfg),
		DefaultLocation: cfg.DefaultLocation(),
		DefaultDuration: time.Duration(cfg.DefaultDurationMinutes) * time.Minute,
		Precheck:        cfg.PrecheckEnabled,
		OracleTimeout:   cfg.OracleTimeout(),
		CalendarTimeout: cfg.CalendarTimeout(),
		Logger:          logger.With(zap.String("component", "scheduler")),
		Metrics:         metrics,
	}
}
