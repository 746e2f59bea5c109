// File: services/calendar/memory.go
package calendar

import (
	"context"
	"sort"
	"sync"
	"time"

	"apptbot/models"

	"github.com/google/uuid"
)

const memoryLinkPrefix = "memory://events/"

// MemoryStore keeps events in process memory. Used by the CLI and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	events []models.CalendarEvent
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Seed adds an existing busy event without going through CreateEvent.
func (m *MemoryStore) Seed(summary string, start, end time.Time) {
	_, _ = m.CreateEvent(context.Background(), summary, start, end)
}

func (m *MemoryStore) ListBusyIntervals(ctx context.Context, start, end time.Time) ([]models.Interval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var busy []models.Interval
	for _, ev := range m.events {
		iv := models.Interval{Start: ev.Start, End: ev.End}
		if iv.Overlaps(start, end) {
			busy = append(busy, iv)
		}
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy, nil
}

func (m *MemoryStore) CreateEvent(ctx context.Context, summary string, start, end time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ev := models.CalendarEvent{
		ID:        uuid.New().String(),
		Summary:   summary,
		Start:     start,
		End:       end,
		Timezone:  models.ZoneLabel(start),
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()

	return memoryLinkPrefix + ev.ID, nil
}

// Events returns a copy of everything booked so far.
func (m *MemoryStore) Events() []models.CalendarEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.CalendarEvent, len(m.events))
	copy(out, m.events)
	return out
}
