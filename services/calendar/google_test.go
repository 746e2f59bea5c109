package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestGoogleStore(t *testing.T, handler http.HandlerFunc) *GoogleStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewGoogleStore(context.Background(), "team", "", "",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication(), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return store
}

func TestGoogleStore_ListBusyIntervals(t *testing.T) {
	var gotQuery string
	store := newTestGoogleStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(gcal.Events{Items: []*gcal.Event{
			{Id: "a", Start: &gcal.EventDateTime{DateTime: "2024-06-11T09:00:00Z"}, End: &gcal.EventDateTime{DateTime: "2024-06-11T10:00:00Z"}},
			{Id: "b", Status: "cancelled", Start: &gcal.EventDateTime{DateTime: "2024-06-11T11:00:00Z"}, End: &gcal.EventDateTime{DateTime: "2024-06-11T12:00:00Z"}},
			{Id: "c", Transparency: "transparent", Start: &gcal.EventDateTime{DateTime: "2024-06-11T13:00:00Z"}, End: &gcal.EventDateTime{DateTime: "2024-06-11T14:00:00Z"}},
			{Id: "d", Start: &gcal.EventDateTime{Date: "2024-06-12"}, End: &gcal.EventDateTime{Date: "2024-06-13"}},
		}})
	})

	start := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)
	busy, err := store.ListBusyIntervals(context.Background(), start, start.Add(72*time.Hour))
	require.NoError(t, err)

	require.Len(t, busy, 2)
	assert.Equal(t, time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC), busy[0].Start.UTC())
	assert.Equal(t, time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), busy[1].Start)
	assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), busy[1].End)
	assert.True(t, strings.Contains(gotQuery, "singleEvents=true"))
}

func TestGoogleStore_CreateEvent(t *testing.T) {
	var got gcal.Event
	store := newTestGoogleStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(gcal.Event{Id: "new", HtmlLink: "https://calendar.example/event?eid=new"})
	})

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	start := time.Date(2024, 6, 11, 16, 0, 0, 0, ny)

	link, err := store.CreateEvent(context.Background(), "Sync with Alex", start, start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "https://calendar.example/event?eid=new", link)
	assert.Equal(t, "Sync with Alex", got.Summary)
	assert.Equal(t, "2024-06-11T16:00:00-04:00", got.Start.DateTime)
	assert.Equal(t, "America/New_York", got.Start.TimeZone)
	assert.Equal(t, "2024-06-11T16:30:00-04:00", got.End.DateTime)
}

func TestGoogleStore_ListError(t *testing.T) {
	store := newTestGoogleStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":400,"message":"boom"}}`, http.StatusBadRequest)
	})

	_, err := store.ListBusyIntervals(context.Background(), time.Now(), time.Now().Add(time.Hour))
	assert.Error(t, err)
}

func TestNewGoogleStore_RequiresCredentials(t *testing.T) {
	_, err := NewGoogleStore(context.Background(), "", "", "")
	assert.Error(t, err)
}
