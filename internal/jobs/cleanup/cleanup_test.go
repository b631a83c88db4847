package cleanup

import (
	"context"
	"testing"
	"time"
)

type fakeSessionPurger struct {
	expired int64
	calls   int
}

func (f *fakeSessionPurger) DeleteExpired(_ context.Context) (int64, error) {
	f.calls++
	deleted := f.expired
	f.expired = 0
	return deleted, nil
}

type openTrip struct {
	startedAt time.Time
}

type fakeTripPurger struct {
	trips []openTrip
}

func (f *fakeTripPurger) DeleteStaleOpen(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []openTrip
	var deleted int64
	for _, trip := range f.trips {
		if trip.startedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, trip)
	}
	f.trips = kept
	return deleted, nil
}

func TestRunPurgesExpiredSessions(t *testing.T) {
	sessions := &fakeSessionPurger{expired: 3}
	job := New(sessions, nil)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}
	if sessions.calls != 1 {
		t.Fatalf("DeleteExpired called %d times, want 1", sessions.calls)
	}
}

func TestRunPurgesStaleOpenTrips(t *testing.T) {
	now := time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)

	trips := &fakeTripPurger{trips: []openTrip{
		{startedAt: now.Add(-30 * time.Hour)},
		{startedAt: now.Add(-2 * time.Hour)},
	}}

	job := New(&fakeSessionPurger{}, nil)
	job.now = func() time.Time { return now }
	job.AttachStaleTripCleanup(trips, 24*time.Hour)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	if len(trips.trips) != 1 {
		t.Fatalf("kept %d open trips, want 1", len(trips.trips))
	}
	if trips.trips[0].startedAt != now.Add(-2*time.Hour) {
		t.Fatal("fresh open trip must survive cleanup")
	}
}
