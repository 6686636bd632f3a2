package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hydrotrack-cloud/internal/ledger"
	ledgermemory "hydrotrack-cloud/internal/ledger/memory"
	"hydrotrack-cloud/internal/notify"
	"hydrotrack-cloud/internal/stations"
)

type flagWrite struct {
	station string
	pending bool
}

type stubRemote struct {
	mu         sync.Mutex
	racks      map[string]map[string]string
	racksErr   error
	requests   map[string]bool
	requestErr error
	flagWrites []flagWrite
	buzzed     []string
	buzzErr    error
}

func (s *stubRemote) Racks(_ context.Context, stationID string) (map[string]string, error) {
	if s.racksErr != nil {
		return nil, s.racksErr
	}
	return s.racks[stationID], nil
}

func (s *stubRemote) RequestFlag(_ context.Context, stationID string) (bool, error) {
	if s.requestErr != nil {
		return false, s.requestErr
	}
	return s.requests[stationID], nil
}

func (s *stubRemote) SetRequestFlag(_ context.Context, stationID string, pending bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flagWrites = append(s.flagWrites, flagWrite{station: stationID, pending: pending})
	if s.requests == nil {
		s.requests = make(map[string]bool)
	}
	s.requests[stationID] = pending
	return nil
}

func (s *stubRemote) TriggerBuzzer(_ context.Context, stationID string) error {
	if s.buzzErr != nil {
		return s.buzzErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buzzed = append(s.buzzed, stationID)
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func (n *recordingNotifier) Notify(_ context.Context, notice notify.Notice) {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	n.mu.Unlock()
}

func fixedClock(value string) func() time.Time {
	parsed, _ := time.ParseInLocation("2006-01-02", value, time.UTC)
	return func() time.Time { return parsed }
}

func newTestController(t *testing.T, remote RemoteState, store ledger.Store, opts ...Option) *Controller {
	t.Helper()
	opts = append(opts, WithClock(fixedClock("2026-08-31")))
	controller, err := NewController(stations.DefaultFleet(), remote, store, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return controller
}

func TestRefreshDerivesStatuses(t *testing.T) {
	remote := &stubRemote{
		racks: map[string]map[string]string{
			"Station1": {"rack_1": "1", "rack_2": "0", "rack_3": "junk"},
		},
	}
	controller := newTestController(t, remote, ledgermemory.NewStore())

	snapshot := controller.Refresh(context.Background())
	if len(snapshot.Stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(snapshot.Stations))
	}

	station1 := snapshot.Stations[0]
	if station1.ID != "Station1" {
		t.Fatalf("expected Station1 first, got %s", station1.ID)
	}
	if station1.EmptyCount != 1 {
		t.Fatalf("expected 1 empty rack, got %d", station1.EmptyCount)
	}
	want := []stations.Status{stations.StatusFull, stations.StatusEmpty, stations.StatusUnknown, stations.StatusUnknown}
	for i, rack := range station1.Racks {
		if rack.Status != want[i] {
			t.Fatalf("rack %s: expected %s, got %s", rack.ID, want[i], rack.Status)
		}
	}

	// Station2 has no remote data at all.
	station2 := snapshot.Stations[1]
	if station2.EmptyCount != 0 {
		t.Fatalf("expected 0 empty racks for Station2, got %d", station2.EmptyCount)
	}
	for _, rack := range station2.Racks {
		if rack.Status != stations.StatusUnknown {
			t.Fatalf("rack %s: expected Unknown, got %s", rack.ID, rack.Status)
		}
	}
}

func TestRefreshRemoteFailureFailsOpen(t *testing.T) {
	remote := &stubRemote{
		racksErr:   errors.New("store unreachable"),
		requestErr: errors.New("store unreachable"),
	}
	controller := newTestController(t, remote, ledgermemory.NewStore())

	snapshot := controller.Refresh(context.Background())
	for _, station := range snapshot.Stations {
		if station.EmptyCount != 0 {
			t.Fatalf("expected 0 empty racks on failure, got %d", station.EmptyCount)
		}
		if station.StockNeeded {
			t.Fatal("expected no stock notice on failure")
		}
		for _, rack := range station.Racks {
			if rack.Status != stations.StatusUnknown {
				t.Fatalf("expected Unknown on failure, got %s", rack.Status)
			}
		}
	}
}

func TestRefreshReadsAndResetsRequestFlag(t *testing.T) {
	remote := &stubRemote{
		requests: map[string]bool{"Station1": true},
	}
	notifier := &recordingNotifier{}
	controller := newTestController(t, remote, ledgermemory.NewStore(), WithNotifier(notifier))

	snapshot := controller.Refresh(context.Background())
	if !snapshot.Stations[0].StockNeeded {
		t.Fatal("expected Station1 stock notice")
	}
	if snapshot.Stations[1].StockNeeded {
		t.Fatal("expected no Station2 stock notice")
	}
	if len(remote.flagWrites) != 1 || remote.flagWrites[0] != (flagWrite{station: "Station1", pending: false}) {
		t.Fatalf("expected one flag reset for Station1, got %+v", remote.flagWrites)
	}
	if len(notifier.notices) != 1 || notifier.notices[0].Station != "Station1" {
		t.Fatalf("expected one notice for Station1, got %+v", notifier.notices)
	}

	// Next poll sees the cleared flag; no new notice.
	snapshot = controller.Refresh(context.Background())
	if snapshot.Stations[0].StockNeeded {
		t.Fatal("expected cleared flag on second poll")
	}
	if len(notifier.notices) != 1 {
		t.Fatalf("expected no extra notice, got %d", len(notifier.notices))
	}
}

func TestNotifyDeliveryRecordsAndBuzzes(t *testing.T) {
	remote := &stubRemote{
		racks: map[string]map[string]string{
			"Station1": {"rack_1": "0", "rack_2": "0", "rack_3": "0", "rack_4": "1"},
		},
	}
	store := ledgermemory.NewStore()
	controller := newTestController(t, remote, store)

	result, err := controller.NotifyDelivery(context.Background(), "Juan Dela Cruz", "Station1")
	if err != nil {
		t.Fatalf("notify delivery: %v", err)
	}
	if !result.Recorded || result.Bottles != 3 {
		t.Fatalf("expected recorded delivery of 3, got %+v", result)
	}
	if len(remote.buzzed) != 1 || remote.buzzed[0] != "Station1" {
		t.Fatalf("expected Station1 buzzer trigger, got %v", remote.buzzed)
	}

	events, err := store.Load("Juan Dela Cruz")
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Station != "Station1" || events[0].Bottles != 3 {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	if !events[0].Date.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected today's date, got %v", events[0].Date)
	}
}

func TestNotifyDeliveryNoEmptyRacksIsNoOp(t *testing.T) {
	remote := &stubRemote{
		racks: map[string]map[string]string{
			"Station1": {"rack_1": "1", "rack_2": "1", "rack_3": "1", "rack_4": "1"},
		},
	}
	store := ledgermemory.NewStore()
	controller := newTestController(t, remote, store)

	before, _ := controller.Summary("Juan Dela Cruz")

	result, err := controller.NotifyDelivery(context.Background(), "Juan Dela Cruz", "Station1")
	if err != nil {
		t.Fatalf("notify delivery: %v", err)
	}
	if result.Recorded || result.Bottles != 0 {
		t.Fatalf("expected informational no-op, got %+v", result)
	}
	if len(remote.buzzed) != 0 {
		t.Fatalf("expected no buzzer trigger, got %v", remote.buzzed)
	}

	after, err := controller.Summary("Juan Dela Cruz")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for station := range after {
		if after[station] != before[station] {
			t.Fatalf("expected unchanged summary for %s", station)
		}
	}
}

func TestNotifyDeliveryNoRemoteDataIsNoOp(t *testing.T) {
	controller := newTestController(t, &stubRemote{}, ledgermemory.NewStore())

	result, err := controller.NotifyDelivery(context.Background(), "Juan Dela Cruz", "Station2")
	if err != nil {
		t.Fatalf("notify delivery: %v", err)
	}
	if result.Recorded {
		t.Fatalf("expected no-op with all racks Unknown, got %+v", result)
	}
}

func TestNotifyDeliveryUnknownStation(t *testing.T) {
	controller := newTestController(t, &stubRemote{}, ledgermemory.NewStore())
	if _, err := controller.NotifyDelivery(context.Background(), "Juan Dela Cruz", "Station9"); !errors.Is(err, ErrUnknownStation) {
		t.Fatalf("expected ErrUnknownStation, got %v", err)
	}
}

type failingStore struct{}

func (failingStore) Load(string) ([]ledger.DeliveryEvent, error) {
	return nil, errors.New("disk gone")
}

func (failingStore) Append(string, ledger.DeliveryEvent) error {
	return errors.New("disk gone")
}

func TestNotifyDeliveryLedgerFailureSurfaces(t *testing.T) {
	remote := &stubRemote{
		racks: map[string]map[string]string{
			"Station1": {"rack_1": "0"},
		},
	}
	controller := newTestController(t, remote, failingStore{})

	if _, err := controller.NotifyDelivery(context.Background(), "Juan Dela Cruz", "Station1"); err == nil {
		t.Fatal("expected ledger failure to surface")
	}
	if len(remote.buzzed) != 0 {
		t.Fatal("expected no buzzer when the record was not written")
	}
}

func TestSummaryAndHistoryThroughController(t *testing.T) {
	remote := &stubRemote{
		racks: map[string]map[string]string{
			"Station1": {"rack_1": "0", "rack_2": "0"},
		},
	}
	store := ledgermemory.NewStore()
	controller := newTestController(t, remote, store)

	if _, err := controller.History("Juan Dela Cruz"); !errors.Is(err, ledger.ErrNoHistory) {
		t.Fatal("expected ErrNoHistory on fresh ledger")
	}

	if _, err := controller.NotifyDelivery(context.Background(), "Juan Dela Cruz", "Station1"); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	remote.racks["Station1"] = map[string]string{"rack_1": "0", "rack_2": "0", "rack_3": "0"}
	if _, err := controller.NotifyDelivery(context.Background(), "Juan Dela Cruz", "Station1"); err != nil {
		t.Fatalf("second delivery: %v", err)
	}

	summary, err := controller.Summary("Juan Dela Cruz")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary["Station1"].Daily != 5 {
		t.Fatalf("expected daily 5, got %d", summary["Station1"].Daily)
	}

	events, err := store.Load("Juan Dela Cruz")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 distinct rows, got %d", len(events))
	}

	points, err := controller.History("Juan Dela Cruz")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(points) != 1 || points[0].Bottles != 5 {
		t.Fatalf("expected one grouped point of 5 bottles, got %+v", points)
	}
}
