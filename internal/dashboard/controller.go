package dashboard

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"hydrotrack-cloud/internal/ledger"
	"hydrotrack-cloud/internal/notify"
	"hydrotrack-cloud/internal/observability/metrics"
	"hydrotrack-cloud/internal/stations"
)

// ErrUnknownStation means a delivery action named a station outside the
// configured fleet.
var ErrUnknownStation = errors.New("dashboard: unknown station")

// RemoteState is the remote store surface the dashboard polls and signals.
type RemoteState interface {
	Racks(ctx context.Context, stationID string) (map[string]string, error)
	RequestFlag(ctx context.Context, stationID string) (bool, error)
	SetRequestFlag(ctx context.Context, stationID string, pending bool) error
	TriggerBuzzer(ctx context.Context, stationID string) error
}

// RackView is one rack with its derived status, in configured order.
type RackView struct {
	ID     string          `json:"id"`
	Status stations.Status `json:"status"`
}

// StationView is the rendered state of one station for the UI shell.
type StationView struct {
	ID          string     `json:"id"`
	Racks       []RackView `json:"racks"`
	EmptyCount  int        `json:"empty_count"`
	StockNeeded bool       `json:"stock_needed"`
}

// Snapshot is one full poll of the fleet.
type Snapshot struct {
	Stations []StationView `json:"stations"`
	PolledAt time.Time     `json:"polled_at"`
}

// DeliveryResult is the outcome of a notify-delivery action.
type DeliveryResult struct {
	Station  string `json:"station"`
	Recorded bool   `json:"recorded"`
	Bottles  int    `json:"bottles"`
}

// Controller orchestrates the poll-display-act cycle. Refresh and delivery
// actions are serialized on one mutex, so a tick never interleaves with an
// action; callers may invoke Refresh at any cadence.
type Controller struct {
	fleet    stations.Fleet
	remote   RemoteState
	store    ledger.Store
	notifier notify.Notifier
	clock    func() time.Time
	logger   *log.Logger

	mu     sync.Mutex
	latest *Snapshot
}

// Option configures the controller.
type Option func(*Controller)

// WithNotifier sets the stock-request notice sink.
func WithNotifier(notifier notify.Notifier) Option {
	return func(c *Controller) { c.notifier = notifier }
}

// WithClock overrides the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController constructs a controller.
func NewController(fleet stations.Fleet, remote RemoteState, store ledger.Store, opts ...Option) (*Controller, error) {
	if err := fleet.Validate(); err != nil {
		return nil, err
	}
	if remote == nil {
		return nil, errors.New("dashboard: nil remote state")
	}
	if store == nil {
		return nil, errors.New("dashboard: nil ledger store")
	}
	controller := &Controller{
		fleet:  fleet,
		remote: remote,
		store:  store,
		clock:  func() time.Time { return time.Now().UTC() },
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller, nil
}

// Refresh polls every configured station and caches the snapshot. A failing
// station degrades to Unknown racks and a false request flag; it never
// blocks the rest of the fleet.
func (c *Controller) Refresh(ctx context.Context) Snapshot {
	start := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		Stations: make([]StationView, 0, len(c.fleet)),
		PolledAt: start,
	}
	for _, station := range c.fleet {
		view := c.pollStation(ctx, station)
		if view.StockNeeded {
			// Read-then-reset is deliberately not atomic; hardware setting
			// the flag again inside the window re-raises on the next poll.
			if err := c.remote.SetRequestFlag(ctx, station.ID, false); err != nil {
				c.logger.Printf("reset request flag %s: %v", station.ID, err)
				metrics.IncRemoteWriteError("request")
			}
			metrics.IncStockRequest(station.ID)
			if c.notifier != nil {
				c.notifier.Notify(ctx, notify.Notice{Station: station.ID, ObservedAt: start})
			}
		}
		snapshot.Stations = append(snapshot.Stations, view)
	}

	c.latest = &snapshot
	metrics.ObservePoll(metrics.ResultSuccess, c.clock().Sub(start))
	return snapshot
}

// Latest returns the cached snapshot, polling first if none exists yet.
func (c *Controller) Latest(ctx context.Context) Snapshot {
	c.mu.Lock()
	cached := c.latest
	c.mu.Unlock()
	if cached != nil {
		return *cached
	}
	return c.Refresh(ctx)
}

// NotifyDelivery re-polls one station and, when it has empty racks, appends
// a delivery event for today and triggers the station buzzer. A zero empty
// count is an informational no-op: nothing is recorded, nothing buzzes.
// Ledger failures are returned to the caller; the delivery record is the one
// thing this core must not drop silently.
func (c *Controller) NotifyDelivery(ctx context.Context, operator, stationID string) (DeliveryResult, error) {
	if operator == "" {
		return DeliveryResult{}, ledger.ErrEmptyOperator
	}
	station, ok := c.fleet.Get(stationID)
	if !ok {
		return DeliveryResult{}, ErrUnknownStation
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	view := c.pollStation(ctx, station)
	result := DeliveryResult{Station: station.ID, Bottles: view.EmptyCount}
	if view.EmptyCount == 0 {
		return result, nil
	}

	event, err := ledger.NewDeliveryEvent(c.clock(), station.ID, view.EmptyCount)
	if err != nil {
		return DeliveryResult{}, err
	}
	start := c.clock()
	if err := c.store.Append(operator, event); err != nil {
		metrics.ObserveLedgerOp("append", metrics.ResultError, c.clock().Sub(start))
		return DeliveryResult{}, err
	}
	metrics.ObserveLedgerOp("append", metrics.ResultSuccess, c.clock().Sub(start))
	metrics.ObserveDelivery(station.ID, view.EmptyCount)

	if err := c.remote.TriggerBuzzer(ctx, station.ID); err != nil {
		c.logger.Printf("trigger buzzer %s: %v", station.ID, err)
		metrics.IncRemoteWriteError("buzzer")
	}

	result.Recorded = true
	return result, nil
}

// Summary loads the operator's ledger and buckets it per station relative
// to today.
func (c *Controller) Summary(operator string) (map[string]ledger.SalesSummary, error) {
	events, err := c.loadLedger(operator)
	if err != nil {
		return nil, err
	}
	return ledger.Summarize(events, c.clock(), c.fleet.IDs()), nil
}

// History loads the operator's ledger as a (day, station) series. Returns
// ledger.ErrNoHistory for an empty ledger.
func (c *Controller) History(operator string) ([]ledger.SeriesPoint, error) {
	events, err := c.loadLedger(operator)
	if err != nil {
		return nil, err
	}
	return ledger.HistorySeries(events)
}

// Ledger loads the operator's raw events in append order.
func (c *Controller) Ledger(operator string) ([]ledger.DeliveryEvent, error) {
	return c.loadLedger(operator)
}

// Fleet returns the configured stations.
func (c *Controller) Fleet() stations.Fleet { return c.fleet }

func (c *Controller) loadLedger(operator string) ([]ledger.DeliveryEvent, error) {
	if operator == "" {
		return nil, ledger.ErrEmptyOperator
	}
	start := c.clock()
	events, err := c.store.Load(operator)
	if err != nil {
		metrics.ObserveLedgerOp("load", metrics.ResultError, c.clock().Sub(start))
		return nil, err
	}
	metrics.ObserveLedgerOp("load", metrics.ResultSuccess, c.clock().Sub(start))
	return events, nil
}

// pollStation reads one station with decode-to-default semantics and derives
// its view. Caller holds the mutex.
func (c *Controller) pollStation(ctx context.Context, station stations.Station) StationView {
	statuses := stations.StatusMap(station, c.racksOrNone(ctx, station.ID))
	racks := make([]RackView, 0, len(station.Racks))
	for _, rack := range station.Racks {
		racks = append(racks, RackView{ID: rack, Status: statuses[rack]})
	}
	return StationView{
		ID:          station.ID,
		Racks:       racks,
		EmptyCount:  stations.CountEmpty(statuses),
		StockNeeded: c.requestOrFalse(ctx, station.ID),
	}
}

// racksOrNone reads rack values, defaulting to no readings on any failure
// so every configured rack folds to Unknown.
func (c *Controller) racksOrNone(ctx context.Context, stationID string) map[string]string {
	raw, err := c.remote.Racks(ctx, stationID)
	if err != nil {
		c.logger.Printf("read racks %s: %v", stationID, err)
		metrics.IncRemoteReadError("racks")
		return nil
	}
	return raw
}

// requestOrFalse reads the request flag, defaulting to false on any failure.
func (c *Controller) requestOrFalse(ctx context.Context, stationID string) bool {
	flag, err := c.remote.RequestFlag(ctx, stationID)
	if err != nil {
		c.logger.Printf("read request flag %s: %v", stationID, err)
		metrics.IncRemoteReadError("request")
		return false
	}
	return flag
}
