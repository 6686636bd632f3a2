package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Notice is a stock-request signal observed for a station.
type Notice struct {
	Station    string    `json:"station"`
	ObservedAt time.Time `json:"observed_at"`
}

// Message renders the operator-facing notice text.
func (n Notice) Message() string {
	return fmt.Sprintf("%s: stock of water gallons needed, please deliver", n.Station)
}

// Notifier consumes stock-request notices. Delivery is best-effort; a missed
// notice is re-raised on the next poll while the flag stays set.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// MultiNotifier fans a notice out to several notifiers.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier constructs a fan-out notifier.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Notify implements Notifier.
func (m *MultiNotifier) Notify(ctx context.Context, notice Notice) {
	if m == nil {
		return
	}
	for _, notifier := range m.notifiers {
		if notifier != nil {
			notifier.Notify(ctx, notice)
		}
	}
}

// StockNotifier pushes stock-request notices to a channel, with a per-station
// cooldown so a flag held high by the hardware does not flood the channel.
type StockNotifier struct {
	channel  Channel
	cooldown time.Duration

	mu       sync.Mutex
	lastSent map[string]time.Time
}

// StockOption configures the stock notifier.
type StockOption func(*StockNotifier)

// WithCooldown sets the minimum interval between notices per station.
func WithCooldown(cooldown time.Duration) StockOption {
	return func(n *StockNotifier) {
		if cooldown > 0 {
			n.cooldown = cooldown
		}
	}
}

// NewStockNotifier constructs a stock notifier.
func NewStockNotifier(channel Channel, opts ...StockOption) (*StockNotifier, error) {
	if channel == nil {
		return nil, errors.New("notify: nil channel")
	}
	notifier := &StockNotifier{
		channel:  channel,
		lastSent: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(notifier)
	}
	return notifier, nil
}

// Notify implements Notifier. Send failures are dropped silently.
func (n *StockNotifier) Notify(ctx context.Context, notice Notice) {
	if n == nil || notice.Station == "" {
		return
	}
	observed := notice.ObservedAt
	if observed.IsZero() {
		observed = time.Now()
	}
	if n.cooldown > 0 {
		n.mu.Lock()
		last, ok := n.lastSent[notice.Station]
		if ok && observed.Sub(last) < n.cooldown {
			n.mu.Unlock()
			return
		}
		n.lastSent[notice.Station] = observed
		n.mu.Unlock()
	}
	_ = n.channel.Send(ctx, notice.Message())
}
