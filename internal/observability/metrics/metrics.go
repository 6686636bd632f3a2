package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "hydrotrack_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	pollTotal   *prometheus.CounterVec
	pollLatency *prometheus.HistogramVec

	remoteReadErrors  *prometheus.CounterVec
	remoteWriteErrors *prometheus.CounterVec

	stockRequestsTotal *prometheus.CounterVec

	deliveriesTotal  *prometheus.CounterVec
	bottlesDelivered *prometheus.CounterVec

	ledgerOpsTotal  *prometheus.CounterVec
	ledgerOpLatency *prometheus.HistogramVec

	exportsTotal *prometheus.CounterVec
)

// Init registers observability metrics.
func Init() {
	registerOnce.Do(func() {
		pollTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "poll_total",
				Help: "Total dashboard poll cycles by result",
			},
			[]string{"result"},
		)
		pollLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "poll_latency_seconds",
				Help:    "Dashboard poll cycle latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		remoteReadErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "remote_read_errors_total",
				Help: "Remote store read failures by field",
			},
			[]string{"field"},
		)
		remoteWriteErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "remote_write_errors_total",
				Help: "Remote store write failures by field",
			},
			[]string{"field"},
		)

		stockRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "stock_requests_total",
				Help: "Stock-request flags observed by station",
			},
			[]string{"station"},
		)

		deliveriesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "deliveries_total",
				Help: "Recorded delivery actions by station",
			},
			[]string{"station"},
		)
		bottlesDelivered = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "bottles_delivered_total",
				Help: "Bottles recorded as delivered by station",
			},
			[]string{"station"},
		)

		ledgerOpsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ledger_ops_total",
				Help: "Ledger store operations by op and result",
			},
			[]string{"op", "result"},
		)
		ledgerOpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ledger_op_latency_seconds",
				Help:    "Ledger store operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "result"},
		)

		exportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ledger_exports_total",
				Help: "Ledger export operations by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			pollTotal,
			pollLatency,
			remoteReadErrors,
			remoteWriteErrors,
			stockRequestsTotal,
			deliveriesTotal,
			bottlesDelivered,
			ledgerOpsTotal,
			ledgerOpLatency,
			exportsTotal,
		)
	})
}

// ObservePoll records one poll cycle.
func ObservePoll(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if pollTotal != nil {
		pollTotal.WithLabelValues(result).Inc()
	}
	if pollLatency != nil {
		pollLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncRemoteReadError counts one degraded remote read.
func IncRemoteReadError(field string) {
	if field == "" {
		field = "unknown"
	}
	if remoteReadErrors != nil {
		remoteReadErrors.WithLabelValues(field).Inc()
	}
}

// IncRemoteWriteError counts one dropped remote write.
func IncRemoteWriteError(field string) {
	if field == "" {
		field = "unknown"
	}
	if remoteWriteErrors != nil {
		remoteWriteErrors.WithLabelValues(field).Inc()
	}
}

// IncStockRequest counts one observed stock-request flag.
func IncStockRequest(station string) {
	if station == "" {
		station = "unknown"
	}
	if stockRequestsTotal != nil {
		stockRequestsTotal.WithLabelValues(station).Inc()
	}
}

// ObserveDelivery records one recorded delivery.
func ObserveDelivery(station string, bottles int) {
	if station == "" {
		station = "unknown"
	}
	if deliveriesTotal != nil {
		deliveriesTotal.WithLabelValues(station).Inc()
	}
	if bottlesDelivered != nil && bottles > 0 {
		bottlesDelivered.WithLabelValues(station).Add(float64(bottles))
	}
}

// ObserveLedgerOp records a ledger store operation.
func ObserveLedgerOp(op, result string, duration time.Duration) {
	if op == "" {
		op = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if ledgerOpsTotal != nil {
		ledgerOpsTotal.WithLabelValues(op, result).Inc()
	}
	if ledgerOpLatency != nil {
		ledgerOpLatency.WithLabelValues(op, result).Observe(duration.Seconds())
	}
}

// IncExport counts one ledger export.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportsTotal != nil {
		exportsTotal.WithLabelValues(format, result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
