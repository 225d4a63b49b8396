// Package metrics defines the Prometheus collectors for signing, seed
// import and keystore traffic. They live on a package registry that the
// development keystore serves over HTTP.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zomesigner"

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// Registry holds every collector in this package.
	Registry = prometheus.NewRegistry()

	callsSigned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_signed_total",
		Help:      "Zome calls passed to the signer, by result.",
	}, []string{"result"})

	seedsImported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seeds_imported_total",
		Help:      "Locked seed bundle imports, by result.",
	}, []string{"result"})

	keystoreRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "keystore_requests_total",
		Help:      "Keystore primitive requests, by method and result.",
	}, []string{"method", "result"})

	keystoreSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "keystore_request_seconds",
		Help:      "Keystore primitive latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"method"})
)

func init() {
	Registry.MustRegister(callsSigned, seedsImported, keystoreRequests, keystoreSeconds)
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveSign counts one signer outcome.
func ObserveSign(err error) { callsSigned.WithLabelValues(Result(err)).Inc() }

// ObserveImport counts one importer outcome.
func ObserveImport(err error) { seedsImported.WithLabelValues(Result(err)).Inc() }

// ObserveKeystoreRequest records one keystore primitive.
func ObserveKeystoreRequest(method string, elapsed time.Duration, err error) {
	keystoreRequests.WithLabelValues(method, Result(err)).Inc()
	keystoreSeconds.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
