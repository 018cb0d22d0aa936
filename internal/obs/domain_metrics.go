package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteMutationsTotal counts quote collection mutations by operation.
	QuoteMutationsTotal *prometheus.CounterVec
	// PurchaseMessagesTotal counts purchase-message compositions by outcome.
	PurchaseMessagesTotal *prometheus.CounterVec
	// ImportRowsTotal counts spreadsheet import rows by entity and outcome.
	ImportRowsTotal *prometheus.CounterVec
	// CacheRequestsTotal counts cache lookups by cache name and outcome.
	CacheRequestsTotal *prometheus.CounterVec
	// CashClosingsTotal counts registered cash-register closings.
	CashClosingsTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_mutations_total",
			Help:      "Count of quote create/update/delete/clear operations.",
		}, []string{"op"})
		PurchaseMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_messages_total",
			Help:      "Count of purchase-message compositions by outcome.",
		}, []string{"result"})
		ImportRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Count of spreadsheet import rows by entity and outcome.",
		}, []string{"entity", "result"})
		CacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Count of cache lookups by cache name and outcome.",
		}, []string{"cache", "result"})
		CashClosingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cash_closings_total",
			Help:      "Count of cash-register closings registered.",
		})

		for _, c := range []prometheus.Collector{
			QuoteMutationsTotal, PurchaseMessagesTotal, ImportRowsTotal, CacheRequestsTotal, CashClosingsTotal,
		} {
			if err := reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(fmt.Errorf("register domain metric: %w", err))
				}
			}
		}
	})
}
