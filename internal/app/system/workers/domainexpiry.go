// internal/app/system/workers/domainexpiry.go
package workers

import (
	"context"
	"sync"
	"time"

	domainstore "github.com/dalemusser/hostpro/internal/app/store/domains"
	"github.com/dalemusser/hostpro/internal/app/system/metrics"
	"github.com/dalemusser/hostpro/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// DomainExpiry is a background worker that periodically looks for domains
// about to lapse, logs each one and publishes the count as a gauge.
type DomainExpiry struct {
	domains  *domainstore.Store
	log      *zap.Logger
	interval time.Duration
	days     int
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewDomainExpiry creates a new expiry worker.
//
// Parameters:
//   - domains: the domains store
//   - logger: zap logger for logging
//   - interval: how often to scan (e.g., 1 hour)
//   - days: how far ahead a domain counts as expiring (e.g., 30)
func NewDomainExpiry(domains *domainstore.Store, logger *zap.Logger, interval time.Duration, days int) *DomainExpiry {
	return &DomainExpiry{
		domains:  domains,
		log:      logger,
		interval: interval,
		days:     days,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one scan immediately and then one per interval.
func (w *DomainExpiry) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("domain expiry worker started",
		zap.Duration("interval", w.interval),
		zap.Int("days", w.days))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *DomainExpiry) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("domain expiry worker stopped")
}

func (w *DomainExpiry) run() {
	defer w.wg.Done()

	w.Scan(context.Background())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan(context.Background())
		}
	}
}

// Scan performs a single pass and returns the number of expiring domains,
// or -1 when the query failed.
func (w *DomainExpiry) Scan(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	domains, err := w.domains.Expiring(ctx, w.now(), w.days)
	if err != nil {
		w.log.Error("failed to scan expiring domains", zap.Error(err))
		return -1
	}

	for _, d := range domains {
		w.log.Warn("domain expiring soon",
			zap.String("domain", d.Name),
			zap.Time("expiry_date", d.ExpiryDate),
			zap.Bool("auto_renew", d.AutoRenew))
	}
	metrics.SetDomainsExpiring(len(domains))
	return len(domains)
}
