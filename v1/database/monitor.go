package database

import (
	"context"
	"time"
)

const probeTimeout = 5 * time.Second

// MonitorConnection probes every pool once immediately and then on every tick
// of the monitor interval, reporting results to the HealthReporter. It returns
// when ctx is done or the Database is closed.
func (d *Database) MonitorConnection(ctx context.Context) {
	ticker := time.NewTicker(d.monitorInterval)
	defer ticker.Stop()

	d.checkHealth(ctx)
	for {
		select {
		case <-d.shutdownSignal:
			d.logger.Info("Stopping MonitorConnection loop due to shutdown signal", nil)
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.checkHealth(ctx)
		}
	}
}

func (d *Database) checkHealth(ctx context.Context) {
	for _, t := range d.router.Targets() {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		connected := d.probe(probeCtx, t)
		cancel()

		if d.health != nil {
			d.health.SetConnected(t.Name, connected)
		}
	}
}
