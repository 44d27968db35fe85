package adapter

import "context"

// OpsNotifier delivers operational alerts (payment confirmed/failed,
// reconciler anomalies) to whoever runs the marketplace. Failures are
// logged and never propagated into business flows.
type OpsNotifier interface {
	Notify(ctx context.Context, text string) error
}
