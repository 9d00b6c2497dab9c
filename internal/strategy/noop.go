package strategy

import "context"

// Noop is a trivial fixture strategy used only by tests: it lets the
// controller/hook pipeline exercise something implementing Strategy
// without depending on a real backup plugin.
type Noop struct {
	EstimatedBytes int64
}

func (Noop) Name() string       { return "noop" }
func (Noop) Configspec() string { return "" }

func (n Noop) EstimateSize(ctx context.Context) (int64, error) {
	return n.EstimatedBytes, nil
}

func (Noop) Backup(ctx context.Context) error { return nil }

func (Noop) Release(ctx context.Context) error { return nil }
