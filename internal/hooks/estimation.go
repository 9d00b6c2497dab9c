package hooks

import (
	"fmt"

	"github.com/holland-backup/holland/internal/config"
	"github.com/holland-backup/holland/internal/strategy"
)

// EstimationError reports insufficient free space on the spool before a
// backup starts.
type EstimationError struct {
	Available int64
	Required  int64
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("not enough free space available (available=%d, required=%d)", e.Available, e.Required)
}

// estimation checks that the spool has enough free space for the
// upcoming backup and records the estimate for later size reporting.
// It reads its configuration (adjust-by-percent) and free-space probe
// (Capacity) from the bound Context rather than from its own
// constructor, since a single registered instance serves every
// backupset.
type estimation struct {
	base
}

func NewEstimationHook() *estimation {
	return &estimation{base: base{name: "estimation", priority: 50}}
}

func (h *estimation) Handle(event string) error {
	switch event {
	case EventBeforeBackup:
		return h.beforeBackup()
	case EventFailedBackup, EventCompletedBackup:
		return h.updateBackupSize()
	}
	return nil
}

func (h *estimation) beforeBackup() error {
	est, ok := h.hc.Strategy.(strategy.Estimator)
	if !ok {
		return nil
	}
	estimatedBytes, err := est.EstimateSize(h.hc.Ctx)
	if err != nil {
		return err
	}

	factor := 1.0
	if h.hc.Config != nil {
		if backupSection, ok := h.hc.Config.Get("holland:backup").(*config.Tree); ok {
			if pct, ok := backupSection.Get("estimated-size-adjust-by-percent").(float64); ok && pct != 0 {
				factor = pct
			}
		}
	}
	adjusted := int64(float64(estimatedBytes) * factor)

	if h.hc.Capacity == nil {
		if h.hc.Backup != nil {
			h.hc.Backup.EstimatedSize = &estimatedBytes
		}
		return nil
	}
	available, err := h.hc.Capacity()
	if err != nil {
		// A capacity check failure is treated as non-fatal: warn and let
		// the backup proceed rather than block on an unreadable mount.
		h.hc.Logger.Warn("estimation: could not determine free space, skipping check", "error", err)
		if h.hc.Backup != nil {
			h.hc.Backup.EstimatedSize = &estimatedBytes
		}
		return nil
	}
	if int64(available) < adjusted {
		return &EstimationError{Available: int64(available), Required: adjusted}
	}

	if h.hc.Backup != nil {
		h.hc.Backup.EstimatedSize = &estimatedBytes
	}
	return nil
}

func (h *estimation) updateBackupSize() error {
	if h.hc.Backup == nil || h.hc.Backup.RealSize != nil {
		return nil
	}
	if h.hc.Node == nil {
		return nil
	}
	size, err := h.hc.Node.Size()
	if err != nil {
		return nil
	}
	h.hc.Backup.RealSize = &size
	return nil
}

func init() {
	Register("estimation", 50, func(string) Hook {
		return NewEstimationHook()
	})
}
