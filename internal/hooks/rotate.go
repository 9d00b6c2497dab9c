package hooks

import "github.com/holland-backup/holland/internal/config"

// rotatePurgePolicy names when retention purge runs relative to the
// backup it's attached to.
const (
	PurgeBeforeBackup = "before-backup"
	PurgeAfterBackup  = "after-backup"
)

// rotate triggers the controller's retention purge at the configured
// point in a backup's lifecycle.
type rotate struct {
	base
	Policy string
}

func NewRotateHook(policy string) *rotate {
	if policy == "" {
		policy = PurgeAfterBackup
	}
	return &rotate{
		base:   base{name: "rotate-backups", priority: 0},
		Policy: policy,
	}
}

// Bind reads the bound backup's own purge-policy setting, overriding
// the constructor default: a single registered instance serves every
// backupset, each of which may configure when it purges.
func (h *rotate) Bind(hc Context) {
	h.base.Bind(hc)
	if hc.Config == nil {
		return
	}
	backupSection, ok := hc.Config.Get("holland:backup").(*config.Tree)
	if !ok {
		return
	}
	if policy := backupSection.GetString("purge-policy"); policy != "" {
		h.Policy = policy
	}
}

func (h *rotate) Handle(event string) error {
	if h.hc.DryRun || h.hc.Purge == nil {
		return nil
	}
	switch {
	case event == EventBeforeBackup && h.Policy == PurgeBeforeBackup:
		return h.hc.Purge()
	case event == EventCompletedBackup && h.Policy == PurgeAfterBackup:
		return h.hc.Purge()
	}
	return nil
}

func init() {
	Register("rotate-backups", 0, func(string) Hook {
		return NewRotateHook("")
	})
}
