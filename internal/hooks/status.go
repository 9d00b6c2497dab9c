package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// status writes a small .holland/status file recording a backup's
// lifecycle, so LoadBackupFromNode can recover the outcome of a backup
// whose catalog row was never written (e.g. process killed before the
// controller could save it).
type status struct {
	base
}

func NewStatusHook() *status {
	return &status{base: base{name: "status", priority: 0}}
}

func (h *status) Handle(event string) error {
	switch event {
	case EventBeforeBackup:
		return h.write("running", time.Now())
	case EventCompletedBackup:
		return h.write("completed", time.Now())
	case EventFailedBackup:
		return h.write("failed", time.Now())
	}
	return nil
}

func (h *status) write(state string, when time.Time) error {
	if h.hc.Node == nil {
		return nil
	}
	path := filepath.Join(h.hc.Node.Path, ".holland", "status")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "[holland:backup]\n")
	fmt.Fprintf(f, "status = %s\n", state)
	fmt.Fprintf(f, "stop-time = %s\n", when.Format(time.RFC3339))
	if h.hc.Backup != nil {
		fmt.Fprintf(f, "start-time = %s\n", h.hc.Backup.StartTime.Format(time.RFC3339))
		fmt.Fprintf(f, "job-id = %d\n", h.hc.Backup.JobID)
		fmt.Fprintf(f, "backup-id = %s\n", h.hc.Backup.ExternalID)
	}
	return nil
}

func init() {
	Register("status", 0, func(string) Hook {
		return NewStatusHook()
	})
}
