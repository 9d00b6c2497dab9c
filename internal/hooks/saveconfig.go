package hooks

import (
	"fmt"
	"os"
	"path/filepath"
)

const configMetadataName = "config"

// saveconfig writes the resolved backupset configuration into the
// node's .holland metadata directory, so a later audit can see exactly
// what configuration produced a given backup.
type saveconfig struct {
	base
}

func NewSaveConfigHook() *saveconfig {
	return &saveconfig{base: base{name: "saveconfig", priority: 0}}
}

func (h *saveconfig) Handle(event string) error {
	switch event {
	case EventBeforeBackup, EventAfterBackup:
		return h.writeConfig()
	}
	return nil
}

func (h *saveconfig) writeConfig() error {
	if h.hc.Node == nil || h.hc.Config == nil {
		return nil
	}
	dst := filepath.Join(h.hc.Node.Path, ".holland", configMetadataName)
	tmp := dst + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("saveconfig: %w", err)
	}
	if _, err := fmt.Fprint(f, h.hc.Config.String()); err != nil {
		f.Close()
		return fmt.Errorf("saveconfig: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("saveconfig: %w", err)
	}
	return os.Rename(tmp, dst)
}

func init() {
	Register("saveconfig", 0, func(string) Hook {
		return NewSaveConfigHook()
	})
}
