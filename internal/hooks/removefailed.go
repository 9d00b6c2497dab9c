package hooks

import "os"

// removefailed deletes a backup node's directory as soon as its backup
// fails, so a broken partial backup never lingers in the spool looking
// like a usable one.
type removefailed struct {
	base
}

func NewRemoveFailedHook() *removefailed {
	return &removefailed{base: base{name: "removefailed", priority: 100}}
}

func (h *removefailed) Handle(event string) error {
	if event != EventFailedBackup || h.hc.Node == nil {
		return nil
	}
	h.hc.Logger.Warn("removing failed backup", "path", h.hc.Node.Path)
	return os.RemoveAll(h.hc.Node.Path)
}

func init() {
	Register("removefailed", 100, func(string) Hook {
		return NewRemoveFailedHook()
	})
}
