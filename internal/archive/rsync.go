package archive

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/holland-backup/holland/internal/stream"
)

// RsyncConfig is the bound `[rsync]` configspec section.
type RsyncConfig struct {
	AdditionalArgs []string
}

// RsyncArchiver invokes the rsync binary per path. It ignores the
// compression config: rsync manages its own destination format.
type RsyncArchiver struct {
	Config RsyncConfig
	Logger *slog.Logger
}

func NewRsyncArchiver(cfg RsyncConfig, logger *slog.Logger) *RsyncArchiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &RsyncArchiver{Config: cfg, Logger: logger}
}

// Terminate does nothing: a running rsync child is not signalled and
// runs to completion.
func (r *RsyncArchiver) Terminate(signal int) {}

func (r *RsyncArchiver) Archive(paths []PathSpec, dstdir string, _ stream.CompressionConfig) error {
	logPath := filepath.Join(dstdir, "archive.log")
	logf, err := os.OpenFile(logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errorf("rsync: %v", err)
	}
	defer logf.Close()

	for _, p := range paths {
		args := []string{"--archive", "--recursive", "--verbose", "--copy-unsafe-links"}
		src := p.RelPath
		if !filepath.IsAbs(src) {
			src = filepath.Join(p.BaseDir, p.RelPath)
		}
		args = append(args, src)
		args = append(args, r.Config.AdditionalArgs...)
		args = append(args, dstdir+string(filepath.Separator))

		r.Logger.Info("rsync", "args", args)
		cmd := exec.Command("rsync", args...)
		cmd.Stdout = logf
		cmd.Stderr = logf
		if err := cmd.Run(); err != nil {
			return errorf("rsync: %v", err)
		}
	}
	return nil
}

func init() {
	Register("rsync", nil, func(string) Archiver { return NewRsyncArchiver(RsyncConfig{}, nil) })
}

const RsyncConfigspecText = `
additional-args = cmdline(default='')
`
