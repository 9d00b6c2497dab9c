package archive

import (
	"bufio"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/holland-backup/holland/internal/stream"
)

// TarConfig is the bound `[tar]` configspec section.
type TarConfig struct {
	Exclude  []string
	PreArgs  []string
	PostArgs []string
}

// TarArchiver spawns `tar -cf -` over the requested paths, piping its
// stdout through the configured compression stream.
type TarArchiver struct {
	Config TarConfig
	Logger *slog.Logger

	mu      sync.Mutex
	process *os.Process
}

func NewTarArchiver(cfg TarConfig, logger *slog.Logger) *TarArchiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &TarArchiver{Config: cfg, Logger: logger}
}

func (t *TarArchiver) Terminate(signal int) {
	t.mu.Lock()
	proc := t.process
	t.mu.Unlock()
	if proc == nil {
		return
	}
	t.Logger.Info("terminating tar process", "pid", proc.Pid, "signal", signal)
	_ = proc.Signal(syscall.Signal(signal))
}

func (t *TarArchiver) Archive(paths []PathSpec, dstdir string, compression stream.CompressionConfig) error {
	if len(paths) == 0 {
		return errorf("no paths to archive specified")
	}

	args := append(append([]string{}, t.Config.PreArgs...), "--verbose", "--totals", "-cf", "-")

	lastBase := ""
	for _, p := range paths {
		if !filepath.IsAbs(p.RelPath) && lastBase != p.BaseDir {
			args = append(args, "-C", p.BaseDir)
			lastBase = p.BaseDir
		}
		args = append(args, p.RelPath)
	}
	args = append(args, t.Config.PostArgs...)
	for _, pattern := range t.Config.Exclude {
		args = append(args, "--exclude", pattern)
	}

	dstpath := filepath.Join(dstdir, "backup.tar")
	errpath := filepath.Join(dstdir, "archive.log")

	plugin, err := stream.Load(compression.Method)
	if err != nil {
		return errorf("tar: %v", err)
	}
	out, err := plugin.Open(dstpath, "wb")
	if err != nil {
		return errorf("tar: %v", err)
	}
	defer out.Close()

	errf, err := os.OpenFile(errpath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return errorf("tar: %v", err)
	}
	defer errf.Close()

	t.Logger.Info("archiving via tar", "args", args, "destination", out.Name())

	cmd := exec.Command("tar", args...)
	cmd.Stdout = out
	cmd.Stderr = errf

	if err := cmd.Start(); err != nil {
		return errorf("tar: failed to start: %v", err)
	}
	t.mu.Lock()
	t.process = cmd.Process
	t.mu.Unlock()

	err = cmd.Wait()
	t.mu.Lock()
	t.process = nil
	t.mu.Unlock()

	if err == nil {
		return nil
	}

	errf.Seek(0, 0)
	scanner := bufio.NewScanner(errf)
	for scanner.Scan() {
		t.Logger.Error("tar", "line", scanner.Text())
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			sig := int(status.Signal())
			return errorf("tar was terminated by %s [%d]", nameOfSignal(sig), sig)
		}
		return errorf("tar exited with non-zero status [%d]", exitErr.ExitCode())
	}
	return errorf("tar: %v", err)
}

func init() {
	Register("tar", nil, func(string) Archiver { return NewTarArchiver(TarConfig{}, nil) })
}

// ConfigspecText holds the options of the `[tar]` configspec section.
// No configspec in this module includes it.
const ConfigspecText = `
exclude = force_list(default=list())
pre-args = force_list(default=list())
post-args = force_list(default=list())
`
