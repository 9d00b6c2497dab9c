package stream

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
)

// CompressionConfig is the bound `[compression]` configspec section: the
// method name, compression level, and extra command-line options.
type CompressionConfig struct {
	Method  string
	Level   int
	Options []string
}

// compressionPlugin spawns the named external compressor binary and
// pipes archive data through it. Reads spawn `binary -d [opts] < path`;
// writes spawn `binary [opts] -LEVEL > path`.
type compressionPlugin struct {
	binary  string
	ext     string
	logger  *slog.Logger
	options []string
	level   int
}

// NewCompressionPlugin constructs a stream plugin that shells out to
// binary (e.g. "gzip", "pigz", "bzip2") for both compression and
// decompression.
func NewCompressionPlugin(binary, ext string, logger *slog.Logger) Plugin {
	if logger == nil {
		logger = slog.Default()
	}
	return &compressionPlugin{binary: binary, ext: ext, logger: logger, level: 1}
}

func (p *compressionPlugin) Ext() string { return p.ext }

func (p *compressionPlugin) Open(path string, mode string) (Stream, error) {
	if _, err := exec.LookPath(p.binary); err != nil {
		return nil, fmt.Errorf("stream: could not find %s on PATH: %w", p.binary, err)
	}

	switch mode {
	case "rb", "r":
		return p.openRead(path)
	default:
		return p.openWrite(path)
	}
}

func (p *compressionPlugin) openRead(path string) (Stream, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stream: open %s: %w", path, err)
	}
	args := append([]string{"-d"}, p.options...)
	cmd := exec.Command(p.binary, args...)
	cmd.Stdin = src
	stderr, err := cmd.StderrPipe()
	if err != nil {
		src.Close()
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		src.Close()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		src.Close()
		return nil, fmt.Errorf("stream: starting %s: %w", p.binary, err)
	}
	s := &cmdInputStream{cmd: cmd, stdout: stdout, src: src, name: path, logger: p.logger, binary: p.binary}
	go s.drainStderr(stderr)
	return s, nil
}

func (p *compressionPlugin) openWrite(path string) (Stream, error) {
	if len(path) < len(p.ext) || path[len(path)-len(p.ext):] != p.ext {
		path += p.ext
	}
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("stream: create %s: %w", path, err)
	}
	args := append(append([]string{}, p.options...), "-"+strconv.Itoa(p.level))
	cmd := exec.Command(p.binary, args...)
	cmd.Stdout = dst
	stdin, err := cmd.StdinPipe()
	if err != nil {
		dst.Close()
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		dst.Close()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		dst.Close()
		return nil, fmt.Errorf("stream: starting %s: %w", p.binary, err)
	}
	s := &cmdOutputStream{cmd: cmd, stdin: stdin, dst: dst, name: path, logger: p.logger, binary: p.binary}
	go s.drainStderr(stderr)
	return s, nil
}

type cmdInputStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	src    *os.File
	name   string
	logger *slog.Logger
	binary string
}

func (s *cmdInputStream) Name() string                    { return s.name }
func (s *cmdInputStream) Write(p []byte) (int, error)     { return 0, fmt.Errorf("stream: %s is open for reading", s.name) }
func (s *cmdInputStream) Read(p []byte) (int, error)      { return s.stdout.Read(p) }

func (s *cmdInputStream) drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.logger.Info(s.binary, "line", scanner.Text())
	}
}

func (s *cmdInputStream) Close() error {
	err := s.cmd.Wait()
	s.src.Close()
	return err
}

type cmdOutputStream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	dst    *os.File
	name   string
	logger *slog.Logger
	binary string
}

func (s *cmdOutputStream) Name() string                 { return s.name }
func (s *cmdOutputStream) Write(p []byte) (int, error) { return s.stdin.Write(p) }

func (s *cmdOutputStream) drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.logger.Info(s.binary, "line", scanner.Text())
	}
}

func (s *cmdOutputStream) Close() error {
	s.stdin.Close()
	err := s.cmd.Wait()
	s.dst.Close()
	if err != nil {
		return fmt.Errorf("stream: %s exited with error: %w", s.binary, err)
	}
	return nil
}

func init() {
	Register("gzip", nil, func(string) Plugin { return NewCompressionPlugin("gzip", ".gz", nil) })
	Register("pigz", nil, func(string) Plugin { return NewCompressionPlugin("pigz", ".gz", nil) })
	Register("bzip2", nil, func(string) Plugin { return NewCompressionPlugin("bzip2", ".bz2", nil) })
	Register("pbzip2", nil, func(string) Plugin { return NewCompressionPlugin("pbzip2", ".bz2", nil) })
	Register("lzma", []string{"xz"}, func(string) Plugin { return NewCompressionPlugin("xz", ".xz", nil) })
	Register("lzop", nil, func(string) Plugin { return NewCompressionPlugin("lzop", ".lzo", nil) })
}
