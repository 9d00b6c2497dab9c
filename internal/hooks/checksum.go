package hooks

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/holland-backup/holland/internal/config"
)

const checksumFileName = "checksums"

// checksum writes a manifest of per-file digests for a completed
// backup's contents, letting a later restore verify nothing rotted on
// disk between backup and restore time.
type checksum struct {
	base
	Algorithm string
}

func NewChecksumHook(algorithm string) *checksum {
	if algorithm == "" {
		algorithm = "sha256"
	}
	return &checksum{
		base:      base{name: "checksum", priority: 100},
		Algorithm: algorithm,
	}
}

// Bind reads the bound backup's own checksum-algorithm setting,
// overriding the constructor default: a single registered instance
// serves every backupset, each of which may configure its own
// algorithm (or "none" to skip checksumming entirely).
func (h *checksum) Bind(hc Context) {
	h.base.Bind(hc)
	if hc.Config == nil {
		return
	}
	backupSection, ok := hc.Config.Get("holland:backup").(*config.Tree)
	if !ok {
		return
	}
	if algo := backupSection.GetString("checksum-algorithm"); algo != "" {
		h.Algorithm = algo
	}
}

func (h *checksum) Handle(event string) error {
	if event != EventAfterBackup {
		return nil
	}
	if h.hc.DryRun || h.hc.Node == nil {
		return nil
	}
	if h.Algorithm == "none" {
		return nil
	}
	return h.writeChecksums()
}

func newHasher(algo string) (hash.Hash, error) {
	switch strings.ToLower(algo) {
	case "md5":
		return md5.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "sha256", "":
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("checksum: unsupported algorithm %q", algo)
	}
}

func (h *checksum) writeChecksums() error {
	root := h.hc.Node.Path
	metaDir := filepath.Join(root, ".holland")
	dst := filepath.Join(metaDir, checksumFileName)

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("checksum: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# %ssum\n", h.Algorithm)

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == dst {
			return nil
		}
		if strings.HasPrefix(path, metaDir) {
			return nil
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		sum, err := h.digest(path)
		if err != nil {
			h.hc.Logger.Warn("checksum: skipping unreadable file", "path", path, "error", err)
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		fmt.Fprintf(f, "%s  %s\n", sum, rel)
		return nil
	})
}

func (h *checksum) digest(path string) (string, error) {
	hasher, err := newHasher(h.Algorithm)
	if err != nil {
		return "", err
	}
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()
	if _, err := io.Copy(hasher, src); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

func init() {
	Register("checksum", 100, func(string) Hook {
		return NewChecksumHook("")
	})
}
