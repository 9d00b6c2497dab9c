// Package hollandconfig loads and validates the operator-facing global
// configuration file (the [holland] and [logging] sections), layering
// a struct-level sanity pass on top of the configspec engine.
package hollandconfig

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/holland-backup/holland/internal/config"
)

// GlobalConfigspecText validates the [holland] and [logging] sections
// of the operator's top-level config file.
const GlobalConfigspecText = `
[holland]
backup-directory = string(default='')
backupsets = force_list(default=list())
catalog-db = string(default='')
umask = integer(default=18)
tmpdir = string(default='')
path = string(default='')

[logging]
level = log_level(default='info')
format = option('text', 'json', default='text')
filename = string(default='')
`

// LoggingConfig mirrors the [logging] section.
type LoggingConfig struct {
	Level    string `validate:"omitempty,oneof=debug info warning error fatal"`
	Format   string `validate:"oneof=text json"`
	Filename string
}

// HollandConfig mirrors the [holland] and [logging] sections of the
// global config file.
type HollandConfig struct {
	BackupDirectory string
	Backupsets      []string
	CatalogDB       string
	Umask           int `validate:"gte=0,lte=511"`
	Tmpdir          string
	Path            string
	Logging         LoggingConfig
}

var structValidator = validator.New()

// Load parses, validates, and decodes the global config file at path.
// It returns both the typed HollandConfig and the underlying Tree, the
// latter needed by callers that must read provenance or other
// unmodeled keys.
func Load(path string) (*HollandConfig, *config.Tree, error) {
	tree, err := config.ParseFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("hollandconfig: %w", err)
	}
	cfg, err := decode(tree)
	if err != nil {
		return nil, nil, err
	}
	return cfg, tree, nil
}

// LoadString parses a global config document already held in memory,
// primarily for tests.
func LoadString(text string) (*HollandConfig, *config.Tree, error) {
	tree, err := config.ParseString(text)
	if err != nil {
		return nil, nil, fmt.Errorf("hollandconfig: %w", err)
	}
	cfg, err := decode(tree)
	if err != nil {
		return nil, nil, err
	}
	return cfg, tree, nil
}

func decode(tree *config.Tree) (*HollandConfig, error) {
	spec, err := config.NewConfigspec(GlobalConfigspecText)
	if err != nil {
		return nil, fmt.Errorf("hollandconfig: parsing configspec: %w", err)
	}
	if _, err := spec.Validate(tree, config.ValidateOptions{IgnoreUnknownSections: true}); err != nil {
		return nil, fmt.Errorf("hollandconfig: %w", err)
	}

	holland := tree.Sub("holland")
	logging := tree.Sub("logging")

	cfg := &HollandConfig{
		BackupDirectory: holland.GetString("backup-directory"),
		CatalogDB:       holland.GetString("catalog-db"),
		Tmpdir:          holland.GetString("tmpdir"),
		Path:            holland.GetString("path"),
		Logging: LoggingConfig{
			Level:    logging.GetString("level"),
			Format:   logging.GetString("format"),
			Filename: logging.GetString("filename"),
		},
	}
	if bs, ok := holland.Get("backupsets").([]string); ok {
		cfg.Backupsets = bs
	}
	if n, ok := holland.Get("umask").(int); ok {
		cfg.Umask = n
	}

	if err := structValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("hollandconfig: %w", err)
	}
	return cfg, nil
}

// LoadBackupset parses a single backupset's config file. Validation
// against the base and strategy-specific configspecs happens inside
// Controller.Backup, since the strategy configspec isn't known until
// the backup-plugin key is read.
func LoadBackupset(path string) (*config.Tree, error) {
	tree, err := config.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("hollandconfig: loading backupset %s: %w", path, err)
	}
	return tree, nil
}
