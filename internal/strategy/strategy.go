// Package strategy defines the capability-set interface backup
// strategy plugins implement: a strategy declares which optional
// behaviors it supports by implementing the corresponding small
// interface, rather than inheriting a base class with overridable
// no-op methods.
package strategy

import "context"

const Namespace = "holland.backup"

// Strategy is the minimum every backup strategy plugin must implement.
type Strategy interface {
	Name() string
	// Configspec returns this strategy's own configspec text, which
	// names its own sections and is validated against the whole
	// backupset config after the base configspec.
	Configspec() string
}

// Setupper strategies need a chance to prepare state (e.g. taking a
// snapshot) before the before-backup event fires.
type Setupper interface {
	Strategy
	Setup(ctx context.Context) error
}

// Estimator strategies can report an expected backup size before
// running, used by the estimation hook's free-space check.
type Estimator interface {
	Strategy
	EstimateSize(ctx context.Context) (int64, error)
}

// Backuper strategies perform the actual backup.
type Backuper interface {
	Strategy
	Backup(ctx context.Context) error
}

// DryRunner strategies support a dry-run pass that validates
// preconditions without producing an artifact.
type DryRunner interface {
	Strategy
	DryRun(ctx context.Context) error
}

// Releaser strategies support release() — freeing an external resource
// still reserved for an existing backup node (e.g. a mounted snapshot).
type Releaser interface {
	Strategy
	Release(ctx context.Context) error
}

// Cleaner strategies need to remove transient state after a failed or
// completed backup.
type Cleaner interface {
	Strategy
	Cleanup(ctx context.Context) error
}
