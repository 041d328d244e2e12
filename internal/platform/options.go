package platform

import (
	"log/slog"

	"github.com/goinkwell/inkwell/pkg/core"
)

// options holds the internal configuration for the inkwell service.
type options struct {
	repository  core.Repository
	logger      *slog.Logger
	mustExist   bool
	systemDir   string
	eventBuffer int
}

// Option defines a functional option for configuring inkwell.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the service and repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMustExist requires the content directory to already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithSystemDir overrides the hidden directory name (default ".inkwell").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithEventBuffer sizes the watch event channel. Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithRepository injects a custom storage adapter, skipping the default
// filesystem adapter.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}
