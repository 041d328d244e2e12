// Package platform is the composition root: it resolves functional options
// into a configured repository and service.
package platform

import (
	"context"

	"github.com/goinkwell/inkwell/pkg/adapters/fs"
	"github.com/goinkwell/inkwell/pkg/core"
)

// Init builds and initializes a repository for the given content directory.
func Init(path string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo := o.repository
	if repo == nil {
		repo = fs.NewRepository(fs.Config{
			Path:        path,
			MustExist:   o.mustExist,
			Logger:      o.logger,
			SystemDir:   o.systemDir,
			EventBuffer: o.eventBuffer,
		})
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// New builds a Service over an initialized repository.
func New(path string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}
	return core.NewService(repo, o.logger), nil
}
