// Package render shows the simulated host's back buffer: on the Linux
// framebuffer when one is available and as PNG snapshots.
package render

import (
	"context"
	"image"
)

// Presenter puts a finished host frame somewhere a person can see it.
type Presenter interface {
	Start(ctx context.Context) error
	Stop() error
	Present(frame *image.RGBA, status string) error
}

type NoopPresenter struct{}

func (NoopPresenter) Start(ctx context.Context) error   { return nil }
func (NoopPresenter) Stop() error                       { return nil }
func (NoopPresenter) Present(*image.RGBA, string) error { return nil }
