package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	fb "github.com/gonutz/framebuffer"

	"github.com/rook-computer/d3doverlay/internal/logging"
)

const DefaultFramebuffer = "/dev/fb0"

// FBPresenter scales frames onto the Linux framebuffer.
type FBPresenter struct {
	Path   string
	Logger logging.Logger

	mu    sync.Mutex
	dev   *fb.Device
	count uint64
}

func NewFBPresenter(path string) *FBPresenter {
	if path == "" {
		path = DefaultFramebuffer
	}
	return &FBPresenter{Path: path, Logger: logging.NoopLogger{}}
}

func (p *FBPresenter) Start(ctx context.Context) error {
	dev, err := fb.Open(p.Path)
	if err != nil {
		return fmt.Errorf("open framebuffer %s: %w", p.Path, err)
	}
	p.mu.Lock()
	p.dev = dev
	p.mu.Unlock()
	bounds := dev.Bounds()
	p.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	return nil
}

func (p *FBPresenter) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev != nil {
		p.dev.Close()
		p.dev = nil
	}
	return nil
}

// Present annotates frame with status and blits it.
func (p *FBPresenter) Present(frame *image.RGBA, status string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return nil
	}
	blit(p.dev, Annotate(frame, status))
	p.count++
	if p.count%600 == 1 {
		p.Logger.Debugf("fb", "presented frame %d", p.count)
	}
	return nil
}

type surface interface {
	Bounds() image.Rectangle
	Set(x, y int, c color.Color)
}

// blit copies src onto dst with nearest-neighbour scaling. Alpha is dropped.
func blit(dst surface, src *image.RGBA) {
	db, sb := dst.Bounds(), src.Bounds()
	if db.Empty() || sb.Empty() {
		return
	}
	for y := 0; y < db.Dy(); y++ {
		sy := sb.Min.Y + y*sb.Dy()/db.Dy()
		for x := 0; x < db.Dx(); x++ {
			sx := sb.Min.X + x*sb.Dx()/db.Dx()
			px := src.RGBAAt(sx, sy)
			dst.Set(db.Min.X+x, db.Min.Y+y, color.RGBA{R: px.R, G: px.G, B: px.B, A: 0xFF})
		}
	}
}
