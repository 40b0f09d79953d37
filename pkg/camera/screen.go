package camera

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// PixelRay is the unrotated origin and direction of one pixel's primary ray
type PixelRay struct {
	Origin    core.Vec3
	Direction core.Vec3
}

// Screen is the precomputed table of per-pixel rays in the camera's unrotated
// frame. It is immutable once built and safe to share between render workers.
type Screen struct {
	width  int
	height int
	rays   []PixelRay // Row-major, top row first
}

// ScreenParams holds everything the per-pixel projection needs
type ScreenParams struct {
	ScreenCenter  core.Vec3
	ViewRight     core.Vec3
	ViewUp        core.Vec3
	ViewReference core.Vec3
	Width         int
	Height        int
	PixelSize     float64
	Scale         float64
}

// BuildScreen projects every pixel onto the view plane, one goroutine per row
func BuildScreen(ctx context.Context, params ScreenParams) (*Screen, error) {
	if params.Width <= 0 || params.Height <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", params.Width, params.Height)
	}

	screen := &Screen{
		width:  params.Width,
		height: params.Height,
		rays:   make([]PixelRay, params.Width*params.Height),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for j := 0; j < params.Height; j++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := screen.rays[j*params.Width : (j+1)*params.Width]
			for i := range row {
				row[i] = params.pixelRay(i, j)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build screen: %w", err)
	}
	return screen, nil
}

// pixelRay computes the view-plane point and direction for pixel (i, j).
// Offsets are measured from the far edge so +x reads right and +y reads up
// in the final image.
func (p ScreenParams) pixelRay(i, j int) PixelRay {
	width := float64(p.Width)
	height := float64(p.Height)

	u := ((width - float64(i)) - width/2.0) * p.Scale * p.PixelSize
	v := ((height - float64(j)) - height/2.0) * p.Scale * p.PixelSize

	point := p.ScreenCenter.Add(p.ViewRight.Multiply(u)).Add(p.ViewUp.Multiply(v))
	direction := point.Subtract(p.ViewReference)
	direction.Normalize()

	return PixelRay{Origin: point, Direction: direction}
}

// Width returns the number of columns
func (s *Screen) Width() int { return s.width }

// Height returns the number of rows
func (s *Screen) Height() int { return s.height }

// At returns the unrotated ray for pixel (i, j). Indices outside the image
// are a caller bug and panic.
func (s *Screen) At(i, j int) PixelRay {
	if i < 0 || i >= s.width || j < 0 || j >= s.height {
		panic(fmt.Sprintf("pixel (%d, %d) outside %dx%d screen", i, j, s.width, s.height))
	}
	return s.rays[j*s.width+i]
}
