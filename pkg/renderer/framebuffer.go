package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// FrameBuffer is a row-major, top-to-bottom 8-bit image with 3 (RGB) or 4
// (RGBA, alpha always opaque) channels per pixel. It implements image.Image.
type FrameBuffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewFrameBuffer allocates a black frame buffer
func NewFrameBuffer(width, height, channels int) (*FrameBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("unsupported channel count %d, must be 3 or 4", channels)
	}

	fb := &FrameBuffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
	if channels == 4 {
		for i := 3; i < len(fb.Pix); i += 4 {
			fb.Pix[i] = 255
		}
	}
	return fb, nil
}

func (fb *FrameBuffer) offset(i, j int) int {
	if i < 0 || i >= fb.Width || j < 0 || j >= fb.Height {
		panic(fmt.Sprintf("pixel (%d, %d) outside %dx%d frame buffer", i, j, fb.Width, fb.Height))
	}
	return (j*fb.Width + i) * fb.Channels
}

// PixelAt returns the color at column i, row j
func (fb *FrameBuffer) PixelAt(i, j int) core.PixelColor {
	o := fb.offset(i, j)
	return core.NewPixelColor(fb.Pix[o], fb.Pix[o+1], fb.Pix[o+2])
}

// SetPixel writes c at column i, row j and reports whether the stored color changed
func (fb *FrameBuffer) SetPixel(i, j int, c core.PixelColor) bool {
	o := fb.offset(i, j)
	if fb.Pix[o] == c.X && fb.Pix[o+1] == c.Y && fb.Pix[o+2] == c.Z {
		return false
	}
	fb.Pix[o], fb.Pix[o+1], fb.Pix[o+2] = c.X, c.Y, c.Z
	return true
}

// Clone returns a deep copy
func (fb *FrameBuffer) Clone() *FrameBuffer {
	clone := *fb
	clone.Pix = append([]uint8(nil), fb.Pix...)
	return &clone
}

// RGBA converts the buffer into an *image.RGBA
func (fb *FrameBuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for j := 0; j < fb.Height; j++ {
		for i := 0; i < fb.Width; i++ {
			c := fb.PixelAt(i, j)
			o := img.PixOffset(i, j)
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.X, c.Y, c.Z, 255
		}
	}
	return img
}

// ColorModel implements image.Image
func (fb *FrameBuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image
func (fb *FrameBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.Width, fb.Height) }

// At implements image.Image
func (fb *FrameBuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(fb.Bounds())) {
		return color.RGBA{}
	}
	c := fb.PixelAt(x, y)
	return color.RGBA{R: c.X, G: c.Y, B: c.Z, A: 255}
}
