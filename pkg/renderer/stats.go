package renderer

import (
	"fmt"
	"image"
	"time"
)

// RenderStats contains statistics about one rendered frame
type RenderStats struct {
	TotalPixels   int           // Pixels visited
	ChangedPixels int           // Pixels whose color differed from the previous frame
	HitPixels     int           // Pixels whose ray hit a shape
	Rows          int           // Rows rendered
	Workers       int           // Workers in the pool
	Duration      time.Duration // Wall-clock frame time
}

// Add accumulates the counters of a row band into the frame totals
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.ChangedPixels += other.ChangedPixels
	s.HitPixels += other.HitPixels
	s.Rows += other.Rows
}

// FramesPerSecond returns the frame rate implied by Duration
func (s RenderStats) FramesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Duration)
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%d pixels (%d changed, %d hit) in %v", s.TotalPixels, s.ChangedPixels, s.HitPixels, s.Duration)
}

// AverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func AverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return 0.0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 0xffff
		}
	}

	return total / float64(bounds.Dx()*bounds.Dy())
}
