package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/camera"
	"github.com/df07/go-phong-raytracer/pkg/integrator"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Config holds the command line options of one CLI run
type Config struct {
	SceneID    string
	SceneFile  string
	Width      int
	Height     int
	Workers    int
	OrbitH     float64
	OrbitV     float64
	Ambient    float64 // Negative keeps the scene's coefficient
	NoSpecular bool
	Frames     int
	Output     string
}

func main() {
	var cfg Config

	// Parse command line flags
	flag.StringVar(&cfg.SceneID, "scene", "default", "Scene: "+strings.Join(scene.Names(), ", ")+" or file:<name>")
	flag.StringVar(&cfg.SceneFile, "scene-file", "", "Path to a JSON scene file (overrides -scene)")
	flag.IntVar(&cfg.Width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&cfg.Height, "height", 0, "Image height (0 = scene default)")
	flag.IntVar(&cfg.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.Float64Var(&cfg.OrbitH, "orbit-h", 0, "Horizontal orbit in degrees")
	flag.Float64Var(&cfg.OrbitV, "orbit-v", 0, "Vertical orbit in degrees, clamped to [-90, 90]")
	flag.Float64Var(&cfg.Ambient, "ambient", -1, "Ambient coefficient in [0, 1] (negative = scene default)")
	flag.BoolVar(&cfg.NoSpecular, "no-specular", false, "Render with ambient and diffuse terms only")
	flag.IntVar(&cfg.Frames, "frames", 1, "Frames to render, orbiting one degree between frames, for timing")
	flag.StringVar(&cfg.Output, "output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		showHelp()
		return
	}

	fmt.Println("Starting Phong Raytracer...")

	filename, err := run(context.Background(), cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

func showHelp() {
	fmt.Println("Phong Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	fmt.Println("  default   - Five spheres lit from above-left")
	fmt.Println("  single    - One large sphere at the origin")
	fmt.Println("  benchmark - Three spheres through a long lens")
	if files, err := scene.ListSceneFiles(); err == nil {
		for _, info := range files {
			fmt.Printf("  %s - %s\n", info.ID, info.DisplayName)
		}
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

// run renders the configured scene and returns the path of the saved image
func run(ctx context.Context, cfg Config) (string, error) {
	selectedScene, err := createScene(cfg)
	if err != nil {
		return "", err
	}

	cam := selectedScene.Camera
	cam.OrbitHorizontal(cfg.OrbitH)
	cam.OrbitVertical(cfg.OrbitV)
	if cfg.Ambient >= 0 {
		cam.SetAmbientCoefficient(cfg.Ambient)
	}

	integ := integrator.NewPhong()
	if cfg.NoSpecular {
		integ = integrator.NewDiffuseAmbient()
	}

	logger := renderer.NewDefaultLogger()
	raytracer := renderer.New(renderer.Config{
		NumWorkers:    cfg.Workers,
		WarnThreshold: renderer.DefaultConfig().WarnThreshold,
	}, integ, logger)
	defer raytracer.Close()

	buffer, err := renderer.NewFrameBuffer(cam.Width(), cam.Height(), 3)
	if err != nil {
		return "", err
	}

	frames := max(1, cfg.Frames)
	var total time.Duration
	for i := 0; i < frames; i++ {
		if i > 0 {
			cam.OrbitHorizontal(1)
		}
		stats, err := raytracer.Render(ctx, buffer, cam, selectedScene.Shapes)
		if err != nil {
			return "", err
		}
		total += stats.Duration
	}

	if frames > 1 {
		average := total / time.Duration(frames)
		fmt.Printf("Average over %d frames: %v (%.1f fps)\n", frames, average, float64(time.Second)/float64(average))
	}
	fmt.Printf("Average luminance: %.3f\n", renderer.AverageLuminance(buffer))

	filename := cfg.Output
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir(sceneName(cfg)), fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := loaders.SavePNG(filename, buffer); err != nil {
		return "", err
	}
	return filename, nil
}

// createScene builds the scene named by -scene-file or -scene
func createScene(cfg Config) (*scene.Scene, error) {
	if cfg.Width < 0 || cfg.Height < 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}
	overrides := camera.Config{Width: cfg.Width, Height: cfg.Height}

	if cfg.SceneFile != "" {
		s, err := loaders.LoadScene(cfg.SceneFile)
		if err != nil {
			return nil, err
		}
		if cfg.Width > 0 && cfg.Height > 0 {
			s.Camera.Resize(cfg.Width, cfg.Height)
		}
		return s, nil
	}

	if cfg.SceneID == "" {
		return nil, fmt.Errorf("no scene given")
	}
	return loaders.OpenScene(cfg.SceneID, overrides)
}

// sceneName returns the output directory name of the configured scene
func sceneName(cfg Config) string {
	if cfg.SceneFile != "" {
		base := filepath.Base(cfg.SceneFile)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return strings.TrimPrefix(cfg.SceneID, "file:")
}

// outputDir returns the directory output/<name>; SavePNG creates it
func outputDir(name string) string {
	if name == "" {
		name = "scene"
	}
	return filepath.Join("output", name)
}
