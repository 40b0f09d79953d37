package camera

import (
	"context"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

const (
	// MaxVerticalRotation bounds vertical orbit in both directions
	MaxVerticalRotation = 90.0
	fullCircle          = 360.0
	degenerateEpsilon   = 1e-12
)

// Camera orbits a fixed look-at point. Orbit only changes the rotation angles;
// the precomputed screen is built once in the unrotated frame and rotated per
// frame, so orbiting never touches per-pixel state.
type Camera struct {
	lookAt   core.Vec3
	baseVRP  core.Vec3
	worldUp  core.Vec3
	approxUp core.Vec3

	// Current basis, recomputed from the effective VRP on every orbit
	vpn core.Vec3
	vrv core.Vec3
	vuv core.Vec3

	focalLength float64
	fieldOfView float64
	scale       float64
	width       int
	height      int

	horizontalRotation float64
	verticalRotation   float64
	ambientCoefficient float64

	screen *Screen
	light  lights.PointLight
}

// View is the immutable per-frame state the render workers read. Mutating the
// camera after Snapshot never changes an existing View.
type View struct {
	screen             *Screen
	Rotation           core.Rotation
	AmbientCoefficient float64
	Light              lights.PointLight
}

// New creates a camera from cfg, filling unset fields from DefaultConfig
func New(cfg Config) *Camera {
	cfg = MergeConfig(DefaultConfig(), cfg)
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = DefaultImageSize, DefaultImageSize
	}

	worldUp := cfg.ApproxViewUp.Normalized()
	c := &Camera{
		lookAt:      core.Vec3{},
		baseVRP:     cfg.ViewReferencePoint,
		worldUp:     worldUp,
		approxUp:    worldUp,
		focalLength: cfg.FocalLength,
		fieldOfView: cfg.FieldOfView,
		scale:       cfg.Scale,
		width:       cfg.Width,
		height:      cfg.Height,
		light:       lights.Default(),
	}
	c.SetAmbientCoefficient(cfg.AmbientCoefficient)
	c.adjustView()
	c.rebuildScreen()
	return c
}

// Default creates the camera used by the default scene
func Default() *Camera {
	return New(DefaultConfig())
}

// computeBasis derives the view plane normal, right and up vectors for an eye
// at vrp looking at lookAt. The order is fixed: VPN, then VRV from VPN and the
// approximate up, then VUV from VRV and VPN.
func computeBasis(lookAt, vrp, approxUp core.Vec3) (vpn, vrv, vuv core.Vec3) {
	vpn = lookAt.Subtract(vrp)
	vpn.Normalize()

	vrv = vpn.Cross(approxUp)
	vrv.Normalize()

	vuv = vrv.Cross(vpn)
	vuv.Normalize()
	return vpn, vrv, vuv
}

// adjustView recomputes the basis from the current effective VRP using the
// previous up vector as the approximate up.
func (c *Camera) adjustView() {
	rotation := c.RotationMatrix()
	vpn, vrv, vuv := computeBasis(c.lookAt, rotation.Apply(c.baseVRP), c.approxUp)

	// Looking straight along the approximate up leaves VRV undefined; fall back
	// to the rotated base right vector.
	if vrv.LengthSquared() < degenerateEpsilon {
		_, baseVRV, _ := computeBasis(c.lookAt, c.baseVRP, c.worldUp)
		vrv = rotation.Apply(baseVRV)
		vrv.Normalize()
		vuv = vrv.Cross(vpn)
		vuv.Normalize()
	}

	c.vpn, c.vrv, c.vuv = vpn, vrv, vuv
	c.approxUp = vuv
}

// rebuildScreen projects every pixel in the unrotated base frame
func (c *Camera) rebuildScreen() {
	vpn, vrv, vuv := computeBasis(c.lookAt, c.baseVRP, c.worldUp)
	halfWidth, _ := c.HalfView()

	params := ScreenParams{
		ScreenCenter:  c.baseVRP.Add(vpn.Multiply(c.focalLength)),
		ViewRight:     vrv,
		ViewUp:        vuv,
		ViewReference: c.baseVRP,
		Width:         c.width,
		Height:        c.height,
		PixelSize:     2.0 * halfWidth / float64(c.width),
		Scale:         c.scale,
	}

	// Width and height are validated by Resize and New, so the build cannot fail
	screen, err := BuildScreen(context.Background(), params)
	if err != nil {
		panic(err)
	}
	c.screen = screen
}

// RotationMatrix returns the composite orbit rotation: horizontal applied after vertical
func (c *Camera) RotationMatrix() core.Rotation {
	return core.MatrixMul(core.RotationY(c.horizontalRotation), core.RotationX(c.verticalRotation))
}

// OrbitHorizontal rotates the eye around the look-at point about world Y.
// The angle wraps into [0, 360).
func (c *Camera) OrbitHorizontal(degrees float64) {
	c.horizontalRotation = wrapDegrees(c.horizontalRotation + math.Mod(degrees, fullCircle))
	c.adjustView()
}

// OrbitVertical rotates the eye above or below the look-at point.
// The angle clamps to [-90, 90].
func (c *Camera) OrbitVertical(degrees float64) {
	c.verticalRotation = math.Max(-MaxVerticalRotation, math.Min(MaxVerticalRotation, c.verticalRotation+degrees))
	c.adjustView()
}

func wrapDegrees(degrees float64) float64 {
	degrees = math.Mod(degrees, fullCircle)
	if degrees < 0 {
		degrees += fullCircle
	}
	if degrees >= fullCircle {
		degrees = 0
	}
	return degrees
}

// ResetHorizontal returns the horizontal angle to zero
func (c *Camera) ResetHorizontal() {
	c.horizontalRotation = 0
	c.adjustView()
}

// ResetVertical returns the vertical angle to zero and restores world up
func (c *Camera) ResetVertical() {
	c.verticalRotation = 0
	c.approxUp = c.worldUp
	c.adjustView()
}

// ResetBoth returns the camera to its unrotated position
func (c *Camera) ResetBoth() {
	c.horizontalRotation = 0
	c.verticalRotation = 0
	c.approxUp = c.worldUp
	c.adjustView()
}

// SetAmbientCoefficient sets the ambient term weight, clamped into [0, 1]
func (c *Camera) SetAmbientCoefficient(value float64) {
	if math.IsNaN(value) {
		value = 0
	}
	c.ambientCoefficient = math.Max(0, math.Min(1, value))
}

// HalfView returns half the view plane's world-space width and height.
// The longer image side gets the full field of view.
func (c *Camera) HalfView() (halfWidth, halfHeight float64) {
	half := math.Tan(core.DegreesToRadians(c.fieldOfView)/2.0) * c.focalLength
	aspect := float64(c.width) / float64(c.height)
	if aspect >= 1 {
		return half, half / aspect
	}
	return half * aspect, half
}

// PixelSize returns the world-space size of one pixel on the view plane
func (c *Camera) PixelSize() float64 {
	halfWidth, _ := c.HalfView()
	return 2.0 * halfWidth / float64(c.width)
}

// Resize changes the image dimensions and rebuilds the screen.
// Non-positive sizes are ignored.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.rebuildScreen()
}

// SetFocalLength moves the view plane and rebuilds the screen
func (c *Camera) SetFocalLength(focalLength float64) {
	if focalLength <= 0 {
		return
	}
	c.focalLength = focalLength
	c.rebuildScreen()
}

// SetFieldOfView changes the field of view, clamped to (0, 180), and rebuilds the screen
func (c *Camera) SetFieldOfView(degrees float64) {
	c.fieldOfView = math.Max(1, math.Min(179, degrees))
	c.rebuildScreen()
}

// Project returns the world-space origin and direction of pixel (i, j) under rotation
func (c *Camera) Project(i, j int, rotation core.Rotation) (origin, direction core.Vec3) {
	return project(c.screen, i, j, rotation)
}

func project(screen *Screen, i, j int, rotation core.Rotation) (origin, direction core.Vec3) {
	pixel := screen.At(i, j)
	return rotation.Apply(pixel.Origin), rotation.Apply(pixel.Direction)
}

// Snapshot captures the state one frame needs
func (c *Camera) Snapshot() *View {
	return &View{
		screen:             c.screen,
		Rotation:           c.RotationMatrix(),
		AmbientCoefficient: c.ambientCoefficient,
		Light:              c.light,
	}
}

// Light returns the scene light owned by the camera for editing
func (c *Camera) Light() *lights.PointLight { return &c.light }

// SetLight replaces the scene light
func (c *Camera) SetLight(light lights.PointLight) { c.light = light }

// VRP returns the effective eye position after orbit
func (c *Camera) VRP() core.Vec3 { return c.RotationMatrix().Apply(c.baseVRP) }

// BaseVRP returns the unrotated eye position
func (c *Camera) BaseVRP() core.Vec3 { return c.baseVRP }

// VPN returns the current view plane normal
func (c *Camera) VPN() core.Vec3 { return c.vpn }

// VRV returns the current view right vector
func (c *Camera) VRV() core.Vec3 { return c.vrv }

// VUV returns the current view up vector
func (c *Camera) VUV() core.Vec3 { return c.vuv }

// LookAt returns the orbit center
func (c *Camera) LookAt() core.Vec3 { return c.lookAt }

// HorizontalRotation returns the horizontal orbit angle in degrees, in [0, 360)
func (c *Camera) HorizontalRotation() float64 { return c.horizontalRotation }

// VerticalRotation returns the vertical orbit angle in degrees, in [-90, 90]
func (c *Camera) VerticalRotation() float64 { return c.verticalRotation }

// AmbientCoefficient returns the ambient light coefficient
func (c *Camera) AmbientCoefficient() float64 { return c.ambientCoefficient }

// FocalLength returns the distance from the eye to the view plane
func (c *Camera) FocalLength() float64 { return c.focalLength }

// FieldOfView returns the field of view in degrees
func (c *Camera) FieldOfView() float64 { return c.fieldOfView }

// Scale returns the multiplier on the world-space pixel size
func (c *Camera) Scale() float64 { return c.scale }

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Project returns the world-space origin and direction of pixel (i, j) for this frame
func (v *View) Project(i, j int) (origin, direction core.Vec3) {
	return project(v.screen, i, j, v.Rotation)
}

// Ray returns the primary ray of pixel (i, j) for this frame
func (v *View) Ray(i, j int) core.Ray {
	origin, direction := v.Project(i, j)
	return core.NewRay(origin, direction)
}

// Width returns the frame width in pixels
func (v *View) Width() int { return v.screen.Width() }

// Height returns the frame height in pixels
func (v *View) Height() int { return v.screen.Height() }
