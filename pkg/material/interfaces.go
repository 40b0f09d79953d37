package material

import "github.com/df07/go-phong-raytracer/pkg/core"

// Named colors used by the built-in scenes
var (
	ZimaBlue    = core.NewPixelColor(26, 179, 249)
	Burgundy    = core.NewPixelColor(128, 0, 32)
	BurntOrange = core.NewPixelColor(204, 85, 0)
	White       = core.NewPixelColor(255, 255, 255)
)

// DefaultSpecularExponent controls the size of the specular highlight
const DefaultSpecularExponent = 32.0
