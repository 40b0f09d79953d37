package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ShapeIndex   int                    `json:"shapeIndex"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Inside       bool                   `json:"inside"`
	Color        string                 `json:"color"` // Shaded pixel color
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func hexColor(c core.PixelColor) string {
	return fmt.Sprintf("#%02x%02x%02x", c.X, c.Y, c.Z)
}

// extractMaterialInfo describes a Phong material
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	return map[string]interface{}{
		"color":            hexColor(mat.PixelColour()),
		"diffuse":          mat.DiffuseK().Array(),
		"specular":         mat.SpecularK().Array(),
		"specularExponent": mat.SpecularExponent,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = geom.Center.Array()
		properties["radius"] = geom.Radius
		return "sphere", properties

	default:
		return "unknown", properties
	}
}

func sphereState(shape geometry.Shape) SphereState {
	state := SphereState{Color: shape.Material().PixelColour().Array()}
	if sphere, ok := shape.(*geometry.Sphere); ok {
		state.Center = sphere.Center.Array()
		state.Radius = sphere.Radius
	}
	return state
}

// handleInspect traces a single pixel of the current view
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.current()
	bounds := sess.Frame().Buffer.Bounds()

	query := r.URL.Query()
	if query.Get("x") == "" || query.Get("y") == "" {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	pixelX, err := parseIntParam(query, "x", 0, 0, bounds.Dx()-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pixelY, err := parseIntParam(query, "y", 0, 0, bounds.Dy()-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := sess.Inspect(pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := InspectResponse{
		Hit:        result.Hit,
		ShapeIndex: result.ShapeIndex,
		Color:      hexColor(result.Color),
	}
	if result.Hit {
		geometryType, geometryProps := extractGeometryInfo(result.Shape)
		response.GeometryType = geometryType
		response.Point = result.Point.Array()
		response.Normal = result.Normal.Array()
		response.Distance = result.Distance
		response.Inside = result.Inside
		response.Properties = map[string]interface{}{
			"geometry": geometryProps,
			"material": extractMaterialInfo(result.Shape.Material()),
		}
	}

	writeJSON(w, http.StatusOK, response)
}
