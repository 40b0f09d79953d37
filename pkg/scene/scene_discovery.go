package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/camera"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the scene file (file type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtInGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
	filePrefix   = "file:"
)

// ScenesDir is searched for JSON scene files
var ScenesDir = []string{"scenes", "../scenes"}

type builtIn struct {
	info   SceneInfo
	create func(...camera.Config) *Scene
}

var builtIns = []builtIn{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			DisplayName: "Default Scene",
			Description: "Five spheres lit from above-left",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "single",
			Name:        "Single Sphere",
			DisplayName: "Single Sphere",
			Description: "One large sphere at the origin",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		create: NewSingleSphereScene,
	},
	{
		info: SceneInfo{
			ID:          "benchmark",
			Name:        "Benchmark",
			DisplayName: "Benchmark",
			Description: "Three spheres through a long lens for frame timing",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		create: NewBenchmarkScene,
	},
}

// Names returns the IDs of the built-in scenes
func Names() []string {
	names := make([]string, len(builtIns))
	for i, b := range builtIns {
		names[i] = b.info.ID
	}
	return names
}

// Create builds the built-in scene with the given ID
func Create(id string, cameraOverrides ...camera.Config) (*Scene, error) {
	for _, b := range builtIns {
		if b.info.ID == id {
			return b.create(cameraOverrides...), nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q (available: %s)", id, strings.Join(Names(), ", "))
}

// IsFileScene reports whether id refers to a discovered scene file
func IsFileScene(id string) bool {
	return strings.HasPrefix(id, filePrefix)
}

// FindScene returns the metadata for a built-in or discovered scene
func FindScene(id string) (SceneInfo, error) {
	for _, b := range builtIns {
		if b.info.ID == id {
			return b.info, nil
		}
	}

	if IsFileScene(id) {
		files, err := ListSceneFiles()
		if err != nil {
			return SceneInfo{}, err
		}
		for _, info := range files {
			if info.ID == id {
				return info, nil
			}
		}
	}

	return SceneInfo{}, fmt.Errorf("scene %q not found", id)
}

// ListSceneFiles scans the scenes directory and returns discovered JSON scenes
func ListSceneFiles() ([]SceneInfo, error) {
	var scenesDir string
	for _, path := range ScenesDir {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// sceneMetadata is the descriptive header of a scene file
type sceneMetadata struct {
	Name        string `json:"name"`
	Variant     string `json:"variant"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

// ParseSceneMetadata extracts the name, variant, description and group fields
// of a JSON scene file, falling back to values derived from the file name.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          filePrefix + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       fileGroup,
		Type:        "file",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		// If we can't read the file, return with fallback values
		return sceneInfo, nil
	}

	var meta sceneMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return sceneInfo, fmt.Errorf("invalid scene file: %w", err)
	}

	if meta.Name != "" {
		sceneInfo.Name = meta.Name
	}
	if meta.Group != "" {
		sceneInfo.Group = meta.Group
	}
	sceneInfo.Variant = meta.Variant
	sceneInfo.Description = meta.Description

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	allScenes := make([]SceneInfo, 0, len(builtIns))
	for _, b := range builtIns {
		allScenes = append(allScenes, b.info)
	}

	fileScenes, err := ListSceneFiles()
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtInGroup, Scenes: group})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
