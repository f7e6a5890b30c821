package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/scene"
)

const (
	builtinGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
)

// SceneInfo describes a scene available to the CLI and the server
type SceneInfo struct {
	ID          string `json:"id"`                 // Built-in name or "file:<name>"
	Name        string `json:"name"`               // Scene name
	Description string `json:"description"`        // Optional description
	Group       string `json:"group"`              // Grouping category
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // Path to the scene file (file type only)
}

// SceneGroup is a named set of scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

var builtinDescriptions = map[string]string{
	"cornell": "Cornell box with a ceiling light and a diffuse sphere",
	"default": "Spheres of every material on a ground quad, lit by an emissive sun",
}

// BuiltinScenes lists the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	var infos []SceneInfo
	for _, name := range scene.BuiltinNames() {
		infos = append(infos, SceneInfo{
			ID:          name,
			Name:        titleCase(name),
			Description: builtinDescriptions[name],
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}
	return infos
}

// DiscoverSceneFiles scans dir for scene files. A missing directory yields no scenes.
// Files that fail to parse are reported through warn and skipped.
func DiscoverSceneFiles(dir string, warn func(path string, err error)) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*"+SceneFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, path := range files {
		file, err := LoadSceneFile(path)
		if err != nil {
			if warn != nil {
				warn(path, err)
			}
			continue
		}
		scenes = append(scenes, fileInfo(path, file))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

func fileInfo(path string, file *SceneFile) SceneInfo {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	info := SceneInfo{
		ID:          "file:" + base,
		Name:        file.Name,
		Description: file.Description,
		Group:       file.Group,
		Type:        "file",
		FilePath:    path,
	}
	if info.Name == "" {
		info.Name = titleCase(base)
	}
	if info.Group == "" {
		info.Group = fileGroup
	}
	return info
}

// GroupScenes groups scenes by their Group field, built-ins first, then alphabetically
func GroupScenes(scenes []SceneInfo) []SceneGroup {
	byGroup := make(map[string][]SceneInfo)
	var names []string
	for _, s := range scenes {
		if _, ok := byGroup[s.Group]; !ok && s.Group != builtinGroup {
			names = append(names, s.Group)
		}
		byGroup[s.Group] = append(byGroup[s.Group], s)
	}
	sort.Strings(names)

	var groups []SceneGroup
	if builtins, ok := byGroup[builtinGroup]; ok {
		groups = append(groups, SceneGroup{Name: builtinGroup, Scenes: builtins})
	}
	for _, name := range names {
		groups = append(groups, SceneGroup{Name: name, Scenes: byGroup[name]})
	}
	return groups
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
