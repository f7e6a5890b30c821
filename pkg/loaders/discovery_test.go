package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestDiscoverSceneFiles(t *testing.T) {
	dir := t.TempDir()
	sc, cam := scene.NewCornellScene()

	named := NewSceneFile("Zebra Box", sc, cam, renderer.DefaultParams())
	named.Group = "Experiments"
	named.Description = "striped"
	if err := SaveSceneFile(filepath.Join(dir, "zebra.json"), named); err != nil {
		t.Fatal(err)
	}
	if err := SaveSceneFile(filepath.Join(dir, "cornell_copy.json"), NewSceneFile("", sc, cam, renderer.DefaultParams())); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	var warned []string
	scenes, err := DiscoverSceneFiles(dir, func(path string, err error) {
		warned = append(warned, filepath.Base(path))
	})
	if err != nil {
		t.Fatalf("DiscoverSceneFiles failed: %v", err)
	}

	if len(warned) != 1 || warned[0] != "broken.json" {
		t.Errorf("Expected a single warning for broken.json, got %v", warned)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(scenes))
	}

	first, second := scenes[0], scenes[1]
	if first.ID != "file:cornell_copy" || first.Name != "Cornell Copy" || first.Group != fileGroup {
		t.Errorf("Unexpected fallback metadata: %+v", first)
	}
	if second.ID != "file:zebra" || second.Name != "Zebra Box" || second.Group != "Experiments" || second.Description != "striped" {
		t.Errorf("Unexpected file metadata: %+v", second)
	}
	if second.Type != "file" || second.FilePath != filepath.Join(dir, "zebra.json") {
		t.Errorf("Unexpected type or path: %+v", second)
	}
}

func TestDiscoverSceneFilesMissingDir(t *testing.T) {
	scenes, err := DiscoverSceneFiles(filepath.Join(t.TempDir(), "absent"), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(scenes) != 0 {
		t.Errorf("Expected no scenes, got %d", len(scenes))
	}
}

func TestGroupScenes(t *testing.T) {
	scenes := append([]SceneInfo{
		{ID: "file:b", Group: "Zeta"},
		{ID: "file:a", Group: "Alpha"},
		{ID: "file:c", Group: "Zeta"},
	}, BuiltinScenes()...)

	groups := GroupScenes(scenes)
	var names []string
	for _, g := range groups {
		names = append(names, g.Name)
	}
	expected := []string{builtinGroup, "Alpha", "Zeta"}
	if len(names) != len(expected) {
		t.Fatalf("Expected groups %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Group %d: expected %s, got %s", i, expected[i], names[i])
		}
	}
	if len(groups[0].Scenes) != len(scene.BuiltinNames()) {
		t.Errorf("Expected %d built-ins, got %d", len(scene.BuiltinNames()), len(groups[0].Scenes))
	}
	if len(groups[2].Scenes) != 2 || groups[2].Scenes[0].ID != "file:b" {
		t.Errorf("Expected Zeta scenes in input order, got %+v", groups[2].Scenes)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"cornell":       "Cornell",
		"cornell-empty": "Cornell Empty",
		"big_GLASS-orb": "Big Glass Orb",
		"":              "",
	}
	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
