package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/camera"
)

// Constructor builds a scene together with the camera that frames it
type Constructor func() (*Scene, *camera.Camera)

var builtins = map[string]Constructor{
	"cornell": NewCornellScene,
	"default": NewDefaultScene,
}

// Builtin creates one of the scenes compiled into the binary
func Builtin(name string) (*Scene, *camera.Camera, error) {
	ctor, ok := builtins[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown scene %q (available: %v)", name, BuiltinNames())
	}
	s, cam := ctor()
	return s, cam, nil
}

// BuiltinNames lists the built-in scenes in sorted order
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
