package material

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Wire names of the built-in variants
const (
	TypeDiffuse    = "Diffuse"
	TypeMetallic   = "Metallic"
	TypeAlpha      = "Alpha"
	TypeDielectric = "DiElectric"
)

// ErrUnknownMaterial is returned when a spec names a type with no registered constructor
var ErrUnknownMaterial = errors.New("unknown material type")

// Spec is the serialized form of a material: its variant tag and constructor arguments
type Spec struct {
	Type string    `json:"type"`
	Args []float64 `json:"args"`
}

// Constructor builds a material from its serialized arguments
type Constructor func(args ...float64) (Material, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{
		TypeDiffuse: func(args ...float64) (Material, error) {
			return NewDiffuse(), nil
		},
		TypeMetallic: func(args ...float64) (Material, error) {
			return NewMetallic(argOr(args, 0, 0)), nil
		},
		TypeAlpha: func(args ...float64) (Material, error) {
			return NewAlpha(argOr(args, 0, 1)), nil
		},
		TypeDielectric: func(args ...float64) (Material, error) {
			return NewDielectric(argOr(args, 0, 1)), nil
		},
	}
)

// Register adds or replaces the constructor for a material type
func Register(typeName string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typeName] = ctor
}

// Types returns the registered material type names in sorted order
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromSpec reconstructs the exact material variant described by spec
func FromSpec(spec Spec) (Material, error) {
	registryMu.RLock()
	ctor, ok := registry[spec.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, spec.Type)
	}
	m, err := ctor(spec.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s material: %w", spec.Type, err)
	}
	return m, nil
}

// argOr returns args[i] or a default when the argument was omitted
func argOr(args []float64, i int, def float64) float64 {
	if i < len(args) {
		return args[i]
	}
	return def
}
