package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// plyProperty is a property definition from a PLY header
type plyProperty struct {
	name      string
	dataType  string
	isList    bool
	countType string // For list properties, the type of the count
}

// plyElement is an element block ("vertex", "face", ...) from a PLY header
type plyElement struct {
	name  string
	count int
	props []plyProperty
}

// PLYMesh is the geometry read from a PLY file
type PLYMesh struct {
	Vertices []core.Vec3
	Colors   []core.Color // Per-vertex colors in [0,1]; empty if the file has none
	Faces    [][3]int     // Polygons are fan-triangulated
}

// LoadPLY reads an ASCII or binary little-endian PLY file
func LoadPLY(filename string) (*PLYMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

// ReadPLY parses PLY data from r
func ReadPLY(r io.Reader) (*PLYMesh, error) {
	reader := bufio.NewReader(r)
	format, elements, err := readPLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values valueReader
	switch format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValues{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValues{reader: reader}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", format)
	}

	mesh := &PLYMesh{}
	for _, element := range elements {
		switch element.name {
		case "vertex":
			err = readVertices(values, element, mesh)
		case "face":
			err = readFaces(values, element, mesh)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s data: %w", element.name, err)
		}
	}

	for i, face := range mesh.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(mesh.Vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d", i, idx, len(mesh.Vertices))
			}
		}
	}
	return mesh, nil
}

// readPLYHeader consumes the header through "end_header"
func readPLYHeader(reader *bufio.Reader) (string, []plyElement, error) {
	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return "", nil, fmt.Errorf("missing ply magic number")
	}

	var format string
	var elements []plyElement
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", nil, fmt.Errorf("unterminated header: %w", err)
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if format == "" {
				return "", nil, fmt.Errorf("header has no format line")
			}
			return format, elements, nil
		case "format":
			if len(parts) < 2 {
				return "", nil, fmt.Errorf("invalid format line: %q", strings.TrimSpace(line))
			}
			format = parts[1]
		case "element":
			if len(parts) < 3 {
				return "", nil, fmt.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return "", nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			elements = append(elements, plyElement{name: parts[1], count: count})
		case "property":
			if len(elements) == 0 {
				return "", nil, fmt.Errorf("property before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return "", nil, err
			}
			last := &elements[len(elements)-1]
			last.props = append(last.props, prop)
		}
	}
}

func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		return plyProperty{isList: true, countType: parts[1], dataType: parts[2], name: parts[3]}, nil
	}
	if len(parts) >= 2 && parts[0] != "list" {
		return plyProperty{dataType: parts[0], name: parts[1]}, nil
	}
	return plyProperty{}, fmt.Errorf("invalid property definition: %v", parts)
}

func readVertices(values valueReader, element plyElement, mesh *PLYMesh) error {
	hasColor := false
	for _, p := range element.props {
		if p.name == "red" || p.name == "r" {
			hasColor = true
		}
	}

	mesh.Vertices = make([]core.Vec3, 0, element.count)
	if hasColor {
		mesh.Colors = make([]core.Color, 0, element.count)
	}

	for i := 0; i < element.count; i++ {
		var pos core.Vec3
		var color core.Color
		for _, prop := range element.props {
			if prop.isList {
				if err := skipList(values, prop); err != nil {
					return err
				}
				continue
			}
			v, err := values.next(prop.dataType)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			switch prop.name {
			case "x":
				pos.X = v
			case "y":
				pos.Y = v
			case "z":
				pos.Z = v
			case "red", "r":
				color.R = colorChannel(v, prop.dataType)
			case "green", "g":
				color.G = colorChannel(v, prop.dataType)
			case "blue", "b":
				color.B = colorChannel(v, prop.dataType)
			}
		}
		mesh.Vertices = append(mesh.Vertices, pos)
		if hasColor {
			mesh.Colors = append(mesh.Colors, color)
		}
	}
	return nil
}

// colorChannel maps integer channels from [0,255] to [0,1]; float channels are kept
func colorChannel(v float64, dataType string) float64 {
	switch dataType {
	case "float", "float32", "double", "float64":
		return v
	}
	return v / 255.0
}

func readFaces(values valueReader, element plyElement, mesh *PLYMesh) error {
	for i := 0; i < element.count; i++ {
		for _, prop := range element.props {
			if !prop.isList || (prop.name != "vertex_indices" && prop.name != "vertex_index") {
				if err := skipProperty(values, prop); err != nil {
					return err
				}
				continue
			}

			n, err := values.next(prop.countType)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			if n < 3 {
				return fmt.Errorf("face %d has %d vertices", i, int(n))
			}
			indices := make([]int, int(n))
			for j := range indices {
				v, err := values.next(prop.dataType)
				if err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				indices[j] = int(v)
			}
			for j := 1; j+1 < len(indices); j++ {
				mesh.Faces = append(mesh.Faces, [3]int{indices[0], indices[j], indices[j+1]})
			}
		}
	}
	return nil
}

func skipElement(values valueReader, element plyElement) error {
	for i := 0; i < element.count; i++ {
		for _, prop := range element.props {
			if err := skipProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipProperty(values valueReader, prop plyProperty) error {
	if prop.isList {
		return skipList(values, prop)
	}
	_, err := values.next(prop.dataType)
	return err
}

func skipList(values valueReader, prop plyProperty) error {
	n, err := values.next(prop.countType)
	if err != nil {
		return err
	}
	for j := 0; j < int(n); j++ {
		if _, err := values.next(prop.dataType); err != nil {
			return err
		}
	}
	return nil
}

// valueReader yields successive scalar values of the body, widened to float64
type valueReader interface {
	next(dataType string) (float64, error)
}

type asciiValues struct {
	scanner *bufio.Scanner
}

func (a *asciiValues) next(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, a.scanner.Text())
	}
	return v, nil
}

type binaryValues struct {
	reader io.Reader
	buf    [8]byte
}

func (b *binaryValues) next(dataType string) (float64, error) {
	size := typeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}
	le := binary.LittleEndian
	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(le.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(le.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(le.Uint32(data))), nil
	case "uint", "uint32":
		return float64(le.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(le.Uint32(data))), nil
	default:
		return math.Float64frombits(le.Uint64(data)), nil
	}
}

// typeSize returns the size in bytes of a PLY data type, or 0 if unknown
func typeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// MeshTransform places mesh vertices in the scene: scaled about the origin, then offset
type MeshTransform struct {
	Scale  float64   `json:"scale"`
	Offset core.Vec3 `json:"offset"`
}

func (t MeshTransform) apply(p core.Vec3) core.Vec3 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return p.Multiply(scale).Add(t.Offset)
}

// Triangles converts the mesh into named triangles "<name>_<i>". Vertex colors are used
// when present, otherwise every vertex gets color. Degenerate faces are dropped.
func (m *PLYMesh) Triangles(name string, color core.Color, mat material.Material, emissive bool, transform MeshTransform) []geometry.Geometry {
	triangles := make([]geometry.Geometry, 0, len(m.Faces))
	for _, face := range m.Faces {
		var v [3]core.Vec3
		colors := [3]core.Color{color, color, color}
		for k, idx := range face {
			v[k] = transform.apply(m.Vertices[idx])
			if len(m.Colors) > 0 {
				colors[k] = m.Colors[idx]
			}
		}
		if v[1].Subtract(v[0]).Cross(v[2].Subtract(v[0])).LengthSquared() == 0 {
			continue
		}
		triName := fmt.Sprintf("%s_%d", name, len(triangles))
		triangles = append(triangles, geometry.NewTriangle(triName, v[0], v[1], v[2], colors, mat, emissive))
	}
	return triangles
}
