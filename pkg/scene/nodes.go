package scene

import (
	"github.com/taigrr/airframe/pkg/math3d"
	"github.com/taigrr/airframe/pkg/models"
)

// Group is an empty node used to transform its children together.
type Group struct {
	Object
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	return &Group{Object: newObject(name)}
}

// Mesh places geometry in the graph.
type Mesh struct {
	Object
	Geometry *models.Mesh
}

// NewMesh wraps geometry in a scene node.
func NewMesh(geometry *models.Mesh) *Mesh {
	return &Mesh{Object: newObject(geometry.Name), Geometry: geometry}
}

// WorldBoundingSphere transforms the geometry's bounding sphere to world space.
func (m *Mesh) WorldBoundingSphere() models.BoundingSphere {
	s := m.Geometry.Sphere
	return models.BoundingSphere{
		Center: m.MatrixWorld.MulVec3(s.Center),
		Radius: s.Radius * m.MatrixWorld.MaxScaleOnAxis(),
	}
}

// Color is a linear RGB color with components in 0-1.
type Color struct {
	R, G, B float64
}

// HexColor converts 0xRRGGBB to a Color.
func HexColor(hex uint32) Color {
	return Color{
		R: float64(hex>>16&0xff) / 255,
		G: float64(hex>>8&0xff) / 255,
		B: float64(hex&0xff) / 255,
	}
}

// White is full intensity on every channel.
var White = Color{1, 1, 1}

// Vec3 returns the color as a vector for shading arithmetic.
func (c Color) Vec3() math3d.Vec3 {
	return math3d.V3(c.R, c.G, c.B)
}

// Scale multiplies every channel by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}
