package scene

import "github.com/taigrr/airframe/pkg/math3d"

// Scene is the root of a graph.
type Scene struct {
	Object

	// AutoUpdate lets backends refresh world matrices before each draw.
	AutoUpdate bool
	Background *Color
}

// New creates an empty scene with auto-update enabled.
func New() *Scene {
	return &Scene{Object: newObject("scene"), AutoUpdate: true}
}

// Lights returns every light in the graph.
func (s *Scene) Lights() []Light {
	var lights []Light
	Traverse(s, func(n Node) {
		if l, ok := n.(Light); ok {
			lights = append(lights, l)
		}
	})
	return lights
}

// Meshes returns every visible mesh in the graph.
func (s *Scene) Meshes() []*Mesh {
	var meshes []*Mesh
	Traverse(s, func(n Node) {
		if m, ok := n.(*Mesh); ok && m.Visible && m.Geometry != nil {
			meshes = append(meshes, m)
		}
	})
	return meshes
}

// Lighting is the light of a scene reduced to the terms a lambert shader needs.
type Lighting struct {
	Ambient     Color
	Directional []DirectionalTerm
}

// DirectionalTerm is one directional light in world space.
type DirectionalTerm struct {
	Direction math3d.Vec3 // unit vector toward the light
	Radiance  Color       // color times intensity
}

// Lighting collects the scene's lights using their current world matrices.
func (s *Scene) Lighting() Lighting {
	var l Lighting
	for _, light := range s.Lights() {
		switch light := light.(type) {
		case *AmbientLight:
			l.Ambient.R += light.Color.R * light.Intensity
			l.Ambient.G += light.Color.G * light.Intensity
			l.Ambient.B += light.Color.B * light.Intensity
		case *DirectionalLight:
			l.Directional = append(l.Directional, DirectionalTerm{
				Direction: light.Direction(),
				Radiance:  light.Color.Scale(light.Intensity),
			})
		}
	}
	return l
}
