package scene

import "github.com/taigrr/airframe/pkg/math3d"

// Light is implemented by every light node.
type Light interface {
	Node
	isLight()
}

// AmbientLight lights every surface equally.
type AmbientLight struct {
	Object
	Color     Color
	Intensity float64
}

// NewAmbientLight creates an ambient light from a 0xRRGGBB color.
func NewAmbientLight(hex uint32) *AmbientLight {
	return &AmbientLight{Object: newObject("ambient"), Color: HexColor(hex), Intensity: 1}
}

func (*AmbientLight) isLight() {}

// DirectionalLight shines parallel rays from its world position toward the
// origin.
type DirectionalLight struct {
	Object
	Color     Color
	Intensity float64
}

// NewDirectionalLight creates a directional light.
func NewDirectionalLight(color Color, intensity float64) *DirectionalLight {
	l := &DirectionalLight{Object: newObject("directional"), Color: color, Intensity: intensity}
	l.Position = math3d.Up()
	return l
}

func (*DirectionalLight) isLight() {}

// Direction returns the unit vector from the lit surface toward the light.
func (l *DirectionalLight) Direction() math3d.Vec3 {
	return l.WorldPosition().Normalize()
}
