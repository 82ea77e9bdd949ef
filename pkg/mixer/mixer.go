// Package mixer holds the catalog of flight controller mixer types and the
// model asset each one is drawn with.
package mixer

import (
	"errors"
	"fmt"
)

// ErrUnknownMixer is returned for mixer ids outside the catalog.
var ErrUnknownMixer = errors.New("unknown mixer type")

const (
	// CustomImage marks profiles that have no dedicated model.
	CustomImage = "custom"
	// FallbackAsset is drawn for every CustomImage profile.
	FallbackAsset = "fallback"
)

// Profile describes one mixer type.
type Profile struct {
	Name     string
	Position int
	Model    string
	Image    string
	Motors   int
	Servos   bool
}

// ID returns the 1-based mixer-type identifier.
func (p Profile) ID() int {
	return p.Position + 1
}

// Asset returns the model asset name, substituting FallbackAsset for CustomImage.
func (p Profile) Asset() string {
	if p.Image == CustomImage {
		return FallbackAsset
	}
	return p.Image
}

var profiles = [...]Profile{
	{Name: "Tricopter", Position: 0, Model: "tricopter", Image: "tri", Motors: 3, Servos: true},
	{Name: "Quad +", Position: 1, Model: "quad_x", Image: "quad_p", Motors: 4},
	{Name: "Quad X", Position: 2, Model: "quad_x", Image: "quad_x", Motors: 4},
	{Name: "Bicopter", Position: 3, Model: "custom", Image: "bicopter", Motors: 2, Servos: true},
	{Name: "Gimbal", Position: 4, Model: "custom", Image: "custom", Motors: 0, Servos: true},
	{Name: "Y6", Position: 5, Model: "y6", Image: "y6", Motors: 6},
	{Name: "Hex +", Position: 6, Model: "hex_plus", Image: "hex_p", Motors: 6},
	{Name: "Flying Wing", Position: 7, Model: "custom", Image: "flying_wing", Motors: 1, Servos: true},
	{Name: "Y4", Position: 8, Model: "y4", Image: "y4", Motors: 4},
	{Name: "Hex X", Position: 9, Model: "hex_x", Image: "hex_x", Motors: 6},
	{Name: "Octo X8", Position: 10, Model: "custom", Image: "octo_x8", Motors: 8},
	{Name: "Octo Flat +", Position: 11, Model: "custom", Image: "octo_flat_p", Motors: 8},
	{Name: "Octo Flat X", Position: 12, Model: "custom", Image: "octo_flat_x", Motors: 8},
	{Name: "Airplane", Position: 13, Model: "custom", Image: "airplane", Motors: 1, Servos: true},
	{Name: "Heli 120", Position: 14, Model: "custom", Image: "custom", Motors: 1, Servos: true},
	{Name: "Heli 90", Position: 15, Model: "custom", Image: "custom", Motors: 0, Servos: true},
	{Name: "V-tail Quad", Position: 16, Model: "quad_vtail", Image: "vtail_quad", Motors: 4},
	{Name: "Hex H", Position: 17, Model: "custom", Image: "custom", Motors: 6},
	{Name: "PPM to SERVO", Position: 18, Model: "custom", Image: "custom", Motors: 0, Servos: true},
	{Name: "Dualcopter", Position: 19, Model: "custom", Image: "custom", Motors: 2, Servos: true},
	{Name: "Singlecopter", Position: 20, Model: "custom", Image: "custom", Motors: 1, Servos: true},
	{Name: "A-tail Quad", Position: 21, Model: "quad_atail", Image: "atail_quad", Motors: 4},
	{Name: "Custom", Position: 22, Model: "custom", Image: "custom", Motors: 0},
	{Name: "Custom Airplane", Position: 23, Model: "custom", Image: "custom", Motors: 1, Servos: true},
	{Name: "Custom Tricopter", Position: 24, Model: "custom", Image: "custom", Motors: 3, Servos: true},
	{Name: "Quad X 1234", Position: 25, Model: "quad_x", Image: "quad_x_1234", Motors: 4},
	{Name: "Octo X8 +", Position: 26, Model: "custom", Image: "custom", Motors: 8},
}

// Count is the number of catalog entries.
const Count = len(profiles)

// Lookup returns the profile for a 1-based mixer id.
func Lookup(id int) (Profile, error) {
	if id < 1 || id > Count {
		return Profile{}, fmt.Errorf("%w: %d (want 1-%d)", ErrUnknownMixer, id, Count)
	}
	return profiles[id-1], nil
}

// ResolveAsset returns the model asset name for a 1-based mixer id.
func ResolveAsset(id int) (string, error) {
	p, err := Lookup(id)
	if err != nil {
		return "", err
	}
	return p.Asset(), nil
}

// All returns a copy of the catalog in id order.
func All() []Profile {
	out := make([]Profile, Count)
	copy(out, profiles[:])
	return out
}
