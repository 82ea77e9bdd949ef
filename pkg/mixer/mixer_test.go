package mixer

import (
	"errors"
	"testing"
)

func TestResolveAsset(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{1, "tri"},
		{2, "quad_p"},
		{3, "quad_x"},
		{5, "fallback"},
		{17, "vtail_quad"},
		{22, "atail_quad"},
		{23, "fallback"},
		{26, "quad_x_1234"},
		{27, "fallback"},
	}

	for _, tt := range tests {
		got, err := ResolveAsset(tt.id)
		if err != nil {
			t.Errorf("ResolveAsset(%d) failed: %v", tt.id, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveAsset(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestEveryProfileResolves(t *testing.T) {
	if Count != 27 {
		t.Fatalf("Catalog should have 27 entries, has %d", Count)
	}

	for id := 1; id <= Count; id++ {
		p, err := Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%d) failed: %v", id, err)
		}
		if p.ID() != id {
			t.Errorf("Profile %q has ID %d, want %d", p.Name, p.ID(), id)
		}

		asset, err := ResolveAsset(id)
		if err != nil {
			t.Fatalf("ResolveAsset(%d) failed: %v", id, err)
		}
		if asset == "" {
			t.Errorf("Mixer %d resolved to an empty asset", id)
		}
		if asset == CustomImage {
			t.Errorf("Mixer %d resolved to the custom sentinel", id)
		}
		if p.Image == CustomImage && asset != FallbackAsset {
			t.Errorf("Mixer %d with custom image resolved to %q", id, asset)
		}
	}
}

func TestLookupOutOfRange(t *testing.T) {
	for _, id := range []int{-1, 0, 28, 100} {
		if _, err := Lookup(id); !errors.Is(err, ErrUnknownMixer) {
			t.Errorf("Lookup(%d) error = %v, want ErrUnknownMixer", id, err)
		}
		if _, err := ResolveAsset(id); !errors.Is(err, ErrUnknownMixer) {
			t.Errorf("ResolveAsset(%d) error = %v, want ErrUnknownMixer", id, err)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	if len(all) != Count {
		t.Fatalf("All() returned %d profiles, want %d", len(all), Count)
	}

	all[0].Image = "mutated"
	if p, _ := Lookup(1); p.Image != "tri" {
		t.Errorf("Mutating All() result changed the catalog: %q", p.Image)
	}
}
