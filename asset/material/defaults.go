package material

import (
	"fmt"
	"strings"

	"github.com/achilleasa/lumen/types"
)

// Indices of refraction for common dielectrics.
var KnownIORs = map[string]float64{
	"Air":     1.0,
	"Water":   1.333,
	"Glass":   1.5,
	"Diamond": 2.42,
}

var (
	DefaultAlbedo   = types.Vec3{0.5, 0.5, 0.5}
	DefaultRadiance = types.Vec3{1.0, 1.0, 1.0}
	DefaultFuzz     = 0.0
	DefaultIOR      = KnownIORs["Glass"]
)

// Lookup the IOR of a named medium. Names are matched case-insensitively.
func IOR(name string) (float64, error) {
	for medium, ior := range KnownIORs {
		if strings.EqualFold(medium, name) {
			return ior, nil
		}
	}
	return 0, fmt.Errorf("material: unknown medium %q", name)
}
