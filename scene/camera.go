package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/achilleasa/lumen/types"
)

// The camera type controls the scene camera. Cameras model a thin lens
// (defocus blur) and a shutter that stays open over [ShutterOpen, ShutterClose]
// (motion blur).
type Camera struct {
	LookFrom types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Vertical field of view in degrees.
	FOV float64

	Aperture  float64
	FocusDist float64

	ShutterOpen  float64
	ShutterClose float64

	// Values calculated by SetupProjection.
	origin     types.Vec3
	lowerLeft  types.Vec3
	horizontal types.Vec3
	vertical   types.Vec3
	u, v       types.Vec3
	lensRadius float64
}

// Create a pinhole camera. Its focus distance defaults to the distance
// between lookFrom and lookAt.
func NewCamera(lookFrom, lookAt, up types.Vec3, fov float64) *Camera {
	return &Camera{
		LookFrom:  lookFrom,
		LookAt:    lookAt,
		Up:        up,
		FOV:       fov,
		FocusDist: lookAt.Sub(lookFrom).Len(),
	}
}

// Set lens aperture and focus distance.
func (c *Camera) SetLens(aperture, focusDist float64) {
	c.Aperture = aperture
	c.FocusDist = focusDist
}

// Set shutter open and close times.
func (c *Camera) SetShutter(open, close float64) {
	c.ShutterOpen = open
	c.ShutterClose = close
}

// Setup the camera viewport for the given frame aspect ratio. This method
// must be called before generating any rays.
func (c *Camera) SetupProjection(aspect float64) error {
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("camera: invalid field of view %f", c.FOV)
	}
	if c.LookFrom == c.LookAt {
		return fmt.Errorf("camera: look-from and look-at points must differ")
	}

	focusDist := c.FocusDist
	if focusDist <= 0 {
		focusDist = c.LookAt.Sub(c.LookFrom).Len()
	}

	h := math.Tan(c.FOV * math.Pi / 360.0)
	viewportH := 2.0 * h
	viewportW := aspect * viewportH

	w := c.LookFrom.Sub(c.LookAt).Normalize()
	c.u = c.Up.Cross(w).Normalize()
	c.v = w.Cross(c.u)

	c.origin = c.LookFrom
	c.horizontal = c.u.Mul(focusDist * viewportW)
	c.vertical = c.v.Mul(focusDist * viewportH)
	c.lowerLeft = c.origin.Sub(c.horizontal.Mul(0.5)).Sub(c.vertical.Mul(0.5)).Sub(w.Mul(focusDist))
	c.lensRadius = c.Aperture / 2.0
	return nil
}

// Generate a ray through the viewport coordinates (s, t) where (0, 0) is the
// lower-left viewport corner.
func (c *Camera) GetRay(s, t float64, rng *rand.Rand) types.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := types.RandInUnitDisk(rng).Mul(c.lensRadius)
		origin = origin.Add(c.u.Mul(rd[0])).Add(c.v.Mul(rd[1]))
	}

	time := c.ShutterOpen
	if c.ShutterClose > c.ShutterOpen {
		time = types.RandRange(rng, c.ShutterOpen, c.ShutterClose)
	}

	dir := c.lowerLeft.Add(c.horizontal.Mul(s)).Add(c.vertical.Mul(t)).Sub(origin)
	return types.NewRay(origin, dir, time)
}
