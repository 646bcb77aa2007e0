package scene

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"

	"github.com/achilleasa/lumen/types"
	"github.com/olekukonko/tablewriter"
)

var (
	ErrNoCamera = errors.New("scene: no camera defined")
	ErrNoWorld  = errors.New("scene: no world geometry defined")
)

// A renderable scene. The scene owns its primitives; World is the
// (usually BVH-accelerated) structure that answers ray queries over them.
type Scene struct {
	Camera *Camera

	// Top-level scene primitives.
	Primitives []Primitive

	// Acceleration structure over Primitives.
	World Primitive

	// Light sampling targets. A nil or empty list disables light sampling.
	Lights PrimitiveList

	// Radiance returned for rays that escape the scene.
	Background types.Vec3
}

// Create an empty scene.
func NewScene() *Scene {
	return &Scene{
		Primitives: make([]Primitive, 0),
		Lights:     make(PrimitiveList, 0),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a primitive to the scene.
func (s *Scene) AddPrimitive(primitive Primitive) error {
	if primitive == nil {
		return fmt.Errorf("scene: attempted to add a nil primitive")
	}
	for _, prim := range s.Primitives {
		if prim == primitive {
			return fmt.Errorf("scene: primitive already added")
		}
	}
	s.Primitives = append(s.Primitives, primitive)
	return nil
}

// Add a light sampling target.
func (s *Scene) AddLight(light Primitive) error {
	if light == nil {
		return fmt.Errorf("scene: attempted to add a nil light")
	}
	if _, ok := light.BBox(0, 1); !ok {
		return fmt.Errorf("scene: light sampling targets must be bounded")
	}
	s.Lights = append(s.Lights, light)
	return nil
}

// Returns true if the scene defines light sampling targets.
func (s *Scene) HasLights() bool {
	return len(s.Lights) != 0
}

// Find the nearest intersection with the scene geometry.
func (s *Scene) Hit(ray types.Ray, tMin, tMax float64, rng *rand.Rand) (HitRecord, bool) {
	if s.World == nil {
		return HitRecord{}, false
	}
	return s.World.Hit(ray, tMin, tMax, rng)
}

// Ensure that the scene can be rendered.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return ErrNoCamera
	}
	if s.World == nil && len(s.Primitives) != 0 {
		return ErrNoWorld
	}
	return nil
}

// Build a tabular representation of scene statistics.
func (s *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Value"})
	table.Append([]string{"Geometry", "Primitives", fmt.Sprintf("%d", len(s.Primitives))})
	table.Append([]string{"", "Lights", fmt.Sprintf("%d", len(s.Lights))})

	if bvh, isBvh := s.World.(*Bvh); isBvh {
		stats := bvh.Stats()
		table.Append([]string{" ", " ", " "})
		table.Append([]string{"BVH", "Nodes", fmt.Sprintf("%d", stats.Nodes)})
		table.Append([]string{"", "Leafs", fmt.Sprintf("%d", stats.Leafs)})
		table.Append([]string{"", "Depth", fmt.Sprintf("%d", stats.MaxDepth)})
		table.Append([]string{"", "SAH cost", fmt.Sprintf("%3.2f", stats.SAHCost)})
	}

	if s.World != nil {
		if box, ok := s.World.BBox(0, 1); ok {
			table.Append([]string{"", "Bounds", fmt.Sprintf("%s - %s", fmtVec(box.Min), fmtVec(box.Max))})
		}
	}

	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Environment", "Background", fmtVec(s.Background)})
	if s.Camera != nil {
		table.Append([]string{"Camera", "Position", fmtVec(s.Camera.LookFrom)})
		table.Append([]string{"", "Look at", fmtVec(s.Camera.LookAt)})
		table.Append([]string{"", "FOV", fmt.Sprintf("%3.1f", s.Camera.FOV)})
		table.Append([]string{"", "Aperture", fmt.Sprintf("%3.2f", s.Camera.Aperture)})
		table.Append([]string{"", "Shutter", fmt.Sprintf("[%3.2f, %3.2f]", s.Camera.ShutterOpen, s.Camera.ShutterClose)})
	}

	table.Render()
	return buf.String()
}

func fmtVec(v types.Vec3) string {
	return fmt.Sprintf("(%3.3f, %3.3f, %3.3f)", v[0], v[1], v[2])
}
