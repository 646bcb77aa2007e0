package scene

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/achilleasa/lumen/types"
)

// A minimal sphere used to exercise traversal code without depending on the
// primitive package.
type testSphere struct {
	center types.Vec3
	radius float64
}

func (s *testSphere) Hit(ray types.Ray, tMin, tMax float64, _ *rand.Rand) (HitRecord, bool) {
	oc := ray.Origin.Sub(s.center)
	a := ray.Dir.LenSq()
	halfB := oc.Dot(ray.Dir)
	c := oc.LenSq() - s.radius*s.radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return HitRecord{}, false
	}
	sqrtD := math.Sqrt(disc)
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return HitRecord{}, false
		}
	}
	p := ray.At(root)
	return NewHitRecord(ray, root, p, p.Sub(s.center).Div(s.radius), 0, 0, nil), true
}

func (s *testSphere) BBox(_, _ float64) (AABB, bool) {
	r := types.Splat(s.radius)
	return AABB{Min: s.center.Sub(r), Max: s.center.Add(r)}, true
}

func (s *testSphere) PdfValue(_, _ types.Vec3, _ *rand.Rand) float64 { return 0 }

func (s *testSphere) Random(_ types.Vec3, _ *rand.Rand) types.Vec3 { return types.Vec3{1, 0, 0} }

// Build the arena by hand: root -> (branch -> (s0, s1), s2)
func makeTestBvh() *Bvh {
	prims := []Primitive{
		&testSphere{types.Vec3{-4, 0, 0}, 1},
		&testSphere{types.Vec3{0, 0, 0}, 1},
		&testSphere{types.Vec3{4, 0, 0}, 1},
	}
	bbox := func(i int) AABB {
		b, _ := prims[i].BBox(0, 1)
		return b
	}

	nodes := make([]BvhNode, 5)
	nodes[0].Bounds = Surround(Surround(bbox(0), bbox(1)), bbox(2))
	nodes[0].SetChildNodes(1, 4)
	nodes[1].Bounds = Surround(bbox(0), bbox(1))
	nodes[1].SetChildNodes(2, 3)
	nodes[2].Bounds = bbox(0)
	nodes[2].SetPrimitive(0)
	nodes[3].Bounds = bbox(1)
	nodes[3].SetPrimitive(1)
	nodes[4].Bounds = bbox(2)
	nodes[4].SetPrimitive(2)

	return NewBvh(nodes, prims)
}

func TestBvhCandidatesAndNearestHit(t *testing.T) {
	bvh := makeTestBvh()

	// Ray along +x passes through all three spheres; nearest is s0.
	ray := types.NewRay(types.Vec3{-10, 0, 0}, types.Vec3{1, 0, 0}, 0)
	candidates := bvh.Candidates(ray, 0, math.Inf(1))
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates; got %d", len(candidates))
	}
	rec, ok := bvh.Hit(ray, 0, math.Inf(1), nil)
	if !ok {
		t.Fatal("expected ray to hit the bvh")
	}
	if exp := 5.0; math.Abs(rec.T-exp) > 1e-9 {
		t.Fatalf("expected nearest hit at t = %f; got %f", exp, rec.T)
	}

	// Ray from the other side; nearest is s2.
	ray = types.NewRay(types.Vec3{10, 0, 0}, types.Vec3{-1, 0, 0}, 0)
	rec, ok = bvh.Hit(ray, 0, math.Inf(1), nil)
	if !ok || math.Abs(rec.T-5.0) > 1e-9 || rec.Point[0] != 5 {
		t.Fatalf("expected nearest hit at (5, 0, 0); got %v (hit: %t)", rec.Point, ok)
	}

	// Vertical ray through s2 only prunes the left subtree.
	ray = types.NewRay(types.Vec3{4, 10, 0}, types.Vec3{0, -1, 0}, 0)
	candidates = bvh.Candidates(ray, 0, math.Inf(1))
	if len(candidates) != 1 || candidates[0] != 2 {
		t.Fatalf("expected a single candidate (2); got %v", candidates)
	}

	// Miss
	ray = types.NewRay(types.Vec3{0, 10, 0}, types.Vec3{1, 0, 0}, 0)
	if _, ok = bvh.Hit(ray, 0, math.Inf(1), nil); ok {
		t.Fatal("expected ray to miss the bvh")
	}
}

func TestBvhBoundsAndStats(t *testing.T) {
	bvh := makeTestBvh()

	box, ok := bvh.BBox(0, 1)
	if !ok {
		t.Fatal("expected bvh to be bounded")
	}
	if box.Min != (types.Vec3{-5, -1, -1}) || box.Max != (types.Vec3{5, 1, 1}) {
		t.Fatalf("expected bvh bounds to be the root bounds; got %v", box)
	}

	stats := bvh.Stats()
	if stats.Nodes != 5 || stats.Leafs != 3 || stats.MaxDepth != 2 {
		t.Fatalf("expected stats {5 3 2}; got %v", stats)
	}

	// Root area 88, inner branch 56 and three leaves of 24 each.
	if exp := 216.0 / 88.0; math.Abs(stats.SAHCost-exp) > 1e-9 {
		t.Fatalf("expected SAH cost %f; got %f", exp, stats.SAHCost)
	}

	if _, ok = NewBvh(nil, nil).BBox(0, 1); ok {
		t.Fatal("expected an empty bvh to be unbounded")
	}
}

func TestPrimitiveList(t *testing.T) {
	list := PrimitiveList{
		&testSphere{types.Vec3{0, 0, -2}, 0.5},
		&testSphere{types.Vec3{0, 0, -5}, 0.5},
	}

	ray := types.NewRay(types.Vec3{}, types.Vec3{0, 0, -1}, 0)
	rec, ok := list.Hit(ray, 0.001, math.Inf(1), nil)
	if !ok || math.Abs(rec.T-1.5) > 1e-9 {
		t.Fatalf("expected closest hit at t = 1.5; got %f (hit: %t)", rec.T, ok)
	}
	if !rec.FrontFace || rec.Normal != (types.Vec3{0, 0, 1}) {
		t.Fatalf("expected front face hit with normal (0, 0, 1); got %v (front: %t)", rec.Normal, rec.FrontFace)
	}

	box, ok := list.BBox(0, 1)
	if !ok || box.Min != (types.Vec3{-0.5, -0.5, -5.5}) || box.Max != (types.Vec3{0.5, 0.5, -1.5}) {
		t.Fatalf("unexpected list bounds %v", box)
	}

	if _, ok = (PrimitiveList{}).BBox(0, 1); ok {
		t.Fatal("expected an empty list to be unbounded")
	}
}

func TestHitRecordFaceNormal(t *testing.T) {
	ray := types.NewRay(types.Vec3{}, types.Vec3{0, 0, 1}, 0)
	rec := NewHitRecord(ray, 1, types.Vec3{0, 0, 1}, types.Vec3{0, 0, 1}, 0, 0, nil)
	if rec.FrontFace {
		t.Fatal("expected a ray travelling along the outward normal to hit the back face")
	}
	if rec.Normal != (types.Vec3{0, 0, -1}) {
		t.Fatalf("expected normal to be flipped against the ray; got %v", rec.Normal)
	}
}

func TestCameraRays(t *testing.T) {
	cam := NewCamera(types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, types.Vec3{0, 1, 0}, 90)
	if err := cam.SetupProjection(1); err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	ray := cam.GetRay(0.5, 0.5, rng)
	if d := ray.Dir.Normalize().Sub(types.Vec3{0, 0, -1}).Len(); d > 1e-9 {
		t.Fatalf("expected central ray to point towards -z; got %v", ray.Dir)
	}

	// With a 90 degree fov the lower-left corner sits at (-1, -1, -1)
	ray = cam.GetRay(0, 0, rng)
	if d := ray.Dir.Sub(types.Vec3{-1, -1, -1}).Len(); d > 1e-9 {
		t.Fatalf("expected corner ray direction (-1, -1, -1); got %v", ray.Dir)
	}

	cam.SetShutter(0, 1)
	for i := 0; i < 100; i++ {
		if ray = cam.GetRay(0.5, 0.5, rng); ray.Time < 0 || ray.Time >= 1 {
			t.Fatalf("expected ray time in [0, 1); got %f", ray.Time)
		}
	}

	bad := NewCamera(types.Vec3{}, types.Vec3{}, types.Vec3{0, 1, 0}, 90)
	if err := bad.SetupProjection(1); err == nil {
		t.Fatal("expected an error for a degenerate camera")
	}
}

func TestSceneSetup(t *testing.T) {
	sc := NewScene()
	if err := sc.Validate(); err != ErrNoCamera {
		t.Fatalf("expected error %v; got %v", ErrNoCamera, err)
	}

	prim := &testSphere{types.Vec3{}, 1}
	if err := sc.AddPrimitive(prim); err != nil {
		t.Fatal(err)
	}
	expError := "scene: primitive already added"
	if err := sc.AddPrimitive(prim); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}

	sc.SetCamera(NewCamera(types.Vec3{0, 0, 5}, types.Vec3{}, types.Vec3{0, 1, 0}, 40))
	if err := sc.Validate(); err != ErrNoWorld {
		t.Fatalf("expected error %v; got %v", ErrNoWorld, err)
	}

	sc.World = PrimitiveList(sc.Primitives)
	if err := sc.Validate(); err != nil {
		t.Fatal(err)
	}

	if sc.HasLights() {
		t.Fatal("expected scene without lights")
	}
	if err := sc.AddLight(prim); err != nil {
		t.Fatal(err)
	}
	if !sc.HasLights() {
		t.Fatal("expected scene with lights")
	}

	stats := sc.Stats()
	if !strings.Contains(stats, "Primitives") || !strings.Contains(stats, "Background") {
		t.Fatalf("expected stats table to list primitives and background; got\n%s", stats)
	}

	sc.World = makeTestBvh()
	if stats = sc.Stats(); !strings.Contains(stats, "SAH cost") {
		t.Fatalf("expected stats table to list the bvh SAH cost; got\n%s", stats)
	}
}
