package primitive

import (
	"math"
	"math/rand"
	"testing"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

const testEpsilon = 1e-9

func TestSphereHit(t *testing.T) {
	s := NewSphere(types.Vec3{0, 0, -3}, 1, nil)

	type spec struct {
		ray      types.Ray
		tMin     float64
		expHit   bool
		expT     float64
		expFront bool
	}
	specs := []spec{
		{types.NewRay(types.Vec3{}, types.Vec3{0, 0, -1}, 0), 0.001, true, 2, true},
		// origin inside the sphere hits the far side from within
		{types.NewRay(types.Vec3{0, 0, -3}, types.Vec3{0, 0, -1}, 0), 0.001, true, 1, false},
		{types.NewRay(types.Vec3{}, types.Vec3{0, 1, 0}, 0), 0.001, false, 0, false},
		// both roots behind tMin
		{types.NewRay(types.Vec3{}, types.Vec3{0, 0, -1}, 0), 5, false, 0, false},
	}

	for index, s2 := range specs {
		rec, ok := s.Hit(s2.ray, s2.tMin, math.Inf(1), nil)
		if ok != s2.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s2.expHit, ok)
		}
		if !ok {
			continue
		}
		if math.Abs(rec.T-s2.expT) > testEpsilon {
			t.Fatalf("[spec %d] expected t = %f; got %f", index, s2.expT, rec.T)
		}
		if rec.FrontFace != s2.expFront {
			t.Fatalf("[spec %d] expected front face to be %t; got %t", index, s2.expFront, rec.FrontFace)
		}
		if rec.Normal.Dot(s2.ray.Dir) >= 0 {
			t.Fatalf("[spec %d] expected normal %v to face against the ray", index, rec.Normal)
		}
	}
}

func TestSphereLightSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := NewSphere(types.Vec3{0, 10, 0}, 2, nil)
	origin := types.Vec3{}

	cosThetaMax := math.Sqrt(1 - 4.0/100.0)
	expPdf := 1 / (2 * math.Pi * (1 - cosThetaMax))
	for i := 0; i < 1000; i++ {
		dir := s.Random(origin, rng)
		pdf := s.PdfValue(origin, dir, rng)
		if math.Abs(pdf-expPdf) > 1e-6 {
			t.Fatalf("[sample %d] expected pdf %f for a direction towards the sphere; got %f", i, expPdf, pdf)
		}
	}

	if pdf := s.PdfValue(origin, types.Vec3{0, -1, 0}, rng); pdf != 0 {
		t.Fatalf("expected zero pdf for a direction missing the sphere; got %f", pdf)
	}
}

func TestMovingSphere(t *testing.T) {
	s := NewMovingSphere(types.Vec3{0, 0, 0}, types.Vec3{0, 2, 0}, 0, 1, 0.5, nil)

	if c := s.Center(0.5); c != (types.Vec3{0, 1, 0}) {
		t.Fatalf("expected center at t=0.5 to be (0, 1, 0); got %v", c)
	}

	box, _ := s.BBox(0, 1)
	if box.Min != (types.Vec3{-0.5, -0.5, -0.5}) || box.Max != (types.Vec3{0.5, 2.5, 0.5}) {
		t.Fatalf("expected bbox to cover the whole motion; got %v", box)
	}

	ray := types.NewRay(types.Vec3{0, 2, 5}, types.Vec3{0, 0, -1}, 1)
	if _, ok := s.Hit(ray, 0, math.Inf(1), nil); !ok {
		t.Fatal("expected ray cast at t=1 to hit the displaced sphere")
	}
	ray.Time = 0
	if _, ok := s.Hit(ray, 0, math.Inf(1), nil); ok {
		t.Fatal("expected ray cast at t=0 to miss the sphere")
	}
}

func TestMovingSphereLightSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := NewMovingSphere(types.Vec3{0, 9, 0}, types.Vec3{0, 11, 0}, 0, 1, 2, nil)
	origin := types.Vec3{}

	// Samples target the sphere at the middle of its motion
	cosThetaMax := math.Sqrt(1 - 4.0/100.0)
	expPdf := 1 / (2 * math.Pi * (1 - cosThetaMax))
	for i := 0; i < 1000; i++ {
		dir := s.Random(origin, rng)
		if cosTheta := dir.Normalize()[1]; cosTheta < cosThetaMax-1e-9 {
			t.Fatalf("[sample %d] expected direction %v inside the cone towards (0, 10, 0)", i, dir)
		}
		if pdf := s.PdfValue(origin, dir, rng); math.Abs(pdf-expPdf) > 1e-6 {
			t.Fatalf("[sample %d] expected pdf %f; got %f", i, expPdf, pdf)
		}
	}

	if pdf := s.PdfValue(origin, types.Vec3{1, 0, 0}, rng); pdf != 0 {
		t.Fatalf("expected zero pdf for a direction missing the sphere; got %f", pdf)
	}
}

func TestSphereLightSamplingFromInside(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	s := NewSphere(types.Vec3{}, 1, nil)

	for specIndex, origin := range []types.Vec3{{0.2, 0, 0}, {1, 0, 0}, {0, 0, 0}} {
		if pdf := s.PdfValue(origin, types.Vec3{1, 0, 0}, rng); pdf != 1/(4*math.Pi) {
			t.Fatalf("[spec %d] expected uniform sphere pdf; got %f", specIndex, pdf)
		}
		for i := 0; i < 100; i++ {
			dir := s.Random(origin, rng)
			if dir.HasNaN() || math.Abs(dir.Len()-1) > 1e-9 {
				t.Fatalf("[spec %d] expected a unit direction; got %v", specIndex, dir)
			}
		}
	}
}

func TestRects(t *testing.T) {
	type spec struct {
		rect      *Rect
		ray       types.Ray
		expHit    bool
		expNormal types.Vec3
		expU      float64
		expV      float64
	}
	specs := []spec{
		{NewXYRect(0, 2, 0, 2, -1, nil), types.NewRay(types.Vec3{0.5, 1.5, 0}, types.Vec3{0, 0, -1}, 0), true, types.Vec3{0, 0, 1}, 0.25, 0.75},
		{NewXZRect(0, 2, 0, 2, 1, nil), types.NewRay(types.Vec3{1, 0, 1}, types.Vec3{0, 1, 0}, 0), true, types.Vec3{0, -1, 0}, 0.5, 0.5},
		{NewYZRect(0, 2, 0, 2, 3, nil), types.NewRay(types.Vec3{0, 1, 1}, types.Vec3{1, 0, 0}, 0), true, types.Vec3{-1, 0, 0}, 0.5, 0.5},
		// outside extents
		{NewXYRect(0, 2, 0, 2, -1, nil), types.NewRay(types.Vec3{3, 1, 0}, types.Vec3{0, 0, -1}, 0), false, types.Vec3{}, 0, 0},
		// parallel ray
		{NewXYRect(0, 2, 0, 2, -1, nil), types.NewRay(types.Vec3{1, 1, -1}, types.Vec3{1, 0, 0}, 0), false, types.Vec3{}, 0, 0},
	}

	for index, s := range specs {
		rec, ok := s.rect.Hit(s.ray, 0, math.Inf(1), nil)
		if ok != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, ok)
		}
		if !ok {
			continue
		}
		if rec.Normal != s.expNormal {
			t.Fatalf("[spec %d] expected normal %v; got %v", index, s.expNormal, rec.Normal)
		}
		if math.Abs(rec.U-s.expU) > testEpsilon || math.Abs(rec.V-s.expV) > testEpsilon {
			t.Fatalf("[spec %d] expected uv (%f, %f); got (%f, %f)", index, s.expU, s.expV, rec.U, rec.V)
		}
	}

	box, _ := NewXZRect(0, 2, 0, 3, 1, nil).BBox(0, 1)
	if box.Min[1] != 1-scene.PlanarPad || box.Max[1] != 1+scene.PlanarPad || box.Max[2] != 3 {
		t.Fatalf("expected padded rect bbox; got %v", box)
	}
}

func TestRectLightSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	light := NewXZRect(-0.5, 0.5, -0.5, 0.5, 10, nil)
	origin := types.Vec3{}

	// E[1/pdf] over light samples equals the solid angle subtended by the rect.
	var sum float64
	samples := 20000
	for i := 0; i < samples; i++ {
		dir := light.Random(origin, rng)
		pdf := light.PdfValue(origin, dir, rng)
		if pdf <= 0 {
			t.Fatalf("[sample %d] expected positive pdf for a direction towards the light; got %f", i, pdf)
		}
		sum += 1 / pdf
	}

	// Solid angle of a square of side a at distance d on the axis.
	a, d := 1.0, 10.0
	expSolidAngle := 4 * math.Asin(a*a/(a*a+4*d*d))
	if got := sum / float64(samples); math.Abs(got-expSolidAngle)/expSolidAngle > 0.02 {
		t.Fatalf("expected solid angle estimate %f; got %f", expSolidAngle, got)
	}
}

func TestBox(t *testing.T) {
	b := NewBox(types.Vec3{0, 0, 0}, types.Vec3{1, 1, 1}, nil)

	ray := types.NewRay(types.Vec3{0.5, 0.5, 5}, types.Vec3{0, 0, -1}, 0)
	rec, ok := b.Hit(ray, 0.001, math.Inf(1), nil)
	if !ok || math.Abs(rec.T-4) > testEpsilon {
		t.Fatalf("expected hit on the front face at t = 4; got %f (hit: %t)", rec.T, ok)
	}
	if rec.Normal != (types.Vec3{0, 0, 1}) {
		t.Fatalf("expected front face normal (0, 0, 1); got %v", rec.Normal)
	}
}

func TestTransforms(t *testing.T) {
	box := NewBox(types.Vec3{0, 0, 0}, types.Vec3{2, 1, 1}, nil)

	rotated := NewRotateY(box, 90)
	rbox, _ := rotated.BBox(0, 1)
	expMin := types.Vec3{0, 0, -2}
	expMax := types.Vec3{1, 1, 0}
	if rbox.Min.Sub(expMin).Len() > 1e-9 || rbox.Max.Sub(expMax).Len() > 1e-9 {
		t.Fatalf("expected rotated bbox [%v, %v]; got %v", expMin, expMax, rbox)
	}

	// A ray along -x at z = -1.5 hits the rotated box but not the original one.
	ray := types.NewRay(types.Vec3{5, 0.5, -1.5}, types.Vec3{-1, 0, 0}, 0)
	if _, ok := box.Hit(ray, 0.001, math.Inf(1), nil); ok {
		t.Fatal("expected ray to miss the unrotated box")
	}
	rec, ok := rotated.Hit(ray, 0.001, math.Inf(1), nil)
	if !ok {
		t.Fatal("expected ray to hit the rotated box")
	}
	if rec.Point.Sub(types.Vec3{1, 0.5, -1.5}).Len() > 1e-9 || rec.Normal.Sub(types.Vec3{1, 0, 0}).Len() > 1e-9 {
		t.Fatalf("expected hit at (1, 0.5, -1.5) with normal (1, 0, 0); got %v, %v", rec.Point, rec.Normal)
	}

	moved := NewTranslate(NewSphere(types.Vec3{}, 1, nil), types.Vec3{0, 0, -5})
	rec, ok = moved.Hit(types.NewRay(types.Vec3{}, types.Vec3{0, 0, -1}, 0), 0.001, math.Inf(1), nil)
	if !ok || rec.Point.Sub(types.Vec3{0, 0, -4}).Len() > 1e-9 {
		t.Fatalf("expected translated sphere hit at (0, 0, -4); got %v (hit: %t)", rec.Point, ok)
	}
	mbox, _ := moved.BBox(0, 1)
	if mbox.Min != (types.Vec3{-1, -1, -6}) {
		t.Fatalf("expected translated bbox min (-1, -1, -6); got %v", mbox.Min)
	}

	flipped := NewFlipFace(NewXZRect(0, 1, 0, 1, 1, nil))
	rec, ok = flipped.Hit(types.NewRay(types.Vec3{0.5, 0, 0.5}, types.Vec3{0, 1, 0}, 0), 0.001, math.Inf(1), nil)
	if !ok || !rec.FrontFace {
		t.Fatalf("expected flipped rect to report a front face hit from below")
	}
}

func TestConstantMedium(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	boundary := NewSphere(types.Vec3{}, 1, nil)
	ray := types.NewRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1}, 0)

	dense := NewConstantMedium(boundary, 1e6, nil)
	rec, ok := dense.Hit(ray, 0.001, math.Inf(1), rng)
	if !ok || math.Abs(rec.T-4) > 1e-3 {
		t.Fatalf("expected a dense medium to scatter right at its boundary; got t = %f (hit: %t)", rec.T, ok)
	}

	thin := NewConstantMedium(boundary, 1e-6, nil)
	hits := 0
	for i := 0; i < 1000; i++ {
		if _, ok = thin.Hit(ray, 0.001, math.Inf(1), rng); ok {
			hits++
		}
	}
	if hits > 5 {
		t.Fatalf("expected a thin medium to be mostly transparent; got %d hits", hits)
	}

	if _, ok = dense.Hit(types.NewRay(types.Vec3{0, 3, 5}, types.Vec3{0, 0, -1}, 0), 0.001, math.Inf(1), rng); ok {
		t.Fatal("expected ray missing the boundary to miss the medium")
	}
}

func TestPlaneIsUnbounded(t *testing.T) {
	p := NewPlane(types.Vec3{}, types.Vec3{0, 1, 0}, nil)
	if _, ok := p.BBox(0, 1); ok {
		t.Fatal("expected plane to be unbounded")
	}

	rec, ok := p.Hit(types.NewRay(types.Vec3{3, 2, 7}, types.Vec3{0, -1, 0}, 0), 0.001, math.Inf(1), nil)
	if !ok || math.Abs(rec.T-2) > testEpsilon {
		t.Fatalf("expected plane hit at t = 2; got %f (hit: %t)", rec.T, ok)
	}
}

func TestTriangleHit(t *testing.T) {
	tri := NewTriangle(types.Vec3{-1, -1, 0}, types.Vec3{1, -1, 0}, types.Vec3{-1, 1, 0}, nil)

	type spec struct {
		ray      types.Ray
		expHit   bool
		expT     float64
		expFront bool
	}
	specs := []spec{
		{types.NewRay(types.Vec3{-0.5, -0.5, 2}, types.Vec3{0, 0, -1}, 0), true, 2, true},
		{types.NewRay(types.Vec3{-0.5, -0.5, -2}, types.Vec3{0, 0, 1}, 0), true, 2, false},
		// outside the hypotenuse
		{types.NewRay(types.Vec3{0.5, 0.5, 2}, types.Vec3{0, 0, -1}, 0), false, 0, false},
		// parallel to the triangle plane
		{types.NewRay(types.Vec3{-0.5, -0.5, 2}, types.Vec3{1, 0, 0}, 0), false, 0, false},
	}

	for specIndex, s := range specs {
		rec, ok := tri.Hit(s.ray, 0.001, math.Inf(1), nil)
		if ok != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", specIndex, s.expHit, ok)
		}
		if !ok {
			continue
		}
		if math.Abs(rec.T-s.expT) > testEpsilon {
			t.Fatalf("[spec %d] expected t = %f; got %f", specIndex, s.expT, rec.T)
		}
		if rec.FrontFace != s.expFront {
			t.Fatalf("[spec %d] expected front face to be %t; got %t", specIndex, s.expFront, rec.FrontFace)
		}
	}

	box, _ := tri.BBox(0, 1)
	if box.Min[2] != -scene.PlanarPad || box.Max[2] != scene.PlanarPad {
		t.Fatalf("expected padded triangle bbox; got %v", box)
	}
}

func TestSmoothTriangle(t *testing.T) {
	tri := NewSmoothTriangle(
		[3]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[3]types.Vec3{{0, 0, 1}, {1, 0, 1}, {0, 0, 2}},
		[3]types.Vec2{{0, 0}, {1, 0}, {0, 1}},
		nil,
	)

	// Hitting a vertex returns its own normal and uv.
	ray := types.NewRay(types.Vec3{1, 0, 1}, types.Vec3{0, 0, -1}, 0)
	rec, ok := tri.Hit(ray, 0.001, math.Inf(1), nil)
	if !ok {
		t.Fatal("expected hit on vertex")
	}
	expNormal := types.Vec3{1, 0, 1}.Normalize()
	if rec.Normal.Sub(expNormal).Len() > 1e-6 {
		t.Fatalf("expected interpolated normal %v; got %v", expNormal, rec.Normal)
	}
	if math.Abs(rec.U-1) > 1e-6 || math.Abs(rec.V) > 1e-6 {
		t.Fatalf("expected uv (1, 0); got (%f, %f)", rec.U, rec.V)
	}
}

func TestTriangleLightSampling(t *testing.T) {
	rng := rand.New(rand.NewSource(9))

	// Two triangles covering the same square as the rect light test.
	halves := []*Triangle{
		NewTriangle(types.Vec3{-0.5, 10, -0.5}, types.Vec3{0.5, 10, -0.5}, types.Vec3{0.5, 10, 0.5}, nil),
		NewTriangle(types.Vec3{-0.5, 10, -0.5}, types.Vec3{0.5, 10, 0.5}, types.Vec3{-0.5, 10, 0.5}, nil),
	}
	origin := types.Vec3{}

	var solidAngle float64
	samples := 20000
	for _, tri := range halves {
		var sum float64
		for i := 0; i < samples; i++ {
			dir := tri.Random(origin, rng)
			pdf := tri.PdfValue(origin, dir, rng)
			if pdf <= 0 {
				t.Fatalf("[sample %d] expected positive pdf; got %f", i, pdf)
			}
			sum += 1 / pdf
		}
		solidAngle += sum / float64(samples)
	}

	a, d := 1.0, 10.0
	expSolidAngle := 4 * math.Asin(a*a/(a*a+4*d*d))
	if math.Abs(solidAngle-expSolidAngle)/expSolidAngle > 0.02 {
		t.Fatalf("expected solid angle estimate %f; got %f", expSolidAngle, solidAngle)
	}

	if pdf := halves[0].PdfValue(origin, types.Vec3{0, -1, 0}, rng); pdf != 0 {
		t.Fatalf("expected zero pdf for directions missing the triangle; got %f", pdf)
	}
}
