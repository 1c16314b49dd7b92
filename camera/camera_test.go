package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

func approxEqual(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) < float64(eps)
}

func TestDefaultPosition(t *testing.T) {
	s := New()
	if s.Position != (mgl32.Vec3{0, 0, -4.9}) {
		t.Errorf("Position = %v, want (0,0,-4.9)", s.Position)
	}
}

func TestApplyMovementAxes(t *testing.T) {
	tests := []struct {
		dir  Direction
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{0, 0, 0.5}},
		{Back, mgl32.Vec3{0, 0, -0.5}},
		{Right, mgl32.Vec3{0.5, 0, 0}},
		{Left, mgl32.Vec3{-0.5, 0, 0}},
		{Up, mgl32.Vec3{0, 0.5, 0}},
		{Down, mgl32.Vec3{0, -0.5, 0}},
	}
	for _, tt := range tests {
		s := &State{}
		s.ApplyMovement(tt.dir, 0.25, 2)
		if !s.Position.ApproxEqualThreshold(tt.want, epsilon) {
			t.Errorf("%v: Position = %v, want %v", tt.dir, s.Position, tt.want)
		}
	}
}

func TestForwardOneSecond(t *testing.T) {
	s := New()
	s.ApplyMovement(Forward, 1.0, DefaultSpeed)
	if !approxEqual(s.Position.Z(), -3.9, epsilon) {
		t.Errorf("Z = %f, want -3.9", s.Position.Z())
	}
}

func TestMovementComposesWithoutNormalization(t *testing.T) {
	s := &State{}
	s.ApplyMovement(Forward, 1, 1)
	s.ApplyMovement(Right, 1, 1)
	s.ApplyMovement(Up, 1, 1)
	want := mgl32.Vec3{1, 1, 1}
	if s.Position != want {
		t.Errorf("Position = %v, want %v", s.Position, want)
	}
}

func TestOpposingDirectionsCancel(t *testing.T) {
	s := &State{}
	s.ApplyMovement(Left, 0.5, 1)
	s.ApplyMovement(Right, 0.5, 1)
	if s.Position != (mgl32.Vec3{}) {
		t.Errorf("Position = %v, want origin", s.Position)
	}
}

func TestClampAtBounds(t *testing.T) {
	s := New()
	s.ApplyMovement(Back, 10, 1)
	if s.Position.Z() != -Bound {
		t.Errorf("Z = %f, want %f", s.Position.Z(), -Bound)
	}
	for i := 0; i < 100; i++ {
		s.ApplyMovement(Forward, 1, 1)
	}
	if s.Position.Z() != Bound {
		t.Errorf("Z = %f, want %f", s.Position.Z(), Bound)
	}
}

func TestClampPropertyRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dirs := []Direction{Forward, Back, Left, Right, Up, Down}
	s := New()
	for i := 0; i < 10000; i++ {
		dir := dirs[rng.Intn(len(dirs))]
		elapsed := rng.Float32() * 20
		s.ApplyMovement(dir, elapsed, 1+rng.Float32()*5)
		for axis := 0; axis < 3; axis++ {
			if v := s.Position[axis]; v < -Bound || v > Bound {
				t.Fatalf("step %d: axis %d = %f outside [-%f, %f]", i, axis, v, Bound, Bound)
			}
		}
	}
}

func TestUnknownDirectionIsIgnored(t *testing.T) {
	s := New()
	s.ApplyMovement(Direction(99), 1, 1)
	if s.Position != DefaultPosition {
		t.Errorf("Position = %v, want %v", s.Position, DefaultPosition)
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.ApplyMovement(Up, 2, 1)
	s.Reset()
	if s.Position != DefaultPosition {
		t.Errorf("Position = %v, want %v", s.Position, DefaultPosition)
	}
}

func TestDeriveBasisOrthonormal(t *testing.T) {
	positions := []mgl32.Vec3{
		DefaultPosition,
		{0, 0, 0},
		{Bound, -Bound, Bound},
		{-1.5, 3.25, 0.1},
	}
	for _, p := range positions {
		b := (&State{Position: p}).DeriveBasis()
		for name, v := range map[string]mgl32.Vec3{"view": b.View, "up": b.Up, "side": b.Side} {
			if !approxEqual(v.Len(), 1, epsilon) {
				t.Errorf("pos %v: |%s| = %f, want 1", p, name, v.Len())
			}
		}
		if d := b.View.Dot(b.Up); !approxEqual(d, 0, epsilon) {
			t.Errorf("pos %v: view·up = %f", p, d)
		}
		if d := b.View.Dot(b.Side); !approxEqual(d, 0, epsilon) {
			t.Errorf("pos %v: view·side = %f", p, d)
		}
		if d := b.Up.Dot(b.Side); !approxEqual(d, 0, epsilon) {
			t.Errorf("pos %v: up·side = %f", p, d)
		}
	}
}

func TestDeriveBasisValues(t *testing.T) {
	b := New().DeriveBasis()
	if !b.View.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, epsilon) {
		t.Errorf("View = %v", b.View)
	}
	if !b.Side.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, epsilon) {
		t.Errorf("Side = %v, want (1,0,0)", b.Side)
	}
	if !b.Up.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, epsilon) {
		t.Errorf("Up = %v, want (0,1,0)", b.Up)
	}
}

func TestAspectScale(t *testing.T) {
	tests := []struct {
		w, h int
		want mgl32.Vec2
	}{
		{1600, 1200, mgl32.Vec2{4.0 / 3.0, 1}},
		{900, 1200, mgl32.Vec2{1, 4.0 / 3.0}},
		{1200, 1200, mgl32.Vec2{1, 1}},
		{0, 1200, mgl32.Vec2{1, 1}},
		{1200, 0, mgl32.Vec2{1, 1}},
	}
	for _, tt := range tests {
		got := AspectScale(tt.w, tt.h)
		if !got.ApproxEqualThreshold(tt.want, epsilon) {
			t.Errorf("AspectScale(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
