package systems

import "testing"

func TestBaseLoops(t *testing.T) {
	b := NewBase(730, 100, 5)

	for tick := 0; tick < 1000; tick++ {
		b.Move()

		if b.X1+b.Width < 0 || b.X2+b.Width < 0 {
			t.Fatalf("tick %d: strip left the screen (x1=%v x2=%v)", tick, b.X1, b.X2)
		}
		gap := b.X2 - b.X1
		if gap != b.Width && gap != -b.Width {
			t.Fatalf("tick %d: strips not adjacent (x1=%v x2=%v)", tick, b.X1, b.X2)
		}
	}
}

func TestBaseScrollsLeft(t *testing.T) {
	b := NewBase(730, 672, 5)
	b.Move()

	if b.X1 != -5 || b.X2 != 667 {
		t.Errorf("expected x1=-5 x2=667, got x1=%v x2=%v", b.X1, b.X2)
	}
	if b.Y != 730 {
		t.Errorf("base y changed: %v", b.Y)
	}
}
