package sound

import "testing"

func TestCooldownBlocksUntilElapsed(t *testing.T) {
	c := NewCooldown(0.5)
	if c.CoolingDown() {
		t.Fatalf("a fresh cooldown with no Start call should not be cooling down")
	}

	c.Start()
	if !c.CoolingDown() {
		t.Fatalf("expected CoolingDown() after Start()")
	}

	c.Update(0.3)
	if !c.CoolingDown() {
		t.Fatalf("expected still cooling down after 0.3s of a 0.5s cooldown")
	}

	c.Update(0.3)
	if c.CoolingDown() {
		t.Fatalf("expected cooldown to have elapsed after 0.6s total")
	}
}

func TestCooldownNeverGoesNegative(t *testing.T) {
	c := NewCooldown(0.1)
	c.Start()
	c.Update(10.0)
	if c.CoolingDown() {
		t.Fatalf("expected cooldown to clear")
	}
	// A further Update on an already-cleared cooldown must not panic or
	// flip CoolingDown back on.
	c.Update(1.0)
	if c.CoolingDown() {
		t.Fatalf("expected cooldown to remain cleared")
	}
}
