package sid

import "testing"

func TestNewValueSIDDeterministic(t *testing.T) {
	a := NewValueSID(0, "operand", []string{"0"})
	b := NewValueSID(0, "operand", []string{"0"})
	if a != b {
		t.Errorf("expected identical SIDs for identical inputs, got %s and %s", a, b)
	}
}

func TestNewValueSIDDistinguishesInputs(t *testing.T) {
	a := NewValueSID(0, "operand", []string{"0"})
	b := NewValueSID(0, "operand", []string{"1"})
	c := NewValueSID(1, "operand", []string{"0"})
	d := NewValueSID(0, "result", []string{"0"})

	seen := map[SID]bool{a: true}
	for _, s := range []SID{b, c, d} {
		if seen[s] {
			t.Errorf("expected distinct SID, got collision at %s", s)
		}
		seen[s] = true
	}
}

func TestNewPatternSID(t *testing.T) {
	a := NewPatternSID(0, "add-to-shift")
	b := NewPatternSID(0, "add-to-shift")
	c := NewPatternSID(1, "add-to-shift")

	if a != b {
		t.Error("expected identical pattern SIDs for identical inputs")
	}
	if a == c {
		t.Error("expected distinct pattern SIDs for distinct pattern indices")
	}
}
