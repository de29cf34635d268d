// SPDX-License-Identifier: MIT
package bank

import (
	"errors"
	"math/rand"
	"testing"
)

func mustBank(t *testing.T, channels int, max, attack uint8) *Bank {
	t.Helper()
	b, err := New(channels, max, attack)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return b
}

func TestNew_InitialState(t *testing.T) {
	b := mustBank(t, 4, DefaultMax, 1)
	for i := 0; i < b.Len(); i++ {
		if b.Counter(i) != 0 || b.On(i) {
			t.Errorf("channel %d starts at counter %d on=%v", i, b.Counter(i), b.On(i))
		}
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(1, 0, 1); !errors.Is(err, ErrInvalidMax) {
		t.Errorf("expected ErrInvalidMax, got %v", err)
	}
	if _, err := New(1, 16, 0); !errors.Is(err, ErrInvalidAttack) {
		t.Errorf("expected ErrInvalidAttack for zero, got %v", err)
	}
	if _, err := New(1, 16, 17); !errors.Is(err, ErrInvalidAttack) {
		t.Errorf("expected ErrInvalidAttack above max, got %v", err)
	}
}

func TestUpdate_AttackIsInstant(t *testing.T) {
	b := mustBank(t, 1, DefaultMax, 1)
	if !b.Update(0, true) {
		t.Error("output should turn ON on the first active frame")
	}
	if b.Counter(0) != 1 {
		t.Errorf("counter = %d, want 1", b.Counter(0))
	}
}

func TestUpdate_ReleaseAfterDecay(t *testing.T) {
	b := mustBank(t, 1, DefaultMax, 1)

	for i := 0; i < 3; i++ {
		b.Update(0, true)
	}
	// Counter 3: three inactive frames decay it while the output holds ON,
	// the fourth finds it at zero and turns the output OFF.
	for frame := 1; frame <= 3; frame++ {
		if !b.Update(0, false) {
			t.Fatalf("inactive frame %d: output OFF while counter decaying", frame)
		}
	}
	if b.Counter(0) != 0 {
		t.Fatalf("counter = %d, want 0", b.Counter(0))
	}
	if b.Update(0, false) {
		t.Error("output should turn OFF once the counter is exhausted")
	}
}

func TestUpdate_ClampsAtMax(t *testing.T) {
	b := mustBank(t, 1, DefaultMax, 1)
	for i := 0; i < 100; i++ {
		b.Update(0, true)
	}
	if b.Counter(0) != DefaultMax {
		t.Errorf("counter = %d, want %d", b.Counter(0), DefaultMax)
	}
}

// TestScenario_HoldRelease feeds one active frame to a saturating channel
// (attack = max) and then 17 silent frames: ON for silent frames 1..16,
// OFF from frame 17.
func TestScenario_HoldRelease(t *testing.T) {
	b := mustBank(t, 1, 16, 16)

	if !b.Update(0, true) {
		t.Fatal("active frame should turn the output ON")
	}
	for frame := 1; frame <= 17; frame++ {
		on := b.Update(0, false)
		if frame <= 16 && !on {
			t.Errorf("silent frame %d: output OFF, want ON", frame)
		}
		if frame == 17 && on {
			t.Errorf("silent frame %d: output ON, want OFF", frame)
		}
	}
}

// TestScenario_SaturatedChannel drives the default bank to its ceiling
// before the silent run; it then holds for exactly Max frames.
func TestScenario_SaturatedChannel(t *testing.T) {
	b := mustBank(t, 1, DefaultMax, 1)
	for i := 0; i < DefaultMax; i++ {
		b.Update(0, true)
	}
	for frame := 1; frame <= DefaultMax+1; frame++ {
		on := b.Update(0, false)
		if want := frame <= DefaultMax; on != want {
			t.Errorf("silent frame %d: on = %v, want %v", frame, on, want)
		}
	}
}

// TestProperty_RandomSequences checks the counter bounds and the OFF rule
// over random activity patterns.
func TestProperty_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, attack := range []uint8{1, 3, 16} {
		b := mustBank(t, 1, 16, attack)
		prevOn := false
		for step := 0; step < 10000; step++ {
			active := rng.Intn(3) == 0
			before := b.Counter(0)
			on := b.Update(0, active)

			if c := b.Counter(0); c > b.Max() {
				t.Fatalf("attack %d step %d: counter %d above max", attack, step, c)
			}
			if active && !on {
				t.Fatalf("attack %d step %d: OFF on an active frame", attack, step)
			}
			if prevOn && !on && before != 0 {
				t.Fatalf("attack %d step %d: turned OFF with counter %d", attack, step, before)
			}
			if !active && before == 0 && b.Counter(0) != 0 {
				t.Fatalf("attack %d step %d: counter underflow", attack, step)
			}
			prevOn = on
		}
	}
}

func TestStepAndReset(t *testing.T) {
	b := mustBank(t, 3, 4, 1)
	out := make([]bool, 3)

	b.Step([]bool{true, false, true}, out)
	if !out[0] || out[1] || !out[2] {
		t.Errorf("Step outputs = %v", out)
	}

	counters := make([]uint8, 3)
	b.Counters(counters)
	if counters[0] != 1 || counters[1] != 0 || counters[2] != 1 {
		t.Errorf("counters = %v", counters)
	}

	b.Reset()
	for i := 0; i < 3; i++ {
		if b.Counter(i) != 0 || b.On(i) {
			t.Errorf("channel %d not reset", i)
		}
	}
}

func TestStepHotPath(t *testing.T) {
	b := mustBank(t, 8, DefaultMax, 1)
	active := []bool{true, false, true, false, true, false, true, false}
	out := make([]bool, 8)

	allocs := testing.AllocsPerRun(100, func() {
		b.Step(active, out)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations in Step, got %.1f", allocs)
	}
}
