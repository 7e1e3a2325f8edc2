package logic

import (
	"errors"
	"testing"

	"github.com/sweeney/input-sensor/internal/gpio"
	"github.com/sweeney/input-sensor/internal/registry"
	"github.com/sweeney/input-sensor/internal/sink"
)

func newSensor() *registry.Sensor {
	return &registry.Sensor{
		Record: registry.Record{ID: 5, Pin: 2},
		Signal: 1.0,
	}
}

func TestStepConstantHighNeverTriggers(t *testing.T) {
	cfg := DefaultConfig()
	s := newSensor()

	for i := 0; i < 1000; i++ {
		if Step(s, true, cfg) {
			t.Fatalf("sample %d: triggered on constant high signal", i)
		}
	}

	if s.Signal != 1.0 {
		t.Errorf("signal = %v, want 1.0", s.Signal)
	}
	if s.Active {
		t.Error("sensor became active on constant high signal")
	}
}

func TestStepConstantLowTriggersExactlyOnce(t *testing.T) {
	cfg := DefaultConfig()
	s := newSensor()

	triggers := 0
	triggerAt := -1
	for i := 0; i < 1000; i++ {
		if Step(s, false, cfg) {
			triggers++
			triggerAt = i
		}
	}

	if triggers != 1 {
		t.Fatalf("got %d triggers on constant low signal, want 1", triggers)
	}
	// With decay 0.1 the signal crosses 0.5 on the 7th low sample.
	if triggerAt != 6 {
		t.Errorf("triggered at sample %d, want 6", triggerAt)
	}
	if !s.Active {
		t.Error("sensor should stay active while signal is low")
	}
	if s.Signal > 0.001 {
		t.Errorf("signal = %v, should converge toward 0", s.Signal)
	}
}

func TestStepHysteresisRelease(t *testing.T) {
	cfg := DefaultConfig()
	s := newSensor()

	// Drive active.
	for i := 0; i < 10; i++ {
		Step(s, false, cfg)
	}
	if !s.Active {
		t.Fatal("sensor should be active after 10 low samples")
	}

	// A few high samples are not enough to release: the signal must climb
	// past 0.99, not just past the activation threshold.
	for i := 0; i < 10; i++ {
		if Step(s, true, cfg) {
			t.Fatalf("high sample %d: release must never emit a trigger", i)
		}
	}
	if !s.Active {
		t.Error("sensor released after only 10 high samples")
	}

	// Sustained high readings eventually release, silently.
	for i := 0; i < 50; i++ {
		if Step(s, true, cfg) {
			t.Fatalf("high sample %d: release must never emit a trigger", i)
		}
	}
	if s.Active {
		t.Error("sensor should be idle after sustained high signal")
	}
}

func TestStepRetriggersAfterRelease(t *testing.T) {
	cfg := DefaultConfig()
	s := newSensor()

	triggers := 0
	feed := func(raw bool, n int) {
		for i := 0; i < n; i++ {
			if Step(s, raw, cfg) {
				triggers++
			}
		}
	}

	feed(false, 20) // activate
	feed(true, 60)  // release
	feed(false, 20) // activate again

	if triggers != 2 {
		t.Errorf("got %d triggers across two activations, want 2", triggers)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero decay", Config{Decay: 0, ActivateBelow: 0.5, ReleaseAbove: 0.99}, true},
		{"decay one", Config{Decay: 1, ActivateBelow: 0.5, ReleaseAbove: 0.99}, true},
		{"activate above release", Config{Decay: 0.1, ActivateBelow: 0.99, ReleaseAbove: 0.5}, true},
		{"release above one", Config{Decay: 0.1, ActivateBelow: 0.5, ReleaseAbove: 1.5}, true},
		{"tuned", Config{Decay: 0.03, ActivateBelow: 0.4, ReleaseAbove: 0.95}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestScanNotifiesPerSensor(t *testing.T) {
	lines := gpio.NewFakeLines()
	reg := registry.New(lines, 0)
	if _, err := reg.Create(5, 2, false); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := reg.Create(7, 3, true); err != nil {
		t.Fatalf("create: %v", err)
	}

	fake := sink.NewFakeSink()
	engine := NewEngine(DefaultConfig(), lines, fake)

	// Pin 2 held low, pin 3 stays high.
	lines.Set(2, false)
	lines.Set(3, true)

	for i := 0; i < 10; i++ {
		if err := engine.Scan(reg); err != nil {
			t.Fatalf("tick %d: scan: %v", i, err)
		}
	}

	if len(fake.Triggers) != 1 || fake.Triggers[0] != 5 {
		t.Errorf("triggers = %v, want exactly [5]", fake.Triggers)
	}
}

func TestScanSkipsUnreadablePins(t *testing.T) {
	lines := gpio.NewFakeLines()
	reg := registry.New(lines, 0)
	if _, err := reg.Create(5, 2, false); err != nil {
		t.Fatalf("create: %v", err)
	}

	lines.ReadError = errors.New("line gone")
	engine := NewEngine(DefaultConfig(), lines, sink.NewFakeSink())

	if err := engine.Scan(reg); err == nil {
		t.Fatal("expected error from unreadable pin")
	}

	// Filter state must be untouched for the failed read.
	s, _ := reg.Lookup(5)
	if s.Signal != 1.0 || s.Active {
		t.Errorf("filter state changed on read error: Signal=%v Active=%v", s.Signal, s.Active)
	}

	// Recovered pin is picked up on the next tick.
	lines.ReadError = nil
	lines.Set(2, false)
	if err := engine.Scan(reg); err != nil {
		t.Fatalf("scan after recovery: %v", err)
	}
	if s.Signal >= 1.0 {
		t.Error("filter did not advance after pin recovered")
	}
}
