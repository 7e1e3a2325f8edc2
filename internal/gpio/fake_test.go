package gpio

import (
	"errors"
	"testing"
)

func TestFakeLinesDefaultHigh(t *testing.T) {
	f := NewFakeLines()

	high, err := f.Read(7)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !high {
		t.Error("unset pin should float high")
	}
}

func TestFakeLinesSet(t *testing.T) {
	f := NewFakeLines()

	f.Set(2, false)
	high, err := f.Read(2)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if high {
		t.Error("expected pin 2 low after Set(2, false)")
	}

	f.Set(2, true)
	high, err = f.Read(2)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !high {
		t.Error("expected pin 2 high after Set(2, true)")
	}
}

func TestFakeLinesConfigureRecorded(t *testing.T) {
	f := NewFakeLines()

	if err := f.ConfigureInput(5, true); err != nil {
		t.Fatalf("configure error: %v", err)
	}
	if err := f.ConfigureInput(5, false); err != nil {
		t.Fatalf("configure error: %v", err)
	}

	pullup, ok := f.Pullups[5]
	if !ok {
		t.Fatal("pin 5 not recorded as configured")
	}
	if pullup {
		t.Error("expected last configuration to win (pullup=false)")
	}
	if f.Configures[5] != 2 {
		t.Errorf("expected 2 configure calls, got %d", f.Configures[5])
	}
}

func TestFakeLinesErrors(t *testing.T) {
	f := NewFakeLines()
	wantErr := errors.New("boom")

	f.ReadError = wantErr
	if _, err := f.Read(1); !errors.Is(err, wantErr) {
		t.Errorf("Read: got %v, want %v", err, wantErr)
	}

	f.ConfigureError = wantErr
	if err := f.ConfigureInput(1, false); !errors.Is(err, wantErr) {
		t.Errorf("ConfigureInput: got %v, want %v", err, wantErr)
	}
}
