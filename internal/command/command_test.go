package command

import (
	"errors"
	"testing"

	"github.com/sweeney/input-sensor/internal/gpio"
	"github.com/sweeney/input-sensor/internal/registry"
	"github.com/sweeney/input-sensor/internal/sink"
)

func newDispatcher() (*Dispatcher, *registry.Registry, *sink.FakeSink) {
	reg := registry.New(gpio.NewFakeLines(), 0)
	fake := sink.NewFakeSink()
	return New(reg, fake), reg, fake
}

func TestHandleCreate(t *testing.T) {
	d, reg, fake := newDispatcher()

	if err := d.Handle([]int{5, 2, 1}); err != nil {
		t.Fatalf("handle: %v", err)
	}

	s, ok := reg.Lookup(5)
	if !ok {
		t.Fatal("sensor 5 not created")
	}
	if s.Pin != 2 || !s.Pullup {
		t.Errorf("sensor = {pin %d pullup %v}, want {2 true}", s.Pin, s.Pullup)
	}
	if fake.OKs != 1 || fake.Fails != 0 {
		t.Errorf("acks = %d ok / %d fail, want 1/0", fake.OKs, fake.Fails)
	}
}

func TestHandleCreateBadID(t *testing.T) {
	d, reg, fake := newDispatcher()

	err := d.Handle([]int{40000, 2, 0})
	if !errors.Is(err, registry.ErrIDRange) {
		t.Errorf("got %v, want ErrIDRange", err)
	}
	if reg.Len() != 0 {
		t.Error("rejected create changed the registry")
	}
	if fake.Fails != 1 || fake.OKs != 0 {
		t.Errorf("acks = %d ok / %d fail, want 0/1", fake.OKs, fake.Fails)
	}
}

func TestHandleRemove(t *testing.T) {
	d, reg, fake := newDispatcher()
	if err := d.Handle([]int{5, 2, 0}); err != nil {
		t.Fatalf("create: %v", err)
	}
	fake.Reset()

	if err := d.Handle([]int{5}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if reg.Len() != 0 {
		t.Error("sensor not removed")
	}
	if fake.OKs != 1 {
		t.Errorf("OKs = %d, want 1", fake.OKs)
	}
}

func TestHandleRemoveMissing(t *testing.T) {
	d, _, fake := newDispatcher()

	err := d.Handle([]int{99})
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if fake.Fails != 1 {
		t.Errorf("Fails = %d, want 1", fake.Fails)
	}
}

func TestHandleEnumerate(t *testing.T) {
	d, _, fake := newDispatcher()
	if err := d.Handle([]int{5, 2, 0}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := d.Handle([]int{7, 3, 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	fake.Reset()

	if err := d.Handle(nil); err != nil {
		t.Fatalf("enumerate: %v", err)
	}

	want := []sink.FakeEntry{
		{ID: 5, Pin: 2, Pullup: false},
		{ID: 7, Pin: 3, Pullup: true},
	}
	if len(fake.Entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(fake.Entries), len(want))
	}
	for i := range want {
		if fake.Entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, fake.Entries[i], want[i])
		}
	}
}

func TestHandleEnumerateEmpty(t *testing.T) {
	d, _, fake := newDispatcher()

	if err := d.Handle(nil); err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if fake.Fails != 1 {
		t.Errorf("empty enumeration: Fails = %d, want 1", fake.Fails)
	}
	if len(fake.Entries) != 0 {
		t.Errorf("empty enumeration produced %d entries", len(fake.Entries))
	}
}

func TestHandleBadArity(t *testing.T) {
	d, reg, fake := newDispatcher()

	for _, args := range [][]int{{1, 2}, {1, 2, 3, 4}} {
		fake.Reset()
		err := d.Handle(args)
		if !errors.Is(err, ErrArgCount) {
			t.Errorf("Handle(%v): got %v, want ErrArgCount", args, err)
		}
		if fake.Fails != 1 {
			t.Errorf("Handle(%v): Fails = %d, want 1", args, fake.Fails)
		}
	}
	if reg.Len() != 0 {
		t.Error("bad-arity commands changed the registry")
	}
}
