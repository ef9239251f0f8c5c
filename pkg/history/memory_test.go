package history

import (
	"reflect"
	"testing"
)

func TestMemoryPushReplace(t *testing.T) {
	m := NewMemory("")
	if got := m.Location(); got != "/" {
		t.Fatalf("Location() = %q, want /", got)
	}

	m.PushURL("/a")
	m.PushURL("/b")
	m.ReplaceURL("/c")

	if got, want := m.Entries(), []string{"/", "/a", "/c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
	if m.Index() != 2 {
		t.Errorf("Index() = %d, want 2", m.Index())
	}
}

func TestMemoryPushTruncatesForward(t *testing.T) {
	m := NewMemory("/")
	m.PushURL("/a")
	m.PushURL("/b")
	m.Go(-2)
	m.PushURL("/c")

	if got, want := m.Entries(), []string{"/", "/c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestMemoryGo(t *testing.T) {
	m := NewMemory("/")
	m.PushURL("/a")
	m.PushURL("/b")

	var seen []string
	stop := m.Listen(func(url string) { seen = append(seen, url) })

	m.Go(-1)
	m.Go(-5) // out of range
	m.Go(0)
	m.Go(1)

	if want := []string{"/a", "/b"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("listener saw %v, want %v", seen, want)
	}

	stop()
	m.Go(-1)
	if len(seen) != 2 {
		t.Errorf("listener called after stop: %v", seen)
	}
	if m.Location() != "/a" {
		t.Errorf("Location() = %q, want /a", m.Location())
	}
}

func TestListenersOrder(t *testing.T) {
	var l listeners
	var order []int
	for i := 0; i < 5; i++ {
		l.add(func(string) { order = append(order, i) })
	}
	l.notify("/")
	if want := []int{0, 1, 2, 3, 4}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}
