package history

import "sync"

// Memory is a URL history kept in process. Go notifies listeners
// synchronously, so the navigation it triggers has finished when Go
// returns.
type Memory struct {
	mu      sync.Mutex
	entries []string
	index   int

	listeners listeners
}

// NewMemory returns a history holding the single entry initial, or "/"
// when initial is empty.
func NewMemory(initial string) *Memory {
	if initial == "" {
		initial = "/"
	}
	return &Memory{entries: []string{initial}}
}

// Location returns the URL of the current entry.
func (m *Memory) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// PushURL drops the entries after the current one and appends url.
func (m *Memory) PushURL(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries[:m.index+1], url)
	m.index++
	return nil
}

// ReplaceURL overwrites the current entry.
func (m *Memory) ReplaceURL(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.index] = url
	return nil
}

// Go moves n entries and reports the new location to listeners. A move
// past either end is ignored.
func (m *Memory) Go(n int) {
	m.mu.Lock()
	target := m.index + n
	if n == 0 || target < 0 || target >= len(m.entries) {
		m.mu.Unlock()
		return
	}
	m.index = target
	url := m.entries[target]
	m.mu.Unlock()

	m.listeners.notify(url)
}

// Listen registers fn for locations reached through Go.
func (m *Memory) Listen(fn func(url string)) func() {
	return m.listeners.add(fn)
}

// Entries returns a copy of the stack, oldest first.
func (m *Memory) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...)
}

// Index returns the position of the current entry.
func (m *Memory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
