// Package roster maintains an ordered participant list with unique entries.
//
// Uniqueness is enforced here, at the orchestrator boundary, so the pool
// and partition logic can assume index identity without caring about
// duplicate names. Equality is case-sensitive.
package roster

import (
	"strings"
	"sync"
)

// List is an ordered sequence of unique names. Safe for concurrent reads
// and writes, though the orchestrator is the only writer in practice.
type List struct {
	mu    sync.RWMutex
	names []string
	index map[string]int // name -> position
}

// New returns an empty list.
func New() *List {
	return &List{index: make(map[string]int)}
}

// Add appends name to the list. Leading and trailing whitespace is
// stripped. Blank and duplicate names are rejected.
func (l *List) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.index[name]; exists {
		return ErrDuplicate
	}
	l.index[name] = len(l.names)
	l.names = append(l.names, name)
	return nil
}

// Remove deletes name and returns the position it occupied, so the caller
// can prune sampling pools that reference positions.
func (l *List) Remove(name string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, exists := l.index[name]
	if !exists {
		return 0, ErrNotFound
	}
	l.names = append(l.names[:pos], l.names[pos+1:]...)
	delete(l.index, name)
	for i := pos; i < len(l.names); i++ {
		l.index[l.names[i]] = i
	}
	return pos, nil
}

// Names returns a copy of the list in order.
func (l *List) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Len reports the number of names.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.names)
}

// Replace swaps the whole list for names, dropping blanks and duplicates
// silently. Used when restoring persisted state.
func (l *List) Replace(names []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.names = l.names[:0]
	l.index = make(map[string]int, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := l.index[name]; exists {
			continue
		}
		l.index[name] = len(l.names)
		l.names = append(l.names, name)
	}
}
