// Package intern maps symbol spellings to small dense integer ids.
//
// Ids are handed out in order of first occurrence starting at 0 and are never
// reused, so comparing two symbols is an integer comparison and printing one
// is a slice index.
package intern

import "sync"

// Symbol is the interned id of a symbol spelling.
type Symbol int32

// Interner owns the canonical spelling of every symbol it has seen.
// It is safe for concurrent use.
type Interner struct {
	mu        sync.RWMutex
	ids       map[string]Symbol
	spellings []string
}

// New returns an empty interner.
func New() *Interner {
	return &Interner{ids: make(map[string]Symbol)}
}

// Intern returns the id for spelling, allocating the next id on first sight.
func (in *Interner) Intern(spelling string) Symbol {
	in.mu.RLock()
	id, ok := in.ids[spelling]
	in.mu.RUnlock()
	if ok {
		return id
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	// Another writer may have won the race between the two locks.
	if id, ok := in.ids[spelling]; ok {
		return id
	}
	id = Symbol(len(in.spellings))
	in.ids[spelling] = id
	in.spellings = append(in.spellings, spelling)
	return id
}

// Lookup returns the id for spelling without allocating one.
func (in *Interner) Lookup(spelling string) (Symbol, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.ids[spelling]
	return id, ok
}

// Spelling returns the canonical spelling of sym, or "" if sym was never
// allocated by this interner.
func (in *Interner) Spelling(sym Symbol) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if sym < 0 || int(sym) >= len(in.spellings) {
		return ""
	}
	return in.spellings[sym]
}

// Quote returns the diagnostic form of sym: its spelling in single quotes.
func (in *Interner) Quote(sym Symbol) string {
	return "'" + in.Spelling(sym) + "'"
}

// Len returns the number of distinct symbols interned so far.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.spellings)
}

// Spellings returns a copy of all spellings indexed by id.
func (in *Interner) Spellings() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]string, len(in.spellings))
	copy(out, in.spellings)
	return out
}
