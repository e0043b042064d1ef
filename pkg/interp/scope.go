package interp

import (
	"sort"

	"github.com/leapstack-labs/lispy/pkg/intern"
	"github.com/leapstack-labs/lispy/pkg/value"
)

// frame is one layer of the scope stack.
type frame map[intern.Symbol]value.Value

// push enters a new frame.
func (in *Interpreter) push(f frame) {
	in.frames = append(in.frames, f)
}

// pop leaves the innermost frame. The global frame is never popped.
func (in *Interpreter) pop() {
	if len(in.frames) > 1 {
		in.frames[len(in.frames)-1] = nil
		in.frames = in.frames[:len(in.frames)-1]
	}
}

// lookup searches the frames from innermost to outermost.
func (in *Interpreter) lookup(sym intern.Symbol) (value.Value, error) {
	for i := len(in.frames) - 1; i >= 0; i-- {
		if v, ok := in.frames[i][sym]; ok {
			return v, nil
		}
	}
	return nil, in.unknown(sym)
}

// overwrite mutates the innermost existing binding of sym.
func (in *Interpreter) overwrite(sym intern.Symbol, v value.Value) error {
	for i := len(in.frames) - 1; i >= 0; i-- {
		if _, ok := in.frames[i][sym]; ok {
			in.frames[i][sym] = v
			return nil
		}
	}
	return in.unknown(sym)
}

// bind creates or replaces sym in the innermost frame: the frame of the
// closure call being evaluated, or the global frame at top level.
func (in *Interpreter) bind(sym intern.Symbol, v value.Value) {
	in.frames[len(in.frames)-1][sym] = v
}

func (in *Interpreter) unknown(sym intern.Symbol) *UnknownSymbolError {
	return &UnknownSymbolError{Symbol: sym, Name: in.symbols.Spelling(sym)}
}

// Define binds name in the global frame.
func (in *Interpreter) Define(name string, v value.Value) {
	in.frames[0][in.symbols.Intern(name)] = v
}

// DefineBuiltin binds b in the global frame under its own name.
func (in *Interpreter) DefineBuiltin(b *value.Builtin) {
	in.Define(b.Name, b)
}

// Lookup resolves name against the live frame stack.
func (in *Interpreter) Lookup(name string) (value.Value, bool) {
	sym, ok := in.symbols.Lookup(name)
	if !ok {
		return nil, false
	}
	v, err := in.lookup(sym)
	return v, err == nil
}

// Globals returns the sorted names bound in the global frame.
func (in *Interpreter) Globals() []string {
	names := make([]string, 0, len(in.frames[0]))
	for sym := range in.frames[0] {
		names = append(names, in.symbols.Spelling(sym))
	}
	sort.Strings(names)
	return names
}

// Depth returns the number of live frames, including the global one.
func (in *Interpreter) Depth() int {
	return len(in.frames)
}
