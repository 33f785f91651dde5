package c

// Decl is one top-level C declaration the backend has emitted a name
// for: a function, typedef, or global. Deps is filled in once the
// declaration's owning function body (if any) has finished walking
// (spec.md §4.5 "Identifier and declaration scoping").
type Decl struct {
	Name string
	Deps []string
}

// DeclTable is the per-compilation declaration table keyed by C
// identifier, paired with a dependency stack: one list per currently-open
// function body. When the walker emits a reference to a top-level
// declaration, that name is pushed onto the top list; closing a function
// body pops its list and records it as that function's declaration
// dependencies (spec.md §4.5).
type DeclTable struct {
	decls map[string]*Decl
	order []string

	stack [][]string
}

// NewDeclTable constructs an empty declaration table.
func NewDeclTable() *DeclTable {
	return &DeclTable{decls: make(map[string]*Decl)}
}

// Declare registers name if not already present.
func (t *DeclTable) Declare(name string) *Decl {
	if d, ok := t.decls[name]; ok {
		return d
	}
	d := &Decl{Name: name}
	t.decls[name] = d
	t.order = append(t.order, name)
	return d
}

// Lookup returns the declaration for name, if registered.
func (t *DeclTable) Lookup(name string) (*Decl, bool) {
	d, ok := t.decls[name]
	return d, ok
}

// PushScope opens a new dependency-collecting scope for a function body
// about to be walked.
func (t *DeclTable) PushScope() {
	t.stack = append(t.stack, nil)
}

// Reference records that the declaration currently being walked
// references name, pushing it onto the top-of-stack dependency list. A
// no-op outside any open scope (e.g. at top-level constant folding).
func (t *DeclTable) Reference(name string) {
	if len(t.stack) == 0 {
		return
	}
	top := len(t.stack) - 1
	t.stack[top] = append(t.stack[top], name)
}

// PopScope closes the innermost open scope and records its accumulated
// references as owner's dependencies.
func (t *DeclTable) PopScope(owner string) {
	if len(t.stack) == 0 {
		return
	}
	top := len(t.stack) - 1
	deps := t.stack[top]
	t.stack = t.stack[:top]
	if d, ok := t.decls[owner]; ok {
		d.Deps = append(d.Deps, deps...)
	}
}

// Ordered returns every declaration name in dependency order: a
// declaration's dependencies emit before it, with insertion order as the
// deterministic tie-break (spec.md §4.4 "Declaration ordering", reused
// here for top-level function/typedef emission).
func (t *DeclTable) Ordered() []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var out []string
	var visit func(name string)
	visit = func(name string) {
		if visited[name] || onStack[name] {
			return
		}
		onStack[name] = true
		if d, ok := t.decls[name]; ok {
			for _, dep := range d.Deps {
				visit(dep)
			}
		}
		onStack[name] = false
		visited[name] = true
		out = append(out, name)
	}
	for _, name := range t.order {
		visit(name)
	}
	return out
}
