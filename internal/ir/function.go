package ir

import "github.com/runec/rnc/internal/types"

// FunctionKind is the closed tag set of spec.md §3.2.
type FunctionKind int

const (
	FuncModule FunctionKind = iota
	FuncPackage
	FuncPlain
	FuncConstructor
	FuncDestructor
	FuncIterator
	FuncOperator
	FuncStruct
	FuncEnum
	FuncTransformer
	FuncFinal
	FuncUnittest
)

func (k FunctionKind) String() string {
	switch k {
	case FuncModule:
		return "module"
	case FuncPackage:
		return "package"
	case FuncPlain:
		return "plain"
	case FuncConstructor:
		return "constructor"
	case FuncDestructor:
		return "destructor"
	case FuncIterator:
		return "iterator"
	case FuncOperator:
		return "operator"
	case FuncStruct:
		return "struct"
	case FuncEnum:
		return "enum"
	case FuncTransformer:
		return "transformer"
	case FuncFinal:
		return "final"
	case FuncUnittest:
		return "unittest"
	default:
		return "unknown"
	}
}

// Linkage is the closed tag set of spec.md §3.2, mirrored as strings in
// internal/config for use at declaration-emission time.
type Linkage int

const (
	LinkModule Linkage = iota
	LinkPackage
	LinkLibcall
	LinkRPC
	LinkBuiltin
	LinkExternC
	LinkExternRPC
)

func (l Linkage) String() string {
	switch l {
	case LinkModule:
		return "module"
	case LinkPackage:
		return "package"
	case LinkLibcall:
		return "libcall"
	case LinkRPC:
		return "rpc"
	case LinkBuiltin:
		return "builtin"
	case LinkExternC:
		return "externC"
	case LinkExternRPC:
		return "externRpc"
	default:
		return "unknown"
	}
}

// Function owns its parameter list (as Variables), its body Block, and a
// tree of child Functions (spec.md §3.2). Parent is a non-owning
// back-reference, never followed during cascade-delete.
type Function struct {
	Symbol  *Symbol
	Kind    FunctionKind
	Linkage Linkage
	Type    types.Type // the Function(param, result) type once inferred

	Params []*Variable // owned
	Body   *Block      // owned, nil for externC/externRpc/libcall declarations

	Parent   *Function   // non-owning back reference
	Children []*Function // owned

	Filepath *Filepath // non-owning back reference to the owning file
	Location Location
}

// NewFunction constructs a function node owned by nothing yet; callers
// attach it to a Filepath or parent Function with AddChildFunction.
func NewFunction(sym *Symbol, kind FunctionKind, linkage Linkage, loc Location) *Function {
	return &Function{Symbol: sym, Kind: kind, Linkage: linkage, Location: loc}
}

// AddChildFunction records child as an owned child of f, setting the
// non-owning Parent back-reference.
func (f *Function) AddChildFunction(child *Function) {
	child.Parent = f
	f.Children = append(f.Children, child)
}

// AddParam appends v to f's owned parameter list, setting v's owning
// Function back-reference.
func (f *Function) AddParam(v *Variable) {
	v.Kind = VarParameter
	v.Function = f
	f.Params = append(f.Params, v)
}

// SetBody attaches an owned body Block to f.
func (f *Function) SetBody(b *Block) {
	b.OwnerFunction = f
	f.Body = b
}
