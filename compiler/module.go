package compiler

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Francis327921538/graphql-client/casting"
)

// Kind distinguishes executable operations from reusable fragments.
type Kind int

const (
	KindOperation Kind = iota
	KindFragment
)

func (k Kind) String() string {
	if k == KindFragment {
		return "fragment"
	}
	return "operation"
}

// Location is the source position a query block was compiled from.
type Location struct {
	File string
	Line int
}

// Definition is one compiled, named definition: its minimal document, the
// schema type it resolves to, and the casting unit for its selection.
// Definitions are frozen at compile time and safe to share across goroutines.
type Definition struct {
	name       string
	sourceName string
	kind       Kind
	operation  *ast.OperationDefinition
	fragment   *ast.FragmentDefinition
	doc        *ast.QueryDocument
	typ        *ast.Definition
	unit       casting.Unit
	source     Location
	text       string
}

// Name returns the globally disambiguated definition name, or "" for an
// anonymous operation.
func (d *Definition) Name() string { return d.name }

// SourceName returns the name the definition had in its query text.
func (d *Definition) SourceName() string { return d.sourceName }

// Kind reports whether this is an operation or a fragment.
func (d *Definition) Kind() Kind { return d.kind }

// Operation returns the operation node, or nil for fragments.
func (d *Definition) Operation() *ast.OperationDefinition { return d.operation }

// FragmentDefinition returns the fragment node, or nil for operations.
func (d *Definition) FragmentDefinition() *ast.FragmentDefinition { return d.fragment }

// Document returns the minimal document: this definition plus every fragment
// it transitively references, each exactly once.
func (d *Definition) Document() *ast.QueryDocument { return d.doc }

// Type returns the schema type the definition resolves to: the root
// operation type for operations, the type condition for fragments.
func (d *Definition) Type() *ast.Definition { return d.typ }

// Unit returns the casting unit for the definition's selection set.
func (d *Definition) Unit() casting.Unit { return d.unit }

// Source returns where the defining query block started.
func (d *Definition) Source() Location { return d.source }

// String returns the minimal document as GraphQL text, formatted once at
// compile time.
func (d *Definition) String() string { return d.text }

// Narrow casts a view produced by some other definition into this fragment's
// view. Permitted only when this fragment was spread into the selection the
// view was built from.
func (d *Definition) Narrow(view *casting.View) (*casting.View, error) {
	if d.kind != KindFragment {
		return nil, &casting.TypeMismatchError{Expected: "a fragment definition", Actual: "an operation definition"}
	}
	return casting.Narrow(view, d.name, d.unit)
}

// Module is the result of compiling one query text block: its named
// definitions in source order, addressable by source name.
type Module struct {
	name      string
	defs      []*Definition
	byName    map[string]*Definition
	anonymous *Definition
}

// Name returns the namespace the module was compiled under.
func (m *Module) Name() string { return m.name }

// Definitions returns all compiled definitions in source order.
func (m *Module) Definitions() []*Definition { return m.defs }

// Get returns the definition with the given source name, or nil.
func (m *Module) Get(name string) *Definition { return m.byName[name] }

// Anonymous returns the module's single unnamed operation, or nil when the
// block contained named definitions.
func (m *Module) Anonymous() *Definition { return m.anonymous }

func (m *Module) fragmentNames() []string {
	var names []string
	for _, d := range m.defs {
		if d.kind == KindFragment {
			names = append(names, d.sourceName)
		}
	}
	return names
}
