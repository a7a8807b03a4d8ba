package compiler

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vektah/gqlparser/v2/validator/rules"

	"github.com/Francis327921538/graphql-client/casting"
	"github.com/Francis327921538/graphql-client/internal/language"
)

// Compiler turns query text into frozen Definitions against a fixed schema.
// Fragments compiled earlier may be referenced by later Compile calls, so
// one Compiler instance should live as long as its definitions do.
type Compiler struct {
	schema   *ast.Schema
	registry *casting.Registry
	rules    *rules.Rules

	mu        sync.Mutex
	alloc     int
	qualified map[string]*Definition
	bare      map[string]*bareEntry
	taken     map[string]bool
	modules   map[string]*Module
}

// Fragment spreads may use a bare source name as long as exactly one module
// defines it; two modules sharing a name forces qualified references.
type bareEntry struct {
	def       *Definition
	ambiguous bool
}

// New builds a Compiler over the given schema. The casting registry is
// constructed once here and shared by every definition the compiler emits.
func New(schema *ast.Schema, opts ...casting.RegistryOption) *Compiler {
	r := rules.NewDefaultRules()
	// Unused fragments are the normal case for fragment-only blocks, and
	// discriminator fields are injected after validation runs.
	r.RemoveRule("NoUnusedFragments")
	r.RemoveRule("ScalarLeafs")
	return &Compiler{
		schema:    schema,
		registry:  casting.NewRegistry(schema, opts...),
		rules:     r,
		qualified: map[string]*Definition{},
		bare:      map[string]*bareEntry{},
		taken:     map[string]bool{},
		modules:   map[string]*Module{},
	}
}

// Registry returns the shared casting registry.
func (c *Compiler) Registry() *casting.Registry { return c.registry }

// Schema returns the schema the compiler validates against.
func (c *Compiler) Schema() *ast.Schema { return c.schema }

// Module returns a previously compiled module by name, or nil.
func (c *Compiler) Module(name string) *Module {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modules[name]
}

// Option adjusts a single Compile call.
type Option func(*compileOptions)

type compileOptions struct {
	loc Location
}

// WithLocation overrides the captured caller position with an explicit
// file and starting line for the query block.
func WithLocation(file string, line int) Option {
	return func(o *compileOptions) {
		o.loc = Location{File: file, Line: line}
	}
}

// Compile parses, validates, and freezes one query block under the given
// module name. An empty module name allocates a process-unique namespace, so
// such modules cannot be looked up or referenced by later blocks.
func (c *Compiler) Compile(moduleName, query string, opts ...Option) (*Module, error) {
	var o compileOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.loc.File == "" {
		if _, file, line, ok := runtime.Caller(1); ok {
			o.loc = Location{File: file, Line: line}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if moduleName != "" && c.modules[moduleName] != nil {
		return nil, &ValidationError{
			File:    o.loc.File,
			Line:    o.loc.Line,
			Message: fmt.Sprintf("module %q is already compiled", moduleName),
		}
	}

	// Qualified references are rewritten in the text before parsing, since
	// dots are not legal in GraphQL names.
	text, deps, err := c.interpolateQualified(query, o.loc)
	if err != nil {
		return nil, err
	}

	doc, err := language.ParseQuery(o.loc.File, text)
	if err != nil {
		return nil, &ParseError{File: o.loc.File, Err: err}
	}

	// Bare spreads that no local fragment satisfies bind against earlier
	// compiles; unresolvable ones fail here rather than in validation so
	// the error can carry a namespace hint.
	if err := c.bindBareSpreads(doc, deps, o.loc); err != nil {
		return nil, err
	}

	sentinels, err := nameAnonymous(doc, o.loc)
	if err != nil {
		return nil, err
	}

	union := unionDocument(doc, deps)
	if errs := validator.ValidateWithRules(c.schema, union, c.rules); len(errs) > 0 {
		first := errs[0]
		line := o.loc.Line
		if len(first.Locations) > 0 {
			line += first.Locations[0].Line - 1
		}
		return nil, &ValidationError{File: o.loc.File, Line: line, Message: first.Message}
	}

	table, err := tagTypes(c.schema, doc, union.Fragments)
	if err != nil {
		return nil, err
	}
	injectTypename(table, doc)

	renames := c.renameDefinitions(moduleName, doc, sentinels)

	mod := &Module{name: moduleName, byName: map[string]*Definition{}}
	depFragments := dependencyFragments(deps)
	for _, op := range doc.Operations {
		def, err := c.freezeOperation(op, doc, depFragments, o.loc, renames)
		if err != nil {
			return nil, err
		}
		mod.defs = append(mod.defs, def)
		if def.sourceName != "" {
			mod.byName[def.sourceName] = def
		}
	}
	for _, frag := range doc.Fragments {
		def, err := c.freezeFragment(frag, doc, depFragments, o.loc, renames)
		if err != nil {
			return nil, err
		}
		mod.defs = append(mod.defs, def)
		mod.byName[def.sourceName] = def
	}

	if len(mod.defs) == 1 && mod.defs[0].kind == KindOperation && mod.defs[0].sourceName == "" {
		mod.anonymous = mod.defs[0]
	}

	c.register(moduleName, mod)
	return mod, nil
}

func (c *Compiler) register(moduleName string, mod *Module) {
	if moduleName != "" {
		c.modules[moduleName] = mod
	}
	for _, def := range mod.defs {
		if def.sourceName == "" {
			continue
		}
		if moduleName != "" {
			c.qualified[moduleName+"."+def.sourceName] = def
		}
		if def.kind != KindFragment {
			continue
		}
		if prev, ok := c.bare[def.sourceName]; ok {
			prev.ambiguous = true
		} else {
			c.bare[def.sourceName] = &bareEntry{def: def}
		}
	}
}

func (c *Compiler) freezeOperation(op *ast.OperationDefinition, doc *ast.QueryDocument, deps ast.FragmentDefinitionList, loc Location, renames map[string]string) (*Definition, error) {
	typ := c.rootType(op.Operation)
	if typ == nil {
		return nil, &ValidationError{
			File:    loc.File,
			Line:    loc.Line,
			Message: fmt.Sprintf("schema does not define a %s root type", op.Operation),
		}
	}
	sliced := sliceOperation(op, doc, deps)
	unit, err := casting.SelectionUnit(c.registry, typ, op.SelectionSet, sliced.Fragments)
	if err != nil {
		return nil, err
	}
	return &Definition{
		name:       op.Name,
		sourceName: renames[op.Name],
		kind:       KindOperation,
		operation:  op,
		doc:        sliced,
		typ:        typ,
		unit:       unit,
		source:     loc,
		text:       language.FormatQuery(sliced),
	}, nil
}

func (c *Compiler) freezeFragment(frag *ast.FragmentDefinition, doc *ast.QueryDocument, deps ast.FragmentDefinitionList, loc Location, renames map[string]string) (*Definition, error) {
	typ := c.schema.Types[frag.TypeCondition]
	if typ == nil {
		return nil, &ValidationError{
			File:    loc.File,
			Line:    loc.Line,
			Message: fmt.Sprintf("unknown type %q in fragment condition", frag.TypeCondition),
		}
	}
	sliced := sliceFragment(frag, doc, deps)
	unit, err := casting.SelectionUnit(c.registry, typ, frag.SelectionSet, sliced.Fragments)
	if err != nil {
		return nil, err
	}
	return &Definition{
		name:       frag.Name,
		sourceName: renames[frag.Name],
		kind:       KindFragment,
		fragment:   frag,
		doc:        sliced,
		typ:        typ,
		unit:       unit,
		source:     loc,
		text:       language.FormatQuery(sliced),
	}, nil
}

func (c *Compiler) rootType(op ast.Operation) *ast.Definition {
	switch op {
	case ast.Mutation:
		return c.schema.Mutation
	case ast.Subscription:
		return c.schema.Subscription
	default:
		return c.schema.Query
	}
}

// unionDocument is what the validator sees: the block's own definitions plus
// every dependency fragment, deduplicated by name.
func unionDocument(doc *ast.QueryDocument, deps map[string]*Definition) *ast.QueryDocument {
	union := &ast.QueryDocument{Operations: doc.Operations}
	union.Fragments = append(union.Fragments, doc.Fragments...)
	seen := map[string]bool{}
	for _, frag := range doc.Fragments {
		seen[frag.Name] = true
	}
	for _, dep := range sortedDeps(deps) {
		for _, frag := range dep.doc.Fragments {
			if !seen[frag.Name] {
				seen[frag.Name] = true
				union.Fragments = append(union.Fragments, frag)
			}
		}
	}
	return union
}

func dependencyFragments(deps map[string]*Definition) ast.FragmentDefinitionList {
	var out ast.FragmentDefinitionList
	seen := map[string]bool{}
	for _, dep := range sortedDeps(deps) {
		for _, frag := range dep.doc.Fragments {
			if !seen[frag.Name] {
				seen[frag.Name] = true
				out = append(out, frag)
			}
		}
	}
	return out
}

func sortedDeps(deps map[string]*Definition) []*Definition {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Definition, 0, len(names))
	for _, name := range names {
		out = append(out, deps[name])
	}
	return out
}
