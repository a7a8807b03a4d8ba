package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Francis327921538/graphql-client/casting"
)

// Qualified fragment references look like "...Module.Fragment". Dots are not
// legal in GraphQL names, so these are resolved and rewritten in the raw text
// before the parser ever sees them.
var qualifiedSpread = regexp.MustCompile(`\.\.\.\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)+)`)

func (c *Compiler) interpolateQualified(query string, loc Location) (string, map[string]*Definition, error) {
	deps := map[string]*Definition{}
	matches := qualifiedSpread.FindAllStringSubmatchIndex(query, -1)
	if len(matches) == 0 {
		return query, deps, nil
	}

	literals := stringLiteralRanges(query)

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if insideRange(literals, m[0]) {
			continue
		}
		start, end := m[2], m[3]
		ref := query[start:end]
		def, err := c.resolveQualified(ref, lineAt(query, start, loc))
		if err != nil {
			return "", nil, err
		}
		c.collectDependency(deps, def)
		b.WriteString(query[last:start])
		b.WriteString(def.name)
		last = end
	}
	b.WriteString(query[last:])
	return b.String(), deps, nil
}

func (c *Compiler) resolveQualified(ref string, loc Location) (*Definition, error) {
	def, ok := c.qualified[ref]
	if !ok {
		modName := ref[:strings.LastIndex(ref, ".")]
		if mod := c.modules[modName]; mod != nil {
			return nil, &ValidationError{
				File:    loc.File,
				Line:    loc.Line,
				Message: fmt.Sprintf("module %q has no definition %q", modName, ref[len(modName)+1:]),
				Hint:    memberHint(mod),
			}
		}
		return nil, &ValidationError{
			File:    loc.File,
			Line:    loc.Line,
			Message: fmt.Sprintf("%q does not resolve to a compiled fragment", ref),
		}
	}
	if def.kind != KindFragment {
		return nil, &casting.TypeMismatchError{Expected: "a fragment definition", Actual: "an operation definition"}
	}
	return def, nil
}

// bindBareSpreads rewrites spreads that name no local fragment to the final
// name of an earlier compiled fragment, or fails with a hint.
func (c *Compiler) bindBareSpreads(doc *ast.QueryDocument, deps map[string]*Definition, loc Location) error {
	local := map[string]bool{}
	for _, frag := range doc.Fragments {
		local[frag.Name] = true
	}

	rewrite := map[string]string{}
	var walkErr error
	eachSpread(doc, func(spread *ast.FragmentSpread) {
		if walkErr != nil || local[spread.Name] {
			return
		}
		if _, ok := rewrite[spread.Name]; ok {
			return
		}
		if _, ok := deps[spread.Name]; ok {
			return
		}
		at := loc
		if spread.Position != nil {
			at.Line = loc.Line + spread.Position.Line - 1
		}
		def, err := c.resolveBare(spread.Name, at)
		if err != nil {
			walkErr = err
			return
		}
		c.collectDependency(deps, def)
		rewrite[spread.Name] = def.name
	})
	if walkErr != nil {
		return walkErr
	}
	if len(rewrite) > 0 {
		eachSpread(doc, func(spread *ast.FragmentSpread) {
			if final, ok := rewrite[spread.Name]; ok {
				spread.Name = final
			}
		})
	}
	return nil
}

func (c *Compiler) resolveBare(name string, loc Location) (*Definition, error) {
	if entry, ok := c.bare[name]; ok {
		if entry.ambiguous {
			return nil, &ValidationError{
				File:    loc.File,
				Line:    loc.Line,
				Message: fmt.Sprintf("fragment name %q is defined by more than one module", name),
				Hint:    "qualify the reference with its module name",
			}
		}
		return entry.def, nil
	}
	if mod := c.modules[name]; mod != nil {
		return nil, &ValidationError{
			File:    loc.File,
			Line:    loc.Line,
			Message: fmt.Sprintf("%q is a module, not a fragment", name),
			Hint:    memberHint(mod),
		}
	}
	return nil, &ValidationError{
		File:    loc.File,
		Line:    loc.Line,
		Message: fmt.Sprintf("fragment %q is neither defined in this query nor previously compiled", name),
	}
}

// collectDependency records a resolved fragment and, transitively, every
// fragment its own document carries.
func (c *Compiler) collectDependency(deps map[string]*Definition, def *Definition) {
	if _, ok := deps[def.name]; ok {
		return
	}
	deps[def.name] = def
}

func memberHint(mod *Module) string {
	names := mod.fragmentNames()
	if len(names) == 0 {
		return "the module defines no fragments"
	}
	return "its fragments are " + strings.Join(names, ", ")
}

// stringLiteralRanges reports the byte ranges of GraphQL string values in the
// text, so that dotted references inside them are left untouched. Block
// strings run until the closing triple quote; single-line strings honor
// backslash escapes and end at an unescaped quote or a newline.
func stringLiteralRanges(s string) [][2]int {
	var ranges [][2]int
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		start := i
		if strings.HasPrefix(s[i:], `"""`) {
			end := strings.Index(s[i+3:], `"""`)
			if end < 0 {
				ranges = append(ranges, [2]int{start, len(s)})
				break
			}
			i += 3 + end + 2
			ranges = append(ranges, [2]int{start, i + 1})
			continue
		}
		j := i + 1
		for j < len(s) && s[j] != '"' && s[j] != '\n' {
			if s[j] == '\\' {
				j++
			}
			j++
		}
		if j < len(s) && s[j] == '"' {
			j++
		}
		ranges = append(ranges, [2]int{start, j})
		i = j - 1
	}
	return ranges
}

func insideRange(ranges [][2]int, pos int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

func lineAt(text string, offset int, loc Location) Location {
	line := loc.Line
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
		}
	}
	return Location{File: loc.File, Line: line}
}

func eachSpread(doc *ast.QueryDocument, fn func(*ast.FragmentSpread)) {
	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				walk(s.SelectionSet)
			case *ast.InlineFragment:
				walk(s.SelectionSet)
			case *ast.FragmentSpread:
				fn(s)
			}
		}
	}
	for _, op := range doc.Operations {
		walk(op.SelectionSet)
	}
	for _, frag := range doc.Fragments {
		walk(frag.SelectionSet)
	}
}
