package compiler

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// Anonymous operations are given sentinel names so validation can refer to
// them; the sentinels are cleared again after renaming.
const anonymousFormat = "__anonymous%d__"

func nameAnonymous(doc *ast.QueryDocument, loc Location) (map[string]bool, error) {
	sentinels := map[string]bool{}
	n := 0
	for _, op := range doc.Operations {
		if op.Name != "" {
			continue
		}
		if len(doc.Operations)+len(doc.Fragments) > 1 {
			return nil, &ValidationError{
				File:    loc.File,
				Line:    loc.Line,
				Message: "an anonymous operation must be the only definition in its query",
			}
		}
		op.Name = fmt.Sprintf(anonymousFormat, n)
		sentinels[op.Name] = true
		n++
	}
	return sentinels, nil
}

// renameDefinitions rewrites every locally defined name to its final global
// form and rebinds local spreads in lockstep. The returned map recovers the
// source name from the final one.
//
// Named modules produce "<module>__<name>"; unnamed blocks draw a fresh "D<n>"
// namespace from the process-wide counter. Callers hold c.mu.
func (c *Compiler) renameDefinitions(moduleName string, doc *ast.QueryDocument, sentinels map[string]bool) map[string]string {
	ns := moduleName
	if ns == "" {
		ns = fmt.Sprintf("D%d", c.alloc)
		c.alloc++
	}

	finals := map[string]string{}
	assign := func(sourceName string) string {
		final := ns + "__" + sourceName
		for n := 2; c.taken[final]; n++ {
			final = fmt.Sprintf("%s__%s_%d", ns, sourceName, n)
		}
		c.taken[final] = true
		finals[sourceName] = final
		return final
	}

	renames := map[string]string{}
	for _, op := range doc.Operations {
		if sentinels[op.Name] {
			continue
		}
		source := op.Name
		op.Name = assign(source)
		renames[op.Name] = source
	}
	for _, frag := range doc.Fragments {
		source := frag.Name
		frag.Name = assign(source)
		renames[frag.Name] = source
	}

	eachSpread(doc, func(spread *ast.FragmentSpread) {
		if final, ok := finals[spread.Name]; ok {
			spread.Name = final
		}
	})

	for _, op := range doc.Operations {
		if sentinels[op.Name] {
			op.Name = ""
			renames[""] = ""
		}
	}
	return renames
}
