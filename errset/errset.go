// Package errset holds the positional error collection attached to GraphQL
// responses. A collection is a read-only view over one shared error list plus
// an accumulated path prefix; narrowing to a field or list index never copies
// or mutates entries, it only extends the prefix.
package errset

// Entry is a single response-level GraphQL error as reported by an executor.
type Entry struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Errors is an ordered error collection scoped to one position in the data
// tree. The zero value is an empty collection rooted at the top.
type Errors struct {
	entries []Entry
	prefix  []any
}

// New builds a root collection over entries. The slice is retained, not
// copied; callers must not mutate it afterwards.
func New(entries []Entry) *Errors {
	return &Errors{entries: entries}
}

// FilterByPath narrows the collection to errors under the given path segment.
// The returned collection shares the underlying entries.
func (e *Errors) FilterByPath(segment any) *Errors {
	if e == nil {
		return &Errors{}
	}
	prefix := make([]any, len(e.prefix)+1)
	copy(prefix, e.prefix)
	prefix[len(e.prefix)] = segment
	return &Errors{entries: e.entries, prefix: prefix}
}

// All returns the entries visible at this scope, with the accumulated prefix
// stripped from each path. An entry with an empty path applies to the root
// collection only: it is broadcast at the top and invisible under any prefix.
func (e *Errors) All() []Entry {
	if e == nil {
		return nil
	}
	var out []Entry
	for _, entry := range e.entries {
		if len(entry.Path) == 0 {
			if len(e.prefix) == 0 {
				out = append(out, entry)
			}
			continue
		}
		if !hasPrefix(entry.Path, e.prefix) {
			continue
		}
		out = append(out, Entry{
			Message:    entry.Message,
			Path:       entry.Path[len(e.prefix):],
			Extensions: entry.Extensions,
		})
	}
	return out
}

// Messages returns the messages of the visible entries, in order.
func (e *Errors) Messages() []string {
	all := e.All()
	if len(all) == 0 {
		return nil
	}
	msgs := make([]string, len(all))
	for i, entry := range all {
		msgs[i] = entry.Message
	}
	return msgs
}

// Len reports the number of entries visible at this scope.
func (e *Errors) Len() int { return len(e.All()) }

// Empty reports whether no entries are visible at this scope.
func (e *Errors) Empty() bool { return e.Len() == 0 }

func hasPrefix(path, prefix []any) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i, seg := range prefix {
		if !segmentEqual(path[i], seg) {
			return false
		}
	}
	return true
}

// segmentEqual compares path segments across the numeric types JSON decoding
// and Go indexing produce: "0", int(0) and float64(0) address the same list
// element only for the numeric forms.
func segmentEqual(a, b any) bool {
	if an, ok := asIndex(a); ok {
		bn, ok := asIndex(b)
		return ok && an == bn
	}
	as, ok := a.(string)
	if !ok {
		return false
	}
	bs, ok := b.(string)
	return ok && as == bs
}

func asIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
