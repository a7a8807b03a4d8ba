package casting

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func fieldNames(o *Object) []string {
	names := make([]string, 0, len(o.fields))
	for name := range o.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// userObject builds a selection-scoped unit over User from a bare selection
// set such as "{ id name }".
func userObject(t *testing.T, reg *Registry, selection string) *Object {
	t.Helper()
	schema := reg.Schema()
	obj, err := selectObject(reg, schema.Types["User"], mustSelection(t, selection), nil)
	require.NoError(t, err)
	return obj
}

func TestObjectMergeFieldSets(t *testing.T) {
	schema := mustLoadSchema(t)
	reg := NewRegistry(schema)

	a := userObject(t, reg, "{ id name }")
	b := userObject(t, reg, "{ name age }")
	c := userObject(t, reg, "{ age status }")

	t.Run("Union of field names", func(t *testing.T) {
		merged, err := a.Merge(b)
		require.NoError(t, err)
		if diff := cmp.Diff([]string{"age", "id", "name"}, fieldNames(merged)); diff != "" {
			t.Fatalf("field set mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Commutative", func(t *testing.T) {
		ab, err := a.Merge(b)
		require.NoError(t, err)
		ba, err := b.Merge(a)
		require.NoError(t, err)
		if diff := cmp.Diff(fieldNames(ab), fieldNames(ba)); diff != "" {
			t.Fatalf("a|b and b|a differ (-want +got):\n%s", diff)
		}
	})

	t.Run("Associative", func(t *testing.T) {
		ab, err := a.Merge(b)
		require.NoError(t, err)
		abc1, err := ab.Merge(c)
		require.NoError(t, err)
		bc, err := b.Merge(c)
		require.NoError(t, err)
		abc2, err := a.Merge(bc)
		require.NoError(t, err)
		if diff := cmp.Diff(fieldNames(abc1), fieldNames(abc2)); diff != "" {
			t.Fatalf("(a|b)|c and a|(b|c) differ (-want +got):\n%s", diff)
		}
	})

	t.Run("Self merge is a no-op", func(t *testing.T) {
		aa, err := a.Merge(a)
		require.NoError(t, err)
		if diff := cmp.Diff(fieldNames(a), fieldNames(aa)); diff != "" {
			t.Fatalf("a|a changed the field set (-want +got):\n%s", diff)
		}
	})
}

func TestObjectMergeRecursesIntoSharedFields(t *testing.T) {
	schema := mustLoadSchema(t)
	reg := NewRegistry(schema)

	a := userObject(t, reg, "{ friends { id } }")
	b := userObject(t, reg, "{ friends { name } }")

	merged, err := a.Merge(b)
	require.NoError(t, err)

	list, ok := merged.fields["friends"].(*List)
	require.True(t, ok, "friends should stay a list unit")
	inner, ok := list.Inner.(*Object)
	require.True(t, ok, "friends element should stay an object unit")
	if diff := cmp.Diff([]string{"id", "name"}, fieldNames(inner)); diff != "" {
		t.Fatalf("nested field set mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectMergeRejectsDifferentTypes(t *testing.T) {
	schema := mustLoadSchema(t)
	reg := NewRegistry(schema)

	user := userObject(t, reg, "{ id }")
	bot, err := selectObject(reg, schema.Types["Bot"], mustSelection(t, "{ id }"), nil)
	require.NoError(t, err)

	_, err = user.Merge(bot)
	require.Error(t, err)
}

func TestMergeUnitsRejectsIncompatibleShapes(t *testing.T) {
	intUnit := &Scalar{Name: "Int"}
	strUnit := &Scalar{Name: "String"}

	_, err := mergeUnits(intUnit, strUnit)
	require.Error(t, err)

	_, err = mergeUnits(&List{Inner: intUnit}, intUnit)
	require.Error(t, err)

	same, err := mergeUnits(&NonNull{Inner: intUnit}, &NonNull{Inner: intUnit})
	require.NoError(t, err)
	_, ok := same.(*NonNull)
	require.True(t, ok)
}

func TestPossibleTypesMerge(t *testing.T) {
	schema := mustLoadSchema(t)
	reg := NewRegistry(schema)

	a, err := SelectionUnit(reg, schema.Types["SearchResult"], mustSelection(t, "{ __typename ... on User { id } }"), nil)
	require.NoError(t, err)
	b, err := SelectionUnit(reg, schema.Types["SearchResult"], mustSelection(t, "{ __typename ... on User { name } }"), nil)
	require.NoError(t, err)

	merged, err := mergeUnits(a, b)
	require.NoError(t, err)
	dispatch, ok := merged.(*PossibleTypes)
	require.True(t, ok)
	user := dispatch.Types["User"]
	require.NotNil(t, user)
	if diff := cmp.Diff([]string{"__typename", "id", "name"}, fieldNames(user)); diff != "" {
		t.Fatalf("dispatch field set mismatch (-want +got):\n%s", diff)
	}
}
