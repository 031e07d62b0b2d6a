package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestMap_PreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("zebra", NewScalar(cty.True))
	m.Set("apple", NewScalar(cty.False))
	m.Set("mango", NewScalar(cty.True))

	require.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())

	// Replacing a child keeps the original position.
	m.Set("apple", NewScalar(cty.True))
	require.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())
	require.Equal(t, 3, m.Len())
}

func TestGetPath(t *testing.T) {
	m := NewMap()
	require.NoError(t, SetPath(m, "man.enable", NewScalar(cty.True)))
	require.NoError(t, SetPath(m, "man.generate_caches", NewScalar(cty.False)))
	require.NoError(t, SetPath(m, "info.enable", NewScalar(cty.True)))

	v, ok := GetPath(m, "man.enable")
	require.True(t, ok)
	require.True(t, v.True())

	_, ok = GetPath(m, "man.missing")
	require.False(t, ok)

	// A path landing on an interior map is not a scalar read.
	_, ok = GetPath(m, "man")
	require.False(t, ok)

	_, ok = GetPath(m, "man.enable.deeper")
	require.False(t, ok)
}

func TestSetPath_RejectsLeafCollisions(t *testing.T) {
	m := NewMap()
	require.NoError(t, SetPath(m, "man.enable", NewScalar(cty.True)))

	// An intermediate segment that is already a leaf cannot be traversed.
	err := SetPath(m, "man.enable.extra", NewScalar(cty.True))
	var structErr *StructuralError
	require.ErrorAs(t, err, &structErr)

	// A leaf cannot silently replace a whole subtree.
	err = SetPath(m, "man", NewScalar(cty.False))
	require.ErrorAs(t, err, &structErr)
}

func TestEqual(t *testing.T) {
	build := func() *Map {
		m := NewMap()
		_ = SetPath(m, "man.enable", NewScalar(cty.True))
		_ = SetPath(m, "pkgs.man_db", &Artifact{Name: "pkgs.man_db"})
		return m
	}

	require.True(t, Equal(build(), build()))

	// Key order does not participate in equality.
	a := NewMap()
	a.Set("x", NewScalar(cty.True))
	a.Set("y", NewScalar(cty.False))
	b := NewMap()
	b.Set("y", NewScalar(cty.False))
	b.Set("x", NewScalar(cty.True))
	require.True(t, Equal(a, b))

	changed := build()
	_ = SetPath(changed, "man.enable", NewScalar(cty.False))
	require.False(t, Equal(build(), changed))

	require.False(t, Equal(NewScalar(cty.True), &Artifact{Name: "x"}))
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder("pkgs.man_db")
	require.Equal(t, "${pkgs.man_db}", p.Value.AsString())
}
