package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factory(name string, layer Layer) (string, Layer, func() Decorator) {
	return name, layer, func() Decorator { return newRecorder(name, layer, nil) }
}

func TestCatalogOrder(t *testing.T) {
	c := NewCatalog()
	c.Register(factory("search", LayerOverlay))
	c.Register(factory("label", LayerLabel))
	c.Register(factory("band", LayerBackground))
	c.Register(factory("icons", LayerLabel))

	assert.Equal(t, []string{"band", "label", "icons", "search"}, c.Names())
}

func TestCatalogReplaceKeepsPosition(t *testing.T) {
	c := NewCatalog()
	c.Register(factory("label", LayerLabel))
	c.Register(factory("icons", LayerLabel))
	c.Register(factory("label", LayerLabel))

	assert.Equal(t, []string{"label", "icons"}, c.Names())
}

func TestCatalogAllIsRestartable(t *testing.T) {
	c := NewCatalog()
	c.Register(factory("a", LayerLabel))
	c.Register(factory("b", LayerLabel))

	var first, second []string
	for f := range c.All() {
		first = append(first, f.Name)
	}
	for f := range c.All() {
		second = append(second, f.Name)
		break
	}

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, []string{"a"}, second)

	c.Register(factory("c", LayerBackground))
	assert.Equal(t, []string{"c", "a", "b"}, c.Names(), "registration invalidates the listing")

	c.Invalidate()
	assert.Equal(t, []string{"c", "a", "b"}, c.Names())
}

func TestCatalogBuild(t *testing.T) {
	c := NewCatalog()
	c.Register(factory("a", LayerLabel))
	c.Register(factory("b", LayerOverlay))

	all, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(all))

	some, err := c.Build("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names(some))

	_, err = c.Build("missing")
	assert.ErrorIs(t, err, ErrUnknownDecorator)

	again, _ := c.Build("a")
	assert.NotSame(t, all[0], again[0], "every build makes fresh decorators")
}
