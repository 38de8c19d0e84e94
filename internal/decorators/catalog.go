package decorators

import (
	"sync"

	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
)

var (
	catalogOnce sync.Once
	catalog     *hierarchy.Catalog
)

// Catalog returns the process-wide catalog of built-in decorators.
func Catalog() *hierarchy.Catalog {
	catalogOnce.Do(func() {
		catalog = hierarchy.NewCatalog()
		register(catalog)
	})
	return catalog
}

func register(c *hierarchy.Catalog) {
	c.Register(NameBand, hierarchy.LayerBackground, NewBand)

	c.Register(NameConnectors, hierarchy.LayerLabel, NewConnectors)
	c.Register(NameLabel, hierarchy.LayerLabel, NewLabel)
	c.Register(NameHeader, hierarchy.LayerLabel, NewHeader)
	c.Register(NameIcons, hierarchy.LayerLabel, NewIcons)
	c.Register(NameBadges, hierarchy.LayerLabel, NewBadges)

	c.Register(NamePrefab, hierarchy.LayerOverlay, NewPrefab)
	c.Register(NameToggle, hierarchy.LayerOverlay, NewToggle)
	c.Register(NameBreadcrumbs, hierarchy.LayerOverlay, NewBreadcrumbs)
	c.Register(NameSelection, hierarchy.LayerOverlay, NewSelection)
	c.Register(NameSearch, hierarchy.LayerOverlay, NewSearch)
}

// Install registers every built-in decorator on d in paint order.
func Install(d *hierarchy.Dispatcher) error {
	decs, err := Catalog().Build()
	if err != nil {
		return err
	}
	return d.Use(decs...)
}

// Reinstall drops the cached catalog listing and swaps every built-in
// decorator d holds for a fresh instance. Paint order is kept, built-ins
// removed from d stay removed and other decorators are left alone.
func Reinstall(d *hierarchy.Dispatcher) error {
	c := Catalog()
	c.Invalidate()

	var order, builtin []string
	for _, dec := range d.Decorators() {
		order = append(order, dec.Name())
		if _, ok := c.Lookup(dec.Name()); ok {
			builtin = append(builtin, dec.Name())
		}
	}
	if len(builtin) == 0 {
		return nil
	}

	decs, err := c.Build(builtin...)
	if err != nil {
		return err
	}
	for _, name := range builtin {
		d.Remove(name)
	}
	if err := d.Use(decs...); err != nil {
		return err
	}
	return d.Reorder(order...)
}
