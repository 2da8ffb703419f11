package extract

import (
	"testing"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/catalog"
)

// oilCatalog is the default four-SKU catalog used throughout the tests.
func oilCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Product{
		{
			Code: "SFO-1L", DisplayName: "Sunflower Oil 1L", UnitPrice: 150,
			Aliases: []string{"sunflower oil 1l", "sunflower oil 1 litre", "sunflower 1l", "sfo 1l"},
		},
		{
			Code: "SFO-5L", DisplayName: "Sunflower Oil 5L", UnitPrice: 700,
			Aliases: []string{"sunflower oil 5l", "sunflower oil 5 litre", "sunflower 5l", "sfo 5l"},
		},
		{
			Code: "GNO-1L", DisplayName: "Groundnut Oil 1L", UnitPrice: 180,
			Aliases: []string{"groundnut oil 1l", "groundnut oil 1 litre", "groundnut 1l", "gno 1l"},
		},
		{
			Code: "GNO-5L", DisplayName: "Groundnut Oil 5L", UnitPrice: 850,
			Aliases: []string{"groundnut oil 5l", "groundnut oil 5 litre", "groundnut 5l", "gno 5l"},
		},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

// soloBrandCatalog has one size per brand, so the brand-token fallback
// applies.
func soloBrandCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Product{
		{
			Code: "SFO-1L", DisplayName: "Sunflower Oil 1L", UnitPrice: 150,
			Aliases: []string{"sunflower oil 1l"},
		},
		{
			Code: "GNO-1L", DisplayName: "Groundnut Oil 1L", UnitPrice: 180,
			Aliases: []string{"groundnut oil 1l"},
		},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}
