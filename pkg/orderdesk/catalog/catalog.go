package catalog

import (
	"fmt"
	"strings"

	"github.com/orderdesk/orderdesk/pkg/orderdesk/internalerr"
)

// Product is one sellable item. UnitPrice is an integer amount in the
// smallest displayed currency unit (whole rupees for the default catalog).
type Product struct {
	Code        string
	DisplayName string
	UnitPrice   int64
	Aliases     []string
}

// Catalog is an immutable product table, built once at startup.
type Catalog struct {
	products []Product
	byCode   map[string]int
}

// New validates the product list and builds a catalog. The catalog keeps
// its own copy of the slice and never changes after construction.
func New(products []Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: no products", internalerr.ErrInvalidCatalog)
	}

	c := &Catalog{
		products: make([]Product, len(products)),
		byCode:   make(map[string]int, len(products)),
	}
	for i, p := range products {
		if strings.TrimSpace(p.Code) == "" {
			return nil, fmt.Errorf("%w: product %d has empty code", internalerr.ErrInvalidCatalog, i)
		}
		if strings.TrimSpace(p.DisplayName) == "" {
			return nil, fmt.Errorf("%w: product %q has empty display name", internalerr.ErrInvalidCatalog, p.Code)
		}
		if p.UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: product %q has non-positive unit price", internalerr.ErrInvalidCatalog, p.Code)
		}

		key := strings.ToLower(strings.TrimSpace(p.Code))
		if _, dup := c.byCode[key]; dup {
			return nil, fmt.Errorf("%w: duplicate code %q", internalerr.ErrInvalidCatalog, p.Code)
		}

		cp := p
		cp.Aliases = make([]string, len(p.Aliases))
		for j, a := range p.Aliases {
			a = strings.ToLower(strings.TrimSpace(a))
			if a == "" {
				return nil, fmt.Errorf("%w: product %q has empty alias", internalerr.ErrInvalidCatalog, p.Code)
			}
			// "and" is a segment separator, so an alias containing it
			// could never match a whole segment.
			if containsWord(a, "and") {
				return nil, fmt.Errorf("%w: alias %q of product %q contains the word \"and\"", internalerr.ErrInvalidCatalog, a, p.Code)
			}
			cp.Aliases[j] = a
		}

		c.products[i] = cp
		c.byCode[key] = i
	}
	return c, nil
}

// Products returns all products in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByCode looks up a product by its code, case-insensitively.
func (c *Catalog) ByCode(code string) (Product, bool) {
	i, ok := c.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

func containsWord(phrase, word string) bool {
	for _, f := range strings.Fields(phrase) {
		if f == word {
			return true
		}
	}
	return false
}
