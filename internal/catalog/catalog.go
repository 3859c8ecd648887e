// Package catalog loads the product catalog from CUE.
//
// A catalog file declares a `products` list that must satisfy the embedded
// schema (schema.cue). The built-in catalog (default.cue) is used when no
// file is configured.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/ahluxe/internal/shop"
)

//go:embed schema.cue
var schemaCUE string

//go:embed default.cue
var defaultCUE []byte

// ErrUnknownProduct is returned for an ID the catalog does not list.
var ErrUnknownProduct = errors.New("catalog: unknown product")

// Catalog is an ordered, ID-indexed product list.
type Catalog struct {
	products []shop.Product
	byID     map[string]int
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse("default.cue", defaultCUE)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog invalid: %v", err))
	}
	return c
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(path, data)
}

// Parse compiles CUE source, validates it against the schema and returns
// the catalog. Product IDs must be unique.
func Parse(filename string, src []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("catalog: schema: %w", err)
	}

	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("catalog: %s", cueerrors.Details(err, nil))
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("catalog: %s", cueerrors.Details(err, nil))
	}

	var doc struct {
		Products []shop.Product `json:"products"`
	}
	if err := unified.Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(doc.Products))}
	for _, p := range doc.Products {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Product returns the product with id.
func (c *Catalog) Product(id string) (shop.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return shop.Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, id)
	}
	return c.products[i], nil
}

// All returns the products in catalog order.
func (c *Catalog) All() []shop.Product {
	out := make([]shop.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
