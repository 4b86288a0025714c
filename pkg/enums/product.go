package enums

import "fmt"

// ProductStatus marks whether a product is sellable.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// String implements fmt.Stringer.
func (p ProductStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductStatus.
func (p ProductStatus) IsValid() bool {
	return p == ProductStatusActive || p == ProductStatusInactive
}

// ProductOrigin separates curated catalog rows from rows synthesized by the
// webhook and abandoned-cart intake paths. Imported rows never show up in
// the public catalog listing.
type ProductOrigin string

const (
	ProductOriginCatalog  ProductOrigin = "catalog"
	ProductOriginImported ProductOrigin = "imported"
)

// String implements fmt.Stringer.
func (p ProductOrigin) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductOrigin.
func (p ProductOrigin) IsValid() bool {
	return p == ProductOriginCatalog || p == ProductOriginImported
}

// ParseProductOrigin converts raw input into a ProductOrigin.
func ParseProductOrigin(value string) (ProductOrigin, error) {
	switch ProductOrigin(value) {
	case ProductOriginCatalog:
		return ProductOriginCatalog, nil
	case ProductOriginImported:
		return ProductOriginImported, nil
	}
	return "", fmt.Errorf("invalid product origin %q", value)
}
