package enums

import "fmt"

// BomKind classifies a bill of materials. Only normal BOMs are eligible
// for POS-triggered manufacturing.
type BomKind string

const (
	BomKindNormal      BomKind = "normal"
	BomKindPhantom     BomKind = "phantom"
	BomKindSubcontract BomKind = "subcontract"
)

var validBomKinds = []BomKind{
	BomKindNormal,
	BomKindPhantom,
	BomKindSubcontract,
}

// String implements fmt.Stringer.
func (b BomKind) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BomKind.
func (b BomKind) IsValid() bool {
	for _, candidate := range validBomKinds {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBomKind converts raw input into a BomKind.
func ParseBomKind(value string) (BomKind, error) {
	for _, candidate := range validBomKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bom kind %q", value)
}
