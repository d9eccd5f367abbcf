package enums

// ShortageReason codes why a component shows up in an availability report.
type ShortageReason string

const (
	// ShortageReasonInsufficientStock marks an ordinary shortfall at the
	// resolved location.
	ShortageReasonInsufficientStock ShortageReason = "insufficient_stock"
	// ShortageReasonNoBom marks a check that could not run because no
	// bill of materials was resolvable.
	ShortageReasonNoBom ShortageReason = "no_bom"
	// ShortageReasonNoLocation marks a check that could not observe stock
	// because no location was resolvable. Treated as unavailable.
	ShortageReasonNoLocation ShortageReason = "no_location"
)

// String implements fmt.Stringer.
func (s ShortageReason) String() string {
	return string(s)
}
