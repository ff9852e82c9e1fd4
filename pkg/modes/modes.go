package modes

// Mode selects which parent-assignment strategy is live over the shelf
// set: the logical template hierarchy or the physical hall/aisle/rack
// layout.
type Mode uint8

const (
	Hierarchy Mode = iota
	Location
)

// String returns the string representation of a mode
func (m Mode) String() string {
	if m == Location {
		return "location"
	}
	return "hierarchy"
}

// ParseMode converts a string to a Mode
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "hierarchy":
		return Hierarchy, true
	case "location":
		return Location, true
	default:
		return 0, false
	}
}
