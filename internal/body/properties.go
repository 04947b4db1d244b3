package body

// UpdateKind selects which derived fields SetProperties recomputes.
type UpdateKind int

const (
	// MassOnly recomputes both radius and color from mass.
	MassOnly UpdateKind = iota
	// MassAndRadius keeps the given radius and recomputes color.
	MassAndRadius
	// MassAndColor keeps the given color and recomputes radius.
	MassAndColor
	// Full keeps both the given radius and color.
	Full
)

func (k UpdateKind) String() string {
	switch k {
	case MassOnly:
		return "mass"
	case MassAndRadius:
		return "mass+radius"
	case MassAndColor:
		return "mass+color"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

func (k UpdateKind) hasRadius() bool { return k == MassAndRadius || k == Full }
func (k UpdateKind) hasColor() bool  { return k == MassAndColor || k == Full }

// Properties is a tagged update for a Body. Fields not covered by Kind are
// ignored.
type Properties struct {
	Kind   UpdateKind
	Mass   float64
	Radius float64
	Color  string
}

func Mass(m float64) Properties {
	return Properties{Kind: MassOnly, Mass: m}
}

func MassRadius(m, r float64) Properties {
	return Properties{Kind: MassAndRadius, Mass: m, Radius: r}
}

func MassColor(m float64, c string) Properties {
	return Properties{Kind: MassAndColor, Mass: m, Color: c}
}

func FullProperties(m, r float64, c string) Properties {
	return Properties{Kind: Full, Mass: m, Radius: r, Color: c}
}
