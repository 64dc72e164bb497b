package pedigree

// Sex is the closed enum over PED sex codes.
// 1 = male, 2 = female, anything else = unknown.
type Sex int

const (
	SexUnknown Sex = 0
	SexMale    Sex = 1
	SexFemale  Sex = 2
)

// SexFromCode maps a raw PED sex code onto the enum.
// Codes outside {1, 2} collapse to SexUnknown.
func SexFromCode(code int) Sex {
	switch code {
	case 1:
		return SexMale
	case 2:
		return SexFemale
	default:
		return SexUnknown
	}
}

// String returns the lowercase name of the sex.
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return "unknown"
	}
}

// Shape is the node outline used when rendering an individual.
type Shape string

const (
	// ShapeSquare is the conventional pedigree glyph for males.
	ShapeSquare Shape = "square"
	// ShapeCircle is used for females and individuals of unknown sex.
	ShapeCircle Shape = "circle"
)

// Shape returns the render shape for the sex: square for male,
// circle otherwise.
func (s Sex) Shape() Shape {
	if s == SexMale {
		return ShapeSquare
	}
	return ShapeCircle
}

// Status is the closed enum over PED affected codes.
// 1 = affected; anything else = unaffected/unknown.
type Status int

const (
	StatusUnknown  Status = 0
	StatusAffected Status = 1
)

// StatusFromCode maps a raw affected code onto the enum.
func StatusFromCode(code int) Status {
	if code == 1 {
		return StatusAffected
	}
	return StatusUnknown
}

// String returns the lowercase name of the status.
func (a Status) String() string {
	if a == StatusAffected {
		return "affected"
	}
	return "unaffected"
}

// Filled reports whether the node glyph should be filled when rendered.
func (a Status) Filled() bool { return a == StatusAffected }
