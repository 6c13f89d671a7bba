package ir

import "fmt"

// AddressSpace identifies the memory a pointer refers to.
type AddressSpace uint8

const (
	AsGeneric AddressSpace = iota
	AsPrivate
	AsFunction
	AsSubgroup
	AsShared
	AsGlobal
	AsInput
	AsOutput
	AsUniform
	AsPushConstant
	AsProgramCode
	addressSpaceCount
)

var addressSpaceNames = [addressSpaceCount]string{
	AsGeneric:      "generic",
	AsPrivate:      "private",
	AsFunction:     "function",
	AsSubgroup:     "subgroup",
	AsShared:       "shared",
	AsGlobal:       "global",
	AsInput:        "input",
	AsOutput:       "output",
	AsUniform:      "uniform",
	AsPushConstant: "push_constant",
	AsProgramCode:  "program_code",
}

func (as AddressSpace) String() string {
	if as < addressSpaceCount {
		return addressSpaceNames[as]
	}
	return fmt.Sprintf("AddressSpace(%d)", as)
}

// Valid reports whether as is a known address space.
func (as AddressSpace) Valid() bool { return as < addressSpaceCount }

// UnmarshalText parses an address space name.
func (as *AddressSpace) UnmarshalText(text []byte) error {
	for i, name := range addressSpaceNames {
		if name == string(text) {
			*as = AddressSpace(i)
			return nil
		}
	}
	return fmt.Errorf("unknown address space %q", text)
}

// IntWidth is the bit width of an integer type.
type IntWidth uint8

const (
	IntWidth8 IntWidth = iota + 1
	IntWidth16
	IntWidth32
	IntWidth64
)

// Bits returns the width in bits, or 0 for an invalid width.
func (w IntWidth) Bits() int {
	switch w {
	case IntWidth8:
		return 8
	case IntWidth16:
		return 16
	case IntWidth32:
		return 32
	case IntWidth64:
		return 64
	default:
		return 0
	}
}

func (w IntWidth) String() string {
	if b := w.Bits(); b != 0 {
		return fmt.Sprint(b)
	}
	return fmt.Sprintf("IntWidth(%d)", uint8(w))
}

// UnmarshalText accepts 8, 16, 32 or 64.
func (w *IntWidth) UnmarshalText(text []byte) error {
	switch string(text) {
	case "8":
		*w = IntWidth8
	case "16":
		*w = IntWidth16
	case "32":
		*w = IntWidth32
	case "64":
		*w = IntWidth64
	default:
		return fmt.Errorf("invalid integer width %q (expected 8|16|32|64)", text)
	}
	return nil
}

// IntWidthFromBits maps a bit count to an IntWidth.
func IntWidthFromBits(bits int) (IntWidth, bool) {
	switch bits {
	case 8:
		return IntWidth8, true
	case 16:
		return IntWidth16, true
	case 32:
		return IntWidth32, true
	case 64:
		return IntWidth64, true
	}
	return 0, false
}

// FloatWidth is the bit width of a floating point type.
type FloatWidth uint8

const (
	FloatWidth16 FloatWidth = iota + 1
	FloatWidth32
	FloatWidth64
)

// Bits returns the width in bits, or 0 for an invalid width.
func (w FloatWidth) Bits() int {
	switch w {
	case FloatWidth16:
		return 16
	case FloatWidth32:
		return 32
	case FloatWidth64:
		return 64
	default:
		return 0
	}
}

func (w FloatWidth) String() string {
	if b := w.Bits(); b != 0 {
		return fmt.Sprint(b)
	}
	return fmt.Sprintf("FloatWidth(%d)", uint8(w))
}

// UnmarshalText accepts 16, 32 or 64.
func (w *FloatWidth) UnmarshalText(text []byte) error {
	switch string(text) {
	case "16":
		*w = FloatWidth16
	case "32":
		*w = FloatWidth32
	case "64":
		*w = FloatWidth64
	default:
		return fmt.Errorf("invalid float width %q (expected 16|32|64)", text)
	}
	return nil
}

// RecordSpecial marks records that are not user-visible aggregates.
type RecordSpecial uint8

const (
	RecordPlain RecordSpecial = iota
	// RecordMultipleReturn packs the results of multi-valued instructions.
	RecordMultipleReturn
	// RecordBlock is a record decorated as an interface block.
	RecordBlock
)

func (s RecordSpecial) String() string {
	switch s {
	case RecordPlain:
		return "plain"
	case RecordMultipleReturn:
		return "multiple_return"
	case RecordBlock:
		return "block"
	default:
		return fmt.Sprintf("RecordSpecial(%d)", uint8(s))
	}
}

// UnmarshalText parses a record special marker.
func (s *RecordSpecial) UnmarshalText(text []byte) error {
	switch string(text) {
	case "plain":
		*s = RecordPlain
	case "multiple_return":
		*s = RecordMultipleReturn
	case "block":
		*s = RecordBlock
	default:
		return fmt.Errorf("unknown record special %q", text)
	}
	return nil
}

// ImageDim is the dimensionality of an image type.
type ImageDim uint8

const (
	Dim1D ImageDim = iota + 1
	Dim2D
	Dim3D
	DimCube
)

func (d ImageDim) String() string {
	switch d {
	case Dim1D:
		return "1d"
	case Dim2D:
		return "2d"
	case Dim3D:
		return "3d"
	case DimCube:
		return "cube"
	default:
		return fmt.Sprintf("ImageDim(%d)", uint8(d))
	}
}

// UnmarshalText parses an image dimensionality.
func (d *ImageDim) UnmarshalText(text []byte) error {
	switch string(text) {
	case "1d":
		*d = Dim1D
	case "2d":
		*d = Dim2D
	case "3d":
		*d = Dim3D
	case "cube":
		*d = DimCube
	default:
		return fmt.Errorf("unknown image dimension %q", text)
	}
	return nil
}
