package face

import "fmt"

// Width is the fixed column count of every supported panel.
const Width = 32

// Geometry is the display size a pattern paints.
type Geometry struct {
	Width  int
	Height int
}

// NewGeometry returns the geometry for a panel with the given number of rows.
// Supported heights are 10, 11 and 16.
func NewGeometry(height int) (Geometry, error) {
	switch height {
	case 10, 11, 16:
		return Geometry{Width: Width, Height: height}, nil
	}
	return Geometry{}, fmt.Errorf("face: unsupported height %d", height)
}
