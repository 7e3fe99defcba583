package types

import "github.com/fkcurrie/matrix-clock-face/pkg/matrix"

// Display is an output that shows a matrix frame
type Display interface {
	// Show pushes the current contents of m to the display
	Show(m *matrix.Matrix) error
	// Close releases the display
	Close() error
}
