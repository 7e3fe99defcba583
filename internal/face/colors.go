package face

import "github.com/fkcurrie/matrix-clock-face/pkg/rgb565"

// Named colors shared by the preset tables. They approximate the color
// names of the panel firmware and are not its exact values.
var (
	Black     = rgb565.Pack(0, 0, 0)
	White     = rgb565.Pack(255, 255, 255)
	Gray      = rgb565.Pack(128, 128, 128)
	Red       = rgb565.Pack(255, 24, 24)
	Orange    = rgb565.Pack(255, 100, 0)
	Yellow    = rgb565.Pack(255, 200, 0)
	Green     = rgb565.Pack(0, 200, 40)
	Blue      = rgb565.Pack(0, 60, 255)
	Purple    = rgb565.Pack(128, 0, 200)
	PureRed   = rgb565.Pack(255, 0, 0)
	PureGreen = rgb565.Pack(0, 255, 0)
	PureBlue  = rgb565.Pack(0, 0, 255)
	Cyan      = rgb565.Pack(0, 255, 255)
	Magenta   = rgb565.Pack(255, 0, 255)
	DukeBlue  = rgb565.Pack(1, 33, 105)
)
