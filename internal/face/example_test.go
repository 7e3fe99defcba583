package face_test

import (
	"fmt"

	"github.com/fkcurrie/matrix-clock-face/internal/face"
	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
)

func Example() {
	m, err := matrix.NewMatrix(&matrix.Config{Width: face.Width, Height: 16})
	if err != nil {
		fmt.Printf("Failed to create matrix: %v\n", err)
		return
	}

	ctl, err := face.NewController(face.MatrixClock, 16, m, face.WithPreset(5), face.WithPattern(8))
	if err != nil {
		fmt.Printf("Failed to create controller: %v\n", err)
		return
	}

	// scroll_h: row y takes palette[(y + scroll) % size]
	ctl.Repaint()
	p := ctl.Palette()
	for y := 0; y < 5; y++ {
		fmt.Println(y, m.Pixel(0, y) == p.At(y))
	}
	fmt.Println(ctl.Pattern(), ctl.PresetID())

	// Output:
	// 0 true
	// 1 true
	// 2 true
	// 3 true
	// 4 true
	// scroll_h 5
}

func ExampleController_CyclePreset() {
	m, _ := matrix.NewMatrix(&matrix.Config{Width: face.Width, Height: 11})
	ctl, _ := face.NewController(face.EllaClock, 11, m, face.WithPreset(10))

	fmt.Println(ctl.CyclePreset())
	fmt.Println(ctl.CyclePreset())

	// Output:
	// 11
	// 1
}
