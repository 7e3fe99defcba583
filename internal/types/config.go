package types

// FaceConfig selects the clock face tables and start state
type FaceConfig struct {
	Variant string `json:"variant"`
	Height  int    `json:"height"`
	Preset  int    `json:"preset"`
	Pattern int    `json:"pattern"`
}

// DisplayConfig represents the configuration for the panel output
type DisplayConfig struct {
	Chip       string `json:"chip"`
	Brightness int    `json:"brightness"`
	Planes     int    `json:"planes"`
}

// HUB75Config holds the GPIO offsets of the HUB75 connector
type HUB75Config struct {
	R1  int `json:"r1"` // Red data for upper half
	G1  int `json:"g1"` // Green data for upper half
	B1  int `json:"b1"` // Blue data for upper half
	R2  int `json:"r2"` // Red data for lower half
	G2  int `json:"g2"` // Green data for lower half
	B2  int `json:"b2"` // Blue data for lower half
	CLK int `json:"clk"`
	OE  int `json:"oe"`
	LAT int `json:"lat"`
	A   int `json:"a"`
	B   int `json:"b"`
	C   int `json:"c"`
	D   int `json:"d"`
	E   int `json:"e"`
}

// ButtonConfig holds the GPIO offsets of the front panel buttons.
// An offset of -1 leaves the button unused.
type ButtonConfig struct {
	Chip       string `json:"chip"`
	Pattern    int    `json:"pattern"`
	Palette    int    `json:"palette"`
	Toggle     int    `json:"toggle"`
	DebounceMs int    `json:"debounce_ms"`
}
