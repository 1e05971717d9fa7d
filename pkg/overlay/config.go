package overlay

// Config holds the options of a preview rendering
type Config struct {
	Debug     bool    // Show the text layer in red and outline every word
	LayerName string  // Name of the text layer
	FrameRGB  [3]int  // Color of the frame outline
	LineWidth float64 // Width of frame and box outlines in points
	Font      FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		LayerName: "Groundtruth",
		FrameRGB:  [3]int{220, 0, 0},
		LineWidth: 2,
		Font:      DefaultFont,
	}
}

// FontConfig contains font settings for text rendering
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont is Helvetica, one of the PDF core fonts
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}
