package config

const (
	DefaultGlyphs   = ".;*uo"
	DefaultChunk    = 2
	DefaultQuality  = 360
	DefaultFontSize = 6
	// empty font path selects the embedded Go Mono font
	DefaultFontPath = ""

	MaxThreads     = 32
	MaxChunk       = 128
	MaxFontSize    = 128
	MaxCompression = 9
)

var DefaultWeights = [3]float64{0.299, 0.587, 0.114}

var Qualities = []int{360, 480, 720, 1080}
