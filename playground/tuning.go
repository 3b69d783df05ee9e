package playground

const (
	SpawnDropY     = 200.0 // clone appears this far below its template
	PathStartDX    = 500.0
	PathStartDY    = 300.0
	PathStepX      = 1.0
	PathStepY      = 10.0
	MaxPathFrames  = 25 // frames drawn from [0, MaxPathFrames)
	FrameMS        = 25
	PaletteSpacing = 50.0
	PaletteOffset  = 0.7
	PaletteTop     = 28.0
)
