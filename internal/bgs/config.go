package bgs

// Config sizes the compositor.
type Config struct {
	// MaxItems is the number of layers that can exist at once, visible or not.
	MaxItems int
	// BigMapPatchLimit is the largest block jump, in tiles per axis, that is
	// patched column by column; larger jumps rewrite the whole window.
	BigMapPatchLimit int
	// DMA commits the register image with one bulk transfer instead of a
	// halfword copy loop.
	DMA bool
}

func Defaults() Config {
	return Config{
		MaxItems:         4,
		BigMapPatchLimit: 8,
		DMA:              true,
	}
}
