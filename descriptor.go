package texsurf

// ImageFlags are image-level flags persisted verbatim in the primary header.
type ImageFlags uint32

const (
	// FlagDecal marks a texture that should clamp rather than wrap.
	FlagDecal ImageFlags = 1 << iota
	// FlagGreyscale marks colour data that is effectively single channel.
	FlagGreyscale
	// FlagSuppressEngineReduce keeps the engine from dropping top mips.
	FlagSuppressEngineReduce
	// FlagAttachedAlpha marks a separately stored alpha surface.
	FlagAttachedAlpha
	// FlagSRGBRead marks colour data to be sampled as sRGB.
	FlagSRGBRead
	// FlagRenormalized marks normal maps renormalized per mip.
	FlagRenormalized
	// FlagSplit marks a texture whose mips are stored in separate files.
	FlagSplit
	// FlagColorModelYCoCg marks colour stored as YCoCg.
	FlagColorModelYCoCg
)

// Has reports whether all bits of flag are set.
func (f ImageFlags) Has(flag ImageFlags) bool {
	return f&flag == flag
}

// ImageSurfaceDescriptor describes the image a header is built from or parsed
// into. Width is the externally visible width; for cubemaps that is six
// times the face width stored in the header.
type ImageSurfaceDescriptor struct {
	Width    uint32
	Height   uint32
	MipCount uint32
	Format   Format
	Cubemap  bool
	Volume   bool
	// Slices is the array size, or the depth of a volume texture.
	Slices uint32

	Flags          ImageFlags
	PersistentMips uint8
	MinColor       [4]float32
	MaxColor       [4]float32
	AvgBrightness  float32
}

// defaultColorRange fills the metadata fields with values meaning "full range,
// unknown brightness".
func (d *ImageSurfaceDescriptor) defaultColorRange() {
	d.MinColor = [4]float32{0, 0, 0, 0}
	d.MaxColor = [4]float32{1, 1, 1, 1}
	d.AvgBrightness = 0.5
}

// sliceCount returns Slices with 0 treated as 1.
func (d *ImageSurfaceDescriptor) sliceCount() uint32 {
	if d.Slices == 0 {
		return 1
	}

	return d.Slices
}
