package texsurf

// CubemapLayout is the arrangement of six cube faces in one 2D image.
type CubemapLayout uint8

const (
	// CubemapLayoutNone means the dimensions match no cube layout.
	CubemapLayoutNone CubemapLayout = iota
	// CubemapLayoutStrip is six faces side by side (6:1).
	CubemapLayoutStrip
	// CubemapLayoutLatLong is a lat-long probe (4:2).
	CubemapLayoutLatLong
	// CubemapLayoutVerticalCross is a vertical cross (4:3).
	CubemapLayoutVerticalCross
	// CubemapLayoutHorizontalCross is a horizontal cross (3:4).
	CubemapLayoutHorizontalCross
)

func (l CubemapLayout) String() string {
	switch l {
	case CubemapLayoutStrip:
		return "strip"
	case CubemapLayoutLatLong:
		return "lat-long"
	case CubemapLayoutVerticalCross:
		return "vertical-cross"
	case CubemapLayoutHorizontalCross:
		return "horizontal-cross"
	default:
		return "none"
	}
}

// InferCubemapLayout classifies width x height by exact ratio.
func InferCubemapLayout(width, height uint32) CubemapLayout {
	if width == 0 || height == 0 {
		return CubemapLayoutNone
	}

	w, h := uint64(width), uint64(height)
	switch {
	case w == 6*h:
		return CubemapLayoutStrip
	case w == 2*h:
		return CubemapLayoutLatLong
	case 3*w == 4*h:
		return CubemapLayoutVerticalCross
	case 4*w == 3*h:
		return CubemapLayoutHorizontalCross
	default:
		return CubemapLayoutNone
	}
}

// FaceSize returns the extent of one face for an image laid out as l.
// For CubemapLayoutNone the image itself is returned.
func (l CubemapLayout) FaceSize(width, height uint32) (uint32, uint32) {
	switch l {
	case CubemapLayoutStrip:
		return width / 6, height
	case CubemapLayoutLatLong:
		return width / 4, height / 2
	case CubemapLayoutVerticalCross:
		return width / 4, height / 3
	case CubemapLayoutHorizontalCross:
		return width / 3, height / 4
	default:
		return width, height
	}
}

// MaxMipCount returns the longest legal mip chain for a width x height image
// of format f. Cubemaps are first reduced to a single face.
//
// Each axis is halved while it stays at or above the format minimum and a
// multiple of the block size. Compressed formats take the shorter axis chain,
// uncompressed ones the longer. ASTC formats skip the block-size test.
func MaxMipCount(f Format, width, height uint32, cubemap bool) uint32 {
	info := Lookup(f)

	if cubemap {
		width, height = InferCubemapLayout(width, height).FaceSize(width, height)
	}

	minW, minH := uint32(info.MinWidth), uint32(info.MinHeight)
	if width < minW || height < minH {
		return 0
	}

	ignoreBlocks := isASTC(f)
	countW := axisMipCount(width, minW, uint32(info.BlockWidth), ignoreBlocks)
	countH := axisMipCount(height, minH, uint32(info.BlockHeight), ignoreBlocks)

	count := max(countW, countH)
	if info.Compressed {
		count = min(countW, countH)
	}

	// The base level always exists once the minimum is met.
	return max(count, 1)
}

func axisMipCount(size, minSize, block uint32, ignoreBlocks bool) uint32 {
	count := uint32(0)
	for size >= minSize && size > 0 && (ignoreBlocks || size%block == 0) {
		count++
		size >>= 1
	}

	return count
}

// MipDimension calculates the dimension of a mipmap level.
func MipDimension(base uint32, level int) uint32 {
	result := base >> uint(level)
	if result < 1 {
		return 1
	}

	return result
}

// LevelSize returns the byte size of one width x height level of one face or
// slice of format f. It returns -1 for block-variable formats.
func LevelSize(f Format, width, height int) int {
	info := Lookup(f)
	if info.BitsPerBlock == 0 {
		return -1
	}

	blocksW := (width + info.BlockWidth - 1) / info.BlockWidth
	blocksH := (height + info.BlockHeight - 1) / info.BlockHeight

	return (blocksW*blocksH*info.BitsPerBlock + 7) / 8
}
