package texsurf

// fourCC packs four characters into a little-endian code.
func fourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// fourCCString unpacks a code into its four characters.
func fourCCString(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

// FourCC codes written to the primary header.
const (
	fourCCDXT1 = uint32('D') | uint32('X')<<8 | uint32('T')<<16 | uint32('1')<<24
	fourCCDXT2 = uint32('D') | uint32('X')<<8 | uint32('T')<<16 | uint32('2')<<24
	fourCCDXT3 = uint32('D') | uint32('X')<<8 | uint32('T')<<16 | uint32('3')<<24
	fourCCDXT4 = uint32('D') | uint32('X')<<8 | uint32('T')<<16 | uint32('4')<<24
	fourCCDXT5 = uint32('D') | uint32('X')<<8 | uint32('T')<<16 | uint32('5')<<24
	fourCCATI1 = uint32('A') | uint32('T')<<8 | uint32('I')<<16 | uint32('1')<<24
	fourCCATI2 = uint32('A') | uint32('T')<<8 | uint32('I')<<16 | uint32('2')<<24
	fourCCBC4U = uint32('B') | uint32('C')<<8 | uint32('4')<<16 | uint32('U')<<24
	fourCCBC4S = uint32('B') | uint32('C')<<8 | uint32('4')<<16 | uint32('S')<<24
	fourCCBC5U = uint32('B') | uint32('C')<<8 | uint32('5')<<16 | uint32('U')<<24
	fourCCBC5S = uint32('B') | uint32('C')<<8 | uint32('5')<<16 | uint32('S')<<24
	fourCCEAR1 = uint32('E') | uint32('A')<<8 | uint32('R')<<16 | uint32('1')<<24
	fourCCEARG = uint32('E') | uint32('A')<<8 | uint32('R')<<16 | uint32('G')<<24
	fourCCETC2 = uint32('E') | uint32('T')<<8 | uint32('C')<<16 | uint32('2')<<24
	fourCCET2A = uint32('E') | uint32('T')<<8 | uint32('2')<<16 | uint32('A')<<24
	fourCCDX10 = uint32('D') | uint32('X')<<8 | uint32('1')<<16 | uint32('0')<<24

	// ContainerTag marks a header whose reserved fields carry texsurf
	// metadata ("TXF1").
	ContainerTag = uint32('T') | uint32('X')<<8 | uint32('F')<<16 | uint32('1')<<24
)

// DXGI format codes written to the extended header.
const (
	dxgiR32G32B32A32F = 2
	dxgiR16G16B16A16F = 10
	dxgiR16G16B16A16  = 11
	dxgiR32G32F       = 16
	dxgiR10G10B10A2   = 24
	dxgiR8G8B8A8      = 28
	dxgiR8G8B8A8SRGB  = 29
	dxgiR16G16F       = 34
	dxgiR16G16        = 35
	dxgiR32F          = 41
	dxgiR8G8          = 49
	dxgiR16F          = 54
	dxgiR16           = 56
	dxgiR8            = 61
	dxgiA8            = 65
	dxgiR9G9B9E5      = 67
	dxgiBC1           = 71
	dxgiBC1SRGB       = 72
	dxgiBC2           = 74
	dxgiBC2SRGB       = 75
	dxgiBC3           = 77
	dxgiBC3SRGB       = 78
	dxgiBC4           = 80
	dxgiBC4S          = 81
	dxgiBC5           = 83
	dxgiBC5S          = 84
	dxgiB8G8R8A8      = 87
	dxgiB8G8R8X8      = 88
	dxgiB8G8R8A8SRGB  = 91
	dxgiB8G8R8X8SRGB  = 93
	dxgiBC6HUF16      = 95
	dxgiBC7           = 98
	dxgiBC7SRGB       = 99
	dxgiASTC4x4       = 134
	dxgiASTC4x4SRGB   = 135
	dxgiASTC8x8       = 162
	dxgiASTC8x8SRGB   = 163
)

// srgbPairs maps linear DXGI codes to their sRGB-encoded siblings.
var srgbPairs = [...][2]uint32{
	{dxgiR8G8B8A8, dxgiR8G8B8A8SRGB},
	{dxgiBC1, dxgiBC1SRGB},
	{dxgiBC2, dxgiBC2SRGB},
	{dxgiBC3, dxgiBC3SRGB},
	{dxgiB8G8R8A8, dxgiB8G8R8A8SRGB},
	{dxgiB8G8R8X8, dxgiB8G8R8X8SRGB},
	{dxgiBC7, dxgiBC7SRGB},
	{dxgiASTC4x4, dxgiASTC4x4SRGB},
	{dxgiASTC8x8, dxgiASTC8x8SRGB},
}

// toSRGBCode returns the sRGB sibling of a linear code, or code itself.
func toSRGBCode(code uint32) uint32 {
	for _, p := range srgbPairs {
		if p[0] == code {
			return p[1]
		}
	}

	return code
}

// toLinearCode returns the linear sibling of an sRGB code and whether code
// was sRGB-encoded.
func toLinearCode(code uint32) (uint32, bool) {
	for _, p := range srgbPairs {
		if p[1] == code {
			return p[0], true
		}
	}

	return code, false
}

// legacyAliases are FourCC codes accepted on read that map onto a canonical
// code written by BuildPrimaryHeader.
var legacyAliases = map[uint32]uint32{
	fourCCDXT2: fourCCDXT3,
	fourCCDXT4: fourCCDXT5,
	fourCCBC4U: fourCCATI1,
	fourCCBC5U: fourCCATI2,
}

// channelLayout is the explicit bit-mask description of a format in the
// primary header's pixel-format record.
type channelLayout struct {
	format   Format
	flags    uint32
	bitCount uint32
	r, g, b  uint32
	a        uint32
}

// maskedLayouts lists every format written with channel masks rather than a
// code. Formats absent here are written through the FourCC field.
var maskedLayouts = [...]channelLayout{
	{format: FormatA8R8G8B8, flags: pfRGB, bitCount: 32, r: 0x00ff0000, g: 0x0000ff00, b: 0x000000ff, a: 0xff000000},
	{format: FormatX8R8G8B8, flags: pfRGB, bitCount: 32, r: 0x00ff0000, g: 0x0000ff00, b: 0x000000ff},
	{format: FormatR8G8B8A8, flags: pfRGB, bitCount: 32, r: 0x000000ff, g: 0x0000ff00, b: 0x00ff0000, a: 0xff000000},
	{format: FormatR8G8B8, flags: pfRGB, bitCount: 24, r: 0x00ff0000, g: 0x0000ff00, b: 0x000000ff},
	{format: FormatR10G10B10A2, flags: pfRGB, bitCount: 32, r: 0x000003ff, g: 0x000ffc00, b: 0x3ff00000, a: 0xc0000000},
	{format: FormatR16G16, flags: pfRGB, bitCount: 32, r: 0x0000ffff, g: 0xffff0000},
	{format: FormatA8, flags: pfAlpha, bitCount: 8, a: 0x000000ff},
	{format: FormatR8, flags: pfLuminance, bitCount: 8, r: 0x000000ff},
	{format: FormatR16, flags: pfLuminance, bitCount: 16, r: 0x0000ffff},
	{format: FormatA8L8, flags: pfLuminance, bitCount: 16, r: 0x000000ff, a: 0x0000ff00},
}

func maskedLayout(f Format) (channelLayout, bool) {
	for _, l := range maskedLayouts {
		if l.format == f {
			return l, true
		}
	}

	return channelLayout{}, false
}

// matchMaskedLayout finds the format described by explicit masks. The
// ALPHAPIXELS bit is not part of the match.
func matchMaskedLayout(pf PixelFormat) (Format, bool) {
	layoutBits := pf.Flags & (pfRGB | pfLuminance | pfAlpha)
	for _, l := range maskedLayouts {
		if l.flags == layoutBits && l.bitCount == pf.RGBBitCount &&
			l.r == pf.RBitMask && l.g == pf.GBitMask && l.b == pf.BBitMask && l.a == pf.ABitMask {
			return l.format, true
		}
	}

	return FormatUnknown, false
}

// matchLegacyCode finds the coded format for a FourCC. When two formats share
// a code the ALPHAPIXELS bit picks the alpha-carrying one.
func matchLegacyCode(code uint32, alphaPixels bool) (Format, bool) {
	// Zero marks formats with no legacy code.
	if code == 0 {
		return FormatUnknown, false
	}
	if canonical, ok := legacyAliases[code]; ok {
		code = canonical
	}

	found := FormatUnknown
	for _, f := range Formats() {
		info := Lookup(f)
		if info.LegacyCode != code {
			continue
		}
		if _, masked := maskedLayout(f); masked {
			continue
		}
		if found == FormatUnknown || info.HasAlpha == alphaPixels {
			found = f
		}
	}

	return found, found != FormatUnknown
}

// matchDXGICode finds the format for a linear DXGI code. When two formats
// share a code the alpha mode picks the alpha-carrying one.
func matchDXGICode(code uint32, straightAlpha bool) (Format, bool) {
	found := FormatUnknown
	for _, f := range Formats() {
		info := Lookup(f)
		if info.DXGICode != code {
			continue
		}
		if found == FormatUnknown || info.HasAlpha == straightAlpha {
			found = f
		}
	}

	return found, found != FormatUnknown
}
