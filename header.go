package texsurf

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// Magic precedes the primary header in a container file ("DDS ").
	Magic = 0x20534444

	// HeaderSize is the encoded size of SurfaceHeader.
	HeaderSize = 124
	// PixelFormatSize is the encoded size of PixelFormat.
	PixelFormatSize = 32
	// ExtendedHeaderSize is the encoded size of SurfaceExtendedHeader.
	ExtendedHeaderSize = 20
)

// Header flags.
const (
	flagCaps        = 0x1
	flagHeight      = 0x2
	flagWidth       = 0x4
	flagPitch       = 0x8
	flagPixelFormat = 0x1000
	flagMipMapCount = 0x20000
	flagLinearSize  = 0x80000
	flagDepth       = 0x800000
)

// Pixel format flags.
const (
	pfAlphaPixels = 0x1
	pfAlpha       = 0x2
	pfFourCC      = 0x4
	pfRGB         = 0x40
	pfLuminance   = 0x20000
)

// Surface capability bits.
const (
	capsComplex = 0x8
	capsTexture = 0x1000
	capsMipmap  = 0x400000
)

// Cubemap capability bits.
const (
	caps2Cubemap  = 0x200
	caps2AllFaces = 0xfc00
	caps2Volume   = 0x200000
)

// Extended header values.
const (
	dimensionBuffer    = 1
	dimensionTexture1D = 2
	dimensionTexture2D = 3
	dimensionTexture3D = 4

	miscTextureCube = 0x4

	alphaModeStraight = 1
	alphaModeOpaque   = 3
)

// PixelFormat is the pixel-format record embedded in SurfaceHeader.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// SurfaceHeader is the fixed 124-byte primary header.
//
// Beyond the standard layout, three reserved areas carry texsurf metadata
// when Tag equals ContainerTag: ImageFlags (offset 32), PersistentMips
// (offset 112) and the colour range and brightness fields (offsets 36-71).
// Readers unaware of the tag see them as padding.
type SurfaceHeader struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	AlphaBitDepth     uint32
	ImageFlags        uint32
	AvgBrightness     float32
	MinColor          [4]float32
	MaxColor          [4]float32
	PixelFormat       PixelFormat
	Caps              uint32
	Caps2             uint32
	PersistentMips    uint8
	Reserved2         [7]byte
	Tag               uint32
}

// HasExtendedHeader reports whether a SurfaceExtendedHeader follows.
func (h *SurfaceHeader) HasExtendedHeader() bool {
	return h.PixelFormat.Flags&pfFourCC != 0 && h.PixelFormat.FourCC == fourCCDX10
}

// IsCubemap reports whether the cubemap capability and all six faces are set.
func (h *SurfaceHeader) IsCubemap() bool {
	return h.Caps2&caps2Cubemap != 0 && h.Caps2&caps2AllFaces == caps2AllFaces
}

// Tagged reports whether the reserved fields carry texsurf metadata.
func (h *SurfaceHeader) Tagged() bool {
	return h.Tag == ContainerTag
}

// MarshalBinary encodes the header in its on-disk layout.
func (h *SurfaceHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	le := binary.LittleEndian

	le.PutUint32(b[0:], h.Size)
	le.PutUint32(b[4:], h.Flags)
	le.PutUint32(b[8:], h.Height)
	le.PutUint32(b[12:], h.Width)
	le.PutUint32(b[16:], h.PitchOrLinearSize)
	le.PutUint32(b[20:], h.Depth)
	le.PutUint32(b[24:], h.MipMapCount)
	le.PutUint32(b[28:], h.AlphaBitDepth)
	le.PutUint32(b[32:], h.ImageFlags)
	le.PutUint32(b[36:], math.Float32bits(h.AvgBrightness))
	for i := 0; i < 4; i++ {
		le.PutUint32(b[40+4*i:], math.Float32bits(h.MinColor[i]))
		le.PutUint32(b[56+4*i:], math.Float32bits(h.MaxColor[i]))
	}

	pf := &h.PixelFormat
	le.PutUint32(b[72:], pf.Size)
	le.PutUint32(b[76:], pf.Flags)
	le.PutUint32(b[80:], pf.FourCC)
	le.PutUint32(b[84:], pf.RGBBitCount)
	le.PutUint32(b[88:], pf.RBitMask)
	le.PutUint32(b[92:], pf.GBitMask)
	le.PutUint32(b[96:], pf.BBitMask)
	le.PutUint32(b[100:], pf.ABitMask)

	le.PutUint32(b[104:], h.Caps)
	le.PutUint32(b[108:], h.Caps2)
	b[112] = h.PersistentMips
	copy(b[113:120], h.Reserved2[:])
	le.PutUint32(b[120:], h.Tag)

	return b, nil
}

// UnmarshalBinary decodes a header from its on-disk layout.
func (h *SurfaceHeader) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: primary header needs %d bytes, have %d", ErrHeaderTruncated, HeaderSize, len(b))
	}
	le := binary.LittleEndian

	h.Size = le.Uint32(b[0:])
	h.Flags = le.Uint32(b[4:])
	h.Height = le.Uint32(b[8:])
	h.Width = le.Uint32(b[12:])
	h.PitchOrLinearSize = le.Uint32(b[16:])
	h.Depth = le.Uint32(b[20:])
	h.MipMapCount = le.Uint32(b[24:])
	h.AlphaBitDepth = le.Uint32(b[28:])
	h.ImageFlags = le.Uint32(b[32:])
	h.AvgBrightness = math.Float32frombits(le.Uint32(b[36:]))
	for i := 0; i < 4; i++ {
		h.MinColor[i] = math.Float32frombits(le.Uint32(b[40+4*i:]))
		h.MaxColor[i] = math.Float32frombits(le.Uint32(b[56+4*i:]))
	}

	h.PixelFormat = PixelFormat{
		Size:        le.Uint32(b[72:]),
		Flags:       le.Uint32(b[76:]),
		FourCC:      le.Uint32(b[80:]),
		RGBBitCount: le.Uint32(b[84:]),
		RBitMask:    le.Uint32(b[88:]),
		GBitMask:    le.Uint32(b[92:]),
		BBitMask:    le.Uint32(b[96:]),
		ABitMask:    le.Uint32(b[100:]),
	}

	h.Caps = le.Uint32(b[104:])
	h.Caps2 = le.Uint32(b[108:])
	h.PersistentMips = b[112]
	copy(h.Reserved2[:], b[113:120])
	h.Tag = le.Uint32(b[120:])

	return nil
}

// SurfaceExtendedHeader is the 20-byte header following a primary header
// whose FourCC is "DX10".
type SurfaceExtendedHeader struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	// MiscFlags2 holds the alpha mode in its low three bits.
	MiscFlags2 uint32
}

// MarshalBinary encodes the extended header.
func (x *SurfaceExtendedHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, ExtendedHeaderSize)
	le := binary.LittleEndian
	le.PutUint32(b[0:], x.DXGIFormat)
	le.PutUint32(b[4:], x.ResourceDimension)
	le.PutUint32(b[8:], x.MiscFlag)
	le.PutUint32(b[12:], x.ArraySize)
	le.PutUint32(b[16:], x.MiscFlags2)

	return b, nil
}

// UnmarshalBinary decodes the extended header.
func (x *SurfaceExtendedHeader) UnmarshalBinary(b []byte) error {
	if len(b) < ExtendedHeaderSize {
		return fmt.Errorf("%w: extended header needs %d bytes, have %d", ErrHeaderTruncated, ExtendedHeaderSize, len(b))
	}
	le := binary.LittleEndian
	x.DXGIFormat = le.Uint32(b[0:])
	x.ResourceDimension = le.Uint32(b[4:])
	x.MiscFlag = le.Uint32(b[8:])
	x.ArraySize = le.Uint32(b[12:])
	x.MiscFlags2 = le.Uint32(b[16:])

	return nil
}
