package texsurf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ParsePrimaryHeader parses a 124-byte primary header and returns the
// described image and the longest mip chain its format allows.
//
// Geometry and metadata are filled in even when the format is not
// recognized; the error is then ErrUnrecognizedFormat and Format is
// FormatUnknown. A "DX10" pixel format also leaves Format unknown, without an
// error: ParseExtendedHeader resolves it.
func ParsePrimaryHeader(b []byte) (ImageSurfaceDescriptor, uint32, error) {
	var h SurfaceHeader
	if err := h.UnmarshalBinary(b); err != nil {
		return ImageSurfaceDescriptor{Format: FormatUnknown}, 0, err
	}
	if h.Size != HeaderSize {
		return ImageSurfaceDescriptor{Format: FormatUnknown}, 0, fmt.Errorf("%w: %d", ErrInvalidHeaderSize, h.Size)
	}

	d := ImageSurfaceDescriptor{
		Width:    h.Width,
		Height:   h.Height,
		MipCount: 1,
		Format:   FormatUnknown,
		Slices:   1,
	}
	if h.Flags&flagMipMapCount != 0 && h.MipMapCount > 0 {
		d.MipCount = h.MipMapCount
	}
	if h.IsCubemap() {
		if h.Width > math.MaxUint32/6 {
			return ImageSurfaceDescriptor{Format: FormatUnknown}, 0, fmt.Errorf("%w: cubemap face width %d", ErrSizeOverflow, h.Width)
		}
		d.Cubemap = true
		d.Width *= 6
	}
	if h.Caps2&caps2Volume != 0 {
		d.Volume = true
		d.Slices = max(h.Depth, 1)
	}

	if h.Tagged() {
		d.Flags = ImageFlags(h.ImageFlags)
		d.PersistentMips = h.PersistentMips
		d.MinColor = h.MinColor
		d.MaxColor = h.MaxColor
		d.AvgBrightness = h.AvgBrightness
	} else {
		d.defaultColorRange()
	}

	pf := h.PixelFormat
	alphaPixels := pf.Flags&pfAlphaPixels != 0

	var (
		format Format
		ok     bool
	)
	switch {
	case h.HasExtendedHeader():
		return d, 0, nil
	case pf.Flags&pfFourCC != 0:
		format, ok = matchLegacyCode(pf.FourCC, alphaPixels)
		if !ok {
			return d, 0, fmt.Errorf("%w: FourCC %q", ErrUnrecognizedFormat, fourCCString(pf.FourCC))
		}
	default:
		format, ok = matchMaskedLayout(pf)
		if !ok {
			return d, 0, fmt.Errorf("%w: flags 0x%x, %d bits, masks %08x/%08x/%08x/%08x", ErrUnrecognizedFormat,
				pf.Flags, pf.RGBBitCount, pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask)
		}
	}

	d.Format = format
	return d, MaxMipCount(format, d.Width, d.Height, d.Cubemap), nil
}

// ParseExtendedHeader resolves the format of d from a 20-byte extended
// header and returns the updated descriptor and its slice count.
//
// An sRGB-encoded code sets FlagSRGBRead on the result regardless of d.
func ParseExtendedHeader(d ImageSurfaceDescriptor, b []byte) (ImageSurfaceDescriptor, uint32, error) {
	var x SurfaceExtendedHeader
	if err := x.UnmarshalBinary(b); err != nil {
		return d, 0, err
	}

	code, srgb := toLinearCode(x.DXGIFormat)
	format, ok := matchDXGICode(code, x.MiscFlags2&0x7 == alphaModeStraight)
	if !ok {
		d.Format = FormatUnknown
		return d, 0, fmt.Errorf("%w: DXGI format %d", ErrUnrecognizedFormat, x.DXGIFormat)
	}
	d.Format = format
	if srgb {
		d.Flags |= FlagSRGBRead
	}

	var slices uint32
	switch x.ResourceDimension {
	case dimensionTexture3D:
		d.Volume = true
		slices = d.sliceCount()
	case dimensionTexture2D:
		slices = max(x.ArraySize, 1)
		if x.MiscFlag&miscTextureCube != 0 {
			if !d.Cubemap {
				if d.Width > math.MaxUint32/6 {
					return d, 0, fmt.Errorf("%w: cubemap face width %d", ErrSizeOverflow, d.Width)
				}
				d.Cubemap = true
				d.Width *= 6
			}
			if x.ArraySize >= 6 && x.ArraySize%6 == 0 {
				slices = x.ArraySize / 6
			}
		}
	default:
		return d, 0, fmt.Errorf("%w: %d", ErrUnsupportedDimension, x.ResourceDimension)
	}
	d.Slices = slices

	return d, slices, nil
}

// Surface is the result of decoding a complete set of container headers.
type Surface struct {
	Descriptor  ImageSurfaceDescriptor
	MaxMipCount uint32
	// Extended reports whether an extended header was present.
	Extended bool
	// HeaderLen is the number of bytes consumed, magic included.
	HeaderLen int
}

// DecodeHeaders parses the magic, the primary header and, when signalled,
// the extended header at the start of b.
func DecodeHeaders(b []byte) (Surface, error) {
	if len(b) < 4 {
		return Surface{}, fmt.Errorf("%w: magic needs 4 bytes, have %d", ErrHeaderTruncated, len(b))
	}
	if binary.LittleEndian.Uint32(b) != Magic {
		return Surface{}, fmt.Errorf("%w: %q", ErrBadMagic, b[:4])
	}
	b = b[4:]

	d, maxMips, err := ParsePrimaryHeader(b)
	s := Surface{Descriptor: d, MaxMipCount: maxMips, HeaderLen: 4 + HeaderSize}
	if err != nil {
		return s, err
	}

	var h SurfaceHeader
	if err := h.UnmarshalBinary(b); err != nil {
		return s, err
	}
	if !h.HasExtendedHeader() {
		return s, nil
	}

	d, _, err = ParseExtendedHeader(d, b[HeaderSize:])
	s.Descriptor = d
	s.Extended = true
	s.HeaderLen += ExtendedHeaderSize
	if err != nil {
		return s, err
	}
	s.MaxMipCount = MaxMipCount(d.Format, d.Width, d.Height, d.Cubemap)

	return s, nil
}

// EncodeHeaders builds and serializes the magic, the primary header and, if
// needed, the extended header for d.
func EncodeHeaders(d ImageSurfaceDescriptor) ([]byte, error) {
	if !d.Format.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, d.Format)
	}
	extended := NeedsExtendedHeader(d)
	maxMips := MaxMipCount(d.Format, d.Width, d.Height, d.Cubemap)

	h, err := BuildPrimaryHeader(d, maxMips, extended)
	if err != nil {
		return nil, err
	}
	hb, err := h.MarshalBinary()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 4, 4+HeaderSize+ExtendedHeaderSize)
	binary.LittleEndian.PutUint32(out, Magic)
	out = append(out, hb...)

	if extended {
		x, err := BuildExtendedHeader(d, d.sliceCount())
		if err != nil {
			return nil, err
		}
		xb, err := x.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, xb...)
	}

	return out, nil
}
