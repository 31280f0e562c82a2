package texsurf

import (
	"fmt"
	"math/bits"
)

// BuildPrimaryHeader builds the primary header for d. The mip count written
// is min(d.MipCount, maxMipCount).
//
// With forceExtended the pixel format is written as "DX10" and the caller
// must follow the header with BuildExtendedHeader. Without it, formats that
// have no legacy code fail with ErrUnsupportedFormat.
func BuildPrimaryHeader(d ImageSurfaceDescriptor, maxMipCount uint32, forceExtended bool) (SurfaceHeader, error) {
	if !d.Format.Valid() {
		return SurfaceHeader{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, d.Format)
	}
	info := Lookup(d.Format)
	if !forceExtended && info.LegacyCode == 0 {
		return SurfaceHeader{}, fmt.Errorf("%w: %s needs an extended header", ErrUnsupportedFormat, info.Name)
	}
	if d.Cubemap && d.Volume {
		return SurfaceHeader{}, fmt.Errorf("%w: cubemap and volume are exclusive", ErrInvalidGeometry)
	}

	width := d.Width
	if d.Cubemap {
		if layout := InferCubemapLayout(d.Width, d.Height); layout != CubemapLayoutStrip {
			return SurfaceHeader{}, fmt.Errorf("%w: cubemap %dx%d is %s, not a face strip", ErrInvalidGeometry, d.Width, d.Height, layout)
		}
		width /= 6
	}

	h := SurfaceHeader{
		Size:           HeaderSize,
		Flags:          flagCaps | flagHeight | flagWidth | flagPixelFormat,
		Height:         d.Height,
		Width:          width,
		Depth:          1,
		ImageFlags:     uint32(d.Flags),
		AvgBrightness:  d.AvgBrightness,
		MinColor:       d.MinColor,
		MaxColor:       d.MaxColor,
		Caps:           capsTexture,
		PersistentMips: d.PersistentMips,
		Tag:            ContainerTag,
	}
	h.PixelFormat.Size = PixelFormatSize

	mips := min(d.MipCount, maxMipCount)
	if mips > 1 {
		h.Flags |= flagMipMapCount
		h.Caps |= capsComplex | capsMipmap
		h.MipMapCount = mips
	}

	if d.Cubemap {
		h.Caps |= capsComplex
		h.Caps2 |= caps2Cubemap | caps2AllFaces
	}
	if d.Volume {
		h.Flags |= flagDepth
		h.Caps |= capsComplex
		h.Caps2 |= caps2Volume
		h.Depth = d.sliceCount()
	}

	layout, masked := maskedLayout(d.Format)
	switch {
	case forceExtended:
		h.PixelFormat.Flags = pfFourCC
		h.PixelFormat.FourCC = fourCCDX10
	case masked:
		h.PixelFormat.Flags = layout.flags
		h.PixelFormat.RGBBitCount = layout.bitCount
		h.PixelFormat.RBitMask = layout.r
		h.PixelFormat.GBitMask = layout.g
		h.PixelFormat.BBitMask = layout.b
		h.PixelFormat.ABitMask = layout.a
	default:
		h.PixelFormat.Flags = pfFourCC
		h.PixelFormat.FourCC = info.LegacyCode
	}

	if info.HasAlpha && !IsFloatingPoint(d.Format, false) && !is16BitPerChannel(d.Format) {
		h.PixelFormat.Flags |= pfAlphaPixels
	}

	if info.Compressed {
		h.Flags |= flagLinearSize
		h.PitchOrLinearSize = uint32(max(LevelSize(d.Format, int(width), int(d.Height)), 0))
	} else {
		h.Flags |= flagPitch
		h.PitchOrLinearSize = (width*uint32(info.BitsPerPixel) + 7) / 8
	}

	if err := checkPrimaryHeader(&h); err != nil {
		return SurfaceHeader{}, err
	}

	return h, nil
}

// checkPrimaryHeader verifies the internal consistency of a built header.
func checkPrimaryHeader(h *SurfaceHeader) error {
	if h.Size != HeaderSize || h.PixelFormat.Size != PixelFormatSize {
		return fmt.Errorf("%w: declared sizes %d/%d", ErrHeaderContract, h.Size, h.PixelFormat.Size)
	}

	hasMipFlag := h.Flags&flagMipMapCount != 0
	hasMipCaps := h.Caps&capsMipmap != 0
	if hasMipFlag != hasMipCaps {
		return fmt.Errorf("%w: mipmap flag and caps disagree", ErrHeaderContract)
	}
	if hasMipFlag && h.MipMapCount <= 1 {
		return fmt.Errorf("%w: mipmap flag with mip count %d", ErrHeaderContract, h.MipMapCount)
	}
	if !hasMipFlag && h.MipMapCount != 0 {
		return fmt.Errorf("%w: mip count %d without mipmap flag", ErrHeaderContract, h.MipMapCount)
	}

	cube := h.Caps2 & (caps2Cubemap | caps2AllFaces)
	if cube != 0 && cube != caps2Cubemap|caps2AllFaces {
		return fmt.Errorf("%w: partial cubemap bits 0x%x", ErrHeaderContract, cube)
	}
	if cube != 0 && h.Caps2&caps2Volume != 0 {
		return fmt.Errorf("%w: cubemap and volume bits both set", ErrHeaderContract)
	}

	pf := &h.PixelFormat
	coded := pf.Flags&pfFourCC != 0
	layoutBits := pf.Flags & (pfRGB | pfLuminance | pfAlpha)
	if coded {
		if pf.FourCC == 0 || layoutBits != 0 || pf.RGBBitCount != 0 {
			return fmt.Errorf("%w: coded pixel format carries masks", ErrHeaderContract)
		}
	} else if bits.OnesCount32(layoutBits) != 1 || pf.RGBBitCount == 0 {
		return fmt.Errorf("%w: masked pixel format without a single layout", ErrHeaderContract)
	}

	if h.Flags&(flagPitch|flagLinearSize) == flagPitch|flagLinearSize {
		return fmt.Errorf("%w: pitch and linear size both set", ErrHeaderContract)
	}

	return nil
}

// BuildExtendedHeader builds the extended header for d. When d reads as sRGB
// the format code is replaced by its sRGB sibling, otherwise by its linear
// sibling.
func BuildExtendedHeader(d ImageSurfaceDescriptor, sliceCount uint32) (SurfaceExtendedHeader, error) {
	if !d.Format.Valid() {
		return SurfaceExtendedHeader{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, d.Format)
	}
	info := Lookup(d.Format)
	if info.DXGICode == 0 {
		return SurfaceExtendedHeader{}, fmt.Errorf("%w: %s has no extended code", ErrUnsupportedFormat, info.Name)
	}
	if sliceCount == 0 {
		sliceCount = 1
	}

	code, _ := toLinearCode(info.DXGICode)
	if d.Flags.Has(FlagSRGBRead) {
		code = toSRGBCode(code)
	}

	x := SurfaceExtendedHeader{
		DXGIFormat: code,
		MiscFlags2: alphaModeOpaque,
	}
	if info.HasAlpha {
		x.MiscFlags2 = alphaModeStraight
	}

	switch {
	case d.Cubemap && d.Volume:
		return SurfaceExtendedHeader{}, fmt.Errorf("%w: cubemap and volume are exclusive", ErrInvalidGeometry)
	case d.Volume:
		x.ResourceDimension = dimensionTexture3D
		x.ArraySize = 1
	case d.Cubemap:
		x.ResourceDimension = dimensionTexture2D
		x.MiscFlag = miscTextureCube
		x.ArraySize = 6 * sliceCount
	default:
		x.ResourceDimension = dimensionTexture2D
		x.ArraySize = sliceCount
	}

	return x, nil
}

// NeedsExtendedHeader reports whether d can only be written with an
// extended header.
func NeedsExtendedHeader(d ImageSurfaceDescriptor) bool {
	if RequiresExtendedContainer(d.Format) {
		return true
	}
	if IsLegacyOnly(d.Format) {
		return false
	}

	return !d.Volume && d.sliceCount() > 1
}
