package texsurf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// encodeWith builds and serializes headers with an explicit choice of
// container variant.
func encodeWith(t *testing.T, d ImageSurfaceDescriptor, extended bool) []byte {
	t.Helper()

	h, err := BuildPrimaryHeader(d, MaxMipCount(d.Format, d.Width, d.Height, d.Cubemap), extended)
	if err != nil {
		t.Fatalf("BuildPrimaryHeader(%s): %v", d.Format, err)
	}
	hb, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	out := binary.LittleEndian.AppendUint32(nil, Magic)
	out = append(out, hb...)
	if !extended {
		return out
	}

	x, err := BuildExtendedHeader(d, d.Slices)
	if err != nil {
		t.Fatalf("BuildExtendedHeader(%s): %v", d.Format, err)
	}
	xb, err := x.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	return append(out, xb...)
}

func sampleDescriptor(f Format) ImageSurfaceDescriptor {
	return ImageSurfaceDescriptor{
		Width:          64,
		Height:         64,
		MipCount:       3,
		Format:         f,
		Slices:         1,
		Flags:          FlagDecal | FlagRenormalized,
		PersistentMips: 2,
		MinColor:       [4]float32{0.1, 0.2, 0.3, 0.4},
		MaxColor:       [4]float32{0.9, 0.8, 0.7, 1},
		AvgBrightness:  0.42,
	}
}

func assertSameSurface(t *testing.T, want, got ImageSurfaceDescriptor) {
	t.Helper()

	expectMips := min(want.MipCount, MaxMipCount(want.Format, want.Width, want.Height, want.Cubemap))
	if expectMips == 0 {
		expectMips = 1
	}

	switch {
	case got.Format != want.Format:
		t.Fatalf("format = %s, want %s", got.Format, want.Format)
	case got.Width != want.Width || got.Height != want.Height:
		t.Fatalf("size = %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
	case got.MipCount != expectMips:
		t.Fatalf("mips = %d, want %d", got.MipCount, expectMips)
	case got.Cubemap != want.Cubemap || got.Volume != want.Volume:
		t.Fatalf("cube/volume = %t/%t, want %t/%t", got.Cubemap, got.Volume, want.Cubemap, want.Volume)
	case got.Slices != want.Slices:
		t.Fatalf("slices = %d, want %d", got.Slices, want.Slices)
	case got.Flags != want.Flags:
		t.Fatalf("flags = %#x, want %#x", got.Flags, want.Flags)
	case got.PersistentMips != want.PersistentMips:
		t.Fatalf("persistent mips = %d, want %d", got.PersistentMips, want.PersistentMips)
	case got.MinColor != want.MinColor || got.MaxColor != want.MaxColor:
		t.Fatalf("colour range = %v..%v, want %v..%v", got.MinColor, got.MaxColor, want.MinColor, want.MaxColor)
	case got.AvgBrightness != want.AvgBrightness:
		t.Fatalf("brightness = %v, want %v", got.AvgBrightness, want.AvgBrightness)
	}
}

func TestHeaderRoundTripPrimary(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		if RequiresExtendedContainer(f) {
			continue
		}
		for _, cubemap := range []bool{false, true} {
			d := sampleDescriptor(f)
			if cubemap {
				d.Cubemap = true
				d.Width *= 6
			}

			s, err := DecodeHeaders(encodeWith(t, d, false))
			if err != nil {
				t.Fatalf("%s cube=%t: DecodeHeaders: %v", f, cubemap, err)
			}
			if s.Extended {
				t.Fatalf("%s: unexpected extended header", f)
			}
			assertSameSurface(t, d, s.Descriptor)
		}
	}
}

func TestHeaderRoundTripExtended(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		if IsLegacyOnly(f) {
			continue
		}

		variants := map[string]func(*ImageSurfaceDescriptor){
			"2d":     func(*ImageSurfaceDescriptor) {},
			"array":  func(d *ImageSurfaceDescriptor) { d.Slices = 4 },
			"cube":   func(d *ImageSurfaceDescriptor) { d.Cubemap = true; d.Width *= 6 },
			"cubes":  func(d *ImageSurfaceDescriptor) { d.Cubemap = true; d.Width *= 6; d.Slices = 2 },
			"volume": func(d *ImageSurfaceDescriptor) { d.Volume = true; d.Slices = 8 },
			"srgb":   func(d *ImageSurfaceDescriptor) { d.Flags |= FlagSRGBRead },
		}

		for name, mutate := range variants {
			d := sampleDescriptor(f)
			mutate(&d)

			s, err := DecodeHeaders(encodeWith(t, d, true))
			if err != nil {
				t.Fatalf("%s %s: DecodeHeaders: %v", f, name, err)
			}
			if !s.Extended || s.HeaderLen != 4+HeaderSize+ExtendedHeaderSize {
				t.Fatalf("%s %s: extended=%t len=%d", f, name, s.Extended, s.HeaderLen)
			}
			assertSameSurface(t, d, s.Descriptor)
		}
	}
}

func TestEncodeHeadersChoosesContainer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*ImageSurfaceDescriptor)
		format   Format
		extended bool
	}{
		{name: "bc3", format: FormatBC3},
		{name: "bc7", format: FormatBC7, extended: true},
		{name: "astc", format: FormatASTC4x4, extended: true},
		{name: "bc1-array", format: FormatBC1, extended: true, mutate: func(d *ImageSurfaceDescriptor) { d.Slices = 3 }},
		{name: "bc1-volume", format: FormatBC1, mutate: func(d *ImageSurfaceDescriptor) { d.Volume = true; d.Slices = 3 }},
		{name: "etc2-array", format: FormatETC2, mutate: func(d *ImageSurfaceDescriptor) { d.Slices = 3 }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := sampleDescriptor(tc.format)
			if tc.mutate != nil {
				tc.mutate(&d)
			}

			b, err := EncodeHeaders(d)
			if err != nil {
				t.Fatalf("EncodeHeaders: %v", err)
			}

			wantLen := 4 + HeaderSize
			if tc.extended {
				wantLen += ExtendedHeaderSize
			}
			if len(b) != wantLen {
				t.Fatalf("len = %d, want %d", len(b), wantLen)
			}
			if NeedsExtendedHeader(d) != tc.extended {
				t.Fatalf("NeedsExtendedHeader = %t", !tc.extended)
			}
		})
	}
}

func TestBuildPrimaryHeaderCompressedWithAlpha(t *testing.T) {
	t.Parallel()

	requested := FormatBC3
	format := ResolveFinalFormat(requested, true)
	d := ImageSurfaceDescriptor{Width: 256, Height: 256, MipCount: 4, Format: format, Slices: 1}

	h, err := BuildPrimaryHeader(d, MaxMipCount(format, 256, 256, false), false)
	if err != nil {
		t.Fatalf("BuildPrimaryHeader: %v", err)
	}

	if h.Flags&flagMipMapCount == 0 || h.MipMapCount != 4 {
		t.Fatalf("mip flag/count = %t/%d", h.Flags&flagMipMapCount != 0, h.MipMapCount)
	}
	if h.Caps&capsMipmap == 0 {
		t.Fatalf("mipmap caps not set")
	}
	pf := h.PixelFormat
	if pf.Flags&pfFourCC == 0 || pf.FourCC != fourCCDXT5 {
		t.Fatalf("pixel format = %#x %q, want FourCC DXT5", pf.Flags, fourCCString(pf.FourCC))
	}
	if pf.RGBBitCount != 0 || pf.RBitMask|pf.GBitMask|pf.BBitMask|pf.ABitMask != 0 {
		t.Fatalf("coded pixel format carries masks: %+v", pf)
	}
	if pf.Flags&pfAlphaPixels == 0 {
		t.Fatalf("alpha pixels flag not set")
	}
	if h.Caps2 != 0 {
		t.Fatalf("caps2 = %#x, want no cubemap bits", h.Caps2)
	}
	if h.Flags&flagLinearSize == 0 || h.PitchOrLinearSize != 256*256 {
		t.Fatalf("linear size = %d", h.PitchOrLinearSize)
	}

	hb, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(hb) != HeaderSize || binary.LittleEndian.Uint32(hb) != HeaderSize {
		t.Fatalf("encoded header is %d bytes, declares %d", len(hb), binary.LittleEndian.Uint32(hb))
	}

	got, maxMips, err := ParsePrimaryHeader(hb)
	if err != nil {
		t.Fatalf("ParsePrimaryHeader: %v", err)
	}
	if got.Width != 256 || got.Height != 256 || got.MipCount != 4 || got.Cubemap {
		t.Fatalf("parsed %dx%d mips=%d cube=%t", got.Width, got.Height, got.MipCount, got.Cubemap)
	}
	if got.Format != FormatBC3 || maxMips != 7 {
		t.Fatalf("parsed format %s, max mips %d", got.Format, maxMips)
	}
}

func TestBuildPrimaryHeaderCubemapStrip(t *testing.T) {
	t.Parallel()

	if layout := InferCubemapLayout(1536, 256); layout != CubemapLayoutStrip {
		t.Fatalf("layout = %s, want strip", layout)
	}

	d := ImageSurfaceDescriptor{Width: 1536, Height: 256, MipCount: 1, Format: FormatBC1, Cubemap: true, Slices: 1}
	h, err := BuildPrimaryHeader(d, MaxMipCount(d.Format, d.Width, d.Height, true), false)
	if err != nil {
		t.Fatalf("BuildPrimaryHeader: %v", err)
	}
	if h.Width != 256 {
		t.Fatalf("header width = %d, want 256", h.Width)
	}
	if h.Caps2&(caps2Cubemap|caps2AllFaces) != caps2Cubemap|caps2AllFaces {
		t.Fatalf("caps2 = %#x", h.Caps2)
	}
	if h.Flags&flagMipMapCount != 0 || h.MipMapCount != 0 {
		t.Fatalf("single mip wrote mip fields")
	}

	hb, _ := h.MarshalBinary()
	got, _, err := ParsePrimaryHeader(hb)
	if err != nil {
		t.Fatalf("ParsePrimaryHeader: %v", err)
	}
	if got.Width != 1536 || got.Height != 256 || !got.Cubemap {
		t.Fatalf("parsed %dx%d cube=%t", got.Width, got.Height, got.Cubemap)
	}
}

func TestBuildPrimaryHeaderMipClamp(t *testing.T) {
	t.Parallel()

	d := sampleDescriptor(FormatA8R8G8B8)
	d.MipCount = 20

	h, err := BuildPrimaryHeader(d, 5, false)
	if err != nil {
		t.Fatalf("BuildPrimaryHeader: %v", err)
	}
	if h.MipMapCount != 5 {
		t.Fatalf("mip count = %d, want 5", h.MipMapCount)
	}
}

func TestAlphaPixelsFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   bool
	}{
		{FormatA8R8G8B8, true},
		{FormatX8R8G8B8, false},
		{FormatA8, true},
		{FormatA8L8, true},
		{FormatR10G10B10A2, true},
		{FormatR16G16B16A16, false},
		{FormatR16G16B16A16F, false},
		{FormatR32G32B32A32F, false},
		{FormatBC1, false},
		{FormatBC1a, true},
		{FormatBC3, true},
		{FormatETC2a, true},
	}

	for _, tc := range tests {
		h, err := BuildPrimaryHeader(sampleDescriptor(tc.format), 1, false)
		if err != nil {
			t.Fatalf("BuildPrimaryHeader(%s): %v", tc.format, err)
		}
		if got := h.PixelFormat.Flags&pfAlphaPixels != 0; got != tc.want {
			t.Fatalf("%s: alpha pixels = %t, want %t", tc.format, got, tc.want)
		}
	}
}

func TestMaskedAndCodedLayouts(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		if RequiresExtendedContainer(f) {
			continue
		}
		h, err := BuildPrimaryHeader(sampleDescriptor(f), 1, false)
		if err != nil {
			t.Fatalf("BuildPrimaryHeader(%s): %v", f, err)
		}

		coded := h.PixelFormat.Flags&pfFourCC != 0
		wantCoded := !IsUncompressed(f) || IsFloatingPoint(f, false) || f == FormatR16G16B16A16
		if coded != wantCoded {
			t.Fatalf("%s: coded = %t, want %t", f, coded, wantCoded)
		}
	}
}

func TestBuildHeaderUnsupportedFormat(t *testing.T) {
	t.Parallel()

	if _, err := BuildPrimaryHeader(sampleDescriptor(FormatBC7), 1, false); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("BC7 primary: expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := BuildPrimaryHeader(sampleDescriptor(FormatUnknown), 1, true); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("unknown primary: expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := BuildExtendedHeader(sampleDescriptor(FormatETC2), 1); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("ETC2 extended: expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := BuildPrimaryHeader(sampleDescriptor(FormatBC7), 1, true); err != nil {
		t.Fatalf("BC7 forced extended: %v", err)
	}
}

func TestBuildHeaderInvalidGeometry(t *testing.T) {
	t.Parallel()

	both := sampleDescriptor(FormatBC1)
	both.Cubemap, both.Volume = true, true
	if _, err := BuildPrimaryHeader(both, 1, false); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("cube+volume primary: expected ErrInvalidGeometry, got %v", err)
	}
	if _, err := BuildExtendedHeader(both, 1); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("cube+volume extended: expected ErrInvalidGeometry, got %v", err)
	}

	for _, size := range [][2]uint32{{100, 64}, {1200, 100}, {1536, 768}, {256, 256}} {
		cube := sampleDescriptor(FormatA8R8G8B8)
		cube.Cubemap = true
		cube.Width, cube.Height = size[0], size[1]
		cube.MipCount = 20
		maxMips := MaxMipCount(cube.Format, cube.Width, cube.Height, true)
		if _, err := BuildPrimaryHeader(cube, maxMips, false); !errors.Is(err, ErrInvalidGeometry) {
			t.Fatalf("cube %dx%d: expected ErrInvalidGeometry, got %v", size[0], size[1], err)
		}
	}
}

func TestR8G8UsesExtendedHeader(t *testing.T) {
	t.Parallel()

	d := sampleDescriptor(FormatR8G8)
	if _, err := BuildPrimaryHeader(d, 1, false); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !NeedsExtendedHeader(d) {
		t.Fatalf("R8G8 should need an extended header")
	}

	s, err := DecodeHeaders(encodeWith(t, d, true))
	if err != nil {
		t.Fatalf("DecodeHeaders: %v", err)
	}
	if !s.Extended {
		t.Fatalf("R8G8 decoded without an extended header")
	}
	assertSameSurface(t, d, s.Descriptor)
}

func TestBuildExtendedHeaderDimension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*ImageSurfaceDescriptor)
		slices    uint32
		dimension uint32
		misc      uint32
		arraySize uint32
	}{
		{name: "2d", slices: 1, dimension: dimensionTexture2D, arraySize: 1},
		{name: "array", slices: 5, dimension: dimensionTexture2D, arraySize: 5},
		{name: "zero-slices", slices: 0, dimension: dimensionTexture2D, arraySize: 1},
		{name: "cube", mutate: func(d *ImageSurfaceDescriptor) { d.Cubemap = true }, slices: 2,
			dimension: dimensionTexture2D, misc: miscTextureCube, arraySize: 12},
		{name: "volume", mutate: func(d *ImageSurfaceDescriptor) { d.Volume = true }, slices: 8,
			dimension: dimensionTexture3D, arraySize: 1},
	}

	for _, tc := range tests {
		d := sampleDescriptor(FormatBC3)
		if tc.mutate != nil {
			tc.mutate(&d)
		}

		x, err := BuildExtendedHeader(d, tc.slices)
		if err != nil {
			t.Fatalf("%s: BuildExtendedHeader: %v", tc.name, err)
		}
		if x.ResourceDimension != tc.dimension || x.MiscFlag != tc.misc || x.ArraySize != tc.arraySize {
			t.Fatalf("%s: dimension=%d misc=%#x array=%d", tc.name, x.ResourceDimension, x.MiscFlag, x.ArraySize)
		}
	}
}

func TestExtendedSRGBIdempotence(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		info := Lookup(f)
		if info.DXGICode == 0 || toSRGBCode(info.DXGICode) == info.DXGICode {
			continue
		}

		for _, srgb := range []bool{false, true} {
			d := sampleDescriptor(f)
			if srgb {
				d.Flags |= FlagSRGBRead
			}

			x, err := BuildExtendedHeader(d, 1)
			if err != nil {
				t.Fatalf("%s: BuildExtendedHeader: %v", f, err)
			}
			_, isSRGB := toLinearCode(x.DXGIFormat)
			if isSRGB != srgb {
				t.Fatalf("%s srgb=%t: wrote code %d", f, srgb, x.DXGIFormat)
			}

			xb, _ := x.MarshalBinary()
			base := sampleDescriptor(f)
			got, _, err := ParseExtendedHeader(base, xb)
			if err != nil {
				t.Fatalf("%s: ParseExtendedHeader: %v", f, err)
			}
			if got.Flags.Has(FlagSRGBRead) != srgb {
				t.Fatalf("%s: parsed srgb = %t, want %t", f, !srgb, srgb)
			}
			if got.Format != f {
				t.Fatalf("parsed format %s, want %s", got.Format, f)
			}
		}
	}
}

func TestParseExtendedKeepsCallerSRGB(t *testing.T) {
	t.Parallel()

	d := sampleDescriptor(FormatBC4)
	d.Flags |= FlagSRGBRead
	x, err := BuildExtendedHeader(d, 1)
	if err != nil {
		t.Fatalf("BuildExtendedHeader: %v", err)
	}
	xb, _ := x.MarshalBinary()

	got, _, err := ParseExtendedHeader(d, xb)
	if err != nil {
		t.Fatalf("ParseExtendedHeader: %v", err)
	}
	if !got.Flags.Has(FlagSRGBRead) {
		t.Fatalf("linear code cleared the caller's sRGB flag")
	}
}

func TestParseExtendedAlphaSiblings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code  uint32
		mode  uint32
		want  Format
		srgb  bool
		label string
	}{
		{code: dxgiBC1, mode: alphaModeOpaque, want: FormatBC1, label: "bc1"},
		{code: dxgiBC1, mode: alphaModeStraight, want: FormatBC1a, label: "bc1a"},
		{code: dxgiBC1SRGB, mode: alphaModeStraight, want: FormatBC1a, srgb: true, label: "bc1a-srgb"},
		{code: dxgiBC7, mode: alphaModeOpaque, want: FormatBC7, label: "bc7"},
		{code: dxgiBC7SRGB, mode: alphaModeStraight, want: FormatBC7t, srgb: true, label: "bc7t-srgb"},
		{code: dxgiBC7, mode: 0, want: FormatBC7, label: "bc7-unknown-mode"},
		{code: dxgiB8G8R8X8SRGB, mode: 0, want: FormatX8R8G8B8, srgb: true, label: "bgrx-srgb"},
	}

	for _, tc := range tests {
		x := SurfaceExtendedHeader{DXGIFormat: tc.code, ResourceDimension: dimensionTexture2D, ArraySize: 1, MiscFlags2: tc.mode}
		xb, _ := x.MarshalBinary()

		got, slices, err := ParseExtendedHeader(ImageSurfaceDescriptor{Width: 4, Height: 4}, xb)
		if err != nil {
			t.Fatalf("%s: ParseExtendedHeader: %v", tc.label, err)
		}
		if got.Format != tc.want || got.Flags.Has(FlagSRGBRead) != tc.srgb || slices != 1 {
			t.Fatalf("%s: format=%s srgb=%t slices=%d", tc.label, got.Format, got.Flags.Has(FlagSRGBRead), slices)
		}
	}
}

func TestParseExtendedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		x       SurfaceExtendedHeader
		short   bool
		wantErr error
	}{
		{name: "unknown-code", x: SurfaceExtendedHeader{DXGIFormat: 999, ResourceDimension: dimensionTexture2D}, wantErr: ErrUnrecognizedFormat},
		{name: "buffer", x: SurfaceExtendedHeader{DXGIFormat: dxgiBC3, ResourceDimension: dimensionBuffer}, wantErr: ErrUnsupportedDimension},
		{name: "texture1d", x: SurfaceExtendedHeader{DXGIFormat: dxgiBC3, ResourceDimension: dimensionTexture1D}, wantErr: ErrUnsupportedDimension},
		{name: "truncated", x: SurfaceExtendedHeader{DXGIFormat: dxgiBC3}, short: true, wantErr: ErrHeaderTruncated},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			xb, _ := tc.x.MarshalBinary()
			if tc.short {
				xb = xb[:12]
			}

			got, _, err := ParseExtendedHeader(ImageSurfaceDescriptor{Width: 8, Height: 8}, xb)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == ErrUnrecognizedFormat && got.Format != FormatUnknown {
				t.Fatalf("format = %s, want unknown", got.Format)
			}
		})
	}
}

func TestParsePrimaryUnrecognized(t *testing.T) {
	t.Parallel()

	t.Run("fourcc", func(t *testing.T) {
		t.Parallel()

		d := sampleDescriptor(FormatBC3)
		h, err := BuildPrimaryHeader(d, 7, false)
		if err != nil {
			t.Fatalf("BuildPrimaryHeader: %v", err)
		}
		h.PixelFormat.FourCC = fourCC('X', 'X', 'X', 'X')
		hb, _ := h.MarshalBinary()

		got, maxMips, err := ParsePrimaryHeader(hb)
		if !errors.Is(err, ErrUnrecognizedFormat) {
			t.Fatalf("expected ErrUnrecognizedFormat, got %v", err)
		}
		if got.Format != FormatUnknown || maxMips != 0 {
			t.Fatalf("format=%s maxMips=%d", got.Format, maxMips)
		}
		if got.Width != d.Width || got.Height != d.Height || got.MipCount != d.MipCount || got.Flags != d.Flags {
			t.Fatalf("geometry not recovered: %+v", got)
		}
	})

	t.Run("masks", func(t *testing.T) {
		t.Parallel()

		h, err := BuildPrimaryHeader(sampleDescriptor(FormatA8R8G8B8), 1, false)
		if err != nil {
			t.Fatalf("BuildPrimaryHeader: %v", err)
		}
		h.PixelFormat.RBitMask = 0x0000f800
		hb, _ := h.MarshalBinary()

		if _, _, err := ParsePrimaryHeader(hb); !errors.Is(err, ErrUnrecognizedFormat) {
			t.Fatalf("expected ErrUnrecognizedFormat, got %v", err)
		}
	})

	t.Run("zero-fourcc", func(t *testing.T) {
		t.Parallel()

		h, err := BuildPrimaryHeader(sampleDescriptor(FormatBC3), 1, false)
		if err != nil {
			t.Fatalf("BuildPrimaryHeader: %v", err)
		}
		h.PixelFormat.FourCC = 0

		for _, alpha := range []bool{false, true} {
			if alpha {
				h.PixelFormat.Flags |= pfAlphaPixels
			} else {
				h.PixelFormat.Flags &^= pfAlphaPixels
			}
			hb, _ := h.MarshalBinary()

			got, _, err := ParsePrimaryHeader(hb)
			if !errors.Is(err, ErrUnrecognizedFormat) {
				t.Fatalf("alpha=%t: expected ErrUnrecognizedFormat, got %v", alpha, err)
			}
			if got.Format != FormatUnknown {
				t.Fatalf("alpha=%t: format=%s, want unknown", alpha, got.Format)
			}
		}
	})
}

func TestParseCubemapWidthOverflow(t *testing.T) {
	t.Parallel()

	d := sampleDescriptor(FormatBC1)
	d.Cubemap = true
	d.Width *= 6
	h, err := BuildPrimaryHeader(d, 1, false)
	if err != nil {
		t.Fatalf("BuildPrimaryHeader: %v", err)
	}
	h.Width = 0x30000000
	hb, _ := h.MarshalBinary()

	if _, _, err := ParsePrimaryHeader(hb); !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("primary: expected ErrSizeOverflow, got %v", err)
	}

	x, err := BuildExtendedHeader(d, 1)
	if err != nil {
		t.Fatalf("BuildExtendedHeader: %v", err)
	}
	xb, _ := x.MarshalBinary()

	flat := ImageSurfaceDescriptor{Width: 0x30000000, Height: 64, MipCount: 1, Format: FormatUnknown, Slices: 1}
	if _, _, err := ParseExtendedHeader(flat, xb); !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("extended: expected ErrSizeOverflow, got %v", err)
	}
}

func TestParsePrimaryLegacyAliases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code uint32
		want Format
	}{
		{fourCC('D', 'X', 'T', '2'), FormatBC2},
		{fourCC('D', 'X', 'T', '4'), FormatBC3},
		{fourCC('B', 'C', '4', 'U'), FormatBC4},
		{fourCC('B', 'C', '5', 'U'), FormatBC5},
		{fourCC('B', 'C', '4', 'S'), FormatBC4s},
		{fourCC('E', 'T', '2', 'A'), FormatETC2a},
		{d3dR16F, FormatR16F},
	}

	for _, tc := range tests {
		h, err := BuildPrimaryHeader(sampleDescriptor(FormatBC3), 1, false)
		if err != nil {
			t.Fatalf("BuildPrimaryHeader: %v", err)
		}
		h.PixelFormat.FourCC = tc.code
		h.PixelFormat.Flags = pfFourCC
		hb, _ := h.MarshalBinary()

		got, _, err := ParsePrimaryHeader(hb)
		if err != nil {
			t.Fatalf("%q: ParsePrimaryHeader: %v", fourCCString(tc.code), err)
		}
		if got.Format != tc.want {
			t.Fatalf("%q: format = %s, want %s", fourCCString(tc.code), got.Format, tc.want)
		}
	}
}

func TestParsePrimaryUntagged(t *testing.T) {
	t.Parallel()

	h, err := BuildPrimaryHeader(sampleDescriptor(FormatBC1), 1, false)
	if err != nil {
		t.Fatalf("BuildPrimaryHeader: %v", err)
	}
	h.Tag = 0
	hb, _ := h.MarshalBinary()

	got, _, err := ParsePrimaryHeader(hb)
	if err != nil {
		t.Fatalf("ParsePrimaryHeader: %v", err)
	}
	if got.Flags != 0 || got.PersistentMips != 0 {
		t.Fatalf("untagged header kept metadata: flags=%#x persistent=%d", got.Flags, got.PersistentMips)
	}
	if got.MinColor != [4]float32{} || got.MaxColor != [4]float32{1, 1, 1, 1} || got.AvgBrightness != 0.5 {
		t.Fatalf("untagged colour range = %v..%v @%v", got.MinColor, got.MaxColor, got.AvgBrightness)
	}
}

func TestParsePrimaryErrors(t *testing.T) {
	t.Parallel()

	if _, _, err := ParsePrimaryHeader(make([]byte, 10)); !errors.Is(err, ErrHeaderTruncated) {
		t.Fatalf("short header: expected ErrHeaderTruncated, got %v", err)
	}

	h, err := BuildPrimaryHeader(sampleDescriptor(FormatBC1), 1, false)
	if err != nil {
		t.Fatalf("BuildPrimaryHeader: %v", err)
	}
	h.Size = 100
	hb, _ := h.MarshalBinary()
	if _, _, err := ParsePrimaryHeader(hb); !errors.Is(err, ErrInvalidHeaderSize) {
		t.Fatalf("size 100: expected ErrInvalidHeaderSize, got %v", err)
	}
}

func TestDecodeHeadersErrors(t *testing.T) {
	t.Parallel()

	if _, err := DecodeHeaders([]byte("DD")); !errors.Is(err, ErrHeaderTruncated) {
		t.Fatalf("expected ErrHeaderTruncated, got %v", err)
	}

	b := encodeWith(t, sampleDescriptor(FormatBC3), false)
	bad := bytes.Clone(b)
	copy(bad, "EDDS")
	if _, err := DecodeHeaders(bad); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}

	ext := encodeWith(t, sampleDescriptor(FormatBC7), true)
	if _, err := DecodeHeaders(ext[:len(ext)-4]); !errors.Is(err, ErrHeaderTruncated) {
		t.Fatalf("short extended header: expected ErrHeaderTruncated, got %v", err)
	}
}

func TestCheckPrimaryHeader(t *testing.T) {
	t.Parallel()

	valid := func() SurfaceHeader {
		h, err := BuildPrimaryHeader(sampleDescriptor(FormatA8R8G8B8), 7, false)
		if err != nil {
			t.Fatalf("BuildPrimaryHeader: %v", err)
		}
		return h
	}

	tests := []struct {
		name   string
		mutate func(*SurfaceHeader)
	}{
		{name: "size", mutate: func(h *SurfaceHeader) { h.Size = 120 }},
		{name: "pixel-format-size", mutate: func(h *SurfaceHeader) { h.PixelFormat.Size = 0 }},
		{name: "mip-flag-without-caps", mutate: func(h *SurfaceHeader) { h.Caps &^= capsMipmap }},
		{name: "mip-flag-single-mip", mutate: func(h *SurfaceHeader) { h.MipMapCount = 1 }},
		{name: "mip-count-without-flag", mutate: func(h *SurfaceHeader) {
			h.Flags &^= flagMipMapCount
			h.Caps &^= capsMipmap
		}},
		{name: "partial-cube", mutate: func(h *SurfaceHeader) { h.Caps2 = caps2Cubemap | 0x400 }},
		{name: "cube-and-volume", mutate: func(h *SurfaceHeader) { h.Caps2 = caps2Cubemap | caps2AllFaces | caps2Volume }},
		{name: "no-layout", mutate: func(h *SurfaceHeader) { h.PixelFormat.Flags = pfAlphaPixels }},
		{name: "two-layouts", mutate: func(h *SurfaceHeader) { h.PixelFormat.Flags |= pfLuminance }},
		{name: "coded-with-masks", mutate: func(h *SurfaceHeader) {
			h.PixelFormat.Flags |= pfFourCC
			h.PixelFormat.FourCC = fourCCDXT1
		}},
		{name: "pitch-and-linear", mutate: func(h *SurfaceHeader) { h.Flags |= flagLinearSize }},
	}

	base := valid()
	if err := checkPrimaryHeader(&base); err != nil {
		t.Fatalf("valid header rejected: %v", err)
	}

	for _, tc := range tests {
		h := valid()
		tc.mutate(&h)
		if err := checkPrimaryHeader(&h); !errors.Is(err, ErrHeaderContract) {
			t.Fatalf("%s: expected ErrHeaderContract, got %v", tc.name, err)
		}
	}
}
