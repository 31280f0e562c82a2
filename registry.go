package texsurf

import (
	"fmt"
	"strings"
	"sync"
)

// Format identifies a pixel/block format. Values are stable ordinals and
// index the registry directly.
type Format int

// Supported formats.
const (
	FormatA8R8G8B8 Format = iota
	FormatX8R8G8B8
	FormatR8G8B8A8
	FormatR8G8B8
	FormatA8
	FormatR8
	FormatA8L8
	FormatR8G8
	FormatR16
	FormatR16G16
	FormatR16G16B16A16
	FormatR10G10B10A2
	FormatR9G9B9E5
	FormatR16F
	FormatR16G16F
	FormatR16G16B16A16F
	FormatR32F
	FormatR32G32F
	FormatR32G32B32A32F
	FormatBC1
	FormatBC1a
	FormatBC2
	FormatBC3
	FormatBC4
	FormatBC4s
	FormatBC5
	FormatBC5s
	FormatBC6UH
	FormatBC7
	FormatBC7t
	FormatEACR11
	FormatEACRG11
	FormatETC2
	FormatETC2a
	FormatASTC4x4
	FormatASTC8x8

	// FormatCount is the number of registered formats.
	FormatCount
)

// FormatUnknown marks a format that could not be identified.
const FormatUnknown Format = -1

// SampleKind describes the storage type of one channel sample.
type SampleKind uint8

const (
	SampleUint8 SampleKind = iota
	SampleUint16
	SampleHalf
	SampleFloat
	SampleCompressed
)

// FormatInfo describes one pixel format.
type FormatInfo struct {
	Name        string
	Description string
	// AlphaDescriptor is a display note on alpha depth ("8", "3of8", ...).
	AlphaDescriptor string

	ID           Format
	BitsPerPixel int
	BitsPerBlock int
	Channels     int
	BlockWidth   int
	BlockHeight  int
	MinWidth     int
	MinHeight    int

	// LegacyCode is the primary header code (FourCC or D3D format number),
	// 0 when the format cannot be expressed there.
	LegacyCode uint32
	// DXGICode is the extended header code, 0 when unrepresentable.
	DXGICode uint32

	Sample        SampleKind
	HasAlpha      bool
	Compressed    bool
	SquarePow2    bool
	Selectable    bool
	Signed        bool
	BlockVariable bool
}

// D3D format numbers used as legacy codes for formats without a FourCC.
const (
	d3dR8G8B8        = 20
	d3dA8R8G8B8      = 21
	d3dX8R8G8B8      = 22
	d3dA8            = 28
	d3dA2B10G10R10   = 31
	d3dA8B8G8R8      = 32
	d3dG16R16        = 34
	d3dA16B16G16R16  = 36
	d3dL8            = 50
	d3dA8L8          = 51
	d3dL16           = 81
	d3dR16F          = 111
	d3dG16R16F       = 112
	d3dA16B16G16R16F = 113
	d3dR32F          = 114
	d3dG32R32F       = 115
	d3dA32B32G32R32F = 116
)

func uncompressed(id Format, name, desc string, bpp, channels int, sample SampleKind) FormatInfo {
	return FormatInfo{
		ID:           id,
		Name:         name,
		Description:  desc,
		BitsPerPixel: bpp,
		BitsPerBlock: bpp,
		Channels:     channels,
		BlockWidth:   1,
		BlockHeight:  1,
		MinWidth:     1,
		MinHeight:    1,
		Sample:       sample,
		Selectable:   true,
	}
}

func blockCompressed(id Format, name, desc string, bpp, block, channels int) FormatInfo {
	return FormatInfo{
		ID:           id,
		Name:         name,
		Description:  desc,
		BitsPerPixel: bpp,
		BitsPerBlock: bpp * block * block,
		Channels:     channels,
		BlockWidth:   block,
		BlockHeight:  block,
		MinWidth:     block,
		MinHeight:    block,
		Sample:       SampleCompressed,
		Compressed:   true,
		Selectable:   true,
	}
}

func (fi FormatInfo) alpha(descriptor string) FormatInfo {
	fi.HasAlpha = true
	fi.AlphaDescriptor = descriptor
	return fi
}

func (fi FormatInfo) codes(legacy, dxgi uint32) FormatInfo {
	fi.LegacyCode = legacy
	fi.DXGICode = dxgi
	return fi
}

func (fi FormatInfo) hidden() FormatInfo {
	fi.Selectable = false
	return fi
}

func (fi FormatInfo) signed() FormatInfo {
	fi.Signed = true
	return fi
}

func formatTable() []FormatInfo {
	return []FormatInfo{
		uncompressed(FormatA8R8G8B8, "A8R8G8B8", "32-bit BGRA, 8 bits per channel", 32, 4, SampleUint8).
			alpha("8").codes(d3dA8R8G8B8, dxgiB8G8R8A8),
		uncompressed(FormatX8R8G8B8, "X8R8G8B8", "32-bit BGRX, alpha byte unused", 32, 3, SampleUint8).
			codes(d3dX8R8G8B8, dxgiB8G8R8X8).hidden(),
		uncompressed(FormatR8G8B8A8, "R8G8B8A8", "32-bit RGBA, 8 bits per channel", 32, 4, SampleUint8).
			alpha("8").codes(d3dA8B8G8R8, dxgiR8G8B8A8),
		uncompressed(FormatR8G8B8, "R8G8B8", "24-bit RGB", 24, 3, SampleUint8).
			codes(d3dR8G8B8, 0).hidden(),
		uncompressed(FormatA8, "A8", "8-bit alpha only", 8, 1, SampleUint8).
			alpha("8").codes(d3dA8, dxgiA8),
		uncompressed(FormatR8, "R8", "8-bit single channel (luminance)", 8, 1, SampleUint8).
			codes(d3dL8, dxgiR8),
		uncompressed(FormatA8L8, "A8L8", "16-bit packed luminance and alpha", 16, 2, SampleUint8).
			alpha("8").codes(d3dA8L8, 0).hidden(),
		uncompressed(FormatR8G8, "R8G8", "16-bit two channel", 16, 2, SampleUint8).
			codes(0, dxgiR8G8),
		uncompressed(FormatR16, "R16", "16-bit single channel", 16, 1, SampleUint16).
			codes(d3dL16, dxgiR16),
		uncompressed(FormatR16G16, "R16G16", "32-bit two channel, 16 bits per channel", 32, 2, SampleUint16).
			codes(d3dG16R16, dxgiR16G16),
		uncompressed(FormatR16G16B16A16, "R16G16B16A16", "64-bit RGBA, 16 bits per channel", 64, 4, SampleUint16).
			alpha("16").codes(d3dA16B16G16R16, dxgiR16G16B16A16),
		uncompressed(FormatR10G10B10A2, "R10G10B10A2", "32-bit RGB 10 bits, 2-bit alpha", 32, 4, SampleUint8).
			alpha("2").codes(d3dA2B10G10R10, dxgiR10G10B10A2),
		uncompressed(FormatR9G9B9E5, "R9G9B9E5", "32-bit shared exponent HDR", 32, 3, SampleHalf).
			codes(0, dxgiR9G9B9E5),
		uncompressed(FormatR16F, "R16F", "16-bit float single channel", 16, 1, SampleHalf).
			codes(d3dR16F, dxgiR16F).signed(),
		uncompressed(FormatR16G16F, "R16G16F", "32-bit float two channel", 32, 2, SampleHalf).
			codes(d3dG16R16F, dxgiR16G16F).signed(),
		uncompressed(FormatR16G16B16A16F, "R16G16B16A16F", "64-bit float RGBA", 64, 4, SampleHalf).
			alpha("16f").codes(d3dA16B16G16R16F, dxgiR16G16B16A16F).signed(),
		uncompressed(FormatR32F, "R32F", "32-bit float single channel", 32, 1, SampleFloat).
			codes(d3dR32F, dxgiR32F).signed(),
		uncompressed(FormatR32G32F, "R32G32F", "64-bit float two channel", 64, 2, SampleFloat).
			codes(d3dG32R32F, dxgiR32G32F).signed(),
		uncompressed(FormatR32G32B32A32F, "R32G32B32A32F", "128-bit float RGBA", 128, 4, SampleFloat).
			alpha("32f").codes(d3dA32B32G32R32F, dxgiR32G32B32A32F).signed(),

		blockCompressed(FormatBC1, "BC1", "DXT1 colour, no alpha", 4, 4, 3).
			codes(fourCCDXT1, dxgiBC1),
		blockCompressed(FormatBC1a, "BC1a", "DXT1 colour with 1-bit alpha", 4, 4, 4).
			alpha("1").codes(fourCCDXT1, dxgiBC1).hidden(),
		blockCompressed(FormatBC2, "BC2", "DXT3 colour with explicit 4-bit alpha", 8, 4, 4).
			alpha("4").codes(fourCCDXT3, dxgiBC2),
		blockCompressed(FormatBC3, "BC3", "DXT5 colour with interpolated alpha", 8, 4, 4).
			alpha("3of8").codes(fourCCDXT5, dxgiBC3),
		blockCompressed(FormatBC4, "BC4", "single channel (ATI1)", 4, 4, 1).
			codes(fourCCATI1, dxgiBC4),
		blockCompressed(FormatBC4s, "BC4s", "signed single channel", 4, 4, 1).
			codes(fourCCBC4S, dxgiBC4S).signed(),
		blockCompressed(FormatBC5, "BC5", "two channel (ATI2)", 8, 4, 2).
			codes(fourCCATI2, dxgiBC5),
		blockCompressed(FormatBC5s, "BC5s", "signed two channel", 8, 4, 2).
			codes(fourCCBC5S, dxgiBC5S).signed(),
		blockCompressed(FormatBC6UH, "BC6UH", "unsigned half-float HDR colour", 8, 4, 3).
			codes(0, dxgiBC6HUF16),
		blockCompressed(FormatBC7, "BC7", "high quality colour", 8, 4, 3).
			codes(0, dxgiBC7),
		blockCompressed(FormatBC7t, "BC7t", "high quality colour with alpha", 8, 4, 4).
			alpha("8").codes(0, dxgiBC7).hidden(),
		blockCompressed(FormatEACR11, "EAC_R11", "EAC single channel", 4, 4, 1).
			codes(fourCCEAR1, 0),
		blockCompressed(FormatEACRG11, "EAC_RG11", "EAC two channel", 8, 4, 2).
			codes(fourCCEARG, 0),
		blockCompressed(FormatETC2, "ETC2", "ETC2 colour, no alpha", 4, 4, 3).
			codes(fourCCETC2, 0),
		blockCompressed(FormatETC2a, "ETC2a", "ETC2 colour with EAC alpha", 8, 4, 4).
			alpha("8").codes(fourCCET2A, 0).hidden(),
		blockCompressed(FormatASTC4x4, "ASTC_4x4", "ASTC LDR, 4x4 footprint", 8, 4, 4).
			alpha("8").codes(0, dxgiASTC4x4),
		blockCompressed(FormatASTC8x8, "ASTC_8x8", "ASTC LDR, 8x8 footprint", 2, 8, 4).
			alpha("8").codes(0, dxgiASTC8x8),
	}
}

type registry struct {
	entries []FormatInfo
	byName  map[string]Format
}

var loadRegistry = sync.OnceValue(func() *registry {
	entries := formatTable()
	if err := validateRegistry(entries); err != nil {
		panic(fmt.Sprintf("texsurf: malformed format registry: %v", err))
	}

	byName := make(map[string]Format, len(entries))
	for _, e := range entries {
		byName[strings.ToLower(e.Name)] = e.ID
	}

	return &registry{entries: entries, byName: byName}
})

// validateRegistry checks that entries cover every Format exactly once, in
// order, with unique names and consistent block sizes.
func validateRegistry(entries []FormatInfo) error {
	if len(entries) != int(FormatCount) {
		return fmt.Errorf("%w: %d entries for %d formats", ErrRegistryContract, len(entries), FormatCount)
	}

	seen := make(map[string]Format, len(entries))
	for i, e := range entries {
		if e.ID != Format(i) {
			return fmt.Errorf("%w: entry %d has id %d", ErrRegistryContract, i, e.ID)
		}
		if e.Name == "" {
			return fmt.Errorf("%w: entry %d has no name", ErrRegistryContract, i)
		}
		key := strings.ToLower(e.Name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: name %q used by %d and %d", ErrRegistryContract, e.Name, prev, e.ID)
		}
		seen[key] = e.ID

		if e.BlockWidth <= 0 || e.BlockHeight <= 0 || e.MinWidth <= 0 || e.MinHeight <= 0 {
			return fmt.Errorf("%w: %s has non-positive block or minimum size", ErrRegistryContract, e.Name)
		}
		if e.BitsPerBlock == 0 {
			if !e.BlockVariable {
				return fmt.Errorf("%w: %s has zero bits per block", ErrRegistryContract, e.Name)
			}
			continue
		}
		if e.BitsPerBlock != e.BitsPerPixel*e.BlockWidth*e.BlockHeight {
			return fmt.Errorf("%w: %s bits per block %d != %d*%d*%d", ErrRegistryContract,
				e.Name, e.BitsPerBlock, e.BitsPerPixel, e.BlockWidth, e.BlockHeight)
		}
	}

	return nil
}

// Lookup returns the registry entry for f. It panics if f is out of range.
func Lookup(f Format) *FormatInfo {
	r := loadRegistry()
	if f < 0 || int(f) >= len(r.entries) {
		panic(fmt.Sprintf("texsurf: format id %d out of range", f))
	}

	return &r.entries[f]
}

// LookupByName finds a format by its name, ignoring case.
func LookupByName(name string) (Format, bool) {
	f, ok := loadRegistry().byName[strings.ToLower(name)]
	if !ok {
		return FormatUnknown, false
	}

	return f, true
}

// Formats returns every registered format in id order.
func Formats() []Format {
	out := make([]Format, FormatCount)
	for i := range out {
		out[i] = Format(i)
	}

	return out
}

// Valid reports whether f is a registered format.
func (f Format) Valid() bool {
	return f >= 0 && f < FormatCount
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}

	return Lookup(f).Name
}
