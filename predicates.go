package texsurf

// IsUncompressed reports whether f is addressed per pixel.
func IsUncompressed(f Format) bool {
	return !Lookup(f).Compressed
}

// IsSingleChannel reports whether f stores one channel.
func IsSingleChannel(f Format) bool {
	return Lookup(f).Channels == 1
}

// IsSigned reports whether f stores signed values.
func IsSigned(f Format) bool {
	return Lookup(f).Signed
}

// IsFloatingPoint reports whether f stores floating point samples. With
// fullPrecision only 32-bit floats qualify.
func IsFloatingPoint(f Format, fullPrecision bool) bool {
	switch Lookup(f).Sample {
	case SampleFloat:
		return true
	case SampleHalf:
		return !fullPrecision
	default:
		return false
	}
}

// IsAnyRGB reports whether f is uncompressed with at least three channels.
func IsAnyRGB(f Format) bool {
	info := Lookup(f)
	return !info.Compressed && info.Channels >= 3
}

// IsAnyRG reports whether f is uncompressed with at least two channels,
// excluding the packed luminance-alpha layout.
func IsAnyRG(f Format) bool {
	info := Lookup(f)
	return !info.Compressed && info.Channels >= 2 && f != FormatA8L8
}

// HasAlpha reports whether f carries an alpha channel.
func HasAlpha(f Format) bool {
	return Lookup(f).HasAlpha
}

// IsSelectable reports whether f is offered for direct selection. Hidden
// formats are reached through ResolveFinalFormat.
func IsSelectable(f Format) bool {
	return Lookup(f).Selectable
}

// RequiresSquarePow2 reports whether f only supports square power-of-two
// surfaces.
func RequiresSquarePow2(f Format) bool {
	return Lookup(f).SquarePow2
}

// RequiresExtendedContainer reports whether f has no primary header code and
// must be written with an extended header.
func RequiresExtendedContainer(f Format) bool {
	return Lookup(f).LegacyCode == 0
}

// IsLegacyOnly reports whether f has no extended header code.
func IsLegacyOnly(f Format) bool {
	return Lookup(f).DXGICode == 0
}

// isASTC reports whether f belongs to the ASTC family, whose mip chains are
// not bound to block alignment.
func isASTC(f Format) bool {
	return f == FormatASTC4x4 || f == FormatASTC8x8
}

// is16BitPerChannel reports whether f stores 16-bit integer channels.
func is16BitPerChannel(f Format) bool {
	return Lookup(f).Sample == SampleUint16
}
