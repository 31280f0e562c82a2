package texsurf

import (
	"image"
	"image/color"
)

// AlphaUsed reports whether any pixel of img is not fully opaque.
func AlphaUsed(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}

	return false
}

// ColorRange is the per-channel range and average brightness of an image,
// normalized to [0, 1].
type ColorRange struct {
	Min           [4]float32
	Max           [4]float32
	AvgBrightness float32
}

// MeasureColorRange scans img for its per-channel minimum and maximum and
// the mean Rec. 709 luminance.
func MeasureColorRange(img image.Image) ColorRange {
	b := img.Bounds()
	if b.Empty() {
		return ColorRange{Max: [4]float32{1, 1, 1, 1}, AvgBrightness: 0.5}
	}

	cr := ColorRange{
		Min: [4]float32{1, 1, 1, 1},
	}
	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			ch := [4]float32{
				float32(c.R) / 0xffff,
				float32(c.G) / 0xffff,
				float32(c.B) / 0xffff,
				float32(c.A) / 0xffff,
			}
			for i, v := range ch {
				cr.Min[i] = min(cr.Min[i], v)
				cr.Max[i] = max(cr.Max[i], v)
			}
			sum += 0.2126*float64(ch[0]) + 0.7152*float64(ch[1]) + 0.0722*float64(ch[2])
		}
	}
	cr.AvgBrightness = float32(sum / float64(b.Dx()*b.Dy()))

	return cr
}
