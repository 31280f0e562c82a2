package texsurf

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/woozymasta/bcn"
	"golang.org/x/image/draw"
)

// WriteOptions configures WriteImage.
type WriteOptions struct {
	// EncodeOptions are passed to the pixel encoder (quality, workers).
	EncodeOptions *bcn.EncodeOptions
	// Format is the requested format; the alpha sibling actually written is
	// chosen by ResolveFinalFormat.
	Format Format
	// MaxMipMaps limits the chain length; 0 means the longest legal chain.
	MaxMipMaps int
	// Flags are stored in the header as-is.
	Flags ImageFlags
	// PersistentMips is stored in the header as-is.
	PersistentMips uint8
	// Compress stores mip blocks as LZ4 when that saves space.
	Compress bool
	// Cubemap treats the image as a 6:1 face strip.
	Cubemap bool
}

// DefaultWriteOptions returns BGRA8 output with a full mip chain and LZ4
// compression.
func DefaultWriteOptions() *WriteOptions {
	return &WriteOptions{Format: FormatA8R8G8B8, Compress: true}
}

// WriteImage encodes img and writes it to path.
func WriteImage(img image.Image, path string, opts *WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	if err := EncodeImage(bw, img, opts); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteBlockData, err)
	}

	return f.Close()
}

// EncodeImage encodes img with its mip chain and writes the container to w.
func EncodeImage(w io.Writer, img image.Image, opts *WriteOptions) error {
	if opts == nil {
		opts = DefaultWriteOptions()
	}
	log := Logger()

	bounds := img.Bounds()
	width, err := u32FromInt(bounds.Dx())
	if err != nil {
		return err
	}
	height, err := u32FromInt(bounds.Dy())
	if err != nil {
		return err
	}

	if !opts.Format.Valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, opts.Format)
	}
	alphaUsed := AlphaUsed(img)
	format := ResolveFinalFormat(opts.Format, alphaUsed)
	codec, ok := codecFormat(format)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEncoder, format)
	}
	log.Debug("resolved format",
		slog.String("requested", opts.Format.String()),
		slog.String("final", format.String()),
		slog.Bool("alpha_used", alphaUsed))

	faces := []image.Image{img}
	if opts.Cubemap {
		faces, err = splitFaceStrip(img)
		if err != nil {
			return err
		}
	}

	mipCount := MaxMipCount(format, width, height, opts.Cubemap)
	if mipCount == 0 {
		return fmt.Errorf("%w: %dx%d is below the %s minimum", ErrInvalidGeometry, width, height, format)
	}
	if opts.MaxMipMaps > 0 && uint32(opts.MaxMipMaps) < mipCount {
		mipCount = uint32(opts.MaxMipMaps)
	}

	var payloads [][]byte
	for fi, face := range faces {
		mips := bcn.GenerateMipmaps(face, false)
		if uint32(len(mips)) < mipCount {
			mipCount = uint32(len(mips))
		}
		if payloads == nil {
			payloads = make([][]byte, mipCount)
		}

		for level := 0; level < int(mipCount); level++ {
			data, _, _, err := bcn.EncodeImageWithOptions(mips[level], codec, opts.EncodeOptions)
			if err != nil {
				return fmt.Errorf("%w: face %d mipmap %d: %v", ErrEncodeMipmap, fi, level, err)
			}
			payloads[level] = append(payloads[level], data...)
		}
	}
	payloads = payloads[:mipCount]

	cr := MeasureColorRange(img)
	d := ImageSurfaceDescriptor{
		Width:          width,
		Height:         height,
		MipCount:       mipCount,
		Format:         format,
		Cubemap:        opts.Cubemap,
		Slices:         1,
		Flags:          opts.Flags,
		PersistentMips: opts.PersistentMips,
		MinColor:       cr.Min,
		MaxColor:       cr.Max,
		AvgBrightness:  cr.AvgBrightness,
	}

	return WriteSurface(w, d, payloads, opts.Compress)
}

// splitFaceStrip cuts a 6:1 strip into its six faces.
func splitFaceStrip(img image.Image) ([]image.Image, error) {
	b := img.Bounds()
	layout := InferCubemapLayout(uint32(b.Dx()), uint32(b.Dy()))
	if layout != CubemapLayoutStrip {
		return nil, fmt.Errorf("%w: cubemap layout %s, need strip", ErrInvalidGeometry, layout)
	}

	face := b.Dy()
	faces := make([]image.Image, 6)
	for i := range faces {
		dst := image.NewNRGBA(image.Rect(0, 0, face, face))
		src := image.Rect(b.Min.X+i*face, b.Min.Y, b.Min.X+(i+1)*face, b.Max.Y)
		draw.Copy(dst, image.Point{}, img, src, draw.Src, nil)
		faces[i] = dst
	}

	return faces, nil
}

// WriteSurface writes headers for d and the pre-encoded mip payloads to w.
// mipmaps is ordered from largest to smallest; each entry holds every face
// and slice of that level. d.MipCount is taken from len(mipmaps).
func WriteSurface(w io.Writer, d ImageSurfaceDescriptor, mipmaps [][]byte, compress bool) error {
	if len(mipmaps) == 0 {
		return ErrEmptyMipmaps
	}
	if !d.Format.Valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, d.Format)
	}
	if err := checkSurfaceGeometry(d); err != nil {
		return err
	}

	count, err := u32FromInt(len(mipmaps))
	if err != nil {
		return err
	}
	maxMips := MaxMipCount(d.Format, d.Width, d.Height, d.Cubemap)
	if count > maxMips {
		return fmt.Errorf("%w: %d mipmaps, %s allows %d", ErrInvalidGeometry, count, d.Format, maxMips)
	}
	d.MipCount = count

	blocks := make([]*MipBlock, len(mipmaps))
	for i, mip := range mipmaps {
		expected := levelPayloadSize(d, i)
		if expected <= 0 {
			return fmt.Errorf("%w: %s has no fixed level size", ErrUnsupportedFormat, d.Format)
		}
		if len(mip) != expected {
			return fmt.Errorf("%w: mipmap %d: expected %d, got %d", ErrMipmapSizeMismatch, i, expected, len(mip))
		}

		block, err := packBlock(mip, compress)
		if err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrCompressMipmap, i, err)
		}
		Logger().Debug("packed mipmap",
			slog.Int("level", i),
			slog.String("magic", block.Magic),
			slog.Int("raw", len(mip)),
			slog.Int("stored", int(block.Size)))
		blocks[i] = block
	}

	headers, err := EncodeHeaders(d)
	if err != nil {
		return err
	}
	if _, err := w.Write(headers); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}

	// Smallest level first.
	ordered := make([]*MipBlock, len(blocks))
	for i, b := range blocks {
		ordered[len(blocks)-1-i] = b
	}
	if err := writeBlockTable(w, ordered); err != nil {
		return err
	}
	for i, b := range ordered {
		if err := writeBlockBody(w, b); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockData, len(ordered)-1-i, err)
		}
	}

	return nil
}

// WriteSurfaceFile is WriteSurface into a new file at path.
func WriteSurfaceFile(path string, d ImageSurfaceDescriptor, mipmaps [][]byte, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	if err := WriteSurface(bw, d, mipmaps, compress); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteBlockData, err)
	}

	return f.Close()
}

func checkSurfaceGeometry(d ImageSurfaceDescriptor) error {
	if d.Width == 0 || d.Height == 0 {
		return fmt.Errorf("%w: empty surface %dx%d", ErrInvalidGeometry, d.Width, d.Height)
	}
	if d.Cubemap && d.Volume {
		return fmt.Errorf("%w: cubemap and volume are exclusive", ErrInvalidGeometry)
	}
	if d.Cubemap && InferCubemapLayout(d.Width, d.Height) != CubemapLayoutStrip {
		return fmt.Errorf("%w: cubemap %dx%d is not a 6:1 face strip", ErrInvalidGeometry, d.Width, d.Height)
	}
	if IsLegacyOnly(d.Format) && !d.Volume && d.sliceCount() > 1 {
		return fmt.Errorf("%w: %s cannot store %d slices", ErrInvalidGeometry, d.Format, d.sliceCount())
	}
	if RequiresSquarePow2(d.Format) {
		w := d.Width
		if d.Cubemap {
			w /= 6
		}
		if w != d.Height || w&(w-1) != 0 {
			return fmt.Errorf("%w: %s needs a square power-of-two surface", ErrInvalidGeometry, d.Format)
		}
	}

	return nil
}

// levelPayloadSize returns the byte size of every face and slice of one mip
// level, or -1 when the format has no fixed block size.
func levelPayloadSize(d ImageSurfaceDescriptor, level int) int {
	faceW := d.Width
	if d.Cubemap {
		faceW /= 6
	}

	size := LevelSize(d.Format, int(MipDimension(faceW, level)), int(MipDimension(d.Height, level)))
	if size < 0 {
		return -1
	}

	switch {
	case d.Cubemap:
		return size * 6 * int(d.sliceCount())
	case d.Volume:
		return size * int(MipDimension(d.sliceCount(), level))
	default:
		return size * int(d.sliceCount())
	}
}
