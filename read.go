package texsurf

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/woozymasta/bcn"
	"golang.org/x/image/draw"
)

// ReadOptions configures Read (e.g. BCn decode workers).
type ReadOptions struct {
	// DecodeOptions are passed to the pixel decoder.
	DecodeOptions *bcn.DecodeOptions
}

// ReadHeaders reads the magic, primary header and optional extended header
// from r, leaving r positioned at the block table.
func ReadHeaders(r io.Reader) (Surface, error) {
	buf := make([]byte, 4+HeaderSize, 4+HeaderSize+ExtendedHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Surface{}, fmt.Errorf("%w: %v", ErrHeaderRead, err)
	}

	var h SurfaceHeader
	if err := h.UnmarshalBinary(buf[4:]); err != nil {
		return Surface{}, err
	}
	if h.HasExtendedHeader() {
		buf = buf[:4+HeaderSize+ExtendedHeaderSize]
		if _, err := io.ReadFull(r, buf[4+HeaderSize:]); err != nil {
			return Surface{}, fmt.Errorf("%w: extended: %v", ErrHeaderRead, err)
		}
	}

	return DecodeHeaders(buf)
}

// ReadInfo reads the headers of the file at path.
func ReadInfo(path string) (Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return Surface{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadHeaders(bufio.NewReader(f))
}

// ReadConfig reads the image configuration without decoding pixel data.
func ReadConfig(path string) (image.Config, error) {
	s, err := ReadInfo(path)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      int(s.Descriptor.Width),
		Height:     int(s.Descriptor.Height),
		ColorModel: color.NRGBAModel,
	}, nil
}

// Read reads and decodes the largest mip level of the file at path.
func Read(path string) (image.Image, error) {
	return ReadWithOptions(path, nil)
}

// ReadWithOptions reads and decodes the largest mip level with the given
// options. Cubemaps decode to a 6:1 face strip; arrays and volumes decode
// their first slice.
func ReadWithOptions(path string, opts *ReadOptions) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	s, err := ReadHeaders(f)
	if err != nil {
		return nil, err
	}
	d := s.Descriptor

	codec, ok := codecFormat(d.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDecoder, d.Format)
	}

	data, err := readLargestMip(f, d)
	if err != nil {
		data, err = readLegacySingleBlock(f, s)
		if err != nil {
			return nil, err
		}
	}

	var decOpts *bcn.DecodeOptions
	if opts != nil {
		decOpts = opts.DecodeOptions
	}

	faceW := int(d.Width)
	if d.Cubemap {
		faceW /= 6
	}
	height := int(d.Height)
	faceBytes := LevelSize(d.Format, faceW, height)

	if !d.Cubemap {
		img, err := bcn.DecodeImageWithOptions(data[:faceBytes], faceW, height, codec, decOpts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
		}
		return img, nil
	}

	strip := image.NewNRGBA(image.Rect(0, 0, int(d.Width), height))
	for i := 0; i < 6; i++ {
		face, err := bcn.DecodeImageWithOptions(data[i*faceBytes:(i+1)*faceBytes], faceW, height, codec, decOpts)
		if err != nil {
			return nil, fmt.Errorf("%w: face %d: %v", ErrDecodeImage, i, err)
		}
		dr := image.Rect(i*faceW, 0, (i+1)*faceW, height)
		draw.Copy(strip, dr.Min, face, face.Bounds(), draw.Src, nil)
	}

	return strip, nil
}

// readLargestMip skips every block but the last (largest) one and inflates it.
func readLargestMip(r io.ReadSeeker, d ImageSurfaceDescriptor) ([]byte, error) {
	count := max(d.MipCount, 1)

	table, err := readBlockTable(r, count)
	if err != nil {
		return nil, err
	}

	last := len(table) - 1
	for i := 0; i < last; i++ {
		if _, err := r.Seek(int64(table[i].Size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%w: block %d: %v", ErrSkipBlockBody, i, err)
		}
	}

	block, err := readBlockBody(r, table[last])
	if err != nil {
		return nil, err
	}

	expected := levelPayloadSize(d, 0)
	if expected <= 0 {
		return nil, fmt.Errorf("%w: %s has no fixed level size", ErrNoDecoder, d.Format)
	}

	data, err := unpackBlock(block, expected)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressBlock, err)
	}
	if len(data) != expected {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrMipmapSizeMismatch, expected, len(data))
	}

	return data, nil
}

// readLegacySingleBlock reads files that store one payload right after the
// headers with no block table: first as an LZ4 chunk-stream, then as raw
// data when its size matches the top level.
func readLegacySingleBlock(r io.ReadSeeker, s Surface) ([]byte, error) {
	if _, err := r.Seek(int64(s.HeaderLen), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek: %v", ErrBlockBodyRead, err)
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlockBodyRead, err)
	}

	expected := levelPayloadSize(s.Descriptor, 0)
	if expected <= 0 {
		return nil, fmt.Errorf("%w: %s has no fixed level size", ErrNoDecoder, s.Descriptor.Format)
	}

	size, err := i32FromInt(len(rest))
	if err != nil {
		return nil, err
	}

	data, err := unpackBlock(&MipBlock{Magic: BlockMagicLZ4, Size: size, Data: rest}, expected)
	if err == nil {
		return data, nil
	}
	if len(rest) == expected {
		return rest, nil
	}

	return nil, fmt.Errorf("%w: single block: %v", ErrDecompressBlock, err)
}
