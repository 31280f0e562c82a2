package texsurf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed mip block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 chunk-stream mip block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the uncompressed size of one LZ4 chunk and of the
	// rolling dictionary.
	ChunkSize = 64 * 1024

	lastChunkFlag = 0x80
	maxChunkBytes = 0x7fffff

	// minCompressSize is the smallest payload worth compressing.
	minCompressSize = 1024
	// worthwhileRatio is the largest compressed/raw ratio kept as LZ4.
	worthwhileRatio = 0.85
)

// MipBlock is one mip level body as stored in the container.
type MipBlock struct {
	Magic string
	Data  []byte
	// Size is the stored body size, the uncompressed-size prefix of LZ4
	// blocks included.
	Size             int32
	UncompressedSize int32
}

func copyBlock(data []byte) (*MipBlock, error) {
	size, err := i32FromInt(len(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}

	return &MipBlock{Magic: BlockMagicCOPY, Size: size, Data: data}, nil
}

// packBlock stores data as LZ4 chunk-stream when that saves enough space and
// as COPY otherwise.
func packBlock(data []byte, compress bool) (*MipBlock, error) {
	if !compress || len(data) < minCompressSize {
		return copyBlock(data)
	}
	if len(data) > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}

	var stream bytes.Buffer
	scratch := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for start := 0; start < len(data); start += ChunkSize {
		end := min(start+ChunkSize, len(data))
		chunk := data[start:end]

		n, err := lz4.CompressBlockHC(chunk, scratch, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(chunk))*worthwhileRatio {
			return copyBlock(data)
		}
		if n > maxChunkBytes {
			return nil, fmt.Errorf("%w: %d", ErrChunkTooLarge, n)
		}

		var flag byte
		if end == len(data) {
			flag = lastChunkFlag
		}
		stream.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), flag})
		stream.Write(scratch[:n])
	}

	stored := 4 + stream.Len()
	if stored > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCompressedDataTooLarge, stored)
	}
	if float64(stored) > float64(len(data))*worthwhileRatio {
		return copyBlock(data)
	}

	size, err := i32FromInt(stored)
	if err != nil {
		return nil, err
	}
	raw, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}

	return &MipBlock{
		Magic:            BlockMagicLZ4,
		Size:             size,
		UncompressedSize: raw,
		Data:             stream.Bytes(),
	}, nil
}

// rollingDict keeps the last ChunkSize decoded bytes for LZ4 back-references.
type rollingDict struct {
	buf  [ChunkSize]byte
	size int
}

func (d *rollingDict) bytes() []byte {
	return d.buf[:d.size]
}

func (d *rollingDict) push(decoded []byte) {
	switch {
	case len(decoded) >= ChunkSize:
		copy(d.buf[:], decoded[len(decoded)-ChunkSize:])
		d.size = ChunkSize
	case d.size+len(decoded) <= ChunkSize:
		copy(d.buf[d.size:], decoded)
		d.size += len(decoded)
	default:
		shift := d.size + len(decoded) - ChunkSize
		copy(d.buf[:], d.buf[shift:d.size])
		copy(d.buf[ChunkSize-len(decoded):], decoded)
		d.size = ChunkSize
	}
}

// unpackBlock inflates a block into expected bytes.
func unpackBlock(block *MipBlock, expected int) ([]byte, error) {
	switch block.Magic {
	case BlockMagicCOPY:
		if len(block.Data) != expected {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, expected, len(block.Data))
		}
		out := make([]byte, len(block.Data))
		copy(out, block.Data)
		return out, nil
	case BlockMagicLZ4:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, block.Magic)
	}

	target := expected
	if block.UncompressedSize > 0 {
		target = int(block.UncompressedSize)
	}
	if target <= 0 {
		return nil, fmt.Errorf("%w: target size %d", ErrDecodedSizeMismatch, target)
	}

	var dict rollingDict
	out := make([]byte, target)
	written := 0
	r := bytes.NewReader(block.Data)

	for {
		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: chunk header: %v", ErrChunkStreamTruncated, err)
		}

		n := int(hdr[0]) | int(hdr[1])<<8 | int(hdr[2])<<16
		flags := hdr[3]
		if flags&^lastChunkFlag != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if n <= 0 || n > r.Len() {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, n, r.Len())
		}

		compressed := make([]byte, n)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, fmt.Errorf("%w: chunk body: %v", ErrChunkStreamTruncated, err)
		}

		if written >= target {
			return nil, ErrDecodeOverrun
		}
		dst := out[written:min(written+ChunkSize, target)]

		got, err := lz4.UncompressBlockWithDict(compressed, dst, dict.bytes())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		dict.push(out[written : written+got])
		written += got

		if flags&lastChunkFlag != 0 {
			break
		}
	}

	if written != target {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, target, written)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, r.Len())
	}

	return out, nil
}

// writeBlockTable writes one {magic, size} entry per block.
func writeBlockTable(w io.Writer, blocks []*MipBlock) error {
	for i, b := range blocks {
		if _, err := io.WriteString(w, b.Magic); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrWriteBlockTable, i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, b.Size); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrWriteBlockTable, i, err)
		}
	}

	return nil
}

// writeBlockBody writes a block body; LZ4 bodies get their uncompressed size
// prefix.
func writeBlockBody(w io.Writer, b *MipBlock) error {
	if b.Magic == BlockMagicLZ4 {
		if err := binary.Write(w, binary.LittleEndian, b.UncompressedSize); err != nil {
			return fmt.Errorf("%w: uncompressed size: %v", ErrWriteBlockData, err)
		}
	}
	if _, err := w.Write(b.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteBlockData, err)
	}

	return nil
}

type blockEntry struct {
	Magic string
	Size  int32
}

func readBlockTable(r io.Reader, count uint32) ([]blockEntry, error) {
	entries := make([]blockEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var raw [8]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrBlockTableRead, i, err)
		}

		magic := string(raw[:4])
		size := int32(binary.LittleEndian.Uint32(raw[4:]))
		if magic != BlockMagicCOPY && magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: entry %d: %q", ErrBlockTableUnknownMagic, i, magic)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: entry %d: %d", ErrBlockTableInvalidSize, i, size)
		}

		entries = append(entries, blockEntry{Magic: magic, Size: size})
	}

	return entries, nil
}

// readBlockBody reads one block body. The uncompressed-size prefix of LZ4
// bodies is moved into UncompressedSize.
func readBlockBody(r io.Reader, e blockEntry) (*MipBlock, error) {
	if e.Magic == BlockMagicLZ4 && e.Size < 4 {
		return nil, fmt.Errorf("%w: LZ4 body of %d bytes", ErrBlockTableInvalidSize, e.Size)
	}

	data := make([]byte, e.Size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBlockBodyRead, e.Magic, err)
	}

	b := &MipBlock{Magic: e.Magic, Size: e.Size, Data: data}
	if e.Magic == BlockMagicLZ4 {
		b.UncompressedSize = int32(binary.LittleEndian.Uint32(data[:4]))
		b.Data = data[4:]
	}

	return b, nil
}
