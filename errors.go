package texsurf

import "errors"

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrUnsupportedFormat indicates the format cannot be expressed in the requested header.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnrecognizedFormat indicates a header format code matches no known format.
	ErrUnrecognizedFormat = errors.New("unrecognized format")
	// ErrInvalidGeometry indicates dimensions or dimensionality the header cannot carry.
	ErrInvalidGeometry = errors.New("invalid surface geometry")
	// ErrUnsupportedDimension indicates an extended header resource dimension other than 2D or 3D.
	ErrUnsupportedDimension = errors.New("unsupported resource dimension")
	// ErrHeaderContract indicates a built header failed its consistency checks.
	ErrHeaderContract = errors.New("header consistency check failed")
	// ErrRegistryContract indicates a malformed format registry.
	ErrRegistryContract = errors.New("malformed format registry")
	// ErrHeaderTruncated indicates too few bytes for a header.
	ErrHeaderTruncated = errors.New("header truncated")
	// ErrInvalidHeaderSize indicates a primary header declaring a size other than 124.
	ErrInvalidHeaderSize = errors.New("invalid declared header size")
	// ErrBadMagic indicates the file does not start with the container magic.
	ErrBadMagic = errors.New("bad container magic")
	// ErrNoEncoder indicates the format has no pixel encoder.
	ErrNoEncoder = errors.New("no encoder for format")
	// ErrNoDecoder indicates the format has no pixel decoder.
	ErrNoDecoder = errors.New("no decoder for format")
	// ErrEmptyMipmaps indicates missing mipmap data.
	ErrEmptyMipmaps = errors.New("empty mipmaps")
	// ErrMipmapSizeMismatch indicates mipmap payload size mismatch.
	ErrMipmapSizeMismatch = errors.New("mipmap size mismatch")
	// ErrInputTooLarge indicates input data is too large to encode.
	ErrInputTooLarge = errors.New("input data too large")
	// ErrCompressedDataTooLarge indicates compressed payload exceeds limits.
	ErrCompressedDataTooLarge = errors.New("compressed data too large")
	// ErrChunkTooLarge indicates a compressed chunk exceeds allowed size.
	ErrChunkTooLarge = errors.New("compressed chunk too large")
	// ErrLZ4Compress indicates LZ4 compression failed.
	ErrLZ4Compress = errors.New("LZ4 compression failed")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrChunkStreamTruncated indicates LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrDecodeOverrun indicates decoded data overruns target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockLengthMismatch indicates leftover bytes after decode.
	ErrBlockLengthMismatch = errors.New("LZ4 block length mismatch")
	// ErrBlockTableRead indicates reading a block table entry failed.
	ErrBlockTableRead = errors.New("reading block table failed")
	// ErrBlockTableUnknownMagic indicates unknown block magic in table.
	ErrBlockTableUnknownMagic = errors.New("unknown block magic in table")
	// ErrBlockTableInvalidSize indicates invalid size in block table.
	ErrBlockTableInvalidSize = errors.New("invalid block size in table")
	// ErrBlockBodyRead indicates block body read failed.
	ErrBlockBodyRead = errors.New("reading block body failed")
	// ErrHeaderRead indicates reading the container headers failed.
	ErrHeaderRead = errors.New("reading header failed")
	// ErrOpenFile indicates file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrDecodeImage indicates image decode failed.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrEncodeMipmap indicates encoding a mipmap failed.
	ErrEncodeMipmap = errors.New("encode mipmap failed")
	// ErrCompressMipmap indicates mipmap compression failed.
	ErrCompressMipmap = errors.New("compress mipmap failed")
	// ErrDecompressBlock indicates block decompression failed.
	ErrDecompressBlock = errors.New("decompress block failed")
	// ErrSkipBlockBody indicates skipping block body failed.
	ErrSkipBlockBody = errors.New("skip block body failed")
	// ErrWriteHeader indicates writing the container headers failed.
	ErrWriteHeader = errors.New("writing header failed")
	// ErrWriteBlockTable indicates writing the block table failed.
	ErrWriteBlockTable = errors.New("writing block table failed")
	// ErrWriteBlockData indicates block data write failed.
	ErrWriteBlockData = errors.New("writing block data failed")
)
