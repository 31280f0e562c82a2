/*
Package texsurf describes texture surface formats and reads and writes the
DDS-style container that persists processed textures.

The format registry lists every supported pixel and block format with its
block geometry, alpha layout and header codes. ResolveFinalFormat picks the
alpha or alpha-stripped sibling of a format, MaxMipCount computes the longest
legal mip chain (cubemap layouts are reduced to one face first) and the
header codec builds and parses the 124-byte primary header and the optional
20-byte extended header.

The primary header is a standard DDS header whose reserved fields carry
extra metadata when tagged "TXF1": image flags, persistent mip count, colour
range and average brightness.

Files store the headers followed by a block table and one block body per
mip level (smallest to largest). Blocks are uncompressed (COPY) or LZ4
chunk-stream compressed with a rolling 64KB dictionary.
*/
package texsurf
