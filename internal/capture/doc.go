// Package capture decodes the venue's historical capture file format.
//
// A capture file is a 4-byte little-endian int32 uncompressed block length,
// followed by LZ4 blocks: each a 4-byte int32 compressed length and that many
// bytes of raw LZ4 block data expanding to exactly the fixed uncompressed
// length. A zero compressed length or end of file terminates the stream.
//
// Within a decompressed block, frames sit back to back. Every frame starts
// with int16 type and int16 length; the declared length is authoritative for
// advancing, including over unrecognized frame types.
//
// All integer fields are little-endian. The format does not self-describe its
// byte order; captures are written by x86 hosts with native packing.
package capture
