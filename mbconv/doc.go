// Package mbconv converts between the multibyte external encoding (UTF-8)
// and 32-bit code points, one sequence at a time or over whole spans.
//
// # Steps
//
// DecodeRune is the restartable decode step. It takes any prefix of the
// remaining input and a caller-owned State:
//
//	var st mbconv.State
//	o := mbconv.DecodeRune([]byte{0xF0, 0x9F}, &st) // Incomplete, Consumed 2
//	o = mbconv.DecodeRune([]byte{0x8D, 0x8C}, &st)  // Produced U+1F34C, Consumed 2
//
// Feeding fragments one after the other yields the same outcomes as decoding
// the concatenation in one call. EncodeRune is the stateless inverse.
//
// # Spans
//
//	DecodeSpan / DecodeSpanNul    bytes -> code points, bounded by len(dst)
//	EncodeSpan / EncodeSpanNul    code points -> bytes, bounded by len(dst)
//	CountDecoded / CountEncoded   the same walks without output
//
// Every span call stops at the first malformed sequence or unencodable code
// point and reports the prefix it converted.
//
// # Streams
//
// Decoder and Encoder adapt the span converters to golang.org/x/text/transform,
// producing or consuming little-endian 32-bit code units.
//
// # Concurrency
//
// Nothing in this package holds shared state. A State must not be used by two
// calls at once; independent States may be used from any goroutine.
package mbconv
