// Package guest links the conversion engine into WebAssembly guests.
//
// A Host is a wazero host module, named "wchar" by default, whose exports
// follow the C signatures of the multibyte and wide-character functions of
// <wchar.h> and <wctype.h> on wasm32:
//
//	(import "wchar" "mbrtowc"    (func (param $pwc i32) (param $s i32) (param $n i32) (param $ps i32) (result i32)))
//	(import "wchar" "wcrtomb"    (func (param $s i32) (param $wc i32) (param $ps i32) (result i32)))
//	(import "wchar" "mbsnrtowcs" (func (param $dst i32) (param $src i32) (param $nms i32) (param $len i32) (param $ps i32) (result i32)))
//	(import "wchar" "wcstod"     (func (param $nptr i32) (param $endptr i32) (param $errp i32) (result f64)))
//
// Pointers are offsets into the caller's memory, wchar_t is 4 bytes and
// mbstate_t is 8 bytes: a little-endian count of pending bytes followed by
// the pending bytes themselves. A null mbstate_t pointer selects the host's
// internal state for that function. Functions that set errno in C store it
// through an explicit error pointer instead.
//
// Accesses outside guest memory trap the guest.
//
// Load instantiates a guest module together with the host module and WASI
// preview1, for tools that drive guests directly.
package guest
