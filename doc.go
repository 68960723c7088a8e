// Package wchar provides a restartable conversion engine between UTF-8 and
// Unicode code points, with the numeric parsing and character classification
// a C wide-character library builds on top of it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wchar/            Root package with core Memory and Allocator interfaces
//	├── mbconv/       Single-step decode and encode, State, span converters
//	├── numparse/     wcstod, wcstol and wcstoul style numeric parsing
//	├── wctype/       Character classes, case mapping and column width
//	├── wstr/         Wide string and wide memory helpers
//	├── guest/        <wchar.h> host module for WebAssembly guests (wazero)
//	├── errors/       Structured error types for debugging
//	└── cmd/wchar/    Command line tool and interactive explorer
//
// # Quick Start
//
// Decode input that arrives in pieces. A sequence split across calls is
// carried in the State:
//
//	var st mbconv.State
//	for _, chunk := range chunks {
//	    for len(chunk) > 0 {
//	        o := mbconv.DecodeRune(chunk, &st)
//	        chunk = chunk[o.Consumed:]
//	        switch o.Status {
//	        case mbconv.Produced:
//	            fmt.Printf("U+%04X\n", o.Rune)
//	        case mbconv.Invalid:
//	            return o.Err()
//	        }
//	    }
//	}
//
// Parse a number the way wcstod does:
//
//	res := numparse.ParseFloat([]rune("  1e309 rest"))
//	// res.Value == +Inf, res.Consumed == 7, res.Overflow == true
//
// # WebAssembly Guests
//
// The guest package exports the engine to core WebAssembly modules under the
// import module "wchar", using the C calling convention of mbrtowc,
// wcsnrtombs, wcstod, iswctype and friends:
//
//	mod, err := guest.Load(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mod.Close(ctx)
//
//	results, err := mod.Call(ctx, "run")
//
// # Thread Safety
//
// The conversion functions keep no hidden state: everything a restart needs
// lives in the caller's mbconv.State, which must not be shared between
// goroutines without synchronization. A guest.Host is safe for concurrent
// use.
package wchar
