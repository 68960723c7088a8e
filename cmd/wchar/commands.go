package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"golang.org/x/text/transform"

	"github.com/wippyai/wchar/errors"
	"github.com/wippyai/wchar/guest"
	"github.com/wippyai/wchar/mbconv"
	"github.com/wippyai/wchar/numparse"
	"github.com/wippyai/wchar/wctype"
)

// input returns the arguments joined by spaces, or all of stdin when there
// are none.
func input(args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(strings.Join(args, " ")), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

func runDecode(_ context.Context, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	chunk := fs.Int("chunk", 0, "Feed the decoder n bytes at a time (0 for all at once)")
	nul := fs.Bool("nul", false, "Stop after the first NUL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, err := input(fs.Args())
	if err != nil {
		return err
	}
	size := *chunk
	if size <= 0 {
		size = max(len(src), 1)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	var (
		st    mbconv.State
		dst   = make([]rune, 64)
		count int
	)
	for off := 0; off < len(src); off += size {
		piece := src[off:min(off+size, len(src))]
		base := off
		for len(piece) > 0 {
			var res mbconv.SpanResult
			if *nul {
				res = mbconv.DecodeSpanNul(dst, piece, &st)
			} else {
				res = mbconv.DecodeSpan(dst, piece, &st)
			}
			for _, r := range dst[:res.Produced] {
				fmt.Fprintf(w, "%d\tU+%04X\t%q\n", count, r, r)
				count++
			}

			switch {
			case res.Terminated:
				log.Debug("terminator reached", zap.Int("offset", base+res.Consumed-1))
				return nil
			case res.Status == mbconv.Invalid:
				bad := piece[res.Consumed-res.Rejected : res.Consumed]
				log.Warn("invalid sequence",
					zap.Int("offset", base+res.Consumed-res.Rejected),
					zap.Binary("bytes", bad))
				fmt.Fprintf(w, "-\tinvalid\t% x\n", bad)
			}
			base += res.Consumed
			piece = piece[res.Consumed:]
		}
	}

	if !st.IsIdle() {
		return errors.Incomplete(errors.PhaseDecode, len(src), st.Pending())
	}
	return nil
}

func runEncode(_ context.Context, _ *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	hex := fs.Bool("hex", false, "Print the bytes in hex")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var out []byte
	for _, arg := range fs.Args() {
		r, err := parseCodePoint(arg)
		if err != nil {
			return err
		}
		if out, err = mbconv.AppendRune(out, r); err != nil {
			return err
		}
	}

	if *hex {
		fmt.Printf("% x\n", out)
		return nil
	}
	_, err := os.Stdout.Write(out)
	return err
}

// parseCodePoint accepts U+XXXX or bare hex.
func parseCodePoint(s string) (rune, error) {
	digits := []rune(s)
	if len(digits) > 2 && (digits[0] == 'U' || digits[0] == 'u') && digits[1] == '+' {
		digits = digits[2:]
	}
	res, err := numparse.ParseUint(digits, 16)
	if err != nil {
		return 0, err
	}
	if res.Consumed == 0 || res.Consumed != len(digits) || res.Value > math.MaxInt32 {
		return 0, errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("bad code point %q", s))
	}
	return rune(res.Value), nil
}

func runUTF32(_ context.Context, _ *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("utf32", flag.ContinueOnError)
	reverse := fs.Bool("reverse", false, "Convert UTF-32LE back to UTF-8")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var t transform.Transformer = mbconv.NewDecoder()
	if *reverse {
		t = mbconv.NewEncoder()
	}
	_, err := io.Copy(os.Stdout, transform.NewReader(os.Stdin, t))
	return err
}

func runParseFloat(_ context.Context, log *zap.Logger, args []string) error {
	text := []rune(strings.Join(args, " "))
	res := numparse.ParseFloat(text)

	fmt.Printf("value\t%g\n", res.Value)
	fmt.Printf("consumed\t%d\n", res.Consumed)
	fmt.Printf("rest\t%q\n", string(text[res.Consumed:]))
	if err := res.Err(); err != nil {
		log.Info("range error", zap.Error(err))
		fmt.Println("errno\tERANGE")
	}
	return nil
}

func runParseInt(_ context.Context, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("parse-int", flag.ContinueOnError)
	base := fs.Int("base", 0, "Base 2 to 36, or 0 to detect from the prefix")
	unsigned := fs.Bool("unsigned", false, "Parse as unsigned (wcstoul)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := []rune(strings.Join(fs.Args(), " "))

	var (
		consumed int
		rangeErr error
	)
	if *unsigned {
		res, err := numparse.ParseUint(text, *base)
		if err != nil {
			return err
		}
		fmt.Printf("value\t%d\n", res.Value)
		consumed, rangeErr = res.Consumed, res.Err()
	} else {
		res, err := numparse.ParseInt(text, *base)
		if err != nil {
			return err
		}
		fmt.Printf("value\t%d\n", res.Value)
		consumed, rangeErr = res.Consumed, res.Err()
	}

	fmt.Printf("consumed\t%d\n", consumed)
	fmt.Printf("rest\t%q\n", string(text[consumed:]))
	if rangeErr != nil {
		log.Info("range error", zap.Error(rangeErr))
		fmt.Println("errno\tERANGE")
	}
	return nil
}

func runClassify(_ context.Context, _ *zap.Logger, args []string) error {
	src, err := input(args)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	var st mbconv.State
	for off := 0; off < len(src); {
		o := mbconv.DecodeRune(src[off:], &st)
		if o.Status != mbconv.Produced {
			if err := o.Err(); err != nil {
				return fmt.Errorf("offset %d: %w", off, err)
			}
			break
		}
		off += o.Consumed
		fmt.Fprintln(w, describe(o.Rune))
	}
	return nil
}

// describe formats one line of classify output.
func describe(r rune) string {
	var classes []string
	for _, c := range wctype.Classes {
		if wctype.Is(r, c) {
			classes = append(classes, c.String())
		}
	}
	return fmt.Sprintf("U+%04X\t%q\twidth=%d\tupper=U+%04X\tlower=U+%04X\t%s",
		r, r, wctype.Width(r), wctype.ToUpper(r), wctype.ToLower(r), strings.Join(classes, ","))
}

func runGuest(ctx context.Context, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	funcName := fs.String("func", "run", "Export to call")
	narrow := fs.Bool("narrow", false, "Pass string arguments as char* instead of wchar_t*")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.InvalidInput(errors.PhaseLoad, "missing module path")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	mod, err := guest.Load(ctx, data, guest.WithLogger(log))
	if err != nil {
		return err
	}
	defer mod.Close(ctx)

	fn, err := mod.Func(*funcName)
	if err != nil {
		return err
	}
	def := fn.Definition()
	params := def.ParamTypes()
	callArgs := fs.Args()[1:]
	if len(callArgs) != len(params) {
		return errors.InvalidInput(errors.PhaseHost,
			fmt.Sprintf("%s takes %d argument(s), got %d", *funcName, len(params), len(callArgs)))
	}

	a := &argLowerer{ctx: ctx, mod: mod, narrow: *narrow}
	values := make([]uint64, len(params))
	for i, p := range params {
		if values[i], err = a.lower(callArgs[i], p); err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
	}

	log.Debug("calling export", zap.String("func", *funcName), zap.Int("args", len(values)))
	results, err := mod.Call(ctx, *funcName, values...)
	if err != nil {
		return err
	}
	for i, t := range def.ResultTypes() {
		fmt.Println(liftResult(results[i], t))
	}
	return nil
}

// argLowerer turns command-line arguments into wasm values. Numeric text
// becomes a number; anything else passed to an i32 parameter is copied into
// guest memory as a terminated string and passed by address.
type argLowerer struct {
	ctx    context.Context
	mod    *guest.Module
	alloc  *guest.Allocator
	narrow bool
}

func (a *argLowerer) lower(arg string, t api.ValueType) (uint64, error) {
	text := []rune(arg)
	switch t {
	case api.ValueTypeI32, api.ValueTypeI64:
		res, err := numparse.ParseInt(text, 0)
		if err == nil && res.Consumed == len(text) && len(text) > 0 {
			if t == api.ValueTypeI64 {
				return api.EncodeI64(res.Value), nil
			}
			return api.EncodeI32(int32(res.Value)), nil
		}
		if t == api.ValueTypeI64 {
			return 0, errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("bad i64 %q", arg))
		}
		ptr, err := a.writeString(text)
		return api.EncodeU32(ptr), err
	case api.ValueTypeF32, api.ValueTypeF64:
		res := numparse.ParseFloat(text)
		if res.Consumed != len(text) || len(text) == 0 {
			return 0, errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("bad float %q", arg))
		}
		if t == api.ValueTypeF32 {
			return api.EncodeF32(float32(res.Value)), nil
		}
		return api.EncodeF64(res.Value), nil
	}
	return 0, errors.InvalidInput(errors.PhaseHost, "unsupported parameter type "+api.ValueTypeName(t))
}

func (a *argLowerer) writeString(s []rune) (uint32, error) {
	mem := a.mod.Memory()
	if mem == nil {
		return 0, errors.NotFound(errors.PhaseHost, "memory export", "memory")
	}
	if a.alloc == nil {
		alloc, err := a.mod.Allocator(a.ctx)
		if err != nil {
			return 0, err
		}
		a.alloc = alloc
	}
	if a.narrow {
		buf, err := encodeString(s)
		if err != nil {
			return 0, err
		}
		return guest.WriteString(mem, a.alloc, buf)
	}
	return guest.WriteWideString(mem, a.alloc, s)
}

func encodeString(s []rune) ([]byte, error) {
	res := mbconv.CountEncoded(s)
	if res.Status == mbconv.Invalid {
		return nil, errors.InvalidCodePoint(errors.PhaseEncode, s[res.Consumed])
	}
	buf := make([]byte, res.Produced)
	mbconv.EncodeSpan(buf, s, nil)
	return buf, nil
}

func liftResult(v uint64, t api.ValueType) string {
	switch t {
	case api.ValueTypeI32:
		return fmt.Sprintf("%d", api.DecodeI32(v))
	case api.ValueTypeI64:
		return fmt.Sprintf("%d", int64(v))
	case api.ValueTypeF32:
		return fmt.Sprintf("%g", api.DecodeF32(v))
	case api.ValueTypeF64:
		return fmt.Sprintf("%g", api.DecodeF64(v))
	}
	return fmt.Sprintf("%#x", v)
}
