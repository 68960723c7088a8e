package wctype

import "unicode"

// Class is a character class as named by wctype(3). The zero Class matches
// nothing.
type Class uint8

const (
	Alnum Class = iota + 1
	Alpha
	Blank
	Cntrl
	Digit
	Graph
	Lower
	Print
	Punct
	Space
	Upper
	XDigit
)

var classNames = [...]string{
	Alnum:  "alnum",
	Alpha:  "alpha",
	Blank:  "blank",
	Cntrl:  "cntrl",
	Digit:  "digit",
	Graph:  "graph",
	Lower:  "lower",
	Print:  "print",
	Punct:  "punct",
	Space:  "space",
	Upper:  "upper",
	XDigit: "xdigit",
}

// Classes lists every defined class in name order.
var Classes = []Class{Alnum, Alpha, Blank, Cntrl, Digit, Graph, Lower, Print, Punct, Space, Upper, XDigit}

func (c Class) String() string {
	if c == 0 || int(c) >= len(classNames) {
		return "invalid"
	}
	return classNames[c]
}

// Lookup returns the class with the given name.
func Lookup(name string) (Class, bool) {
	for _, c := range Classes {
		if classNames[c] == name {
			return c, true
		}
	}
	return 0, false
}

// Is reports whether r belongs to class c. Code points outside the valid
// range belong to no class.
func Is(r rune, c Class) bool {
	if r < 0 || r > unicode.MaxRune {
		return false
	}
	switch c {
	case Alnum:
		return isAlpha(r) || isDigit(r)
	case Alpha:
		return isAlpha(r)
	case Blank:
		return r == '\t' || (unicode.Is(unicode.Zs, r) && !noBreak(r))
	case Cntrl:
		return unicode.IsControl(r) || r == 0x2028 || r == 0x2029
	case Digit:
		return isDigit(r)
	case Graph:
		return isGraph(r)
	case Lower:
		return unicode.IsLower(r)
	case Print:
		return unicode.IsGraphic(r)
	case Punct:
		return isGraph(r) && !isAlpha(r) && !isDigit(r)
	case Space:
		return IsSpace(r)
	case Upper:
		return unicode.IsUpper(r)
	case XDigit:
		return isDigit(r) || (r|0x20 >= 'a' && r|0x20 <= 'f')
	}
	return false
}

// IsSpace is Is(r, Space). No-break spaces are not white space.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) && !noBreak(r)
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isGraph(r rune) bool {
	return unicode.IsGraphic(r) && !unicode.IsSpace(r)
}

func noBreak(r rune) bool {
	return r == 0xA0 || r == 0x2007 || r == 0x202F
}
