// Package pointer implements JSON Pointers (RFC 6901) addressing values
// inside a document.
//
// A Pointer is the list of unescaped reference tokens from the document
// root.  Both "" and "/" denote the root.
//
//	p, err := pointer.Parse("/a~1b/0")  // Pointer{"a/b", "0"}
//	p.String()                         // "/a~1b/0"
package pointer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EndToken is the array token meaning one past the last element.
const EndToken = "-"

var (
	ErrSyntax = errors.New("malformed json pointer")
	ErrIndex  = errors.New("malformed array index")
	ErrRange  = errors.New("array index out of range")
)

// Pointer is a sequence of unescaped reference tokens.  The zero value
// is the root.
type Pointer []string

// Root is the pointer to the whole document.
var Root = Pointer(nil)

// Parse parses the string form of a pointer.
func Parse(s string) (Pointer, error) {
	if s == "" || s == "/" {
		return Root, nil
	}
	if s[0] != '/' {
		return nil, fmt.Errorf("%w %q: must start with '/'", ErrSyntax, s)
	}
	parts := strings.Split(s[1:], "/")
	res := make(Pointer, len(parts))
	for i, part := range parts {
		tok, err := Unescape(part)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrSyntax, s, err)
		}
		res[i] = tok
	}
	return res, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Pointer {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range p {
		b.WriteByte('/')
		b.WriteString(Escape(tok))
	}
	return b.String()
}

func (p Pointer) IsRoot() bool { return len(p) == 0 }

// Append returns a new pointer extending p with tok.  p is not modified.
func (p Pointer) Append(tok string) Pointer {
	res := make(Pointer, len(p), len(p)+1)
	copy(res, p)
	return append(res, tok)
}

func (p Pointer) AppendIndex(i int) Pointer {
	return p.Append(strconv.Itoa(i))
}

// Parent returns the pointer to the container of p.  The parent of the
// root is the root.
func (p Pointer) Parent() Pointer {
	if len(p) == 0 {
		return Root
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the last token of p, or "" for the root.
func (p Pointer) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Equal reports whether p and q address the same location.
func (p Pointer) Equal(q Pointer) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether q lies strictly below p.
func (p Pointer) IsAncestorOf(q Pointer) bool {
	if len(p) >= len(q) {
		return false
	}
	return p.Equal(q[:len(p)])
}

// Escape encodes a reference token: '~' becomes "~0" and '/' becomes
// "~1".
func Escape(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		switch c := tok[i]; c {
		case '~':
			b.WriteString("~0")
		case '/':
			b.WriteString("~1")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape decodes a single reference token.  Escapes are decoded in one
// left to right pass, so "~01" is "~1" and never "/".
func Unescape(tok string) (string, error) {
	if strings.IndexByte(tok, '~') == -1 {
		return tok, nil
	}
	var b strings.Builder
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c != '~' {
			b.WriteByte(c)
			continue
		}
		if i+1 == len(tok) {
			return "", fmt.Errorf("dangling '~' in %q", tok)
		}
		i++
		switch tok[i] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", fmt.Errorf("bad escape '~%c' in %q", tok[i], tok)
		}
	}
	return b.String(), nil
}

// ArrayIndex interprets tok as an index into an array of length n.
// Indices are decimal without leading zeros, else ErrIndex.  When
// allowEnd is set, the EndToken and n itself are accepted, addressing the
// append position; otherwise the index must be in [0, n), else ErrRange.
func ArrayIndex(tok string, n int, allowEnd bool) (int, error) {
	if tok == EndToken {
		if allowEnd {
			return n, nil
		}
		return 0, fmt.Errorf("%w: %q does not address an element", ErrRange, tok)
	}
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, fmt.Errorf("%w: %q", ErrIndex, tok)
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrIndex, tok)
		}
	}
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrRange, tok)
	}
	max := n - 1
	if allowEnd {
		max = n
	}
	if i > max {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrRange, i, n)
	}
	return i, nil
}
