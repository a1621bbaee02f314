package pdfread

import (
	"bytes"
	"errors"
	"strconv"
)

const maxDepth = 64

var errTooDeep = errors.New("pdfread: objects nested too deeply")

// scanner parses PDF objects from a byte slice. It is also used for
// content streams, where bare keywords are operators.
type scanner struct {
	buf   []byte
	off   int
	depth int

	// resolve, when set, is used to look up indirect stream lengths.
	resolve func(*Object) *Object
}

func newScanner(buf []byte, off int) *scanner {
	return &scanner{buf: buf, off: off}
}

func isSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *scanner) eof() bool {
	return s.off >= len(s.buf)
}

// skip moves past white space and comments.
func (s *scanner) skip() {
	for s.off < len(s.buf) {
		c := s.buf[s.off]
		switch {
		case c == '%':
			for s.off < len(s.buf) && s.buf[s.off] != '\n' && s.buf[s.off] != '\r' {
				s.off++
			}
		case isSpace(c):
			s.off++
		default:
			return
		}
	}
}

// keyword consumes kw if it comes next.
func (s *scanner) keyword(kw string) bool {
	s.skip()
	if !bytes.HasPrefix(s.buf[s.off:], []byte(kw)) {
		return false
	}
	s.off += len(kw)
	return true
}

// token returns the run of regular characters at the current offset.
func (s *scanner) token() string {
	s.skip()
	start := s.off
	for s.off < len(s.buf) && !isSpace(s.buf[s.off]) && !isDelimiter(s.buf[s.off]) {
		s.off++
	}
	return string(s.buf[start:s.off])
}

// object parses the next value. Unknown bare words come back as a KindName
// object with an empty Name and the word in Str, which lets content
// stream callers treat them as operators.
func (s *scanner) object() (*Object, error) {
	if s.depth > maxDepth {
		return nil, errTooDeep
	}
	s.depth++
	defer func() { s.depth-- }()

	s.skip()
	if s.eof() {
		return null, nil
	}
	switch c := s.buf[s.off]; {
	case c == '(':
		return s.literal(), nil
	case c == '<' && s.off+1 < len(s.buf) && s.buf[s.off+1] == '<':
		return s.dict()
	case c == '<':
		return s.hex(), nil
	case c == '/':
		return &Object{Kind: KindName, Name: s.name()}, nil
	case c == '[':
		return s.array()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return s.number(), nil
	case c == ']' || c == '>' || c == ')' || c == '{' || c == '}':
		s.off++
		return null, nil
	}

	word := s.token()
	switch word {
	case "null":
		return null, nil
	case "true":
		return &Object{Kind: KindBool, Bool: true}, nil
	case "false":
		return &Object{Kind: KindBool}, nil
	}
	return &Object{Kind: KindName, Str: []byte(word)}, nil
}

func (s *scanner) literal() *Object {
	s.off++
	var out bytes.Buffer
	nest := 1
	for s.off < len(s.buf) {
		c := s.buf[s.off]
		s.off++
		switch c {
		case '(':
			nest++
		case ')':
			nest--
			if nest == 0 {
				return &Object{Kind: KindString, Str: out.Bytes()}
			}
		case '\\':
			if s.eof() {
				continue
			}
			e := s.buf[s.off]
			s.off++
			switch e {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b':
				out.WriteByte('\b')
			case 'f':
				out.WriteByte('\f')
			case '\r':
				if !s.eof() && s.buf[s.off] == '\n' {
					s.off++
				}
			case '\n':
			default:
				if e < '0' || e > '7' {
					out.WriteByte(e)
					continue
				}
				v := int(e - '0')
				for i := 0; i < 2 && !s.eof() && s.buf[s.off] >= '0' && s.buf[s.off] <= '7'; i++ {
					v = v*8 + int(s.buf[s.off]-'0')
					s.off++
				}
				out.WriteByte(byte(v))
			}
			continue
		}
		out.WriteByte(c)
	}
	return &Object{Kind: KindString, Str: out.Bytes()}
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// hexBytes decodes hex digits, ignoring anything else. An odd final digit
// is padded with zero.
func hexBytes(src []byte) []byte {
	var out []byte
	var hi byte
	odd := false
	for _, c := range src {
		v, ok := unhex(c)
		if !ok {
			continue
		}
		if odd {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		odd = !odd
	}
	if odd {
		out = append(out, hi<<4)
	}
	return out
}

func (s *scanner) hex() *Object {
	s.off++
	end := bytes.IndexByte(s.buf[s.off:], '>')
	if end < 0 {
		end = len(s.buf) - s.off
	}
	str := hexBytes(s.buf[s.off : s.off+end])
	s.off += end + 1
	return &Object{Kind: KindString, Str: str}
}

func (s *scanner) name() string {
	s.off++
	start := s.off
	for s.off < len(s.buf) && !isSpace(s.buf[s.off]) && !isDelimiter(s.buf[s.off]) {
		s.off++
	}
	raw := s.buf[start:s.off]
	if bytes.IndexByte(raw, '#') < 0 {
		return string(raw)
	}
	var out []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' && i+2 < len(raw) {
			hi, ok1 := unhex(raw[i+1])
			lo, ok2 := unhex(raw[i+2])
			if ok1 && ok2 {
				out = append(out, hi<<4|lo)
				i += 2
				continue
			}
		}
		out = append(out, raw[i])
	}
	return string(out)
}

func (s *scanner) array() (*Object, error) {
	s.off++
	arr := &Object{Kind: KindArray}
	for {
		s.skip()
		if s.eof() {
			return arr, nil
		}
		if s.buf[s.off] == ']' {
			s.off++
			return arr, nil
		}
		o, err := s.object()
		if err != nil {
			return nil, err
		}
		arr.Array = append(arr.Array, o)
	}
}

func (s *scanner) dict() (*Object, error) {
	s.off += 2
	d := Dict{}
	for {
		s.skip()
		if s.eof() {
			break
		}
		if bytes.HasPrefix(s.buf[s.off:], []byte(">>")) {
			s.off += 2
			break
		}
		if s.buf[s.off] != '/' {
			s.off++
			continue
		}
		key := s.name()
		v, err := s.object()
		if err != nil {
			return nil, err
		}
		d[key] = v
	}

	save := s.off
	if !s.keyword("stream") {
		s.off = save
		return &Object{Kind: KindDict, Dict: d}, nil
	}
	if !s.eof() && s.buf[s.off] == '\r' {
		s.off++
	}
	if !s.eof() && s.buf[s.off] == '\n' {
		s.off++
	}

	start := s.off
	n := -1
	if l, ok := d["Length"]; ok {
		if l.Kind == KindRef && s.resolve != nil {
			l = s.resolve(l)
		}
		if l.Kind == KindNumber {
			n = int(l.Num)
		}
	}
	if n < 0 || start+n > len(s.buf) {
		n = bytes.Index(s.buf[start:], []byte("endstream"))
		if n < 0 {
			n = len(s.buf) - start
		}
	}
	s.off = start + n
	s.keyword("endstream")
	return &Object{Kind: KindStream, Dict: d, Stream: s.buf[start : start+n]}, nil
}

// number parses a number or an "N G R" reference.
func (s *scanner) number() *Object {
	word := s.token()
	f, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return null
	}
	num, err := strconv.Atoi(word)
	if err != nil {
		return &Object{Kind: KindNumber, Num: f}
	}

	save := s.off
	gen, err := strconv.Atoi(s.token())
	if err == nil {
		s.skip()
		if s.off < len(s.buf) && s.buf[s.off] == 'R' &&
			(s.off+1 == len(s.buf) || isSpace(s.buf[s.off+1]) || isDelimiter(s.buf[s.off+1])) {
			s.off++
			return &Object{Kind: KindRef, Ref: Reference{Number: num, Gen: gen}}
		}
	}
	s.off = save
	return &Object{Kind: KindNumber, Num: f}
}
