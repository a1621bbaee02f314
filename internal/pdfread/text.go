package pdfread

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// font turns shown strings into text.
type font struct {
	width int               // code length in bytes
	chars map[string]string // code -> text, from ToUnicode
}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func (f *font) decode(b []byte) string {
	if f == nil || len(f.chars) == 0 {
		var sb strings.Builder
		for _, c := range b {
			sb.WriteRune(charmap.Windows1252.DecodeByte(c))
		}
		return sb.String()
	}
	var sb strings.Builder
	for i := 0; i < len(b); i += f.width {
		end := min(i+f.width, len(b))
		if s, ok := f.chars[string(b[i:end])]; ok {
			sb.WriteString(s)
		} else if f.width == 1 {
			sb.WriteRune(charmap.Windows1252.DecodeByte(b[i]))
		}
	}
	return sb.String()
}

func (d *Document) fonts(p *Page) map[string]*font {
	out := map[string]*font{}
	res := d.Resolve(p.Dict["Resources"])
	if res.Kind != KindDict {
		return out
	}
	for name, ref := range d.Resolve(res.Dict["Font"]).Dict {
		fd := d.Resolve(ref)
		if fd.Kind != KindDict {
			continue
		}
		f := &font{width: 1}
		if sub, _ := fd.Dict.Name("Subtype"); sub == "Type0" {
			f.width = 2
		}
		if cm := d.Resolve(fd.Dict["ToUnicode"]); cm.Kind == KindStream {
			if data, err := d.decode(cm); err == nil {
				f.readCMap(data)
			}
		}
		out[name] = f
	}
	return out
}

// readCMap loads the bfchar and bfrange sections of a ToUnicode CMap.
func (f *font) readCMap(data []byte) {
	f.chars = map[string]string{}
	s := newScanner(data, 0)
	var args []*Object
	for !s.eof() {
		o, err := s.object()
		if err != nil {
			return
		}
		if o.Kind != KindName || o.Name != "" {
			args = append(args, o)
			continue
		}
		switch string(o.Str) {
		case "endcodespacerange":
			if len(args) > 0 && len(args[0].Str) > 0 {
				f.width = len(args[0].Str)
			}
		case "endbfchar":
			for i := 0; i+1 < len(args); i += 2 {
				f.chars[string(args[i].Str)] = utf16Text(args[i+1].Str)
			}
		case "endbfrange":
			for i := 0; i+2 < len(args); i += 3 {
				f.addRange(args[i].Str, args[i+1].Str, args[i+2])
			}
		}
		args = args[:0]
	}
}

func (f *font) addRange(lo, hi []byte, dst *Object) {
	if len(lo) == 0 || len(lo) != len(hi) {
		return
	}
	from, to := code(lo), code(hi)
	if to < from || to-from > 0xFFFF {
		return
	}
	key := func(c uint32) string {
		b := make([]byte, len(lo))
		for i := len(b) - 1; i >= 0; i-- {
			b[i] = byte(c)
			c >>= 8
		}
		return string(b)
	}
	for c := from; c <= to; c++ {
		n := int(c - from)
		switch dst.Kind {
		case KindArray:
			if n < len(dst.Array) {
				f.chars[key(c)] = utf16Text(dst.Array[n].Str)
			}
		case KindString:
			if len(dst.Str) < 2 {
				continue
			}
			u := append([]byte(nil), dst.Str...)
			last := uint16(u[len(u)-2])<<8 | uint16(u[len(u)-1])
			last += uint16(n)
			u[len(u)-2], u[len(u)-1] = byte(last>>8), byte(last)
			f.chars[key(c)] = utf16Text(u)
		}
	}
}

func code(b []byte) uint32 {
	var c uint32
	for _, x := range b {
		c = c<<8 | uint32(x)
	}
	return c
}

func utf16Text(b []byte) string {
	s, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(s)
}

// Text extracts the text shown on p. Every text object and every explicit
// line move starts a new line; empty lines are dropped.
func (d *Document) Text(p *Page) (string, error) {
	content, err := d.Content(p)
	if err != nil {
		return "", err
	}
	fonts := d.fonts(p)

	var lines []string
	var line strings.Builder
	flush := func() {
		if t := strings.TrimRight(line.String(), " "); t != "" {
			lines = append(lines, t)
		}
		line.Reset()
	}

	var cur *font
	var args []*Object
	s := newScanner(content, 0)
	for !s.eof() {
		o, err := s.object()
		if err != nil {
			return "", err
		}
		if o.Kind != KindName || o.Name != "" {
			args = append(args, o)
			continue
		}
		switch string(o.Str) {
		case "BT", "ET", "T*":
			flush()
		case "Td", "TD":
			if len(args) == 2 && args[1].Num != 0 {
				flush()
			}
		case "Tf":
			if len(args) > 0 {
				cur = fonts[args[0].Name]
			}
		case "Tj":
			if len(args) > 0 {
				line.WriteString(cur.decode(args[len(args)-1].Str))
			}
		case "'", "\"":
			flush()
			if len(args) > 0 {
				line.WriteString(cur.decode(args[len(args)-1].Str))
			}
		case "TJ":
			if len(args) == 0 {
				break
			}
			for _, el := range args[len(args)-1].Array {
				switch el.Kind {
				case KindString:
					line.WriteString(cur.decode(el.Str))
				case KindNumber:
					if el.Num < -200 {
						line.WriteByte(' ')
					}
				}
			}
		case "ID":
			// Inline image data runs up to the EI operator.
			if i := bytes.Index(content[s.off:], []byte("EI")); i >= 0 {
				s.off += i + 2
			} else {
				s.off = len(content)
			}
		}
		args = args[:0]
	}
	flush()
	return strings.Join(lines, "\n"), nil
}
