package pdfread

import (
	"bytes"
	"compress/zlib"
	"encoding/ascii85"
	"fmt"
	"io"
)

// maxStreamSize bounds the decoded size of a single stream.
const maxStreamSize = 64 << 20

// decode applies the stream's filter chain.
func (d *Document) decode(s *Object) ([]byte, error) {
	f := d.Resolve(s.Dict["Filter"])
	var names []string
	switch f.Kind {
	case KindName:
		names = []string{f.Name}
	case KindArray:
		for _, o := range f.Array {
			names = append(names, d.Resolve(o).Name)
		}
	}

	data := s.Stream
	for _, name := range names {
		var err error
		switch name {
		case "FlateDecode", "Fl":
			data, err = inflate(data)
		case "ASCIIHexDecode", "AHx":
			if i := bytes.IndexByte(data, '>'); i >= 0 {
				data = data[:i]
			}
			data = hexBytes(data)
		case "ASCII85Decode", "A85":
			data, err = decode85(data)
		default:
			err = fmt.Errorf("unsupported filter %s", name)
		}
		if err != nil {
			return nil, fmt.Errorf("pdfread: %w", err)
		}
	}
	return data, nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, maxStreamSize+1))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	if len(out) > maxStreamSize {
		return nil, fmt.Errorf("inflate: stream exceeds %d bytes", maxStreamSize)
	}
	return out, nil
}

func decode85(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	data = bytes.TrimPrefix(data, []byte("<~"))
	if i := bytes.Index(data, []byte("~>")); i >= 0 {
		data = data[:i]
	}
	out := make([]byte, 4*len(data)+4)
	n, _, err := ascii85.Decode(out, data, true)
	if err != nil {
		return nil, fmt.Errorf("ascii85: %w", err)
	}
	return out[:n], nil
}
