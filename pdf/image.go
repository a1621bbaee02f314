package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"strconv"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// imageNode is a decoded image scaled to its bounding box.
type imageNode struct {
	name   string
	data   []byte
	typ    string // gofpdf image type
	width  float64
	height float64
}

// normalizeImage prepares data for the engine. JPEG passes through; every
// other format is decoded and re-encoded as 8-bit PNG.
func normalizeImage(data []byte) ([]byte, string, image.Config, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", cfg, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", cfg, errors.New("image has no pixels")
	}
	if format == "jpeg" {
		return data, "jpg", cfg, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", cfg, err
	}
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, "", cfg, err
	}
	return buf.Bytes(), "png", cfg, nil
}

// scaleToFit returns w x h scaled by the largest factor that keeps it
// inside maxW x maxH. Small images are enlarged.
func scaleToFit(w, h, maxW, maxH float64) (float64, float64) {
	f := math.Min(maxW/w, maxH/h)
	return w * f, h * f
}

func (d *Document) newImage(data []byte, maxWidth, maxHeight float64) (*imageNode, error) {
	if !positive(maxWidth) || !positive(maxHeight) {
		return nil, invalidArg("image box %vx%v", maxWidth, maxHeight)
	}
	norm, typ, cfg, err := normalizeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", ErrInvalidArgument, err)
	}
	w, h := scaleToFit(float64(cfg.Width), float64(cfg.Height), maxWidth, maxHeight)
	d.images++
	return &imageNode{
		name:   "img" + strconv.Itoa(d.images),
		data:   norm,
		typ:    typ,
		width:  w,
		height: h,
	}, nil
}
