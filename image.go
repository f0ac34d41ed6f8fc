package decor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// NormalizedExt is the extension of the target encoding every stored image
// ends up in. A filename already carrying it is the pipeline's signal that
// the bytes have been normalized before.
const NormalizedExt = ".jpg"

// NormalizedImage is the output of NormalizeImage: re-encoded bytes plus a
// derived filename (original base name, slugified, with the target
// extension).
type NormalizedImage struct {
	Filename string
	Data     []byte
	Width    int
	Height   int
}

// IsNormalized reports whether filename already carries the target
// extension. Callers (the upload pipeline) use this to skip re-normalizing;
// NormalizeImage itself does not check.
func IsNormalized(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), NormalizedExt)
}

// NormalizeImage decodes raw upload bytes, flattens any transparency
// against a white background, downscales (never upscales) to fit within
// maxW x maxH preserving aspect ratio, and re-encodes as JPEG at the given
// quality. Pure: no side effects, explicit inputs and outputs.
//
// A decode failure returns ErrUnsupportedImage; the caller must abort the
// entity save rather than persist a half-processed image.
func NormalizeImage(data []byte, name string, maxW, maxH, quality int) (NormalizedImage, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return NormalizedImage{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Flatten to opaque RGB. Lossy and irreversible: alpha is discarded
	// against an implicit white background.
	flat := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), src, bounds.Min, draw.Over)

	img := flat
	if w > maxW || h > maxH {
		nw, nh := fitWithin(w, h, maxW, maxH)
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), flat, flat.Bounds(), xdraw.Src, nil)
		img = dst
		w, h = nw, nh
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return NormalizedImage{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return NormalizedImage{
		Filename: baseFilename(name) + NormalizedExt,
		Data:     buf.Bytes(),
		Width:    w,
		Height:   h,
	}, nil
}

// fitWithin scales (w, h) down to fit (maxW, maxH), preserving aspect
// ratio. One output dimension lands exactly on the box edge.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	var nw, nh int
	if w*maxH >= h*maxW {
		nw = maxW
		nh = h * maxW / w
	} else {
		nh = maxH
		nw = w * maxH / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// baseFilename strips any path and extension from an upload name and
// slugifies what remains, so the derived name is safe on disk and in URLs.
func baseFilename(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if s := Slugify(base, false); s != "" {
		return s
	}
	return "image"
}
