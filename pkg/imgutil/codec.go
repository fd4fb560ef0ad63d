package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupported is returned when a decoded format has no matching encoder.
var ErrUnsupported = errors.New("unsupported image format")

var decoders = map[Kind]func(io.Reader) (image.Image, error){
	KindJPEG: jpeg.Decode,
	KindPNG:  png.Decode,
	KindGIF:  gif.Decode,
	KindTIFF: tiff.Decode,
	KindBMP:  bmp.Decode,
}

// Decode sniffs the magic bytes of data and decodes it with that format's
// decoder, so the reported kind is always the one the file is written back in.
func Decode(data []byte) (image.Image, Kind, error) {
	kind, err := DetectHeader(data[:min(len(data), headerLen)])
	if err != nil {
		return nil, KindUnknown, err
	}

	decode, ok := decoders[kind]
	if !ok {
		return nil, KindUnknown, ErrUnsupported
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, KindUnknown, fmt.Errorf("decode %s: %w", kind, err)
	}
	return img, kind, nil
}

// Encode writes img to w in the given kind's format.
func Encode(w io.Writer, img image.Image, kind Kind, jpegQuality int) error {
	format, ok := kind.Format()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(jpegQuality))
}

// Fit scales img down so it fits inside maxW x maxH, preserving the aspect
// ratio. Images that already fit are returned as a copy.
func Fit(img image.Image, maxW, maxH int, filter imaging.ResampleFilter) *image.NRGBA {
	return imaging.Fit(img, maxW, maxH, filter)
}

// Dimensions returns the pixel width and height of img.
func Dimensions(img image.Image) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}
