package imgutil

import (
	"errors"

	"github.com/disintegration/imaging"
)

// Kind identifies a supported image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindGIF
	KindTIFF
	KindBMP
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindGIF:
		return "gif"
	case KindTIFF:
		return "tiff"
	case KindBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Format maps k to the encoder format used when writing it back.
func (k Kind) Format() (imaging.Format, bool) {
	switch k {
	case KindJPEG:
		return imaging.JPEG, true
	case KindPNG:
		return imaging.PNG, true
	case KindGIF:
		return imaging.GIF, true
	case KindTIFF:
		return imaging.TIFF, true
	case KindBMP:
		return imaging.BMP, true
	default:
		return 0, false
	}
}

// KindFromFormatName converts the name reported by image.Decode.
func KindFromFormatName(name string) Kind {
	switch name {
	case "jpeg":
		return KindJPEG
	case "png":
		return KindPNG
	case "gif":
		return KindGIF
	case "tiff":
		return KindTIFF
	case "bmp":
		return KindBMP
	default:
		return KindUnknown
	}
}

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	gif87Sig  = []byte("GIF87a")
	gif89Sig  = []byte("GIF89a")
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	bmpSig    = []byte("BM")
)

const headerLen = 8

// DetectHeader inspects up to the first 8 bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < len(bmpSig) {
		return KindUnknown, errors.New("header too short")
	}

	switch {
	case hasPrefix(header, jpegSig):
		return KindJPEG, nil
	case hasPrefix(header, pngSig):
		return KindPNG, nil
	case hasPrefix(header, gif87Sig), hasPrefix(header, gif89Sig):
		return KindGIF, nil
	case hasPrefix(header, tiffSigLE), hasPrefix(header, tiffSigBE):
		return KindTIFF, nil
	case hasPrefix(header, bmpSig):
		return KindBMP, nil
	}

	return KindUnknown, nil
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
