package processor

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"imgresize/pkg/imgutil"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// countMetadata reports how many metadata entries the source carries that a
// re-encode will not write back: EXIF tags for JPEG and TIFF, text, time and
// eXIf chunks for PNG. Unreadable metadata counts as none.
func countMetadata(data []byte, kind imgutil.Kind) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()

	switch kind {
	case imgutil.KindJPEG, imgutil.KindTIFF:
		count, err := countExifTags(bytes.NewReader(data))
		if err != nil {
			return 0
		}
		return count
	case imgutil.KindPNG:
		count, err := countPNGMetadata(bytes.NewReader(data))
		if err != nil {
			return 0
		}
		return count
	default:
		return 0
	}
}

func countExifTags(rs io.ReadSeeker) (int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if errorsIsNoExif(err) {
			return 0, nil
		}
		return 0, err
	}
	return len(tags), nil
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

func countPNGMetadata(r io.Reader) (int, error) {
	br := bufio.NewReader(r)

	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(br, sig); err != nil {
		return 0, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return 0, errors.New("invalid PNG signature")
	}

	count := 0
	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(br, header); err != nil {
			if err == io.EOF {
				return count, nil
			}
			return count, err
		}
		length := binary.BigEndian.Uint32(header[:4])
		chunkName := string(header[4:8])

		switch chunkName {
		case "tEXt", "zTXt", "iTXt", "tIME", "eXIf":
			count++
		}

		if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
			return count, err
		}
		if chunkName == "IEND" {
			return count, nil
		}
	}
}
