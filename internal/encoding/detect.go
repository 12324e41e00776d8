// Package encoding turns bank exports of unknown encoding into UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// Charset names reported by Detect.
const (
	UTF8        = "UTF-8"
	UTF8BOM     = "UTF-8 (BOM)"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO885915   = "ISO-8859-15"
	ISO88599    = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset string
	decoder func() *encoding.Decoder
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8BOM, nil},
	{[]byte{0xFF, 0xFE}, UTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder},
	{[]byte{0xFE, 0xFF}, UTF16BE, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder},
}

var singleByte = map[string]*charmap.Charmap{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-15":  charmap.ISO8859_15,
	"ISO-8859-9":   charmap.ISO8859_9,
}

// Detect returns a UTF-8 reader over r and the name of the charset it decoded.
// A BOM wins, then valid UTF-8, then chardet; anything else is read as
// windows-1252.
func Detect(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.decoder == nil {
			_, _ = br.Discard(len(b.prefix))
			return br, b.charset, nil
		}

		return transform.NewReader(br, b.decoder()), b.charset, nil
	}

	if utf8.Valid(trimPartialRune(buf)) {
		return br, UTF8, nil
	}

	if res, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if res.Charset == UTF8 {
			return br, UTF8, nil
		}

		if cm, ok := singleByte[res.Charset]; ok {
			return transform.NewReader(br, cm.NewDecoder()), charsetName(cm), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), Windows1252, nil
}

// NewUTF8Reader is Detect without the charset name.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Detect(r)
	return out, err
}

// trimPartialRune drops a multi-byte sequence cut off by the sniff window.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && i < len(b); i++ {
		if utf8.RuneStart(b[len(b)-1-i]) {
			if !utf8.FullRune(b[len(b)-1-i:]) {
				return b[:len(b)-1-i]
			}

			break
		}
	}

	return b
}

func charsetName(cm *charmap.Charmap) string {
	switch cm {
	case charmap.ISO8859_15:
		return ISO885915
	case charmap.ISO8859_9:
		return ISO88599
	default:
		return Windows1252
	}
}
