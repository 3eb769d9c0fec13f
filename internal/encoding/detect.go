// Package encoding turns contact lists saved by spreadsheets in legacy code pages into UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	stdenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charsets reported by Decoded.Charset.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO88599    = "ISO-8859-9"
	ISO885915   = "ISO-8859-15"
)

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// Decoded yields the UTF-8 form of its source.
type Decoded struct {
	io.Reader
	Charset string
	BOM     bool
}

// NewUTF8Reader picks the source charset from a byte order mark, then from UTF-8 validity, then
// from chardet's best guess. Unknown single-byte input is read as windows-1252, which is what
// spreadsheet exports on western locales produce.
func NewUTF8Reader(r io.Reader) (*Decoded, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	sample, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("sniffing encoding: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(sample, b.prefix) {
			continue
		}

		if b.charset == UTF8 {
			_, _ = br.Discard(len(b.prefix))
			return &Decoded{Reader: br, Charset: UTF8, BOM: true}, nil
		}

		return &Decoded{Reader: transform.NewReader(br, decoder(b.charset)), Charset: b.charset, BOM: true}, nil
	}

	charset := Detect(sample)
	if charset == UTF8 {
		return &Decoded{Reader: br, Charset: UTF8}, nil
	}

	return &Decoded{Reader: transform.NewReader(br, decoder(charset)), Charset: charset}, nil
}

// Detect names the charset of a BOM-less sample.
func Detect(sample []byte) string {
	if utf8.Valid(sample) {
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return Windows1252
	}

	switch result.Charset {
	case "UTF-8":
		return UTF8
	case "ISO-8859-9":
		return ISO88599
	case "ISO-8859-15":
		return ISO885915
	default:
		return Windows1252
	}
}

func decoder(charset string) *stdenc.Decoder {
	switch charset {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case ISO88599:
		return charmap.ISO8859_9.NewDecoder()
	case ISO885915:
		return charmap.ISO8859_15.NewDecoder()
	default:
		return charmap.Windows1252.NewDecoder()
	}
}
