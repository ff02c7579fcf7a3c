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

// Charset names the encoding an upload was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_9   Charset = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset Charset
	dec     encoding.Encoding
}{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: UTF8},
	{prefix: []byte{0xFF, 0xFE}, charset: UTF16LE, dec: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{prefix: []byte{0xFE, 0xFF}, charset: UTF16BE, dec: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// Broker exports are produced by Portuguese and Spanish desktop tools, so
// anything chardet reports as Western European is read as one of these.
var legacy = map[string]struct {
	charset Charset
	dec     encoding.Encoding
}{
	"ISO-8859-1":   {charset: Windows1252, dec: charmap.Windows1252},
	"windows-1252": {charset: Windows1252, dec: charmap.Windows1252},
	"ISO-8859-9":   {charset: ISO8859_9, dec: charmap.ISO8859_9},
}

// Decode returns a reader yielding r as UTF-8 along with the charset it was
// read as. A UTF-8 BOM is stripped. Undetectable input falls back to
// Windows-1252.
func Decode(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.dec == nil {
			_, _ = br.Discard(len(b.prefix))
			return br, b.charset, nil
		}

		return transform.NewReader(br, b.dec.NewDecoder()), b.charset, nil
	}

	if validUTF8(buf, len(buf) == sniffSize) {
		return br, UTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == string(UTF8) {
			return br, UTF8, nil
		}

		if l, ok := legacy[result.Charset]; ok {
			return transform.NewReader(br, l.dec.NewDecoder()), l.charset, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), Windows1252, nil
}

// validUTF8 tolerates a rune cut off by the end of a truncated sniff window.
func validUTF8(buf []byte, truncated bool) bool {
	if utf8.Valid(buf) {
		return true
	}

	if !truncated {
		return false
	}

	for i := 1; i < utf8.UTFMax && i < len(buf); i++ {
		if utf8.Valid(buf[:len(buf)-i]) {
			return true
		}
	}

	return false
}
