package analyzer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"doctree/internal/logger"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUndecodable is returned when no configured encoding accepts a file
var ErrUndecodable = errors.New("no configured encoding can decode the file")

// Windows code page names that the WHATWG index does not know
var encodingAliases = map[string]string{
	"ms949": "euc-kr",
	"cp949": "euc-kr",
	"sjis":  "shift_jis",
	"cp932": "shift_jis",
	"cp936": "gbk",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder turns raw source bytes into UTF-8, trying its encodings in order.
// UTF-8 is accepted only when the bytes are valid UTF-8; any other encoding
// accepts what its transformer accepts.
type Decoder struct {
	names     []string
	encodings []encoding.Encoding
}

// NewDecoder builds a decoder for the named encodings (WHATWG labels plus a
// few code page aliases). An empty list means UTF-8 only.
func NewDecoder(names []string) (*Decoder, error) {
	if len(names) == 0 {
		names = []string{"utf-8"}
	}

	d := &Decoder{}
	for _, name := range names {
		label := strings.ToLower(strings.TrimSpace(name))
		if alias, ok := encodingAliases[label]; ok {
			label = alias
		}
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
		}
		canonical, err := htmlindex.Name(enc)
		if err != nil {
			canonical = label
		}
		d.names = append(d.names, canonical)
		d.encodings = append(d.encodings, enc)
	}
	return d, nil
}

// Decode converts raw to UTF-8 and reports the encoding that was used
func (d *Decoder) Decode(raw []byte) ([]byte, string, error) {
	for i, enc := range d.encodings {
		name := d.names[i]
		if name == "utf-8" {
			src := bytes.TrimPrefix(raw, utf8BOM)
			if utf8.Valid(src) {
				return src, name, nil
			}
			continue
		}

		out, _, err := transform.Bytes(enc.NewDecoder(), raw)
		if err != nil {
			logger.Debug("[ENCODING] %s rejected: %v", name, err)
			continue
		}
		return out, name, nil
	}
	return nil, "", ErrUndecodable
}

// ReadFile reads and decodes one source file. It satisfies javaparser.ReadFunc.
func (d *Decoder) ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content, used, err := d.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if used != "utf-8" {
		logger.Debug("[ENCODING] %s decoded as %s", path, used)
	}
	return content, nil
}
