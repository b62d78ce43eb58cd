package parser

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mcncl/jsonkit/internal/errors"
)

// decodeReader wraps r so that it yields UTF-8. An empty charset name means
// UTF-8, with a byte order mark selecting UTF-16 instead.
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	if charset == "" {
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}
	enc, err := LookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// LookupEncoding resolves an IANA charset name such as "utf-8", "shift_jis"
// or "windows-1252"
func LookupEncoding(charset string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, errors.NewArgumentError(fmt.Sprintf("unknown encoding %q", charset))
	}
	if enc == nil {
		return nil, errors.NewArgumentError(fmt.Sprintf("encoding %q is not supported", charset))
	}
	return enc, nil
}
