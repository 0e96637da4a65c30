package source

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// lookupEncoding resolves an encoding label. The UTF-8 labels return a nil
// encoding and are validated strictly instead of being transcoded.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8", "utf-8-sig", "utf_8_sig":
		return nil, nil
	case "cp949", "ms949", "uhc", "euc-kr", "euc_kr", "windows-949":
		return korean.EUCKR, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(ErrEncoding, "%q", name)
	}
	return enc, nil
}

// decode returns data as UTF-8 using the first encoding that accepts it,
// and the name of that encoding. UTF-8 is accepted only when the bytes are
// valid; a leading BOM is dropped either way.
func decode(data []byte, names []string) (string, string, error) {
	for _, name := range names {
		enc, err := lookupEncoding(name)
		if err != nil {
			return "", "", err
		}
		if enc == nil {
			body := bytes.TrimPrefix(data, utf8BOM)
			if utf8.Valid(body) {
				return string(body), name, nil
			}
			continue
		}
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		out = bytes.TrimPrefix(out, utf8BOM)
		if bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		return string(out), name, nil
	}
	return "", "", errors.Wrapf(ErrDecode, "tried encodings %v", names)
}
