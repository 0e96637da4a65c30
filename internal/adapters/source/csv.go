package source

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/okian/teamstats/internal/domain/model"
)

// Reader loads a table from a path.
type Reader interface {
	Read(ctx context.Context, path string) (*model.Table, error)
}

// CSVReader reads delimited files with an encoding fallback chain.
type CSVReader struct {
	delimiter rune
	encodings []string
}

// NewCSVReader creates a reader; comma-delimited, utf-8-sig then cp949 by
// default.
func NewCSVReader(opts ...Option) *CSVReader {
	r := &CSVReader{
		delimiter: ',',
		encodings: defaultEncodings,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read loads the whole file into memory. A missing path yields a
// *SourceNotFoundError before anything is parsed.
func (r *CSVReader) Read(ctx context.Context, path string) (*model.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &SourceNotFoundError{Path: path}
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	text, enc, err := decode(data, r.encodings)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}

	tbl, err := r.parse(strings.NewReader(text))
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	tbl.Path = path
	tbl.Encoding = enc
	return tbl, nil
}

func (r *CSVReader) parse(in io.Reader) (*model.Table, error) {
	cr := csv.NewReader(in)
	cr.Comma = r.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return &model.Table{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	header = dedupeHeader(header)

	tbl := &model.Table{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(ErrParse, err.Error())
		}
		if blank(rec) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			} else {
				row[name] = ""
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

// dedupeHeader suffixes repeated names with .1, .2, ... so every physical
// column keeps its own key.
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]struct{}, len(header))
	for _, h := range header {
		taken[h] = struct{}{}
	}
	for i, h := range header {
		n, dup := seen[h]
		seen[h] = n + 1
		if !dup {
			out[i] = h
			continue
		}
		name := h + "." + strconv.Itoa(n)
		for {
			if _, clash := taken[name]; !clash {
				break
			}
			n++
			name = h + "." + strconv.Itoa(n)
		}
		seen[h] = n + 1
		taken[name] = struct{}{}
		out[i] = name
	}
	return out
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
