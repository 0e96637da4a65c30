// Package source loads delimited tables from disk.
package source

// Default reader configuration.
var defaultEncodings = []string{"utf-8-sig", "cp949"}

// Option applies a configuration option to the CSVReader.
type Option func(*CSVReader)

// WithDelimiter sets the field delimiter.
func WithDelimiter(d rune) Option {
	return func(r *CSVReader) {
		if d != 0 {
			r.delimiter = d
		}
	}
}

// WithEncodings sets the encodings tried, in order, when decoding a file.
func WithEncodings(names ...string) Option {
	return func(r *CSVReader) {
		if len(names) > 0 {
			r.encodings = append([]string(nil), names...)
		}
	}
}
