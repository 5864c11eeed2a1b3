package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Table is a CSV file held in memory: the header row plus data records.
type Table struct {
	Header  []string
	Records [][]string
}

// Open returns a reader over the file that strips a UTF-8 byte order mark
// and drops malformed byte sequences.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return &lenientFile{
		Reader: transform.NewReader(f, Lenient()),
		file:   f,
	}, nil
}

// Lenient decodes UTF-8, discarding a leading BOM and invalid bytes. Validly
// encoded U+FFFD characters are kept.
func Lenient() transform.Transformer {
	// The decoder replaces invalid bytes with U+FFFD, so they go first.
	return transform.Chain(dropInvalid{}, unicode.UTF8BOM.NewDecoder())
}

// dropInvalid removes byte sequences that are not valid UTF-8.
type dropInvalid struct{ transform.NopResetter }

func (dropInvalid) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			nSrc++
			continue
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nDst, nSrc, nil
}

type lenientFile struct {
	io.Reader
	file *os.File
}

func (f *lenientFile) Close() error {
	return f.file.Close()
}

// ReadFile loads path into a Table.
func ReadFile(path string) (*Table, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return Read(r, -1)
}

// Read parses a header row and at most limit records; a negative limit reads
// everything.
func Read(r io.Reader, limit int) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := &Table{Header: header}
	for limit < 0 || len(table.Records) < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record %d: %w", len(table.Records)+1, err)
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

// Rows maps every record by header name. Missing trailing fields are left
// out, surplus fields are ignored and a repeated column keeps its last value.
func (t *Table) Rows() []map[string]string {
	rows := make([]map[string]string, 0, len(t.Records))
	for _, record := range t.Records {
		row := make(map[string]string, len(t.Header))
		for i, name := range t.Header {
			if i >= len(record) {
				break
			}
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows
}
