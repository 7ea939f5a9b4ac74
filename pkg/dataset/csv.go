package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"io"
	"strings"

	"github.com/matzehuels/emberview/pkg/errors"
)

// Dataset is a parsed parcel table.
type Dataset struct {
	Records []Record
	Header  []string
	Columns Columns
	Digest  string // sha256 of the raw input, used for cache keys
}

// Fields returns the header names in file order.
func (d *Dataset) Fields() []string {
	out := make([]string, len(d.Header))
	copy(out, d.Header)
	return out
}

// HasField reports whether name is a header cell.
func (d *Dataset) HasField(name string) bool {
	for _, h := range d.Header {
		if h == name {
			return true
		}
	}
	return false
}

// ReadCSV parses a parcel table. The header must contain every column
// named by cols; rows may leave any of them blank.
func ReadCSV(r io.Reader, cols Columns) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "read records")
	}
	return parseCSV(raw, cols)
}

func parseCSV(raw []byte, cols Columns) (*Dataset, error) {
	cols = cols.withDefaults()

	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeLoadFailed, "records file is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "read header")
	}
	header = append([]string(nil), header...)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	seen := make(map[string]bool, len(header))
	for _, h := range header {
		seen[h] = true
	}
	var missing []string
	for _, name := range cols.required() {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeLoadFailed, "missing required columns: %s", strings.Join(missing, ", "))
	}

	ds := &Dataset{Header: header, Columns: cols}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "read row %d", len(ds.Records)+2)
		}
		if isBlank(row) {
			continue
		}
		fields := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				fields[h] = row[i]
			}
		}
		ds.Records = append(ds.Records, NewRecord(cols, fields))
	}

	sum := sha256.Sum256(raw)
	ds.Digest = hex.EncodeToString(sum[:])
	return ds, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
