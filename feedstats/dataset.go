package feedstats

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"
)

var (
	// ErrNotObject is returned for lines that are valid JSON but not an object.
	ErrNotObject = errors.New("line is not a JSON object")
	// ErrInvalidUTF8 is returned for lines that are not valid UTF-8; decoding
	// would otherwise replace the bad bytes and merge distinct names.
	ErrInvalidUTF8 = errors.New("line is not valid UTF-8")
)

// Record is one decoded line of an export.
type Record map[string]any

// Dataset holds a whole export in memory along with the schema inferred
// from every record in it.
type Dataset struct {
	Records []Record
	Schema  *Field
}

// Len is the number of records, plain replies included.
func (ds *Dataset) Len() int {
	return len(ds.Records)
}

// ReadNDJSON decodes newline-delimited JSON objects. Blank lines are skipped.
func ReadNDJSON(r io.Reader) (*Dataset, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	var records []Record
	lineno := 0
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			lineno++
			line = bytes.TrimSpace(line)
			if len(line) > 0 {
				rec, perr := parseLine(line)
				if perr != nil {
					return nil, fmt.Errorf("line %d: %w", lineno, perr)
				}
				records = append(records, rec)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", lineno+1, err)
		}
	}

	return &Dataset{
		Records: records,
		Schema:  InferSchema(records),
	}, nil
}

func parseLine(line []byte) (Record, error) {
	if !utf8.Valid(line) {
		return nil, ErrInvalidUTF8
	}
	var v any
	if err := json.Unmarshal(line, &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, kindOf(v))
	}
	return Record(obj), nil
}

// LoadFile opens an export (see OpenExport) and reads it fully.
func LoadFile(logger *slog.Logger, path string) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f, err := OpenExport(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := ReadNDJSON(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	logger.Info("loaded feed export", "path", path, "records", ds.Len(), "columns", len(ds.Schema.Children()), "took", time.Since(start))
	return ds, nil
}
