package feedstats

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat accepts "table" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %q", s)
	}
}

// Render writes counts in the given format; an empty format means table.
func Render(w io.Writer, counts []AuthorCount, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, counts)
	case FormatTable, "":
		return WriteTable(w, counts)
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}

// WriteTable prints an aligned two column table. Widths are measured in
// terminal cells since display names are full of emoji and wide glyphs.
func WriteTable(w io.Writer, counts []AuthorCount) error {
	nameHdr, countHdr := "author", "count"

	nameWidth := uniseg.StringWidth(nameHdr)
	countWidth := len(countHdr)
	for _, c := range counts {
		nameWidth = max(nameWidth, uniseg.StringWidth(c.Name()))
		countWidth = max(countWidth, len(strconv.Itoa(c.Count)))
	}

	var b strings.Builder
	writeRow := func(name, count string) {
		b.WriteString(name)
		b.WriteString(strings.Repeat(" ", nameWidth-uniseg.StringWidth(name)+2))
		b.WriteString(strings.Repeat(" ", countWidth-len(count)))
		b.WriteString(count)
		b.WriteByte('\n')
	}

	writeRow(nameHdr, countHdr)
	b.WriteString(strings.Repeat("-", nameWidth))
	b.WriteString("  ")
	b.WriteString(strings.Repeat("-", countWidth))
	b.WriteByte('\n')
	for _, c := range counts {
		writeRow(c.Name(), strconv.Itoa(c.Count))
	}
	fmt.Fprintf(&b, "%d authors, %d posts\n", len(counts), Total(counts))

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON prints one object per line, in result order.
func WriteJSON(w io.Writer, counts []AuthorCount) error {
	enc := json.NewEncoder(w)
	for _, c := range counts {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}
