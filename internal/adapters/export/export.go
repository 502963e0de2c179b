// Package export writes filtered records as CSV and reads such files back.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/baton/internal/domain/model"
)

// Header is the fixed column order of an export.
var Header = []string{"Conductor", "Role", "Production", "Opening Date", "Decade", "Photo"}

// ErrBadHeader is returned when a CSV does not start with Header.
var ErrBadHeader = errors.New("unexpected csv header")

// Row is one exported line.
type Row struct {
	Conductor  string
	Role       string
	Production string
	Opening    string
	Decade     *int
	Photo      string
}

// lineBreaks folds CRLF and lone CR to LF. A CSV reader reports a quoted
// CRLF as LF, so only LF survives a round trip.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// RowOf projects a record onto the export columns. Missing values are
// empty; the opening date is the source string as given. Line breaks
// inside a field are written as "\n".
func RowOf(r *model.Record) Row {
	return Row{
		Conductor:  lineBreaks.Replace(r.Conductor),
		Role:       lineBreaks.Replace(r.Role),
		Production: lineBreaks.Replace(r.Show),
		Opening:    lineBreaks.Replace(r.OpeningRaw),
		Decade:     r.Decade,
		Photo:      lineBreaks.Replace(r.Photo),
	}
}

func (r Row) fields() []string {
	decade := ""
	if r.Decade != nil {
		decade = strconv.Itoa(*r.Decade)
	}
	return []string{r.Conductor, r.Role, r.Production, r.Opening, decade, r.Photo}
}

// Write emits the header and one line per record. Every field is quoted
// and embedded quotes are doubled; lines are joined by "\n" with no
// trailing newline.
func Write(w io.Writer, records []model.Record) error {
	bw := bufio.NewWriter(w)
	writeLine(bw, Header)
	for i := range records {
		_ = bw.WriteByte('\n')
		writeLine(bw, RowOf(&records[i]).fields())
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeLine(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			_ = w.WriteByte(',')
		}
		_ = w.WriteByte('"')
		_, _ = w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		_ = w.WriteByte('"')
	}
}

// Read parses an export produced by Write.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if !slices.Equal(head, Header) {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, head)
	}

	var out []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row := Row{
			Conductor:  rec[0],
			Role:       rec[1],
			Production: rec[2],
			Opening:    rec[3],
			Photo:      rec[5],
		}
		if rec[4] != "" {
			d, err := strconv.Atoi(rec[4])
			if err != nil {
				return nil, fmt.Errorf("read csv: decade %q: %w", rec[4], err)
			}
			row.Decade = &d
		}
		out = append(out, row)
	}
	return out, nil
}
