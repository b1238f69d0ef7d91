// Package export writes a session's trail as CSV, JSON or an SVG snapshot.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/swingby/internal/trail"
)

// CSVHeader is the column layout of WriteCSV.
var CSVHeader = []string{"i", "t", "x", "y", "vx", "vy"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes one row per point in SI units. The i column is the step
// number of the point, so gaps show where a store dropped points.
func WriteCSV(w io.Writer, rows []trail.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range rows {
		record := []string{
			strconv.Itoa(p.Index),
			formatFloat(p.T),
			formatFloat(p.Pos.X),
			formatFloat(p.Pos.Y),
			formatFloat(p.Vel.X),
			formatFloat(p.Vel.Y),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile creates path and hands it to write.
func ToFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
