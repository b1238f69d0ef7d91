package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/swingby/internal/session"
	"github.com/san-kum/swingby/internal/trail"
)

type Row struct {
	I  int     `json:"i"`
	T  float64 `json:"t"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type ExportData struct {
	ID         string             `json:"id"`
	Integrator string             `json:"integrator"`
	Policy     string             `json:"policy"`
	Dt         float64            `json:"dt"`
	Speed      int                `json:"speed"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Points     []Row              `json:"points"`
}

func rowsOf(points []trail.Point) []Row {
	rows := make([]Row, len(points))
	for i, p := range points {
		rows[i] = Row{I: p.Index, T: p.T, X: p.Pos.X, Y: p.Pos.Y, VX: p.Vel.X, VY: p.Vel.Y}
	}
	return rows
}

// Collect gathers the exportable view of s.
func Collect(s *session.Session) ExportData {
	cfg := s.Config()
	return ExportData{
		ID:         s.ID(),
		Integrator: cfg.Integrator,
		Policy:     cfg.Trail.Policy,
		Dt:         cfg.Run.Dt,
		Speed:      cfg.Run.Speed,
		Steps:      s.Steps(),
		Metrics:    s.Metrics(),
		Points:     rowsOf(s.Rows()),
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
