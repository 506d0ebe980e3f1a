package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/streamkick/internal/impulse"
	"github.com/banshee-data/streamkick/internal/sweep"
)

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{"b_kpc", "phi", "y_kpc", "dvx", "dvy", "dvz", "dv"}

// WriteCSV writes one row per star and impact parameter.
func WriteCSV(w io.Writer, res *sweep.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, prof := range res.Profiles {
		for i := range res.Phi {
			dv := impulse.Row(prof.Kicks, i)
			row := []string{
				formatFloat(prof.B),
				formatFloat(res.Phi[i]),
				formatFloat(res.Y[i]),
				formatFloat(dv.X),
				formatFloat(dv.Y),
				formatFloat(dv.Z),
				formatFloat(r3.Norm(dv)),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
