// Package report writes kick profiles from a sweep as CSV, PNG and HTML
// charts, and a JSON summary of each profile.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/streamkick/internal/fsutil"
	"github.com/banshee-data/streamkick/internal/monitoring"
	"github.com/banshee-data/streamkick/internal/security"
	"github.com/banshee-data/streamkick/internal/sweep"
	"github.com/banshee-data/streamkick/internal/timeutil"
	"github.com/banshee-data/streamkick/internal/version"
)

var logf = monitoring.Component("report")

// Stats summarises one kick component over the stream.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	MaxAbs float64 `json:"max_abs"`
}

// ProfileSummary summarises the kicks for one impact parameter.
type ProfileSummary struct {
	BKpc float64 `json:"b_kpc"`
	DVX  Stats   `json:"dvx"`
	DVY  Stats   `json:"dvy"`
	DVZ  Stats   `json:"dvz"`
	DV   Stats   `json:"dv"`
	// PeakPhi is the angle along the stream of the largest kick.
	PeakPhi float64 `json:"peak_phi"`
}

// Summary is the JSON record of a sweep.
type Summary struct {
	RunID     string           `json:"run_id"`
	CreatedAt time.Time        `json:"created_at"`
	Version   string           `json:"version"`
	GitSHA    string           `json:"git_sha"`
	Estimator string           `json:"estimator"`
	Units     string           `json:"units"`
	Stars     int              `json:"stars"`
	MassMsun  float64          `json:"mass_msun"`
	RsKpc     float64          `json:"rs_kpc"`
	Profiles  []ProfileSummary `json:"profiles"`
}

// Summarize computes the per-component statistics of every profile in res
// and assigns the summary a new run id, created at now.
func Summarize(res *sweep.Result, now time.Time) Summary {
	s := Summary{
		RunID:     uuid.New().String(),
		CreatedAt: now.UTC(),
		Version:   version.Version,
		GitSHA:    version.GitSHA,
		Estimator: res.Params.Estimator,
		Units:     res.Params.Units,
		Stars:     len(res.Phi),
		MassMsun:  res.Params.MassMsun,
		RsKpc:     res.Params.RsKpc,
	}
	for _, prof := range res.Profiles {
		dv := sweep.Magnitudes(prof.Kicks)
		ps := ProfileSummary{
			BKpc: prof.B,
			DVX:  stats(mat.Col(nil, 0, prof.Kicks)),
			DVY:  stats(mat.Col(nil, 1, prof.Kicks)),
			DVZ:  stats(mat.Col(nil, 2, prof.Kicks)),
			DV:   stats(dv),
		}
		if len(dv) > 0 {
			ps.PeakPhi = res.Phi[floats.MaxIdx(dv)]
		}
		s.Profiles = append(s.Profiles, ps)
	}
	return s
}

func stats(x []float64) Stats {
	if len(x) == 0 {
		return Stats{}
	}
	st := Stats{MaxAbs: floats.Norm(x, math.Inf(1))}
	if len(x) == 1 {
		st.Mean = x[0]
		return st
	}
	st.Mean, st.StdDev = stat.MeanStdDev(x, nil)
	return st
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

// Options selects the outputs written by WriteAll.
type Options struct {
	CSV  bool
	PNG  bool
	HTML bool

	// Label names the output files; the estimator name when empty.
	Label string
	// FS receives the files; the OS filesystem when nil.
	FS fsutil.FileSystem
	// Clock stamps the summary; the real clock when nil.
	Clock timeutil.Clock
}

// Files lists the paths written by WriteAll. Outputs that were not
// requested are empty.
type Files struct {
	CSV     string
	PNG     string
	HTML    string
	Summary string
}

// WriteAll writes the requested outputs and the JSON summary into dir,
// creating it if needed. File names are kicks_<label> with the label
// sanitized.
func WriteAll(dir string, res *sweep.Result, o Options) (Files, Summary, error) {
	fsys, clock := o.FS, o.Clock
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	label := o.Label
	if label == "" {
		label = res.Params.Estimator
	}
	base := filepath.Join(dir, "kicks_"+security.SanitizeFilename(label))
	if err := security.ValidatePathWithinDirectory(base, dir); err != nil {
		return Files{}, Summary{}, err
	}

	var files Files
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return files, Summary{}, fmt.Errorf("create output directory: %w", err)
	}
	outputs := []struct {
		want  bool
		path  *string
		ext   string
		write func(io.Writer) error
	}{
		{o.CSV, &files.CSV, ".csv", func(w io.Writer) error { return WriteCSV(w, res) }},
		{o.PNG, &files.PNG, ".png", func(w io.Writer) error { return WritePNG(w, res) }},
		{o.HTML, &files.HTML, ".html", func(w io.Writer) error { return WriteHTML(w, res) }},
	}
	for _, out := range outputs {
		if !out.want {
			continue
		}
		*out.path = base + out.ext
		if err := writeFile(fsys, *out.path, out.write); err != nil {
			return files, Summary{}, err
		}
	}

	sum := Summarize(res, clock.Now())
	files.Summary = base + "_summary.json"
	if err := writeFile(fsys, files.Summary, func(w io.Writer) error { return WriteJSON(w, sum) }); err != nil {
		return files, sum, err
	}
	logf("run %s written to %s", sum.RunID, dir)
	return files, sum, nil
}

func writeFile(fsys fsutil.FileSystem, path string, write func(io.Writer) error) (err error) {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
