// Package report draws learning curves of training runs.
package report

import (
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// DefaultWindow is the number of episodes averaged by the success-rate line.
const DefaultWindow = 20

// Outcome is one finished episode.
type Outcome struct {
	Episode   int
	Steps     int
	Succeeded bool
}

// FromEpisodes converts stored episodes.
func FromEpisodes(episodes []storage.Episode) []Outcome {
	out := make([]Outcome, len(episodes))
	for i, e := range episodes {
		out[i] = Outcome{
			Episode:   e.Episode,
			Steps:     e.Steps,
			Succeeded: e.Outcome == storage.OutcomeSucceeded,
		}
	}
	return out
}

// MovingRate returns, for each outcome, the success rate over the last
// window outcomes up to and including it.
func MovingRate(outcomes []Outcome, window int) []float64 {
	if window <= 0 {
		window = DefaultWindow
	}
	rates := make([]float64, len(outcomes))
	wins := 0
	for i, o := range outcomes {
		if o.Succeeded {
			wins++
		}
		if i >= window && outcomes[i-window].Succeeded {
			wins--
		}
		n := i + 1
		if n > window {
			n = window
		}
		rates[i] = float64(wins) / float64(n)
	}
	return rates
}

// StepsPlot plots episode lengths, successes and failures as separate series.
func StepsPlot(title string, outcomes []Outcome) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Moves"

	var won, lost plotter.XYs
	for _, o := range outcomes {
		pt := plotter.XY{X: float64(o.Episode), Y: float64(o.Steps)}
		if o.Succeeded {
			won = append(won, pt)
		} else {
			lost = append(lost, pt)
		}
	}

	for i, series := range []struct {
		name string
		pts  plotter.XYs
	}{{"succeeded", won}, {"failed", lost}} {
		if len(series.pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(series.pts)
		if err != nil {
			return nil, fmt.Errorf("report: %s series: %w", series.name, err)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = plotutil.Shape(i)
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		p.Legend.Add(series.name, sc)
	}
	return p, nil
}

// RatePlot plots the moving success rate.
func RatePlot(outcomes []Outcome, window int) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = fmt.Sprintf("Success rate (last %d)", window)
	p.Y.Min = 0
	p.Y.Max = 1

	rates := MovingRate(outcomes, window)
	points := make(plotter.XYs, len(rates))
	for i, r := range rates {
		points[i] = plotter.XY{X: float64(outcomes[i].Episode), Y: r}
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("report: success rate: %w", err)
	}
	line.Color = plotutil.Color(2)
	p.Add(line)
	return p, nil
}

// SaveLearningCurve writes a PNG with the episode lengths on top and the
// moving success rate below.
func SaveLearningCurve(path, title string, outcomes []Outcome) error {
	if len(outcomes) == 0 {
		return errors.New("report: no finished episodes to plot")
	}

	steps, err := StepsPlot(title, outcomes)
	if err != nil {
		return err
	}
	rate, err := RatePlot(outcomes, DefaultWindow)
	if err != nil {
		return err
	}

	img := vgimg.New(8*vg.Inch, 8*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	plots := [][]*plot.Plot{{steps}, {rate}}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: cannot create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		//nolint:errcheck // the write error is the one reported
		f.Close()
		return fmt.Errorf("report: cannot write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: cannot close %s: %w", path, err)
	}
	return nil
}
