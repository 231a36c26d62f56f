package chart

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/yegors/flightstats/internal/config"
	"github.com/yegors/flightstats/internal/physics"
	"github.com/yegors/flightstats/internal/telemetry"
	"github.com/yegors/flightstats/pkg/logger"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Grid geometry of the figure
const (
	Rows = 3
	Cols = 3
)

// Line colors
var (
	Blue     = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Red      = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green    = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	Purple   = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	Orange   = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	DarkBlue = color.RGBA{R: 0, G: 0, B: 139, A: 255}
)

// Series is one line of a panel
type Series struct {
	Label  string // legend entry; empty for single-line panels
	Values []float64
	Color  color.Color
}

// Panel describes one subplot of the figure
type Panel struct {
	Title  string
	YLabel string
	Series []Series
}

// Panels lays out the seven subplots in row-major order.
// Magnitude series are computed here, independently of the summary.
func Panels(flightLog *telemetry.FlightLog) []Panel {
	totalVelocity := physics.Magnitudes(flightLog.VelocityX, flightLog.VelocityY, flightLog.VelocityZ)
	totalAccel := physics.Magnitudes(flightLog.AccelX, flightLog.AccelY, flightLog.AccelZ)

	return []Panel{
		{
			Title:  "Altitude vs. Time",
			YLabel: "Altitude (m)",
			Series: []Series{{Values: flightLog.Altitude, Color: Blue}},
		},
		{
			Title:  "Velocity Components vs. Time",
			YLabel: "Velocity (m/s)",
			Series: []Series{
				{Label: "Velocity X", Values: flightLog.VelocityX, Color: Red},
				{Label: "Velocity Y", Values: flightLog.VelocityY, Color: Green},
				{Label: "Velocity Z", Values: flightLog.VelocityZ, Color: Blue},
			},
		},
		{
			Title:  "Acceleration Components vs. Time",
			YLabel: "Acceleration (m/s²)",
			Series: []Series{
				{Label: "Acceleration X", Values: flightLog.AccelX, Color: Red},
				{Label: "Acceleration Y", Values: flightLog.AccelY, Color: Green},
				{Label: "Acceleration Z", Values: flightLog.AccelZ, Color: Blue},
			},
		},
		{
			Title:  "Engine Thrust vs. Time",
			YLabel: "Thrust (%)",
			Series: []Series{{Values: flightLog.Thrust, Color: Purple}},
		},
		{
			Title:  "Fuel Mass vs. Time",
			YLabel: "Fuel Mass (kg)",
			Series: []Series{{Values: flightLog.FuelMass, Color: Orange}},
		},
		{
			Title:  "Total Velocity vs. Time",
			YLabel: "Velocity (m/s)",
			Series: []Series{{Values: totalVelocity, Color: Red}},
		},
		{
			Title:  "Total Acceleration vs. Time",
			YLabel: "Acceleration (m/s²)",
			Series: []Series{{Values: totalAccel, Color: DarkBlue}},
		},
	}
}

// Renderer draws flight logs into a tiled PNG figure
type Renderer struct {
	cfg    config.ChartConfig
	logger *logger.Logger
}

// NewRenderer creates a new chart renderer
func NewRenderer(cfg config.ChartConfig, log *logger.Logger) *Renderer {
	return &Renderer{
		cfg:    cfg,
		logger: log.Named("chart"),
	}
}

// OutputPath replaces the extension of the input path with ext.
// A basename made only of a leading-dot name has no extension to replace.
func OutputPath(input, ext string) string {
	base := filepath.Base(input)
	if strings.Contains(strings.TrimLeft(base, "."), ".") {
		input = strings.TrimSuffix(input, filepath.Ext(input))
	}
	return input + ext
}

// RenderFile renders the figure next to the input file and returns its path.
// The image is written to a temporary file first and renamed into place,
// so a failed render never leaves a partial image behind.
func (r *Renderer) RenderFile(flightLog *telemetry.FlightLog, inputPath string) (string, error) {
	outputPath := OutputPath(inputPath, ".png")

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("cannot create png: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	bw := bufio.NewWriter(tmp)
	if err := r.Render(flightLog, bw); err != nil {
		tmp.Close()
		return "", err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("cannot write png: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("cannot write png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("cannot write png: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return "", fmt.Errorf("cannot move png into place: %w", err)
	}

	r.logger.Debug("Chart written",
		logger.String("path", outputPath),
		logger.Int("rows", flightLog.Len()))

	return outputPath, nil
}

// Render draws the seven-panel figure as PNG into w
func (r *Renderer) Render(flightLog *telemetry.FlightLog, w io.Writer) error {
	panels := Panels(flightLog)

	grid := make([][]*plot.Plot, Rows)
	for row := range grid {
		grid[row] = make([]*plot.Plot, Cols)
	}
	for i, panel := range panels {
		p, err := r.newPlot(flightLog.Time, panel)
		if err != nil {
			return fmt.Errorf("panel %q: %w", panel.Title, err)
		}
		grid[i/Cols][i%Cols] = p
	}

	width := vg.Length(r.cfg.WidthInches) * vg.Inch
	height := vg.Length(r.cfg.HeightInches) * vg.Inch
	img := vgimg.NewWith(
		vgimg.UseWH(width, height),
		vgimg.UseDPI(r.cfg.DPI),
	)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      Rows,
		Cols:      Cols,
		PadX:      vg.Millimeter * 8,
		PadY:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	canvases := plot.Align(grid, tiles, dc)
	for row := range grid {
		for col, p := range grid[row] {
			if p == nil {
				continue
			}
			p.Draw(canvases[row][col])
		}
	}

	pngc := vgimg.PngCanvas{Canvas: img}
	if _, err := pngc.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

func (r *Renderer) newPlot(time []float64, panel Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = panel.YLabel

	gridLines := plotter.NewGrid()
	gridColor := color.NRGBA{R: 128, G: 128, B: 128, A: uint8(math.Round(r.cfg.GridAlpha * 255))}
	gridLines.Vertical.Color = gridColor
	gridLines.Horizontal.Color = gridColor
	p.Add(gridLines)

	for _, s := range panel.Series {
		line, err := plotter.NewLine(points(time, s.Values))
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(r.cfg.LineWidth)
		line.LineStyle.Color = s.Color
		p.Add(line)
		if s.Label != "" {
			p.Legend.Add(s.Label, line)
		}
	}
	p.Legend.Top = true

	return p, nil
}

// points pairs time with values, skipping rows where either is not finite
func points(time, values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(time))
	for i := range time {
		x, y := time[i], values[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	return pts
}
