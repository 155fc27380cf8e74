package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-compare-mcp/internal/comparison"
	"github.com/ironsheep/image-compare-mcp/internal/config"
	"github.com/ironsheep/image-compare-mcp/internal/imaging"
)

// compareFlags holds the compare subcommand's flag values. Only flags the
// user actually set override the profile.
type compareFlags struct {
	configPath     string
	output         string
	threshold      int
	radius         int
	excludes       []string
	allowedPercent float64
	minSize        int
	maxCount       int
	workers        int
	lineWidth      int
	color          string
	fillOpacity    float64
	drawExcluded   bool
}

// NewCompareCommand creates the compare subcommand.
func NewCompareCommand() *cobra.Command {
	f := &compareFlags{}

	cmd := &cobra.Command{
		Use:   "compare EXPECTED ACTUAL",
		Short: "Compare an image against a baseline",
		Long: `Compare ACTUAL against the EXPECTED baseline and print the outcome.

The exit status reports the result:
  0  images match
  1  error (unreadable image, invalid profile, ...)
  2  images differ
  3  images have different dimensions

Flags override the values of --config; unset flags keep the profile's.`,
		Example: `  image-compare-mcp compare baseline/home.png out/home.png -o diff/home.png
  image-compare-mcp compare a.png b.png --radius 0 --exclude 0,0,199,39 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, f, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Comparison profile (.yaml, .yml, .json, .jsonc)")
	flags.StringVarP(&f.output, "output", "o", "", "Write the annotated actual image to this path")
	flags.IntVar(&f.threshold, "threshold", 0, "Pixel distance (0-1020) that must be exceeded to count as different")
	flags.IntVar(&f.radius, "radius", comparison.DefaultAdjacencyRadius, "Adjacency radius for grouping differing pixels")
	flags.StringArrayVar(&f.excludes, "exclude", nil, "Excluded area as x1,y1,x2,y2 (inclusive, repeatable)")
	flags.Float64Var(&f.allowedPercent, "allowed-percent", 0, "Match while at most this percentage of pixels differ")
	flags.IntVar(&f.minSize, "min-size", 0, "Drop rectangles covering fewer pixels")
	flags.IntVar(&f.maxCount, "max-count", 0, "Report only the largest N rectangles")
	flags.IntVar(&f.workers, "workers", 0, "Goroutines scanning the images (0 = one per CPU)")
	flags.IntVar(&f.lineWidth, "line-width", imaging.DefaultLineWidth, "Outline width in the annotated image")
	flags.StringVar(&f.color, "color", imaging.DefaultColor, "Outline color in the annotated image")
	flags.Float64Var(&f.fillOpacity, "fill-opacity", 0, "Fill rectangles at this opacity (0-1)")
	flags.BoolVar(&f.drawExcluded, "draw-excluded", false, "Outline excluded areas in the annotated image")

	return cmd
}

// profile builds the effective profile: the --config file (or defaults)
// with every explicitly set flag applied on top.
func (f *compareFlags) profile(cmd *cobra.Command) (*config.Profile, error) {
	p, err := loadProfile(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("threshold") {
		p.PixelThreshold = f.threshold
	}
	if changed("radius") {
		p.AdjacencyRadius = f.radius
	}
	if changed("exclude") {
		areas := make([]comparison.Rectangle, 0, len(f.excludes))
		for _, s := range f.excludes {
			r, err := parseArea(s)
			if err != nil {
				return nil, WrapCLIError(ExitError, "invalid --exclude", err)
			}
			areas = append(areas, r)
		}
		p.ExcludedAreas = areas
	}
	if changed("allowed-percent") {
		p.AllowedDifferentPixelsPercent = f.allowedPercent
	}
	if changed("min-size") {
		p.MinimalRectangleSize = f.minSize
	}
	if changed("max-count") {
		p.MaximalRectangleCount = f.maxCount
	}
	if changed("workers") {
		p.Workers = f.workers
	}
	if changed("line-width") {
		p.Overlay.LineWidth = f.lineWidth
	}
	if changed("color") {
		p.Overlay.Color = f.color
	}
	if changed("fill-opacity") {
		p.Overlay.FillOpacity = f.fillOpacity
	}
	if changed("draw-excluded") {
		p.Overlay.DrawExcluded = f.drawExcluded
	}

	if err := p.Validate(); err != nil {
		return nil, WrapCLIError(ExitError, "invalid options", err)
	}
	return p, nil
}

// parseArea parses "x1,y1,x2,y2" into a rectangle with inclusive corners
// given in any order.
func parseArea(s string) (comparison.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return comparison.Rectangle{}, fmt.Errorf("%q: want x1,y1,x2,y2", s)
	}
	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return comparison.Rectangle{}, fmt.Errorf("%q: %w", s, err)
		}
		v[i] = n
	}
	return comparison.NewRectangle(v[0], v[1], v[2], v[3]), nil
}

// compareOutput is the --json result of the compare command.
type compareOutput struct {
	Expected          string                 `json:"expected"`
	Actual            string                 `json:"actual"`
	State             comparison.State       `json:"state"`
	DifferencePercent float64                `json:"difference_percent"`
	Rectangles        []comparison.Rectangle `json:"rectangles"`
	Output            string                 `json:"output,omitempty"`
}

func runCompare(cmd *cobra.Command, f *compareFlags, expectedPath, actualPath string) error {
	p, err := f.profile(cmd)
	if err != nil {
		return err
	}

	cache := imaging.NewImageCache(p.BaselineDirs...)
	expected, err := cache.Load(expectedPath)
	if err != nil {
		return WrapCLIError(ExitError, "expected image", err)
	}
	actual, err := cache.Load(actualPath)
	if err != nil {
		return WrapCLIError(ExitError, "actual image", err)
	}
	VerboseLog("comparing %s (%dx%d) with %s (%dx%d)",
		expectedPath, expected.Bounds().Dx(), expected.Bounds().Dy(),
		actualPath, actual.Bounds().Dx(), actual.Bounds().Dy())

	res := comparison.New(p.ComparisonOptions(), p.Renderer()).Compare(expected, actual)
	VerboseLog("state %s, %d rectangles", res.State, len(res.Rectangles))

	out := compareOutput{
		Expected:          expectedPath,
		Actual:            actualPath,
		State:             res.State,
		DifferencePercent: res.DifferencePercent,
		Rectangles:        res.Rectangles,
	}

	if f.output != "" {
		written, err := imaging.SaveImage(f.output, res.Annotated)
		if err != nil {
			return WrapCLIError(ExitError, "cannot write annotated image", err)
		}
		VerboseLog("annotated image written to %s", written)
		out.Output = written
	}

	if err := printCompare(cmd.OutOrStdout(), &out); err != nil {
		return err
	}

	if code := stateExitCode(res.State); code != ExitMatch {
		return &CLIError{Code: code}
	}
	return nil
}

func printCompare(w io.Writer, out *compareOutput) error {
	if IsJSONOutput() {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintf(w, "%s: %.4f%% difference\n", out.State, out.DifferencePercent)
	for _, r := range out.Rectangles {
		fmt.Fprintf(w, "  %s %dx%d\n", r, r.Width(), r.Height())
	}
	if out.Output != "" {
		fmt.Fprintf(w, "annotated image: %s\n", out.Output)
	}
	return nil
}
