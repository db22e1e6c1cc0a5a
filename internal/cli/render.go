package cli

import (
	"context"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/httputil"
	"github.com/matzehuels/tagcloud/pkg/pipeline"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
)

// renderFlags holds the command-line flags shared by render and pick.
// Only flags set explicitly override the loaded settings.
type renderFlags struct {
	output  string // primary output file; its extension picks the format
	formats string // extra formats written next to output (comma-separated)
	noCache bool
	refresh bool

	width, height int
	scale         float64
	padding       float64
	overflow      string

	font             string
	minFont, maxFont int

	palette    string
	background string
	colors     []string

	algorithm  string
	angleStep  float64
	radiusStep float64
	maxSamples int
	compaction float64

	boring    string
	stopwords bool
	minLength int
	maxWords  int
}

func (f *renderFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.output, "output", "o", "", "output file; the extension selects the format (default: <input>.png)")
	fs.StringVarP(&f.formats, "format", "f", "", "additional formats written next to the output: png, jpg, gif, bmp, tiff, svg, json (comma-separated)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results and render again")

	fs.IntVar(&f.width, "width", 0, "canvas width in pixels (default 800)")
	fs.IntVar(&f.height, "height", 0, "canvas height in pixels (default 600)")
	fs.Float64Var(&f.scale, "scale", 0, "supersampling factor, 1 to 4 (default 1)")
	fs.Float64Var(&f.padding, "padding", 0, "space around each word in pixels (default 2)")
	fs.StringVar(&f.overflow, "overflow", "", "words that do not fit: abort (default), skip")

	fs.StringVar(&f.font, "font", "", "built-in font (regular, bold, mono, italic) or a .ttf/.otf file")
	fs.IntVar(&f.minFont, "min-font", 0, "smallest font size in points (default 15)")
	fs.IntVar(&f.maxFont, "max-font", 0, "largest font size in points (default 35)")

	fs.StringVar(&f.palette, "palette", "", "palette: solid (default), wheel, gradient")
	fs.StringVar(&f.background, "background", "", "background color, e.g. #ffffff")
	fs.StringSliceVar(&f.colors, "colors", nil, "word colors, e.g. #2563eb,#1f2937")

	fs.StringVar(&f.algorithm, "layout", "", "layout algorithm: spiral (default), rows")
	fs.Float64Var(&f.angleStep, "angle-step", 0, "spiral angle increment in radians")
	fs.Float64Var(&f.radiusStep, "radius-step", 0, "spiral radius growth per radian")
	fs.IntVar(&f.maxSamples, "max-samples", 0, "spiral points tried per word before giving up")
	fs.Float64Var(&f.compaction, "compaction", 0, "step for pulling words toward the center (0 disables)")

	f.registerWords(fs)
}

// registerWords adds only the word filtering flags.
func (f *renderFlags) registerWords(fs *pflag.FlagSet) {
	fs.StringVar(&f.boring, "boring", "", "file of words to ignore")
	fs.BoolVar(&f.stopwords, "stopwords", false, "also ignore common English words")
	fs.IntVar(&f.minLength, "min-length", 0, "ignore words shorter than this")
	fs.IntVar(&f.maxWords, "max-words", 0, "keep only the most frequent words")
}

// apply overrides opts with the flags that were set on the command line.
func (f *renderFlags) apply(fs *pflag.FlagSet, opts *pipeline.Options) {
	set := func(name string) bool { return fs.Changed(name) }
	if set("width") {
		opts.Width = f.width
	}
	if set("height") {
		opts.Height = f.height
	}
	if set("scale") {
		opts.Scale = f.scale
	}
	if set("padding") {
		opts.Padding = f.padding
	}
	if set("overflow") {
		opts.Overflow = f.overflow
	}
	if set("font") {
		opts.Font = f.font
	}
	if set("min-font") {
		opts.FontRange.Min = f.minFont
	}
	if set("max-font") {
		opts.FontRange.Max = f.maxFont
	}
	if set("palette") {
		opts.Palette = f.palette
	}
	if set("background") {
		opts.Background = f.background
	}
	if set("colors") {
		opts.Colors = f.colors
	}
	if set("layout") {
		opts.Algorithm = f.algorithm
	}
	if set("angle-step") {
		opts.AngleStep = f.angleStep
	}
	if set("radius-step") {
		opts.RadiusStep = f.radiusStep
	}
	if set("max-samples") {
		opts.MaxSamples = f.maxSamples
	}
	if set("compaction") {
		opts.Compaction = f.compaction
	}
	if set("boring") {
		opts.BoringPath = f.boring
	}
	if set("stopwords") {
		opts.Stopwords = f.stopwords
	}
	if set("min-length") {
		opts.MinLength = f.minLength
	}
	if set("max-words") {
		opts.MaxUnique = f.maxWords
	}
	opts.Refresh = f.refresh
}

// outputPlan maps each format to the file it is written to.
type outputPlan struct {
	formats []string
	paths   map[string]string
}

// planOutputs resolves the primary output and the extra formats. Without an
// explicit output the settings' output path is used, and without that the
// input name with a .png extension.
func planOutputs(output, defaultOutput, extra, input string) (outputPlan, error) {
	if output == "" {
		output = defaultOutput
	}
	if output == "" {
		output = outputBase(input) + sink.PNG.Extension()
	}
	primary, err := sink.ResolveFormat(output)
	if err != nil {
		return outputPlan{}, err
	}

	plan := outputPlan{paths: map[string]string{string(primary): output}}
	plan.formats = append(plan.formats, string(primary))
	base := strings.TrimSuffix(output, filepath.Ext(output))
	for _, name := range parseFormats(extra) {
		f, err := sink.ParseFormat(name)
		if err != nil {
			return outputPlan{}, err
		}
		if _, ok := plan.paths[string(f)]; ok {
			continue
		}
		plan.paths[string(f)] = base + f.Extension()
		plan.formats = append(plan.formats, string(f))
	}
	return plan, nil
}

// outputBase derives an output name without extension from the input. URLs
// are named after their last path element, in the working directory.
func outputBase(input string) string {
	switch {
	case input == "" || input == "-":
		return "cloud"
	case httputil.IsURL(input):
		u, err := url.Parse(input)
		if err != nil {
			return "cloud"
		}
		name := path.Base(u.Path)
		name = strings.TrimSuffix(name, path.Ext(name))
		if name == "" || name == "." || name == "/" {
			return "cloud"
		}
		return name
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <words-file>",
		Short: "Render a text file as a tag cloud",
		Long: `Render counts the words of a text file and draws them as a tag cloud.

The input may also be an http(s) URL; HTML pages are reduced to their
visible text. Use "-" to read the text from standard input. The output extension selects
the format; --format writes additional formats next to it.`,
		Example: `  tagcloud render speech.txt
  tagcloud render speech.txt -o cloud.svg --format png,json
  tagcloud render speech.txt --stopwords --max-words 80 --palette wheel
  tagcloud render https://go.dev/doc/effective_go -o effective.svg
  cat notes.md | tagcloud render - -o notes.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.renderOptions(cmd, &flags, args[0])
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, &flags)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

// renderOptions merges settings and flags into pipeline options for input.
func (c *CLI) renderOptions(cmd *cobra.Command, flags *renderFlags, input string) (pipeline.Options, error) {
	opts := pipeline.FromSettings(c.settings)
	flags.apply(cmd.Flags(), &opts)
	opts.Source = input
	if input == "-" {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read standard input")
		}
		opts.Source = "stdin"
		opts.Text = text
	}
	return opts, nil
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags *renderFlags) error {
	logger := loggerFromContext(ctx)

	extra := flags.formats
	if extra == "" {
		extra = strings.Join(opts.Formats, ",")
	}
	input := opts.Source
	if opts.Text != nil {
		input = "-"
	}
	plan, err := planOutputs(flags.output, c.settings.Output.Path, extra, input)
	if err != nil {
		return err
	}
	opts.Formats = plan.formats
	opts.Logger = pipelineLogger(logger)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+opts.Source+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered "+opts.Source, "placed", res.Stats.Placed, "dropped", res.Stats.Dropped, "cached", res.CacheInfo.RenderHit)

	var written []string
	for _, f := range plan.formats {
		file := plan.paths[f]
		if err := sink.WriteFile(file, res.Artifacts[f]); err != nil {
			return err
		}
		written = append(written, file)
	}

	printSuccess("Rendered %d words", res.Stats.Placed)
	printStats(res.Stats.Words, res.Stats.Placed, res.Stats.Dropped, res.CacheInfo.RenderHit)
	for _, file := range written {
		printFile(file)
	}
	if res.Stats.Dropped > 0 {
		printWarning("%d words did not fit: %s", res.Stats.Dropped, strings.Join(res.Dropped, ", "))
	}

	c.record(ctx, opts, res, written)
	return nil
}

// pipelineLogger keeps per-stage pipeline logs out of the way unless
// debugging.
func pipelineLogger(l *log.Logger) *log.Logger {
	if l.GetLevel() <= log.DebugLevel {
		return l
	}
	quiet := l.With()
	quiet.SetLevel(log.WarnLevel)
	return quiet
}
