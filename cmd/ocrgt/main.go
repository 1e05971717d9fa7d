// ocrgt is a command-line tool for OCR groundtruth documents in ALTO v3
// and PAGE 2013.
//
// It restricts groundtruth to a frame polygon, assembles the plain text
// of groundtruth and OCR candidates, exports trees as hOCR and renders
// a PDF preview of what a frame keeps.
//
// Usage:
//
//	ocrgt <command> [options] <file>...
//
// Commands:
//
//	frame    Filter a groundtruth file to a polygon and write the result
//	text     Print the text of one or more files
//	hocr     Export a groundtruth file or a Document AI JSON as hOCR
//	preview  Render a PDF preview of a (framed) groundtruth file
//
// Common options:
//
//	-config string  YAML configuration file
//	-v              Increase verbosity, may be repeated
//
// Examples:
//
// Filter a page to a rectangle:
//
//	ocrgt frame -points "100,100 900,1400" page.xml
//
// Print the dictionary text of candidates:
//
//	ocrgt text -dict -frame "100,100 900,1400" page.hocr page.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gardar/ocreval/internal/log"
	"github.com/gardar/ocreval/pkg/config"
	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/frame"
	"github.com/gardar/ocreval/pkg/gdocai"
	"github.com/gardar/ocreval/pkg/geometry"
	"github.com/gardar/ocreval/pkg/hocr"
	"github.com/gardar/ocreval/pkg/ocrfile"
	"github.com/gardar/ocreval/pkg/overlay"
	"github.com/gardar/ocreval/pkg/text"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return errUsage
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "frame":
		return runFrame(args, stdout)
	case "text":
		return runText(ctx, args, stdout)
	case "hocr":
		return runHOCR(args, stdout)
	case "preview":
		return runPreview(args, stdout)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Unknown command %q\n", cmd)
	usage(os.Stderr)
	return errUsage
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ocrgt <frame|text|hocr|preview> [options] <file>...")
	fmt.Fprintln(w, "Run 'ocrgt <command> -h' for the options of a command.")
}

// verbosity counts repeated -v flags.
type verbosity int

func (v *verbosity) String() string   { return strconv.Itoa(int(*v)) }
func (v *verbosity) IsBoolFlag() bool { return true }

func (v *verbosity) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*v++
	}
	return nil
}

// command bundles a flag set with the options every command shares.
type command struct {
	fs         *flag.FlagSet
	configPath *string
	verbose    verbosity
	cfg        *config.Config
}

func newCommand(name, args string) *command {
	c := &command{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	c.configPath = c.fs.String("config", "", "Path to a YAML configuration file")
	c.fs.Var(&c.verbose, "v", "Increase verbosity, may be repeated")
	c.fs.Usage = func() {
		fmt.Fprintf(c.fs.Output(), "Usage: ocrgt %s [options] %s\n", name, args)
		c.fs.PrintDefaults()
	}
	return c
}

// parse parses args, loads the configuration and sets the log level.
// A -v on the command line overrides the configured level.
func (c *command) parse(args []string, minArgs int) error {
	if err := c.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}
		return err
	}
	if c.fs.NArg() < minArgs {
		c.fs.Usage()
		return errUsage
	}
	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.verbose > 0 {
		log.SetVerbosity(int(c.verbose))
	} else {
		log.SetLevel(cfg.LogLevel)
	}
	return nil
}

// queryFrame parses points, falling back to the groundtruth frame of
// path when points is "gt". Empty points yield no frame.
func queryFrame(points, path string) (geometry.Polygon, error) {
	switch points {
	case "":
		return nil, nil
	case "gt":
		return ocrfile.GroundtruthFrame(path)
	}
	p, err := frame.ParseQuery(points)
	if err != nil {
		return nil, err
	}
	return text.ExpandFrame(p), nil
}

func runFrame(args []string, stdout io.Writer) error {
	c := newCommand("frame", "<file>")
	points := c.fs.String("points", "gt", `Frame as "x1,y1 x2,y2 ...", or "gt" for the groundtruth frame of the file`)
	output := c.fs.String("o", "", "Output path (default: input name with the configured infix)")
	asJSON := c.fs.Bool("json", false, "Print the change report as JSON")
	if err := c.parse(args, 1); err != nil {
		return err
	}
	path := c.fs.Arg(0)

	polygon, err := queryFrame(*points, path)
	if err != nil {
		return err
	}
	if len(polygon) == 0 {
		return fmt.Errorf("%w: empty frame", frame.ErrInvalidPoints)
	}
	tree, report, err := frame.Process(path, polygon, c.cfg.FilterOptions()...)
	if err != nil {
		return err
	}

	out := *output
	if out == "" {
		out = doctree.OutputPath(path, c.cfg.OutputInfix)
	}
	written, err := tree.WriteFile(out)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	log.Infof("%s: removed %d elements, wrote %s", path, report.RemovedTotal(), written)

	if *asJSON {
		s, err := gdocai.ToJSON(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, s)
	} else if report.Changed() {
		fmt.Fprintln(stdout, report.String())
	}
	return nil
}

func runText(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCommand("text", "<file>...")
	points := c.fs.String("frame", "", `Frame as "x1,y1 x2,y2 ...", or "gt" for the groundtruth frame of each file`)
	dict := c.fs.Bool("dict", false, "Stitch hyphenated wraps and strip punctuation and digits")
	oneliner := c.fs.Bool("oneliner", false, "Print the text of each file on a single line")
	form := c.fs.String("norm", "", "Unicode normalization form (default from config)")
	ligatures := c.fs.Bool("ligatures", false, "Replace vowels with combining small e by umlauts")
	if err := c.parse(args, 1); err != nil {
		return err
	}
	nf := c.cfg.Form()
	if *form != "" {
		f, err := text.ParseForm(*form)
		if err != nil {
			return err
		}
		nf = f
	}

	extract := func(path string) ([]string, error) {
		polygon, err := queryFrame(*points, path)
		if err != nil {
			return nil, err
		}
		lines, err := text.FileLines(path, polygon, c.cfg.FilterOptions()...)
		if err != nil {
			return nil, err
		}
		if *ligatures {
			for i, line := range lines {
				if lines[i], err = text.NormalizeVocalLigatures(line); err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
			}
		}
		if *dict {
			lines = text.DictLines(lines)
		}
		return text.NormalizeLines(lines, nf), nil
	}

	docs, err := text.Batch(ctx, c.fs.Args(), c.cfg.Workers, extract)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return errors.New("no file could be read")
	}
	for _, doc := range docs {
		if len(docs) > 1 {
			fmt.Fprintf(stdout, "# %s\n", doc.Path)
		}
		if *oneliner {
			fmt.Fprintln(stdout, strings.Join(doc.Lines, " "))
			continue
		}
		for _, line := range doc.Lines {
			fmt.Fprintln(stdout, line)
		}
	}
	log.Infof("extracted text of %d of %d files", len(docs), c.fs.NArg())
	return nil
}

func runHOCR(args []string, stdout io.Writer) error {
	c := newCommand("hocr", "<file>")
	points := c.fs.String("frame", "", `Frame as "x1,y1 x2,y2 ...", or "gt" for the groundtruth frame`)
	output := c.fs.String("o", "", "Output path (default: stdout)")
	if err := c.parse(args, 1); err != nil {
		return err
	}
	path := c.fs.Arg(0)

	var h *hocr.HOCR
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err := gdocai.ReadDocument(path)
		if err != nil {
			return err
		}
		if h, err = gdocai.CreateHOCRStruct(doc); err != nil {
			return err
		}
	} else {
		tree, _, err := readFramed(c.cfg, path, *points)
		if err != nil {
			return err
		}
		if h, err = hocr.FromTree(tree); err != nil {
			return err
		}
	}

	html, err := hocr.GenerateHOCRDocument(h)
	if err != nil {
		return err
	}
	if *output == "" {
		_, err = io.WriteString(stdout, html)
		return err
	}
	if err := os.WriteFile(*output, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *output, err)
	}
	log.Infof("wrote %s", *output)
	return nil
}

func runPreview(args []string, stdout io.Writer) error {
	c := newCommand("preview", "<file>")
	points := c.fs.String("frame", "gt", `Frame as "x1,y1 x2,y2 ...", "gt" for the groundtruth frame, or "" for none`)
	imagePath := c.fs.String("image", "", "Page image to place behind the text")
	output := c.fs.String("o", "", "Output PDF path (default: input name with .pdf)")
	if err := c.parse(args, 1); err != nil {
		return err
	}
	path := c.fs.Arg(0)

	tree, polygon, err := readFramed(c.cfg, path, *points)
	if err != nil {
		return err
	}

	var image []byte
	if *imagePath != "" {
		if image, err = os.ReadFile(*imagePath); err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
	}
	data, err := overlay.RenderTree(tree, polygon, image, c.cfg.OverlayConfig())
	if err != nil {
		return err
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
	}
	if err := overlay.WriteFile(out, data); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Preview created:", out)
	return nil
}

// readFramed reads the tree at path and filters it when points name a
// frame. It returns the frame used.
func readFramed(cfg *config.Config, path, points string) (*doctree.Tree, geometry.Polygon, error) {
	polygon, err := queryFrame(points, path)
	if err != nil {
		return nil, nil, err
	}
	tree, err := ocrfile.Read(path)
	if err != nil {
		return nil, nil, err
	}
	if len(polygon) > 0 {
		if _, err := frame.New(polygon, cfg.FilterOptions()...).Apply(tree); err != nil {
			return nil, nil, err
		}
	}
	return tree, polygon, nil
}
