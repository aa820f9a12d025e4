package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"yashubustudio/beadplot/beadplot"
)

type cliOptions struct {
	configPath  string
	summaryPath string
	dataPath    string
	fileName    string
	model       string
	outputPath  string
	outputDir   string
	clipMode    string
	width       int
	height      int
	list        bool
}

func main() {
	_ = godotenv.Load(".env")
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("beadplot-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("beadplot-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.summaryPath, "summary", "", "Summary CSV with bead ranges and model predictions")
	flag.StringVar(&opts.dataPath, "data", "", "Raw data: a CSV file, a directory or a ZIP archive")
	flag.StringVar(&opts.fileName, "file", "", "Raw file to plot (default: every file in the summary)")
	flag.StringVar(&opts.model, "model", "", "Prediction column or model name used for highlighting")
	flag.StringVar(&opts.outputPath, "output", "", "PNG file to write when a single --file is plotted")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Directory where PNGs are written (default from config)")
	flag.StringVar(&opts.clipMode, "clip", "", "Out-of-range segments: clip, skip or error")
	flag.IntVar(&opts.width, "width", 0, "Chart width in pixels")
	flag.IntVar(&opts.height, "height", 0, "Height of each chart in pixels")
	flag.BoolVar(&opts.list, "list", false, "List files and prediction columns and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --summary FILE --data PATH [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.summaryPath = strings.TrimSpace(opts.summaryPath)
	opts.dataPath = strings.TrimSpace(opts.dataPath)
	opts.fileName = strings.TrimSpace(opts.fileName)
	opts.model = strings.TrimSpace(opts.model)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.outputDir = strings.TrimSpace(opts.outputDir)
	opts.clipMode = strings.TrimSpace(opts.clipMode)
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := beadplot.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(&cfg, opts)
	if cfg.SummaryPath == "" {
		flag.Usage()
		return errors.New("missing required --summary file")
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	service := beadplot.NewService(cfg, logger)
	cfg = service.Config()

	summary, err := service.LoadSummary(cfg.SummaryPath)
	if err != nil {
		return err
	}
	if opts.list {
		printListing(summary)
		return nil
	}
	if cfg.DataPath == "" {
		flag.Usage()
		return errors.New("missing required --data path")
	}
	if cfg.Model == "" {
		if names := summary.ModelNames(); len(names) > 0 {
			cfg.Model = names[0]
			logger.Printf("No --model given, using %s", cfg.Model)
		}
	}

	src, err := service.OpenSource(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}
	defer src.Close()

	files := summary.Files()
	if opts.fileName != "" {
		files = []string{opts.fileName}
	}
	if len(files) == 0 {
		return errors.New("summary does not list any files")
	}

	written := 0
	for _, name := range files {
		out := opts.outputPath
		if out == "" || len(files) > 1 {
			out = filepath.Join(cfg.OutputDir, beadplot.PlotFileName(name, cfg.Model))
		}
		err := plotOne(service, summary, src, name, cfg.Model, out)
		if errors.Is(err, beadplot.ErrFileNotFound) {
			logger.Printf("[WARN] %v", err)
			continue
		}
		if err != nil {
			return err
		}
		written++
		fmt.Printf("Wrote %s\n", out)
	}
	if written == 0 {
		return errors.New("no plots written")
	}
	return nil
}

func applyFlags(cfg *beadplot.Config, opts cliOptions) {
	if opts.summaryPath != "" {
		cfg.SummaryPath = opts.summaryPath
	}
	if opts.dataPath != "" {
		cfg.DataPath = opts.dataPath
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.clipMode != "" {
		cfg.ClipMode = beadplot.ClipMode(opts.clipMode)
	}
	if opts.width > 0 {
		cfg.ChartWidth = opts.width
	}
	if opts.height > 0 {
		cfg.ChartHeight = opts.height
	}
}

func plotOne(service *beadplot.Service, summary *beadplot.Summary, src beadplot.Source, name, model, out string) error {
	plot, err := service.Plot(summary, src, name, model)
	if err != nil {
		return err
	}
	img, err := service.Render(plot)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := beadplot.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printListing(summary *beadplot.Summary) {
	fmt.Println("Files:")
	for _, f := range summary.Files() {
		fmt.Printf("  %s\n", f)
	}
	fmt.Println("Prediction columns:")
	for _, m := range summary.Models() {
		correct := m.Correct
		if correct == "" {
			correct = "(no correctness column)"
		}
		fmt.Printf("  %s  %s\n", m.Prediction, correct)
	}
}
