// glbtool converts painting images into GLB models for AR viewing.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/artglb/internal/asset"
	"github.com/Faultbox/artglb/internal/batch"
	"github.com/Faultbox/artglb/internal/config"
	"github.com/Faultbox/artglb/internal/logger"
)

func main() {
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Log.Debug("config loaded",
		zap.String("source", cfg.Source),
		zap.Int("workers", cfg.Batch.Workers),
		zap.Int("max_edge", cfg.Image.MaxEdge),
		zap.String("filter", cfg.Image.Filter),
	)

	var code int
	switch command {
	case "build":
		code = cmdBuild(cfg, args)
	case "batch":
		code = cmdBatch(cfg, args)
	case "info":
		code = cmdInfo(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = 1
	}

	logger.Sync()
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`glbtool - painting to GLB converter

Usage:
  glbtool [flags] <command> [options]

Commands:
  build <image> <output.glb> <width_cm> <height_cm> [-name N]   Convert one painting
  batch <manifest.yaml>                                         Convert every painting in a manifest
  info <file.glb>                                               Show the structure of a GLB file

Flags:
  -config <path>     Config file (default ./glbtool.yaml or the user config dir)
  -debug             Enable debug logging
  -workers <n>       Concurrent batch workers
  -max-edge <px>     Longest texture edge
  -quality <1-100>   Texture JPEG quality
  -filter <name>     Downscale filter: lanczos or catmullrom
  -log-file <path>   Also write a rotated JSON log

Examples:
  glbtool build starry_night.jpg models/painting_starry_night.glb 92 73 -name "Starry Night"
  glbtool -workers 8 batch catalog.yaml
  glbtool info models/painting_starry_night.glb`)
}

func builderOptions(cfg *config.Config) asset.Options {
	return asset.Options{
		Image:    cfg.ImageOptions(),
		Document: cfg.DocumentOptions(),
	}
}

func cmdBuild(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	name := fs.String("name", "", "Node name stored in the model")
	fs.Parse(args)

	// Allow -name after the positional arguments.
	pos := fs.Args()
	if len(pos) > 4 {
		fs.Parse(pos[4:])
		pos = pos[:4]
	}
	if len(pos) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: glbtool build <image> <output.glb> <width_cm> <height_cm> [-name N]")
		return 1
	}

	width, err := parseCentimeters(pos[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: width: %v\n", err)
		return 1
	}
	height, err := parseCentimeters(pos[3])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: height: %v\n", err)
		return 1
	}

	b := asset.NewBuilder(builderOptions(cfg), logger.Log)
	res, err := b.Build(asset.Request{
		Name:        *name,
		Source:      pos[0],
		Destination: pos[1],
		WidthCM:     width,
		HeightCM:    height,
	})
	if err != nil {
		logger.Log.Error("asset failed", zap.String("source", pos[0]), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger.Log.Info("asset written", zap.String("destination", res.Destination), zap.Int64("bytes", res.Bytes))
	fmt.Printf("%s (%d bytes, texture %dx%d)\n", res.Destination, res.Bytes, res.TextureWidth, res.TextureHeight)
	return 0
}

func cmdBatch(cfg *config.Config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: glbtool batch <manifest.yaml>")
		return 1
	}

	reqs, err := batch.LoadManifest(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	b := asset.NewBuilder(builderOptions(cfg), logger.Log)
	report := batch.NewDriver(b, cfg.Batch.Workers, logger.Log).Run(reqs)

	for _, o := range report.Outcomes {
		if o.Err != nil {
			fmt.Printf("FAIL %s: %v\n", o.Request.Source, o.Err)
			continue
		}
		fmt.Printf("OK   %s (%d bytes)\n", o.Result.Destination, o.Result.Bytes)
	}
	fmt.Fprintf(os.Stderr, "\n%d written, %d failed\n", report.Succeeded, report.Failed)

	if report.Failed > 0 {
		return 1
	}
	return 0
}

// parseCentimeters parses a positive physical dimension.
func parseCentimeters(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %v", v)
	}
	return v, nil
}
