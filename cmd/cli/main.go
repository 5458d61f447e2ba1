package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/weft/internal/app"
	"github.com/vk/weft/internal/cli"
	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/flagparse"
	"github.com/vk/weft/internal/hclmanifest"
	"github.com/vk/weft/internal/yamlmanifest"
)

// main is the entrypoint for the weft application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		var usageErr *flagparse.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, usageErr.Message)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	appConfig, argv, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors, so we recover here to provide
	// a clean exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(outW, "A critical startup error occurred: %v\n", r)
			os.Exit(1)
		}
	}()

	weftApp := app.NewApp(outW, appConfig, loaderFor(appConfig.ManifestPath))

	res, err := weftApp.Run(context.Background(), argv)
	if err != nil {
		return err
	}
	if s, ok := res.(string); ok && s != "" {
		fmt.Fprintln(outW, s)
	}
	return nil
}

// loaderFor picks the manifest loader by path extension. Directories and
// anything not recognizably YAML default to HCL.
func loaderFor(path string) config.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlmanifest.NewLoader()
	default:
		return hclmanifest.NewLoader()
	}
}
