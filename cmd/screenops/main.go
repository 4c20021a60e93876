package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/screenops/screenops/internal/config"
	"github.com/screenops/screenops/internal/device"
	"github.com/screenops/screenops/internal/logging"
	"github.com/screenops/screenops/internal/perception"
	"github.com/screenops/screenops/internal/registry"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: screenops <playbook.yaml>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		slog.Error("playbook failed", "error", err)
		os.Exit(1)
	}
}

func run(playbookPath string) error {
	pb, err := config.LoadPlaybook(playbookPath)
	if err != nil {
		return err
	}

	// A device.toml next to the playbook pins settings to one target.
	profile, err := config.LoadDeviceProfile(filepath.Join(filepath.Dir(playbookPath), "device.toml"))
	if err != nil {
		return err
	}
	profile.Apply(&pb)

	level, err := logging.ParseLevel(pb.LogLevel)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(level, pb.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	// Setup context with manual signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	defer func() {
		signal.Stop(sigChan)
		cancel()
	}()

	go func() {
		sig := <-sigChan
		logger.Info("interrupt received, current run will finish", "signal", sig)
		cancel()
	}()

	dev := device.NewADB(pb.Device.ADBPath, pb.Device.Serial,
		time.Duration(pb.Device.CommandTimeoutSec*float64(time.Second)))

	var extractor perception.TextExtractor
	if pb.Perception.OCRURL != "" {
		extractor = perception.NewHTTPExtractor(pb.Perception.OCRURL)
	}
	var describer perception.SemanticDescriber
	if d := pb.Perception.Describer; d.BaseURL != "" {
		describer = perception.NewVisionDescriber(d.BaseURL, os.Getenv(d.APIKeyEnv), d.Model)
	}

	reg := registry.New(dev, extractor, describer, logger)
	if err := reg.LoadAll(ctx, pb.Forests); err != nil {
		return err
	}

	// Runs execute strictly one after another: the device is a single
	// shared resource.
	succeeded, failed := 0, 0
	for _, id := range pb.Runs {
		if ctx.Err() != nil {
			logger.Warn("skipping remaining runs", "skipped_from", id)
			break
		}
		if reg.Run(ctx, id) {
			succeeded++
		} else {
			failed++
		}
	}

	name := playbookPath
	if pb.Name != nil {
		name = *pb.Name
	}
	fmt.Printf("\nPlaybook: %s\n", name)
	fmt.Printf("Runs: %d\n", len(pb.Runs))
	fmt.Printf("Succeeded: %d\n", succeeded)
	fmt.Printf("Failed: %d\n", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(pb.Runs))
	}
	return nil
}
