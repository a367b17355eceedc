// Command trackrun is a thin wrapper around the track package: it loads a
// YAML tuning file, runs track.Track against an IF-sample file or live
// capture, and writes a timestamped result summary. CLI parsing and result
// serialisation are deliberately minimal, the way the teacher's cmd/*/main.go
// binaries are thin wrappers around the direwolf package's exported entry
// points.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"

	"github.com/charmbracelet/log"

	"github.com/kgstrand/gnsstrack/internal/config"
	"github.com/kgstrand/gnsstrack/internal/sampleio"
	"github.com/kgstrand/gnsstrack/internal/tracklog"
	"github.com/kgstrand/gnsstrack/track"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to the YAML tuning file (required)")
		samplePath = pflag.StringP("samples", "s", "", "path to a flat float32 IF-sample file (omit to capture live audio)")
		outPattern = pflag.StringP("out-pattern", "o", "track-%Y%m%dT%H%M%S.log", "strftime pattern for the result log file name")
		verbose    = pflag.BoolP("verbose", "v", false, "enable debug-level logging")
	)
	pflag.Parse()

	level := log.InfoLevel
	if *verbose {
		level = log.DebugLevel
	}
	logger := tracklog.New(level)

	if *configPath == "" {
		logger.Error("missing required flag", "flag", "--config")
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *samplePath, *outPattern, logger); err != nil {
		logger.Error("trackrun failed", "err", err)
		os.Exit(1)
	}
}

func run(configPath, samplePath, outPattern string, logger *tracklog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var stream track.SampleStream

	if samplePath != "" {
		fs, err := sampleio.OpenFileStream(samplePath, cfg.SamplingFreq)
		if err != nil {
			return err
		}
		defer fs.Close()
		stream = fs
		logger.Info("opened sample file", "path", samplePath, "samples", fs.Len())
	} else {
		pa, err := sampleio.OpenPortAudioStream(cfg.SamplingFreq)
		if err != nil {
			return err
		}
		defer pa.Close()
		stream = pa
		logger.Info("capturing live audio")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := cfg.Options()
	opts.Progress = progressLogger{logger: logger}

	results, err := track.Track(ctx, stream, cfg.ChannelSeeds(), opts)
	if err != nil {
		return err
	}

	return writeResults(outPattern, results, logger)
}

type progressLogger struct {
	logger *tracklog.Logger
}

func (p progressLogger) Report(channelIndex int, fractionDone float64) {
	p.logger.Debug("progress", "channel", channelIndex, "fraction", fractionDone)
}

func writeResults(pattern string, results []track.TrackResult, logger *tracklog.Logger) error {
	name, err := strftime.Format(pattern, time.Now())
	if err != nil {
		return fmt.Errorf("trackrun: format output name %q: %w", pattern, err)
	}

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("trackrun: create %s: %w", name, err)
	}
	defer f.Close()

	for _, r := range results {
		fmt.Fprintf(f, "prn=%d status=%c steps=%d\n", r.PRN, r.Status, r.Len())
	}

	logger.Info("wrote results", "path", name, "channels", len(results))
	return nil
}
