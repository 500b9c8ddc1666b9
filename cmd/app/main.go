// Plant Disease Detector
// Estimates the diseased share of a leaf photo from its red and green channels.

package main

import (
	"errors"
	"fmt"
	stdio "io"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"plant-disease-detector/internal/algorithms"
	"plant-disease-detector/internal/config"
	"plant-disease-detector/internal/core"
	"plant-disease-detector/internal/disease"
	"plant-disease-detector/internal/gui"
	"plant-disease-detector/internal/io"
	"plant-disease-detector/internal/metrics"
	"plant-disease-detector/internal/report"
)

const (
	exitFailure      = 1
	exitMissingInput = 2
)

type rootFlags struct {
	ConfigPath string
	Threshold  int
	Debug      bool
	LogFile    string
	Headless   bool
	Format     string
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the root command and maps its error to an exit code. Reports
// go to out and log entries to logOut.
func execute(args []string, out, logOut stdio.Writer) int {
	cmd := newRootCmd(out, logOut)
	cmd.SetArgs(args)
	return exitCode(cmd.Execute())
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, io.ErrMissingInput):
		return exitMissingInput
	default:
		return exitFailure
	}
}

func newRootCmd(out, logOut stdio.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "plant-disease-detector [image]",
		Short:         "Estimate the diseased share of a plant leaf photo",
		Version:       config.AppVersion,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}

			logger, closeLog := initLogger(logOut, cfg.Debug, cfg.LogFile)
			defer closeLog()

			logger.WithFields(logrus.Fields{
				"version":    config.AppVersion,
				"debug_mode": cfg.Debug,
				"headless":   flags.Headless,
				"threshold":  cfg.Threshold,
			}).Info("Starting Plant Disease Detector")

			path, inputErr := io.ResolveInput(args)
			switch {
			case flags.Headless && inputErr != nil:
				err = inputErr
			case flags.Headless:
				err = runHeadless(cfg, path, flags.Format, out, logger)
			case errors.Is(inputErr, io.ErrMissingInput):
				// the window asks for a file instead
				err = runGUI(cfg, "", logger)
			default:
				err = runGUI(cfg, path, logger)
			}

			if errors.Is(err, io.ErrMissingInput) {
				logger.Error("No File!")
			} else if err != nil {
				logger.WithError(err).Error("Analysis failed")
			}
			return err
		},
	}

	cmd.SetOut(out)
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to a YAML configuration file")
	cmd.Flags().IntVarP(&flags.Threshold, "threshold", "t", int(disease.DefaultThreshold), "Initial Processing Factor (0-255)")
	cmd.Flags().BoolVar(&flags.Debug, "debug", false, "Enable debug mode with verbose logging")
	cmd.Flags().StringVar(&flags.LogFile, "log-file", "", "Also write logs to this file (rotated)")
	cmd.Flags().BoolVar(&flags.Headless, "headless", false, "Print the result instead of opening a window")
	cmd.Flags().StringVar(&flags.Format, "format", report.FormatText, "Headless output format: text or yaml")

	return cmd
}

// resolveConfig loads the config file and applies the flags the user set.
func resolveConfig(cmd *cobra.Command, flags rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = flags.Threshold
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = flags.Debug
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = flags.LogFile
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := algorithms.ValidateGallery(cfg.Gallery); err != nil {
		return cfg, err
	}
	if flags.Format != report.FormatText && flags.Format != report.FormatYAML {
		return cfg, fmt.Errorf("unknown format %q", flags.Format)
	}
	return cfg, nil
}

// runHeadless analyzes path once at the configured threshold and writes
// the report to out.
func runHeadless(cfg config.Config, path, format string, out stdio.Writer, logger logrus.FieldLogger) error {
	mat, err := io.NewImageLoader(logger).LoadImage(path)
	if err != nil {
		return err
	}
	defer mat.Close()

	bgr, err := core.NormalizeColor(mat)
	if err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}
	defer bgr.Close()

	res, err := disease.Analyze(bgr, cfg.BackgroundCutoff, disease.Threshold(cfg.Threshold))
	if err != nil {
		return err
	}
	defer res.Close()

	logger.WithFields(logrus.Fields{
		"filepath":   path,
		"threshold":  cfg.Threshold,
		"percentage": disease.Round2(res.Estimate.Percentage),
	}).Info("HEADLESS: Analysis complete")

	var values map[string]float64
	if format == report.FormatYAML {
		values = metrics.NewEvaluator().CalculateAll(res)
	}
	return report.Write(out, report.New(path, res, values), format)
}

func runGUI(cfg config.Config, path string, logger logrus.FieldLogger) error {
	myApp := app.NewWithID(config.AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	err := gui.NewApplication(myApp, cfg, logger).Run(path)
	logger.Info("Application shutting down gracefully")
	return err
}

// initLogger initializes the logger with appropriate level. Entries go to w,
// and a non-empty logFile adds a rotated file next to it.
func initLogger(w stdio.Writer, debugMode bool, logFile string) (*logrus.Logger, func()) {
	logger := logrus.New()
	logger.SetOutput(w)
	closeLog := func() {}

	if logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		logger.SetOutput(stdio.MultiWriter(w, rotator))
		closeLog = func() { rotator.Close() }
	}

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger, closeLog
}
