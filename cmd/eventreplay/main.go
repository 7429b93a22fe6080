// Command eventreplay loads a page and component scripts, replays native
// events through the event dispatcher and reports what each one triggered.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/chrisuehlinger/eventdispatch/config"
	"github.com/chrisuehlinger/eventdispatch/replay"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	pagePath := flag.String("page", "", "HTML page to load")
	replayPath := flag.String("replay", "", "TOML replay script")
	format := flag.String("format", "text", "Output format: text, json or msgpack")
	verbose := flag.Bool("v", false, "Log at debug level")
	flag.Parse()

	switch *format {
	case "text", "json", "msgpack":
	default:
		fmt.Fprintf(os.Stderr, "Unknown format %q\n", *format)
		os.Exit(2)
	}
	if *pagePath == "" || *replayPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -page <page.html> -replay <events.toml> [options] [component.js...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	log := logrus.NewEntry(logger)

	runner := replay.NewRunner(cfg, log)
	defer runner.Close()

	for _, path := range flag.Args() {
		src, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).Fatal("reading component script")
		}
		if err := runner.LoadScript(string(src), filepath.Base(path)); err != nil {
			log.WithError(err).Fatal("loading component script")
		}
	}

	page, err := os.ReadFile(*pagePath)
	if err != nil {
		log.WithError(err).Fatal("reading page")
	}
	if err := runner.Start(string(page)); err != nil {
		log.WithError(err).Fatal("starting dispatcher")
	}

	rp, err := config.LoadReplay(*replayPath)
	if err != nil {
		log.WithError(err).Fatal("loading replay")
	}
	results := runner.Run(rp)

	switch *format {
	case "json":
		data, err := runner.ExportJSON()
		if err != nil {
			log.WithError(err).Fatal("exporting JSON")
		}
		fmt.Println(string(data))
	case "msgpack":
		data, err := runner.ExportMsgpack()
		if err != nil {
			log.WithError(err).Fatal("exporting msgpack")
		}
		os.Stdout.Write(data)
	default:
		for _, res := range results {
			printResult(res)
		}
		handled, ignored, failed := runner.Summary()
		fmt.Printf("\nSummary: %d handled, %d ignored, %d failed\n", handled, ignored, failed)
	}

	for _, w := range runner.Deprecations() {
		fmt.Fprintf(os.Stderr, "deprecated: %s (%s)\n", w.Message, w.Site)
	}

	if _, _, failed := runner.Summary(); failed > 0 {
		os.Exit(1)
	}
}

func printResult(res replay.StepResult) {
	fmt.Printf("%3d %-8s %-10s %s (%d handlers, %.2fms)\n",
		res.Index, res.Status, res.Type, res.Target, res.Handlers, float64(res.Duration.Microseconds())/1000)
	if res.Error != "" {
		fmt.Printf("      ERROR: %s\n", res.Error)
	}
	for _, call := range res.Actions {
		fmt.Printf("      action %s\n", call)
	}
	if res.DefaultPrevented {
		fmt.Printf("      default prevented\n")
	}
}
