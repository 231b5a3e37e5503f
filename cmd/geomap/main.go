package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"geoshape/internal/config"
	applog "geoshape/internal/log"
	"geoshape/internal/tui"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file.yaml] [shapes.geojson|shapes.csv]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// the alt screen owns the terminal; logs only go to the optional file
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
		Console:   io.Discard,
	})
	log := applog.WithComponent("main")

	var m tea.Model
	if flag.NArg() > 0 {
		m = tui.NewWithPath(cfg, flag.Arg(0))
	} else {
		m = tui.New(cfg)
	}
	log.Info("starting", slog.String("backend", cfg.Backend), slog.String("projection", cfg.Projection))
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		log.Error("program exited", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
