package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/"+configFileName+")")
	storePath := flag.String("store", "", "state database, overrides store_path")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "wboard")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	} else {
		// stray log lines would corrupt the alt screen
		log.SetOutput(io.Discard)
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *storePath != "" {
		config.StorePath = *storePath
	}

	store, err := OpenKVStore(config.StorePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	measurer, err := newFontMeasurer()
	if err != nil {
		log.Printf("font: %v, falling back to estimated text sizes", err)
	}

	metrics := NewMetrics()
	if config.MetricsAddr != "" {
		srv := serveMetrics(config.MetricsAddr, metrics)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	board := restoreBoard(context.Background(), store)
	opts := []EditorOption{WithMetrics(metrics)}
	if measurer != nil {
		opts = append(opts, WithMeasurer(measurer))
	}
	editor := NewEditor(opts...)
	editor.Restore(board)

	m := model{
		editor:      editor,
		measurer:    measurer,
		config:      config,
		store:       store,
		saver:       NewAutoSaver(store, board, metrics),
		metrics:     metrics,
		view:        newViewport(),
		terminalURL: config.TerminalURL,
		terminals:   make(map[string]*terminalPane),
		now:         time.Now,
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if fm, ok := final.(model); ok {
		fm.closeTerminals()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func serveMetrics(addr string, m *Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics: %v", err)
		}
	}()
	return srv
}
