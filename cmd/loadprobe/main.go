// Command loadprobe runs one entity load against the configured result
// source and reports the materialized graph plus load-engine metrics. It is
// a smoke-check for mapping files and storage configuration.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"hydracore/internal/core"
	"hydracore/internal/results"
	"hydracore/pkg/domain"
)

var exitFunc = os.Exit

// main runs the command-line interface using the program arguments and exits
// the process with the status code returned by cli.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("loadprobe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		mappingsPath string
		entity       string
		id           string
		verbose      bool
	)
	fs.StringVar(&mappingsPath, "mappings", "mappings.json", "path to entity mappings json")
	fs.StringVar(&entity, "entity", "", "entity name to load")
	fs.StringVar(&id, "id", "", "entity identifier to load")
	fs.BoolVar(&verbose, "v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if entity == "" || id == "" {
		fmt.Fprintln(stderr, "loadprobe: -entity and -id are required")
		return 2
	}
	if err := run(stdout, stderr, mappingsPath, entity, id, verbose); err != nil {
		fmt.Fprintf(stderr, "loadprobe: %v\n", err)
		return 1
	}
	return 0
}

// run opens the env-configured result source, performs the probe load, and
// writes the materialized entity and a metrics snapshot as JSON.
func run(stdout, stderr io.Writer, mappingsPath, entity, id string, verbose bool) error {
	mappings, err := readMappings(mappingsPath)
	if err != nil {
		return err
	}
	source, err := core.OpenResultSource(mappings)
	if err != nil {
		return fmt.Errorf("open result source: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	metrics := core.NewExpvarMetricsRecorder("")

	session, err := core.NewSession(source, mappings, core.WithLogger(log), core.WithMetrics(metrics))
	if err != nil {
		_ = source.Close()
		return err
	}
	defer func() { _ = session.Close() }()

	instance, err := results.NewLoader(session).LoadEntity(context.Background(), entity, id)
	if err != nil {
		return fmt.Errorf("load %s#%s: %w", entity, id, err)
	}

	report := struct {
		Session string                     `json:"session"`
		Entity  probeEntity                `json:"entity"`
		Metrics core.ExpvarMetricsSnapshot `json:"metrics"`
	}{
		Session: session.ID().String(),
		Entity:  renderEntity(instance),
		Metrics: metrics.Snapshot(),
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// probeEntity is the report form of a materialized instance. Collections are
// flattened to element keys so cyclic graphs stay encodable.
type probeEntity struct {
	Key         string              `json:"key"`
	Values      map[string]any      `json:"values"`
	Collections map[string][]string `json:"collections,omitempty"`
}

func renderEntity(e *domain.Entity) probeEntity {
	out := probeEntity{Key: e.Key.String(), Values: e.Values}
	if len(e.Collections) > 0 {
		out.Collections = make(map[string][]string, len(e.Collections))
		for role, elements := range e.Collections {
			keys := make([]string, 0, len(elements))
			for _, el := range elements {
				keys = append(keys, el.Key.String())
			}
			out.Collections[role] = keys
		}
	}
	return out
}

func readMappings(path string) ([]domain.EntityMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mappings: %w", err)
	}
	var mappings []domain.EntityMapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("parse mappings: %w", err)
	}
	if len(mappings) == 0 {
		return nil, fmt.Errorf("mappings file %s contains no entities", path)
	}
	return mappings, nil
}
