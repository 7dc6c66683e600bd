// Command runbookctl drives the incident diagnostic workflow from the
// command line: given a problem description, it runs classification,
// context gathering, diagnosis, recommendation, auto-approval,
// execution, verification, and summarization end to end. Given a
// runbook path instead, it executes that runbook against a synthetic
// incident built from -description.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/internal/config"
	"github.com/jordigilh/runbookengine/internal/wiring"
	"github.com/jordigilh/runbookengine/pkg/executor"
	"github.com/jordigilh/runbookengine/pkg/integration"
	"github.com/jordigilh/runbookengine/pkg/metrics"
	"github.com/jordigilh/runbookengine/pkg/runbook"
	"github.com/jordigilh/runbookengine/pkg/types"
)

func main() {
	description := flag.String("description", "", "free-text problem description")
	runbookPath := flag.String("runbook", "", "run this runbook file against a synthetic incident instead of diagnosing")
	maxVerifyAttempts := flag.Int("verify-attempts", 3, "max verification retry attempts")
	verifyInterval := flag.Duration("verify-interval", 10*time.Second, "delay between verification retries")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	logger, err := wiring.NewLogger(cfg.Logging)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	if *runbookPath != "" {
		runRunbookFile(ctx, cfg, logger, *runbookPath, *description)
		return
	}

	if *description == "" {
		fmt.Fprintln(os.Stderr, "usage: runbookctl -description \"...\" | -runbook path/to/runbook.yaml -description \"...\"")
		os.Exit(2)
	}

	o, err := wiring.NewOrchestrator(ctx, cfg, logger)
	if err != nil {
		fatal(err)
	}

	incident, verification, err := o.RunFullWorkflow(ctx, *description, *maxVerifyAttempts, *verifyInterval)
	if err != nil {
		logger.Error("workflow did not complete cleanly", zap.Error(err))
	}

	printJSON(map[string]interface{}{
		"incident":     incident,
		"verification": verification,
	})
}

// runRunbookFile loads and runs a single runbook against a synthetic
// incident, bypassing classification/diagnosis/recommendation entirely
// — useful for testing a runbook in isolation during authoring.
func runRunbookFile(ctx context.Context, cfg *config.Config, logger *zap.Logger, path, description string) {
	rb, err := runbook.LoadFile(path)
	if err != nil {
		fatal(err)
	}

	registry := integration.NewRegistry(cfg)
	ml, err := wiring.NewMLEngine(ctx, cfg, logger)
	if err != nil {
		fatal(err)
	}
	exec := executor.New(registry, ml, metrics.Noop())

	incident := &types.Incident{
		ID:          types.NewIncidentID(),
		Title:       rb.Name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	execution := exec.ExecuteRunbook(ctx, rb, incident, nil)
	printJSON(map[string]interface{}{
		"incident":  incident,
		"execution": execution,
	})
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "runbookctl:", err)
	os.Exit(1)
}
