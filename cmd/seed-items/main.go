// Seeds the checklist item catalog and the equipment list.
// cmd/seed-items/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"energy-center-checklist/config"
	"energy-center-checklist/models"
	"energy-center-checklist/services"

	"go.uber.org/zap"
)

// seedFile is the JSON layout read with -file.
type seedFile struct {
	Items     []models.ItemTemplate `json:"itens"`
	Equipment []seedEquipment       `json:"equipamentos"`
}

type seedEquipment struct {
	Name string `json:"nome"`
	Type string `json:"tipo"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred log flushing happens on every
// path, including failures.
func run(args []string) int {
	flags := flag.NewFlagSet("seed-items", flag.ContinueOnError)
	path := flags.String("file", "seed.json", "JSON file with itens and equipamentos")
	dryRun := flags.Bool("dry-run", false, "parse and report without writing")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load()
	logger, flush := config.InitLogging(cfg)
	defer flush()

	data, err := os.ReadFile(*path)
	if err != nil {
		logger.Error("Failed to read seed file", zap.String("file", *path), zap.Error(err))
		return 1
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		logger.Error("Failed to parse seed file", zap.String("file", *path), zap.Error(err))
		return 1
	}

	if *dryRun {
		logger.Info("Dry run",
			zap.Int("items", len(seed.Items)),
			zap.Int("equipment", len(seed.Equipment)),
		)
		return 0
	}

	// Initialize database
	if err := config.InitDB(cfg); err != nil {
		logger.Error("Failed to initialize database", zap.Error(err))
		return 1
	}

	ctx := context.Background()

	items, err := services.NewCatalogService(nil).Seed(ctx, seed.Items)
	if err != nil {
		logger.Error("Failed to seed checklist items", zap.Error(err))
		return 1
	}

	status := services.NewStatusService(nil, cfg.FacilityLocation(), nil)
	created := 0
	for _, e := range seed.Equipment {
		row, isNew, err := status.Register(ctx, e.Name, e.Type)
		if err != nil {
			logger.Warn("Failed to register equipment", zap.String("name", e.Name), zap.Error(err))
			continue
		}
		if isNew {
			created++
			logger.Info("Registered equipment", zap.String("name", row.Name), zap.String("type", row.Type))
		}
	}

	logger.Info("Seed completed",
		zap.Int("items_created", items),
		zap.Int("equipment_created", created),
		zap.Int("equipment_total", len(seed.Equipment)),
	)
	return 0
}
