package services

import (
	"context"
	"fmt"
	"strings"

	"energy-center-checklist/config"
	"energy-center-checklist/models"

	"gorm.io/gorm"
)

// CatalogService maintains the item templates. The catalog is written out of
// band; request handlers only read it.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	if db == nil {
		db = config.DB
	}
	return &CatalogService{db: db}
}

// Seed inserts the templates whose (system, description) pair is not in the
// catalog yet and returns how many were created.
func (s *CatalogService) Seed(ctx context.Context, items []models.ItemTemplate) (int, error) {
	var existing []models.ItemTemplate
	if err := s.db.WithContext(ctx).Select("sistema", "descricao").Find(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to load checklist items: %w", err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, tpl := range existing {
		known[catalogKey(tpl)] = struct{}{}
	}

	var missing []models.ItemTemplate
	for _, tpl := range items {
		tpl.ID = 0
		tpl.System = strings.TrimSpace(tpl.System)
		tpl.Description = strings.TrimSpace(tpl.Description)
		tpl.Unit = strings.TrimSpace(tpl.Unit)
		if tpl.System == "" || tpl.Description == "" {
			continue
		}
		key := catalogKey(tpl)
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		missing = append(missing, tpl)
	}

	if len(missing) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).Create(&missing).Error; err != nil {
		return 0, fmt.Errorf("failed to create checklist items: %w", err)
	}
	return len(missing), nil
}

func catalogKey(tpl models.ItemTemplate) string {
	return tpl.System + "\x00" + strings.ToLower(tpl.Description)
}
