package services

import (
	"context"
	"database/sql/driver"
	"testing"

	"energy-center-checklist/models"
)

func TestSeedInsertsOnlyMissingItems(t *testing.T) {
	insert := expectExec("INSERT INTO `itens_checklist`", 10, 1).WithArgCount(5)
	steps := []*queryStep{
		expectQuery("SELECT `sistema`,`descricao` FROM `itens_checklist`", []string{"sistema", "descricao"},
			[]driver.Value{SystemCompressedAir, "Pressão da rede"},
		),
		insert,
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	created, err := NewCatalogService(db).Seed(context.Background(), []models.ItemTemplate{
		{System: SystemCompressedAir, Description: "pressão da rede "},
		{System: " " + SystemChilledWater, Description: "Temperatura de saída", Unit: "°C", MaxValue: floatPtr(8)},
		{System: SystemChilledWater, Description: "Temperatura de Saída"},
		{System: "", Description: "sem sistema"},
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 new item, got %d", created)
	}
	if insert.Seen[0] != SystemChilledWater || insert.Seen[1] != "Temperatura de saída" {
		t.Fatalf("unexpected insert args: %v", insert.Seen)
	}
	if err := state.VerifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestSeedNothingToInsert(t *testing.T) {
	steps := []*queryStep{
		expectQuery("SELECT `sistema`,`descricao` FROM `itens_checklist`", []string{"sistema", "descricao"},
			[]driver.Value{SystemCoolingWater, "Vazão"},
		),
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	created, err := NewCatalogService(db).Seed(context.Background(), []models.ItemTemplate{
		{System: SystemCoolingWater, Description: "VAZÃO"},
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected no inserts, got %d", created)
	}
	if err := state.VerifyComplete(); err != nil {
		t.Fatal(err)
	}
}
