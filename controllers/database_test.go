package controllers

import (
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"energy-center-checklist/config"
	"energy-center-checklist/internal/scripteddb"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var equipmentColumns = []string{"id", "nome_equipamento", "tipo", "status", "observacao", "tecnico", "data_atualizacao"}

const lockedEquipmentPattern = "SELECT \\* FROM `status_equipamentos` WHERE `status_equipamentos`.`id` = \\? .*FOR UPDATE"

// withScriptedDB points config.DB at a database that replays steps.
func withScriptedDB(t *testing.T, steps ...*scripteddb.Step) *scripteddb.DB {
	t.Helper()
	db, state, cleanup := scripteddb.Open(t, steps)
	previous := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = previous
		cleanup()
	})
	return state
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := config.Logger
	config.Logger = zap.New(core)
	t.Cleanup(func() { config.Logger = previous })
	return logs
}

func TestUpdateStatusUnknownEquipmentRedirects(t *testing.T) {
	withConfig(t, config.Config{})
	logs := observeLogs(t)

	for _, status := range []string{"OK", "quebrado"} {
		state := withScriptedDB(t, scripteddb.ExpectQuery(lockedEquipmentPattern, equipmentColumns))

		w := postForm(newTestRouter(), "/atualizar_status", url.Values{
			"equipamento_id": {"99"},
			"tipo_atual":     {"Torre"},
			"status_99":      {status},
		})
		if w.Code != http.StatusSeeOther {
			t.Fatalf("status %q: code = %d, want 303", status, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/atualizar_status?tipo=Torre" {
			t.Fatalf("status %q: unexpected redirect %q", status, loc)
		}
		if err := state.VerifyComplete(); err != nil {
			t.Fatal(err)
		}
		if state.Commits() != 0 {
			t.Fatalf("status %q: nothing should be committed", status)
		}
	}

	entries := logs.FilterMessage("Status update for unknown equipment").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 unknown equipment logs, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Level != zapcore.WarnLevel {
			t.Fatalf("unknown equipment logged at %s, want warn", e.Level)
		}
	}
}

func TestUpdateStatusRejectsInvalidStatus(t *testing.T) {
	withConfig(t, config.Config{})
	state := withScriptedDB(t, scripteddb.ExpectQuery(lockedEquipmentPattern, equipmentColumns,
		[]driver.Value{int64(1), "Torre 01", "Torre", "OK", "", "", time.Now()},
	))

	w := postForm(newTestRouter(), "/atualizar_status", url.Values{
		"equipamento_id": {"1"},
		"status_1":       {"quebrado"},
	})
	if w.Code != http.StatusBadRequest || w.Body.String() != "Status inválido" {
		t.Fatalf("unexpected response %d %q", w.Code, w.Body.String())
	}
	if state.Commits() != 0 || state.Rollbacks() != 1 {
		t.Fatalf("expected rollback, got commits=%d rollbacks=%d", state.Commits(), state.Rollbacks())
	}
}

func TestShowUnknownChecklist(t *testing.T) {
	withConfig(t, config.Config{})
	state := withScriptedDB(t,
		scripteddb.ExpectQuery("SELECT \\* FROM `checklist` WHERE `checklist`.`id` = \\?", []string{"id"}),
	)

	w := serve(newTestRouter(), httptest.NewRequest(http.MethodGet, "/checklist/99", nil))
	if w.Code != http.StatusNotFound || w.Body.String() != "Checklist não encontrado" {
		t.Fatalf("unexpected response %d %q", w.Code, w.Body.String())
	}
	if err := state.VerifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestTypeDetailUnknownType(t *testing.T) {
	withConfig(t, config.Config{})
	state := withScriptedDB(t,
		scripteddb.ExpectQuery("SELECT \\* FROM `status_equipamentos` ORDER BY tipo ASC, nome_equipamento ASC", equipmentColumns,
			[]driver.Value{int64(1), "Torre 01", "", "OK", "", "", time.Now()},
		),
	)

	w := serve(newTestRouter(), httptest.NewRequest(http.MethodGet, "/detalhes/Turbina", nil))
	if w.Code != http.StatusNotFound || w.Body.String() != "Tipo não encontrado" {
		t.Fatalf("unexpected response %d %q", w.Code, w.Body.String())
	}
	if err := state.VerifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestSubmitChecklistRedirectsHome(t *testing.T) {
	withConfig(t, config.Config{})
	observeLogs(t)

	for _, target := range []string{"/salvar", "/salvar_main", "/salvar_supplier"} {
		insert := scripteddb.ExpectExec("INSERT INTO `checklist`", 21, 1)
		state := withScriptedDB(t,
			scripteddb.ExpectQuery("SELECT \\* FROM `itens_checklist`", []string{"id"}),
			insert,
		)

		w := postForm(newTestRouter(), target, url.Values{"tecnico": {"Ana"}, "turno": {"2º Turno"}})
		if w.Code != http.StatusSeeOther {
			t.Fatalf("%s: code = %d, want 303", target, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/" {
			t.Fatalf("%s: unexpected redirect %q", target, loc)
		}
		if err := state.VerifyComplete(); err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		if state.Begins() != 1 || state.Commits() != 1 {
			t.Fatalf("%s: expected one committed transaction, got begins=%d commits=%d",
				target, state.Begins(), state.Commits())
		}
		if insert.Seen == nil {
			t.Fatalf("%s: checklist header was not written", target)
		}
	}
}
