package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"net/url"
	"testing"
	"time"

	"energy-center-checklist/models"
)

func floatPtr(v float64) *float64 { return &v }

func sampleTemplates() []models.ItemTemplate {
	return []models.ItemTemplate{
		{ID: 1, System: SystemCompressedAir, Description: "Pressão da rede", Unit: "bar", MinValue: floatPtr(6), MaxValue: floatPtr(8)},
		{ID: 2, System: SystemCoolingWater, Description: "Temperatura de retorno", Unit: "°C", MaxValue: floatPtr(32)},
		{ID: 3, System: SystemChilledWater, Description: "Nível do tanque", Unit: "%"},
	}
}

func TestBuildItemRecordsCreatesOneRecordPerTemplate(t *testing.T) {
	form := url.Values{
		"valor_1":  {"37.5"},
		"ok_1":     {"on"},
		"valor_2":  {""},
		"nok_2":    {"on"},
		"coment_2": {"  vazamento na bomba "},
		"ok_3":     {"on"},
		"nok_3":    {"on"},
		"valor_42": {"1"},
	}

	records := BuildItemRecords(9, sampleTemplates(), form)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.SubmissionID != 9 || first.System != SystemCompressedAir || first.Description != "Pressão da rede" {
		t.Fatalf("template fields not copied: %+v", first)
	}
	if first.RecordedValue == nil || *first.RecordedValue != 37.5 {
		t.Fatalf("expected 37.5, got %v", first.RecordedValue)
	}
	if first.PassFlag == nil || !*first.PassFlag {
		t.Fatalf("expected OK flag on first record")
	}
	if first.Comment != nil {
		t.Fatalf("expected no comment, got %q", *first.Comment)
	}

	second := records[1]
	if second.RecordedValue != nil {
		t.Fatalf("empty value should be nil, got %v", *second.RecordedValue)
	}
	if second.PassFlag == nil || *second.PassFlag {
		t.Fatalf("expected NOK flag on second record")
	}
	if second.Comment == nil || *second.Comment != "vazamento na bomba" {
		t.Fatalf("unexpected comment: %v", second.Comment)
	}
	if second.MinValue != nil || second.MaxValue == nil || *second.MaxValue != 32 {
		t.Fatalf("range not copied: %+v", second)
	}

	third := records[2]
	if third.PassFlag == nil || !*third.PassFlag {
		t.Fatalf("OK should win when both boxes are ticked")
	}
}

func TestBuildItemRecordsWithoutAnswersLeavesFlagsUnset(t *testing.T) {
	records := BuildItemRecords(1, sampleTemplates(), url.Values{})
	for _, r := range records {
		if r.PassFlag != nil || r.RecordedValue != nil || r.Comment != nil {
			t.Fatalf("expected empty record, got %+v", r)
		}
	}
}

func TestBuildItemRecordsCopiesRangeByValue(t *testing.T) {
	templates := sampleTemplates()
	records := BuildItemRecords(1, templates, url.Values{})
	*templates[0].MinValue = 100
	if *records[0].MinValue != 6 {
		t.Fatalf("record should not follow later template edits")
	}
}

func TestBuildOperatingSnapshotsNormalizesAndDeduplicates(t *testing.T) {
	submission := models.ChecklistSubmission{
		ID:         4,
		Technician: "Ana",
		Shift:      "1º Turno",
		CreatedAt:  time.Date(2025, 3, 5, 8, 0, 0, 0, time.UTC),
	}
	form := url.Values{
		"op_torre_3":  {"on"},
		"op_Torre 03": {"on"},
		"op_Cp 1":     {"on"},
		"op_Bomba X":  {"on"},
		"op_":         {"on"},
		"tecnico":     {"Ana"},
		"valor_1":     {"3"},
	}

	snapshots := BuildOperatingSnapshots(submission, form)
	if len(snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d: %+v", len(snapshots), snapshots)
	}

	names := map[string]models.OperatingSnapshot{}
	for _, s := range snapshots {
		names[s.EquipmentName] = s
	}
	torre, ok := names["Torre 03"]
	if !ok {
		t.Fatalf("expected Torre 03 among %+v", snapshots)
	}
	if torre.Type != "Torre" || torre.Status != models.OperatingLabel || torre.SubmissionID != 4 {
		t.Fatalf("unexpected snapshot: %+v", torre)
	}
	if torre.Technician != "Ana" || torre.Shift != "1º Turno" || !torre.RecordedAt.Equal(submission.CreatedAt) {
		t.Fatalf("submission header not copied: %+v", torre)
	}
	if _, ok := names["Compressor 01"]; !ok {
		t.Fatalf("expected Compressor 01 among %+v", snapshots)
	}
	if other, ok := names["Bomba X"]; !ok || other.Type != "" {
		t.Fatalf("unknown labels should be kept as typed, got %+v", snapshots)
	}
}

func TestGroupRecordsOrdersKnownSystemsFirst(t *testing.T) {
	records := []models.ItemRecord{
		{System: "Outro"},
		{System: SystemHVACBodyShop},
		{System: SystemChilledWater},
		{System: SystemCompressedAir},
		{System: SystemChilledWater},
	}
	groups := GroupRecords(records)

	want := []string{SystemCompressedAir, SystemChilledWater, SystemHVACBodyShop, "Outro"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, g := range groups {
		if g.System != want[i] {
			t.Fatalf("group %d = %s, want %s", i, g.System, want[i])
		}
	}
	if len(groups[1].Records) != 2 {
		t.Fatalf("expected 2 chilled water records")
	}
	if groups[2].Label != "Climatização Funilaria" {
		t.Fatalf("unexpected label %q", groups[2].Label)
	}
}

func TestItemSubsetSystems(t *testing.T) {
	if SubsetAll.Systems() != nil {
		t.Fatalf("the full catalog should not filter by system")
	}
	if got := SubsetMain.Systems(); len(got) != 3 || got[0] != SystemCompressedAir {
		t.Fatalf("unexpected main systems: %v", got)
	}
	if got := SubsetSupplier.Systems(); len(got) != 3 || got[2] != SystemHVACCommunication {
		t.Fatalf("unexpected supplier systems: %v", got)
	}
}

var templateColumns = []string{"id", "sistema", "descricao", "unidade", "valor_min", "valor_max"}

func TestSubmitWritesEverythingInOneTransaction(t *testing.T) {
	recordInsert := expectExec("INSERT INTO `itens_registro`", 100, 2).WithArgCount(18)
	snapshotInsert := expectExec("INSERT INTO `status_operacao_checklist`", 50, 1).WithArgCount(7)
	steps := []*queryStep{
		expectQuery("SELECT \\* FROM `itens_checklist` WHERE sistema IN \\(\\?,\\?,\\?\\) ORDER BY id ASC", templateColumns,
			[]driver.Value{int64(1), SystemCompressedAir, "Pressão da rede", "bar", 6.0, 8.0},
			[]driver.Value{int64(2), SystemCoolingWater, "Temperatura de retorno", "°C", nil, 32.0},
		).WithArgs(SystemCompressedAir, SystemCoolingWater, SystemChilledWater),
		expectExec("INSERT INTO `checklist`", 7, 1).WithArgCount(8),
		recordInsert,
		snapshotInsert,
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewChecklistService(db, time.FixedZone("BRT", -3*3600))
	svc.now = func() time.Time { return time.Date(2025, 3, 5, 11, 0, 0, 0, time.UTC) }

	form := url.Values{
		"tecnico":    {" Ana "},
		"turno":      {"1º Turno"},
		"valor_1":    {"7,5"},
		"ok_1":       {"on"},
		"nok_2":      {"on"},
		"op_torre_3": {"on"},
	}
	result, err := svc.Submit(context.Background(), form, SubsetMain)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.Submission.ID != 7 || result.RecordCount != 2 || result.SnapshotCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Submission.Technician != "Ana" {
		t.Fatalf("technician not cleaned: %q", result.Submission.Technician)
	}
	if _, offset := result.Submission.CreatedAt.Zone(); offset != -3*3600 {
		t.Fatalf("submission should be stamped in the facility zone, got offset %d", offset)
	}

	// checklist_id, sistema, descricao, unidade, valor_min, valor_max, valor_registrado, status_ok, comentario
	first := recordInsert.Seen[:9]
	if first[0] != int64(7) || first[6] != 7.5 || first[7] != true || first[8] != nil {
		t.Fatalf("unexpected first record args: %v", first)
	}
	second := recordInsert.Seen[9:]
	if second[0] != int64(7) || second[4] != nil || second[6] != nil || second[7] != false {
		t.Fatalf("unexpected second record args: %v", second)
	}
	if snapshotInsert.Seen[0] != int64(7) || snapshotInsert.Seen[1] != "Torre 03" {
		t.Fatalf("unexpected snapshot args: %v", snapshotInsert.Seen)
	}

	if err := state.VerifyComplete(); err != nil {
		t.Fatal(err)
	}
	if state.Begins() != 1 || state.Commits() != 1 || state.Rollbacks() != 0 {
		t.Fatalf("expected one committed transaction, got begins=%d commits=%d rollbacks=%d",
			state.Begins(), state.Commits(), state.Rollbacks())
	}
}

func TestSubmitRollsBackWhenItemsFail(t *testing.T) {
	steps := []*queryStep{
		expectQuery("SELECT \\* FROM `itens_checklist` ORDER BY id ASC", templateColumns,
			[]driver.Value{int64(1), SystemCompressedAir, "Pressão da rede", "bar", 6.0, 8.0},
		),
		expectExec("INSERT INTO `checklist`", 3, 1),
		expectExec("INSERT INTO `itens_registro`", 0, 0).WithError(errors.New("disk full")),
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewChecklistService(db, time.UTC).Submit(context.Background(), url.Values{}, SubsetAll)
	if err == nil {
		t.Fatalf("expected error")
	}
	if state.Commits() != 0 || state.Rollbacks() != 1 {
		t.Fatalf("expected rollback, got commits=%d rollbacks=%d", state.Commits(), state.Rollbacks())
	}
	if err := state.VerifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestGetUnknownChecklist(t *testing.T) {
	steps := []*queryStep{
		expectQuery("SELECT \\* FROM `checklist` WHERE `checklist`.`id` = \\?", []string{"id"}),
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewChecklistService(db, time.UTC).Get(context.Background(), 404)
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
	if err := state.VerifyComplete(); err != nil {
		t.Fatal(err)
	}
}
