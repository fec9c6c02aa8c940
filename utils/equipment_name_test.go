package utils

import "testing"

func TestNormalizeEquipmentName(t *testing.T) {
	tests := []struct {
		raw      string
		wantName string
		wantType string
		wantOK   bool
	}{
		{"torre_3", "Torre 03", EquipmentTorre, true},
		{"Torre 3", "Torre 03", EquipmentTorre, true},
		{"  TORRE-3 ", "Torre 03", EquipmentTorre, true},
		{"Torre\t3", "Torre 03", EquipmentTorre, true},
		{"Chiller\u00a02", "Chiller 02", EquipmentChiller, true},
		{"Cp 3", "Compressor 03", EquipmentCompressor, true},
		{"cp3", "Compressor 03", EquipmentCompressor, true},
		{"BAC_07", "BAC 07", EquipmentBAC, true},
		{"bag 12", "BAG 12", EquipmentBAG, true},
		{"Chiller 001", "Chiller 01", EquipmentChiller, true},
		{"Chiller 123", "Chiller 123", EquipmentChiller, true},
		{"secador A", "Secador A", EquipmentSecador, true},
		{"Torre de Resfriamento 2", "Torre 02", EquipmentTorre, true},
		{"Bomba X", "Bomba X", "", false},
		{"Torre", "Torre", "", false},
		{"  ", "", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeEquipmentName(tt.raw)
		if ok != tt.wantOK || got.Name != tt.wantName || got.Type != tt.wantType {
			t.Errorf("NormalizeEquipmentName(%q) = (%+v, %v), want ({Type:%s Name:%s}, %v)",
				tt.raw, got, ok, tt.wantType, tt.wantName, tt.wantOK)
		}
	}
}

func TestNormalizeEquipmentNameIsIdempotent(t *testing.T) {
	inputs := []string{"torre_3", "Cp 3", "BAC-7", "Chiller 01", "Bomba X", "secador A", ""}
	for _, raw := range inputs {
		once := CanonicalEquipmentName(raw)
		twice := CanonicalEquipmentName(once)
		if once != twice {
			t.Errorf("normalizing %q twice changed it: %q -> %q", raw, once, twice)
		}
	}
}

func TestEquipmentMatchKeyMatchesLegacySpellings(t *testing.T) {
	if EquipmentMatchKey("torre_3") != EquipmentMatchKey("Torre 03") {
		t.Fatalf("torre_3 and Torre 03 should share a match key")
	}
	if EquipmentMatchKey("COMPRESSOR 1") != EquipmentMatchKey("cp_01") {
		t.Fatalf("COMPRESSOR 1 and cp_01 should share a match key")
	}
	if EquipmentMatchKey("Torre 03") == EquipmentMatchKey("Torre 04") {
		t.Fatalf("different units must not share a match key")
	}
}

func TestEquipmentTypesReturnsCopy(t *testing.T) {
	types := EquipmentTypes()
	if len(types) != 6 || types[0] != EquipmentTorre {
		t.Fatalf("unexpected types: %v", types)
	}
	types[0] = "changed"
	if EquipmentTypes()[0] != EquipmentTorre {
		t.Fatalf("EquipmentTypes must not expose internal state")
	}
}
