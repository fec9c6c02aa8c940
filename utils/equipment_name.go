package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical equipment types.
const (
	EquipmentTorre      = "Torre"
	EquipmentBAC        = "BAC"
	EquipmentBAG        = "BAG"
	EquipmentCompressor = "Compressor"
	EquipmentChiller    = "Chiller"
	EquipmentSecador    = "Secador"
)

var (
	equipmentTypeOrder = []string{
		EquipmentTorre,
		EquipmentBAC,
		EquipmentBAG,
		EquipmentCompressor,
		EquipmentChiller,
		EquipmentSecador,
	}
	equipmentTypeSynonyms = map[string][]string{
		EquipmentTorre:      {"torre", "torres", "tr", "torre resfriamento", "torre de resfriamento"},
		EquipmentBAC:        {"bac", "bomba agua condensacao", "bomba de agua de condensacao"},
		EquipmentBAG:        {"bag", "bomba agua gelada", "bomba de agua gelada"},
		EquipmentCompressor: {"compressor", "compressores", "comp", "cp", "cmp"},
		EquipmentChiller:    {"chiller", "chillers", "ch", "chl"},
		EquipmentSecador:    {"secador", "secadores", "sec", "sd"},
	}
	equipmentPrefixToType = buildEquipmentPrefixMap()
)

func buildEquipmentPrefixMap() map[string]string {
	prefixes := make(map[string]string)
	for canonical, synonyms := range equipmentTypeSynonyms {
		prefixes[foldPrefix(canonical)] = canonical
		for _, alias := range synonyms {
			prefixes[foldPrefix(alias)] = canonical
		}
	}
	return prefixes
}

// EquipmentName is the canonical form of a raw equipment label.
type EquipmentName struct {
	Type string
	Name string
}

// EquipmentTypes returns the canonical types in display order.
func EquipmentTypes() []string {
	out := make([]string, len(equipmentTypeOrder))
	copy(out, equipmentTypeOrder)
	return out
}

// NormalizeEquipmentName turns labels such as "Cp 3", "BAC_07" or "torre 1"
// into "Compressor 03", "BAC 07" and "Torre 01". Numeric suffixes are padded to
// two digits, other suffixes pass through. Labels without a separable trailing
// token or with an unknown prefix are returned trimmed and unchanged, with ok
// set to false. Normalizing an already canonical name is a no-op.
func NormalizeEquipmentName(raw string) (EquipmentName, bool) {
	label := strings.TrimSpace(raw)

	prefix, suffix, found := splitEquipmentLabel(label)
	if !found {
		return EquipmentName{Name: label}, false
	}

	kind, known := equipmentPrefixToType[foldPrefix(prefix)]
	if !known {
		return EquipmentName{Name: label}, false
	}

	return EquipmentName{Type: kind, Name: kind + " " + padIndex(suffix)}, true
}

// CanonicalEquipmentName is NormalizeEquipmentName without the type.
func CanonicalEquipmentName(raw string) string {
	n, _ := NormalizeEquipmentName(raw)
	return n.Name
}

// EquipmentMatchKey is the key used to match status rows against operating
// snapshots, tolerant of rows written before names were normalized.
func EquipmentMatchKey(raw string) string {
	return FoldKey(CanonicalEquipmentName(raw))
}

func splitEquipmentLabel(label string) (string, string, bool) {
	if idx := strings.LastIndexFunc(label, isLabelSeparator); idx >= 0 {
		_, width := utf8.DecodeRuneInString(label[idx:])
		prefix := strings.TrimSpace(label[:idx])
		suffix := strings.TrimSpace(label[idx+width:])
		if prefix == "" || suffix == "" {
			return "", "", false
		}
		return prefix, suffix, true
	}

	// "cp3": split at the boundary between the letters and the trailing digits.
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(label) || !unicode.IsLetter(rune(label[i-1])) {
		return "", "", false
	}
	return label[:i], label[i:], true
}

func isLabelSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '_' || r == '-'
}

func padIndex(suffix string) string {
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return suffix
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return suffix
	}
	return fmt.Sprintf("%02d", n)
}

func foldPrefix(prefix string) string {
	return FoldKey(strings.NewReplacer("_", " ", "-", " ").Replace(prefix))
}
