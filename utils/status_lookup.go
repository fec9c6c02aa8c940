package utils

import (
	"strings"
	"unicode"

	"energy-center-checklist/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	statusSynonyms = map[models.Status][]string{
		models.StatusOK: {
			"ok",
			"operando",
			"operacional",
		},
		models.StatusNOK: {
			"nok",
			"not ok",
			"parado",
			"falha",
		},
		models.StatusMaintenance: {
			"manutencao",
			"manutenção",
			"em manutencao",
			"maintenance",
			"man",
		},
	}
	statusAliasToCanonical = buildStatusAliasMap()
	foldedCanonical        = buildFoldedCanonicalMap()
)

func buildFoldedCanonicalMap() map[string]models.Status {
	out := make(map[string]models.Status, len(models.Statuses()))
	for _, s := range models.Statuses() {
		out[FoldKey(string(s))] = s
	}
	return out
}

func buildStatusAliasMap() map[string]models.Status {
	aliasMap := make(map[string]models.Status)
	for canonical, synonyms := range statusSynonyms {
		aliasMap[FoldKey(string(canonical))] = canonical
		for _, alias := range synonyms {
			if key := FoldKey(alias); key != "" {
				aliasMap[key] = canonical
			}
		}
	}
	return aliasMap
}

// FoldKey lower-cases s, strips diacritics and collapses whitespace so that
// "Manutenção", "MANUTENCAO" and " manutencao " compare equal.
func FoldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// CanonicalStatus accepts only the three canonical values, in any case and
// with or without accents. Stored rows are counted with it.
func CanonicalStatus(raw string) (models.Status, bool) {
	status, ok := foldedCanonical[FoldKey(raw)]
	return status, ok
}

// ParseStatus maps free text onto the closed status set. Besides the
// canonical spellings it accepts the synonyms typed on forms.
func ParseStatus(raw string) (models.Status, bool) {
	key := FoldKey(raw)
	if key == "" {
		return "", false
	}
	status, ok := statusAliasToCanonical[key]
	return status, ok
}

// StatusCSSClass is used by the templates to color status badges.
func StatusCSSClass(s models.Status) string {
	switch s {
	case models.StatusOK:
		return "status-ok"
	case models.StatusNOK:
		return "status-nok"
	case models.StatusMaintenance:
		return "status-man"
	}
	if parsed, ok := ParseStatus(string(s)); ok {
		return StatusCSSClass(parsed)
	}
	return "status-unknown"
}
