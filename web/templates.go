package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"energy-center-checklist/models"
	"energy-center-checklist/services"
	"energy-center-checklist/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page with the helpers bound to loc.
func Templates(loc *time.Location) (*template.Template, error) {
	return template.New("").Funcs(FuncMap(loc)).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates panics when the embedded templates do not parse.
func MustTemplates(loc *time.Location) *template.Template {
	return template.Must(Templates(loc))
}

func FuncMap(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"dateTime": func(t time.Time) string { return utils.FormatDateTime(t, loc) },
		"longDate": func(t time.Time) string { return utils.FormatLongDate(t, loc) },
		"inputDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format("2006-01-02")
		},
		"optFloat":    utils.FormatOptionalFloat,
		"optString":   optString,
		"valueRange":  utils.FormatRange,
		"passFlag":    utils.FormatPassFlag,
		"passClass":   passClass,
		"statusClass": utils.StatusCSSClass,
		"percent":     utils.FormatPercent,
		"systemLabel": services.SystemLabel,
		"statuses":    models.Statuses,
		"field":       field,
		"pageQuery":   pageQuery,
		"isChecked":   func(v *bool) bool { return v != nil && *v },
		"isFailed":    func(v *bool) bool { return v != nil && !*v },
	}
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func passClass(flag *bool) string {
	switch {
	case flag == nil:
		return "pass-unset"
	case *flag:
		return "status-ok"
	default:
		return "status-nok"
	}
}

// field builds form field names such as valor_12.
func field(prefix string, id interface{}) string {
	return prefix + fmt.Sprint(id)
}

// pageQuery re-encodes the current filters with another page number.
func pageQuery(filters url.Values, page int) string {
	q := url.Values{}
	for k, v := range filters {
		if k == "page" {
			continue
		}
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return "?" + q.Encode()
}
