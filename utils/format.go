package utils

import (
	"strconv"
	"strings"
	"time"
)

var ptMonths = []string{
	"janeiro",
	"fevereiro",
	"março",
	"abril",
	"maio",
	"junho",
	"julho",
	"agosto",
	"setembro",
	"outubro",
	"novembro",
	"dezembro",
}

// FormatDateTime renders t as dd/mm/yyyy hh:mm in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("02/01/2006 15:04")
}

// FormatLongDate returns "5 de março de 2025".
func FormatLongDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}

	local := t.In(loc)
	monthIndex := int(local.Month()) - 1
	if monthIndex < 0 || monthIndex >= len(ptMonths) {
		return local.Format("02/01/2006")
	}

	return strconv.Itoa(local.Day()) + " de " + ptMonths[monthIndex] + " de " + strconv.Itoa(local.Year())
}

// FormatOptionalFloat renders v with a decimal comma, or "" when unset.
func FormatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strings.Replace(strconv.FormatFloat(*v, 'f', -1, 64), ".", ",", 1)
}

// FormatRange renders "min - max unit" for a template or record.
func FormatRange(min, max *float64, unit string) string {
	lo, hi := FormatOptionalFloat(min), FormatOptionalFloat(max)
	var out string
	switch {
	case lo != "" && hi != "":
		out = lo + " - " + hi
	case lo != "":
		out = ">= " + lo
	case hi != "":
		out = "<= " + hi
	default:
		return ""
	}
	if unit != "" {
		out += " " + unit
	}
	return out
}

// FormatPassFlag renders the tri-state check result.
func FormatPassFlag(flag *bool) string {
	switch {
	case flag == nil:
		return "-"
	case *flag:
		return "OK"
	default:
		return "NOK"
	}
}

// FormatPercent renders 33.3 as "33,3%".
func FormatPercent(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 1, 64), ".", ",", 1) + "%"
}
