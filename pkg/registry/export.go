package registry

import (
	"fmt"
	"strings"
	"time"
)

// ExportCSV serializes organizations to CSV. Free-text fields are quoted
// with embedded double-quotes doubled; the ID and budget columns are emitted
// unquoted. The budget column is present only for privileged exports.
//
// Output is deterministic: the same list and privilege flag always produce
// byte-identical text. The export body carries no timestamps; only
// ExportFilename embeds a date.
func ExportCSV(orgs []Organization, privileged bool) string {
	headers := []string{"ID", "Назва", "Регіон", "Адреса", "Телефон", "Категорія"}
	if privileged {
		headers = append(headers, "Бюджет")
	}

	lines := make([]string, 0, len(orgs)+1)
	lines = append(lines, strings.Join(headers, ","))

	for _, org := range orgs {
		row := []string{
			org.ID,
			quoteField(org.Name),
			quoteField(RegionLabel(org.Region)),
			quoteField(org.Address),
			quoteField(org.Phone),
			quoteField(org.Category),
		}
		if privileged {
			row = append(row, fmt.Sprintf("%d", org.Budget))
		}
		lines = append(lines, strings.Join(row, ","))
	}

	return strings.Join(lines, "\n")
}

// ExportFilename suggests a download name for an export produced on the
// given date, e.g. "registry_2026-08-31.csv".
func ExportFilename(date time.Time) string {
	return fmt.Sprintf("registry_%s.csv", date.Format("2006-01-02"))
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
