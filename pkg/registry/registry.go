// Package registry models the read-only organization registry: the record
// shape, region display labels, substring filtering and CSV export.
package registry

import "strings"

// Role is the caller-supplied session role. The registry performs no
// authentication; it only gates which columns an export contains.
type Role string

const (
	RoleGuest   Role = "Guest"
	RolePartner Role = "Partner"
	RoleManager Role = "Manager"
	RoleAdmin   Role = "Admin"
	RoleCreator Role = "Creator"
)

// Privileged reports whether the role may see budget figures.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanExport reports whether the role may download the registry at all.
func (r Role) CanExport() bool {
	return r != RoleGuest
}

// Status is the lifecycle state of an organization record.
type Status string

const (
	StatusActive        Status = "Active"
	StatusInactive      Status = "Inactive"
	StatusPending       Status = "Pending"
	StatusInDevelopment Status = "In Development"
)

// Organization is a single registry entry. The core reads these records to
// build prompts, filenames and CSV rows; it never mutates them.
type Organization struct {
	ID               string
	Name             string
	Address          string
	Lat              float64
	Lng              float64
	Category         string
	Services         string
	Phone            string
	Email            string
	Status           Status
	DriveFolderURL   string
	Budget           int64
	Region           string
	WorkingHours     string
	AdditionalPhones []string
	EstablishedDate  string
	Website          string
	Notes            string
}

// regionLabels maps region codes to their Ukrainian display labels.
// Unknown codes pass through verbatim.
var regionLabels = map[string]string{
	"All":            "Вся Україна",
	"Odesa":          "Одеська область",
	"Mykolaiv":       "Миколаївська область",
	"Kherson":        "Херсонська область",
	"Dnipro":         "Дніпропетровська область",
	"Zaporizhzhia":   "Запорізька область",
	"Donetsk":        "Донецька область",
	"Kyiv":           "Київська область",
	"Lviv":           "Львівська область",
	"Kharkiv":        "Харківська область",
	"Vinnytsia":      "Вінницька область",
	"Cherkasy":       "Черкаська область",
	"Volyn":          "Волинська область",
	"Zhytomyr":       "Житомирська область",
	"Rivne":          "Рівненська область",
	"Sumy":           "Сумська область",
	"Ternopil":       "Тернопільська область",
	"Chernivtsi":     "Чернівецька область",
	"Khmelnytskyi":   "Хмельницька область",
	"Chernihiv":      "Чернігівська область",
	"Poltava":        "Полтавська область",
	"IvanoFrankivsk": "Івано-Франківська область",
	"Kirovohrad":     "Кіровоградська область",
	"Zakarpattia":    "Закарпатська область",
}

// RegionLabel returns the display label for a region code, or the code
// itself when it is not in the lookup table.
func RegionLabel(code string) string {
	if label, ok := regionLabels[code]; ok {
		return label
	}
	return code
}

// Filter returns the organizations whose name, region or address contains
// the search term, case-insensitively. An empty term returns the input
// slice unchanged.
func Filter(orgs []Organization, term string) []Organization {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return orgs
	}
	var out []Organization
	for _, org := range orgs {
		if strings.Contains(strings.ToLower(org.Name), term) ||
			strings.Contains(strings.ToLower(org.Region), term) ||
			strings.Contains(strings.ToLower(org.Address), term) {
			out = append(out, org)
		}
	}
	return out
}
