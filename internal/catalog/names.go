package catalog

import "strings"

var gpAliases = map[string]string{
	"italian":        "monza",
	"italy":          "monza",
	"belgian":        "spa",
	"belgium":        "spa",
	"british":        "silverstone",
	"britain":        "silverstone",
	"barcelona":      "catalunya",
	"spanish":        "catalunya",
	"spain":          "catalunya",
	"melbourne":      "albert_park",
	"australia":      "albert_park",
	"australian":     "albert_park",
	"montreal":       "villeneuve",
	"canada":         "villeneuve",
	"canadian":       "villeneuve",
	"azerbaijan":     "baku",
	"hungary":        "hungaroring",
	"hungarian":      "hungaroring",
	"japan":          "suzuka",
	"japanese":       "suzuka",
	"singapore":      "marina_bay",
	"austin":         "americas",
	"usa":            "americas",
	"us":             "americas",
	"united_states":  "americas",
	"mexico":         "rodriguez",
	"mexican":        "rodriguez",
	"mexico_city":    "rodriguez",
	"brazil":         "interlagos",
	"brazilian":      "interlagos",
	"sao_paulo":      "interlagos",
	"abu_dhabi":      "yas_marina",
	"abudhabi":       "yas_marina",
	"saudi":          "jeddah",
	"saudi_arabia":   "jeddah",
	"saudi_arabian":  "jeddah",
	"emilia_romagna": "imola",
	"dutch":          "zandvoort",
	"netherlands":    "zandvoort",
	"vegas":          "las_vegas",
	"qatar":          "losail",
	"sakhir":         "bahrain",
	"monte_carlo":    "monaco",
}

// NormalizeGPName maps free text such as "Italian GP" or "abu dhabi" to a
// circuit id. Unrecognised names are returned in normalised form.
func NormalizeGPName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range []string{"grand prix", "gp"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
	if id, ok := gpAliases[s]; ok {
		return id
	}
	return s
}
