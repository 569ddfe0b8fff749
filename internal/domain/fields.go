package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	// FieldEmail is the unique key of the candidate record.
	FieldEmail    = "email"
	FieldFullName = "full_name"
)

// TargetFields is the catalog of fields the record store recognizes, with
// the spreadsheet header synonyms the sniffer matches against. Synonyms are
// compared case- and accent-insensitively, so "E-mail" and "Formação
// Acadêmica" match without special casing here.
var TargetFields = []struct {
	Name     string
	Synonyms []string
}{
	{FieldEmail, []string{"email", "e-mail"}},
	{FieldFullName, []string{"nome", "name", "full name"}},
	{"phone", []string{"telefone", "phone", "celular"}},
	{"city", []string{"cidade", "city"}},
	{"zip_code", []string{"cep", "zip", "zip code"}},
	{"linkedin", []string{"linkedin"}},
	{"cpf", []string{"cpf"}},
	{"current_position", []string{"posicao atual", "current position", "cargo"}},
	{"academic_degree", []string{"formacao academica", "academic degree"}},
	{"work_model", []string{"modelo de trabalho", "work model"}},
	{"salary_notes", []string{"obs. remuneracao", "salary notes"}},
	{"accepts_pj", []string{"aceita ser pj?", "aceita ser pj"}},
	{"is_pcd", []string{"pcd?", "pcd"}},
	{"has_drivers_license", []string{"possui cnh?", "possui cnh"}},
	{"contract_signed", []string{"contrato assinado?", "contrato assinado"}},
	{"minimum_salary", []string{"min mensal remuneracao total", "minimum salary"}},
	{"languages", []string{"idiomas", "languages"}},
	{"interview_date", []string{"data da entrevista", "interview date"}},
}

func KnownField(name string) bool {
	for _, f := range TargetFields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// ParseBool interprets spreadsheet booleans, "Sim"/"Não" included.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sim", "yes", "true", "s", "y", "1":
		return true
	default:
		return false
	}
}

// ParseCurrency converts values like "R$ 7.500,00" to 7500.00. Unparseable
// values yield zero rather than failing the row.
func ParseCurrency(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}

	return value
}

// ParseList splits comma-separated cells into trimmed items.
func ParseList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
}

// ParseDate tries the date formats seen in source spreadsheets; nil when
// none match.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}
