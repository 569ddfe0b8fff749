package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID              uuid.UUID  `db:"id"               json:"id"`
	Email           string     `db:"email"            json:"email"`
	FullName        string     `db:"full_name"        json:"full_name"`
	Phone           string     `db:"phone"            json:"phone"`
	City            string     `db:"city"             json:"city"`
	ZipCode         string     `db:"zip_code"         json:"zip_code"`
	Linkedin        string     `db:"linkedin"         json:"linkedin"`
	CPF             string     `db:"cpf"              json:"cpf"`
	CurrentPosition string     `db:"current_position" json:"current_position"`
	AcademicDegree  string     `db:"academic_degree"  json:"academic_degree"`
	WorkModel       string     `db:"work_model"       json:"work_model"`
	SalaryNotes     string     `db:"salary_notes"     json:"salary_notes"`
	AcceptsPJ       bool       `db:"accepts_pj"       json:"accepts_pj"`
	IsPCD           bool       `db:"is_pcd"           json:"is_pcd"`
	HasDrivers      bool       `db:"has_drivers_license" json:"has_drivers_license"`
	ContractSigned  bool       `db:"contract_signed"  json:"contract_signed"`
	MinimumSalary   float64    `db:"minimum_salary"   json:"minimum_salary"`
	Languages       []string   `db:"languages"        json:"languages"`
	InterviewDate   *time.Time `db:"interview_date"   json:"interview_date"`
}

// Apply sets the target field from a raw cell value, coercing it according
// to the field's kind. Unknown fields are rejected; coercion itself is
// lenient and falls back to the zero value, matching the source data which
// is free-form spreadsheet text.
func (c *Candidate) Apply(field, raw string) error {
	switch field {
	case FieldEmail:
		c.Email = strings.TrimSpace(raw)
	case FieldFullName:
		c.FullName = strings.TrimSpace(raw)
	case "phone":
		c.Phone = strings.TrimSpace(raw)
	case "city":
		c.City = strings.TrimSpace(raw)
	case "zip_code":
		c.ZipCode = strings.TrimSpace(raw)
	case "linkedin":
		c.Linkedin = strings.TrimSpace(raw)
	case "cpf":
		c.CPF = strings.TrimSpace(raw)
	case "current_position":
		c.CurrentPosition = strings.TrimSpace(raw)
	case "academic_degree":
		c.AcademicDegree = strings.TrimSpace(raw)
	case "work_model":
		c.WorkModel = strings.TrimSpace(raw)
	case "salary_notes":
		c.SalaryNotes = strings.TrimSpace(raw)
	case "accepts_pj":
		c.AcceptsPJ = ParseBool(raw)
	case "is_pcd":
		c.IsPCD = ParseBool(raw)
	case "has_drivers_license":
		c.HasDrivers = ParseBool(raw)
	case "contract_signed":
		c.ContractSigned = ParseBool(raw)
	case "minimum_salary":
		c.MinimumSalary = ParseCurrency(raw)
	case "languages":
		c.Languages = ParseList(raw)
	case "interview_date":
		c.InterviewDate = ParseDate(raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	return nil
}

// Validate checks the row-level invariants before the candidate reaches the
// duplicate resolver or the record store.
func (c *Candidate) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("email is required")
	}

	if !strings.Contains(c.Email, "@") {
		return fmt.Errorf("invalid email %q", c.Email)
	}

	if c.FullName == "" {
		return fmt.Errorf("full_name is required")
	}

	return nil
}
