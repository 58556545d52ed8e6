package core

import (
	"fmt"
	"sort"
	"strings"
)

// Field is a canonical column name. Source files spell these many
// ways; the spellings table below maps every known historical header
// to its canonical field.
type Field string

const (
	FieldPatientID     Field = "patient_id"
	FieldPhysician     Field = "physician"
	FieldPayerCategory Field = "payer_category"
	FieldServiceType   Field = "service_type"
	FieldUnitValue     Field = "unit_value"
	FieldServiceDate   Field = "service_date"
	FieldYear          Field = "year"
	FieldMonth         Field = "month"
	FieldFacility      Field = "facility"
	FieldWeekday       Field = "weekday"
)

// Variant selects which minimal column set an upload must satisfy.
type Variant string

const (
	// VariantMinimal covers the oldest exports: physician, payer
	// category and unit value only.
	VariantMinimal Variant = "minimal"
	// VariantExtended additionally requires patient, service type,
	// facility and a time axis (a date column, or year and month).
	VariantExtended Variant = "extended"
)

// spellings maps each canonical field to the normalized header names
// observed across export variants. Declared once; BindSchema resolves
// headers against it instead of scattering string checks.
var spellings = map[Field][]string{
	FieldPatientID:     {"paciente", "nome_do_paciente", "nome_paciente", "patient", "patient_id"},
	FieldPhysician:     {"medico", "profissional", "dr", "physician"},
	FieldPayerCategory: {"categoria", "convenio", "plano", "payer_category"},
	FieldServiceType:   {"atendimento", "tipo_de_atendimento", "tipo_atendimento", "procedimento", "service_type"},
	FieldUnitValue:     {"valor_unitario", "valor", "vl_unitario", "unit_value"},
	FieldServiceDate:   {"data", "data_atendimento", "dt_atendimento", "service_date"},
	FieldYear:          {"ano", "year"},
	FieldMonth:         {"mes", "month"},
	FieldFacility:      {"unidade", "filial", "clinica", "facility"},
	FieldWeekday:       {"dia_semana", "dia_da_semana", "weekday"},
}

// Schema is the binding of an upload's headers to canonical fields.
type Schema struct {
	Variant Variant
	cols    map[Field]int
}

// SchemaError reports the canonical columns an upload is missing.
// Distinct from an ingest parse failure: the file was readable but
// does not expose the required column set.
type SchemaError struct {
	Missing []Field
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return "missing required columns: " + strings.Join(names, ", ")
}

// BindSchema normalizes the header list and resolves each canonical
// field to its column index. Headers must already be decoded; they are
// normalized here, so validation never fails on accent or case
// differences. Extra columns are ignored.
func BindSchema(headers []string, v Variant) (*Schema, error) {
	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		key := NormalizeKey(h)
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}

	cols := make(map[Field]int)
	for field, names := range spellings {
		for _, name := range names {
			if i, ok := byName[name]; ok {
				cols[field] = i
				break
			}
		}
	}

	s := &Schema{Variant: v, cols: cols}
	if missing := s.missing(); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return s, nil
}

func (s *Schema) missing() []Field {
	required := []Field{FieldPhysician, FieldPayerCategory, FieldUnitValue}
	if s.Variant == VariantExtended {
		required = append(required, FieldPatientID, FieldServiceType, FieldFacility)
	}

	var missing []Field
	for _, f := range required {
		if !s.Has(f) {
			missing = append(missing, f)
		}
	}
	if s.Variant == VariantExtended {
		// The time axis is satisfiable two ways: a date column, or
		// explicit year+month columns.
		if !s.Has(FieldServiceDate) && !(s.Has(FieldYear) && s.Has(FieldMonth)) {
			missing = append(missing, FieldServiceDate)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// Has reports whether the schema bound the given field.
func (s *Schema) Has(f Field) bool {
	_, ok := s.cols[f]
	return ok
}

// Index returns the bound column index for a field.
func (s *Schema) Index(f Field) (int, bool) {
	i, ok := s.cols[f]
	return i, ok
}

// cell returns the raw value of field f in row, or "" when unbound or
// the row is short.
func (s *Schema) cell(row []string, f Field) string {
	i, ok := s.cols[f]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (v Variant) valid() bool {
	return v == VariantMinimal || v == VariantExtended
}

// ParseVariant converts a configuration string to a Variant.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if !v.valid() {
		return "", fmt.Errorf("unknown schema variant %q", s)
	}
	return v, nil
}
