package schema

import (
	"strings"

	"github.com/spektr-org/claimlens/engine"
)

// ============================================================================
// SCHEMA — Describes the shape of a claims spreadsheet
// ============================================================================
// Maps the header text used by the source file onto engine columns, and
// carries the settings the loader needs to coerce cells (status labels,
// date layouts). Any subset of the columns may be absent from a file.
// ============================================================================

// Kind is the semantic type of a column.
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindDate        Kind = "date"
	KindNumeric     Kind = "numeric"
)

// ColumnMeta describes one known column.
type ColumnMeta struct {
	Key         engine.Column `json:"key"`
	Header      string        `json:"header"`
	Aliases     []string      `json:"aliases,omitempty"`
	DisplayName string        `json:"displayName"`
	Kind        Kind          `json:"kind"`
	Filterable  bool          `json:"filterable"`
}

// Config describes the complete shape of a claims dataset.
type Config struct {
	Name         string              `json:"name"`
	Columns      []ColumnMeta        `json:"columns"`
	StatusLabels engine.StatusLabels `json:"statusLabels"`
	DateLayouts  []string            `json:"dateLayouts,omitempty"`
}

// Default returns the schema of the clinic's claims export.
func Default() Config {
	return Config{
		Name: "Reclamos",
		Columns: []ColumnMeta{
			{Key: engine.ColStatus, Header: "ESTADO FINAL", DisplayName: "Estado Final", Kind: KindCategorical, Filterable: true},
			{Key: engine.ColDocumentID, Header: "DOCUMENTO", Aliases: []string{"DNI"}, DisplayName: "Documento", Kind: KindCategorical, Filterable: true},
			{Key: engine.ColDocumentType, Header: "TIPO DE DOCUMENTO", DisplayName: "Tipo de Documento", Kind: KindCategorical, Filterable: true},
			{Key: engine.ColPatientID, Header: "PACIENTE", DisplayName: "Paciente", Kind: KindCategorical, Filterable: true},
			{Key: engine.ColChannel, Header: "CANALES DE ATENCIÓN", Aliases: []string{"CANAL DE ATENCIÓN"}, DisplayName: "Canal de Atención", Kind: KindCategorical, Filterable: true},
			{Key: engine.ColIncidentDate, Header: "FECHA DEL INCIDENTE", DisplayName: "Fecha del Incidente", Kind: KindDate},
			{Key: engine.ColResponseDays, Header: "TIEMPO DE RESPUESTA(DIAS)", Aliases: []string{"TIEMPO DE RESPUESTA (DÍAS)"}, DisplayName: "Tiempo de Respuesta (días)", Kind: KindNumeric},
		},
		StatusLabels: engine.DefaultStatusLabels(),
		DateLayouts:  engine.DefaultDateLayouts,
	}
}

// Column returns the metadata of a column key.
func (c Config) Column(key engine.Column) (ColumnMeta, bool) {
	for _, m := range c.Columns {
		if m.Key == key {
			return m, true
		}
	}
	return ColumnMeta{}, false
}

// WithHeaders returns a copy of c whose header text is overridden per
// column key ("status" → "ESTADO"). Unknown keys are ignored; the previous
// header is kept as an alias.
func (c Config) WithHeaders(overrides map[string]string) Config {
	out := c
	out.Columns = make([]ColumnMeta, len(c.Columns))
	for i, m := range c.Columns {
		m.Aliases = append([]string(nil), m.Aliases...)
		if h, ok := overrides[string(m.Key)]; ok && strings.TrimSpace(h) != "" {
			m.Aliases = append(m.Aliases, m.Header)
			m.Header = strings.TrimSpace(h)
		}
		if m.DisplayName == "" {
			m.DisplayName = toDisplayName(m.Header)
		}
		out.Columns[i] = m
	}
	return out
}

// Parser returns a record parser configured from this schema.
func (c Config) Parser() engine.RecordParser {
	p := engine.NewRecordParser()
	if len(c.StatusLabels.Closed) > 0 || len(c.StatusLabels.Active) > 0 {
		p.Labels = c.StatusLabels
	}
	if len(c.DateLayouts) > 0 {
		p.DateLayouts = c.DateLayouts
	}
	return p
}
