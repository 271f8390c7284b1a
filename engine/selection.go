package engine

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// SELECTION DOCUMENTS — FilterSelection from JSON or YAML
// ============================================================================
// A selection file mirrors the dashboard sidebar:
//
//	status: CERRADA
//	channel: Web
//	from: 2024-01-01
//	to: 2024-06-30
//
// YAML is a superset of JSON, so the same parser reads both.
// ============================================================================

// SelectionDoc is the serialized form of a FilterSelection.
type SelectionDoc struct {
	Status       string `json:"status,omitempty" yaml:"status,omitempty"`
	Document     string `json:"document,omitempty" yaml:"document,omitempty"`
	Patient      string `json:"patient,omitempty" yaml:"patient,omitempty"`
	Channel      string `json:"channel,omitempty" yaml:"channel,omitempty"`
	DocumentType string `json:"document_type,omitempty" yaml:"document_type,omitempty"`
	From         string `json:"from,omitempty" yaml:"from,omitempty"`
	To           string `json:"to,omitempty" yaml:"to,omitempty"`
}

// SelectionDateLayout is the layout of From and To.
const SelectionDateLayout = "2006-01-02"

var (
	openStart = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	openEnd   = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

// DecodeSelection reads a JSON or YAML selection document without
// interpreting it.
func DecodeSelection(data []byte) (SelectionDoc, error) {
	var doc SelectionDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return SelectionDoc{}, fmt.Errorf("failed to parse selection: %w", err)
	}
	return doc, nil
}

// ParseSelection decodes a JSON or YAML selection document. Values equal to
// allLabel are treated as "no constraint".
func ParseSelection(data []byte, allLabel string) (FilterSelection, error) {
	doc, err := DecodeSelection(data)
	if err != nil {
		return FilterSelection{}, err
	}
	return doc.Selection(allLabel)
}

// Merge returns d with every non-blank field of override applied on top.
func (d SelectionDoc) Merge(override SelectionDoc) SelectionDoc {
	pick := func(base, over string) string {
		if strings.TrimSpace(over) != "" {
			return over
		}
		return base
	}
	return SelectionDoc{
		Status:       pick(d.Status, override.Status),
		Document:     pick(d.Document, override.Document),
		Patient:      pick(d.Patient, override.Patient),
		Channel:      pick(d.Channel, override.Channel),
		DocumentType: pick(d.DocumentType, override.DocumentType),
		From:         pick(d.From, override.From),
		To:           pick(d.To, override.To),
	}
}

// Selection converts the document into a FilterSelection. A range with only
// one end is open on the other side.
func (d SelectionDoc) Selection(allLabel string) (FilterSelection, error) {
	sel := SelectionFromChoices(map[Column]string{
		ColStatus:       strings.TrimSpace(d.Status),
		ColDocumentID:   strings.TrimSpace(d.Document),
		ColPatientID:    strings.TrimSpace(d.Patient),
		ColChannel:      strings.TrimSpace(d.Channel),
		ColDocumentType: strings.TrimSpace(d.DocumentType),
	}, allLabel)

	from, to := strings.TrimSpace(d.From), strings.TrimSpace(d.To)
	if from == "" && to == "" {
		return sel, nil
	}

	start, end := openStart, openEnd
	if from != "" {
		t, err := time.Parse(SelectionDateLayout, from)
		if err != nil {
			return FilterSelection{}, fmt.Errorf("invalid from date %q: %w", from, err)
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse(SelectionDateLayout, to)
		if err != nil {
			return FilterSelection{}, fmt.Errorf("invalid to date %q: %w", to, err)
		}
		end = t
	}
	return sel.Between(start, end), nil
}
