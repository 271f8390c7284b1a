package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// SELECTION DOCUMENT TESTS
// ============================================================================

func TestParseSelectionYAML(t *testing.T) {
	doc := []byte(`
status: CERRADA
channel: Todos
document_type: " DNI "
from: 2024-01-01
to: 2024-02-29
`)
	sel, err := ParseSelection(doc, DefaultAllLabel)
	require.NoError(t, err)

	assert.Equal(t, map[Column]string{ColStatus: "CERRADA", ColDocumentType: "DNI"}, sel.Equals)
	require.NotNil(t, sel.Dates)
	assert.Equal(t, day(2024, 1, 1), sel.Dates.Start)
	assert.Equal(t, day(2024, 2, 29), sel.Dates.End)
}

func TestParseSelectionJSON(t *testing.T) {
	sel, err := ParseSelection([]byte(`{"patient": "Ana Torres", "document": "12345678"}`), DefaultAllLabel)
	require.NoError(t, err)

	assert.Equal(t, "Ana Torres", sel.Equals[ColPatientID])
	assert.Equal(t, "12345678", sel.Equals[ColDocumentID])
	assert.Nil(t, sel.Dates)
}

func TestParseSelectionOpenRange(t *testing.T) {
	sel, err := ParseSelection([]byte("from: 2024-02-01\n"), DefaultAllLabel)
	require.NoError(t, err)
	require.NotNil(t, sel.Dates)

	view := ApplyFilters(claimsStore(), sel)
	assert.Equal(t, 3, view.Len())

	sel, err = ParseSelection([]byte("to: 2024-01-31\n"), DefaultAllLabel)
	require.NoError(t, err)
	assert.Equal(t, 2, ApplyFilters(claimsStore(), sel).Len())
}

func TestParseSelectionErrors(t *testing.T) {
	_, err := ParseSelection([]byte("from: 01/02/2024\n"), DefaultAllLabel)
	assert.Error(t, err)

	_, err = ParseSelection([]byte("status: [unclosed"), DefaultAllLabel)
	assert.Error(t, err)
}

func TestParseSelectionEmpty(t *testing.T) {
	sel, err := ParseSelection([]byte(""), DefaultAllLabel)
	require.NoError(t, err)
	assert.True(t, sel.IsEmpty())
}

func TestSelectionDocMerge(t *testing.T) {
	file, err := DecodeSelection([]byte("status: CERRADA\nchannel: Web\nfrom: 2024-01-01\n"))
	require.NoError(t, err)

	merged := file.Merge(SelectionDoc{Channel: "Presencial", To: "2024-01-31", Patient: "  "})
	assert.Equal(t, SelectionDoc{
		Status:  "CERRADA",
		Channel: "Presencial",
		From:    "2024-01-01",
		To:      "2024-01-31",
	}, merged)

	// Overriding with "Todos" clears the file's constraint.
	sel, err := file.Merge(SelectionDoc{Status: DefaultAllLabel}).Selection(DefaultAllLabel)
	require.NoError(t, err)
	assert.Equal(t, map[Column]string{ColChannel: "Web"}, sel.Equals)
	require.NotNil(t, sel.Dates)
	assert.Equal(t, day(2024, 1, 1), sel.Dates.Start)

	assert.Equal(t, file, file.Merge(SelectionDoc{}))
}

func TestDecodeSelectionError(t *testing.T) {
	_, err := DecodeSelection([]byte("channel: [x"))
	assert.Error(t, err)
}
