package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Name", "Count"},
		Rows: []map[string]string{
			{"Name": "Computing", "Count": "4"},
			{"Name": "Medicine, Surgery", "Count": "2"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Count", lines[0])
	assert.Equal(t, "Computing,4", lines[1])
	// Values containing commas must be quoted.
	assert.Equal(t, `"Medicine, Surgery",2`, lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterMissingCellsStayEmpty(t *testing.T) {
	payload, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"A", "B"},
		Rows:    []map[string]string{{"A": "x"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(payload), "x,")
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleDataset(), "Offers Report")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}
