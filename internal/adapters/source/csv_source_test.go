package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeLeadFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSourceRead(t *testing.T) {
	path := writeLeadFile(t, "\uFEFFCompany,Contact_Email,Contact_Title\n"+
		"Acme,john@acme.com,CEO\n"+
		"Globex,N/A\n"+
		"\n"+
		"Initech,sam@initech.com,Engineer\n")

	src := NewCSVSource(path, zap.NewNop())
	leads, err := src.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 3)

	assert.Equal(t, []string{"Company", "Contact_Email", "Contact_Title"}, src.Header(),
		"BOM is stripped from the first column")

	assert.Equal(t, "Acme", leads[0]["Company"])
	assert.Equal(t, "john@acme.com", leads[0]["Contact_Email"])

	_, present := leads[1]["Contact_Title"]
	assert.False(t, present, "short rows leave trailing fields absent")
	assert.Equal(t, "N/A", leads[1]["Contact_Email"])

	assert.Equal(t, "Initech", leads[2]["Company"])
}

func TestCSVSourceHeaderOnly(t *testing.T) {
	src := NewCSVSource(writeLeadFile(t, "Company,Email\n"), zap.NewNop())
	leads, err := src.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
	assert.Equal(t, []string{"Company", "Email"}, src.Header())
}

func TestCSVSourceEmptyFile(t *testing.T) {
	src := NewCSVSource(writeLeadFile(t, ""), zap.NewNop())
	_, err := src.Read(context.Background())
	assert.ErrorContains(t, err, "no header row")
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), zap.NewNop())
	_, err := src.Read(context.Background())
	assert.ErrorContains(t, err, "failed to open lead file")
}
