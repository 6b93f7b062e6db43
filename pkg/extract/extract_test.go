package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/extratos/pkg/extract/extracttest"
)

func TestClean(t *testing.T) {
	// "ç" written as c + combining cedilla
	decomposed := "Lanc\u0327amento\u00a0R$ 500,00"

	got := Clean(decomposed)
	assert.Equal(t, "Lançamento R$ 500,00", got)
}

func TestPDF_MissingFile(t *testing.T) {
	e := NewPDF(log.Default())
	_, err := e.ExtractText(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.pdf")
}

func TestPDF_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is plain text, not a pdf"), 0o600))

	e := NewPDF(log.Default())
	_, err := e.ExtractText(context.Background(), path)
	assert.Error(t, err)
}

func TestPDF_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewPDF(log.Default())
	_, err := e.ExtractText(ctx, "whatever.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPDF_SeparatesRows(t *testing.T) {
	lines := []string{
		"01/11/2025 PAGAMENTO FORNECEDOR R$ 500,00",
		"02/11/2025 COMPRA CARTAO -R$ 120,00",
		"03/11/2025 TARIFA (PACOTE) -R$ 9,90",
	}
	path := filepath.Join(t.TempDir(), "BB CROSBY.pdf")
	extracttest.WritePDF(t, path, lines...)

	text, err := NewPDF(log.Default()).ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	got := strings.Split(text, "\n")
	if len(got) != len(lines) {
		t.Fatalf("Expected %d lines, got %d: %q", len(lines), len(got), text)
	}
	for i, want := range lines {
		if got[i] != want {
			t.Errorf("Line %d: expected %q, got %q", i, want, got[i])
		}
	}
}
