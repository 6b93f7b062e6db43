package plan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/extratos/pkg/config"
	"github.com/yurifrl/extratos/pkg/models"
)

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writePlan(t, `
base_dir: /data
period: NOVEMBRO 2025
banks:
  - id: BB
  - id: caixa
    dir: /mnt/caixa
`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []models.Bank{models.BB, models.Caixa}, p.BankList())

	cfg := p.Config(config.Default())
	assert.Equal(t, filepath.Join("/data", "EXTRATO NOVEMBRO 2025", "BB"), cfg.BankDir(models.BB))
	assert.Equal(t, "/mnt/caixa", cfg.BankDir(models.Caixa))

	var buf bytes.Buffer
	p.Print(&buf, cfg)
	assert.Contains(t, buf.String(), "bank=caixa dir=/mnt/caixa")
}

func TestLoad_KeepsBaseConfig(t *testing.T) {
	base := config.Default()
	base.BaseDir = "/base"
	base.Workers = 9

	p, err := Load(writePlan(t, "banks:\n  - id: itau\n"))
	require.NoError(t, err)

	cfg := p.Config(base)
	assert.Equal(t, 9, cfg.Workers)
	assert.Equal(t, filepath.Join("/base", "ITAU"), cfg.BankDir(models.Itau))
	assert.Empty(t, base.Banks)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":     "period: X\n",
		"unknown":   "banks:\n  - id: nubank\n",
		"duplicate": "banks:\n  - id: bb\n  - id: BB\n",
		"yaml":      "banks: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writePlan(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_UnknownBankIsTyped(t *testing.T) {
	_, err := Load(writePlan(t, "banks:\n  - id: nubank\n"))
	assert.ErrorIs(t, err, models.ErrUnsupportedBank)
}
