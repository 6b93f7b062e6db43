package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurifrl/extratos/pkg/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
}

func newTestParser() *Parser {
	return New(log.Default(), WithClock(fixedClock))
}

func TestNew_RegistersEveryBank(t *testing.T) {
	p := newTestParser()
	for _, b := range models.SupportedBanks {
		bp, err := p.ForBank(b)
		require.NoError(t, err, b)
		assert.Equal(t, b, bp.Bank())
	}
}

func TestForBank_Unknown(t *testing.T) {
	p := newTestParser()
	_, err := p.ForBank("nubank")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnsupportedBank))
}

func TestRegister_DuplicatePanics(t *testing.T) {
	p := newTestParser()
	assert.Panics(t, func() {
		p.Register(&DirectParser{bank: models.BB})
	})
}

type panicParser struct{}

func (panicParser) Bank() models.Bank { return "broken" }
func (panicParser) Parse(string) []models.RawTransaction {
	panic("boom")
}

func TestParseText_RecoversPanic(t *testing.T) {
	p := newTestParser()
	p.Register(panicParser{})

	txs, err := p.ParseText("broken", "01/01/2025 X 1,00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, txs)
}

func TestParse_NeverFailsOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t ",
		"no dates or money here",
		"R$ 12,00 without a date",
		"31/12/2025",
		"31/12",
		"01/01/2025 01/01/2025 R$",
		strings.Repeat("99/99/9999 ,00 -R$ ", 200),
		"\x00\xff\xfe invalid utf8 01/02/2024 5,00",
	}

	p := newTestParser()
	for _, b := range models.SupportedBanks {
		for _, in := range inputs {
			txs, err := p.ParseText(b, in)
			assert.NoError(t, err, "bank %s input %q", b, in)
			assert.NotNil(t, txs, "bank %s input %q", b, in)
		}
	}
}

func TestParseText_EmptyInputIsEmptySlice(t *testing.T) {
	p := newTestParser()
	for _, b := range models.SupportedBanks {
		txs, err := p.ParseText(b, "")
		require.NoError(t, err)
		assert.Empty(t, txs, b)
	}
}
