package normalizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yurifrl/extratos/pkg/models"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNormalize_StatementLineKeepsExplicitType(t *testing.T) {
	cases := []struct {
		value string
		typ   models.TransactionType
		want  string
	}{
		{"-1.234,56", models.Debito, "-1234.56"},
		{"500,00", models.Credito, "500"},
		{"120,00", models.Debito, "120"},
		{"-10,00", models.Credito, "-10"},
	}

	for _, tc := range cases {
		ct := Normalize(models.StatementLine{
			Date:    "01/11/2025",
			History: "PIX",
			Value:   tc.value,
			Type:    tc.typ,
			Raw:     "raw",
		})
		assert.Equal(t, tc.typ, ct.Type, tc.value)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(ct.Value), "%s -> %s", tc.value, ct.Value)
		assert.False(t, ct.ValueInvalid)
	}
}

func TestNormalize_StatementLineInfersType(t *testing.T) {
	ct := Normalize(models.StatementLine{Date: "01/11/2025", History: "TARIFA", Value: "-9,90"})
	assert.Equal(t, models.Debito, ct.Type)

	ct = Normalize(models.StatementLine{Date: "01/11/2025", History: "PIX", Value: "9,90"})
	assert.Equal(t, models.Credito, ct.Type)
}

func TestNormalize_StatementLineFields(t *testing.T) {
	ct := Normalize(models.StatementLine{
		Date:    "05/03/2024",
		History: "PAGAMENTO",
		Value:   "-1.234,56",
		Saldo:   strPtr("10.000,00"),
		Type:    models.Debito,
		Raw:     "05/03/2024 PAGAMENTO -R$ 1.234,56 R$ 10.000,00",
	})

	assert.Equal(t, "05/03/2024", ct.Date)
	assert.Equal(t, "PAGAMENTO", ct.History)
	require.NotNil(t, ct.Saldo)
	assert.Equal(t, "10000", ct.Saldo.String())
	assert.Equal(t, "05/03/2024 PAGAMENTO -R$ 1.234,56 R$ 10.000,00", ct.Raw)
}

func TestNormalize_InvalidValueIsFlagged(t *testing.T) {
	ct := Normalize(models.StatementLine{
		Date:    "01/11/2025",
		History: "ESTRANHO",
		Value:   "abc",
		Saldo:   strPtr("xyz"),
		Type:    models.Credito,
	})
	assert.True(t, ct.Value.IsZero())
	assert.True(t, ct.ValueInvalid)
	assert.Nil(t, ct.Saldo)
	assert.Equal(t, models.Credito, ct.Type)
}

func TestNormalize_LedgerEntry(t *testing.T) {
	ct := Normalize(models.LedgerEntry{
		Data:      "2025-11-13",
		Descricao: "COMPRA",
		Documento: strPtr("1234567"),
		Valor:     decPtr("-120"),
		Saldo:     decPtr("1880"),
		Linha:     "13/11 COMPRA DEBITO -120,00 1.880,00",
	})

	assert.Equal(t, "2025-11-13", ct.Date)
	assert.Equal(t, "COMPRA", ct.History)
	assert.Equal(t, "-120", ct.Value.String())
	assert.Equal(t, "1880", ct.Saldo.String())
	assert.Equal(t, models.Debito, ct.Type)
	assert.Equal(t, "13/11 COMPRA DEBITO -120,00 1.880,00", ct.Raw)
	assert.False(t, ct.ValueInvalid)

	ct = Normalize(&models.LedgerEntry{Data: "2025-11-12", Descricao: "PIX", Valor: decPtr("500")})
	assert.Equal(t, models.Credito, ct.Type)
}

func TestNormalize_LedgerEntryWithoutValue(t *testing.T) {
	ct := Normalize(models.LedgerEntry{Data: "2025-11-12", Descricao: "PIX"})
	assert.True(t, ct.ValueInvalid)
	assert.True(t, ct.Value.IsZero())
	assert.Equal(t, models.Credito, ct.Type)
}

func TestNormalize_Fallback(t *testing.T) {
	ct := Normalize(nil)
	assert.True(t, ct.ValueInvalid)
	assert.True(t, ct.Value.IsZero())

	var nilLine *models.StatementLine
	ct = Normalize(nilLine)
	assert.True(t, ct.ValueInvalid)

	ct = Normalize(models.StatementLine{History: "SEM DATA", Value: "abc", Type: models.Debito, Raw: "SEM DATA abc"})
	assert.True(t, ct.ValueInvalid)
	assert.True(t, ct.Value.IsZero())
	assert.Equal(t, "SEM DATA", ct.History)
	assert.Equal(t, models.Debito, ct.Type)
	assert.Equal(t, "SEM DATA abc", ct.Raw)
}

func TestNormalize_IncompleteLineKeepsAmount(t *testing.T) {
	cases := []struct {
		name    string
		line    models.StatementLine
		want    string
		wantTyp models.TransactionType
	}{
		{
			name:    "empty history",
			line:    models.StatementLine{Date: "05/03/2024", Value: "-10,00", Saldo: strPtr("100,00"), Type: models.Debito},
			want:    "-10",
			wantTyp: models.Debito,
		},
		{
			name:    "empty date",
			line:    models.StatementLine{History: "SEM DATA", Value: "1.250,00", Type: models.Credito},
			want:    "1250",
			wantTyp: models.Credito,
		},
		{
			name: "no type",
			line: models.StatementLine{Date: "05/03/2024", Value: "-3,00"},
			want: "-3",
		},
	}

	for _, tc := range cases {
		ct := Normalize(tc.line)
		if ct.ValueInvalid {
			t.Errorf("%s: expected valid value", tc.name)
		}
		if ct.Value.String() != tc.want {
			t.Errorf("%s: expected value %s, got %s", tc.name, tc.want, ct.Value)
		}
		if ct.Type != tc.wantTyp {
			t.Errorf("%s: expected type %q, got %q", tc.name, tc.wantTyp, ct.Type)
		}
	}
}

func TestNormalizeAll_KeepsOrder(t *testing.T) {
	raws := []models.RawTransaction{
		models.StatementLine{Date: "01/11/2025", History: "A", Value: "1,00"},
		models.LedgerEntry{Data: "2025-11-02", Descricao: "B", Valor: decPtr("-2")},
	}
	out := NormalizeAll(raws)
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].History)
	assert.Equal(t, "B", out[1].History)
}
