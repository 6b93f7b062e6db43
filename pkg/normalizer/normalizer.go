// Package normalizer maps the raw shapes produced by bank parsers onto
// models.CanonicalTransaction.
package normalizer

import (
	"github.com/shopspring/decimal"
	"github.com/yurifrl/extratos/pkg/models"
	"github.com/yurifrl/extratos/pkg/money"
)

// Normalize converts one raw transaction. It never fails: amounts that do
// not parse and shapes it does not recognize come back with a zero value and
// ValueInvalid set.
func Normalize(raw models.RawTransaction) models.CanonicalTransaction {
	switch tx := raw.(type) {
	case models.StatementLine:
		return fromStatementLine(tx)
	case *models.StatementLine:
		if tx != nil {
			return fromStatementLine(*tx)
		}
	case models.LedgerEntry:
		return fromLedgerEntry(tx)
	case *models.LedgerEntry:
		if tx != nil {
			return fromLedgerEntry(*tx)
		}
	}
	return models.CanonicalTransaction{Value: decimal.Zero, ValueInvalid: true}
}

// NormalizeAll normalizes every transaction keeping the input order.
func NormalizeAll(raws []models.RawTransaction) []models.CanonicalTransaction {
	out := make([]models.CanonicalTransaction, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

func fromStatementLine(tx models.StatementLine) models.CanonicalTransaction {
	value, ok := money.Parse(tx.Value)
	ct := models.CanonicalTransaction{
		Date:         tx.Date,
		History:      tx.History,
		Value:        value,
		Saldo:        money.ParsePtr(tx.Saldo),
		Type:         tx.Type,
		Raw:          tx.Raw,
		ValueInvalid: !ok,
	}
	// Incomplete lines pass through with whatever type they carry.
	if ct.Type == "" && tx.Date != "" && tx.History != "" {
		ct.Type = typeFromSign(value)
	}
	return ct
}

func fromLedgerEntry(tx models.LedgerEntry) models.CanonicalTransaction {
	ct := models.CanonicalTransaction{
		Date:    tx.Data,
		History: tx.Descricao,
		Value:   decimal.Zero,
		Saldo:   tx.Saldo,
		Raw:     tx.Linha,
	}
	if tx.Valor == nil {
		ct.ValueInvalid = true
	} else {
		ct.Value = *tx.Valor
	}
	ct.Type = typeFromSign(ct.Value)
	return ct
}

func typeFromSign(d decimal.Decimal) models.TransactionType {
	if d.IsNegative() {
		return models.Debito
	}
	return models.Credito
}
