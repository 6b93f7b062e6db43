package models

import "github.com/shopspring/decimal"

func init() {
	// Report consumers expect plain JSON numbers for amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType tells whether money left or entered the account.
type TransactionType string

const (
	Debito  TransactionType = "DEBITO"
	Credito TransactionType = "CREDITO"
)

// Family identifies the raw shape a bank parser produces.
type Family int

const (
	// FamilyHistory is the date/history shape with amounts kept as text.
	FamilyHistory Family = iota + 1
	// FamilyLedger is the data/descricao shape with amounts already parsed.
	FamilyLedger
)

// RawTransaction is a parser's output before normalization. It is either a
// StatementLine or a LedgerEntry.
type RawTransaction interface {
	Family() Family
}

// StatementLine is produced by the single-regex parsers (BB, CAIXA, ITAU...).
// Value and Saldo keep the text found in the statement, e.g. "-1.234,56".
type StatementLine struct {
	Date    string          `json:"date"`
	History string          `json:"history"`
	Value   string          `json:"value"`
	Saldo   *string         `json:"saldo"`
	Type    TransactionType `json:"type,omitempty"`
	Raw     string          `json:"raw"`
}

func (StatementLine) Family() Family { return FamilyHistory }

// LedgerEntry is produced by the date-segment parsers (BRADESCO style).
// Data is formatted as YYYY-MM-DD.
type LedgerEntry struct {
	Data      string           `json:"data"`
	Descricao string           `json:"descricao"`
	Documento *string          `json:"documento"`
	Valor     *decimal.Decimal `json:"valor"`
	Saldo     *decimal.Decimal `json:"saldo"`
	Linha     string           `json:"linha"`
}

func (LedgerEntry) Family() Family { return FamilyLedger }

// CanonicalTransaction is the bank independent shape used for aggregation.
type CanonicalTransaction struct {
	Date    string           `json:"date"`
	History string           `json:"history"`
	Value   decimal.Decimal  `json:"value"`
	Saldo   *decimal.Decimal `json:"saldo"`
	Type    TransactionType  `json:"type"`
	Raw     string           `json:"raw"`
	// ValueInvalid marks amounts that could not be parsed. Value is zero then.
	ValueInvalid bool `json:"valueInvalid,omitempty"`
}

// FileResult is the outcome of running extraction and parsing on one file.
type FileResult struct {
	File         string           `json:"file"`
	Text         string           `json:"text,omitempty"`
	Transactions []RawTransaction `json:"transactions"`
	Error        string           `json:"error,omitempty"`
}

// Failed reports whether extraction or parsing of the file failed.
func (r FileResult) Failed() bool {
	return r.Error != ""
}
