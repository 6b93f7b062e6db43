package models

import "github.com/shopspring/decimal"

// Account groups the canonical transactions of one bank account.
type Account struct {
	Account              string                 `json:"account"`
	File                 string                 `json:"file"`
	Files                []string               `json:"files"`
	Transactions         []CanonicalTransaction `json:"transactions"`
	TotalCredito         decimal.Decimal        `json:"totalCredito"`
	TotalDebito          decimal.Decimal        `json:"totalDebito"`
	QuantidadeTransacoes int                    `json:"quantidadeTransacoes"`
	ValoresInvalidos     int                    `json:"valoresInvalidos"`
}

// ConsolidatedTotals is derived from a set of accounts and never stored.
type ConsolidatedTotals struct {
	TotalCredito    decimal.Decimal `json:"totalCredito"`
	TotalDebito     decimal.Decimal `json:"totalDebito"`
	SaldoLiquido    decimal.Decimal `json:"saldoLiquido"`
	TotalTransacoes int             `json:"totalTransacoes"`
	TotalContas     int             `json:"totalContas"`
}

// FileSummary describes what happened to a single input file.
type FileSummary struct {
	File                 string `json:"file"`
	QuantidadeTransacoes int    `json:"quantidadeTransacoes"`
	SemTransacoes        bool   `json:"semTransacoes"`
	Error                string `json:"error,omitempty"`
}

// Report is the result of processing one bank.
type Report struct {
	Banco        string             `json:"banco"`
	Accounts     []Account          `json:"accounts"`
	Consolidated ConsolidatedTotals `json:"consolidated"`
	ProcessedAt  string             `json:"processedAt"`
	Arquivos     []FileSummary      `json:"arquivos"`
}
