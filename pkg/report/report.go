// Package report groups normalized transactions per account and computes
// the credit/debit totals shown to users.
package report

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/extratos/pkg/models"
	"github.com/yurifrl/extratos/pkg/normalizer"
)

// bankTokens are filename prefixes that name the bank rather than the
// account. Longer tokens come first so "BANCO DO BRASIL" wins over "BB".
var bankTokens = []string{
	"BANCO DO BRASIL",
	"BRADESCO",
	"SANTANDER",
	"SICREDI",
	"UNICRED",
	"CAIXA",
	"ITAÚ",
	"ITAU",
	"BNB",
	"BB",
}

// FilterFunc reports whether a transaction takes part in the totals.
type FilterFunc func(models.CanonicalTransaction) bool

type options struct {
	filter FilterFunc
}

type Option func(*options)

// WithFilter drops transactions for which keep returns false.
func WithFilter(keep FilterFunc) Option {
	return func(o *options) {
		o.filter = keep
	}
}

// AccountName derives the account key from a statement filename:
// "BB CROSBY.pdf" -> "CROSBY".
func AccountName(file string) string {
	base := filepath.Base(file)
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))

	for _, tok := range bankTokens {
		if len(name) >= len(tok) && strings.EqualFold(name[:len(tok)], tok) {
			if rest := strings.Trim(name[len(tok):], " -_"); rest != "" {
				return rest
			}
			return name
		}
	}
	return name
}

// GroupByAccount normalizes the transactions of every successful file and
// buckets them by account name, in first-seen order. Failed files are skipped.
func GroupByAccount(results []models.FileResult, opts ...Option) []models.Account {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	accounts := []models.Account{}
	index := map[string]int{}
	for _, res := range results {
		if res.Failed() {
			continue
		}

		name := AccountName(res.File)
		i, ok := index[name]
		if !ok {
			i = len(accounts)
			index[name] = i
			accounts = append(accounts, models.Account{
				Account:      name,
				File:         res.File,
				Transactions: []models.CanonicalTransaction{},
				TotalCredito: decimal.Zero,
				TotalDebito:  decimal.Zero,
			})
		}

		acc := &accounts[i]
		acc.Files = append(acc.Files, res.File)
		for _, ct := range normalizer.NormalizeAll(res.Transactions) {
			if o.filter != nil && !o.filter(ct) {
				continue
			}
			add(acc, ct)
		}
	}
	return accounts
}

func add(acc *models.Account, ct models.CanonicalTransaction) {
	acc.Transactions = append(acc.Transactions, ct)
	acc.QuantidadeTransacoes++
	if ct.ValueInvalid {
		acc.ValoresInvalidos++
	}

	switch ct.Type {
	case models.Credito:
		acc.TotalCredito = acc.TotalCredito.Add(ct.Value.Abs())
	case models.Debito:
		acc.TotalDebito = acc.TotalDebito.Add(ct.Value.Abs())
	}
}

// CalculateConsolidated sums the per-account totals.
func CalculateConsolidated(accounts []models.Account) models.ConsolidatedTotals {
	totals := models.ConsolidatedTotals{
		TotalCredito: decimal.Zero,
		TotalDebito:  decimal.Zero,
		TotalContas:  len(accounts),
	}
	for _, acc := range accounts {
		totals.TotalCredito = totals.TotalCredito.Add(acc.TotalCredito)
		totals.TotalDebito = totals.TotalDebito.Add(acc.TotalDebito)
		totals.TotalTransacoes += acc.QuantidadeTransacoes
	}
	totals.SaldoLiquido = totals.TotalCredito.Sub(totals.TotalDebito)
	return totals
}

// Summaries lists every input file with its transaction count and error.
func Summaries(results []models.FileResult) []models.FileSummary {
	out := make([]models.FileSummary, 0, len(results))
	for _, res := range results {
		out = append(out, models.FileSummary{
			File:                 res.File,
			QuantidadeTransacoes: len(res.Transactions),
			SemTransacoes:        !res.Failed() && len(res.Transactions) == 0,
			Error:                res.Error,
		})
	}
	return out
}

// Build assembles the report for one bank run.
func Build(bank models.Bank, results []models.FileResult, now time.Time, opts ...Option) models.Report {
	accounts := GroupByAccount(results, opts...)
	return models.Report{
		Banco:        bank.Upper(),
		Accounts:     accounts,
		Consolidated: CalculateConsolidated(accounts),
		ProcessedAt:  now.Format(time.RFC3339),
		Arquivos:     Summaries(results),
	}
}
