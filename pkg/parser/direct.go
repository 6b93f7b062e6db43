package parser

import (
	"regexp"
	"strings"

	"github.com/yurifrl/extratos/pkg/models"
	"github.com/yurifrl/extratos/pkg/money"
)

// amountPattern matches "-R$ 1.234,56", "R$ 500,00", "120,00" and "1234,56".
const amountPattern = `-?(?:R\$\s*)?-?(?:\d{1,3}(?:\.\d{3})+|\d+),\d{2}\b`

// lineRe captures a full date, the value and an optional running balance
// that directly follows the value.
var lineRe = regexp.MustCompile(
	`(?i)\b(\d{2}/\d{2}/\d{4})\b` +
		`[\s\S]*?` +
		`(` + amountPattern + `)` +
		`(?:\s+(` + amountPattern + `))?`,
)

var minusBeforeCurrencyRe = regexp.MustCompile(`(?i)-\s*R\$`)

// DirectParser handles layouts where one regex captures date, value and
// balance in a single pass (BB, CAIXA, ITAU, BNB, SICREDI).
type DirectParser struct {
	bank models.Bank
	// minusBeforeCurrency also marks a line as debit when the matched text
	// has a "-" in front of "R$", even if the value itself has no sign.
	minusBeforeCurrency bool
}

func (p *DirectParser) Bank() models.Bank { return p.bank }

func (p *DirectParser) Parse(text string) []models.RawTransaction {
	txs := []models.RawTransaction{}
	for _, idx := range lineRe.FindAllStringSubmatchIndex(text, -1) {
		full := text[idx[0]:idx[1]]
		date := text[idx[2]:idx[3]]
		value := text[idx[4]:idx[5]]
		var saldo string
		if idx[6] >= 0 {
			saldo = text[idx[6]:idx[7]]
		}
		// Everything up to the end of the value, without the balance.
		head := text[idx[0]:idx[5]]

		history := removeFirst(full, date)
		history = removeFirst(history, value)
		history = removeFirst(history, saldo)

		line := models.StatementLine{
			Date:    date,
			History: collapseSpaces(history),
			Value:   money.Clean(value),
			Type:    models.Credito,
			Raw:     full,
		}
		if saldo != "" {
			s := money.Clean(saldo)
			line.Saldo = &s
		}
		if strings.HasPrefix(line.Value, "-") ||
			(p.minusBeforeCurrency && minusBeforeCurrencyRe.MatchString(head)) {
			line.Type = models.Debito
		}

		txs = append(txs, line)
	}
	return txs
}
