package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/extratos/pkg/models"
	"github.com/yurifrl/extratos/pkg/money"
)

var (
	dateTokenRe     = regexp.MustCompile(`\b\d{2}/\d{2}(?:/\d{4})?\b`)
	amountTokenRe   = regexp.MustCompile(`(?i)` + amountPattern)
	columnLabelRe   = regexp.MustCompile(`(?i)\bdcto\.|\b(?:cr[ée]dito|d[ée]bito|saldo)\b`)
	documentRe      = regexp.MustCompile(`\d{6,}`)
	saldoAnteriorRe = regexp.MustCompile(`(?i)^saldo\s+anterior`)
)

// defaultHeadings are statement headers that start with a date-like token
// but never describe a movement.
var defaultHeadings = []string{
	`extrato`,
	`ag[êe]ncia`,
	`total\s+dispon[íi]vel`,
	`data\s+lan[çc]amento`,
}

// SegmentParser handles layouts whose column count varies per line
// (BRADESCO style). The text is cut at every date token and each piece is
// read right to left: last amount is the balance, the one before is the value.
type SegmentParser struct {
	bank     models.Bank
	headings *regexp.Regexp
	now      func() time.Time
}

func newSegmentParser(bank models.Bank, now func() time.Time, extraHeadings ...string) *SegmentParser {
	alts := append(append([]string{}, defaultHeadings...), extraHeadings...)
	return &SegmentParser{
		bank:     bank,
		headings: regexp.MustCompile(`(?i)^(?:` + strings.Join(alts, "|") + `)`),
		now:      now,
	}
}

func (p *SegmentParser) Bank() models.Bank { return p.bank }

func (p *SegmentParser) Parse(text string) []models.RawTransaction {
	txs := []models.RawTransaction{}
	for _, seg := range splitAtDates(text) {
		if entry, ok := p.parseSegment(seg); ok {
			txs = append(txs, entry)
		}
	}
	return txs
}

// splitAtDates cuts text into pieces that each start at a date token.
func splitAtDates(text string) []string {
	locs := dateTokenRe.FindAllStringIndex(text, -1)
	segments := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if seg := collapseSpaces(text[loc[0]:end]); seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

func (p *SegmentParser) parseSegment(seg string) (models.LedgerEntry, bool) {
	date := dateTokenRe.FindString(seg)
	if date == "" {
		return models.LedgerEntry{}, false
	}
	if p.headings.MatchString(strings.TrimSpace(strings.TrimPrefix(seg, date))) {
		return models.LedgerEntry{}, false
	}

	amounts := amountTokenRe.FindAllString(seg, -1)
	if len(amounts) == 0 {
		return models.LedgerEntry{}, false
	}
	value, saldo := amounts[len(amounts)-1], ""
	if len(amounts) >= 2 {
		value, saldo = amounts[len(amounts)-2], amounts[len(amounts)-1]
	}

	body := removeFirst(seg, date)
	body = removeFirst(body, saldo)
	body = removeFirst(body, value)
	body = collapseSpaces(body)
	if saldoAnteriorRe.MatchString(body) {
		return models.LedgerEntry{}, false
	}
	body = collapseSpaces(columnLabelRe.ReplaceAllString(body, " "))

	entry := models.LedgerEntry{
		Data:  isoDate(date, p.now()),
		Linha: seg,
	}
	if doc := documentRe.FindString(body); doc != "" {
		entry.Documento = &doc
		body = removeFirst(body, doc)
	}
	entry.Descricao = collapseSpaces(body)
	if saldoAnteriorRe.MatchString(entry.Descricao) {
		return models.LedgerEntry{}, false
	}

	v, ok := money.Parse(value)
	if !ok {
		v = decimal.Zero
	}
	entry.Valor = &v
	if saldo != "" {
		entry.Saldo = money.ParsePtr(&saldo)
	}
	return entry, true
}

// isoDate converts DD/MM or DD/MM/YYYY to YYYY-MM-DD, taking the year from
// now when the token has none.
func isoDate(token string, now time.Time) string {
	parts := strings.Split(token, "/")
	year := fmt.Sprintf("%04d", now.Year())
	if len(parts) == 3 {
		year = parts[2]
	}
	return fmt.Sprintf("%s-%s-%s", year, parts[1], parts[0])
}
