package parser

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/extratos/pkg/models"
)

// BankParser turns the text of one statement into raw transactions. Parse
// must not panic and returns an empty slice when nothing matches.
type BankParser interface {
	Bank() models.Bank
	Parse(text string) []models.RawTransaction
}

type Parser struct {
	logger  *log.Logger
	now     func() time.Time
	parsers map[models.Bank]BankParser
}

type Option func(*Parser)

// WithClock sets the clock used to fill in the year of DD/MM dates.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// New returns a Parser with every supported bank registered.
func New(logger *log.Logger, opts ...Option) *Parser {
	p := &Parser{
		logger:  logger,
		now:     time.Now,
		parsers: make(map[models.Bank]BankParser),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, bp := range defaultParsers(p.now) {
		p.Register(bp)
	}
	return p
}

// Register adds a bank parser. Panics on duplicate bank.
func (p *Parser) Register(bp BankParser) {
	if _, ok := p.parsers[bp.Bank()]; ok {
		panic("duplicate parser for bank: " + string(bp.Bank()))
	}
	p.parsers[bp.Bank()] = bp
}

// ForBank returns the parser registered for bank.
func (p *Parser) ForBank(bank models.Bank) (BankParser, error) {
	bp, ok := p.parsers[bank]
	if !ok {
		return nil, &models.UnsupportedBankError{ID: string(bank)}
	}
	return bp, nil
}

// ParseText runs the bank's parser over text. A panic inside a parser is
// turned into an error so one bad document cannot stop a batch.
func (p *Parser) ParseText(bank models.Bank, text string) (txs []models.RawTransaction, err error) {
	bp, err := p.ForBank(bank)
	if err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("parser panic recovered", "bank", bank, "panic", rec)
			txs = nil
			err = fmt.Errorf("parsing %s statement: panic: %v", bank, rec)
		}
	}()

	txs = bp.Parse(text)
	p.logger.Debug("parsed statement text", "bank", bank, "chars", len(text), "transactions", len(txs))
	return txs, nil
}
