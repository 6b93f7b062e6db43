package parser

import (
	"time"

	"github.com/yurifrl/extratos/pkg/models"
)

// defaultParsers is the bank -> layout table. Banks whose statements print
// full dates next to value and balance use DirectParser; banks with DD/MM
// dates and a variable number of columns use SegmentParser.
func defaultParsers(now func() time.Time) []BankParser {
	return []BankParser{
		&DirectParser{bank: models.BB},
		&DirectParser{bank: models.Caixa, minusBeforeCurrency: true},
		&DirectParser{bank: models.Itau},
		&DirectParser{bank: models.BNB},
		&DirectParser{bank: models.Sicredi},
		newSegmentParser(models.Bradesco, now),
		newSegmentParser(models.Santander, now, `saldo\s+dispon[íi]vel`, `per[íi]odo`),
		newSegmentParser(models.Unicred, now, `cooperativa`, `conta\s+corrente`),
	}
}
