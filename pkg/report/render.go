package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/yurifrl/extratos/pkg/models"
	"github.com/yurifrl/extratos/pkg/money"
)

// NoTransactionsHint is shown next to files that parsed without errors but
// produced nothing.
const NoTransactionsHint = "no transactions found by current heuristics"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	creditStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	debitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
)

// Render writes a human readable summary of r.
func Render(w io.Writer, r models.Report) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("%s %s\n", titleStyle.Render(r.Banco), mutedStyle.Render(r.ProcessedAt))

	for _, acc := range r.Accounts {
		printf("  %-30s %4d txs  %s  %s",
			acc.Account,
			acc.QuantidadeTransacoes,
			creditStyle.Render("+"+money.Format(acc.TotalCredito)),
			debitStyle.Render("-"+money.Format(acc.TotalDebito)),
		)
		if acc.ValoresInvalidos > 0 {
			printf("  %s", warnStyle.Render(fmt.Sprintf("%d invalid amount(s)", acc.ValoresInvalidos)))
		}
		printf("\n")
	}

	c := r.Consolidated
	printf("\n%s %d account(s), %d transaction(s)\n", titleStyle.Render("Total:"), c.TotalContas, c.TotalTransacoes)
	printf("  credit %s  debit %s  net %s\n",
		creditStyle.Render(money.Format(c.TotalCredito)),
		debitStyle.Render(money.Format(c.TotalDebito)),
		titleStyle.Render(money.Format(c.SaldoLiquido)),
	)

	if len(r.Arquivos) > 0 {
		printf("\n%s\n", titleStyle.Render("Files:"))
	}
	for _, f := range r.Arquivos {
		switch {
		case f.Error != "":
			printf("  %s %s: %s\n", debitStyle.Render("x"), f.File, f.Error)
		case f.SemTransacoes:
			printf("  %s %s: %s\n", warnStyle.Render("!"), f.File, NoTransactionsHint)
		default:
			printf("  %s %s: %d\n", mutedStyle.Render("="), f.File, f.QuantidadeTransacoes)
		}
	}
	return err
}
