// Package report renders ledger read models as markdown.
package report

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"finance/internal/domain"
	"finance/internal/utils"
)

var funcs = template.FuncMap{
	"usd":  utils.USD,
	"cell": escapeCell,
	"ts":   utils.FormatTimestamp,
	"abs": func(shares int64) int64 {
		if shares < 0 {
			return -shares
		}
		return shares
	},
	"side": func(tx *domain.Transaction) string {
		if tx.IsBuy() {
			return "BUY"
		}
		return "SELL"
	},
	"gain": func(p *domain.Portfolio) decimal.Decimal {
		return p.Total.Sub(p.StartingBalance)
	},
}

const portfolioTemplate = `# Portfolio of {{ cell .Username }}

{{ if .Portfolio.Holdings -}}
| Symbol | Name | Shares | Price | Avg Cost | Total |
|:---|:---|---:|---:|---:|---:|
{{- range .Portfolio.Holdings }}
| {{ cell .Symbol }} | {{ cell .Name }} | {{ .Shares }} | {{ usd .Price }} | {{ usd .AvgCost }} | {{ usd .TotalValue }} |
{{- end }}
| **Holdings** | | | | | **{{ usd .Portfolio.HoldingsValue }}** |
{{- else -}}
_No holdings._
{{- end }}

| | Amount |
|:---|---:|
| Cash | {{ usd .Portfolio.Cash }} |
| **Total** | **{{ usd .Portfolio.Total }}** |
| Starting balance | {{ usd .Portfolio.StartingBalance }} |
| Gain | {{ usd (gain .Portfolio) }} |
`

const historyTemplate = `# History of {{ cell .Username }}

{{ if .Transactions -}}
| Executed | Side | Symbol | Shares | Price |
|:---|:---|:---|---:|---:|
{{- range .Transactions }}
| {{ ts .ExecutedAt }} | {{ side . }} | {{ cell .Symbol }} | {{ abs .Shares }} | {{ usd .Price }} |
{{- end }}
{{- else -}}
_No transactions._
{{- end }}
`

var (
	portfolioTmpl = template.Must(template.New("portfolio").Funcs(funcs).Parse(portfolioTemplate))
	historyTmpl   = template.Must(template.New("history").Funcs(funcs).Parse(historyTemplate))
)

// Portfolio renders a user's holdings and cash position
func Portfolio(username string, p *domain.Portfolio) string {
	return render(portfolioTmpl, struct {
		Username  string
		Portfolio *domain.Portfolio
	}{username, p})
}

// History renders a user's transactions in execution order
func History(username string, txs []*domain.Transaction) string {
	return render(historyTmpl, struct {
		Username     string
		Transactions []*domain.Transaction
	}{username, txs})
}

// Stamp appends a generation footer
func Stamp(md string, at time.Time) string {
	return fmt.Sprintf("%s\n_Generated %s UTC._\n", md, utils.FormatTimestamp(at))
}

// escapeCell keeps free text from splitting a markdown table row
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func render(tmpl *template.Template, data any) string {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
