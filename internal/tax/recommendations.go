package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Recommendation trigger thresholds, as fractions of the exemption limit.
var (
	exemptionWarnFraction  = decimal.NewFromFloat(0.8)
	exemptionLimitFraction = decimal.NewFromFloat(0.9)
	hundred                = decimal.NewFromInt(100)
)

// recommendations produces the deterministic advisory texts for a finished
// summary. The wording is presentational; the numeric triggers are part of
// the engine's contract and must stay stable.
func (e *Engine) recommendations(s *YearlySummary) []string {
	var recs []string

	if s.TotalExemptedSales.GreaterThan(e.params.ExemptionFlagLimit.Mul(exemptionWarnFraction)) {
		recs = append(recs,
			"Você está próximo do limite de isenção mensal. "+
				"Considere postergar vendas para o próximo mês.")
	}

	if s.Losses.IsPositive() {
		recs = append(recs,
			"Atenção para operações de wash sale que podem ser "+
				"questionadas pela Receita Federal. Mantenha um intervalo "+
				"adequado entre vendas com prejuízo e recompras.")
	}

	for _, m := range s.MonthlyBreakdown {
		if m.SalesTotal.GreaterThan(e.params.ExemptionFlagLimit.Mul(exemptionLimitFraction)) {
			recs = append(recs, fmt.Sprintf(
				"Vendas em %s próximas ao limite de isenção. "+
					"Considere postergar vendas adicionais para o próximo mês.", m.Month))
		}
	}

	if s.Gains.IsPositive() {
		recs = append(recs, fmt.Sprintf(
			"Oportunidade de tax loss harvesting identificada. "+
				"Considere realizar perdas para compensar ganhos de R$ %s.",
			s.Gains.StringFixed(2)))
	}

	if s.DayTradeGains.IsPositive() {
		recs = append(recs,
			"Considere converter operações day trade em swing trade "+
				"para aproveitar a isenção mensal de R$ 20.000.")
	}

	if s.CompensableLosses.IsPositive() {
		recs = append(recs, fmt.Sprintf(
			"Você tem R$ %s em prejuízos acumulados que podem ser "+
				"compensados em ganhos futuros. Planeje suas operações para "+
				"otimizar o uso destes prejuízos.",
			s.CompensableLosses.StringFixed(2)))
	}

	if s.DayTradeCompensableLosses.IsPositive() {
		recs = append(recs, fmt.Sprintf(
			"Você tem R$ %s em prejuízos de day trade que podem ser "+
				"compensados em operações futuras. Considere realizar day "+
				"trades com potencial de lucro para aproveitar estes prejuízos.",
			s.DayTradeCompensableLosses.StringFixed(2)))
	}

	if s.IRRFPaid.IsPositive() {
		recs = append(recs, fmt.Sprintf(
			"IRRF pago de R$ %s pode ser compensado do imposto devido no "+
				"ajuste anual. Mantenha a documentação das operações para "+
				"comprovar o recolhimento.",
			s.IRRFPaid.StringFixed(2)))
	}

	if s.PreviousYearLossesUsed.IsPositive() {
		recs = append(recs, fmt.Sprintf(
			"Você compensou R$ %s em prejuízos de anos anteriores. "+
				"Continue monitorando oportunidades de compensação de perdas.",
			s.PreviousYearLossesUsed.StringFixed(2)))
	}

	totalProfit := s.Gains.Add(s.DayTradeGains)
	if totalProfit.IsPositive() {
		effectiveRate := s.TaxOwed.Add(s.DayTradeTax).Div(totalProfit).Mul(hundred)
		recs = append(recs, fmt.Sprintf(
			"Sua alíquota efetiva de imposto é %s%%. Considere estratégias "+
				"para reduzir a carga tributária, como aproveitamento da "+
				"isenção mensal e compensação de perdas.",
			effectiveRate.StringFixed(1)))
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Sua estratégia fiscal está otimizada. Continue monitorando "+
				"os limites de isenção e oportunidades de compensação de perdas.")
	}

	return recs
}
