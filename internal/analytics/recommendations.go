package analytics

import "fmt"

// Advisory thresholds, in percent of portfolio value.
const (
	usdExposureHigh      = 70.0
	usdExposureLow       = 30.0
	topHoldingLimit      = 30.0
	diversificationFloor = 50.0
	volatilityCeiling    = 0.40
)

// BuildReport assembles the full risk report with advisory texts.
// portfolioReturns and marketReturns must be aligned; either may be nil
// when not enough history exists.
func BuildReport(holdings []Holding, portfolioReturns, marketReturns []float64) RiskReport {
	report := RiskReport{
		AnnualizedVolatility: AnnualizedVolatility(portfolioReturns),
		Beta:                 Beta(portfolioReturns, marketReturns),
		VaR95:                VaR95(portfolioReturns),
		ExpectedShortfall:    ExpectedShortfall(portfolioReturns),
		DiversificationScore: DiversificationScore(holdings),
		USDExposurePercent:   USDExposure(holdings),
		Concentration:        Concentrate(holdings),
	}
	report.Recommendations = recommendations(report)
	return report
}

func recommendations(r RiskReport) []string {
	var recs []string

	if r.USDExposurePercent > usdExposureHigh {
		recs = append(recs, fmt.Sprintf(
			"Exposição cambial de %.1f%% em dólar. Considere instrumentos de "+
				"hedge cambial para proteger o portfólio de uma queda do dólar.",
			r.USDExposurePercent))
	} else if r.USDExposurePercent < usdExposureLow && r.USDExposurePercent > 0 {
		recs = append(recs, fmt.Sprintf(
			"Exposição cambial de apenas %.1f%% em dólar. Considere aumentar "+
				"a diversificação internacional do portfólio.",
			r.USDExposurePercent))
	}

	if r.Concentration.TopHoldingPercent > topHoldingLimit {
		recs = append(recs, fmt.Sprintf(
			"Concentração de %.1f%% em %s. Considere redistribuir parte da "+
				"posição para reduzir o risco específico.",
			r.Concentration.TopHoldingPercent, r.Concentration.TopHolding))
	}

	if r.DiversificationScore > 0 && r.DiversificationScore < diversificationFloor {
		recs = append(recs, fmt.Sprintf(
			"Score de diversificação baixo (%.0f/100). Adicionar ativos de "+
				"setores diferentes reduziria o risco do portfólio.",
			r.DiversificationScore))
	}

	if r.AnnualizedVolatility > volatilityCeiling {
		recs = append(recs, fmt.Sprintf(
			"Volatilidade anualizada de %.1f%% acima do esperado para uma "+
				"carteira de ADRs. Avalie posições mais defensivas.",
			r.AnnualizedVolatility*100))
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Perfil de risco do portfólio dentro dos parâmetros esperados. "+
				"Continue monitorando a exposição cambial e a concentração.")
	}

	return recs
}
