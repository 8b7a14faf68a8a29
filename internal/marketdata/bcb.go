package marketdata

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// BCBClient fetches USD/BRL PTAX rates and the SELIC rate from Banco
// Central do Brasil open data services.
type BCBClient struct {
	httpClient *http.Client
	olindaURL  string
	sgsURL     string
}

// NewBCBClient creates a BCB client with default HTTP settings.
func NewBCBClient() *BCBClient {
	return &BCBClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		olindaURL:  "https://olinda.bcb.gov.br/olinda/servico/PTAX/versao/v1/odata",
		sgsURL:     "https://api.bcb.gov.br/dados/serie",
	}
}

type ptaxResponse struct {
	Value []struct {
		CotacaoVenda    float64 `json:"cotacaoVenda"`
		DataHoraCotacao string  `json:"dataHoraCotacao"`
	} `json:"value"`
}

// GetRateForDate fetches the PTAX sell rate for one day. BCB publishes
// no rate on weekends and holidays; those days return an error and the
// caller walks back to the prior business day.
func (c *BCBClient) GetRateForDate(date time.Time) (decimal.Decimal, error) {
	reqURL := fmt.Sprintf(
		"%s/CotacaoDolarDia(dataCotacao=@dataCotacao)?@dataCotacao='%s'&$format=json",
		c.olindaURL, date.Format("01-02-2006"))

	var response ptaxResponse
	if err := c.getJSON(reqURL, &response); err != nil {
		return decimal.Zero, err
	}
	if len(response.Value) == 0 {
		return decimal.Zero, fmt.Errorf("no PTAX rate published for %s", date.Format("2006-01-02"))
	}

	return decimal.NewFromFloat(response.Value[0].CotacaoVenda), nil
}

// GetLatestRate walks back from today until a published PTAX rate is
// found, at most a week.
func (c *BCBClient) GetLatestRate() (decimal.Decimal, time.Time, error) {
	day := time.Now().UTC()
	for i := 0; i < 7; i++ {
		rate, err := c.GetRateForDate(day)
		if err == nil {
			return rate, day, nil
		}
		day = day.AddDate(0, 0, -1)
	}
	return decimal.Zero, time.Time{}, fmt.Errorf("no PTAX rate published in the last week")
}

// GetRateHistory fetches PTAX sell rates for a date range, oldest first.
func (c *BCBClient) GetRateHistory(start, end time.Time) (map[string]decimal.Decimal, error) {
	reqURL := fmt.Sprintf(
		"%s/CotacaoDolarPeriodo(dataInicial=@dataInicial,dataFinalCotacao=@dataFinalCotacao)?@dataInicial='%s'&@dataFinalCotacao='%s'&$format=json",
		c.olindaURL, start.Format("01-02-2006"), end.Format("01-02-2006"))

	var response ptaxResponse
	if err := c.getJSON(reqURL, &response); err != nil {
		return nil, err
	}

	rates := make(map[string]decimal.Decimal, len(response.Value))
	for _, v := range response.Value {
		quoted, err := time.Parse("2006-01-02 15:04:05.999", v.DataHoraCotacao)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PTAX quote time: %w", err)
		}
		rates[quoted.Format("2006-01-02")] = decimal.NewFromFloat(v.CotacaoVenda)
	}
	return rates, nil
}

type sgsEntry struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// GetSelicRate fetches the latest daily SELIC rate (SGS series 11) as an
// annualized percentage.
func (c *BCBClient) GetSelicRate() (decimal.Decimal, error) {
	reqURL := fmt.Sprintf("%s/bcdata.sgs.11/dados/ultimos/1?formato=json", c.sgsURL)

	var entries []sgsEntry
	if err := c.getJSON(reqURL, &entries); err != nil {
		return decimal.Zero, err
	}
	if len(entries) == 0 {
		return decimal.Zero, fmt.Errorf("no SELIC rate returned")
	}

	rate, err := decimal.NewFromString(entries[0].Valor)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse SELIC rate: %w", err)
	}
	return rate, nil
}

func (c *BCBClient) getJSON(reqURL string, out any) error {
	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bcb returned status %d", resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}
