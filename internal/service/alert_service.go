package service

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/repository"
	"github.com/financeapi-br/backend/internal/validation"
)

// AlertService manages price alerts and runs the trigger sweep. Webhook
// delivery is fire-and-forget: one POST, no retries.
type AlertService struct {
	alertRepo  *repository.AlertRepository
	quotes     *QuoteService
	httpClient *http.Client
}

// NewAlertService creates a new AlertService with the provided dependencies.
func NewAlertService(alertRepo *repository.AlertRepository, quotes *QuoteService) *AlertService {
	return &AlertService{
		alertRepo:  alertRepo,
		quotes:     quotes,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateAlert registers an alert for a supported ticker.
func (s *AlertService) CreateAlert(userID string, req request.CreateAlertRequest) (model.PriceAlert, error) {
	if err := validation.ValidateCreateAlert(req); err != nil {
		return model.PriceAlert{}, err
	}
	if !s.quotes.Supported(req.Ticker) {
		return model.PriceAlert{}, apperrors.ErrTickerNotSupported
	}

	channel := req.Channel
	if channel == "" {
		channel = "webhook"
	}

	alert := model.PriceAlert{
		ID:          uuid.New().String(),
		UserID:      userID,
		Ticker:      req.Ticker,
		Condition:   req.Condition,
		TargetValue: req.TargetValue,
		Channel:     channel,
		WebhookURL:  req.WebhookURL,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.alertRepo.CreateAlert(alert); err != nil {
		return model.PriceAlert{}, err
	}
	return alert, nil
}

// GetAlerts returns the user's alerts.
func (s *AlertService) GetAlerts(userID string) ([]model.PriceAlert, error) {
	return s.alertRepo.GetAlertsForUser(userID)
}

// DeleteAlert removes one alert.
func (s *AlertService) DeleteAlert(userID, id string) error {
	if err := validation.ValidateUUID(id); err != nil {
		return err
	}
	return s.alertRepo.DeleteAlert(userID, id)
}

// Sweep evaluates every active alert against the latest stored quotes,
// stamping and notifying the ones that trigger. Quote or delivery
// failures are logged and skipped; the sweep never aborts.
func (s *AlertService) Sweep() error {
	alerts, err := s.alertRepo.GetActiveAlerts()
	if err != nil {
		return err
	}

	for _, alert := range alerts {
		quote, err := s.quotes.GetQuote(alert.Ticker)
		if err != nil {
			log.Printf("alert sweep: no quote for %s: %v", alert.Ticker, err)
			continue
		}

		if !triggered(alert, quote) {
			continue
		}

		now := time.Now().UTC()
		if err := s.alertRepo.MarkTriggered(alert.ID, now); err != nil {
			log.Printf("alert sweep: failed to mark %s triggered: %v", alert.ID, err)
			continue
		}

		if alert.Channel == "webhook" && alert.WebhookURL != "" {
			s.postWebhook(alert, quote, now)
		}
	}
	return nil
}

func triggered(alert model.PriceAlert, quote model.ADRQuote) bool {
	switch alert.Condition {
	case model.AlertAbove:
		return quote.PriceUSD.GreaterThanOrEqual(alert.TargetValue)
	case model.AlertBelow:
		return quote.PriceUSD.LessThanOrEqual(alert.TargetValue)
	case model.AlertChangePercent:
		return quote.DayChangePercent.Abs().GreaterThanOrEqual(alert.TargetValue)
	default:
		return false
	}
}

type webhookPayload struct {
	AlertID     string    `json:"alertId"`
	Ticker      string    `json:"ticker"`
	Condition   string    `json:"condition"`
	TargetValue string    `json:"targetValue"`
	PriceUSD    string    `json:"priceUsd"`
	PriceBRL    string    `json:"priceBrl"`
	TriggeredAt time.Time `json:"triggeredAt"`
}

func (s *AlertService) postWebhook(alert model.PriceAlert, quote model.ADRQuote, at time.Time) {
	payload, err := json.Marshal(webhookPayload{
		AlertID:     alert.ID,
		Ticker:      alert.Ticker,
		Condition:   alert.Condition,
		TargetValue: alert.TargetValue.String(),
		PriceUSD:    quote.PriceUSD.String(),
		PriceBRL:    quote.PriceBRL.String(),
		TriggeredAt: at,
	})
	if err != nil {
		log.Printf("alert webhook: failed to marshal payload for %s: %v", alert.ID, err)
		return
	}

	resp, err := s.httpClient.Post(alert.WebhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("alert webhook: delivery failed for %s: %v", alert.ID, err)
		return
	}
	resp.Body.Close()
}
