package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/repository"
	"github.com/financeapi-br/backend/internal/secrets"
	"github.com/financeapi-br/backend/internal/validation"
)

// TransactionService handles the transaction ledger. Broker notes are
// encrypted at rest.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	fx              *FXService
	encryptor       *secrets.Encryptor
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	fx *FXService,
	encryptor *secrets.Encryptor,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		fx:              fx,
		encryptor:       encryptor,
	}
}

// CreateTransaction validates and records a ledger entry. A missing
// exchange rate is filled from the stored rate nearest the transaction
// date.
func (s *TransactionService) CreateTransaction(userID string, req request.CreateTransactionRequest) (model.Transaction, error) {
	if err := validation.ValidateCreateTransaction(req); err != nil {
		return model.Transaction{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return model.Transaction{}, err
	}

	rate := req.ExchangeRate
	if rate.IsZero() {
		stored, err := s.fx.GetRateForDate(req.Date)
		if err != nil {
			return model.Transaction{}, err
		}
		rate = stored.Rate
	}

	var encrypted string
	if req.Notes != "" {
		encrypted, err = s.encryptor.Encrypt(req.Notes)
		if err != nil {
			return model.Transaction{}, err
		}
	}

	transaction := model.Transaction{
		ID:            uuid.New().String(),
		UserID:        userID,
		Ticker:        req.Ticker,
		Type:          req.Type,
		Quantity:      req.Quantity,
		PriceUSD:      req.PriceUSD,
		ExchangeRate:  rate,
		Date:          date,
		BrokerageFee:  req.BrokerageFee,
		EncryptedData: encrypted,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.transactionRepo.CreateTransaction(transaction); err != nil {
		return model.Transaction{}, err
	}
	return transaction, nil
}

// GetTransactions returns a user's ledger with notes decrypted, ordered
// by (date, created_at).
func (s *TransactionService) GetTransactions(userID string) ([]model.TransactionResponse, error) {
	transactions, err := s.transactionRepo.GetTransactions(userID)
	if err != nil {
		return nil, err
	}
	return s.decryptAll(transactions)
}

// GetTransaction returns one ledger entry with notes decrypted.
func (s *TransactionService) GetTransaction(userID, id string) (model.TransactionResponse, error) {
	transaction, err := s.transactionRepo.GetTransaction(userID, id)
	if err != nil {
		return model.TransactionResponse{}, err
	}
	return s.decrypt(transaction)
}

// DeleteTransaction removes one ledger entry.
func (s *TransactionService) DeleteTransaction(userID, id string) error {
	if err := validation.ValidateUUID(id); err != nil {
		return err
	}
	return s.transactionRepo.DeleteTransaction(userID, id)
}

func (s *TransactionService) decryptAll(transactions []model.Transaction) ([]model.TransactionResponse, error) {
	responses := make([]model.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		resp, err := s.decrypt(t)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *TransactionService) decrypt(t model.Transaction) (model.TransactionResponse, error) {
	resp := model.TransactionResponse{Transaction: t}
	if t.EncryptedData != "" {
		notes, err := s.encryptor.Decrypt(t.EncryptedData)
		if err != nil {
			return model.TransactionResponse{}, err
		}
		resp.Notes = notes
	}
	return resp, nil
}
