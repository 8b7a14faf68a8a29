package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/financeapi-br/backend/internal/api/request"
	"github.com/financeapi-br/backend/internal/apperrors"
	"github.com/financeapi-br/backend/internal/model"
	"github.com/financeapi-br/backend/internal/repository"
	"github.com/financeapi-br/backend/internal/validation"
)

// UserService handles registration, key authentication and the per-plan
// daily request quota.
type UserService struct {
	userRepo   *repository.UserRepository
	planLimits map[string]int
}

// NewUserService creates a new UserService. planLimits maps plan name to
// daily request limit; plans absent from the map are unlimited.
func NewUserService(userRepo *repository.UserRepository, planLimits map[string]int) *UserService {
	return &UserService{userRepo: userRepo, planLimits: planLimits}
}

// Register creates a user and issues an API key. The key is returned
// exactly once, in the registration response.
func (s *UserService) Register(req request.RegisterUserRequest) (model.User, error) {
	if err := validation.ValidateRegisterUser(req); err != nil {
		return model.User{}, err
	}

	if _, err := s.userRepo.GetUserByEmail(req.Email); err == nil {
		return model.User{}, apperrors.ErrDuplicateEntry
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return model.User{}, err
	}

	plan := req.Plan
	if plan == "" {
		plan = model.PlanFree
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return model.User{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:          uuid.New().String(),
		Email:       req.Email,
		APIKey:      apiKey,
		Plan:        plan,
		RequestDate: now.Format("2006-01-02"),
		CreatedAt:   now,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Authenticate resolves an API key to its user.
func (s *UserService) Authenticate(apiKey string) (model.User, error) {
	if apiKey == "" {
		return model.User{}, apperrors.ErrMissingAPIKey
	}
	user, err := s.userRepo.GetUserByAPIKey(apiKey)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return model.User{}, apperrors.ErrInvalidAPIKey
	}
	return user, err
}

// ConsumeRequest counts one request against the user's daily quota.
// Plans without a configured limit are unlimited.
func (s *UserService) ConsumeRequest(user model.User) error {
	limit, limited := s.planLimits[user.Plan]
	today := time.Now().UTC().Format("2006-01-02")

	count, err := s.userRepo.IncrementRequestCount(user.ID, today)
	if err != nil {
		return err
	}
	if limited && count > limit {
		return apperrors.ErrRateLimitExceeded
	}
	return nil
}

// ResetDailyCounters zeroes every counter; the scheduler runs it at
// midnight UTC.
func (s *UserService) ResetDailyCounters() error {
	return s.userRepo.ResetRequestCounts(time.Now().UTC().Format("2006-01-02"))
}

func generateAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return "fa_" + hex.EncodeToString(buf), nil
}
