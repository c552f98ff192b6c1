package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearspend/finance-service/internal/config"
	"github.com/clearspend/finance-service/internal/engine"
	"github.com/clearspend/finance-service/internal/models"
	"github.com/clearspend/finance-service/internal/repository"
)

// ErrInvalidInput marks validation failures the handler maps to 400
var ErrInvalidInput = errors.New("invalid input")

// Store abstracts persistence for the service layer
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uuid.UUID) (*models.User, error)
	UpdateProfile(user *models.User) error
	CreateExpense(expense *models.Expense) error
	ListExpenses(userID uuid.UUID) ([]models.Expense, error)
	DeleteExpense(id, userID uuid.UUID) error
}

// Service handles business logic
type Service struct {
	store  Store
	cache  repository.CacheRepository
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(store Store, cache repository.CacheRepository, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{store: store, cache: cache, log: log, config: cfg}
}

// Register creates a new user profile with a hashed password
func (s *Service) Register(email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:              uuid.New(),
		Email:           email,
		PasswordHash:    string(hashedPassword),
		CurrentBalance:  decimal.Zero,
		MonthlyIncome:   decimal.Zero,
		EmergencyBuffer: decimal.Zero,
		Currency:        "EUR",
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// userFromContext resolves the authenticated user set by the auth middleware
func (s *Service) userFromContext(ctx context.Context) (*models.User, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return nil, fmt.Errorf("user ID not found in context")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	return s.store.FindUserByID(userID)
}

// GetProfile returns the authenticated user's profile
func (s *Service) GetProfile(ctx context.Context) (*models.User, error) {
	return s.userFromContext(ctx)
}

// UpdateProfileInput carries optional profile updates; nil fields are untouched
type UpdateProfileInput struct {
	CurrentBalance  *decimal.Decimal `json:"current_balance"`
	MonthlyIncome   *decimal.Decimal `json:"monthly_income"`
	EmergencyBuffer *decimal.Decimal `json:"emergency_buffer"`
	Currency        *string          `json:"currency"`
}

// UpdateProfile applies partial updates to the authenticated user's profile
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if input.CurrentBalance != nil {
		user.CurrentBalance = *input.CurrentBalance
	}
	if input.MonthlyIncome != nil {
		if input.MonthlyIncome.IsNegative() {
			return nil, fmt.Errorf("%w: monthly income cannot be negative", ErrInvalidInput)
		}
		user.MonthlyIncome = *input.MonthlyIncome
	}
	if input.EmergencyBuffer != nil {
		if input.EmergencyBuffer.IsNegative() {
			return nil, fmt.Errorf("%w: emergency buffer cannot be negative", ErrInvalidInput)
		}
		user.EmergencyBuffer = *input.EmergencyBuffer
	}
	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if len(currency) != 3 {
			return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
		}
		user.Currency = currency
	}

	if err := s.store.UpdateProfile(user); err != nil {
		return nil, err
	}

	s.log.Infof("Profile updated for user %s", user.ID)
	return user, nil
}

// ListExpenses returns the authenticated user's expenses in creation order
func (s *Service) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListExpenses(user.ID)
}

// CreateExpenseInput carries a new expense
type CreateExpenseInput struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Type      string          `json:"type"`
	Frequency *string         `json:"frequency"`
	DueDay    *int            `json:"due_day"`
}

// CreateExpense validates and stores a new expense for the authenticated user.
// This is where the engine's well-formed-input precondition is enforced.
func (s *Service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*models.Expense, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	expenseType := models.ExpenseType(input.Type)
	switch expenseType {
	case models.ExpenseTypeFixed:
		if input.DueDay == nil {
			return nil, fmt.Errorf("%w: fixed expenses require a due day", ErrInvalidInput)
		}
		if *input.DueDay < 1 || *input.DueDay > 31 {
			return nil, fmt.Errorf("%w: due day must be between 1 and 31", ErrInvalidInput)
		}
		if input.Frequency == nil {
			monthly := "monthly"
			input.Frequency = &monthly
		}
	case models.ExpenseTypeVariable:
		if input.DueDay != nil {
			return nil, fmt.Errorf("%w: variable expenses cannot have a due day", ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: type must be fixed or variable", ErrInvalidInput)
	}

	expense := &models.Expense{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      strings.TrimSpace(input.Name),
		Amount:    input.Amount,
		Category:  strings.TrimSpace(input.Category),
		Type:      expenseType,
		Frequency: input.Frequency,
		DueDay:    input.DueDay,
	}

	if err := s.store.CreateExpense(expense); err != nil {
		return nil, err
	}

	s.log.Infof("Expense created for user %s: %s", user.ID, expense.Name)
	return expense, nil
}

// DeleteExpense removes an expense owned by the authenticated user
func (s *Service) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.store.DeleteExpense(id, user.ID); err != nil {
		return err
	}

	s.log.Infof("Expense %s deleted for user %s", id, user.ID)
	return nil
}

// SimulatePurchase projects the user's balance 30 days forward assuming a
// hypothetical purchase today. The engine itself does not guard against
// non-positive amounts, so the rejection happens here.
func (s *Service) SimulatePurchase(ctx context.Context, purchaseAmount decimal.Decimal) (*models.PredictionResult, error) {
	if !purchaseAmount.IsPositive() {
		return nil, fmt.Errorf("%w: purchase amount must be positive", ErrInvalidInput)
	}

	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	key := predictionCacheKey(user, now, purchaseAmount, expenses)
	if cached, ok := s.cache.Get(key); ok {
		result := &models.PredictionResult{}
		if err := json.Unmarshal([]byte(cached), result); err == nil {
			s.log.Debugf("Prediction cache hit for user %s", user.ID)
			return result, nil
		}
	}

	result := engine.Project(now, user.CurrentBalance, user.EmergencyBuffer, purchaseAmount, expenses)

	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(key, string(payload)); err != nil {
			s.log.Errorf("Failed to cache prediction for user %s: %v", user.ID, err)
		}
	}

	s.log.Infof("Simulated purchase of %s for user %s: %s risk", purchaseAmount, user.ID, result.RiskLevel)
	return &result, nil
}

// GetSummary computes the dashboard snapshot from a fresh copy of the
// user's data. Summaries are recomputed on every read, never cached.
func (s *Service) GetSummary(ctx context.Context) (*models.FinancialSummary, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(user.ID)
	if err != nil {
		return nil, err
	}

	summary := engine.Summarize(time.Now(), user.CurrentBalance, user.EmergencyBuffer, expenses)
	return &summary, nil
}

// predictionCacheKey fingerprints the full simulation input. Any change to
// the profile, the expense list or the calendar date yields a new key, so a
// stale cached result can never be served.
func predictionCacheKey(user *models.User, now time.Time, purchaseAmount decimal.Decimal, expenses []models.Expense) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s|%s", user.ID, now.Format("2006-01-02"),
		purchaseAmount, user.CurrentBalance, user.EmergencyBuffer)
	for _, e := range expenses {
		dueDay := 0
		if e.DueDay != nil {
			dueDay = *e.DueDay
		}
		fmt.Fprintf(&b, "|%s:%s:%s:%d", e.Name, e.Type, e.Amount, dueDay)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return "prediction:" + hex.EncodeToString(sum[:])
}
