package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/clearspend/finance-service/internal/config"
	"github.com/clearspend/finance-service/internal/models"
	"github.com/clearspend/finance-service/internal/repository"
)

type mockStore struct {
	user             *models.User
	expenses         []models.Expense
	createUserCalled bool
	createdExpense   *models.Expense
	deletedExpense   uuid.UUID
	deletedOwner     uuid.UUID
	listCalls        int
}

func (m *mockStore) CreateUser(user *models.User) error {
	m.createUserCalled = true
	m.user = user
	return nil
}

func (m *mockStore) FindUserByEmail(email string) (*models.User, error) {
	if m.user == nil || m.user.Email != email {
		return nil, errors.New("user not found")
	}
	return m.user, nil
}

func (m *mockStore) FindUserByID(id uuid.UUID) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, errors.New("user not found")
	}
	return m.user, nil
}

func (m *mockStore) UpdateProfile(user *models.User) error {
	m.user = user
	return nil
}

func (m *mockStore) CreateExpense(expense *models.Expense) error {
	m.createdExpense = expense
	m.expenses = append(m.expenses, *expense)
	return nil
}

func (m *mockStore) ListExpenses(userID uuid.UUID) ([]models.Expense, error) {
	m.listCalls++
	return m.expenses, nil
}

func (m *mockStore) DeleteExpense(id, userID uuid.UUID) error {
	m.deletedExpense = id
	m.deletedOwner = userID
	return nil
}

func newTestService(store *mockStore) (*Service, *repository.MockCache) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cache := repository.NewMockCache()
	cfg := &config.Config{JWTSecret: "test-secret"}
	return NewService(store, cache, logger, cfg), cache
}

func testUser() *models.User {
	return &models.User{
		ID:              uuid.New(),
		Email:           "ana@example.com",
		CurrentBalance:  decimal.NewFromInt(1000),
		EmergencyBuffer: decimal.NewFromInt(200),
		Currency:        "EUR",
	}
}

func authCtx(user *models.User) context.Context {
	return context.WithValue(context.Background(), "userID", user.ID.String())
}

func fixedExpense(user *models.User, name string, amount int64, dueDay int) models.Expense {
	d := dueDay
	return models.Expense{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   name,
		Amount: decimal.NewFromInt(amount),
		Type:   models.ExpenseTypeFixed,
		DueDay: &d,
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	store := &mockStore{}
	svc, _ := newTestService(store)

	user, err := svc.Register("Ana@Example.com", "supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !store.createUserCalled {
		t.Errorf("expected store CreateUser to be called")
	}
	if user.Email != "ana@example.com" {
		t.Errorf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "supersecret" {
		t.Errorf("expected hashed password")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	store := &mockStore{}
	svc, _ := newTestService(store)

	_, err := svc.Register("ana@example.com", "short")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if store.createUserCalled {
		t.Errorf("store CreateUser should NOT be called")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := &mockStore{}
	svc, _ := newTestService(store)

	if _, err := svc.Register("ana@example.com", "supersecret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login("ana@example.com", "wrong-password"); err == nil {
		t.Errorf("expected error for wrong password")
	}

	token, err := svc.Login("ana@example.com", "supersecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Errorf("expected a token")
	}
}

func TestSimulatePurchaseRejectsNonPositiveAmount(t *testing.T) {
	user := testUser()
	store := &mockStore{user: user}
	svc, _ := newTestService(store)

	for _, amount := range []int64{0, -50} {
		_, err := svc.SimulatePurchase(authCtx(user), decimal.NewFromInt(amount))
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("amount %d: expected ErrInvalidInput, got %v", amount, err)
		}
	}
	if store.listCalls != 0 {
		t.Errorf("store should not be hit for invalid amounts")
	}
}

func TestSimulatePurchaseCachesResult(t *testing.T) {
	user := testUser()
	store := &mockStore{
		user:     user,
		expenses: []models.Expense{fixedExpense(user, "Rent", 500, 15)},
	}
	svc, cache := newTestService(store)

	first, err := svc.SimulatePurchase(authCtx(user), decimal.NewFromInt(150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Timeline) != 31 {
		t.Errorf("expected 31 timeline entries, got %d", len(first.Timeline))
	}
	if len(cache.Data) != 1 {
		t.Fatalf("expected one cached prediction, got %d", len(cache.Data))
	}

	second, err := svc.SimulatePurchase(authCtx(user), decimal.NewFromInt(150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.Data) != 1 {
		t.Errorf("identical inputs must reuse the cached entry, got %d entries", len(cache.Data))
	}
	if second.RiskLevel != first.RiskLevel || !second.FutureBalance.Equal(first.FutureBalance) {
		t.Errorf("cached result diverged from computed result")
	}
}

func TestSimulatePurchaseCacheKeyTracksAmount(t *testing.T) {
	user := testUser()
	store := &mockStore{user: user}
	svc, cache := newTestService(store)

	if _, err := svc.SimulatePurchase(authCtx(user), decimal.NewFromInt(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SimulatePurchase(authCtx(user), decimal.NewFromInt(200)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cache.Data) != 2 {
		t.Errorf("different amounts must produce different cache keys, got %d entries", len(cache.Data))
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	user := testUser()
	ten := 10

	tests := []struct {
		name  string
		input CreateExpenseInput
		valid bool
	}{
		{"valid fixed", CreateExpenseInput{Name: "Rent", Amount: decimal.NewFromInt(500), Type: "fixed", DueDay: &ten}, true},
		{"valid variable", CreateExpenseInput{Name: "Food", Amount: decimal.NewFromInt(300), Type: "variable"}, true},
		{"missing name", CreateExpenseInput{Amount: decimal.NewFromInt(10), Type: "variable"}, false},
		{"zero amount", CreateExpenseInput{Name: "Rent", Type: "fixed", DueDay: &ten}, false},
		{"fixed without due day", CreateExpenseInput{Name: "Rent", Amount: decimal.NewFromInt(500), Type: "fixed"}, false},
		{"variable with due day", CreateExpenseInput{Name: "Food", Amount: decimal.NewFromInt(300), Type: "variable", DueDay: &ten}, false},
		{"unknown type", CreateExpenseInput{Name: "Rent", Amount: decimal.NewFromInt(500), Type: "weekly"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockStore{user: user}
			svc, _ := newTestService(store)

			expense, err := svc.CreateExpense(authCtx(user), tc.input)
			if tc.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if expense.UserID != user.ID {
					t.Errorf("expense not attached to user")
				}
			} else {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			}
		})
	}
}

func TestCreateExpenseDefaultsMonthlyFrequency(t *testing.T) {
	user := testUser()
	store := &mockStore{user: user}
	svc, _ := newTestService(store)

	day := 12
	expense, err := svc.CreateExpense(authCtx(user), CreateExpenseInput{
		Name: "Rent", Amount: decimal.NewFromInt(500), Type: "fixed", DueDay: &day,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expense.Frequency == nil || *expense.Frequency != "monthly" {
		t.Errorf("expected monthly frequency default")
	}
}

func TestDeleteExpenseScopedToOwner(t *testing.T) {
	user := testUser()
	store := &mockStore{user: user}
	svc, _ := newTestService(store)

	id := uuid.New()
	if err := svc.DeleteExpense(authCtx(user), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.deletedExpense != id || store.deletedOwner != user.ID {
		t.Errorf("delete not scoped to authenticated owner")
	}
}

func TestGetSummary(t *testing.T) {
	user := testUser()
	store := &mockStore{
		user: user,
		expenses: []models.Expense{
			fixedExpense(user, "Rent", 500, 15),
			{ID: uuid.New(), UserID: user.ID, Name: "Food", Amount: decimal.NewFromInt(300), Type: models.ExpenseTypeVariable},
		},
	}
	svc, cache := newTestService(store)

	summary, err := svc.GetSummary(authCtx(user))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.SafeToSpend.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected safe-to-spend 300, got %s", summary.SafeToSpend)
	}
	if summary.RiskLevel != models.RiskLow {
		t.Errorf("expected Low risk, got %s", summary.RiskLevel)
	}
	if len(cache.Data) != 0 {
		t.Errorf("summaries must never be cached")
	}
}

func TestSimulatePurchaseRequiresAuth(t *testing.T) {
	store := &mockStore{}
	svc, _ := newTestService(store)

	_, err := svc.SimulatePurchase(context.Background(), decimal.NewFromInt(100))
	if err == nil {
		t.Errorf("expected error without authenticated user")
	}
}
