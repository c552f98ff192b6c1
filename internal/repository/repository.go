package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clearspend/finance-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO finance.users (id, email, password_hash, current_balance, monthly_income, emergency_buffer, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, user.ID, user.Email, user.PasswordHash,
		user.CurrentBalance, user.MonthlyIncome, user.EmergencyBuffer, user.Currency).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, current_balance, monthly_income, emergency_buffer, currency, created_at, updated_at
		FROM finance.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CurrentBalance,
			&user.MonthlyIncome, &user.EmergencyBuffer, &user.Currency, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, current_balance, monthly_income, emergency_buffer, currency, created_at, updated_at
		FROM finance.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CurrentBalance,
			&user.MonthlyIncome, &user.EmergencyBuffer, &user.Currency, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfile updates the financial fields of a user profile
func (r *Repository) UpdateProfile(user *models.User) error {
	query := `
		UPDATE finance.users
		SET current_balance = $2, monthly_income = $3, emergency_buffer = $4, currency = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.QueryRow(query, user.ID, user.CurrentBalance, user.MonthlyIncome,
		user.EmergencyBuffer, user.Currency).
		Scan(&user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// CreateExpense creates a new expense for a user
func (r *Repository) CreateExpense(expense *models.Expense) error {
	query := `
		INSERT INTO finance.expenses (id, user_id, name, amount, category, type, frequency, due_day, last_paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, expense.ID, expense.UserID, expense.Name, expense.Amount,
		expense.Category, expense.Type, expense.Frequency, expense.DueDay, expense.LastPaidAt).
		Scan(&expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// ListExpenses retrieves all expenses for a user in creation order.
// The stable ordering matters: the projection engine's event strings and
// the summary's next-bill tie-break follow the input list order.
func (r *Repository) ListExpenses(userID uuid.UUID) ([]models.Expense, error) {
	query := `
		SELECT id, user_id, name, amount, category, type, frequency, due_day, last_paid_at, created_at, updated_at
		FROM finance.expenses
		WHERE user_id = $1
		ORDER BY created_at, id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Amount, &e.Category, &e.Type,
			&e.Frequency, &e.DueDay, &e.LastPaidAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense deletes an expense owned by the given user
func (r *Repository) DeleteExpense(id, userID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM finance.expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense not found")
	}
	return nil
}

// BillReminder pairs an upcoming fixed expense with its owner's address
type BillReminder struct {
	Email   string
	Expense models.Expense
}

// ListBillsDueOn retrieves all fixed expenses due on the given day of month,
// joined with their owners' emails, for the reminder scheduler.
func (r *Repository) ListBillsDueOn(dayOfMonth int) ([]BillReminder, error) {
	query := `
		SELECT u.email, e.id, e.user_id, e.name, e.amount, e.category, e.type, e.frequency, e.due_day, e.last_paid_at, e.created_at, e.updated_at
		FROM finance.expenses e
		JOIN finance.users u ON u.id = e.user_id
		WHERE e.type = 'fixed' AND e.due_day = $1
		ORDER BY u.email, e.created_at`
	rows, err := r.db.Query(query, dayOfMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to list due bills: %w", err)
	}
	defer rows.Close()

	reminders := make([]BillReminder, 0)
	for rows.Next() {
		var rem BillReminder
		e := &rem.Expense
		if err := rows.Scan(&rem.Email, &e.ID, &e.UserID, &e.Name, &e.Amount, &e.Category, &e.Type,
			&e.Frequency, &e.DueDay, &e.LastPaidAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan due bill: %w", err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due bills: %w", err)
	}
	return reminders, nil
}
