package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/repository"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
)

// unknownID is well formed but addresses no row.
const unknownID = "7d3c1f5e-9b2a-4c6d-8e1f-000000000000"

// ledger is an in-memory store with the same atomicity as the SQL transaction: every Complete
// happens entirely under one lock or not at all.
type ledger struct {
	mu         sync.Mutex
	users      map[string]*models.User
	classes    map[string]*models.Class
	selections map[string]*models.Selection
	payments   []models.Payment
	txIDs      map[string]bool
	failLink   bool
}

func newLedger() *ledger {
	return &ledger{
		users:      map[string]*models.User{},
		classes:    map[string]*models.Class{},
		selections: map[string]*models.Selection{},
		txIDs:      map[string]bool{},
	}
}

func (l *ledger) addClass(c models.Class) *models.Class {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ClassStatusApproved
	}
	l.classes[c.ID] = &c
	return &c
}

func (l *ledger) class(id string) models.Class {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.classes[id]
}

func (l *ledger) setStatus(id string, status models.ClassStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.classes[id].Status = status
}

func (l *ledger) selection(id string) models.Selection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.selections[id]
}

// classes

func (l *ledger) FindByID(ctx context.Context, id string) (*models.Class, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *c
	return &copy, nil
}

// selections

func (l *ledger) ListByEmail(ctx context.Context, email string) ([]models.Selection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.Selection
	for _, s := range l.selections {
		if s.Email == email {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (l *ledger) ListPaidByEmail(ctx context.Context, email string) ([]models.Selection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.Selection
	for _, s := range l.selections {
		if s.Email == email && s.Paid() {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (l *ledger) Exists(ctx context.Context, email, className string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.selections {
		if s.Email == email && s.ClassName == className {
			return true, nil
		}
	}
	return false, nil
}

func (l *ledger) Create(ctx context.Context, selection *models.Selection) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.selections {
		if s.Email == selection.Email && s.ClassName == selection.ClassName {
			return repository.ErrDuplicateEntry
		}
	}
	if selection.ID == "" {
		selection.ID = uuid.NewString()
	}
	selection.CreatedAt = time.Now().UTC()
	copy := *selection
	l.selections[selection.ID] = &copy
	return nil
}

func (l *ledger) DeletePending(ctx context.Context, id, email string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.selections[id]
	if !ok || s.Email != email || s.Paid() {
		return 0, nil
	}
	delete(l.selections, id)
	return 1, nil
}

// payments

func (l *ledger) Complete(ctx context.Context, in models.PaymentCompletion) (*models.PaymentReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sel, ok := l.selections[in.SelectionID]
	if !ok || sel.Email != in.Email {
		return nil, sql.ErrNoRows
	}
	if sel.Paid() {
		return nil, repository.ErrAlreadyPaid
	}
	var class *models.Class
	for _, c := range l.classes {
		if c.ClassName == sel.ClassName && c.InstructorEmail == sel.InstructorEmail {
			class = c
		}
	}
	if class == nil {
		return nil, repository.ErrClassNotFound
	}
	if class.Status != models.ClassStatusApproved {
		return nil, repository.ErrClassNotApproved
	}
	if class.AvailableSeats <= 0 {
		return nil, repository.ErrNoSeats
	}
	if l.txIDs[in.TransactionID] {
		return nil, repository.ErrDuplicateEntry
	}
	if l.failLink {
		return nil, fmt.Errorf("link selection: %w", sql.ErrConnDone)
	}

	class.AvailableSeats--
	class.Students++
	txID := in.TransactionID
	paidAt := in.PaidAt
	sel.TransactionID = &txID
	sel.PaidAt = &paidAt
	l.txIDs[txID] = true
	p := models.Payment{
		ID:            uuid.NewString(),
		Email:         in.Email,
		SelectionID:   sel.ID,
		ClassID:       class.ID,
		ClassName:     sel.ClassName,
		Amount:        in.Amount,
		Currency:      in.Currency,
		TransactionID: txID,
		PaidAt:        paidAt,
	}
	l.payments = append(l.payments, p)
	return &models.PaymentReceipt{
		Payment:   p,
		Selection: *sel,
		Seats:     models.SeatState{ClassID: class.ID, AvailableSeats: class.AvailableSeats, Students: class.Students},
	}, nil
}

func (l *ledger) paymentsOf(email string) []models.Payment {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.Payment
	for _, p := range l.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out
}

// users

func (l *ledger) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range l.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (l *ledger) List(ctx context.Context) ([]models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.User
	for _, u := range l.users {
		out = append(out, *u)
	}
	return out, nil
}

func (l *ledger) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range l.users {
		if u.Email == user.Email {
			return false, nil
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copy := *user
	l.users[user.ID] = &copy
	return true, nil
}

func (l *ledger) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u.Role = role
	copy := *u
	return &copy, nil
}

func (l *ledger) RoleByEmail(ctx context.Context, email string) (models.Role, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range l.users {
		if u.Email == email {
			return u.Role, nil
		}
	}
	return models.RoleUnset, nil
}

// paymentsRepo adapts the ledger to the payment repository interface, whose ListByEmail differs
// from the selection one.
type paymentsRepo struct{ *ledger }

func (p paymentsRepo) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	return p.paymentsOf(email), nil
}

func appStatus(err error) int {
	if err == nil {
		return 0
	}
	return appErrors.FromError(err).Status
}
