package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"BudgetSentinel/internal/model"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store used in tests and dry runs.
type MemoryStore struct {
	mu       sync.Mutex
	incomes  []model.IncomeEntry
	expenses []model.ExpenseEntry
	tips     []model.GeneratedTip
	states   map[string]model.InsightsState
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]model.InsightsState)}
}

func (m *MemoryStore) AddIncome(_ context.Context, inc *model.IncomeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = time.Now().UTC()
	}
	m.incomes = append(m.incomes, *inc)
	return nil
}

func (m *MemoryStore) ListIncomes(_ context.Context, userID string) ([]model.IncomeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.IncomeEntry
	for _, inc := range m.incomes {
		if inc.UserID == userID {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (m *MemoryStore) DeleteIncome(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, inc := range m.incomes {
		if inc.ID == id && inc.UserID == userID {
			m.incomes = append(m.incomes[:i], m.incomes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) AddExpense(_ context.Context, exp *model.ExpenseEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	if exp.CreatedAt.IsZero() {
		exp.CreatedAt = time.Now().UTC()
	}
	m.expenses = append(m.expenses, *exp)
	return nil
}

func (m *MemoryStore) ListExpenses(_ context.Context, userID string) ([]model.ExpenseEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ExpenseEntry
	for _, exp := range m.expenses {
		if exp.UserID == userID {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (m *MemoryStore) SetExpenseActive(_ context.Context, userID, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.expenses {
		if m.expenses[i].ID == id && m.expenses[i].UserID == userID {
			m.expenses[i].Active = active
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteExpense(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, exp := range m.expenses {
		if exp.ID == id && exp.UserID == userID {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var users []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			users = append(users, id)
		}
	}
	for _, inc := range m.incomes {
		add(inc.UserID)
	}
	for _, exp := range m.expenses {
		add(exp.UserID)
	}
	sort.Strings(users)
	return users, nil
}

func (m *MemoryStore) ExpiringContracts(_ context.Context, from, to string) ([]model.ExpenseEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ExpenseEntry
	for _, exp := range m.expenses {
		if exp.Active && exp.ContractEndDate != "" && exp.ContractEndDate >= from && exp.ContractEndDate <= to {
			out = append(out, exp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ContractEndDate < out[j].ContractEndDate })
	return out, nil
}

func (m *MemoryStore) HasTipForDate(_ context.Context, userID, date string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findTip(func(t model.GeneratedTip) bool { return t.UserID == userID && t.Date == date }) >= 0, nil
}

func (m *MemoryStore) GetTipForDate(_ context.Context, userID, date string) (*model.GeneratedTip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findTip(func(t model.GeneratedTip) bool { return t.UserID == userID && t.Date == date })
	if i < 0 {
		return nil, ErrNotFound
	}
	tip := m.tips[i]
	return &tip, nil
}

func (m *MemoryStore) GetTip(_ context.Context, userID, id string) (*model.GeneratedTip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findTip(func(t model.GeneratedTip) bool { return t.UserID == userID && t.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	tip := m.tips[i]
	return &tip, nil
}

func (m *MemoryStore) InsertTip(_ context.Context, tip *model.GeneratedTip) (model.InsertOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findTip(func(t model.GeneratedTip) bool { return t.UserID == tip.UserID && t.Date == tip.Date }) >= 0 {
		return model.Conflict, nil
	}
	if tip.ID == "" {
		tip.ID = uuid.NewString()
	}
	if tip.CreatedAt.IsZero() {
		tip.CreatedAt = time.Now().UTC()
	}
	if tip.Status == "" {
		tip.Status = model.TipStatusNew
	}
	m.tips = append(m.tips, *tip)
	return model.Inserted, nil
}

func (m *MemoryStore) UpdateTipStatus(_ context.Context, userID, id string, status model.TipStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findTip(func(t model.GeneratedTip) bool { return t.UserID == userID && t.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	m.tips[i].Status = status
	return nil
}

func (m *MemoryStore) findTip(match func(model.GeneratedTip) bool) int {
	for i, t := range m.tips {
		if match(t) {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) LoadState(_ context.Context, userID string) (*model.InsightsState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[userID]
	if !ok {
		return nil, nil
	}
	// Copy so callers cannot alias stored slices and maps.
	out := model.InsightsState{
		UserID:     state.UserID,
		LastTipAt:  state.LastTipAt,
		TipHistory: append([]string{}, state.TipHistory...),
		Cooldowns:  make(map[string]string, len(state.Cooldowns)),
	}
	for k, v := range state.Cooldowns {
		out.Cooldowns[k] = v
	}
	return &out, nil
}

func (m *MemoryStore) SaveState(_ context.Context, state model.InsightsState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.UserID] = state
	return nil
}

func (m *MemoryStore) Close() error { return nil }
