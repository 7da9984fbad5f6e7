package store

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "fxtracker/internal/errors"
	"fxtracker/internal/models"
)

// MemStore is an in-memory DataStore. It is safe for concurrent use and
// is the backing store for tests and ephemeral runs.
type MemStore struct {
	mu           sync.RWMutex
	accounts     map[string]models.Account
	trades       map[string]models.Trade
	tradingPlans map[string]models.TradingPlan // keyed by account ID
	growthPlans  map[string]models.GrowthPlan
	dailyPlans   map[string]models.DailyTradePlan
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		accounts:     make(map[string]models.Account),
		trades:       make(map[string]models.Trade),
		tradingPlans: make(map[string]models.TradingPlan),
		growthPlans:  make(map[string]models.GrowthPlan),
		dailyPlans:   make(map[string]models.DailyTradePlan),
	}
}

// CreateAccount inserts a new account.
func (s *MemStore) CreateAccount(ctx context.Context, acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.ID] = *acct
	return nil
}

// GetAccount retrieves an account by ID.
func (s *MemStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return &a, nil
}

// GetAccountsByUser retrieves all accounts for a user.
func (s *MemStore) GetAccountsByUser(ctx context.Context, userID string) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// UpdateAccount rewrites an account.
func (s *MemStore) UpdateAccount(ctx context.Context, acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[acct.ID]; !ok {
		return apperrors.ErrAccountNotFound
	}
	s.accounts[acct.ID] = *acct
	return nil
}

// GetTrade retrieves a trade by ID.
func (s *MemStore) GetTrade(ctx context.Context, id string) (*models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trades[id]
	if !ok {
		return nil, apperrors.ErrTradeNotFound
	}
	return &t, nil
}

// GetTrades retrieves trades matching the filter, newest first.
func (s *MemStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Trade
	for _, t := range s.trades {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.AccountID != "" && t.AccountID != filter.AccountID {
			continue
		}
		if filter.Pair != "" && t.Pair != filter.Pair {
			continue
		}
		if !filter.StartDate.IsZero() && t.TradeTime.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && t.TradeTime.After(filter.EndDate) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TradeTime.After(out[j].TradeTime) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// SaveTradingPlan upserts the recommendation snapshot for an account.
func (s *MemStore) SaveTradingPlan(ctx context.Context, plan *models.TradingPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tradingPlans[plan.AccountID] = *plan
	return nil
}

// GetTradingPlan retrieves the recommendation snapshot for an account.
func (s *MemStore) GetTradingPlan(ctx context.Context, accountID string) (*models.TradingPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.tradingPlans[accountID]
	if !ok {
		return nil, apperrors.ErrPlanNotFound
	}
	return &p, nil
}

// CreateGrowthPlan inserts a new growth plan.
func (s *MemStore) CreateGrowthPlan(ctx context.Context, plan *models.GrowthPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.growthPlans[plan.ID] = clonePlan(plan)
	return nil
}

// GetGrowthPlan retrieves the most recent growth plan for an account.
func (s *MemStore) GetGrowthPlan(ctx context.Context, accountID string) (*models.GrowthPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.GrowthPlan
	for id := range s.growthPlans {
		p := s.growthPlans[id]
		if p.AccountID != accountID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			cp := clonePlan(&p)
			latest = &cp
		}
	}
	if latest == nil {
		return nil, apperrors.ErrPlanNotFound
	}
	return latest, nil
}

// UpdateGrowthPlan rewrites a growth plan.
func (s *MemStore) UpdateGrowthPlan(ctx context.Context, plan *models.GrowthPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateGrowthPlanLocked(plan)
}

func (s *MemStore) updateGrowthPlanLocked(plan *models.GrowthPlan) error {
	if _, ok := s.growthPlans[plan.ID]; !ok {
		return apperrors.ErrPlanNotFound
	}
	s.growthPlans[plan.ID] = clonePlan(plan)
	return nil
}

// SaveDailyPlans inserts a batch of daily trade slots.
func (s *MemStore) SaveDailyPlans(ctx context.Context, plans []models.DailyTradePlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range plans {
		s.dailyPlans[p.ID] = cloneSlot(&p)
	}
	return nil
}

// GetDailyPlans retrieves daily slots matching the filter.
func (s *MemStore) GetDailyPlans(ctx context.Context, filter DailyPlanFilter) ([]models.DailyTradePlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.DailyTradePlan
	for id := range s.dailyPlans {
		p := s.dailyPlans[id]
		if filter.GrowthPlanID != "" && p.GrowthPlanID != filter.GrowthPlanID {
			continue
		}
		if !filter.Date.IsZero() && !sameDay(p.TradeDate, filter.Date) {
			continue
		}
		if filter.OnlyPending && p.IsExecuted {
			continue
		}
		out = append(out, cloneSlot(&p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TradeDate.Equal(out[j].TradeDate) {
			return out[i].TradeDate.Before(out[j].TradeDate)
		}
		return out[i].SlotIndex < out[j].SlotIndex
	})
	return out, nil
}

// ApplySettlement applies all of a settlement's state changes under a
// single lock acquisition.
func (s *MemStore) ApplySettlement(ctx context.Context, st *Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check every referenced row before the first write so a failure
	// cannot leave a partial settlement behind.
	if st.AccountID != "" {
		if _, ok := s.accounts[st.AccountID]; !ok {
			return apperrors.ErrAccountNotFound
		}
	}
	if st.GrowthPlan != nil {
		if _, ok := s.growthPlans[st.GrowthPlan.ID]; !ok {
			return apperrors.ErrPlanNotFound
		}
	}

	if st.AccountID != "" {
		a := s.accounts[st.AccountID]
		a.CurrentBalance = st.NewBalance
		s.accounts[st.AccountID] = a
	}

	if st.Trade != nil {
		s.trades[st.Trade.ID] = *st.Trade
	}

	if st.TradingPlan != nil {
		s.tradingPlans[st.TradingPlan.AccountID] = *st.TradingPlan
	}

	if st.GrowthPlan != nil {
		if err := s.updateGrowthPlanLocked(st.GrowthPlan); err != nil {
			return err
		}
	}

	if st.ReplaceSlots != nil && st.GrowthPlan != nil {
		day := st.ReplaceSlots[0].TradeDate
		for id, p := range s.dailyPlans {
			if p.GrowthPlanID == st.GrowthPlan.ID && sameDay(p.TradeDate, day) && !p.IsExecuted {
				delete(s.dailyPlans, id)
			}
		}
		for _, p := range st.ReplaceSlots {
			s.dailyPlans[p.ID] = cloneSlot(&p)
		}
	}

	if st.ExecutedSlotID != "" {
		p, ok := s.dailyPlans[st.ExecutedSlotID]
		if ok {
			result := st.SlotResult
			at := st.ExecutedAt
			p.ActualResult = &result
			p.IsExecuted = true
			p.ExecutedAt = &at
			s.dailyPlans[st.ExecutedSlotID] = p
		}
	}

	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error {
	return nil
}

func clonePlan(p *models.GrowthPlan) models.GrowthPlan {
	cp := *p
	if p.LastTradeDate != nil {
		t := *p.LastTradeDate
		cp.LastTradeDate = &t
	}
	return cp
}

func cloneSlot(p *models.DailyTradePlan) models.DailyTradePlan {
	cp := *p
	if p.ActualResult != nil {
		v := *p.ActualResult
		cp.ActualResult = &v
	}
	if p.ExecutedAt != nil {
		t := *p.ExecutedAt
		cp.ExecutedAt = &t
	}
	return cp
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
