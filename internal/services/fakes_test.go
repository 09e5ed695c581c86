package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	userrepo "github.com/yungbote/amelfit-backend/internal/data/repos/user"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/ctxutil"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/sendgrid"
)

func asUser(id uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id, Role: ctxutil.RoleUser})
}

// ---- users ----

type fakeUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*types.User
}

func newFakeUsers(users ...*types.User) *fakeUsers {
	f := &fakeUsers{rows: map[uuid.UUID]*types.User{}}
	for _, u := range users {
		f.rows[u.ID] = u
	}
	return f
}

var _ repos.UserRepo = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ dbctx.Context, users []*types.User) ([]*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		cp := *u
		f.rows[u.ID] = &cp
	}
	return users, nil
}

func (f *fakeUsers) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range ids {
		if u, _ := f.GetByID(dbc, id); u != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) GetByID(_ dbctx.Context, id uuid.UUID) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ dbctx.Context, email string) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == userrepo.NormalizeEmail(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	u, err := f.GetByEmail(dbc, email)
	return u != nil, err
}

func (f *fakeUsers) UpdateProfile(_ dbctx.Context, id uuid.UUID, firstName, fitnessGoal *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[id]; ok {
		if firstName != nil {
			u.FirstName = *firstName
		}
		if fitnessGoal != nil {
			g := *fitnessGoal
			u.FitnessGoal = &g
		}
	}
	return nil
}

func (f *fakeUsers) UpdatePasswordHash(_ dbctx.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (f *fakeUsers) UpdateNotificationSettings(_ dbctx.Context, id uuid.UUID, settings datatypes.JSON) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[id]; ok {
		u.Settings = settings
	}
	return nil
}

func (f *fakeUsers) Delete(_ dbctx.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

// ---- password resets ----

type fakeResets struct {
	mu   sync.Mutex
	rows []*types.PasswordReset
}

var _ repos.PasswordResetRepo = (*fakeResets)(nil)

func (f *fakeResets) Create(_ dbctx.Context, r *types.PasswordReset) (*types.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.New()
	f.rows = append(f.rows, r)
	return r, nil
}

func (f *fakeResets) GetByTokenHash(_ dbctx.Context, hash string) (*types.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.TokenHash == hash {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeResets) MarkUsed(_ dbctx.Context, id uuid.UUID, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id && r.UsedAt == nil {
			t := at
			r.UsedAt = &t
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResets) DeleteByUserIDs(dbctx.Context, []uuid.UUID) (int64, error) { return 0, nil }

// ---- nutrition ----

type fakeGoals struct {
	mu   sync.Mutex
	rows map[uuid.UUID]types.NutritionGoal
}

func newFakeGoals() *fakeGoals { return &fakeGoals{rows: map[uuid.UUID]types.NutritionGoal{}} }

var _ repos.NutritionGoalRepo = (*fakeGoals)(nil)

func (f *fakeGoals) Get(_ dbctx.Context, userID uuid.UUID) (*types.NutritionGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.rows[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (f *fakeGoals) GetOrCreate(_ dbctx.Context, def *types.NutritionGoal) (*types.NutritionGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.rows[def.UserID]
	if !ok {
		g = *def
		f.rows[def.UserID] = g
	}
	return &g, nil
}

func (f *fakeGoals) Upsert(_ dbctx.Context, g *types.NutritionGoal) (*types.NutritionGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[g.UserID] = *g
	cp := *g
	return &cp, nil
}

func (f *fakeGoals) DeleteByUserIDs(dbctx.Context, []uuid.UUID) (int64, error) { return 0, nil }

type fakeMeals struct {
	mu   sync.Mutex
	rows []*types.MealEntry
}

var _ repos.MealEntryRepo = (*fakeMeals)(nil)

func (f *fakeMeals) Create(_ dbctx.Context, entries []*types.MealEntry) ([]*types.MealEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, entries...)
	return entries, nil
}

func (f *fakeMeals) ListBetween(_ dbctx.Context, userID uuid.UUID, start, end time.Time) ([]*types.MealEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.MealEntry
	for _, m := range f.rows {
		if m.UserID == userID && !m.CreatedAt.Before(start) && !m.CreatedAt.After(end) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMeals) ListRecent(_ dbctx.Context, userID uuid.UUID, limit int) ([]*types.MealEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.MealEntry
	for _, m := range f.rows {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMeals) DeleteOwned(_ dbctx.Context, userID, mealID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.rows {
		if m.ID == mealID && m.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMeals) DeleteByUserIDs(dbctx.Context, []uuid.UUID) (int64, error) { return 0, nil }

type fakePlanAgg struct {
	calls []domainagg.SavePlanInput
	goals *fakeGoals
}

func (f *fakePlanAgg) Contract() domainagg.Contract { return domainagg.NutritionPlanAggregateContract }

func (f *fakePlanAgg) SavePlan(ctx context.Context, in domainagg.SavePlanInput) (types.NutritionGoal, error) {
	f.calls = append(f.calls, in)
	g := in.Goal
	g.UserID = in.UserID
	if f.goals != nil {
		_, _ = f.goals.Upsert(dbctx.Context{Ctx: ctx}, &g)
	}
	return g, nil
}

// ---- training ----

type fakeSessions struct {
	rows []*types.SessionRecord
}

var _ repos.SessionRecordRepo = (*fakeSessions)(nil)

func (f *fakeSessions) Create(_ dbctx.Context, rows []*types.SessionRecord) ([]*types.SessionRecord, error) {
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeSessions) ListRecent(_ dbctx.Context, userID uuid.UUID, limit int) ([]*types.SessionRecord, error) {
	var out []*types.SessionRecord
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessions) ListBetween(_ dbctx.Context, userID uuid.UUID, start, end time.Time) ([]*types.SessionRecord, error) {
	var out []*types.SessionRecord
	for _, s := range f.rows {
		if s.UserID == userID && !s.CompletedAt.Before(start) && s.CompletedAt.Before(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessions) ListAll(_ dbctx.Context, userID uuid.UUID) ([]*types.SessionRecord, error) {
	var out []*types.SessionRecord
	for _, s := range f.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessions) DeleteByUserIDs(dbctx.Context, []uuid.UUID) (int64, error) { return 0, nil }

type fakeStats struct {
	rows map[uuid.UUID]types.UserStats
}

var _ repos.UserStatsRepo = (*fakeStats)(nil)

func (f *fakeStats) Get(_ dbctx.Context, userID uuid.UUID) (*types.UserStats, error) {
	s, ok := f.rows[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStats) EnsureRow(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error) {
	if _, ok := f.rows[userID]; !ok {
		f.rows[userID] = types.EmptyStats(userID)
	}
	return f.Get(dbc, userID)
}

func (f *fakeStats) DeleteByUserIDs(dbctx.Context, []uuid.UUID) (int64, error) { return 0, nil }

type fakeStatsAgg struct {
	res domainagg.CompleteSessionResult
	err error
	in  []domainagg.CompleteSessionInput
}

func (f *fakeStatsAgg) Contract() domainagg.Contract { return domainagg.UserStatsAggregateContract }

func (f *fakeStatsAgg) CompleteSession(_ context.Context, in domainagg.CompleteSessionInput) (domainagg.CompleteSessionResult, error) {
	f.in = append(f.in, in)
	return f.res, f.err
}

// ---- catalog ----

type fakeCourses struct {
	rows []*types.Course
}

var _ repos.CourseRepo = (*fakeCourses)(nil)

func (f *fakeCourses) Create(_ dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	for _, c := range courses {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
	}
	f.rows = append(f.rows, courses...)
	return courses, nil
}

func (f *fakeCourses) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Course, error) {
	for _, c := range f.rows {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCourses) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	for _, id := range ids {
		if c, _ := f.GetByID(dbc, id); c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourses) GetByAppleProductIDs(_ dbctx.Context, productIDs []string) ([]*types.Course, error) {
	var out []*types.Course
	for _, c := range f.rows {
		for _, p := range productIDs {
			if c.AppleProductID != nil && *c.AppleProductID == p {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeCourses) List(_ dbctx.Context, category string) ([]*types.Course, error) {
	var out []*types.Course
	for _, c := range f.rows {
		if category == "" || c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourses) Categories(dbctx.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, c := range f.rows {
		if !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeCourses) Count(dbctx.Context) (int64, error) { return int64(len(f.rows)), nil }

func (f *fakeCourses) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]any) (bool, error) {
	for _, c := range f.rows {
		if c.ID != id {
			continue
		}
		if v, ok := updates["title"].(string); ok {
			c.Title = v
		}
		if v, ok := updates["category"].(string); ok {
			c.Category = v
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeCourses) Delete(_ dbctx.Context, id uuid.UUID) (bool, error) {
	for i, c := range f.rows {
		if c.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakePurchases struct {
	rows []*types.Purchase
}

var _ repos.PurchaseRepo = (*fakePurchases)(nil)

func (f *fakePurchases) CreateIfAbsent(_ dbctx.Context, p *types.Purchase) (*types.Purchase, bool, error) {
	for _, r := range f.rows {
		if r.PaymentMethod == p.PaymentMethod && r.ProviderRef == p.ProviderRef {
			return r, false, nil
		}
	}
	p.ID = uuid.New()
	f.rows = append(f.rows, p)
	return p, true, nil
}

func (f *fakePurchases) GetByProviderRef(_ dbctx.Context, method, ref string) (*types.Purchase, error) {
	for _, r := range f.rows {
		if r.PaymentMethod == method && r.ProviderRef == ref {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakePurchases) ListCompletedByUser(_ dbctx.Context, userID uuid.UUID) ([]*types.Purchase, error) {
	var out []*types.Purchase
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePurchases) HasCompleted(_ dbctx.Context, userID, courseID uuid.UUID) (bool, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePurchases) DeleteByUserIDs(dbctx.Context, []uuid.UUID) (int64, error) { return 0, nil }

type fakeTransactions struct {
	rows []*types.PaymentTransaction
}

var _ repos.PaymentTransactionRepo = (*fakeTransactions)(nil)

func (f *fakeTransactions) Create(_ dbctx.Context, t *types.PaymentTransaction) (*types.PaymentTransaction, error) {
	t.ID = uuid.New()
	f.rows = append(f.rows, t)
	return t, nil
}

func (f *fakeTransactions) GetBySessionID(_ dbctx.Context, sessionID string) (*types.PaymentTransaction, error) {
	for _, t := range f.rows {
		if t.SessionID == sessionID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactions) LockBySessionID(dbc dbctx.Context, sessionID string) (*types.PaymentTransaction, error) {
	return f.GetBySessionID(dbc, sessionID)
}

func (f *fakeTransactions) UpdateStatus(_ dbctx.Context, id uuid.UUID, status, paymentStatus string) error {
	for _, t := range f.rows {
		if t.ID == id {
			t.Status = status
			t.PaymentStatus = paymentStatus
		}
	}
	return nil
}

func (f *fakeTransactions) DeleteByUserIDs(dbctx.Context, []uuid.UUID) (int64, error) { return 0, nil }

// ---- mail ----

type fakeMailer struct {
	sent []sendgrid.SendEmailRequest
}

func (f *fakeMailer) Send(_ context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	f.sent = append(f.sent, req)
	return &sendgrid.SendEmailResult{StatusCode: 202}, nil
}
