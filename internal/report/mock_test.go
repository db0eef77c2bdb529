package report

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"healthbridge/internal/account"
)

// -- Mock Repositories --

type mockRepo struct {
	mu       sync.Mutex
	reports  map[string]Report
	entries  []Entry
	failWith error
}

func newMockRepo() *mockRepo {
	return &mockRepo{reports: make(map[string]Report)}
}

func (m *mockRepo) CreateReport(_ context.Context, r *Report, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.reports[r.ReportID] = *r
	for _, e := range entries {
		e.ReportID = r.ReportID
		m.entries = append(m.entries, e)
	}
	return nil
}

func (m *mockRepo) GetReport(_ context.Context, id string) (*Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *mockRepo) ListReportsByUser(_ context.Context, userID uuid.UUID) ([]Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []Report
	for _, r := range m.reports {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockRepo) ListEntries(_ context.Context, ids []string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Entry
	for _, e := range m.entries {
		if want[e.ReportID] {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type mockAccounts struct {
	users    map[uuid.UUID]*account.User
	profiles map[uuid.UUID]*account.RefugeeProfile
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{
		users:    make(map[uuid.UUID]*account.User),
		profiles: make(map[uuid.UUID]*account.RefugeeProfile),
	}
}

func (m *mockAccounts) addRefugee(first, last string) uuid.UUID {
	id := uuid.New()
	m.users[id] = &account.User{ID: id, Role: account.RoleRefugee, Country: "LB"}
	m.profiles[id] = &account.RefugeeProfile{UserID: id, FirstName: first, LastName: last}
	return id
}

func (m *mockAccounts) GetUserByEmail(context.Context, string) (*account.User, error) {
	return nil, account.ErrNotFound
}

func (m *mockAccounts) GetUserByID(_ context.Context, id uuid.UUID) (*account.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	return u, nil
}

func (m *mockAccounts) GovernmentIDExists(context.Context, string) (bool, error) { return false, nil }

func (m *mockAccounts) CountUsersByCountry(context.Context, string) (int, error) { return 0, nil }

func (m *mockAccounts) CreateRefugee(context.Context, *account.User, *account.RefugeeProfile) error {
	return nil
}

func (m *mockAccounts) CreateNGO(context.Context, *account.User, *account.NGOProfile) error {
	return nil
}

func (m *mockAccounts) GetRefugeeProfile(_ context.Context, id uuid.UUID) (*account.RefugeeProfile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	return p, nil
}

func (m *mockAccounts) GetNGOProfile(context.Context, uuid.UUID) (*account.NGOProfile, error) {
	return nil, account.ErrNotFound
}
