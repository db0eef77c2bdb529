package account

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*User
	refugees map[uuid.UUID]*RefugeeProfile
	ngos     map[uuid.UUID]*NGOProfile
	failWith error
	// createErrs are returned, one per call, by the next creates.
	createErrs []error
	createIDs  []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:    make(map[uuid.UUID]*User),
		refugees: make(map[uuid.UUID]*RefugeeProfile),
		ngos:     make(map[uuid.UUID]*NGOProfile),
	}
}

func (m *mockRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) GovernmentIDExists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.refugees {
		if p.GovernmentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) CountUsersByCountry(_ context.Context, country string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if u.Country == country {
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) nextCreateErr(u *User) error {
	m.createIDs = append(m.createIDs, u.UniqueID)
	if len(m.createErrs) == 0 {
		return nil
	}
	err := m.createErrs[0]
	m.createErrs = m.createErrs[1:]
	return err
}

func (m *mockRepo) create(u *User) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	m.users[u.ID] = &cp
}

func (m *mockRepo) CreateRefugee(_ context.Context, u *User, p *RefugeeProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextCreateErr(u); err != nil {
		return err
	}
	m.create(u)
	p.UserID = u.ID
	cp := *p
	m.refugees[u.ID] = &cp
	return nil
}

func (m *mockRepo) CreateNGO(_ context.Context, u *User, p *NGOProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextCreateErr(u); err != nil {
		return err
	}
	m.create(u)
	p.UserID = u.ID
	cp := *p
	m.ngos[u.ID] = &cp
	return nil
}

func (m *mockRepo) GetRefugeeProfile(_ context.Context, id uuid.UUID) (*RefugeeProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.refugees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) GetNGOProfile(_ context.Context, id uuid.UUID) (*NGOProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.ngos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

var errDBDown = errors.New("connection refused")
