package consultation

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
)

var errDBDown = errors.New("db down")

type mockRepo struct {
	byID     map[uuid.UUID]*Consultation
	failWith error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[uuid.UUID]*Consultation{}}
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Consultation, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockRepo) Save(_ context.Context, c *Consultation) error {
	if m.failWith != nil {
		return m.failWith
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit int) ([]Consultation, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []Consultation{}
	for _, c := range m.byID {
		if c.PatientID == patientID {
			out = append(out, *c)
		}
	}
	slices.SortFunc(out, func(a, b Consultation) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepo) CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	list, err := m.ListByPatient(ctx, patientID, 0)
	return len(list), err
}
