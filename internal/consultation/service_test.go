package consultation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"healthbridge/internal/triage"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestService() (*service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo, zerolog.Nop()).(*service)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func onlyConsultation(t *testing.T, repo *mockRepo) Consultation {
	t.Helper()
	if len(repo.byID) != 1 {
		t.Fatalf("expected one saved consultation, got %d", len(repo.byID))
	}
	for _, c := range repo.byID {
		return *c
	}
	return Consultation{}
}

func TestRecord_Assessment(t *testing.T) {
	svc, repo := newTestService()
	patient := uuid.New()
	res := triage.Result{Assessment: &triage.Assessment{
		Classification:  triage.ClassModerate,
		Summary:         "Infected cut",
		RecommendedCare: []string{"Clean the wound", "Keep it dry"},
		NextSteps:       "Visit Clinic",
	}}
	req := triage.Request{Message: "cut on my hand", Images: []triage.Image{{Filename: "a.png"}}}

	if err := svc.Record(context.Background(), patient, req, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := onlyConsultation(t, repo)
	want := Consultation{
		ID:             got.ID,
		PatientID:      patient,
		Language:       "en",
		Classification: "MODERATE",
		Summary:        "Infected cut",
		ImageCount:     1,
		CreatedAt:      testNow,
		History: []Message{
			{Role: "user", Content: "cut on my hand", Timestamp: testNow},
			{Role: "assistant", Content: "Infected cut\nNext steps: Visit Clinic\nRecommended care: Clean the wound; Keep it dry", Timestamp: testNow},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("saved consultation mismatch (-want +got):\n%s", diff)
	}
	if got.Label() != "Triage: MODERATE" {
		t.Errorf("label = %q", got.Label())
	}
}

func TestRecord_Unparsed(t *testing.T) {
	svc, repo := newTestService()
	res := triage.Result{Unparsed: &triage.Unparsed{Raw: "see a doctor", Error: "Failed to parse response as JSON"}}

	if err := svc.Record(context.Background(), uuid.New(), triage.Request{Message: "x", Language: "ar"}, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := onlyConsultation(t, repo)
	if got.Classification != "" || got.Language != "ar" || got.History[1].Content != "see a doctor" {
		t.Errorf("unexpected consultation %+v", got)
	}
	if got.Label() != "Assessment unavailable" {
		t.Errorf("label = %q", got.Label())
	}
}

func TestRecord_RepoError(t *testing.T) {
	svc, repo := newTestService()
	repo.failWith = errDBDown
	err := svc.Record(context.Background(), uuid.New(), triage.Request{Message: "x"}, triage.Result{})
	if !errors.Is(err, errDBDown) {
		t.Errorf("expected wrapped repo error, got %v", err)
	}
}

func TestHistory_LimitsAndOrder(t *testing.T) {
	svc, repo := newTestService()
	patient, other := uuid.New(), uuid.New()
	for i := 0; i < 30; i++ {
		c := &Consultation{ID: uuid.New(), PatientID: patient, CreatedAt: testNow.Add(-time.Duration(i) * time.Hour)}
		repo.byID[c.ID] = c
	}
	stranger := &Consultation{ID: uuid.New(), PatientID: other, CreatedAt: testNow}
	repo.byID[stranger.ID] = stranger

	list, err := svc.History(context.Background(), patient, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != DefaultHistoryLimit {
		t.Errorf("default limit: got %d", len(list))
	}
	if !list[0].CreatedAt.Equal(testNow) || list[1].CreatedAt.After(list[0].CreatedAt) {
		t.Errorf("expected newest first, got %v then %v", list[0].CreatedAt, list[1].CreatedAt)
	}
	for _, c := range list {
		if c.PatientID != patient {
			t.Fatalf("history leaked another patient's consultation")
		}
	}

	list, _ = svc.History(context.Background(), patient, 5)
	if len(list) != 5 {
		t.Errorf("explicit limit: got %d", len(list))
	}
	list, _ = svc.History(context.Background(), patient, 1000)
	if len(list) != 30 {
		t.Errorf("capped limit: got %d", len(list))
	}
}

func TestGet_Ownership(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()
	c := &Consultation{ID: uuid.New(), PatientID: owner, CreatedAt: testNow}
	repo.byID[c.ID] = c

	got, err := svc.Get(context.Background(), owner, c.ID)
	if err != nil || got.ID != c.ID {
		t.Fatalf("owner lookup: %+v, %v", got, err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("stranger lookup: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), owner, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: expected ErrNotFound, got %v", err)
	}
}
