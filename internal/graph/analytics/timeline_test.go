package analytics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexustrace/backend/internal/domain"
)

type fakeStore struct {
	timelineRows []domain.TimelineRow
	stats        []domain.EntityStats
	summaries    []domain.EntitySummary
	detail       domain.EntityDetail
	caseNode     domain.NetworkNode
	caseErr      error
	mindmapName  string
	mindmapRows  []domain.MindmapRow
	mindmapErr   error
	evidence     []domain.NetworkNode
	evidenceSrc  []string
	entities     []domain.NetworkNode
	entitiesSrc  []string
}

func (f *fakeStore) GetCase(ctx context.Context, userID, caseID string) (domain.Case, error) {
	if f.caseErr != nil {
		return domain.Case{}, f.caseErr
	}
	return domain.Case{CaseID: caseID}, nil
}

func (f *fakeStore) TimelineRows(ctx context.Context, caseID string) ([]domain.TimelineRow, error) {
	return f.timelineRows, nil
}

func (f *fakeStore) EntityStats(ctx context.Context, caseID string, limit int) ([]domain.EntityStats, error) {
	return f.stats, nil
}

func (f *fakeStore) EntitySummaries(ctx context.Context, caseID string) ([]domain.EntitySummary, error) {
	return f.summaries, nil
}

func (f *fakeStore) EntityDetail(ctx context.Context, entityID string) (domain.EntityDetail, error) {
	return f.detail, nil
}

func (f *fakeStore) CaseNode(ctx context.Context, caseID string) (domain.NetworkNode, error) {
	return f.caseNode, nil
}

func (f *fakeStore) EvidenceNodes(ctx context.Context, caseID string) ([]domain.NetworkNode, []string, error) {
	return f.evidence, f.evidenceSrc, nil
}

func (f *fakeStore) EntityRows(ctx context.Context, caseID string) ([]domain.NetworkNode, []string, error) {
	return f.entities, f.entitiesSrc, nil
}

func (f *fakeStore) MindmapRows(ctx context.Context, caseID string) (string, []domain.MindmapRow, error) {
	return f.mindmapName, f.mindmapRows, f.mindmapErr
}

func newTestEngine(store *fakeStore) *Engine {
	e := NewEngine(store)
	e.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestClassifyEvent(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"User login failed for admin at 2024-02-15 14:30:00", "Login Failure"},
		{"Unauthorized access to password vault", "Login Failure"},
		{"User logged in from workstation", "Login"},
		{"Session sign out recorded", "Logout"},
		{"document opened for read by bob", "File Access"},
		{"modify operation on file budget.xlsx", "File Modification"},
		{"delete issued against folder /tmp/x", "File Deletion"},
		{"email was sent to partner", "Email Sent"},
		{"mail received in inbox", "Email Received"},
		{"wire transfer of funds", "Transaction"},
		{"socket opened to remote host", "Network Activity"},
		{"sql script execute completed", "Database Access"},
		{"unhandled exception in worker", "System Error"},
		{"disk usage warning raised", "System Warning"},
		{"service start by launcher process", "Process Started"},
		{"kill signal for service daemon process", "Process Stopped"},
		{"http request to /api/v1", "API Request"},
		{"nothing notable happened", "System Event"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyEvent(tt.text), tt.text)
	}
}

func TestTruncateDescription(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, truncateDescription(short))

	long := strings.Repeat("a", 250)
	got := truncateDescription(long)
	assert.Len(t, got, 203)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTimelineBuildsClassifiedEvents(t *testing.T) {
	store := &fakeStore{timelineRows: []domain.TimelineRow{
		{
			ChunkID:   "c1",
			Timestamp: "2024-02-15T14:30:00Z",
			Text:      "User login failed for admin at 2024-02-15 14:30:00",
			RiskScore: 0.35,
			Filename:  "auth.log",
			Entities:  []string{"admin"},
		},
		{
			ChunkID:   "c2",
			Timestamp: "2024-02-16T09:00:00Z",
			Text:      "nothing notable happened",
		},
	}}
	e := newTestEngine(store)

	events, err := e.Timeline(context.Background(), "u1", "case1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "c1", events[0].ID)
	assert.Equal(t, "Login Failure", events[0].EventType)
	assert.Equal(t, "2024-02-15T14:30:00Z", events[0].Timestamp)
	assert.Equal(t, "auth.log", events[0].Source)
	assert.Equal(t, []string{"admin"}, events[0].Entities)
	assert.InDelta(t, 0.35, events[0].RiskScore, 1e-9)

	assert.Equal(t, "System Event", events[1].EventType)
	assert.Equal(t, "Unknown", events[1].Source)
	assert.NotNil(t, events[1].Entities)
}

func TestTimelineRequiresCaseOwnership(t *testing.T) {
	store := &fakeStore{caseErr: domain.ErrNotFound}
	e := newTestEngine(store)

	_, err := e.Timeline(context.Background(), "u1", "case1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
