package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/model"
)

func workflow() []model.Transition {
	return []model.Transition{
		{ID: "11", Name: "To Do", TargetStatusName: "To Do"},
		{ID: "21", Name: "In Progress", TargetStatusName: "In Progress"},
		{ID: "31", Name: "Done", TargetStatusName: "Done"},
	}
}

func TestResolveByID(t *testing.T) {
	for _, want := range workflow() {
		got, err := Resolve(workflow(), ByIDQuery(want.ID))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestResolveByIDNotAvailable(t *testing.T) {
	_, err := Resolve(workflow(), ByIDQuery("99"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.ErrorIs(t, err, domain.ErrValidation)
	for _, name := range []string{"To Do", "In Progress", "Done"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestResolveByNameSubstringCaseInsensitive(t *testing.T) {
	got, err := Resolve(workflow(), ByNameQuery("progress"))
	require.NoError(t, err)
	assert.Equal(t, "21", got.ID)
}

func TestResolveByNameExactPass(t *testing.T) {
	candidates := []model.Transition{{ID: "21", Name: "In Progress"}}
	got, err := Resolve(candidates, ByNameQuery("in progress"))
	require.NoError(t, err)
	assert.Equal(t, "21", got.ID)
}

func TestResolveExactBeatsSubstring(t *testing.T) {
	candidates := []model.Transition{
		{ID: "1", Name: "Review"},
		{ID: "2", Name: "Review Complete"},
	}
	got, err := Resolve(candidates, ByNameQuery("REVIEW"))
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
}

func TestResolveAmbiguousSubstring(t *testing.T) {
	candidates := []model.Transition{
		{ID: "1", Name: "Review Code"},
		{ID: "2", Name: "Code Review Complete"},
	}
	_, err := Resolve(candidates, ByNameQuery("Code"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguous)
	assert.Contains(t, err.Error(), "Review Code")
	assert.Contains(t, err.Error(), "Code Review Complete")
}

func TestResolveAmbiguousExactDuplicates(t *testing.T) {
	candidates := []model.Transition{
		{ID: "1", Name: "Done"},
		{ID: "2", Name: "done"},
		{ID: "3", Name: "Done Later"},
	}
	_, err := Resolve(candidates, ByNameQuery("done"))
	require.Error(t, err)

	var rerr *ResolveError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrAmbiguous, rerr.Kind)
	assert.Equal(t, []string{"Done", "done"}, rerr.Options)
}

func TestResolveNameNotFoundListsEveryCandidate(t *testing.T) {
	_, err := Resolve(workflow(), ByNameQuery("deploy"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var rerr *ResolveError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, []string{"To Do", "In Progress", "Done"}, rerr.Options)
	for _, name := range rerr.Options {
		assert.Contains(t, err.Error(), name)
	}
}

func TestResolveNoCandidates(t *testing.T) {
	for _, q := range []Query{ByIDQuery("1"), ByNameQuery("done")} {
		_, err := Resolve(nil, q)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoTransitions)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr bool
	}{
		{"numeric id", ByIDQuery("31"), false},
		{"name", ByNameQuery("Done"), false},
		{"empty id", ByIDQuery(" "), true},
		{"non numeric id", ByIDQuery("abc"), true},
		{"empty name", ByNameQuery(""), true},
		{"unknown kind", Query{By: "status", Value: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}

	_, err := Resolve(workflow(), ByNameQuery(""))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResolveForResolution(t *testing.T) {
	tests := []struct {
		name       string
		candidates []model.Transition
		wantID     string
		wantErr    error
	}{
		{
			name: "prefers exact done",
			candidates: []model.Transition{
				{ID: "5", Name: "Resolve Issue"},
				{ID: "31", Name: "Done"},
			},
			wantID: "31",
		},
		{
			name: "first keyword match",
			candidates: []model.Transition{
				{ID: "11", Name: "Start"},
				{ID: "41", Name: "Close Issue"},
				{ID: "51", Name: "Complete"},
			},
			wantID: "41",
		},
		{
			name:       "no match",
			candidates: []model.Transition{{ID: "11", Name: "Start"}},
			wantErr:    ErrNotFound,
		},
		{
			name:    "empty",
			wantErr: ErrNoTransitions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveForResolution(tt.candidates)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolveForReopen(t *testing.T) {
	tests := []struct {
		name       string
		candidates []model.Transition
		wantID     string
		wantErr    error
	}{
		{
			name: "prefers reopen",
			candidates: []model.Transition{
				{ID: "11", Name: "To Do"},
				{ID: "71", Name: "Reopen Issue"},
			},
			wantID: "71",
		},
		{
			name: "single match",
			candidates: []model.Transition{
				{ID: "31", Name: "Done"},
				{ID: "81", Name: "Back to Backlog"},
			},
			wantID: "81",
		},
		{
			name: "to do over other matches",
			candidates: []model.Transition{
				{ID: "81", Name: "Backlog"},
				{ID: "11", Name: "To Do"},
			},
			wantID: "11",
		},
		{
			name: "first match otherwise",
			candidates: []model.Transition{
				{ID: "81", Name: "Backlog"},
				{ID: "91", Name: "Open"},
			},
			wantID: "81",
		},
		{
			name:       "no match",
			candidates: []model.Transition{{ID: "31", Name: "Done"}},
			wantErr:    ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveForReopen(tt.candidates)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}
