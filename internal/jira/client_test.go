package jira_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/jira"
	"github.com/nhle/jira-skills/tests/testutil"
)

func TestClientBasicAuthWithEmail(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	fake.HandleJSON(http.MethodGet, "/rest/api/3/myself", http.StatusOK, map[string]any{
		"accountId": "abc", "displayName": "Dev",
	})

	me, err := fake.Client().Myself(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dev", me.DisplayName)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("dev@example.com:token"))
	assert.Equal(t, want, reqs[0].Header.Get("Authorization"))
	assert.Equal(t, "application/json", reqs[0].Header.Get("Accept"))
}

func TestClientBearerAuthWithoutEmail(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	fake.HandleJSON(http.MethodGet, "/rest/api/3/myself", http.StatusOK, map[string]any{})

	c := jira.NewClient(fake.Server.URL+"/", "", "pat-123")
	_, err := c.Myself(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer pat-123", fake.Requests()[0].Header.Get("Authorization"))
}

func TestClientClassifiesErrors(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
		business bool
	}{
		{http.StatusBadRequest, domain.ErrValidation, true},
		{http.StatusUnauthorized, domain.ErrAuth, false},
		{http.StatusForbidden, domain.ErrPermission, true},
		{http.StatusNotFound, domain.ErrNotFound, true},
		{http.StatusConflict, domain.ErrConflict, true},
		{http.StatusInternalServerError, domain.ErrServer, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			fake := testutil.NewFakeJira(t)
			fake.HandleJSON(http.MethodGet, "/rest/api/3/issue/PROJ-1", tt.status, map[string]any{
				"errorMessages": []string{"nope"},
				"errors":        map[string]string{"summary": "required"},
			})

			_, err := fake.Client().GetIssue(context.Background(), "PROJ-1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.business, domain.IsBusiness(err))

			var apiErr *jira.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			if tt.status != http.StatusUnauthorized {
				assert.Contains(t, err.Error(), "nope")
				assert.Contains(t, err.Error(), "summary: required")
			}
		})
	}
}

func TestClientRetriesThrottledRequests(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	var calls atomic.Int32
	fake.Handle(http.MethodGet, "/rest/api/3/myself", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.Header().Set("Retry-After", "1")
			testutil.WriteJSON(w, http.StatusTooManyRequests, nil)
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"displayName": "Dev"})
	})

	me, err := fake.Client().Myself(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dev", me.DisplayName)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientGivesUpAfterRetryBudget(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	fake.HandleJSON(http.MethodGet, "/rest/api/3/myself", http.StatusTooManyRequests, nil)

	_, err := fake.Client().Myself(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.False(t, domain.IsBusiness(err))
	assert.Contains(t, err.Error(), "max retries (2) exceeded")
	// One initial attempt plus two retries.
	assert.Len(t, fake.Requests(), 3)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	fake.HandleJSON(http.MethodGet, "/rest/api/3/issue/PROJ-9", http.StatusNotFound, nil)

	_, err := fake.Client().GetIssue(context.Background(), "PROJ-9")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, fake.Requests(), 1)
}

func TestGetTransitionsMapsTargetStatus(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	fake.HandleJSON(http.MethodGet, "/rest/api/3/issue/PROJ-1/transitions", http.StatusOK, map[string]any{
		"transitions": []map[string]any{
			{"id": "11", "name": "To Do", "to": map[string]any{"name": "Backlog"}},
			{"id": "21", "name": "In Progress", "to": map[string]any{"name": "In Progress"}},
		},
	})

	ts, err := fake.Client().GetTransitions(context.Background(), "PROJ-1")
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "11", ts[0].ID)
	assert.Equal(t, "Backlog", ts[0].TargetStatusName)
}

func TestDoTransitionPayload(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	fake.HandleJSON(http.MethodPost, "/rest/api/3/issue/PROJ-1/transitions", http.StatusNoContent, nil)

	err := fake.Client().DoTransition(context.Background(), "PROJ-1", "31", jira.TransitionOptions{
		Resolution: "Fixed",
		Comment:    "shipped",
		Fields:     map[string]any{"customfield_1": "x"},
	})
	require.NoError(t, err)

	var body struct {
		Transition struct{ ID string } `json:"transition"`
		Fields     map[string]any       `json:"fields"`
		Update     map[string]any       `json:"update"`
	}
	fake.Requests()[0].JSON(t, &body)
	assert.Equal(t, "31", body.Transition.ID)
	assert.Equal(t, map[string]any{"name": "Fixed"}, body.Fields["resolution"])
	assert.Equal(t, "x", body.Fields["customfield_1"])
	assert.Contains(t, body.Update, "comment")
}

func TestSearchKeysFollowsPagesAndCaps(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	var page atomic.Int32
	fake.Handle(http.MethodPost, "/rest/api/3/search/jql", func(w http.ResponseWriter, _ *http.Request) {
		if page.Add(1) == 1 {
			testutil.WriteJSON(w, http.StatusOK, map[string]any{
				"issues":        []map[string]any{{"key": "PROJ-1"}, {"key": "PROJ-2"}},
				"nextPageToken": "t2",
			})
			return
		}
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"issues": []map[string]any{{"key": "PROJ-3"}, {"key": "PROJ-4"}},
			"isLast": true,
		})
	})

	keys, err := fake.Client().SearchKeys(context.Background(), "project = PROJ", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"PROJ-1", "PROJ-2", "PROJ-3"}, keys)

	reqs := fake.RequestsTo(http.MethodPost, "/rest/api/3/search/jql")
	require.Len(t, reqs, 2)
	var second jira.SearchRequest
	reqs[1].JSON(t, &second)
	assert.Equal(t, "t2", second.NextPageToken)
	assert.Equal(t, "project = PROJ", second.JQL)
}

func TestGetIssueLinksDirections(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	fake.HandleJSON(http.MethodGet, "/rest/api/3/issue/PROJ-1", http.StatusOK, map[string]any{
		"key": "PROJ-1",
		"fields": map[string]any{
			"issuelinks": []map[string]any{
				{
					"id":           "1",
					"type":         map[string]any{"name": "Blocks", "inward": "is blocked by", "outward": "blocks"},
					"outwardIssue": map[string]any{"key": "PROJ-100"},
				},
				{
					"id":          "2",
					"type":        map[string]any{"name": "Relates", "inward": "relates to", "outward": "relates to"},
					"inwardIssue": map[string]any{"key": "PROJ-7"},
				},
			},
		},
	})

	links, err := fake.Client().GetIssueLinks(context.Background(), "PROJ-1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "outward", links[0].Direction)
	assert.Equal(t, "blocks", links[0].Description)
	assert.Equal(t, "PROJ-100", links[0].OtherKey)
	assert.Equal(t, "inward", links[1].Direction)
	assert.Equal(t, "fields=issuelinks", fake.Requests()[0].Query)
}

func TestAddWorklogQueryAndBody(t *testing.T) {
	fake := testutil.NewFakeJira(t)
	fake.HandleJSON(http.MethodPost, "/rest/api/3/issue/PROJ-1/worklog", http.StatusCreated, map[string]any{
		"id": "10045", "timeSpent": "2h", "timeSpentSeconds": 7200,
		"started": "2025-01-15T09:00:00.000+0000",
	})

	wl, err := fake.Client().AddWorklog(context.Background(), "PROJ-1", jira.WorklogRequest{
		TimeSpent:      "2h",
		Started:        "2025-01-15T09:00:00.000+0000",
		Comment:        "debugging",
		AdjustEstimate: jira.AdjustNew,
		NewEstimate:    "6h",
	})
	require.NoError(t, err)
	assert.Equal(t, "10045", wl.ID)
	assert.Equal(t, 7200, wl.TimeSpentSeconds)
	assert.Equal(t, 2025, wl.Started.Year())

	req := fake.Requests()[0]
	assert.Equal(t, "adjustEstimate=new&newEstimate=6h", req.Query)
	var body map[string]any
	req.JSON(t, &body)
	assert.Equal(t, "2h", body["timeSpent"])
	comment, ok := body["comment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "doc", comment["type"])
}
