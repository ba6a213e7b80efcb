package cmd

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/tests/testutil"
)

type linkRequest struct {
	InwardIssue struct{ Key string } `json:"inwardIssue"`
}

// handleLinks answers 404 for links whose inward issue is in missing.
func (h *harness) handleLinks(missing ...string) {
	h.fake.Handle(http.MethodPost, "/rest/api/3/issueLink", func(w http.ResponseWriter, r *http.Request) {
		var body linkRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, m := range missing {
			if body.InwardIssue.Key == m {
				testutil.WriteJSON(w, http.StatusNotFound, map[string]any{
					"errorMessages": []string{"Issue " + m + " does not exist"},
				})
				return
			}
		}
		w.WriteHeader(http.StatusCreated)
	})
}

func (h *harness) handleSearch(keys ...string) {
	issues := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		issues = append(issues, map[string]any{"key": k, "fields": map[string]any{"summary": k}})
	}
	h.fake.HandleJSON(http.MethodPost, "/rest/api/3/search/jql", http.StatusOK, map[string]any{
		"issues": issues, "isLast": true,
	})
}

func TestLinkBulkPartialFailure(t *testing.T) {
	h := newHarness(t)
	h.handleLinks("PROJ-2")

	out, stderr, err := h.run("link", "bulk", "--issues", "PROJ-1,PROJ-2,PROJ-3",
		"--target", "PROJ-100", "--type", "Blocks", "--details")
	require.Error(t, err)
	assert.Equal(t, "1 of 3 issues failed", err.Error())

	assert.Contains(t, out, "2 succeeded, 1 failed, 0 skipped (total 3)")
	assert.Contains(t, out, "PROJ-2: ")
	assert.Contains(t, out, "does not exist")
	assert.Contains(t, strings.ToUpper(out), "REASON")
	assert.Contains(t, stderr, "[3/3] PROJ-3 succeeded")
	assert.Len(t, h.fake.RequestsTo(http.MethodPost, "/rest/api/3/issueLink"), 3)
}

func TestLinkBulkJSONSummary(t *testing.T) {
	h := newHarness(t)
	h.handleLinks()

	out, _, err := h.run("link", "bulk", "--issues", "PROJ-1,PROJ-2",
		"--target", "PROJ-100", "--type", "Relates", "-o", "json", "--no-progress")
	require.NoError(t, err)

	var sum bulk.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 2, sum.Succeeded)
	assert.True(t, sum.Consistent())
	assert.NotEmpty(t, sum.RunID)
}

func TestLinkBulkDryRun(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("link", "bulk", "--issues", "PROJ-1,PROJ-2",
		"--target", "PROJ-100", "--type", "Blocks", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "(dry run)")
	assert.Contains(t, out, "Would process 2 issue(s)")
	assert.Contains(t, out, "No changes were made.")
	assert.Empty(t, h.fake.Requests())
}

func TestLinkBulkKeysFromStdin(t *testing.T) {
	h := newHarness(t)
	h.handleLinks()
	h.stdin = "a1b2c3 PROJ-7 fix login\nd4e5f6 PROJ-8 docs\n"

	_, _, err := h.run("link", "bulk", "--issues", "-", "--target", "PROJ-100", "--type", "Relates", "--no-progress")
	require.NoError(t, err)

	reqs := h.fake.RequestsTo(http.MethodPost, "/rest/api/3/issueLink")
	require.Len(t, reqs, 2)
	var first linkRequest
	reqs[0].JSON(t, &first)
	assert.Equal(t, "PROJ-7", first.InwardIssue.Key)
}

func TestLinkBulkNeedsConfirmationAboveThreshold(t *testing.T) {
	h := newHarness(t)
	h.handleLinks()
	h.writeConfig("bulk:\n  confirm_threshold: 2\n")

	args := []string{"link", "bulk", "--issues", "PROJ-1,PROJ-2,PROJ-3", "--target", "PROJ-100", "--type", "Blocks", "--no-progress"}
	_, _, err := h.run(args...)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "--yes")
	assert.Empty(t, h.fake.Requests())

	_, _, err = h.run(append(args, "--yes")...)
	require.NoError(t, err)
	assert.Len(t, h.fake.Requests(), 3)
}

func TestLinkBulkAbortsOnAuthFailure(t *testing.T) {
	h := newHarness(t)
	h.fake.HandleJSON(http.MethodPost, "/rest/api/3/issueLink", http.StatusUnauthorized, nil)

	out, _, err := h.run("link", "bulk", "--issues", "PROJ-1,PROJ-2", "--target", "PROJ-100", "--type", "Blocks", "--no-progress")
	require.ErrorIs(t, err, domain.ErrAuth)
	assert.Contains(t, out, "aborted after 0 of 2 issues")
	assert.Len(t, h.fake.Requests(), 1)
}

func TestLinkBulkRejectsIssuesAndJQLTogether(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("link", "bulk", "--issues", "PROJ-1", "--jql", "project = PROJ", "--target", "PROJ-100", "--type", "Blocks")
	assert.Error(t, err)
	assert.Empty(t, h.fake.Requests())
}

func TestWorklogBulkFromJQL(t *testing.T) {
	h := newHarness(t)
	h.handleSearch("PROJ-1", "PROJ-2", "PROJ-3")
	for _, k := range []string{"PROJ-1", "PROJ-2"} {
		h.fake.HandleJSON(http.MethodPost, "/rest/api/3/issue/"+k+"/worklog", http.StatusCreated, map[string]any{
			"id": "1", "timeSpent": "15m", "timeSpentSeconds": 900,
		})
	}

	out, _, err := h.run("worklog", "bulk", "--jql", "sprint in openSprints()", "--max-issues", "2",
		"--time", "15m", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Log 15m per issue")
	assert.Contains(t, out, "Total logged: 30m")

	searches := h.fake.RequestsTo(http.MethodPost, "/rest/api/3/search/jql")
	require.Len(t, searches, 1)
	var search struct {
		JQL        string `json:"jql"`
		MaxResults int    `json:"maxResults"`
	}
	searches[0].JSON(t, &search)
	assert.Equal(t, "sprint in openSprints()", search.JQL)
	assert.Equal(t, 2, search.MaxResults)
}

func TestWorklogAdd(t *testing.T) {
	h := newHarness(t)
	h.fake.HandleJSON(http.MethodPost, "/rest/api/3/issue/PROJ-1/worklog", http.StatusCreated, map[string]any{
		"id": "10001", "timeSpent": "1d 2h", "timeSpentSeconds": 36000,
	})

	out, _, err := h.run("worklog", "add", "PROJ-1", "--time", "1d 2h", "--adjust-estimate", "new", "--new-estimate", "3h")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged 1d 2h on PROJ-1 (worklog 10001)")
	assert.Equal(t, "adjustEstimate=new&newEstimate=3h", h.fake.Requests()[0].Query)
}

func TestEpicAddYAML(t *testing.T) {
	h := newHarness(t)
	h.fake.HandleJSON(http.MethodGet, "/rest/api/3/issue/PROJ-100", http.StatusOK, map[string]any{
		"key": "PROJ-100", "fields": map[string]any{"issuetype": map[string]any{"name": "Epic"}},
	})
	for _, k := range []string{"PROJ-1", "PROJ-2"} {
		h.fake.Handle(http.MethodPut, "/rest/api/3/issue/"+k, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	}

	out, _, err := h.run("epic", "add", "PROJ-100", "--issues", "PROJ-1,PROJ-2", "-o", "yaml", "--no-progress")
	require.NoError(t, err)

	var sum bulk.Summary
	require.NoError(t, yaml.Unmarshal([]byte(out), &sum))
	assert.Equal(t, 2, sum.Succeeded)

	var update struct {
		Fields map[string]any `json:"fields"`
	}
	h.fake.RequestsTo(http.MethodPut, "/rest/api/3/issue/PROJ-1")[0].JSON(t, &update)
	assert.Equal(t, "PROJ-100", update.Fields["customfield_10014"])
}

func TestEstimateRejectsNonFibonacci(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("estimate", "--issues", "PROJ-1", "--points", "4", "--fibonacci")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, h.fake.Requests())
}

func TestEstimateUsesProfileField(t *testing.T) {
	h := newHarness(t)
	h.writeConfig("profiles:\n  default:\n    story_points_field: customfield_10028\n")
	h.fake.Handle(http.MethodPut, "/rest/api/3/issue/PROJ-1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out, _, err := h.run("estimate", "--issues", "PROJ-1", "--points", "3", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Set 3 story points")

	var update struct {
		Fields map[string]any `json:"fields"`
	}
	h.fake.Requests()[0].JSON(t, &update)
	assert.Equal(t, float64(3), update.Fields["customfield_10028"])
}

func TestCloneCommand(t *testing.T) {
	h := newHarness(t)
	h.fake.HandleJSON(http.MethodGet, "/rest/api/3/issue/PROJ-5", http.StatusOK, map[string]any{
		"key": "PROJ-5",
		"fields": map[string]any{
			"summary":   "Flaky test",
			"project":   map[string]any{"key": "PROJ"},
			"issuetype": map[string]any{"name": "Bug"},
		},
	})
	h.fake.HandleJSON(http.MethodPost, "/rest/api/3/issue", http.StatusCreated, map[string]any{"id": "2", "key": "OPS-9"})

	out, _, err := h.run("clone", "PROJ-5", "--project", "OPS", "--no-link", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "1 succeeded")
	assert.Contains(t, out, "OPS-9")
}
