package youtrack

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/youtrack/testutil"
)

func TestAgile_Boards(t *testing.T) {
	c, srv := newTestClient(t)
	board := testutil.LoadFixtureString(t, "board.json")
	srv.Handle(http.MethodGet, agilesPath, testutil.JSON(http.StatusOK, "["+board+"]"))
	srv.Handle(http.MethodGet, agilesPath+"/108-3", testutil.JSON(http.StatusOK, board))

	boards, err := c.Agile.ListBoards(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "MYD Scrum", boards[0].Name)

	got, err := c.Agile.GetBoard(context.Background(), "108-3")
	require.NoError(t, err)
	require.Len(t, got.Sprints, 2)
	assert.Equal(t, "MYD", got.Projects[0].ShortName)
	assert.True(t, got.Sprints[0].Archived)
}

func TestAgile_Sprints(t *testing.T) {
	c, srv := newTestClient(t)
	srv.HandlePaged(http.MethodGet, agilesPath+"/108-3/sprints", []any{
		map[string]any{"id": "109-10", "name": "Sprint 10"},
		map[string]any{"id": "109-11", "name": "Sprint 11"},
	})
	srv.Handle(http.MethodGet, agilesPath+"/108-3/sprints/109-11",
		testutil.JSON(http.StatusOK, `{"id":"109-11","name":"Sprint 11","start":1751328000000,"finish":1752537600000}`))

	sprints, err := c.Agile.ListSprints(context.Background(), "108-3", nil)
	require.NoError(t, err)
	assert.Len(t, sprints, 2)

	sprint, err := c.Agile.GetSprint(context.Background(), "108-3", "109-11")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), sprint.Start.Time())

	_, err = c.Agile.GetSprint(context.Background(), "108-3", "")
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestAgile_CurrentSprint(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Handle(http.MethodGet, agilesPath+"/108-3", testutil.JSON(http.StatusOK, testutil.LoadFixtureString(t, "board.json")))
	srv.Handle(http.MethodGet, agilesPath+"/108-4", testutil.JSON(http.StatusOK, `{"id":"108-4","name":"Kanban","currentSprint":null}`))

	sprint, err := c.Agile.CurrentSprint(context.Background(), "108-3")
	require.NoError(t, err)
	assert.Equal(t, "109-11", sprint.ID)
	assert.Equal(t, "Checkout hardening", sprint.Goal)

	_, err = c.Agile.CurrentSprint(context.Background(), "108-4")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "has no current sprint")
}

func TestAgile_SprintMembership(t *testing.T) {
	c, srv := newTestClient(t)
	issuesPath := agilesPath + "/108-3/sprints/109-11/issues"
	srv.Handle(http.MethodPost, issuesPath, testutil.JSON(http.StatusOK, `{"id":"2-45"}`))
	srv.Handle(http.MethodDelete, issuesPath+"/2-45", testutil.Status(http.StatusOK))

	require.NoError(t, c.Agile.AddIssueToSprint(context.Background(), "108-3", "109-11", "MYD-45"))
	req, _ := srv.LastRequest(http.MethodPost, issuesPath)
	assert.JSONEq(t, `{"idReadable":"MYD-45"}`, string(req.Body))

	require.NoError(t, c.Agile.AddIssueToSprint(context.Background(), "108-3", "109-11", "2-45"))
	req, _ = srv.LastRequest(http.MethodPost, issuesPath)
	assert.JSONEq(t, `{"id":"2-45"}`, string(req.Body))

	require.NoError(t, c.Agile.RemoveIssueFromSprint(context.Background(), "108-3", "109-11", "2-45"))
	assert.Equal(t, 1, srv.Calls(http.MethodDelete, issuesPath+"/2-45"))

	err := c.Agile.AddIssueToSprint(context.Background(), "108-3", "", "2-45")
	assert.Equal(t, KindBadRequest, KindOf(err))
	assert.Contains(t, err.Error(), "sprint id is required")
}

func TestAgile_MutationsAreNotRetried(t *testing.T) {
	c, srv := newTestClient(t)
	issuesPath := agilesPath + "/108-3/sprints/109-11/issues"
	srv.Handle(http.MethodPost, issuesPath, testutil.Status(http.StatusTooManyRequests))

	err := c.Agile.AddIssueToSprint(context.Background(), "108-3", "109-11", "2-45")
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, 1, srv.Calls(http.MethodPost, issuesPath))
}
