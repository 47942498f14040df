package youtrack

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/youtrack/testutil"
)

func TestAdmin_Users(t *testing.T) {
	c, srv := newTestClient(t)
	srv.HandlePaged(http.MethodGet, usersPath, []any{
		map[string]any{"id": "1-1", "login": "jane", "fullName": "Jane Doe"},
		map[string]any{"id": "1-2", "login": "guest", "guest": true},
	})
	srv.Handle(http.MethodGet, usersPath+"/jane", testutil.JSON(http.StatusOK, `{"id":"1-1","login":"jane","email":"jane@example.com"}`))
	srv.Handle(http.MethodGet, usersPath+"/me", testutil.JSON(http.StatusOK, `{"id":"1-1","login":"jane"}`))

	users, err := c.Admin.ListUsers(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, users[1].Guest)

	user, err := c.Admin.GetUser(context.Background(), "jane")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	me, err := c.Admin.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1-1", me.ID)
}

func TestAdmin_MeUnauthorized(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Handle(http.MethodGet, usersPath+"/me", testutil.JSON(http.StatusUnauthorized,
		`{"error":"Unauthorized","error_description":"Invalid token"}`))

	_, err := c.Admin.Me(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Invalid token")
	assert.Equal(t, 1, srv.Calls(http.MethodGet, usersPath+"/me"))
}

func TestAdmin_CreateProject(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Handle(http.MethodPost, projectsPath, testutil.JSON(http.StatusOK, `{"id":"0-9","shortName":"NEW","name":"New"}`))

	project, err := c.Admin.CreateProject(context.Background(), CreateProjectRequest{
		Name:      "New",
		ShortName: "new",
		Leader:    "1-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "0-9", project.ID)

	req, _ := srv.LastRequest(http.MethodPost, projectsPath)
	assert.JSONEq(t, `{"name":"New","shortName":"NEW","leader":{"id":"1-1"}}`, string(req.Body))
}

func TestAdmin_CreateProjectValidation(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.Admin.CreateProject(context.Background(), CreateProjectRequest{Name: "New", ShortName: "has space", Leader: "jane"})
	require.Error(t, err)
	assert.Equal(t, KindBadRequest, KindOf(err))

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields(), "shortName")

	_, err = c.Admin.CreateProject(context.Background(), CreateProjectRequest{Name: "New", ShortName: "NEW"})
	assert.Equal(t, KindBadRequest, KindOf(err))

	assert.Zero(t, srv.TotalCalls())
}

func TestAdmin_UpdateAndDeleteProject(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Handle(http.MethodPost, projectsPath+"/0-9", testutil.JSON(http.StatusOK, `{"id":"0-9","archived":true}`))
	srv.Handle(http.MethodDelete, projectsPath+"/0-9", testutil.Status(http.StatusOK))

	archived := true
	project, err := c.Admin.UpdateProject(context.Background(), "0-9", UpdateProjectRequest{Archived: &archived})
	require.NoError(t, err)
	assert.True(t, project.Archived)

	req, _ := srv.LastRequest(http.MethodPost, projectsPath+"/0-9")
	assert.JSONEq(t, `{"archived":true}`, string(req.Body))

	_, err = c.Admin.UpdateProject(context.Background(), "0-9", UpdateProjectRequest{})
	assert.Equal(t, KindBadRequest, KindOf(err))

	require.NoError(t, c.Admin.DeleteProject(context.Background(), "0-9"))
	assert.Equal(t, 1, srv.Calls(http.MethodDelete, projectsPath+"/0-9"))
}

func TestAdmin_CustomFields(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Handle(http.MethodGet, customFieldsPath, testutil.JSON(http.StatusOK, `[
		{"id":"58-1","name":"Priority","fieldType":{"id":"enum[1]"},"isAutoAttached":true},
		{"id":"58-9","name":"Due Date","fieldType":{"id":"date"},"isAutoAttached":false}
	]`))

	fields, err := c.Admin.ListCustomFields(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "date", fields[1].FieldType.ID)
	assert.True(t, fields[0].IsAutoAttached)

	req, _ := srv.LastRequest(http.MethodGet, customFieldsPath)
	assert.Equal(t, customFieldFields, req.Query.Get("fields"))
}
