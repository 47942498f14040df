package youtrack

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/youtrack/query"
	"github.com/randalmurphal/youtrack/testutil"
)

func TestKnowledgeBase_List(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := testutil.TestContext(t)
	srv.Handle(http.MethodGet, articlesPath, testutil.JSON(http.StatusOK, "["+testutil.LoadFixtureString(t, "article.json")+"]"))

	articles, err := c.KnowledgeBase.List(ctx, query.ArticleFilter{Project: "KB", Text: "onboarding"}, nil)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "KB-A-1", articles[0].IDReadable)
	assert.True(t, articles[0].HasChildren)
	assert.Nil(t, articles[0].Parent)

	req, _ := srv.LastRequest(http.MethodGet, articlesPath)
	assert.Equal(t, "project: KB onboarding", req.Query.Get("query"))
	assert.Equal(t, articleFields, req.Query.Get("fields"))
}

func TestKnowledgeBase_GetAndChildren(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := testutil.TestContext(t)
	srv.Handle(http.MethodGet, articlesPath+"/KB-A-1", testutil.JSON(http.StatusOK, testutil.LoadFixtureString(t, "article.json")))
	srv.HandlePaged(http.MethodGet, articlesPath+"/KB-A-1/childArticles", []any{
		map[string]any{"id": "165-2", "summary": "Accounts", "parentArticle": map[string]any{"id": "165-1"}},
		map[string]any{"id": "165-3", "summary": "Laptops", "parentArticle": map[string]any{"id": "165-1"}},
	})

	article, err := c.KnowledgeBase.Get(ctx, "KB-A-1")
	require.NoError(t, err)
	assert.Equal(t, "Start here.", article.Content)

	children, err := c.KnowledgeBase.ListChildren(ctx, "KB-A-1", &ListOptions{PageSize: 1})
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "165-1", children[1].Parent.ID)
}

func TestKnowledgeBase_Create(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := testutil.TestContext(t)
	srv.Handle(http.MethodPost, articlesPath, testutil.JSON(http.StatusOK, `{"id":"165-4","summary":"VPN"}`))

	article, err := c.KnowledgeBase.Create(ctx, CreateArticleRequest{
		Project: "KB",
		Summary: "VPN",
		Content: "Use the client.",
		Parent:  "165-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "165-4", article.ID)

	req, _ := srv.LastRequest(http.MethodPost, articlesPath)
	assert.JSONEq(t, `{
		"project": {"shortName": "KB"},
		"summary": "VPN",
		"content": "Use the client.",
		"parentArticle": {"id": "165-1"}
	}`, string(req.Body))

	_, err = c.KnowledgeBase.Create(ctx, CreateArticleRequest{Project: "KB"})
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestKnowledgeBase_UpdateAndDelete(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := testutil.TestContext(t)
	srv.Handle(http.MethodPost, articlesPath+"/165-4", testutil.JSON(http.StatusOK, `{"id":"165-4","content":"Updated"}`))
	srv.Handle(http.MethodDelete, articlesPath+"/165-4", testutil.Status(http.StatusOK))

	content := "Updated"
	article, err := c.KnowledgeBase.Update(ctx, "165-4", UpdateArticleRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Updated", article.Content)

	req, _ := srv.LastRequest(http.MethodPost, articlesPath+"/165-4")
	assert.JSONEq(t, `{"content":"Updated"}`, string(req.Body))

	_, err = c.KnowledgeBase.Update(ctx, "165-4", UpdateArticleRequest{})
	assert.Equal(t, KindBadRequest, KindOf(err))

	require.NoError(t, c.KnowledgeBase.Delete(ctx, "165-4"))
	assert.Equal(t, 1, srv.Calls(http.MethodDelete, articlesPath+"/165-4"))
}
