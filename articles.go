package youtrack

import (
	"context"
	"iter"
	"net/http"

	ythttp "github.com/randalmurphal/youtrack/http"
	"github.com/randalmurphal/youtrack/query"
)

// KnowledgeBaseService handles knowledge base articles.
type KnowledgeBaseService service

const articlesPath = "/api/articles"

// CreateArticleRequest describes a new article.
type CreateArticleRequest struct {
	// Project is the project database id or short name.
	Project string `json:"project" validate:"required"`
	Summary string `json:"summary" validate:"required"`
	Content string `json:"content,omitempty"`

	// Parent is the id of the parent article, if any.
	Parent string `json:"parentArticle,omitempty"`
}

// UpdateArticleRequest changes an article. Nil fields are left untouched.
type UpdateArticleRequest struct {
	Summary *string `json:"summary,omitempty"`
	Content *string `json:"content,omitempty"`
}

type articlePayload struct {
	Project *ProjectRef `json:"project"`
	Summary string      `json:"summary"`
	Content string      `json:"content,omitempty"`
	Parent  *ArticleRef `json:"parentArticle,omitempty"`
}

// List returns the articles matching filter.
func (s *KnowledgeBaseService) List(ctx context.Context, filter query.ArticleFilter, opts *ListOptions) ([]Article, error) {
	return ythttp.Collect(s.All(ctx, filter, opts))
}

// All iterates over the articles matching filter.
func (s *KnowledgeBaseService) All(ctx context.Context, filter query.ArticleFilter, opts *ListOptions) iter.Seq2[Article, error] {
	params := ythttp.Params{"fields": articleFields, "query": query.Build(filter)}
	return list[Article](ctx, s.client, "list articles", articlesPath, params, opts)
}

// Get retrieves an article by database id or readable id.
func (s *KnowledgeBaseService) Get(ctx context.Context, id string) (*Article, error) {
	if err := requireID(articlesPath, "article id", id); err != nil {
		return nil, err
	}

	article, err := read(ctx, s.client, escape(articlesPath+"/%s", id), articleFields, idOfArticle)
	if err != nil {
		return nil, wrap(err, "get article %s", id)
	}
	return article, nil
}

// Create creates an article.
func (s *KnowledgeBaseService) Create(ctx context.Context, req CreateArticleRequest) (*Article, error) {
	if err := validateStruct(req); err != nil {
		return nil, wrap(invalidRequest(articlesPath, err), "create article")
	}

	payload := articlePayload{
		Project: projectRef(req.Project),
		Summary: req.Summary,
		Content: req.Content,
	}
	if req.Parent != "" {
		payload.Parent = &ArticleRef{ID: req.Parent}
	}

	article, err := create(ctx, s.client, articlesPath, articleFields, payload, idOfArticle)
	return article, wrap(err, "create article in %s", req.Project)
}

// Update applies req to an article and returns the updated article.
func (s *KnowledgeBaseService) Update(ctx context.Context, id string, req UpdateArticleRequest) (*Article, error) {
	path := escape(articlesPath+"/%s", id)
	if err := requireID(articlesPath, "article id", id); err != nil {
		return nil, err
	}
	if req.Summary == nil && req.Content == nil {
		return nil, ythttp.InvalidArgument(path, "update has no changes")
	}

	article, err := fetch(ctx, s.client, http.MethodPost, path, articleFields, req, idOfArticle)
	if err != nil {
		return nil, wrap(err, "update article %s", id)
	}
	return article, nil
}

// Delete deletes an article.
func (s *KnowledgeBaseService) Delete(ctx context.Context, id string) error {
	if err := requireID(articlesPath, "article id", id); err != nil {
		return err
	}
	return wrap(s.client.delete(ctx, escape(articlesPath+"/%s", id)), "delete article %s", id)
}

// ListChildren returns the direct sub-articles of an article.
func (s *KnowledgeBaseService) ListChildren(ctx context.Context, id string, opts *ListOptions) ([]Article, error) {
	return ythttp.Collect(s.AllChildren(ctx, id, opts))
}

// AllChildren iterates over the direct sub-articles of an article.
func (s *KnowledgeBaseService) AllChildren(ctx context.Context, id string, opts *ListOptions) iter.Seq2[Article, error] {
	if err := requireID(articlesPath, "article id", id); err != nil {
		return failed[Article](err)
	}
	path := escape(articlesPath+"/%s/childArticles", id)
	return list[Article](ctx, s.client, "list children of "+id, path, ythttp.Params{"fields": articleFields}, opts)
}
