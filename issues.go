package youtrack

import (
	"context"
	"iter"
	"net/http"
	"strings"

	ythttp "github.com/randalmurphal/youtrack/http"
	"github.com/randalmurphal/youtrack/query"
)

// IssuesService handles issues and their comments.
type IssuesService service

// CreateIssueRequest describes a new issue.
type CreateIssueRequest struct {
	// Project is the project database id ("0-4") or short name ("MYD").
	Project string `json:"project" validate:"required"`

	Summary      string        `json:"summary" validate:"required"`
	Description  string        `json:"description,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// UpdateIssueRequest changes an issue. Nil fields are left untouched.
type UpdateIssueRequest struct {
	Summary      *string       `json:"summary,omitempty"`
	Description  *string       `json:"description,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

type issuePayload struct {
	Project      *ProjectRef   `json:"project,omitempty"`
	Summary      *string       `json:"summary,omitempty"`
	Description  *string       `json:"description,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// EpicTypeField and EpicTypeValue mark an issue as an epic.
const (
	EpicTypeField = "Type"
	EpicTypeValue = "Epic"
)

// Create creates an issue. The response must carry the new issue's id.
func (s *IssuesService) Create(ctx context.Context, req CreateIssueRequest) (*Issue, error) {
	const path = "/api/issues"
	if err := validateStruct(req); err != nil {
		return nil, wrap(invalidRequest(path, err), "create issue")
	}

	payload := issuePayload{
		Project:      projectRef(req.Project),
		Summary:      &req.Summary,
		CustomFields: req.CustomFields,
	}
	if req.Description != "" {
		payload.Description = &req.Description
	}

	issue, err := create(ctx, s.client, path, issueFields, payload, idOfIssue)
	return issue, wrap(err, "create issue in %s", req.Project)
}

// CreateEpic creates an issue whose Type field is Epic. Any Type field in
// req is replaced.
func (s *IssuesService) CreateEpic(ctx context.Context, req CreateIssueRequest) (*Issue, error) {
	fields := make([]CustomField, 0, len(req.CustomFields)+1)
	for _, f := range req.CustomFields {
		if !strings.EqualFold(f.Name, EpicTypeField) {
			fields = append(fields, f)
		}
	}
	req.CustomFields = append(fields, SingleEnum(EpicTypeField, EpicTypeValue))
	return s.Create(ctx, req)
}

// Get retrieves an issue by database id or readable id.
func (s *IssuesService) Get(ctx context.Context, id string) (*Issue, error) {
	if err := requireID("/api/issues", "issue id", id); err != nil {
		return nil, err
	}

	issue, err := read(ctx, s.client, escape("/api/issues/%s", id), issueFields, idOfIssue)
	if err != nil {
		return nil, wrap(err, "get issue %s", id)
	}
	return issue, nil
}

// Update applies req to an issue and returns the updated issue.
func (s *IssuesService) Update(ctx context.Context, id string, req UpdateIssueRequest) (*Issue, error) {
	path := escape("/api/issues/%s", id)
	if err := requireID("/api/issues", "issue id", id); err != nil {
		return nil, err
	}
	if req.Summary == nil && req.Description == nil && len(req.CustomFields) == 0 {
		return nil, ythttp.InvalidArgument(path, "update has no changes")
	}
	if req.Summary != nil && strings.TrimSpace(*req.Summary) == "" {
		return nil, ythttp.InvalidArgument(path, "summary cannot be empty")
	}

	payload := issuePayload{
		Summary:      req.Summary,
		Description:  req.Description,
		CustomFields: req.CustomFields,
	}

	issue, err := fetch(ctx, s.client, http.MethodPost, path, issueFields, payload, idOfIssue)
	if err != nil {
		return nil, wrap(err, "update issue %s", id)
	}
	return issue, nil
}

// Delete deletes an issue.
func (s *IssuesService) Delete(ctx context.Context, id string) error {
	if err := requireID("/api/issues", "issue id", id); err != nil {
		return err
	}
	return wrap(s.client.delete(ctx, escape("/api/issues/%s", id)), "delete issue %s", id)
}

// Search returns the issues matching filter.
func (s *IssuesService) Search(ctx context.Context, filter query.IssueFilter, opts *ListOptions) ([]Issue, error) {
	return ythttp.Collect(s.SearchAll(ctx, filter, opts))
}

// SearchAll iterates over the issues matching filter.
func (s *IssuesService) SearchAll(ctx context.Context, filter query.IssueFilter, opts *ListOptions) iter.Seq2[Issue, error] {
	params := ythttp.Params{"fields": issueFields, "query": query.Build(filter)}
	return list[Issue](ctx, s.client, "search issues", "/api/issues", params, opts)
}

// ListComments returns the comments on an issue, oldest first.
func (s *IssuesService) ListComments(ctx context.Context, id string, opts *ListOptions) ([]Comment, error) {
	return ythttp.Collect(s.AllComments(ctx, id, opts))
}

// AllComments iterates over the comments on an issue.
func (s *IssuesService) AllComments(ctx context.Context, id string, opts *ListOptions) iter.Seq2[Comment, error] {
	if err := requireID("/api/issues", "issue id", id); err != nil {
		return failed[Comment](err)
	}
	path := escape("/api/issues/%s/comments", id)
	return list[Comment](ctx, s.client, "list comments on "+id, path, ythttp.Params{"fields": commentFields}, opts)
}

// AddComment posts a comment on an issue.
func (s *IssuesService) AddComment(ctx context.Context, id, text string) (*Comment, error) {
	if err := requireID("/api/issues", "issue id", id); err != nil {
		return nil, err
	}
	path := escape("/api/issues/%s/comments", id)
	if strings.TrimSpace(text) == "" {
		return nil, ythttp.InvalidArgument(path, "comment text is required")
	}

	comment, err := create(ctx, s.client, path, commentFields, map[string]string{"text": text},
		func(c *Comment) string { return c.ID })
	return comment, wrap(err, "add comment to %s", id)
}
