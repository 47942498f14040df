package youtrack

import (
	"context"
	"iter"
	"time"

	ythttp "github.com/randalmurphal/youtrack/http"
	"github.com/randalmurphal/youtrack/query"
)

// WorkItemsService handles time tracking.
type WorkItemsService service

const workItemsPath = "/api/workItems"

// CreateWorkItemRequest describes tracked time on an issue.
type CreateWorkItemRequest struct {
	Date     time.Time     `json:"date" validate:"required"`
	Duration time.Duration `json:"duration" validate:"gte=1m"`
	Text     string        `json:"text,omitempty"`

	// Author is a login or user id. Defaults to the token owner.
	Author string `json:"author,omitempty"`

	// Type is a work item type name such as "Development".
	Type string `json:"type,omitempty"`
}

type workItemPayload struct {
	Date     Millis        `json:"date"`
	Duration Duration      `json:"duration"`
	Text     string        `json:"text,omitempty"`
	Author   *User         `json:"author,omitempty"`
	Type     *WorkItemType `json:"type,omitempty"`
}

// Query returns the work items matching filter.
func (s *WorkItemsService) Query(ctx context.Context, filter query.WorkItemFilter, opts *ListOptions) ([]WorkItem, error) {
	return ythttp.Collect(s.QueryAll(ctx, filter, opts))
}

// QueryAll iterates over the work items matching filter. Author and date
// bounds are sent both in the query and as dedicated parameters.
func (s *WorkItemsService) QueryAll(ctx context.Context, filter query.WorkItemFilter, opts *ListOptions) iter.Seq2[WorkItem, error] {
	params := ythttp.Params{
		"fields":    workItemFields,
		"query":     query.Build(filter),
		"author":    filter.Author,
		"startDate": filter.Date.From,
		"endDate":   filter.Date.To,
	}
	return list[WorkItem](ctx, s.client, "query work items", workItemsPath, params, opts)
}

// ListForIssue returns the work items of one issue.
func (s *WorkItemsService) ListForIssue(ctx context.Context, issueID string, opts *ListOptions) ([]WorkItem, error) {
	return ythttp.Collect(s.AllForIssue(ctx, issueID, opts))
}

// AllForIssue iterates over the work items of one issue.
func (s *WorkItemsService) AllForIssue(ctx context.Context, issueID string, opts *ListOptions) iter.Seq2[WorkItem, error] {
	if err := requireID("/api/issues", "issue id", issueID); err != nil {
		return failed[WorkItem](err)
	}
	path := escape("/api/issues/%s/timeTracking/workItems", issueID)
	return list[WorkItem](ctx, s.client, "list work items of "+issueID, path, ythttp.Params{"fields": workItemFields}, opts)
}

// Create records time on an issue.
func (s *WorkItemsService) Create(ctx context.Context, issueID string, req CreateWorkItemRequest) (*WorkItem, error) {
	if err := requireID("/api/issues", "issue id", issueID); err != nil {
		return nil, err
	}
	path := escape("/api/issues/%s/timeTracking/workItems", issueID)
	if err := validateStruct(req); err != nil {
		return nil, wrap(invalidRequest(path, err), "create work item on %s", issueID)
	}

	payload := workItemPayload{
		Date:     MillisOf(req.Date),
		Duration: Duration{Minutes: int(req.Duration / time.Minute)},
		Text:     req.Text,
		Author:   userRef(req.Author),
	}
	if req.Type != "" {
		payload.Type = &WorkItemType{Name: req.Type}
	}

	item, err := create(ctx, s.client, path, workItemFields, payload, func(w *WorkItem) string { return w.ID })
	return item, wrap(err, "create work item on %s", issueID)
}

// Delete removes a work item from an issue.
func (s *WorkItemsService) Delete(ctx context.Context, issueID, itemID string) error {
	path := escape("/api/issues/%s/timeTracking/workItems/%s", issueID, itemID)
	if err := requireIDs(path, "issue id", issueID, "work item id", itemID); err != nil {
		return err
	}
	return wrap(s.client.delete(ctx, path), "delete work item %s on %s", itemID, issueID)
}
