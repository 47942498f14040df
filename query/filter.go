package query

// Filter is a typed set of constraints that renders itself onto a Builder.
type Filter interface {
	Apply(b *Builder)
}

// Build renders a filter. A nil filter yields the empty string.
func Build(f Filter) string {
	if f == nil {
		return ""
	}
	var b Builder
	f.Apply(&b)
	return b.String()
}

// IssueFilter selects issues.
type IssueFilter struct {
	Project  string
	Assignee string
	Reporter string
	State    string
	Type     string
	Priority string
	Tags     []string
	Created  Range
	Updated  Range
	Resolved Range

	// Custom constrains project custom fields, rendered in slice order.
	Custom []Field

	// Text is free text matched against summary, description and comments.
	Text string
}

// Apply implements Filter.
func (f IssueFilter) Apply(b *Builder) {
	b.Term("project", f.Project).
		Term("assignee", f.Assignee).
		Term("reporter", f.Reporter).
		Term("state", f.State).
		Term("type", f.Type).
		Term("priority", f.Priority).
		Terms("tag", f.Tags...).
		Range("created", f.Created).
		Range("updated", f.Updated).
		Range("resolved date", f.Resolved)
	for _, c := range f.Custom {
		b.Field(c)
	}
	b.Text(f.Text)
}

// String returns the rendered query.
func (f IssueFilter) String() string { return Build(f) }

// WorkItemFilter selects time-tracking entries.
type WorkItemFilter struct {
	Project string
	Issue   string
	Author  string
	Date    Range
	Text    string
}

// Apply implements Filter.
func (f WorkItemFilter) Apply(b *Builder) {
	b.Term("project", f.Project).
		Term("issue ID", f.Issue).
		Term("work author", f.Author).
		Range("work date", f.Date).
		Text(f.Text)
}

// String returns the rendered query.
func (f WorkItemFilter) String() string { return Build(f) }

// ArticleFilter selects knowledge base articles.
type ArticleFilter struct {
	Project string
	Author  string
	Created Range
	Updated Range
	Text    string
}

// Apply implements Filter.
func (f ArticleFilter) Apply(b *Builder) {
	b.Term("project", f.Project).
		Term("author", f.Author).
		Range("created", f.Created).
		Range("updated", f.Updated).
		Text(f.Text)
}

// String returns the rendered query.
func (f ArticleFilter) String() string { return Build(f) }
