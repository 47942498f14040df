package youtrack

import (
	"context"
	"iter"

	ythttp "github.com/randalmurphal/youtrack/http"
)

// ProjectsService reads projects and their custom field settings.
type ProjectsService service

const projectsPath = "/api/admin/projects"

// List returns the projects visible to the token. An instance with no
// projects yields an empty, non-nil slice.
func (s *ProjectsService) List(ctx context.Context, opts *ListOptions) ([]Project, error) {
	return ythttp.Collect(s.All(ctx, opts))
}

// All iterates over the projects visible to the token.
func (s *ProjectsService) All(ctx context.Context, opts *ListOptions) iter.Seq2[Project, error] {
	return list[Project](ctx, s.client, "list projects", projectsPath, ythttp.Params{"fields": projectFields}, opts)
}

// Get retrieves a project by database id or short name.
func (s *ProjectsService) Get(ctx context.Context, id string) (*Project, error) {
	if err := requireID(projectsPath, "project id", id); err != nil {
		return nil, err
	}

	project, err := read(ctx, s.client, escape(projectsPath+"/%s", id), projectFields, idOfProject)
	if err != nil {
		return nil, wrap(err, "get project %s", id)
	}
	return project, nil
}

// CustomFields returns every custom field attached to a project.
func (s *ProjectsService) CustomFields(ctx context.Context, projectID string) ([]ProjectCustomField, error) {
	return ythttp.Collect(s.AllCustomFields(ctx, projectID, nil))
}

// AllCustomFields iterates over the custom fields attached to a project.
func (s *ProjectsService) AllCustomFields(ctx context.Context, projectID string, opts *ListOptions) iter.Seq2[ProjectCustomField, error] {
	if err := requireID(projectsPath, "project id", projectID); err != nil {
		return failed[ProjectCustomField](err)
	}
	path := escape(projectsPath+"/%s/customFields", projectID)
	return list[ProjectCustomField](ctx, s.client, "list custom fields of "+projectID, path,
		ythttp.Params{"fields": projectCustomFieldFields}, opts)
}
