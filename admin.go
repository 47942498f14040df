package youtrack

import (
	"context"
	"iter"
	"net/http"
	"strings"

	ythttp "github.com/randalmurphal/youtrack/http"
)

// AdminService handles users, project administration and custom field
// definitions.
type AdminService service

const (
	usersPath        = "/api/users"
	customFieldsPath = "/api/admin/customFieldSettings/customFields"
)

// CreateProjectRequest describes a new project.
type CreateProjectRequest struct {
	Name      string `json:"name" validate:"required"`
	ShortName string `json:"shortName" validate:"required,alphanum,max=64"`

	// Leader is a login or user id.
	Leader      string `json:"leader" validate:"required"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest changes a project. Nil fields are left untouched.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Archived    *bool   `json:"archived,omitempty"`
	Leader      *User   `json:"leader,omitempty"`
}

type projectPayload struct {
	Name        string `json:"name"`
	ShortName   string `json:"shortName"`
	Description string `json:"description,omitempty"`
	Leader      *User  `json:"leader"`
}

// ListUsers returns the users of the instance.
func (s *AdminService) ListUsers(ctx context.Context, opts *ListOptions) ([]User, error) {
	return ythttp.Collect(s.AllUsers(ctx, opts))
}

// AllUsers iterates over the users of the instance.
func (s *AdminService) AllUsers(ctx context.Context, opts *ListOptions) iter.Seq2[User, error] {
	return list[User](ctx, s.client, "list users", usersPath, ythttp.Params{"fields": userFields}, opts)
}

// GetUser retrieves a user by id or login.
func (s *AdminService) GetUser(ctx context.Context, id string) (*User, error) {
	if err := requireID(usersPath, "user id", id); err != nil {
		return nil, err
	}

	user, err := read(ctx, s.client, escape(usersPath+"/%s", id), userFields, idOfUser)
	if err != nil {
		return nil, wrap(err, "get user %s", id)
	}
	return user, nil
}

// Me returns the owner of the token.
func (s *AdminService) Me(ctx context.Context) (*User, error) {
	user, err := read(ctx, s.client, usersPath+"/me", userFields, idOfUser)
	return user, wrap(err, "get current user")
}

// CreateProject creates a project.
func (s *AdminService) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if err := validateStruct(req); err != nil {
		return nil, wrap(invalidRequest(projectsPath, err), "create project")
	}

	payload := projectPayload{
		Name:        req.Name,
		ShortName:   strings.ToUpper(req.ShortName),
		Description: req.Description,
		Leader:      userRef(req.Leader),
	}
	project, err := create(ctx, s.client, projectsPath, projectFields, payload, idOfProject)
	return project, wrap(err, "create project %s", payload.ShortName)
}

// UpdateProject applies req to a project and returns the updated project.
func (s *AdminService) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*Project, error) {
	path := escape(projectsPath+"/%s", id)
	if err := requireID(projectsPath, "project id", id); err != nil {
		return nil, err
	}
	if req.Name == nil && req.Description == nil && req.Archived == nil && req.Leader == nil {
		return nil, ythttp.InvalidArgument(path, "update has no changes")
	}

	project, err := fetch(ctx, s.client, http.MethodPost, path, projectFields, req, idOfProject)
	if err != nil {
		return nil, wrap(err, "update project %s", id)
	}
	return project, nil
}

// DeleteProject deletes a project and all of its issues.
func (s *AdminService) DeleteProject(ctx context.Context, id string) error {
	if err := requireID(projectsPath, "project id", id); err != nil {
		return err
	}
	return wrap(s.client.delete(ctx, escape(projectsPath+"/%s", id)), "delete project %s", id)
}

// ListCustomFields returns the custom field definitions of the instance.
func (s *AdminService) ListCustomFields(ctx context.Context, opts *ListOptions) ([]CustomFieldDefinition, error) {
	return ythttp.Collect(s.AllCustomFields(ctx, opts))
}

// AllCustomFields iterates over the custom field definitions of the instance.
func (s *AdminService) AllCustomFields(ctx context.Context, opts *ListOptions) iter.Seq2[CustomFieldDefinition, error] {
	return list[CustomFieldDefinition](ctx, s.client, "list custom fields", customFieldsPath,
		ythttp.Params{"fields": customFieldFields}, opts)
}
