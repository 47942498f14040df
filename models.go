package youtrack

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// databaseID matches YouTrack entity ids such as "0-12" or "2-7".
var databaseID = regexp.MustCompile(`^\d+-\d+$`)

// Id accessors for single-entity reads.
func idOfIssue(i *Issue) string     { return i.ID }
func idOfProject(p *Project) string { return p.ID }
func idOfUser(u *User) string       { return u.ID }
func idOfArticle(a *Article) string { return a.ID }

// Millis is a Unix timestamp in milliseconds, as YouTrack encodes dates.
type Millis int64

// MillisOf converts t to Millis. The zero time maps to 0.
func MillisOf(t time.Time) Millis {
	if t.IsZero() {
		return 0
	}
	return Millis(t.UnixMilli())
}

// Time returns the timestamp in UTC, or the zero time for 0.
func (m Millis) Time() time.Time {
	if m == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(m)).UTC()
}

// User is a YouTrack account.
type User struct {
	ID       string `json:"id,omitempty"`
	Login    string `json:"login,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Banned   bool   `json:"banned,omitempty"`
	Guest    bool   `json:"guest,omitempty"`
}

// userRef references a user by database id or by login.
func userRef(v string) *User {
	if v == "" {
		return nil
	}
	if databaseID.MatchString(v) {
		return &User{ID: v}
	}
	return &User{Login: v}
}

// ProjectRef references a project by database id or short name.
type ProjectRef struct {
	ID        string `json:"id,omitempty"`
	ShortName string `json:"shortName,omitempty"`
	Name      string `json:"name,omitempty"`
}

func projectRef(v string) *ProjectRef {
	if databaseID.MatchString(v) {
		return &ProjectRef{ID: v}
	}
	return &ProjectRef{ShortName: v}
}

// Project is a YouTrack project.
type Project struct {
	ID          string `json:"id"`
	ShortName   string `json:"shortName"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Archived    bool   `json:"archived"`
	Leader      *User  `json:"leader,omitempty"`
}

// FieldType names the value type of a custom field, e.g. "enum[1]".
type FieldType struct {
	ID string `json:"id"`
}

// CustomFieldDefinition is a custom field declared at the instance level.
type CustomFieldDefinition struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	FieldType      *FieldType `json:"fieldType,omitempty"`
	IsAutoAttached bool       `json:"isAutoAttached"`
	Aliases        string     `json:"aliases,omitempty"`
}

// ProjectCustomField is a custom field attached to a project.
type ProjectCustomField struct {
	ID             string                `json:"id"`
	Type           string                `json:"$type,omitempty"`
	Field          CustomFieldDefinition `json:"field"`
	CanBeEmpty     bool                  `json:"canBeEmpty"`
	EmptyFieldText string                `json:"emptyFieldText,omitempty"`
	IsPublic       bool                  `json:"isPublic"`
}

// Name returns the name of the underlying field definition.
func (f ProjectCustomField) Name() string {
	return f.Field.Name
}

// CustomField is an issue custom field. Value keeps the raw JSON because its
// shape depends on the field type.
type CustomField struct {
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name"`
	Type  string          `json:"$type,omitempty"`
	Value json.RawMessage `json:"value"`
}

// IsEmpty reports whether the field has no value.
func (f CustomField) IsEmpty() bool {
	v := bytes.TrimSpace(f.Value)
	return len(v) == 0 || bytes.Equal(v, []byte("null")) || bytes.Equal(v, []byte("[]"))
}

// String renders the value for display. Bundle values render as their name
// and users as their login. Multi-value fields are joined with ", ".
// Unrecognized shapes render as raw JSON.
func (f CustomField) String() string {
	if f.IsEmpty() {
		return ""
	}
	var v any
	if err := json.Unmarshal(f.Value, &v); err != nil {
		return string(f.Value)
	}
	return present(v)
}

func present(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := present(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		for _, key := range []string{"presentation", "name", "login", "text", "fullName", "minutes", "id"} {
			if inner, ok := val[key]; ok && inner != nil {
				return present(inner)
			}
		}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// Custom field value types accepted on write.
const (
	TypeSingleEnum = "SingleEnumIssueCustomField"
	TypeState      = "StateIssueCustomField"
	TypeSingleUser = "SingleUserIssueCustomField"
	TypePeriod     = "PeriodIssueCustomField"
)

func rawJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// SingleEnum sets a single-value enum field such as Type or Priority.
func SingleEnum(name, value string) CustomField {
	return CustomField{Name: name, Type: TypeSingleEnum, Value: rawJSON(map[string]string{"name": value})}
}

// State sets a state field.
func State(name, value string) CustomField {
	return CustomField{Name: name, Type: TypeState, Value: rawJSON(map[string]string{"name": value})}
}

// SingleUser sets a user field by login.
func SingleUser(name, login string) CustomField {
	return CustomField{Name: name, Type: TypeSingleUser, Value: rawJSON(map[string]string{"login": login})}
}

// Period sets a period field such as Estimation.
func Period(name string, d time.Duration) CustomField {
	return CustomField{Name: name, Type: TypePeriod, Value: rawJSON(map[string]int{"minutes": int(d.Minutes())})}
}

// Issue is a YouTrack issue.
type Issue struct {
	ID           string        `json:"id"`
	IDReadable   string        `json:"idReadable,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	Description  string        `json:"description,omitempty"`
	Project      *ProjectRef   `json:"project,omitempty"`
	Reporter     *User         `json:"reporter,omitempty"`
	Created      Millis        `json:"created,omitempty"`
	Updated      Millis        `json:"updated,omitempty"`
	Resolved     Millis        `json:"resolved,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// Field returns the custom field with the given name.
func (i Issue) Field(name string) (CustomField, bool) {
	for _, f := range i.CustomFields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return CustomField{}, false
}

// IssueRef is the short form of an issue embedded in other entities.
type IssueRef struct {
	ID         string `json:"id"`
	IDReadable string `json:"idReadable,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// Comment is an issue comment.
type Comment struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Author  *User  `json:"author,omitempty"`
	Created Millis `json:"created,omitempty"`
	Updated Millis `json:"updated,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Sprint is an agile board iteration.
type Sprint struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Goal     string `json:"goal,omitempty"`
	Start    Millis `json:"start,omitempty"`
	Finish   Millis `json:"finish,omitempty"`
	Archived bool   `json:"archived"`
	Default  bool   `json:"isDefault,omitempty"`
}

// Board is an agile board.
type Board struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Owner         *User        `json:"owner,omitempty"`
	Projects      []ProjectRef `json:"projects,omitempty"`
	Sprints       []Sprint     `json:"sprints,omitempty"`
	CurrentSprint *Sprint      `json:"currentSprint,omitempty"`
}

// Duration is a tracked time span.
type Duration struct {
	Minutes      int    `json:"minutes"`
	Presentation string `json:"presentation,omitempty"`
}

// Std converts the duration to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.Minutes) * time.Minute
}

// WorkItemType categorizes tracked time.
type WorkItemType struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// WorkItem is a time-tracking entry.
type WorkItem struct {
	ID       string        `json:"id"`
	Issue    *IssueRef     `json:"issue,omitempty"`
	Author   *User         `json:"author,omitempty"`
	Date     Millis        `json:"date"`
	Duration Duration      `json:"duration"`
	Text     string        `json:"text,omitempty"`
	Type     *WorkItemType `json:"type,omitempty"`
}

// ArticleRef is the short form of an article embedded in other entities.
type ArticleRef struct {
	ID         string `json:"id"`
	IDReadable string `json:"idReadable,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// Article is a knowledge base article.
type Article struct {
	ID          string      `json:"id"`
	IDReadable  string      `json:"idReadable,omitempty"`
	Summary     string      `json:"summary"`
	Content     string      `json:"content,omitempty"`
	Project     *ProjectRef `json:"project,omitempty"`
	Parent      *ArticleRef `json:"parentArticle,omitempty"`
	Reporter    *User       `json:"reporter,omitempty"`
	Created     Millis      `json:"created,omitempty"`
	Updated     Millis      `json:"updated,omitempty"`
	HasChildren bool        `json:"hasChildren,omitempty"`
}
