package youtrack

// Field selectors sent as the fields parameter. YouTrack returns only the
// attributes listed, so every model field must appear here to be populated.
const (
	userFields      = "id,login,fullName,email,banned,guest"
	userRefFields   = "id,login,fullName"
	projectRefField = "id,shortName,name"

	issueFields = "id,idReadable,summary,description,created,updated,resolved," +
		"project(" + projectRefField + ")," +
		"reporter(" + userRefFields + ")," +
		"customFields(id,name,$type,value(id,name,login,fullName,minutes,presentation,text))"

	commentFields = "id,text,created,updated,deleted,author(" + userRefFields + ")"

	projectFields = "id,shortName,name,description,archived,leader(" + userRefFields + ")"

	projectCustomFieldFields = "id,$type,canBeEmpty,emptyFieldText,isPublic," +
		"field(id,name,isAutoAttached,aliases,fieldType(id))"

	customFieldFields = "id,name,isAutoAttached,aliases,fieldType(id)"

	sprintFields = "id,name,goal,start,finish,archived,isDefault"

	boardFields = "id,name,owner(" + userRefFields + ")," +
		"projects(" + projectRefField + ")," +
		"sprints(" + sprintFields + ")," +
		"currentSprint(" + sprintFields + ")"

	workItemFields = "id,date,text,issue(id,idReadable,summary)," +
		"author(" + userRefFields + ")," +
		"duration(minutes,presentation),type(id,name)"

	articleFields = "id,idReadable,summary,content,created,updated,hasChildren," +
		"project(" + projectRefField + ")," +
		"parentArticle(id,idReadable,summary)," +
		"reporter(" + userRefFields + ")"

	healthFields = "version,build"
)
