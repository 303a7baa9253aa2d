package inventory

// ProjectsKey identifies the singleton projects collection in the
// cache.
const ProjectsKey = "projects"

// FlagsKey returns the cache key for one project's flag collection.
// The project id is embedded verbatim; keys compare by exact string
// equality, so distinct ids never share an entry.
func FlagsKey(projectID string) string {
	return "flags:" + projectID
}
