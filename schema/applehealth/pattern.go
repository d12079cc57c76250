package applehealth

import (
	"path"
	"regexp"
	"strings"
)

// Pattern selects archive entries by parent directory and file name.
type Pattern struct {
	Name     string
	Location string
	Regexp   *regexp.Regexp
}

var (
	ExportPattern = Pattern{Name: "export", Regexp: regexp.MustCompile(`^export\.xml$`)}
	RoutePattern  = Pattern{Name: "routes", Location: "workout-routes", Regexp: regexp.MustCompile(`\.gpx$`)}
)

// Match reports whether the slash separated archive entry path is selected.
func (p *Pattern) Match(entry string) bool {
	entry = strings.TrimPrefix(path.Clean("/"+entry), "/")
	dir, name := path.Split(entry)
	if p.Location != "" && path.Base(strings.TrimSuffix(dir, "/")) != p.Location {
		return false
	}
	return p.Regexp.MatchString(name)
}

// RouteName is the table name of a route file: its base name without extension.
// Both archive entries and workout file references resolve to the same name.
func RouteName(ref string) string {
	base := path.Base(strings.ReplaceAll(ref, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
