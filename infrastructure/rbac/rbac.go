package rbac

import "strings"

const (
	RoleAdmin   = "admin"
	RoleScanner = "scanner"
)

// rule grants one role access to one method+path pattern. Path patterns
// support "*" segments and a trailing "/*" prefix wildcard.
type rule struct {
	method string
	path   string
}

// Scanner users get the scan workflow, lookups and the pages they need to
// do receiving. Everything else is admin-only.
var scannerRules = []rule{
	{method: "GET", path: "/app"},
	{method: "GET", path: "/app/help"},
	{method: "GET", path: "/app/locations"},
	{method: "POST", path: "/api/scan"},
	{method: "POST", path: "/api/quick-receive"},
	{method: "POST", path: "/api/quick-move"},
	{method: "GET", path: "/locations/api/search"},
	{method: "GET", path: "/locations/api/*/contents"},
}

// Allowed reports whether a role may call method+path. Admins may call
// everything; scanners only what scannerRules grants.
func Allowed(role, method, path string) bool {
	if role == RoleAdmin {
		return true
	}
	if role != RoleScanner {
		return false
	}
	method = strings.ToUpper(method)
	for _, r := range scannerRules {
		if r.method != method {
			continue
		}
		if matchPath(r.path, path) {
			return true
		}
	}
	return false
}

func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	pattern = strings.Trim(pattern, "/")
	path = strings.Trim(path, "/")

	patternSeg := strings.Split(pattern, "/")
	pathSeg := strings.Split(path, "/")

	// Segment wildcard matching: /a/*/c and /a/*/*/d.
	if len(patternSeg) == len(pathSeg) {
		for i := range patternSeg {
			if patternSeg[i] == "*" {
				continue
			}
			if patternSeg[i] != pathSeg[i] {
				return false
			}
		}
		return true
	}

	// Prefix wildcard matching: /a/b/* should match any deeper suffix.
	if len(patternSeg) > 0 && patternSeg[len(patternSeg)-1] == "*" {
		prefix := "/" + strings.Join(patternSeg[:len(patternSeg)-1], "/")
		return strings.HasPrefix("/"+path, prefix+"/") || "/"+path == prefix
	}

	return false
}
