package rbac

import "testing"

func TestMatchPathWildcardSegments(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		ok      bool
	}{
		{pattern: "/locations/api/*/contents", path: "/locations/api/7/contents", ok: true},
		{pattern: "/app/labels/*", path: "/app/labels/items.pdf", ok: true},
		{pattern: "/app/exports/*", path: "/app/exports/movements.csv", ok: true},
		{pattern: "/app/admin/users", path: "/app/admin/users", ok: true},
		{pattern: "/app/admin/users", path: "/app/admin/users/1", ok: false},
		{pattern: "/locations/api/*/contents", path: "/locations/api/7/delete", ok: false},
	}

	for _, tc := range cases {
		if got := matchPath(tc.pattern, tc.path); got != tc.ok {
			t.Fatalf("pattern=%s path=%s expected=%v got=%v", tc.pattern, tc.path, tc.ok, got)
		}
	}
}

func TestAllowedByRole(t *testing.T) {
	cases := []struct {
		role   string
		method string
		path   string
		ok     bool
	}{
		{role: RoleAdmin, method: "GET", path: "/app/admin/users", ok: true},
		{role: RoleAdmin, method: "POST", path: "/api/quick-receive", ok: true},
		{role: RoleScanner, method: "POST", path: "/api/scan", ok: true},
		{role: RoleScanner, method: "POST", path: "/api/quick-receive", ok: true},
		{role: RoleScanner, method: "GET", path: "/locations/api/12/contents", ok: true},
		{role: RoleScanner, method: "GET", path: "/app/admin/users", ok: false},
		{role: RoleScanner, method: "POST", path: "/app/items/import", ok: false},
		{role: "", method: "GET", path: "/app", ok: false},
	}

	for _, tc := range cases {
		if got := Allowed(tc.role, tc.method, tc.path); got != tc.ok {
			t.Fatalf("role=%s %s %s expected=%v got=%v", tc.role, tc.method, tc.path, tc.ok, got)
		}
	}
}
