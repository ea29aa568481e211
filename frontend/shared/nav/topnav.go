package nav

import (
	stdhtml "html"
	"strings"

	"quickstock/infrastructure/rbac"
	"quickstock/models"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username string
	Role     string
}

func BuildTopNavData(session models.Session) TopNavData {
	return TopNavData{Username: session.User.Username, Role: session.User.Role}
}

type link struct {
	href      string
	label     string
	adminOnly bool
}

var links = []link{
	{href: "/app", label: "Receive"},
	{href: "/app/locations", label: "Locations"},
	{href: "/app/items/import", label: "Items", adminOnly: true},
	{href: "/app/labels", label: "Labels", adminOnly: true},
	{href: "/app/exports", label: "Exports", adminOnly: true},
	{href: "/app/admin/users", label: "Users", adminOnly: true},
	{href: "/app/help", label: "Help"},
}

// Render returns the top navigation bar markup for a page.
func Render(data TopNavData) string {
	var b strings.Builder
	b.WriteString(`<nav class="topnav">`)
	for _, l := range links {
		if l.adminOnly && data.Role != rbac.RoleAdmin {
			continue
		}
		b.WriteString(`<a href="` + l.href + `">` + l.label + `</a>`)
	}
	b.WriteString(`<span class="who">` + stdhtml.EscapeString(data.Username) + ` (` + stdhtml.EscapeString(data.Role) + `)</span>`)
	b.WriteString(`<form method="POST" action="/logout"><button type="submit">Logout</button></form>`)
	b.WriteString(`</nav>`)
	return b.String()
}
