package adminusers

import (
	stdhtml "html"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"quickstock/frontend/shared/html"
	"quickstock/frontend/shared/nav"
	"quickstock/models"
)

// UsersListPage renders the account list and the create-user form.
func UsersListPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString(nav.Render(nav.BuildTopNavData(session)))
	b.WriteString(`<main>`)
	b.WriteString(`<h1>Users</h1>`)
	if data.Message != "" {
		b.WriteString(`<p class="status">` + stdhtml.EscapeString(data.Message) + `</p>`)
	}
	if data.Error != "" {
		b.WriteString(`<p class="error">` + stdhtml.EscapeString(data.Error) + `</p>`)
	}

	b.WriteString(`<table><thead><tr><th>ID</th><th>Username</th><th>Role</th></tr></thead><tbody>`)
	for _, user := range data.Users {
		b.WriteString(`<tr>`)
		b.WriteString(`<td>` + strconv.FormatInt(user.ID, 10) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(user.Username) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(user.Role) + `</td>`)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(`<h2>Create user</h2>`)
	b.WriteString(`<form method="post" action="/app/admin/users">`)
	b.WriteString(`<label>Username <input type="text" name="username" required></label>`)
	b.WriteString(`<label>Password <input type="password" name="password" required></label>`)
	b.WriteString(`<label>Role <select name="role">`)
	b.WriteString(`<option value="scanner">Scanner</option>`)
	b.WriteString(`<option value="admin">Admin</option>`)
	b.WriteString(`</select></label>`)
	b.WriteString(`<button type="submit">Create</button>`)
	b.WriteString(`</form>`)
	b.WriteString(html.CSRFFormScript())

	b.WriteString(`</main>`)
	return html.Page("Users", b.String())
}
