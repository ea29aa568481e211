package locations

import (
	stdhtml "html"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"quickstock/frontend/shared/html"
	"quickstock/frontend/shared/nav"
	"quickstock/infrastructure/rbac"
	"quickstock/models"
)

// ListPage renders the locations list with the create and bulk-create forms.
func ListPage(session models.Session, data PageData) templ.Component {
	navData := nav.BuildTopNavData(session)
	isAdmin := session.User.Role == rbac.RoleAdmin

	var b strings.Builder
	b.WriteString(nav.Render(navData))
	b.WriteString(`<main>`)
	b.WriteString(`<h1>Locations</h1>`)
	if data.Message != "" {
		b.WriteString(`<p class="status">` + stdhtml.EscapeString(data.Message) + `</p>`)
	}

	b.WriteString(`<p>`)
	b.WriteString(`<a href="/app/locations">All</a>`)
	for _, zone := range data.Zones {
		b.WriteString(` <a href="/app/locations?zone=` + stdhtml.EscapeString(zone) + `">` + stdhtml.EscapeString(zone) + `</a>`)
	}
	b.WriteString(`</p>`)

	b.WriteString(`<table><thead><tr><th>Code</th><th>Name</th><th>Zone</th><th>Type</th><th>Items</th></tr></thead><tbody>`)
	for _, row := range data.Locations {
		b.WriteString(`<tr>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.Code) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.Name) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.Zone) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.Type) + `</td>`)
		b.WriteString(`<td>` + strconv.FormatInt(row.ItemCount, 10) + `</td>`)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)

	if isAdmin {
		b.WriteString(`<h2>New location</h2>`)
		b.WriteString(`<form method="POST" action="/app/locations">`)
		b.WriteString(`<label>Code<input type="text" name="code" required></label>`)
		b.WriteString(`<label>Name<input type="text" name="name" required></label>`)
		b.WriteString(`<label>Zone<input type="text" name="zone"></label>`)
		b.WriteString(`<label>Type<select name="location_type"><option value="rack">rack</option><option value="floor">floor</option><option value="bin">bin</option></select></label>`)
		b.WriteString(`<button type="submit">Create</button>`)
		b.WriteString(`</form>`)

		b.WriteString(`<h2>Bulk create racking</h2>`)
		b.WriteString(`<form method="POST" action="/app/locations/bulk">`)
		b.WriteString(`<label>Zone<input type="text" name="zone" required></label>`)
		b.WriteString(`<label>Rows<input type="number" name="rows" value="1" min="1"></label>`)
		b.WriteString(`<label>Bays<input type="number" name="bays" value="1" min="1"></label>`)
		b.WriteString(`<label>Shelves<input type="number" name="shelves" value="1" min="1"></label>`)
		b.WriteString(`<button type="submit">Create grid</button>`)
		b.WriteString(`</form>`)
	}

	b.WriteString(`</main>`)
	b.WriteString(html.CSRFFormScript())
	return html.Page("Locations", b.String())
}
