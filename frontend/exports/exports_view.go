package exports

import (
	stdhtml "html"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"quickstock/frontend/shared/html"
	"quickstock/frontend/shared/nav"
	"quickstock/models"
)

// ExportsPage renders the export links and recent run history.
func ExportsPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString(nav.Render(nav.BuildTopNavData(session)))
	b.WriteString(`<main>`)
	b.WriteString(`<h1>Exports</h1>`)
	if data.Message != "" {
		b.WriteString(`<p class="status">` + stdhtml.EscapeString(data.Message) + `</p>`)
	}

	b.WriteString(`<ul>`)
	b.WriteString(`<li><a href="/app/exports/movements.csv">Stock movements (CSV)</a></li>`)
	b.WriteString(`<li><a href="/app/exports/stock.csv">Current stock by location (CSV)</a></li>`)
	b.WriteString(`</ul>`)

	b.WriteString(`<h2>Recent exports</h2>`)
	b.WriteString(`<table><thead><tr><th>Type</th><th>User</th><th>Rows</th><th>When</th></tr></thead><tbody>`)
	for _, run := range data.Runs {
		b.WriteString(`<tr>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(run.ExportType) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(run.Username) + `</td>`)
		b.WriteString(`<td>` + strconv.FormatInt(run.RowCount, 10) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(run.CreatedAt) + `</td>`)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(`</main>`)
	return html.Page("Exports", b.String())
}
