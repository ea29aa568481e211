package home

import (
	stdhtml "html"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"quickstock/frontend/shared/html"
	"quickstock/frontend/shared/nav"
	"quickstock/models"
)

// HomePage renders the receiving dashboard.
func HomePage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString(nav.Render(nav.BuildTopNavData(session)))
	b.WriteString(`<main>`)
	b.WriteString(`<h1>Receiving</h1>`)
	b.WriteString(`<p>Use a scan station to receive stock: scan a location, scan an item, confirm the quantity.</p>`)

	b.WriteString(`<h2>Recent activity</h2>`)
	if len(data.Movements) == 0 {
		b.WriteString(`<p>No stock movements yet.</p>`)
	} else {
		b.WriteString(`<table><thead><tr><th>When</th><th>Type</th><th>SKU</th><th>Item</th><th>Qty</th><th>From</th><th>To</th><th>User</th></tr></thead><tbody>`)
		for _, m := range data.Movements {
			b.WriteString(`<tr>`)
			b.WriteString(`<td>` + stdhtml.EscapeString(m.CreatedAt) + `</td>`)
			b.WriteString(`<td>` + stdhtml.EscapeString(m.MovementType) + `</td>`)
			b.WriteString(`<td>` + stdhtml.EscapeString(m.SKU) + `</td>`)
			b.WriteString(`<td>` + stdhtml.EscapeString(m.ItemName) + `</td>`)
			b.WriteString(`<td>` + strconv.FormatInt(m.Quantity, 10) + `</td>`)
			b.WriteString(`<td>` + stdhtml.EscapeString(m.FromLocation) + `</td>`)
			b.WriteString(`<td>` + stdhtml.EscapeString(m.ToLocation) + `</td>`)
			b.WriteString(`<td>` + stdhtml.EscapeString(m.Username) + `</td>`)
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)
	}

	b.WriteString(`</main>`)
	return html.Page("Receiving", b.String())
}
