package items

import (
	stdhtml "html"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"quickstock/frontend/shared/html"
	"quickstock/frontend/shared/nav"
	"quickstock/models"
)

// ImportPage renders the item master with the CSV upload form.
func ImportPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString(nav.Render(nav.BuildTopNavData(session)))
	b.WriteString(`<main>`)
	b.WriteString(`<h1>Items</h1>`)
	if data.Message != "" {
		b.WriteString(`<p class="status">` + stdhtml.EscapeString(data.Message) + `</p>`)
	}

	b.WriteString(`<form method="POST" action="/app/items/import" enctype="multipart/form-data">`)
	b.WriteString(`<label>CSV file<input type="file" name="file" accept=".csv" required></label>`)
	b.WriteString(`<button type="submit">Import</button>`)
	b.WriteString(`</form>`)

	b.WriteString(`<form method="POST" action="/app/items/deactivate">`)
	b.WriteString(`<table><thead><tr><th></th><th>SKU</th><th>Name</th><th>Barcode</th><th>Unit</th><th>Carton qty</th><th>Updated</th></tr></thead><tbody>`)
	for _, row := range data.Items {
		b.WriteString(`<tr>`)
		b.WriteString(`<td><input type="checkbox" name="item_id" value="` + strconv.FormatInt(row.ID, 10) + `"></td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.SKU) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.Name) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.Barcode) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.Unit) + `</td>`)
		b.WriteString(`<td>` + strconv.FormatInt(row.CartonQty, 10) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(row.UpdatedAt) + `</td>`)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	b.WriteString(`<button type="submit">Deactivate selected</button>`)
	b.WriteString(`</form>`)

	b.WriteString(`</main>`)
	b.WriteString(html.CSRFFormScript())
	return html.Page("Items", b.String())
}
