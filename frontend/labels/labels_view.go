package labels

import (
	stdhtml "html"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"quickstock/frontend/shared/html"
	"quickstock/frontend/shared/nav"
	"quickstock/models"
)

// LabelsPage renders the item and location label selection forms.
func LabelsPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString(nav.Render(nav.BuildTopNavData(session)))
	b.WriteString(`<main>`)
	b.WriteString(`<h1>Labels</h1>`)
	if data.Message != "" {
		b.WriteString(`<p class="status">` + stdhtml.EscapeString(data.Message) + `</p>`)
	}

	b.WriteString(`<h2>Item labels</h2>`)
	b.WriteString(`<form method="POST" action="/app/labels/items.pdf">`)
	b.WriteString(`<table><thead><tr><th></th><th>SKU</th><th>Name</th><th>Qty/carton</th></tr></thead><tbody>`)
	for _, item := range data.Items {
		b.WriteString(`<tr>`)
		b.WriteString(`<td><input type="checkbox" name="item_id" value="` + strconv.FormatInt(item.ItemID, 10) + `"></td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(item.SKU) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(item.Name) + `</td>`)
		b.WriteString(`<td>` + strconv.FormatInt(item.CartonQty, 10) + `</td>`)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	b.WriteString(`<button type="submit">Print item labels</button>`)
	b.WriteString(`</form>`)

	b.WriteString(`<h2>Location labels</h2>`)
	b.WriteString(`<form method="POST" action="/app/labels/locations.pdf">`)
	b.WriteString(`<label>Whole zone<input type="text" name="zone" placeholder="UP"></label>`)
	b.WriteString(`<table><thead><tr><th></th><th>Code</th><th>Name</th><th>Zone</th></tr></thead><tbody>`)
	for _, loc := range data.Locations {
		b.WriteString(`<tr>`)
		b.WriteString(`<td><input type="checkbox" name="location_id" value="` + strconv.FormatInt(loc.LocationID, 10) + `"></td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(loc.Code) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(loc.Name) + `</td>`)
		b.WriteString(`<td>` + stdhtml.EscapeString(loc.Zone) + `</td>`)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	b.WriteString(`<button type="submit">Print location labels</button>`)
	b.WriteString(`</form>`)

	b.WriteString(`</main>`)
	b.WriteString(html.CSRFFormScript())
	return html.Page("Labels", b.String())
}
