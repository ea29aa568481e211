package help

import (
	"strings"

	"github.com/a-h/templ"

	"quickstock/frontend/shared/html"
	"quickstock/frontend/shared/nav"
	"quickstock/models"
)

// PageData backs the help page view.
type PageData struct {
	IsAdmin bool
}

// HelpPage renders the quick-start guide for the scan workflow.
func HelpPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString(nav.Render(nav.BuildTopNavData(session)))
	b.WriteString(`<main>`)
	b.WriteString(`<h1>Help</h1>`)

	b.WriteString(`<h2>Receiving stock</h2>`)
	b.WriteString(`<ol>`)
	b.WriteString(`<li>Scan the location label on the rack you are standing at.</li>`)
	b.WriteString(`<li>Scan the item barcode or the QR label on the carton.</li>`)
	b.WriteString(`<li>Check the suggested quantity, adjust the multiplier for multiple cartons, then confirm.</li>`)
	b.WriteString(`</ol>`)
	b.WriteString(`<p>The location stays selected between items. Scan a different location label at any time to switch racks.</p>`)
	b.WriteString(`<p>Scanning the same code twice within a few seconds is ignored, so a slow trigger release will not double-count.</p>`)

	b.WriteString(`<h2>Scanner problems</h2>`)
	b.WriteString(`<ul>`)
	b.WriteString(`<li>If the camera will not start, close other apps that use it and try again.</li>`)
	b.WriteString(`<li>If a barcode is not recognised, the item may be inactive or not imported yet.</li>`)
	b.WriteString(`<li>A keyboard-wedge scanner works anywhere a camera does not.</li>`)
	b.WriteString(`</ul>`)

	if data.IsAdmin {
		b.WriteString(`<h2>Administration</h2>`)
		b.WriteString(`<ul>`)
		b.WriteString(`<li>Import items from CSV under Items.</li>`)
		b.WriteString(`<li>Print item and location labels under Labels.</li>`)
		b.WriteString(`<li>Download movement and stock CSVs under Exports.</li>`)
		b.WriteString(`</ul>`)
	}

	b.WriteString(`</main>`)
	return html.Page("Help", b.String())
}
