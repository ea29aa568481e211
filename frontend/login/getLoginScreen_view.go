package login

import (
	stdhtml "html"
	"strings"

	"github.com/a-h/templ"

	"quickstock/frontend/shared/html"
)

// GetLoginScreen renders the login form.
func GetLoginScreen(errorMessage string) templ.Component {
	var b strings.Builder
	b.WriteString(`<main class="login">`)
	b.WriteString(`<h1>Quick Stock</h1>`)
	if errorMessage != "" {
		b.WriteString(`<p class="error">` + stdhtml.EscapeString(errorMessage) + `</p>`)
	}
	b.WriteString(`<form method="POST" action="/login">`)
	b.WriteString(`<label>Username<input type="text" name="username" autocomplete="username" autofocus></label>`)
	b.WriteString(`<label>Password<input type="password" name="password" autocomplete="current-password"></label>`)
	b.WriteString(`<button type="submit">Sign in</button>`)
	b.WriteString(`</form>`)
	b.WriteString(`</main>`)
	b.WriteString(html.CSRFFormScript())
	return html.Page("Sign in", b.String())
}
