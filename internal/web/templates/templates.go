// Package templates holds the templ components for the upload page and
// error fragments. The components are authored directly against the templ
// runtime; the page is intentionally small since all transformation logic
// lives behind the JSON and CSV endpoints.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Index renders the feed upload page.
func Index() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, indexPage)
		return err
	})
}

// ErrorAlert renders an inline error fragment with the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><strong>%s</strong>`,
			templ.EscapeString(message))
		if err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, `<p>%s</p>`, templ.EscapeString(action)); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, `<span class="alert-code">%s</span></div>`,
			templ.EscapeString(code))
		return err
	})
}

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Green Button to CSV</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 3rem auto; padding: 0 1rem; color: #1a2233; }
h1 { font-size: 1.4rem; }
form { border: 2px dashed #9aa7bd; border-radius: 8px; padding: 2rem; margin: 1.5rem 0; }
button { padding: 0.5rem 1.25rem; border: 0; border-radius: 6px; background: #2f6f4f; color: #fff; cursor: pointer; }
label { display: block; margin: 0.75rem 0; }
.alert-error { border: 1px solid #c0392b; border-radius: 6px; padding: 0.75rem 1rem; color: #c0392b; }
.alert-code { font-size: 0.8rem; opacity: 0.7; }
</style>
</head>
<body>
<h1>Green Button to CSV</h1>
<p>Upload a Green Button (ESPI Atom+XML) energy-usage feed to convert it to a
flat CSV table: one row per interval reading with decoded units and costs.</p>
<form method="post" action="/api/export" enctype="multipart/form-data">
<label>Feed file <input type="file" name="file" accept=".xml,text/xml,application/xml" required></label>
<label><input type="checkbox" name="comments" value="true"> Include feed metadata as # comments</label>
<button type="submit">Convert and download CSV</button>
</form>
<p>Programmatic access: <code>POST /api/parse</code> returns a JSON preview,
validation report, and summary; <code>POST /api/export</code> returns the CSV.</p>
</body>
</html>
`
