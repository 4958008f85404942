package web

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/gencsv/internal/core"
	"github.com/JonMunkholm/gencsv/internal/table"
	"github.com/a-h/templ"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}
table{border-collapse:collapse;font-size:.875rem}
th,td{border:1px solid #d1d5db;padding:.25rem .5rem;text-align:left}
th{background:#f3f4f6}
td.num{text-align:right;font-variant-numeric:tabular-nums}
.alert{border:1px solid #fca5a5;background:#fef2f2;padding:1rem;border-radius:.25rem}
.meta{color:#6b7280}`

// PreviewPage renders a generated table as a standalone HTML page.
func PreviewPage(schemaText string, t *table.Table) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!doctype html><html><head><meta charset=\"utf-8\"><title>gencsv preview</title><style>")
		b.WriteString(pageStyle)
		b.WriteString("</style></head><body><h1>Preview</h1>")

		b.WriteString(`<p class="meta">`)
		if schemaText == "" {
			b.WriteString("default schema")
		} else {
			b.WriteString("<code>")
			b.WriteString(templ.EscapeString(schemaText))
			b.WriteString("</code>")
		}
		b.WriteString(" &middot; ")
		b.WriteString(strconv.Itoa(t.Height()))
		b.WriteString(" rows</p>")

		writeTable(&b, t)
		b.WriteString("</body></html>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeTable(b *strings.Builder, t *table.Table) {
	kinds := t.Kinds()

	b.WriteString("<table><thead><tr>")
	for i, name := range t.Names() {
		b.WriteString(`<th title="`)
		b.WriteString(kinds[i].String())
		b.WriteString(`">`)
		b.WriteString(templ.EscapeString(name))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")

	for r := 0; r < t.Height(); r++ {
		b.WriteString("<tr>")
		for c := range kinds {
			if kinds[c] == table.KindString {
				b.WriteString("<td>")
			} else {
				b.WriteString(`<td class="num">`)
			}
			b.WriteString(templ.EscapeString(table.FormatValue(t.Value(r, c))))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
}

// ErrorAlert renders a user-facing error fragment.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert" role="alert"><strong>`)
		b.WriteString(templ.EscapeString(msg.Message))
		b.WriteString("</strong>")
		if msg.Action != "" {
			b.WriteString("<p>")
			b.WriteString(templ.EscapeString(msg.Action))
			b.WriteString("</p>")
		}
		b.WriteString(`<p class="meta">Code: `)
		b.WriteString(templ.EscapeString(msg.Code))
		b.WriteString("</p></div>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}
