package vega

import (
	"fmt"
	"html/template"
	"io"
	"os"
)

// htmlPage is the companion page template. It fetches the spec JSON next to
// the page and hands it to vega-embed, which owns all pixel rendering.
var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <script src="https://cdn.jsdelivr.net/npm/vega@5"></script>
  <script src="https://cdn.jsdelivr.net/npm/vega-embed@6"></script>
</head>
<body>
  <div id="view"></div>
  <script>
    vegaEmbed("#view", {{.SpecURL}}, {actions: false}).catch(console.error);
  </script>
</body>
</html>
`))

// htmlData is the template payload for the companion page.
type htmlData struct {
	Title   string
	SpecURL string
}

// WriteHTML writes the companion HTML page to w. specURL is the location the
// page fetches the spec JSON from, relative to the page itself.
func WriteHTML(w io.Writer, title, specURL string) error {
	if title == "" {
		title = "vegaexport"
	}
	if err := htmlPage.Execute(w, htmlData{Title: title, SpecURL: specURL}); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// WriteHTMLFile writes the companion HTML page to path.
func WriteHTMLFile(path, title, specURL string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteHTML(f, title, specURL)
}
