package choropleth

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

type page struct {
	Title string
	Data  template.JS
}

// Render writes doc as a self-contained HTML page. The document is embedded
// as JSON; encoding/json escapes <, > and & so it cannot close the script
// element.
func Render(w io.Writer, doc *Document) error {
	if doc == nil {
		return eris.New("choropleth: nil document")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return eris.Wrap(err, "choropleth: encode document")
	}
	if err := pageTemplate.Execute(w, page{Title: doc.Title, Data: template.JS(data)}); err != nil { //nolint:gosec // data is encoding/json output
		return eris.Wrap(err, "choropleth: render page")
	}
	return nil
}

// WriteFile renders doc to path, creating parent directories and replacing
// any existing file.
func WriteFile(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "choropleth: create output dir %s", dir)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "choropleth: write %s", path)
	}
	zap.L().Info("map written",
		zap.String("component", "choropleth.writer"),
		zap.String("path", path),
		zap.Int("bytes", buf.Len()),
	)
	return nil
}
