package handlers

import (
	"html/template"
	"net/http"
)

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui.css">
</head>
<body style="margin:0">
    <div id="docs"></div>
    <script src="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({ url: "{{.SpecURL}}", dom_id: "#docs", deepLinking: true });
        };
    </script>
</body>
</html>`))

type docsPageData struct {
	Title   string
	Version string
	SpecURL string
}

// APIDocs serves a Swagger UI page for the OpenAPI document at
// /api/docs/openapi.json
func APIDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	docsPage.Execute(w, docsPageData{
		Title:   "Bikeshare Trip Reports API",
		Version: "5.10.0",
		SpecURL: "/api/docs/openapi.json",
	})
}
