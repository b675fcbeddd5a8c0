package api

import (
	"bytes"
	"html/template"
	"net/http"

	"tailscale.com/tsweb"

	"github.com/banshee-data/motion.report/internal/httputil"
)

var sessionsTemplate = template.Must(template.New("sessions").Parse(`<!doctype html>
<html>
<head><title>Analysis sessions</title></head>
<body>
<h1>Analysis sessions ({{len .}})</h1>
<table>
<tr><th>ID</th><th>Mode</th><th>Started</th><th>Frames</th><th>Failed</th><th>Mean speed</th><th>Peak jump</th><th>Risk</th></tr>
{{range .}}<tr>
<td><a href="/api/analysis/{{.ID}}/chart">{{.ID}}</a></td>
<td>{{.Mode}}</td>
<td>{{.StartedAt.Format "2006-01-02 15:04:05"}}</td>
<td>{{len .Results}}</td>
<td>{{.Failed}}</td>
<td>{{printf "%.2f" .Summary.MeanSpeed}}</td>
<td>{{printf "%.1f" .Summary.PeakJumpHeight}}</td>
<td>{{.Summary.Risk}}</td>
</tr>{{end}}
</table>
</body>
</html>
`))

// AttachAdminRoutes registers debug pages under /debug/ on mux.
func (s *Server) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	debug.HandleFunc("sessions", "in-memory analysis sessions", func(w http.ResponseWriter, r *http.Request) {
		buf := bytes.NewBuffer(nil)
		if err := sessionsTemplate.Execute(buf, s.sessions.list()); err != nil {
			http.Error(w, "Failed to render template", http.StatusInternalServerError)
			return
		}
		httputil.WriteHTML(w, buf.Bytes())
	})

	debug.HandleSilentFunc("sessions-json", func(w http.ResponseWriter, r *http.Request) {
		s.listAnalyses(w, r)
	})
}
