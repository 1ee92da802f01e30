package server

import (
	"html/template"
	"net/http"
	"time"

	"macromood/internal/render"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Economic Numbers Mood</title>
<style>
body { font-family: sans-serif; margin: 0; background: #111; color: #eee; }
header { padding: 12px 24px; }
form { padding: 0 24px 12px; }
select { margin-right: 16px; padding: 4px; }
.figures { padding: 0 24px 12px; color: #bbb; }
img { display: block; margin: 0 24px; max-width: calc(100% - 48px); }
.empty { padding: 24px; }
</style>
</head>
<body>
<header><h2>{{.Title}}{{if .Date}} - {{.Date}}{{end}}</h2></header>
<form method="get" action="/">
<select name="title" onchange="this.form.submit()">
{{range .Titles}}<option value="{{.}}"{{if eq . $.Title}} selected{{end}}>{{.}}</option>
{{end}}</select>
<select name="id" onchange="this.form.submit()">
{{range .Occurrences}}<option value="{{.ID}}"{{if eq .ID $.SelectedID}} selected{{end}}>{{.Date}}</option>
{{end}}</select>
<noscript><button type="submit">Show</button></noscript>
</form>
{{if .SelectedID}}
<div class="figures">Actual: {{.Actual}} | Forecast: {{.Forecast}} | Previous: {{.Previous}}</div>
<img src="/chart.png?id={{.SelectedID}}" alt="candlestick chart">
{{else}}
<div class="empty">No occurrences for this event.</div>
{{end}}
</body>
</html>
`))

type indexData struct {
	Title       string
	Date        string
	Titles      []string
	Occurrences []occurrenceDTO
	SelectedID  string
	Actual      string
	Forecast    string
	Previous    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	titles := s.session.ListEventTitles()
	if len(titles) == 0 {
		http.Error(w, "calendar table is empty", http.StatusServiceUnavailable)
		return
	}

	title := r.URL.Query().Get("title")
	if !containsString(titles, title) {
		title = titles[0]
	}

	refs := s.session.ListOccurrences(title)
	dtos := make([]occurrenceDTO, len(refs))
	for i, ref := range refs {
		dtos[i] = occurrenceDTO{
			ID:        ref.ID,
			Timestamp: ref.Timestamp.Format(time.RFC3339),
			Date:      ref.Timestamp.UTC().Format("2006-01-02"),
		}
	}

	data := indexData{
		Title:       title,
		Titles:      titles,
		Occurrences: dtos,
	}

	// A title switch carries the previous occurrence id; fall back to the
	// most recent occurrence of the newly chosen title.
	selected := r.URL.Query().Get("id")
	occ, err := s.session.SelectOccurrence(selected)
	if err != nil || occ.Title != title {
		if len(refs) > 0 {
			occ, err = s.session.SelectOccurrence(refs[0].ID)
		}
	}
	if err == nil && occ.Title == title {
		data.SelectedID = occ.ID
		data.Date = occ.Timestamp.UTC().Format("2006-01-02")
		data.Actual = render.FormatValue(occ.Actual, occ.Unit)
		data.Forecast = render.FormatValue(occ.Forecast, occ.Unit)
		data.Previous = render.FormatValue(occ.Previous, occ.Unit)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("index template render failed")
	}
}

func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
