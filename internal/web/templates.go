package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/jaminalder/tic-tac-based/internal/app"
	"github.com/jaminalder/tic-tac-based/internal/domain"
	"github.com/jaminalder/tic-tac-based/internal/view"
)

type templates struct {
	page *template.Template
	app  *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"join":  strings.Join,
		"lower": strings.ToLower,
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(baseTemplate))
	// Define the app fragment within the same set so the page can include it
	template.Must(base.New("app").Parse(appTemplate))
	page := template.Must(template.Must(base.Clone()).New("content").Parse(pageTemplate))
	// Standalone fragment used for htmx swaps and SSE pushes
	fragment := template.Must(template.New("app_only").Funcs(funcs()).Parse(appTemplate))
	return &templates{page: page, app: fragment}
}

func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type cellData struct {
	Index    int
	Label    string
	Class    string
	Playable bool
}

type appData struct {
	ID           string
	Status       string
	Badges       []view.Badge
	Cells        []cellData
	ShowControls bool
	Mobile       bool
	Hints        []string
	TouchHint    string
}

type pageData struct {
	App          appData
	Title        string
	Subtitle     string
	About        []aboutRow
	Tagline      string
	KeyboardHint string
}

type aboutRow struct {
	Mark  string
	Class string
	Text  string
}

func newAppData(s app.Session) appData {
	cells := make([]cellData, len(s.Game.Board))
	for i, c := range s.Game.Board {
		cells[i] = cellData{
			Index:    i,
			Label:    view.CellLabel(c),
			Class:    cellClass(c),
			Playable: view.Playable(s.Game, i),
		}
	}
	mobile := s.Chrome.Mobile()
	return appData{
		ID:           s.ID,
		Status:       view.StatusMessage(s.Game),
		Badges:       view.Badges(s.Game.Stats),
		Cells:        cells,
		ShowControls: s.Chrome.ShowControls,
		Mobile:       mobile,
		Hints:        view.ControlsHint(mobile),
		TouchHint:    view.TouchHint,
	}
}

func newPageData(s app.Session) pageData {
	return pageData{
		App:      newAppData(s),
		Title:    view.Title,
		Subtitle: view.Subtitle,
		About: []aboutRow{
			{Mark: "B", Class: "b", Text: view.PlayerBlurb(domain.B)},
			{Mark: "E", Class: "e", Text: view.PlayerBlurb(domain.E)},
		},
		Tagline:      view.Tagline,
		KeyboardHint: view.KeyboardHint,
	}
}

func cellClass(c domain.Cell) string {
	switch c {
	case domain.B:
		return "cell b"
	case domain.E:
		return "cell e"
	default:
		return "cell"
	}
}

const baseTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Tic Tac Based</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
body{margin:0;min-height:100vh;font-family:system-ui,sans-serif;color:#fff;background:linear-gradient(135deg,#111827,#1e3a8a,#581c87)}
main{max-width:28rem;margin:0 auto;padding:3rem 1rem 2rem}
.card{background:rgba(31,41,55,.5);border:1px solid #374151;border-radius:.75rem;padding:1rem;margin-bottom:1.5rem}
.status{text-align:center;font-size:1.125rem;font-weight:600}
.badges{display:flex;justify-content:center;gap:1rem;margin-top:.5rem;font-size:.875rem}
.badge{border:1px solid;border-radius:9999px;padding:0 .5rem}
.badge.b{color:#60a5fa}.badge.e{color:#c084fc}.badge.ties{color:#9ca3af}
.board{display:grid;grid-template-columns:repeat(3,1fr);gap:.75rem;max-width:20rem;margin:0 auto}
.cell{aspect-ratio:1;font-size:1.875rem;font-weight:700;background:#374151;border:2px solid #4b5563;border-radius:.5rem;color:#9ca3af}
.cell:disabled{cursor:not-allowed}.cell.b{color:#60a5fa}.cell.e{color:#c084fc}
.actions{display:flex;justify-content:center;gap:.75rem;margin-bottom:1.5rem}
.actions button{background:#374151;border:1px solid #4b5563;color:#fff;border-radius:.375rem;padding:.5rem 1rem}
.overlay{position:absolute;top:2rem;left:50%;transform:translateX(-50%);z-index:10;font-size:.75rem;color:#d1d5db}
.mobile .overlay,.mobile .show-controls{top:1rem;left:1rem;transform:none}
.show-controls{position:absolute;top:2rem;left:2rem;z-index:10;background:rgba(31,41,55,.5);color:#9ca3af;border:0}
.about .mark{display:inline-block;width:1.5rem;text-align:center;border-radius:.25rem;font-weight:700}
.about .mark.b{background:#60a5fa}.about .mark.e{background:#c084fc}
.sr-only{position:absolute;width:1px;height:1px;overflow:hidden;clip:rect(0,0,0,0)}
</style>
</head><body>{{template "content" .}}</body></html>`

const pageTemplate = `
<main>
  <div hx-post="/s/{{.App.ID}}/viewport" hx-trigger="load, resize from:window delay:250ms" hx-vals='js:{width: window.innerWidth}' hx-target="#app" hx-swap="outerHTML"></div>
  <header style="text-align:center">
    <h1>{{.Title}}</h1>
    <p>{{.Subtitle}}</p>
  </header>
  <div hx-ext="sse" hx-sse="connect:/s/{{.App.ID}}/events">
    <div id="shell" hx-sse="swap:app">{{template "app" .App}}</div>
  </div>
  <section class="card about">
    <h2 style="text-align:center">About {{.Title}}</h2>
    {{range .About}}<p><span class="mark {{.Class}}">{{.Mark}}</span> {{.Text}}</p>{{end}}
    <p style="text-align:center">{{.Tagline}}</p>
  </section>
  <div class="sr-only">{{.KeyboardHint}}</div>
</main>`

const appTemplate = `<div id="app"{{if .Mobile}} class="mobile"{{end}}>
  {{if .ShowControls}}
  <div class="card overlay">
    <strong>Controls:</strong> {{join .Hints " • "}}
    <button hx-post="/s/{{.ID}}/controls/toggle" hx-target="#app" hx-swap="outerHTML">×</button>
  </div>
  {{else}}
  <button class="show-controls" hx-post="/s/{{.ID}}/controls/toggle" hx-target="#app" hx-swap="outerHTML">?</button>
  {{end}}
  <div class="card">
    <div class="status">{{.Status}}</div>
    <div class="badges">
      {{range .Badges}}<span class="badge {{lower .Label}}">{{.Label}}: {{.Value}}</span>{{end}}
    </div>
  </div>
  <div class="card">
    <div class="board">
      {{range .Cells}}
      <button class="{{.Class}}" hx-post="/s/{{$.ID}}/cells/{{.Index}}" hx-target="#app" hx-swap="outerHTML"{{if not .Playable}} disabled{{end}}>{{.Label}}</button>
      {{end}}
    </div>
  </div>
  <div class="actions">
    <button hx-post="/s/{{.ID}}/new" hx-trigger="click, keyup[key=='r'||key=='R'] from:body" hx-target="#app" hx-swap="outerHTML">New Game</button>
    <button hx-post="/s/{{.ID}}/stats/reset" hx-target="#app" hx-swap="outerHTML">Reset Stats</button>
  </div>
  {{if .Mobile}}<div class="card" style="text-align:center">{{.TouchHint}}</div>{{end}}
</div>`
