package web

import (
    "bytes"
    "html/template"

    "github.com/jaminalder/hotseat-tic-tac-toe/internal/app"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        // rows splits the nine cells into three rows of three
        "rows": func(cells [9]app.CellView) [][]app.CellView {
            out := make([][]app.CellView, 0, 3)
            for r := 0; r < 3; r++ {
                out = append(out, cells[r*3:r*3+3])
            }
            return out
        },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.row form button{width:3em;height:3em;font-size:1.5em}
.win{background:#ffe08a}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1><form action="/game" method="post"><button>New session</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Tic-Tac-Toe</h1>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board-container" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `<div id="board">
  <p class="status">{{.View.StatusText}}</p>
  <p class="scores">X: {{.View.Scores.X}} &middot; O: {{.View.Scores.O}} &middot; Draws: {{.View.Scores.Draws}}</p>
  {{$id := .ID}}
  {{range rows .View.Cells}}
  <div class="row">
    {{range .}}
      <form hx-post="/game/{{$id}}/select" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{$id}}/select">
        <input type="hidden" name="cell" value="{{.Index}}">
        <button type="submit" aria-label="cell {{.Index}}"{{if .Winning}} class="win"{{end}}{{if .Disabled}} disabled{{end}}>{{.Text}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <div class="controls">
    <button hx-post="/game/{{$id}}/undo" hx-target="#board" hx-swap="outerHTML"{{if not .View.CanUndo}} disabled{{end}}>Undo</button>
    <button hx-post="/game/{{$id}}/new" hx-target="#board" hx-swap="outerHTML">New game</button>
    <button hx-post="/game/{{$id}}/reset-scores" hx-target="#board" hx-swap="outerHTML">Reset scores</button>
  </div>
</div>
`

// boardData is what the board template renders.
type boardData struct {
    ID   string
    View app.View
}
