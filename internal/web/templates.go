package web

import (
    "bytes"
    "fmt"
    "html/template"

    "github.com/jaminalder/codex-three-mens-morris/internal/app"
    "github.com/jaminalder/codex-three-mens-morris/internal/domain"
    "github.com/rs/zerolog/log"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

// status is the one-line message shown above the board.
func status(st app.State) string {
    switch {
    case st.Over:
        return fmt.Sprintf("Winner: %v", st.Winner)
    case st.Mode == app.VersusMachine && st.Turn == app.Machine:
        return "Machine is thinking..."
    case st.Phase == domain.Sliding && st.Selected >= 0:
        return fmt.Sprintf("%v: pick an empty cell", st.Turn)
    case st.Phase == domain.Sliding:
        return fmt.Sprintf("%v: pick a piece to move", st.Turn)
    default:
        return fmt.Sprintf("%v to place", st.Turn)
    }
}

func cellClass(st app.State, i int) string {
    switch {
    case i == st.Selected:
        return "cell selected"
    case st.Over && (st.Line[0] == i || st.Line[1] == i || st.Line[2] == i):
        return "cell won"
    }
    return "cell"
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "status":     status,
        "cellClass":  cellClass,
        "eq":         func(a, b any) bool { return a == b },
        "add":        func(a, b int) int { return a + b },
        "mul":        func(a, b int) int { return a * b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Three Men's Morris</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    var err error
    if name == "" {
        err = t.Execute(&buf, data)
    } else {
        err = t.ExecuteTemplate(&buf, name, data)
    }
    if err != nil {
        log.Error().Err(err).Str("template", t.Name()).Msg("render failed")
    }
    return buf.Bytes()
}

const indexTemplate = `<h1>Three Men's Morris</h1>
<form action="/game" method="post">
  <select name="mode">
    <option value="machine"{{if eq .Mode "machine"}} selected{{end}}>Play vs machine</option>
    <option value="two"{{if eq .Mode "two"}} selected{{end}}>2 players</option>
  </select>
  <select name="difficulty">
    {{range .Difficulties}}<option value="{{.}}"{{if eq . $.Difficulty}} selected{{end}}>{{.}}</option>{{end}}
  </select>
  <button>Start</button>
</form>
<p>Score X {{.Tally.X}} : {{.Tally.O}} O</p>`

const boardTemplate = `
<div id="board">
  <p class="status">{{status .State}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/tap" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="i" value="{{$i}}">
        <button type="submit" class="{{cellClass $.State $i}}">{{cellSymbol (index $.State.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post"><button>Reset</button></form>
  {{if eq .State.Mode.String "machine"}}
  <form hx-post="/game/{{.ID}}/difficulty" hx-target="#board" hx-swap="outerHTML" method="post">
    <select name="difficulty">
      {{range $.Difficulties}}<option value="{{.}}"{{if eq .String $.State.Difficulty.String}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    <button>Set level</button>
  </form>
  {{end}}
  <p class="score">Score X {{.Tally.X}} : {{.Tally.O}} O</p>
</div>
`
