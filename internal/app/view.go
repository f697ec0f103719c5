package app

import "github.com/jaminalder/hotseat-tic-tac-toe/internal/domain"

// CellView is one renderable board cell.
type CellView struct {
    Index    int    `json:"index"`
    Text     string `json:"text"`
    Disabled bool   `json:"disabled"`
    Winning  bool   `json:"winning"`
}

// View is everything a frontend needs to draw the game. It is a projection of
// the engine and carries no state of its own.
type View struct {
    Board      domain.Board      `json:"board"`
    Turn       domain.Mark       `json:"turn"`
    Outcome    domain.Outcome    `json:"outcome"`
    Scores     domain.Scoreboard `json:"scores"`
    CanUndo    bool              `json:"canUndo"`
    StatusText string            `json:"statusText"`
    Moves      int               `json:"moves"`
    Cells      [9]CellView       `json:"cells"`
}

// Concluded reports whether the game shown has ended.
func (v View) Concluded() bool { return v.Outcome.Terminal() }

// Project builds the view of e.
func Project(e *domain.Engine) View {
    b := e.Board()
    o := e.Outcome()
    v := View{
        Board:      b,
        Turn:       e.Turn(),
        Outcome:    o,
        Scores:     e.Scores(),
        CanUndo:    e.CanUndo(),
        StatusText: StatusText(o, e.Turn()),
        Moves:      e.HistoryLen(),
    }
    for i, c := range b {
        v.Cells[i] = CellView{
            Index:    i,
            Text:     c.String(),
            Disabled: c != domain.Empty || o.Terminal(),
            Winning:  o.Contains(i),
        }
    }
    return v
}

// StatusText renders the one-line game status.
func StatusText(o domain.Outcome, turn domain.Mark) string {
    switch o.Kind {
    case domain.Win:
        return "Winner: " + o.Winner.String()
    case domain.Draw:
        return "Draw"
    default:
        return "Next: " + turn.String()
    }
}
