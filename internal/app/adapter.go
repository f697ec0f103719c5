package app

import (
    "log/slog"

    "github.com/jaminalder/hotseat-tic-tac-toe/internal/domain"
)

// Adapter forwards user gestures to a single engine and hands out views.
// Like the engine it is not safe for concurrent use; callers serialize gestures.
type Adapter struct {
    engine    *domain.Engine
    log       *slog.Logger
    observers []func(View)
}

// NewAdapter wraps e. A nil logger discards output.
func NewAdapter(e *domain.Engine, logger *slog.Logger) *Adapter {
    if e == nil {
        e = domain.NewEngine()
    }
    if logger == nil {
        logger = discardLogger()
    }
    return &Adapter{engine: e, log: logger.With("component", "adapter")}
}

// View returns the current view.
func (a *Adapter) View() View { return Project(a.engine) }

// Observe registers fn to be called with the new view after every gesture
// that changed state.
func (a *Adapter) Observe(fn func(View)) {
    if fn != nil {
        a.observers = append(a.observers, fn)
    }
}

// SelectCell plays the current turn at index. It reports whether the move was applied.
func (a *Adapter) SelectCell(index int) bool {
    if !a.engine.ApplyMove(index) {
        a.log.Debug("move ignored", "cell", index, "reason", a.engine.Check(index))
        return false
    }
    if o := a.engine.Outcome(); o.Terminal() {
        s := a.engine.Scores()
        a.log.Info("game concluded",
            "outcome", o.Kind.String(),
            "winner", o.Winner.String(),
            "score_x", s.X, "score_o", s.O, "draws", s.Draws)
    }
    a.notify()
    return true
}

// Undo takes back the last move while the game is in progress.
func (a *Adapter) Undo() bool {
    if err := a.engine.UndoCheck(); err != nil {
        a.log.Debug("undo ignored", "reason", err)
        return false
    }
    a.engine.Undo()
    a.notify()
    return true
}

// NewGame clears the board, keeping the scores.
func (a *Adapter) NewGame() bool {
    a.engine.NewGame()
    a.notify()
    return true
}

// ResetScores zeroes the scores and starts a new game.
func (a *Adapter) ResetScores() bool {
    a.engine.ResetScores()
    a.log.Info("scores reset")
    a.notify()
    return true
}

func (a *Adapter) notify() {
    if len(a.observers) == 0 {
        return
    }
    v := a.View()
    for _, fn := range a.observers {
        fn(v)
    }
}
