package domain

import "errors"

// Snapshot is the board and turn captured immediately before a move.
type Snapshot struct {
    Board Board
    Turn  Mark
}

// Scoreboard tallies concluded games across new games.
type Scoreboard struct {
    X     int `json:"x"`
    O     int `json:"o"`
    Draws int `json:"draws"`
}

// Reasons a gesture is ignored. Engine operations never return them; Check and
// UndoCheck expose them so callers can explain a no-op.
var (
    ErrOutOfBounds = errors.New("out of bounds")
    ErrOccupied    = errors.New("cell occupied")
    ErrGameOver    = errors.New("game over")
    ErrNoHistory   = errors.New("nothing to undo")
)

// Engine holds the state of a hot-seat match and the session score.
// It is not safe for concurrent use.
type Engine struct {
    board   Board
    turn    Mark
    history []Snapshot
    scores  Scoreboard
    // scored is set once the current terminal outcome has been tallied.
    scored bool
}

// NewEngine returns an engine with an empty board and X to move.
func NewEngine() *Engine {
    return &Engine{turn: X}
}

func (e *Engine) Board() Board       { return e.board }
func (e *Engine) Turn() Mark         { return e.turn }
func (e *Engine) Scores() Scoreboard { return e.scores }
func (e *Engine) HistoryLen() int    { return len(e.history) }

// Outcome evaluates the current board. It never changes the score.
func (e *Engine) Outcome() Outcome { return Evaluate(e.board) }

// Check reports why a move at index would be ignored, or nil if it is legal.
func (e *Engine) Check(index int) error {
    if !InBounds(index) {
        return ErrOutOfBounds
    }
    if e.Outcome().Terminal() {
        return ErrGameOver
    }
    if e.board[index] != Empty {
        return ErrOccupied
    }
    return nil
}

// ApplyMove places the current turn's mark at index and reports whether the
// move was applied. Illegal moves leave the engine untouched.
func (e *Engine) ApplyMove(index int) bool {
    if e.Check(index) != nil {
        return false
    }
    e.history = append(e.history, Snapshot{Board: e.board, Turn: e.turn})
    e.board[index] = CellOf(e.turn)
    e.turn = e.turn.Other()

    // InProgress was verified by Check, so a terminal outcome here is a transition.
    if o := e.Outcome(); o.Terminal() && !e.scored {
        e.tally(o)
        e.scored = true
    }
    return true
}

func (e *Engine) tally(o Outcome) {
    switch {
    case o.Kind == Draw:
        e.scores.Draws++
    case o.Winner == X:
        e.scores.X++
    case o.Winner == O:
        e.scores.O++
    }
}

// UndoCheck reports why Undo would be ignored, or nil if it is allowed.
func (e *Engine) UndoCheck() error {
    if len(e.history) == 0 {
        return ErrNoHistory
    }
    if e.Outcome().Terminal() {
        return ErrGameOver
    }
    return nil
}

// CanUndo reports whether Undo would take effect.
func (e *Engine) CanUndo() bool { return e.UndoCheck() == nil }

// Undo restores the state from before the last move. It is ignored once the
// game has concluded, since the result is already scored.
func (e *Engine) Undo() bool {
    if e.UndoCheck() != nil {
        return false
    }
    last := e.history[len(e.history)-1]
    e.history = e.history[:len(e.history)-1]
    e.board = last.Board
    e.turn = last.Turn
    return true
}

// NewGame clears the board and history. Scores are kept.
func (e *Engine) NewGame() {
    e.board = Board{}
    e.turn = X
    e.history = nil
    e.scored = false
}

// ResetScores zeroes the scoreboard and starts a new game.
func (e *Engine) ResetScores() {
    e.scores = Scoreboard{}
    e.NewGame()
}
