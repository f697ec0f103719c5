package domain

// Line is a triple of board indices.
type Line [3]int

// Lines lists the winning lines in scan order: rows, columns, then the two diagonals.
var Lines = [8]Line{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// OutcomeKind classifies a board.
type OutcomeKind uint8

const (
    InProgress OutcomeKind = iota
    Win
    Draw
)

func (k OutcomeKind) String() string {
    switch k {
    case Win:
        return "win"
    case Draw:
        return "draw"
    default:
        return "in_progress"
    }
}

// Outcome is the result of evaluating a board. Winner and Line are only set for Win.
type Outcome struct {
    Kind   OutcomeKind `json:"kind"`
    Winner Mark        `json:"winner,omitempty"`
    Line   Line        `json:"line"`
}

// Terminal reports whether the game is over.
func (o Outcome) Terminal() bool { return o.Kind != InProgress }

// Contains reports whether index is part of the winning line.
func (o Outcome) Contains(index int) bool {
    if o.Kind != Win {
        return false
    }
    for _, i := range o.Line {
        if i == index {
            return true
        }
    }
    return false
}

// Evaluate returns the outcome of b. The first uniformly marked line in Lines
// order wins; a full board without one is a draw.
func Evaluate(b Board) Outcome {
    for _, ln := range Lines {
        c := b[ln[0]]
        if c == Empty || b[ln[1]] != c || b[ln[2]] != c {
            continue
        }
        m, _ := c.Mark()
        return Outcome{Kind: Win, Winner: m, Line: ln}
    }
    if b.Full() {
        return Outcome{Kind: Draw}
    }
    return Outcome{Kind: InProgress}
}

func (k OutcomeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
