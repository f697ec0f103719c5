package domain

// Mark is a player's symbol. X always moves first.
type Mark uint8

const (
    X Mark = iota + 1
    O
)

// Other returns the opponent's mark.
func (m Mark) Other() Mark {
    if m == X {
        return O
    }
    return X
}

func (m Mark) String() string {
    switch m {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    MarkX
    MarkO
)

// CellOf returns the cell value holding mark m.
func CellOf(m Mark) Cell {
    if m == O {
        return MarkO
    }
    return MarkX
}

// Mark reports which mark occupies the cell, if any.
func (c Cell) Mark() (Mark, bool) {
    switch c {
    case MarkX:
        return X, true
    case MarkO:
        return O, true
    default:
        return 0, false
    }
}

func (c Cell) String() string {
    m, _ := c.Mark()
    return m.String()
}

// Board is a fixed 3x3 board stored row-major (index = row*3+col).
type Board [9]Cell

// Full reports whether every cell is occupied.
func (b Board) Full() bool {
    for _, c := range b {
        if c == Empty {
            return false
        }
    }
    return true
}

// Count returns how many cells hold mark m.
func (b Board) Count(m Mark) int {
    n := 0
    want := CellOf(m)
    for _, c := range b {
        if c == want {
            n++
        }
    }
    return n
}

// InBounds reports whether index addresses a cell.
func InBounds(index int) bool { return index >= 0 && index < len(Board{}) }

func (m Mark) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
