// Package tui is a terminal frontend for a single hot-seat game.
package tui

import (
    "fmt"
    "log/slog"
    "unicode"

    "github.com/gdamore/tcell/v2"
    "github.com/rivo/tview"

    "github.com/jaminalder/hotseat-tic-tac-toe/internal/app"
)

const helpText = "arrows move · enter/space or 1-9 play · %s · n new game · r reset scores · q quit"

// UI renders an adapter into a tview application and feeds key presses back
// as gestures. All gestures run on the tview event loop.
type UI struct {
    adapter *app.Adapter
    log     *slog.Logger

    app    *tview.Application
    board  *tview.Table
    status *tview.TextView
    scores *tview.TextView
    help   *tview.TextView
    root   *tview.Flex

    quit func()
}

// New builds the widgets and draws the current state of a.
func New(a *app.Adapter, logger *slog.Logger) *UI {
    if logger == nil {
        logger = slog.Default()
    }
    u := &UI{
        adapter: a,
        log:     logger.With("component", "tui"),
        app:     tview.NewApplication(),
        board:   tview.NewTable(),
        status:  tview.NewTextView().SetTextAlign(tview.AlignCenter),
        scores:  tview.NewTextView().SetTextAlign(tview.AlignCenter),
        help:    tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true),
    }
    u.quit = u.app.Stop

    u.board.SetBorders(true).SetSelectable(true, true)
    u.board.Select(1, 1)
    u.board.SetInputCapture(u.handleKey)

    u.root = tview.NewFlex().SetDirection(tview.FlexRow).
        AddItem(u.status, 1, 0, false).
        AddItem(u.board, 7, 0, true).
        AddItem(u.scores, 1, 0, false).
        AddItem(u.help, 2, 0, false)
    u.root.SetBorder(true).SetTitle(" Tic-Tac-Toe ")

    a.Observe(u.render)
    u.render(a.View())
    return u
}

// Run blocks until the user quits.
func (u *UI) Run() error {
    u.log.Info("terminal frontend started")
    if err := u.app.SetRoot(u.root, true).SetFocus(u.board).Run(); err != nil {
        return fmt.Errorf("tui run: %w", err)
    }
    return nil
}

// Stop ends Run. Safe to call from any goroutine.
func (u *UI) Stop() { u.app.Stop() }

func (u *UI) render(v app.View) {
    for _, c := range v.Cells {
        text := c.Text
        if text == "" {
            text = " "
        }
        color := tcell.ColorWhite
        switch {
        case c.Winning:
            color = tcell.ColorYellow
        case c.Disabled:
            color = tcell.ColorDarkGray
        }
        u.board.SetCell(c.Index/3, c.Index%3,
            tview.NewTableCell(" "+text+" ").
                SetAlign(tview.AlignCenter).
                SetExpansion(1).
                SetTextColor(color))
    }
    u.status.SetText(v.StatusText)
    u.scores.SetText(fmt.Sprintf("X: %d   O: %d   Draws: %d", v.Scores.X, v.Scores.O, v.Scores.Draws))

    undo := "u undo"
    if !v.CanUndo {
        undo = "[gray]u undo[-]"
    }
    u.help.SetText(fmt.Sprintf(helpText, undo))
}

// selectCell forwards a selection unless the cell is disabled in the current view.
func (u *UI) selectCell(index int) {
    if index < 0 || index > 8 {
        return
    }
    if u.adapter.View().Cells[index].Disabled {
        return
    }
    u.adapter.SelectCell(index)
}

func (u *UI) handleKey(event *tcell.EventKey) *tcell.EventKey {
    switch event.Key() {
    case tcell.KeyEnter:
        row, col := u.board.GetSelection()
        u.selectCell(row*3 + col)
        return nil
    case tcell.KeyEscape, tcell.KeyCtrlC:
        u.quit()
        return nil
    case tcell.KeyRune:
        switch r := unicode.ToLower(event.Rune()); {
        case r >= '1' && r <= '9':
            i := int(r - '1')
            u.board.Select(i/3, i%3)
            u.selectCell(i)
        case r == ' ':
            row, col := u.board.GetSelection()
            u.selectCell(row*3 + col)
        case r == 'u':
            u.adapter.Undo()
        case r == 'n':
            u.adapter.NewGame()
        case r == 'r':
            u.adapter.ResetScores()
        case r == 'q':
            u.quit()
        default:
            return event
        }
        return nil
    }
    // arrows and the rest go to the table
    return event
}
