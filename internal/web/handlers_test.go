package web

import (
    "bufio"
    "bytes"
    "context"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"
    "time"

    "github.com/jaminalder/hotseat-tic-tac-toe/internal/app"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
    t.Helper()
    s := app.NewService(nil, 0)
    h := NewServer(s, Options{})
    return s, h
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
    req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    return rr
}

func TestIndexPage(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("GET", "/", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
        t.Fatalf("index should contain create form; got body: %q", body)
    }
}

func TestCreateRedirectsToGame(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("POST", "/game", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusSeeOther && rr.Code != http.StatusFound {
        t.Fatalf("expected redirect, got %d", rr.Code)
    }
    loc := rr.Result().Header.Get("Location")
    if !strings.HasPrefix(loc, "/game/") {
        t.Fatalf("expected redirect to /game/{id}, got %q", loc)
    }
}

func TestGamePageRendersBoardAndSSEWiring(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateSession()

    req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "hx-ext=\"sse\"") || !strings.Contains(body, "/game/"+gs.ID+"/events") {
        t.Fatalf("expected SSE wiring in page; got body: %q", body)
    }
    if !strings.Contains(body, "id=\"board\"") || !strings.Contains(body, "Next: X") {
        t.Fatalf("expected board with status; got body: %q", body)
    }
    if strings.Count(body, "name=\"cell\"") != 9 {
        t.Fatalf("expected 9 cell forms; got body: %q", body)
    }
}

func TestUnknownGameIs404(t *testing.T) {
    _, h := newTestServer(t)
    for _, path := range []string{"/game/missing", "/game/missing/state", "/game/missing/events"} {
        rr := httptest.NewRecorder()
        h.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
        if rr.Code != http.StatusNotFound {
            t.Fatalf("GET %s: expected 404, got %d", path, rr.Code)
        }
    }
    rr := postForm(h, "/game/missing/select", url.Values{"cell": {"0"}})
    if rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rr.Code)
    }
}

func TestSelectEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateSession()

    rr := postForm(h, "/game/"+gs.ID+"/select", url.Values{"cell": {"0"}})
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "id=\"board\"") || !strings.Contains(body, "Next: O") {
        t.Fatalf("expected board fragment, got %q", body)
    }
    latest, _ := svc.Get(gs.ID)
    if latest.View.Moves != 1 {
        t.Fatalf("expected move applied, moves=%d", latest.View.Moves)
    }
}

func TestSelectIgnoresBadInput(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateSession()
    for _, v := range []string{"", "abc", "-1", "9"} {
        rr := postForm(h, "/game/"+gs.ID+"/select", url.Values{"cell": {v}})
        if rr.Code != http.StatusOK {
            t.Fatalf("cell=%q: expected 200, got %d", v, rr.Code)
        }
    }
    latest, _ := svc.Get(gs.ID)
    if latest.View.Moves != 0 {
        t.Fatalf("expected no moves, got %d", latest.View.Moves)
    }
}

func TestFinishedBoardDisablesControls(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateSession()
    var rr *httptest.ResponseRecorder
    for _, c := range []string{"0", "3", "1", "4", "2"} {
        rr = postForm(h, "/game/"+gs.ID+"/select", url.Values{"cell": {c}})
    }
    body := rr.Body.String()
    if !strings.Contains(body, "Winner: X") || !strings.Contains(body, "X: 1") {
        t.Fatalf("expected winner and score, got %q", body)
    }
    // nine cells plus the undo button
    if n := strings.Count(body, " disabled>"); n != 10 {
        t.Fatalf("expected 10 disabled buttons, got %d in %q", n, body)
    }
    if n := strings.Count(body, "class=\"win\""); n != 3 {
        t.Fatalf("expected 3 winning cells, got %d", n)
    }
}

func TestUndoNewGameAndResetScores(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateSession()
    base := "/game/" + gs.ID

    postForm(h, base+"/select", url.Values{"cell": {"4"}})
    rr := postForm(h, base+"/undo", nil)
    if rr.Code != http.StatusOK {
        t.Fatalf("undo: expected 200, got %d", rr.Code)
    }
    if latest, _ := svc.Get(gs.ID); latest.View.Moves != 0 {
        t.Fatalf("undo not applied")
    }

    for _, c := range []string{"0", "3", "1", "4", "2"} {
        postForm(h, base+"/select", url.Values{"cell": {c}})
    }
    postForm(h, base+"/new", nil)
    latest, _ := svc.Get(gs.ID)
    if latest.View.Moves != 0 || latest.View.Scores.X != 1 {
        t.Fatalf("new game should clear board and keep scores: %+v", latest.View)
    }

    postForm(h, base+"/reset-scores", nil)
    latest, _ = svc.Get(gs.ID)
    if latest.View.Scores.X != 0 {
        t.Fatalf("reset scores not applied: %+v", latest.View.Scores)
    }
}

func TestStateEndpointReturnsJSON(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateSession()
    svc.SelectCell(gs.ID, 4)

    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, httptest.NewRequest("GET", "/game/"+gs.ID+"/state", nil))
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    var got struct {
        Board      []string `json:"board"`
        Turn       string   `json:"turn"`
        CanUndo    bool     `json:"canUndo"`
        StatusText string   `json:"statusText"`
        Outcome    struct {
            Kind string `json:"kind"`
        } `json:"outcome"`
    }
    if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
        t.Fatalf("decode: %v (%s)", err, rr.Body.String())
    }
    if got.Board[4] != "X" || got.Turn != "O" || !got.CanUndo || got.StatusText != "Next: O" || got.Outcome.Kind != "in_progress" {
        t.Fatalf("unexpected state: %+v", got)
    }
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
    _, h := newTestServer(t)
    // create a game via POST
    reqCreate := httptest.NewRequest("POST", "/game", nil)
    rrCreate := httptest.NewRecorder()
    h.ServeHTTP(rrCreate, reqCreate)
    loc := rrCreate.Result().Header.Get("Location")
    if loc == "" {
        t.Fatalf("missing redirect location")
    }
    // Request SSE
    req := httptest.NewRequest("GET", loc+"/events", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    ct := rr.Result().Header.Get("Content-Type")
    if !strings.HasPrefix(ct, "text/event-stream") {
        io.Copy(io.Discard, rr.Result().Body)
        t.Fatalf("expected text/event-stream, got %q", ct)
    }
}

func TestWriteEventPrefixesEveryLine(t *testing.T) {
    var buf bytes.Buffer
    writeEvent(&buf, "board", []byte("<div>\n  <p>x</p>\n</div>\n"))
    want := "event: board\ndata: <div>\ndata:   <p>x</p>\ndata: </div>\n\n"
    if buf.String() != want {
        t.Fatalf("unexpected event:\n%q\nwant\n%q", buf.String(), want)
    }
}

func TestBroadcastUsesBoardFragment(t *testing.T) {
    svc, _ := newTestServer(t)
    gs, _ := svc.CreateSession()
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    ch, unsub := svc.Subscribe(ctx, gs.ID)
    defer unsub()

    svc.SelectCell(gs.ID, 0)
    b := <-ch
    if !strings.Contains(string(b), "id=\"board\"") || !strings.Contains(string(b), "Next: O") {
        t.Fatalf("expected rendered board payload, got %q", string(b))
    }
}

func TestEventsStreamDeliversBoardAndEndsOnEviction(t *testing.T) {
    svc := app.NewService(nil, time.Minute)
    srv := httptest.NewServer(NewServer(svc, Options{}))
    defer srv.Close()

    gs, err := svc.CreateSession()
    if err != nil {
        t.Fatalf("create: %v", err)
    }

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/game/"+gs.ID+"/events", nil)
    req.Header.Set("Accept", "text/event-stream")
    resp, err := srv.Client().Do(req)
    if err != nil {
        t.Fatalf("connect: %v", err)
    }
    defer resp.Body.Close()
    if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
        t.Fatalf("expected text/event-stream, got %q", ct)
    }

    // headers are flushed after subscribing, so the move below is observed
    form := url.Values{"cell": {"4"}}
    post, err := srv.Client().PostForm(srv.URL+"/game/"+gs.ID+"/select", form)
    if err != nil {
        t.Fatalf("select: %v", err)
    }
    post.Body.Close()

    sc := bufio.NewScanner(resp.Body)
    var frame []string
    for sc.Scan() {
        line := sc.Text()
        if line == "" && len(frame) > 0 && frame[0] == "event: board" {
            break
        }
        if line == "" || strings.HasPrefix(line, ":") {
            frame = nil
            continue
        }
        frame = append(frame, line)
    }
    if len(frame) < 2 {
        t.Fatalf("expected a board event, got %q (err %v)", frame, sc.Err())
    }
    if frame[1] != `data: <div id="board">` {
        t.Fatalf("expected payload to start with the board div, got %q", frame[1])
    }
    joined := strings.Join(frame, "\n")
    if !strings.Contains(joined, "Next: O") {
        t.Fatalf("expected updated status in event, got %q", joined)
    }
    for _, l := range frame[1:] {
        if !strings.HasPrefix(l, "data: ") {
            t.Fatalf("unexpected line in event: %q", l)
        }
    }

    if n := svc.Sweep(time.Now().Add(time.Hour)); n != 1 {
        t.Fatalf("expected 1 eviction, got %d", n)
    }
    for sc.Scan() {
    }
    if ctx.Err() != nil {
        t.Fatalf("stream did not end after eviction")
    }
}
