package web

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jaminalder/tic-tac-based/internal/app"
	"github.com/jaminalder/tic-tac-based/internal/store"
)

var sessionPath = regexp.MustCompile(`/s/([0-9a-f-]{36})/events`)

func newTestServer(t *testing.T, opts ...app.Option) (*app.Service, http.Handler) {
	t.Helper()
	s := app.NewService(store.NewMemory(time.Hour), opts...)
	h := NewServer(s, nil)
	return s, h
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// openPage loads the index page and returns the session id it embeds.
func openPage(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := do(t, h, "GET", "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	m := sessionPath.FindStringSubmatch(rr.Body.String())
	if m == nil {
		t.Fatalf("page does not reference a session event stream: %q", rr.Body.String())
	}
	return m[1]
}

func playCells(t *testing.T, h http.Handler, id string, cells ...int) *httptest.ResponseRecorder {
	t.Helper()
	var rr *httptest.ResponseRecorder
	for _, c := range cells {
		rr = do(t, h, "POST", "/s/"+id+"/cells/"+strconv.Itoa(c), nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("cell %d: expected 200, got %d", c, rr.Code)
		}
	}
	return rr
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t)
	rr := do(t, h, "GET", "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Tic Tac Based",
		"Base (B) vs Ethereum (E)",
		"Base (B)&#39;s turn",
		`id="app"`,
		`hx-ext="sse"`,
		"Controls:",
		"Press R to reset the game",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("index should contain %q; got body: %q", want, body)
		}
	}
	if n := strings.Count(body, `class="cell"`); n != 9 {
		t.Fatalf("expected 9 empty cells, got %d", n)
	}
}

func TestEveryLoadStartsANewSession(t *testing.T) {
	svc, h := newTestServer(t)
	first := openPage(t, h)
	playCells(t, h, first, 0, 3, 1, 4, 2)

	second := openPage(t, h)
	if first == second {
		t.Fatalf("expected a new session id on reload")
	}
	st, err := svc.Get(context.Background(), second)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.Game.Moves() != 0 || st.Game.Stats.BWins != 0 {
		t.Fatalf("expected fresh state after reload, got %+v", st.Game)
	}
}

func TestViewExistingAndUnknownSession(t *testing.T) {
	_, h := newTestServer(t)
	id := openPage(t, h)
	if rr := do(t, h, "GET", "/s/"+id, nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for existing session, got %d", rr.Code)
	}
	if rr := do(t, h, "GET", "/s/missing", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", rr.Code)
	}
	if rr := do(t, h, "POST", "/s/missing/cells/0", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for move on unknown session, got %d", rr.Code)
	}
}

func TestMoveUpdatesStateAndReturnsFragment(t *testing.T) {
	svc, h := newTestServer(t)
	id := openPage(t, h)

	rr := playCells(t, h, id, 4)
	body := rr.Body.String()
	if !strings.HasPrefix(body, `<div id="app"`) {
		t.Fatalf("expected app fragment, got %q", body)
	}
	if !strings.Contains(body, "Ethereum (E)&#39;s turn") {
		t.Fatalf("expected E to move next, got %q", body)
	}
	if strings.Contains(body, "<html") {
		t.Fatalf("fragment must not contain the page shell")
	}
	st, _ := svc.Get(context.Background(), id)
	if st.Game.Moves() != 1 {
		t.Fatalf("expected move applied, moves=%d", st.Game.Moves())
	}
}

func TestWinDisablesBoardAndIgnoresFurtherMoves(t *testing.T) {
	svc, h := newTestServer(t)
	id := openPage(t, h)

	body := playCells(t, h, id, 0, 3, 1, 4, 2).Body.String()
	if !strings.Contains(body, "Base (B) Wins!") {
		t.Fatalf("expected win message, got %q", body)
	}
	if !strings.Contains(body, "B: 1") {
		t.Fatalf("expected B badge at 1, got %q", body)
	}
	if n := strings.Count(body, " disabled>"); n != 9 {
		t.Fatalf("expected all 9 cells disabled after win, got %d", n)
	}

	before, _ := svc.Get(context.Background(), id)
	playCells(t, h, id, 8)
	after, _ := svc.Get(context.Background(), id)
	if after.Game != before.Game {
		t.Fatalf("expected board frozen after win")
	}
}

func TestOccupiedCellIsDisabled(t *testing.T) {
	_, h := newTestServer(t)
	id := openPage(t, h)
	body := playCells(t, h, id, 0, 0).Body.String()
	if n := strings.Count(body, " disabled>"); n != 1 {
		t.Fatalf("expected only the occupied cell disabled, got %d", n)
	}
	if !strings.Contains(body, "Ethereum (E)&#39;s turn") {
		t.Fatalf("second click on the same cell must not pass the turn")
	}
}

func TestInvalidCellIndex(t *testing.T) {
	_, h := newTestServer(t)
	id := openPage(t, h)
	for _, idx := range []string{"9", "-1", "x"} {
		if rr := do(t, h, "POST", "/s/"+id+"/cells/"+idx, nil); rr.Code != http.StatusBadRequest {
			t.Fatalf("cell %q: expected 400, got %d", idx, rr.Code)
		}
	}
}

func TestNewGameAndResetStats(t *testing.T) {
	svc, h := newTestServer(t)
	id := openPage(t, h)
	playCells(t, h, id, 0, 3, 1, 4, 2)

	rr := do(t, h, "POST", "/s/"+id+"/new", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "B: 1") || !strings.Contains(rr.Body.String(), "Base (B)&#39;s turn") {
		t.Fatalf("expected fresh board with stats kept, got %q", rr.Body.String())
	}

	rr = do(t, h, "POST", "/s/"+id+"/stats/reset", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "B: 0") {
		t.Fatalf("expected stats reset, got %q", rr.Body.String())
	}
	st, _ := svc.Get(context.Background(), id)
	if st.Game.Stats.BWins != 0 {
		t.Fatalf("expected zero bWins, got %d", st.Game.Stats.BWins)
	}
}

func TestToggleControls(t *testing.T) {
	_, h := newTestServer(t)
	id := openPage(t, h)
	rr := do(t, h, "POST", "/s/"+id+"/controls/toggle", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if strings.Contains(body, "Controls:") || !strings.Contains(body, "show-controls") {
		t.Fatalf("expected overlay replaced by show button, got %q", body)
	}
}

func TestViewportSwitchesLayout(t *testing.T) {
	_, h := newTestServer(t)
	id := openPage(t, h)

	rr := do(t, h, "POST", "/s/"+id+"/viewport", url.Values{"width": {"400"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `class="mobile"`) || !strings.Contains(body, "Tap any empty cell") {
		t.Fatalf("expected mobile layout, got %q", body)
	}
	if strings.Contains(body, "R - Reset") {
		t.Fatalf("mobile overlay should not advertise the keyboard shortcut")
	}

	rr = do(t, h, "POST", "/s/"+id+"/viewport", url.Values{"width": {"1280"}})
	if strings.Contains(rr.Body.String(), `class="mobile"`) {
		t.Fatalf("expected desktop layout at 1280px")
	}

	for _, w := range []string{"", "abc", "0"} {
		if rr := do(t, h, "POST", "/s/"+id+"/viewport", url.Values{"width": {w}}); rr.Code != http.StatusBadRequest {
			t.Fatalf("width %q: expected 400, got %d", w, rr.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rr := do(t, h, "GET", "/healthz", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("expected ok, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
	_, h := newTestServer(t)
	id := openPage(t, h)
	rr := do(t, h, "GET", "/s/"+id+"/events", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Result().Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}
}

func TestEventsStreamPushesOverlayHide(t *testing.T) {
	svc, h := newTestServer(t, app.WithOverlayDelay(20*time.Millisecond))
	srv := httptest.NewServer(h)
	defer srv.Close()
	id := openPage(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/s/"+id+"/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events request: %v", err)
	}
	defer resp.Body.Close()

	sc := bufio.NewScanner(resp.Body)
	var event, data strings.Builder
	for sc.Scan() {
		line := sc.Text()
		if line == "" && event.Len() > 0 {
			break
		}
		if v, ok := strings.CutPrefix(line, "event: "); ok {
			event.WriteString(v)
		}
		if v, ok := strings.CutPrefix(line, "data: "); ok {
			data.WriteString(v)
		}
	}
	if event.String() != "app" {
		t.Fatalf("expected app event, got %q (scan err %v)", event.String(), sc.Err())
	}
	if !strings.Contains(data.String(), "show-controls") {
		t.Fatalf("expected pushed fragment with overlay hidden, got %q", data.String())
	}
	st, _ := svc.Get(context.Background(), id)
	if st.Chrome.ShowControls {
		t.Fatalf("expected overlay hidden in session state")
	}
}

func TestEventsUnknownSession(t *testing.T) {
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	req, _ := http.NewRequest("GET", srv.URL+"/s/missing/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
