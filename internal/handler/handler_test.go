package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/repository"
	"gridwatch/backend/internal/service"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/phemex"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memBots struct {
	mu   sync.Mutex
	bots map[string]model.GridBot
}

func (m *memBots) Create(ctx context.Context, bot *model.GridBot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bots[bot.ID] = *bot
	return nil
}

func (m *memBots) GetOwned(ctx context.Context, userID, botID string) (*model.GridBot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bots[botID]
	if !ok || b.UserID != userID {
		return nil, repository.ErrBotNotFound
	}
	return &b, nil
}

func (m *memBots) Update(ctx context.Context, bot *model.GridBot) error { return m.Create(ctx, bot) }

func (m *memBots) Delete(ctx context.Context, bot *model.GridBot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bots, bot.ID)
	return nil
}

func (m *memBots) ListByUser(ctx context.Context, userID string) ([]model.GridBot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.GridBot
	for _, b := range m.bots {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	repository.SortBotsNewestFirst(out)
	return out, nil
}

type noSettings struct{}

func (noSettings) Get(ctx context.Context, userID string) (*model.Settings, error) {
	return nil, repository.ErrSettingsNotFound
}

func (noSettings) Save(ctx context.Context, settings *model.Settings) error { return nil }

type noCredentials struct{}

func (noCredentials) Credentials(ctx context.Context, userID string) (*phemex.Credentials, error) {
	return nil, nil
}

type demoEngine struct{}

func (demoEngine) Reconstruct(ctx context.Context, creds *phemex.Credentials, bots []model.GridBot) model.FleetResult {
	return model.FleetResult{
		Mode:    model.FleetModeDemo,
		Bots:    []model.BotState{{ID: "bot-1", Pair: "BTCUSDT"}},
		Message: model.MessageNoCredentials,
	}
}

func (demoEngine) Demo(message string) model.FleetResult {
	return model.FleetResult{
		Mode:    model.FleetModeDemo,
		Bots:    []model.BotState{{ID: "bot-1", Pair: "BTCUSDT"}},
		Message: message,
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(util.ContextUserID, userID)
		c.Next()
	}
}

func newTestRouter() *gin.Engine {
	bots := &memBots{bots: map[string]model.GridBot{}}
	botHandler := NewBotHandler(service.NewBotService(bots))
	fleetHandler := NewFleetHandler(service.NewFleetService(demoEngine{}, noCredentials{}, bots, noSettings{}, time.Second), []string{"*"})

	r := gin.New()
	api := r.Group("/api/v1", withUser("u1"))
	api.POST("/bots", botHandler.CreateBot)
	api.GET("/bots", botHandler.ListBots)
	api.GET("/bots/:id", botHandler.GetBot)
	api.DELETE("/bots/:id", botHandler.DeleteBot)
	api.GET("/bots/:id/ladder", botHandler.GetLadder)
	api.POST("/ladder/preview", botHandler.PreviewLadder)
	api.GET("/fleet", fleetHandler.GetFleet)
	api.GET("/fleet/bots/:id", fleetHandler.GetFleetBot)
	api.GET("/fleet/stream", fleetHandler.Stream)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) util.Response {
	t.Helper()
	var resp struct {
		util.Response
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	if dest != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, dest); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return resp.Response
}

func TestBotEndpoints(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/bots",
		`{"pair":"sol/usdt","upperLimit":200,"lowerLimit":150,"gridCount":10,"investment":1000,"startedAt":"2024-05-01T00:00:00Z"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d want 201: %s", w.Code, w.Body.String())
	}
	var bot model.GridBot
	decodeData(t, w, &bot)
	if bot.Pair != "SOLUSDT" || bot.DisplayPair != "SOL/USDT" {
		t.Fatalf("got %q/%q", bot.Pair, bot.DisplayPair)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/bots", "")
	var bots []model.GridBot
	decodeData(t, w, &bots)
	if len(bots) != 1 || bots[0].ID != bot.ID {
		t.Fatalf("got %+v", bots)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/bots/"+bot.ID+"/ladder", "")
	var preview model.LadderPreview
	decodeData(t, w, &preview)
	if len(preview.Levels) != 11 || preview.Levels[0] != 150 || preview.Levels[10] != 200 {
		t.Fatalf("got levels %v", preview.Levels)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/bots/missing", "")
	if resp := decodeData(t, w, nil); w.Code != http.StatusNotFound || resp.Error.Code != util.ErrCodeBotNotFound {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodDelete, "/api/v1/bots/"+bot.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d want 200", w.Code)
	}
	w = doJSON(r, http.MethodGet, "/api/v1/bots", "")
	bots = nil
	decodeData(t, w, &bots)
	if len(bots) != 0 {
		t.Fatalf("got %+v want empty", bots)
	}
}

func TestCreateBotRejectsBadInput(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{"pair":"BTCUSDT"}`},
		{"inverted range", `{"pair":"BTCUSDT","upperLimit":100,"lowerLimit":200,"gridCount":10,"investment":1000,"startedAt":"2024-05-01T00:00:00Z"}`},
		{"bad grid type", `{"pair":"BTCUSDT","upperLimit":200,"lowerLimit":100,"gridCount":10,"gridType":"spiral","investment":1000,"startedAt":"2024-05-01T00:00:00Z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/bots", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateBotListsMissingFields(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/bots", `{"pair":"BTCUSDT","lowerLimit":100}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d want 400: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error struct {
			Code    string            `json:"code"`
			Details []util.FieldError `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != util.ErrCodeValidation {
		t.Fatalf("got code %q", resp.Error.Code)
	}
	got := map[string]string{}
	for _, fe := range resp.Error.Details {
		got[fe.Field] = fe.Rule
	}
	for _, field := range []string{"upperLimit", "gridCount", "investment"} {
		if got[field] != "required" {
			t.Fatalf("got details %+v want %s required", resp.Error.Details, field)
		}
	}
	if _, ok := got["lowerLimit"]; ok {
		t.Fatalf("lowerLimit was supplied: %+v", resp.Error.Details)
	}
}

func TestPreviewLadder(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/ladder/preview", `{"lowerLimit":100,"upperLimit":400,"gridCount":2,"gridType":"geometric"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	var preview model.LadderPreview
	decodeData(t, w, &preview)
	want := []float64{100, 200, 400}
	for i := range want {
		if preview.Levels[i] != want[i] {
			t.Fatalf("got %v want %v", preview.Levels, want)
		}
	}

	w = doJSON(r, http.MethodPost, "/api/v1/ladder/preview", `{"lowerLimit":300,"upperLimit":200,"gridCount":2}`)
	resp := decodeData(t, w, nil)
	if w.Code != http.StatusBadRequest || resp.Error.Details != "upperLimit" {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}
}

func TestFleetEndpoints(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodGet, "/api/v1/fleet", "")
	var result model.FleetResult
	resp := decodeData(t, w, &result)
	if result.Mode != model.FleetModeDemo || result.Message != model.MessageNoCredentials || len(result.Bots) != 1 {
		t.Fatalf("got %+v", result)
	}
	if resp.Message != model.MessageNoCredentials {
		t.Fatalf("got envelope message %q want the demo reason", resp.Message)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/fleet/bots/bot-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	w = doJSON(r, http.MethodGet, "/api/v1/fleet/bots/bot-9", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d want 404", w.Code)
	}
}

func TestFleetStreamPushesImmediately(t *testing.T) {
	srv := httptest.NewServer(newTestRouter())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/fleet/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg struct {
		Type    model.WSMessageType `json:"type"`
		Payload model.FleetResult   `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != model.MessageTypeFleetUpdate || msg.Payload.Mode != model.FleetModeDemo {
		t.Fatalf("got %+v", msg)
	}

	if err := conn.WriteJSON(model.NewWSMessage(model.MessageTypePing, nil)); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	for {
		var reply model.WSMessage
		if err := conn.ReadJSON(&reply); err != nil {
			t.Fatalf("read pong: %v", err)
		}
		if reply.Type == model.MessageTypePong {
			break
		}
	}
}

func TestHealth(t *testing.T) {
	r := gin.New()
	healthy := NewHealthHandler(stubPinger{})
	unhealthy := NewHealthHandler(stubPinger{err: errors.New("connection refused")})
	r.GET("/ok", healthy.Health)
	r.GET("/down", unhealthy.Health)
	r.GET("/ping", healthy.Ping)

	for path, want := range map[string]int{"/ok": http.StatusOK, "/down": http.StatusServiceUnavailable, "/ping": http.StatusOK} {
		w := doJSON(r, http.MethodGet, path, "")
		if w.Code != want {
			t.Fatalf("%s: got status %d want %d", path, w.Code, want)
		}
	}
}
