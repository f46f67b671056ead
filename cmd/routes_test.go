package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"engmarket/internal/config"
	"engmarket/internal/models"
	"engmarket/utils"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *application {
	t.Helper()
	cfg := config.Default()
	cfg.Signup.BcryptCost = 4
	if mutate != nil {
		mutate(&cfg)
	}

	logger := zaptest.NewLogger(t)
	cat, err := loadCatalog(context.Background(), cfg, logger)
	require.NoError(t, err)
	st, err := openStores(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(st.close)

	tokens, err := utils.NewManager("test-signing-key", cfg.Session.TTL)
	require.NoError(t, err)

	discard := log.New(io.Discard, "", 0)
	app := initializeApp(cfg, cat, st, nil, tokens, logger, discard, discard)
	go app.wsManager.Run()
	t.Cleanup(app.wsManager.Close)
	return app
}

func request(t *testing.T, h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "203.0.113.7:51000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)
	rec := request(t, app.routes(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "deny", rec.Header().Get("X-Frame-Options"))
}

func TestSessionIssuedAndReused(t *testing.T) {
	app := newTestApp(t, nil)
	h := app.routes()

	rec := request(t, h, http.MethodPost, "/favorites/3/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get(sessionHeader)
	require.NotEmpty(t, token)
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, sessionCookie, rec.Result().Cookies()[0].Name)

	rec = request(t, h, http.MethodGet, "/favorites", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(sessionHeader), "a valid token is not replaced")
	var favs models.FavoritesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &favs))
	assert.Equal(t, []string{"3"}, favs.ServiceIDs)

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	cookieRec := httptest.NewRecorder()
	h.ServeHTTP(cookieRec, req)
	require.NoError(t, json.Unmarshal(cookieRec.Body.Bytes(), &favs))
	assert.Equal(t, []string{"3"}, favs.ServiceIDs)

	rec = request(t, h, http.MethodGet, "/favorites", "not-a-token")
	assert.NotEmpty(t, rec.Header().Get(sessionHeader), "an invalid token starts a new session")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &favs))
	assert.Empty(t, favs.ServiceIDs)
}

func TestSignupIsRateLimited(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) {
		c.Signup.RatePerMinute = 1
		c.Signup.Burst = 2
	})
	h := app.routes()

	assert.Equal(t, http.StatusOK, request(t, h, http.MethodGet, "/sign-up", "").Code)
	assert.Equal(t, http.StatusOK, request(t, h, http.MethodGet, "/sign-up", "").Code)
	rec := request(t, h, http.MethodGet, "/sign-up", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	assert.Equal(t, http.StatusOK, request(t, h, http.MethodGet, "/marketplace", "").Code, "only sign-up is limited")
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApp(t, nil)
	h := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := request(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestListingSocket(t *testing.T) {
	app := newTestApp(t, nil)
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	_, token, err := app.tokens.NewSession()
	require.NoError(t, err)
	header := http.Header{"Authorization": {"Bearer " + token}}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/listing"

	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	require.Eventually(t, func() bool { return app.wsManager.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"category":"electrical","sort":"price-low"}`)))
	var res models.ListingResult
	require.NoError(t, conn.ReadJSON(&res))
	ids := make([]string, 0, len(res.Services))
	for _, s := range res.Services {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"3", "5", "4"}, ids)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"min_price":"cheap"}`)))
	var failure socketError
	require.NoError(t, conn.ReadJSON(&failure))
	assert.Equal(t, "invalid listing query", failure.Error)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return app.wsManager.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestListingSocketIssuesSession(t *testing.T) {
	app := newTestApp(t, nil)
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/listing"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	token := resp.Header.Get(sessionHeader)
	require.NotEmpty(t, token)
	_, err = app.tokens.Parse(token)
	require.NoError(t, err)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)
}

func TestAnswerListingBounds(t *testing.T) {
	app := newTestApp(t, nil)

	reply := app.answerListing("s1", []byte(`{"page":9223372036854775807,"limit":10}`))
	res, ok := reply.(models.ListingResult)
	require.True(t, ok, "got %#v", reply)
	assert.Empty(t, res.Services)
	assert.Equal(t, 6, res.Total)

	app.listingService = nil
	reply = app.answerListing("s1", []byte(`{}`))
	assert.Equal(t, socketError{Error: "listing failed"}, reply)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	start := time.Now()
	rl.getLimiter("198.51.100.1", start)
	rl.getLimiter("198.51.100.2", start.Add(9*time.Minute))

	assert.Equal(t, 1, rl.cleanup(start.Add(11*time.Minute)))
	assert.Len(t, rl.visitors, 1)
}

func TestLoadCatalogSources(t *testing.T) {
	logger := zaptest.NewLogger(t)

	cfg := config.Default()
	cfg.Catalog.Strict = true
	cat, err := loadCatalog(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.Len(t, cat.Services(), 6)

	cfg.Catalog.Source = "ftp"
	_, err = loadCatalog(context.Background(), cfg, logger)
	assert.ErrorIs(t, err, models.ErrUnknownSourceKind)
}

func TestSQLDriverName(t *testing.T) {
	for in, want := range map[string]string{"mysql": "mysql", "postgres": "pgx", "pgx": "pgx", "sqlite": "sqlite"} {
		got, err := sqlDriverName(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := sqlDriverName("oracle")
	assert.Error(t, err)
}
