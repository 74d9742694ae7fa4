package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, ttl))
	e.POST("/advices", handler)
	e.GET("/advices", handler)
	return e
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func acceptedHandler(c echo.Context) error {
	return c.JSON(http.StatusAccepted, map[string]string{"status": "challenge_sent"})
}

const testReqID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func Test_Idempotency_BypassOnGET(t *testing.T) {
	rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/advices", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET should bypass, got %d", rec.Code)
	}
}

func Test_Idempotency_NoHeaderPassesThrough(t *testing.T) {
	rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		calls++
		return acceptedHandler(c)
	})

	for i := 0; i < 2; i++ {
		rec := doReq(t, e, http.MethodPost, "/advices", bytes.NewReader([]byte(`{"x":1}`)), nil)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("request %d without header => want 202, got %d", i, rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("deduplication should be opt-in; handler calls = %d, want 2", calls)
	}
}

func Test_Idempotency_MalformedHeaderPassesThrough(t *testing.T) {
	rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 30*time.Second, acceptedHandler)

	rec := doReq(t, e, http.MethodPost, "/advices", bytes.NewReader([]byte(`{}`)),
		map[string]string{"X-Request-Id": "NOT-VALID"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("malformed id should not block, got %d", rec.Code)
	}
}

func Test_Idempotency_Replay(t *testing.T) {
	rdb := newMiniredisClient(t)
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		calls++
		return acceptedHandler(c)
	})

	h := map[string]string{"X-Request-Id": testReqID}

	rec1 := doReq(t, e, http.MethodPost, "/advices", bytes.NewReader([]byte(`{"x":1}`)), h)
	if rec1.Code != http.StatusAccepted {
		t.Fatalf("first request => want 202, got %d body=%s", rec1.Code, rec1.Body.String())
	}

	rec2 := doReq(t, e, http.MethodPost, "/advices", bytes.NewReader([]byte(`{"x":1}`)), h)
	if rec2.Code != http.StatusAccepted {
		t.Fatalf("replay => want 202, got %d body=%s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler should run once; got %d", calls)
	}
}

func Test_Idempotency_Conflict_InProgress(t *testing.T) {
	rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 2*time.Minute, acceptedHandler)

	body := []byte(`{"x":1}`)
	key := buildKey(http.MethodPost, "/advices", testReqID)
	if ok, err := provisionalSet(context.Background(), rdb, key, idempEntry{
		InProgress: true,
		BodySHA256: bodyHash(body),
		CreatedAt:  time.Now().UTC(),
	}); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/advices", bytes.NewReader(body),
		map[string]string{"X-Request-Id": testReqID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Idempotency_Conflict_DifferentBody(t *testing.T) {
	rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 2*time.Minute, acceptedHandler)

	key := buildKey(http.MethodPost, "/advices", testReqID)
	if err := saveFinal(context.Background(), rdb, key, idempEntry{
		InProgress: false,
		Code:       http.StatusAccepted,
		Body:       []byte(`{"status":"challenge_sent"}`),
		BodySHA256: bodyHash([]byte(`{"x":1}`)),
		CreatedAt:  time.Now().UTC(),
	}, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/advices", bytes.NewReader([]byte(`{"x":2}`)),
		map[string]string{"X-Request-Id": testReqID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("same id different body => want 409, got %d", rec.Code)
	}
}

func Test_Idempotency_StoreUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	e := setupEcho(rdb, time.Minute, acceptedHandler)

	rec := doReq(t, e, http.MethodPost, "/advices", bytes.NewReader([]byte(`{}`)),
		map[string]string{"X-Request-Id": testReqID})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
