package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaystackVerifyTransaction(t *testing.T) {
	var (
		mu               sync.Mutex
		gotAuth, gotPath string
	)
	last := func() (string, string) {
		mu.Lock()
		defer mu.Unlock()
		return gotAuth, gotPath
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.EscapedPath()
		mu.Unlock()
		switch r.URL.Path {
		case "/transaction/verify/good-ref":
			fmt.Fprint(w, `{"status":true,"data":{"status":"success","amount":5000}}`)
		case "/transaction/verify/abandoned":
			fmt.Fprint(w, `{"status":true,"data":{"status":"abandoned"}}`)
		case "/transaction/verify/html":
			fmt.Fprint(w, `<html>gateway error</html>`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"status":false,"message":"Transaction reference not found"}`)
		}
	}))
	defer srv.Close()

	client := NewPaystack("sk_test", time.Second)
	client.BaseURL = srv.URL
	ctx := context.Background()

	assert.True(t, client.VerifyTransaction(ctx, "good-ref"))
	auth, path := last()
	assert.Equal(t, "Bearer sk_test", auth)
	assert.Equal(t, "/transaction/verify/good-ref", path)

	assert.False(t, client.VerifyTransaction(ctx, "abandoned"))
	assert.False(t, client.VerifyTransaction(ctx, "bad-ref"))
	assert.False(t, client.VerifyTransaction(ctx, "html"))

	assert.False(t, client.VerifyTransaction(ctx, "a/b"))
	_, path = last()
	assert.Equal(t, "/transaction/verify/a%2Fb", path)
}

func TestPaystackTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewPaystack("sk_test", time.Second)
	client.BaseURL = srv.URL
	assert.False(t, client.VerifyTransaction(context.Background(), "ref"))
}

func TestRecaptchaVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "rc_secret", r.PostForm.Get("secret"))
		ok := r.PostForm.Get("response") == "human"
		fmt.Fprintf(w, `{"success":%t}`, ok)
	}))
	defer srv.Close()

	client := NewRecaptcha("rc_secret", time.Second)
	client.URL = srv.URL

	assert.True(t, client.Verify(context.Background(), "human"))
	assert.False(t, client.Verify(context.Background(), "bot"))
}

func TestTurnstileVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ts_secret", body["secret"])
		fmt.Fprintf(w, `{"success":%t,"error-codes":[]}`, body["response"] == "human")
	}))
	defer srv.Close()

	client := NewTurnstile("ts_secret", time.Second)
	client.URL = srv.URL

	assert.True(t, client.Verify(context.Background(), "human"))
	assert.False(t, client.Verify(context.Background(), "bot"))
}

func TestSiteVerifyGarbageResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream down")
	}))
	defer srv.Close()

	turnstile := NewTurnstile("s", time.Second)
	turnstile.URL = srv.URL
	assert.False(t, turnstile.Verify(context.Background(), "token"))

	recaptcha := NewRecaptcha("s", time.Second)
	recaptcha.URL = srv.URL
	assert.False(t, recaptcha.Verify(context.Background(), "token"))
}
