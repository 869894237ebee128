package ginutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newCodec(t *testing.T, secure bool) *CookieCodec {
	t.Helper()
	cc, err := NewCookieCodec(CookieConfig{Secret: []byte("0123456789abcdef"), Secure: secure})
	if err != nil {
		t.Fatalf("NewCookieCodec: %v", err)
	}
	return cc
}

func TestNewCookieCodec_ShortSecret(t *testing.T) {
	if _, err := NewCookieCodec(CookieConfig{Secret: []byte("short")}); err == nil {
		t.Fatalf("expected error for short secret")
	}
}

func TestCookieCodec_EncodeDecode(t *testing.T) {
	cc := newCodec(t, false)
	v, err := cc.Encode("tok123")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got, ok := cc.Decode(v); !ok || got != "tok123" {
		t.Fatalf("expected round trip, got %q %v", got, ok)
	}
	tampered := "tok124" + v[strings.LastIndexByte(v, '.'):]
	if _, ok := cc.Decode(tampered); ok {
		t.Fatalf("expected tampered token to fail")
	}
	for _, bad := range []string{"", "nodot", ".sig", "tok.", "tok.!!"} {
		if _, ok := cc.Decode(bad); ok {
			t.Fatalf("expected %q to fail", bad)
		}
	}
	other, _ := NewCookieCodec(CookieConfig{Secret: []byte("fedcba9876543210")})
	if _, ok := other.Decode(v); ok {
		t.Fatalf("expected signature under another secret to fail")
	}
}

func TestCookieCodec_SetAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cc := newCodec(t, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if err := cc.Set(c, "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != DefaultSessionCookie || !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteLaxMode || ck.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}
	if ck.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("expected 24h max-age, got %d", ck.MaxAge)
	}

	// Reading it back.
	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Request.AddCookie(ck)
	if tok, ok := cc.Token(c2); !ok || tok != "tok" {
		t.Fatalf("expected token from cookie, got %q %v", tok, ok)
	}
}

func TestCookieCodec_StateCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cc := newCodec(t, false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, CallbackPath, nil)
	c.Request.AddCookie(&http.Cookie{Name: DefaultStateCookie, Value: "st"})
	if got := cc.TakeStateCookie(c); got != "st" {
		t.Fatalf("expected state st, got %q", got)
	}
	cleared := w.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected state cookie to be cleared: %+v", cleared)
	}
}
