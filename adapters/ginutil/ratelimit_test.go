package ginutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
)

type limiterFunc func(ctx context.Context, bucket, key string) (bool, error)

func (f limiterFunc) Allow(ctx context.Context, bucket, key string) (bool, error) {
	return f(ctx, bucket, key)
}

func testContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, LoginStartPath, nil)
	return c
}

func TestAllowNamed_LimiterErrorFailsOpenAndLogs(t *testing.T) {
	log, hook := test.NewNullLogger()
	rl := limiterFunc(func(context.Context, string, string) (bool, error) {
		return false, errors.New("redis down")
	})
	if !AllowNamed(testContext(), rl, RLLoginStart, log) {
		t.Fatalf("expected limiter outage to allow the request")
	}
	e := hook.LastEntry()
	if e == nil || e.Message != "rate limiter unavailable" || e.Data["bucket"] != RLLoginStart {
		t.Fatalf("expected warning on the supplied logger, got %+v", e)
	}
}

func TestAllowNamed_DenyAndNil(t *testing.T) {
	log, _ := test.NewNullLogger()
	var seen string
	rl := limiterFunc(func(_ context.Context, _ string, key string) (bool, error) {
		seen = key
		return false, nil
	})
	if AllowNamed(testContext(), rl, RLLogout, log) {
		t.Fatalf("expected deny")
	}
	if seen != "192.0.2.1" {
		t.Fatalf("expected limiter keyed on client ip, got %q", seen)
	}
	if !AllowNamed(testContext(), nil, RLLogout, log) {
		t.Fatalf("expected nil limiter to allow")
	}
}
