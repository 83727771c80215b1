package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		l, err := New(env, "debug")
		if err != nil {
			t.Fatalf("New(%s): %v", env, err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("%s logger should enable debug", env)
		}
	}
}

func TestFromGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if FromGin(c) == nil {
		t.Fatalf("expected fallback logger")
	}

	l := zap.NewNop()
	c.Set(ContextLogger, l)
	if FromGin(c) != l {
		t.Fatalf("expected request logger")
	}
}
