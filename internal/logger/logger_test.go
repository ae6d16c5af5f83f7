package logger

import (
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(service string, level Level) (*Logger, *observer.ObservedLogs) {
	atom := zap.NewAtomicLevelAt(level)
	core, logs := observer.New(atom)
	return newWithCore(core, atom, service), logs
}

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]Level{
		"":      INFO,
		"debug": DEBUG,
		"WARN":  WARN,
		"error": ERROR,
		"FATAL": FATAL,
		"bogus": INFO,
	}

	for in, want := range cases {
		assert.Equal(t, want, levelFromEnv(in), "LOG_LEVEL=%q", in)
	}
}

func TestLogger_FormatsAndTagsService(t *testing.T) {
	l, logs := newObserved("task-service", DEBUG)

	l.Info("listening on :%s", "8080")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "listening on :8080", entries[0].Message)
		assert.Equal(t, "task-service", entries[0].LoggerName)
		assert.Equal(t, INFO, entries[0].Level)
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	l, logs := newObserved("svc", WARN)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	assert.Equal(t, 2, logs.Len())

	l.SetLevel(DEBUG)
	l.Debug("now shown")
	assert.Equal(t, 3, logs.Len())
}

func TestLogger_WithAddsFields(t *testing.T) {
	l, logs := newObserved("svc", INFO)

	l.With("request_id", "abc").Info("handled")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
	}
}

func TestLogger_SetStdLog(t *testing.T) {
	l, logs := newObserved("std", INFO)
	l.SetStdLog()
	defer log.SetOutput(os.Stderr)

	log.Print("from stdlib\n")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "from stdlib", entries[0].Message)
	}
}
