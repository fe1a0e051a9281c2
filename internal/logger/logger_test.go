package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestInitHonorsLogLevelEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	Init()
	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Errorf("global level = %s, want debug", got)
	}
}

func TestInitDefaultsToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	Init()
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level = %s, want info", got)
	}

	t.Setenv("LOG_LEVEL", "chatty")
	Init()
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level after bad value = %s, want info", got)
	}
}
