package config

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ALPHACACHETTLDAILY", "")
	t.Setenv("DATASETCONCURRENCY", "zero")

	cfg := New()
	if cfg.Port != 8080 {
		t.Fatalf("expected default port, got %d", cfg.Port)
	}
	if cfg.AlphaCacheTTLDaily != 6*time.Hour || cfg.AlphaCacheTTLIntraday != 15*time.Minute {
		t.Fatalf("unexpected cache ttls %v %v", cfg.AlphaCacheTTLDaily, cfg.AlphaCacheTTLIntraday)
	}
	if cfg.DatasetConcurrency != 4 {
		t.Fatalf("expected default concurrency, got %d", cfg.DatasetConcurrency)
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALPHACACHETTLDAILY", "90m")
	t.Setenv("ALPHACACHETTLINTRADAY", "60000")
	t.Setenv("VERTEXMODEL", "gemini-2.0-flash")
	t.Setenv("FIRESTOREDATABASE", "gendash")

	cfg := New()
	if cfg.Port != 9090 || cfg.VertexModel != "gemini-2.0-flash" || cfg.FirestoreDatabase != "gendash" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.AlphaCacheTTLDaily != 90*time.Minute {
		t.Fatalf("expected duration parse, got %v", cfg.AlphaCacheTTLDaily)
	}
	if cfg.AlphaCacheTTLIntraday != time.Minute {
		t.Fatalf("expected millisecond parse, got %v", cfg.AlphaCacheTTLIntraday)
	}
}
