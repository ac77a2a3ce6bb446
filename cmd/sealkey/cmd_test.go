package main

import (
	"context"
	"strings"
	"testing"

	"github.com/samasastudio/sq-gendash/internal/config"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

func TestReadKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "trims newline", input: "demo-key\n", want: "demo-key"},
		{name: "no newline", input: "  demo-key ", want: "demo-key"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank line", input: "   \n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readKey(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestRunRequiresKeyName(t *testing.T) {
	log := logger.New("error", logger.NewCloudRunHandler)
	err := run(context.Background(), &config.Config{}, log, strings.NewReader("demo-key\n"), "")
	if err == nil || !strings.Contains(err.Error(), "KMSKEYNAME") {
		t.Fatalf("expected missing key name error, got %v", err)
	}
}
