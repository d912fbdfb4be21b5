package main

import (
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr error
	}{
		{url: "http://127.0.0.1:8088"},
		{url: "https://twc.local/"},
		{url: "ftp://127.0.0.1:8088", wantErr: ErrInvalidScheme},
		{url: "http://", wantErr: ErrEmptyHost},
	}

	for _, tt := range tests {
		_, err := validateURL(tt.url, httpProto)
		if err != tt.wantErr {
			t.Errorf("validateURL(%q) = %v, want %v", tt.url, err, tt.wantErr)
		}
	}

	if _, err := validateURL("127.0.0.1:8088", httpProto); err == nil {
		t.Error("validateURL without scheme: expected error")
	}
}

func TestValidateLogFormat(t *testing.T) {
	for _, f := range []string{textLogFormat, jsonLogFormat} {
		if err := validateLogFormat(f); err != nil {
			t.Errorf("validateLogFormat(%q): unexpected error: %v", f, err)
		}
	}

	if err := validateLogFormat("xml"); err == nil {
		t.Error("validateLogFormat(\"xml\"): expected error")
	}
}

func TestNewRand(t *testing.T) {
	r1, seed := newRand(42)
	if seed != 42 {
		t.Fatalf("seed = %d, want 42", seed)
	}

	r2, _ := newRand(42)
	for i := 0; i < 10; i++ {
		if a, b := r1.Int63(), r2.Int63(); a != b {
			t.Fatalf("same seed produced different values: %d != %d", a, b)
		}
	}

	_, seed = newRand(0)
	if seed == 0 {
		t.Error("zero seed must be replaced")
	}
}
