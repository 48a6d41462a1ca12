package object

import (
	"errors"
	"strings"
	"testing"
)

func TestNewKey(t *testing.T) {
	key, err := NewKey("42", "my resume.pdf")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != "resumes" {
		t.Fatalf("unexpected key layout: %s", key)
	}
	if len(parts[1]) != 64 {
		t.Fatalf("expected hashed owner, got %s", parts[1])
	}
	if !strings.HasSuffix(parts[2], "_my resume.pdf") {
		t.Fatalf("expected file name suffix, got %s", parts[2])
	}

	other, _ := NewKey("42", "my resume.pdf")
	if other == key {
		t.Fatalf("expected unique keys")
	}

	if _, err := NewKey("42", "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "resumes/a/b.pdf", want: "resumes/a/b.pdf"},
		{key: "resumes//a/./b.pdf", want: "resumes/a/b.pdf"},
		{key: "../secret", wantErr: true},
		{key: "/abs/path", wantErr: true},
		{key: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := CleanKey(tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("expected ErrInvalidKey, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("CleanKey(%q) = %q, %v; want %q", tt.key, got, err, tt.want)
			}
		})
	}
}
