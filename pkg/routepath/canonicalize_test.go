package routepath

import (
	"errors"
	"testing"
)

func TestCanonicalizeNavPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "empty", input: "", want: "/"},
		{name: "root", input: "/", want: "/"},
		{name: "collapse", input: "/a//b", want: "/a/b"},
		{name: "dots", input: "/a/./b/../c", want: "/a/c"},
		{name: "trailing slash kept", input: "/a/b/", want: "/a/b/"},
		{name: "query and hash kept", input: "/a/../b?x=../y#/z", want: "/b?x=../y#/z"},
		{name: "absolute url", input: "https://evil.com/a", wantErr: ErrAbsoluteURL},
		{name: "protocol relative", input: "//evil.com", wantErr: ErrAbsoluteURL},
		{name: "relative", input: "a/b", wantErr: ErrInvalidPath},
		{name: "backslash", input: "/a\\b", wantErr: ErrBackslashInPath},
		{name: "encoded nul", input: "/a%00", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/a%zz", wantErr: ErrInvalidPercentEscape},
		{name: "truncated escape", input: "/a%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../etc", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalizeNavPath(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanonicalizeNavPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
