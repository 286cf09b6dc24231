package domain

import "testing"

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "plain http", input: "http://example.com", want: true},
		{name: "plain https", input: "https://example.com/recipes/42", want: true},
		{name: "with query and fragment", input: "https://example.com/r?id=1#steps", want: true},
		{name: "with port", input: "https://example.com:8443/r", want: true},
		{name: "empty string", input: "", want: false},
		{name: "whitespace only", input: "   \t ", want: false},
		{name: "ftp scheme", input: "ftp://example.com/file", want: false},
		{name: "javascript scheme", input: "javascript:alert(1)", want: false},
		{name: "scheme only", input: "https://", want: false},
		{name: "no scheme", input: "example.com/recipe", want: false},
		{name: "garbage", input: "ht tp://bro ken", want: false},
		{name: "leading whitespace tolerated", input: "  https://example.com", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidURL(tt.input); got != tt.want {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple host", input: "https://example.com/recipes/1", want: "example.com"},
		{name: "subdomain", input: "https://www.kurashiru.com/recipes/x", want: "www.kurashiru.com"},
		{name: "port stripped", input: "http://example.com:8080/r", want: "example.com"},
		{name: "invalid url", input: "not a url", want: ""},
		{name: "wrong scheme", input: "ftp://example.com", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.input); got != tt.want {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
