package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"HTTPServerError", []string{"HTTP", "Server", "Error"}},
		{"camelCase", []string{"camel", "Case"}},
		{"HTMLParser", []string{"HTML", "Parser"}},
		{"parseHTMLFile", []string{"parse", "HTML", "File"}},
		{"Customer", []string{"Customer"}},
		{"mgr", []string{"mgr"}},
		{"I", []string{"I"}},
		{"getX", []string{"get", "X"}},
		{"value2", []string{"value", "2"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitWords(tt.name))
		})
	}
}

func TestStartsWithUpperCase(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Foo", true},
		{"foo", false},
		{"Z", true},
		{"_Foo", false},
		{"Éclair", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := StartsWithUpperCase(tt.name); got != tt.want {
			t.Errorf("StartsWithUpperCase(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFlipFirst(t *testing.T) {
	assert.Equal(t, "Customer", FlipFirst("customer", true))
	assert.Equal(t, "customerID", FlipFirst("CustomerID", false))
	assert.Equal(t, "Éclair", FlipFirst("éclair", true))
	assert.Equal(t, "_x", FlipFirst("_x", true))
	assert.Equal(t, "", FlipFirst("", true))
}
