package model

import (
	"testing"
	"unicode/utf8"
)

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "****"},
		{"ab", "****"},
		{"alice", "a..."},
		{"alice-at-home", "ali...me"},
		{"小明的储蓄罐钥匙", "小..."},
		{"小明的储蓄罐钥匙很长", "小明的...很长"},
	}
	for _, tt := range tests {
		got := MaskKey(tt.key)
		if got != tt.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("MaskKey(%q) = %q is not valid UTF-8", tt.key, got)
		}
	}
}
