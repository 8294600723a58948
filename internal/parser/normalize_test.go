package parser

import "testing"

func TestNormalizeTextFoldsFullwidth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"digits", "３月１５日", "3月15日"},
		{"colon", "日時：９時", "日時:9時"},
		{"slash", "３／１５", "3/15"},
		{"space", "遠足　のお知らせ", "遠足 のお知らせ"},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"trailing blanks collapse", "a\n\n\n\n\nb", "a\n\nb"},
		{"kanji untouched", "持ち物", "持ち物"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Fatalf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTextTrimsLineEnds(t *testing.T) {
	if got := NormalizeText("abc   \ndef\t"); got != "abc\ndef" {
		t.Fatalf("NormalizeText = %q, want %q", got, "abc\ndef")
	}
}
