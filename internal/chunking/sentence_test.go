package chunking

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text yields no spans",
			text: "",
			want: nil,
		},
		{
			name: "single sentence without trailing space",
			text: "Startups are hard.",
			want: []string{"Startups are hard."},
		},
		{
			name: "two sentences keep punctuation and whitespace attached",
			text: "First. Second.",
			want: []string{"First. ", "Second."},
		},
		{
			name: "punctuation run treated as one terminator",
			text: "Really?! Yes.",
			want: []string{"Really?! ", "Yes."},
		},
		{
			name: "decimal point is not a boundary",
			text: "Growth was 3.5 percent. Good.",
			want: []string{"Growth was 3.5 percent. ", "Good."},
		},
		{
			name: "no qualifying boundary yields whole text",
			text: "a sentence with no terminal punctuation",
			want: []string{"a sentence with no terminal punctuation"},
		},
		{
			name: "newlines after punctuation belong to preceding span",
			text: "One.\n\nTwo.",
			want: []string{"One.\n\n", "Two."},
		},
		{
			name: "trailing whitespace after final terminator stays attached",
			text: "First. Second. ",
			want: []string{"First. ", "Second. "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitSentences(%q) = %q, want %q", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Concatenating the spans must reproduce the input byte for byte.
func TestSplitSentencesLossless(t *testing.T) {
	t.Parallel()

	texts := []string{
		"The way to get startup ideas is not to try to think of startup ideas. It is to look for problems.  Preferably problems you have yourself.",
		"No punctuation at all",
		"Trailing spaces.   ",
		"Ellipsis... then more. And more!",
		"Multi\nline\ntext. With breaks.\n",
	}

	for _, text := range texts {
		spans := SplitSentences(text)
		if got := strings.Join(spans, ""); got != text {
			t.Errorf("concatenated spans = %q, want original %q", got, text)
		}
	}
}
