package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "single", content: "hello #world @alice", want: []string{"#world"}},
		{name: "at start", content: "#go is fun", want: []string{"#go"}},
		{name: "case and repeats kept", content: "#Go #go #Go", want: []string{"#Go", "#go", "#Go"}},
		{name: "needs leading whitespace", content: "email me at a#b or c#d", want: nil},
		{name: "stops at punctuation", content: "love #golang!", want: []string{"#golang"}},
		{name: "underscores and digits", content: "\t#web_3 and #2024", want: []string{"#web_3", "#2024"}},
		{name: "bare hash", content: "# heading", want: nil},
		{name: "non-ascii letters", content: "vamos #año #café #niño", want: []string{"#año", "#café", "#niño"}},
		{name: "combining marks", content: "#cafe\u0301 time", want: []string{"#cafe\u0301"}},
		{name: "no-break space separator", content: "hola\u00a0#mundo", want: []string{"#mundo"}},
		{name: "cjk", content: "今日 #東京", want: []string{"#東京"}},
		{name: "none", content: "plain text", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHashtags(tt.content))
		})
	}
}

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "single", content: "hello #world @alice", want: []string{"alice"}},
		{name: "several", content: "@bob and @carol_2", want: []string{"bob", "carol_2"}},
		{name: "email is not a mention", content: "write to me@example.com", want: nil},
		{name: "non-ascii username", content: "hola @josé", want: []string{"josé"}},
		{name: "after no-break space", content: "hi\u00a0@zoë!", want: []string{"zoë"}},
		{name: "none", content: "nothing here", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.content))
		})
	}
}
