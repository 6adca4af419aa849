// Package tags extracts hashtags and mentions from snap content and records them.
package tags

import (
	"regexp"
	"strings"
)

var (
	hashtagPattern = regexp.MustCompile(`(?:^|[\s\p{Z}])(#[\p{L}\p{N}\p{M}_]+)`)
	mentionPattern = regexp.MustCompile(`(?:^|[\s\p{Z}])(@[\p{L}\p{N}\p{M}_]+)`)
)

// ExtractHashtags returns every #token that starts the content or follows
// whitespace (Unicode spaces included), in order of appearance. Token bodies
// are letters, digits, marks and '_' in any script. Names keep their leading
// '#' and case, and repeated tokens are kept.
func ExtractHashtags(content string) []string {
	return extract(hashtagPattern, content)
}

// ExtractMentions returns the usernames of every @token, without the '@'
func ExtractMentions(content string) []string {
	tokens := extract(mentionPattern, content)
	for i, tok := range tokens {
		tokens[i] = strings.TrimPrefix(tok, "@")
	}
	return tokens
}

func extract(pattern *regexp.Regexp, content string) []string {
	matches := pattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
