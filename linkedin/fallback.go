// Package linkedin holds the client-side pieces of the post generation
// flow: the deterministic fallback used when the backend call fails, and
// small helpers around generated posts.
package linkedin

import (
	"fmt"
	"strings"

	"github.com/jmorales/scout/api"
)

// fallbackHeadlineMax is the rune budget for the fallback post headline
const fallbackHeadlineMax = 100

// FallbackPost builds a post locally from the research content so the user
// is never left with nothing when generation fails. The output depends only
// on the input.
func FallbackPost(content string) string {
	headline := firstLine(content)
	if headline == "" {
		headline = "Insights from recent research"
	}

	return fmt.Sprintf(`💡 %s

Here's what you need to know:

→ Key insights from the research
→ Important implications for the field
→ Practical applications

What are your thoughts on this? 💭

#Research #Innovation #Insights`, headline)
}

// FallbackGenerated wraps the fallback post in the shape the generate
// endpoint returns, so callers render one type either way
func FallbackGenerated(content string) *api.GeneratedPost {
	post := FallbackPost(content)
	return &api.GeneratedPost{
		Hook:           firstLine(content),
		MainContent:    post,
		Hashtags:       []string{"#Research", "#Innovation", "#Insights"},
		FullPost:       post,
		EmojisUsed:     []string{"💡", "💭"},
		CharacterCount: CharacterCount(post),
	}
}

// CharacterCount counts characters the way the backend does, by rune
func CharacterCount(post string) int {
	return len([]rune(post))
}

func firstLine(content string) string {
	line := content
	if idx := strings.IndexByte(line, '\n'); idx != -1 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if len(runes) > fallbackHeadlineMax {
		line = string(runes[:fallbackHeadlineMax])
	}
	return line
}
