package voice

import (
	"strings"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// command is one vocabulary entry.
type command struct {
	phrases []string // substring matches
	words   []string // whole-word matches
	action  func(scrollSpeed int) gaze.Action
}

var vocabulary = []command{
	{
		phrases: []string{"left", "select"},
		action:  func(int) gaze.Action { return gaze.Click(gaze.ClickPrimary, gaze.SourceVoice) },
	},
	{
		phrases: []string{"right"},
		action:  func(int) gaze.Action { return gaze.Click(gaze.ClickSecondary, gaze.SourceVoice) },
	},
	{
		phrases: []string{"scroll up"},
		words:   []string{"up"},
		action:  func(speed int) gaze.Action { return gaze.Scroll(speed) },
	},
	{
		phrases: []string{"scroll down"},
		words:   []string{"down"},
		action:  func(speed int) gaze.Action { return gaze.Scroll(-speed) },
	},
	{
		phrases: []string{"double"},
		action:  func(int) gaze.Action { return gaze.Click(gaze.ClickDouble, gaze.SourceVoice) },
	},
}

// Match maps a transcript to an action. Matching is case-insensitive and the
// first vocabulary entry that matches wins.
func Match(text string, scrollSpeed int) (gaze.Action, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return gaze.Action{}, false
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '\'')
	})

	for _, cmd := range vocabulary {
		if cmd.matches(text, words) {
			return cmd.action(scrollSpeed), true
		}
	}
	return gaze.Action{}, false
}

func (c command) matches(text string, words []string) bool {
	for _, p := range c.phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	for _, w := range c.words {
		for _, got := range words {
			if got == w {
				return true
			}
		}
	}
	return false
}
