package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_StripsTagsAndEntities(t *testing.T) {
	in := "<p>Hello&nbsp;&amp; welcome</p><br>Next line"
	out := Sanitize(in, 1000)
	assert.Equal(t, "Hello & welcome\n\nNext line", out)
}

func TestSanitize_DecodesNumericEntitiesBeforeScrubbing(t *testing.T) {
	// &#64; is '@'; if entities are not decoded before the email regex
	// runs, the encoded address would leak through untouched.
	in := "Contact john&#64;example.com for details"
	out := Sanitize(in, 1000)
	assert.NotContains(t, out, "@")
	assert.NotContains(t, out, "john@example.com")
}

func TestSanitize_RemovesJoinBlockAndSurroundingLines(t *testing.T) {
	in := strings.Join([]string{
		"Agenda review",
		"Join Microsoft Teams Meeting",
		"Meeting ID: 123 456 789",
		"Passcode: abc123",
		"Call in +1-555-0100",
		"Audio conferencing",
		"Find a local number",
		"See you there",
	}, "\n")
	out := Sanitize(in, 1000)
	assert.Contains(t, out, "See you there")
	assert.NotContains(t, strings.ToLower(out), "passcode")
	assert.NotContains(t, strings.ToLower(out), "meeting id")
}

func TestSanitize_ScrubsURLsEmailsPhonesAndLongIds(t *testing.T) {
	in := "Visit https://example.com/join or www.example.org, email a@b.com, call 555-123-4567, ref 1234567890"
	out := Sanitize(in, 1000)
	assert.NotContains(t, out, "http")
	assert.NotContains(t, out, "www.")
	assert.NotContains(t, out, "@")
	assert.NotContains(t, out, "1234567890")
}

func TestSanitize_TruncatesToMaxChars(t *testing.T) {
	in := strings.Repeat("a", 50)
	out := Sanitize(in, 10)
	require.LessOrEqual(t, len(out), 10)
}

func TestSanitize_NeverFails(t *testing.T) {
	assert.Equal(t, "", Sanitize("", 100))
	assert.NotPanics(t, func() { Sanitize("<<<>>>&&&", 10) })
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello &amp; <b>world</b></p><br>Call 555-000-1111 or visit https://x.com",
		"Join Zoom Meeting\nPasscode: 999\nOne tap mobile\nThanks",
		"plain text with no markup at all",
	}
	for _, in := range inputs {
		once := Sanitize(in, 2000)
		twice := Sanitize(once, 2000)
		assert.Equal(t, once, twice, "sanitize should be idempotent for input %q", in)
	}
}
