package scrape

import "strings"

// BlockType describes the kind of block detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
	BlockDenied     BlockType = "access_denied"
	BlockEmpty      BlockType = "empty"
)

// MinPageChars is the shortest text treated as real page content.
const MinPageChars = 100

// challengeMaxChars bounds the text length at which challenge phrases are
// trusted; longer pages merely mention them.
const challengeMaxChars = 1000

var cloudflareMarkers = []string{"checking your browser", "cf-browser-verification", "just a moment", "attention required"}

var captchaMarkers = []string{"captcha", "recaptcha", "hcaptcha"}

var jsShellMarkers = []string{"enable javascript", "javascript is required", "please enable cookies"}

var deniedMarkers = []string{"access denied", "403 forbidden"}

// DetectBlock reports whether extracted page text is an anti-bot
// interstitial or too short to judge rather than real content.
func DetectBlock(text string) (bool, BlockType) {
	text = strings.TrimSpace(text)
	if len(text) < MinPageChars {
		return true, BlockEmpty
	}
	if len(text) >= challengeMaxChars {
		return false, BlockNone
	}

	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, cloudflareMarkers),
		strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge"):
		return true, BlockCloudflare
	case containsAny(lower, captchaMarkers):
		return true, BlockCaptcha
	case containsAny(lower, jsShellMarkers):
		return true, BlockJSShell
	case containsAny(lower, deniedMarkers):
		return true, BlockDenied
	}
	return false, BlockNone
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
