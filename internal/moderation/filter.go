// Package moderation screens user-generated text (sighting notes, sanctuary
// descriptions) before it reaches storage.
package moderation

import (
	"regexp"
	"strings"
)

var bannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"retard", "retarded",
	"spam", "scam", "scammer", "phishing", "malware",
}

// Filter applies the banned-word and spam-pattern checks. Safe for
// concurrent use once constructed.
type Filter struct {
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
}

func NewFilter() *Filter {
	f := &Filter{}
	f.bannedWordRegexps = make([]*regexp.Regexp, 0, len(bannedWords))
	for _, word := range bannedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		if re, err := regexp.Compile(pattern); err == nil {
			f.bannedWordRegexps = append(f.bannedWordRegexps, re)
		}
	}
	f.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	f.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	f.repeatedCharPattern = regexp.MustCompile(`(?i)(a{5,}|b{5,}|c{5,}|d{5,}|e{5,}|f{5,}|g{5,}|h{5,}|i{5,}|j{5,}|k{5,}|l{5,}|m{5,}|n{5,}|o{5,}|p{5,}|q{5,}|r{5,}|s{5,}|t{5,}|u{5,}|v{5,}|w{5,}|x{5,}|y{5,}|z{5,}|!{5,}|\?{5,}|\.{5,})`)
	return f
}

// Check reports whether the text is acceptable; when it is not, the second
// return value is a machine-readable rejection reason.
func (f *Filter) Check(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return true, ""
	}
	for _, re := range f.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if f.urlPattern.MatchString(text) {
		return false, "url_not_allowed"
	}
	if f.phonePattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if f.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	return true, ""
}

// RejectionMessage maps a rejection reason onto user-facing text.
func RejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language":   "Your note contains inappropriate language.",
		"url_not_allowed":          "URLs and web links are not allowed in notes.",
		"contact_info_not_allowed": "Phone numbers are not allowed in notes.",
		"spam_detected":            "Your note appears to be spam.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "Your note does not meet our content guidelines."
}
