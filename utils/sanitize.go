package utils

import "github.com/microcosm-cc/bluemonday"

var ugcPolicy = bluemonday.UGCPolicy()

// TextCleaner rewrites user supplied text before it is stored.
type TextCleaner func(string) string

// Sanitize strips markup that is unsafe in user generated content.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// KeepText returns input unchanged.
func KeepText(input string) string {
	return input
}

// CleanerFor returns Sanitize when enabled, KeepText otherwise.
func CleanerFor(enabled bool) TextCleaner {
	if enabled {
		return Sanitize
	}
	return KeepText
}
