// Package sanitize cleans user-provided free text before it is stored.
// Contact notes, company names and campaign descriptions are plain text in
// this application; any markup a client sends is stripped with bluemonday's
// strict policy so a pasted <script> never reaches another user's browser.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared strict policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips every HTML element from input and trims surrounding space.
// Entities produced by the policy are unescaped again so "R&D" survives a
// round-trip unchanged.
func Text(input string) string {
	if input == "" {
		return ""
	}
	cleaned := getPolicy().Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// TextPtr applies Text to an optional field, keeping nil as nil.
func TextPtr(input *string) *string {
	if input == nil {
		return nil
	}
	out := Text(*input)
	return &out
}
