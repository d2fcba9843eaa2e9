package parser

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// MinDescriptionLength is the shortest description worth parsing.
	MinDescriptionLength = 10
	// MaxDescriptionLength caps input size before any pattern matching runs.
	MaxDescriptionLength = 2000
)

var (
	ErrDescriptionTooShort = errors.New("strategy description is too short")
	ErrDescriptionTooLong  = errors.New("strategy description is too long")
	ErrDescriptionBlocked  = errors.New("strategy description contains disallowed content")
)

// Descriptions are free text from untrusted users. Anything that looks like
// code, script injection or probing is rejected before parsing.
var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)script`),
	regexp.MustCompile(`(?i)eval`),
	regexp.MustCompile(`(?i)function`),
	regexp.MustCompile(`\(\)\s*=>`),
	regexp.MustCompile(`(?i)import\s+`),
	regexp.MustCompile(`(?i)require\s*\(`),
	regexp.MustCompile(`(?i)exec\s*\(`),
	regexp.MustCompile(`(?i)system\s*\(`),
	regexp.MustCompile(`(?i)process\s*\.`),
	regexp.MustCompile(`(?i)window\s*\.`),
	regexp.MustCompile(`(?i)document\s*\.`),
	regexp.MustCompile(`(?i)localStorage`),
	regexp.MustCompile(`(?i)sessionStorage`),
	regexp.MustCompile(`(?i)fetch\s*\(`),
	regexp.MustCompile(`(?i)xmlhttprequest`),
	regexp.MustCompile(`(?i)websocket`),
	regexp.MustCompile(`\$\{.*\}`),
	regexp.MustCompile(`(?i)backdoor`),
	regexp.MustCompile(`(?i)exploit`),
	regexp.MustCompile(`(?i)hack`),
	regexp.MustCompile(`(?i)malware`),
}

// Validate checks a free-text strategy description before it reaches the
// parser. It enforces length bounds and rejects descriptions matching any
// blocked pattern.
func Validate(description string) error {
	if len(description) < MinDescriptionLength {
		return fmt.Errorf("%w: need at least %d characters", ErrDescriptionTooShort, MinDescriptionLength)
	}

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: limit is %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}

	for _, pattern := range blockedPatterns {
		if pattern.MatchString(description) {
			return fmt.Errorf("%w: use only trading-related terms", ErrDescriptionBlocked)
		}
	}

	return nil
}
