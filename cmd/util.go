package cmd

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

var (
	greenCheck = color.New(color.FgGreen).Sprint("✔")
	redCross   = color.New(color.FgRed).Sprint("✖")
	yellowWarn = color.New(color.FgYellow).Sprint("!")

	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

// BeQuietError signals Execute that the failure was already logged in a
// readable form and must not be logged again.
type BeQuietError struct{}

func (BeQuietError) Error() string {
	return "command failed"
}

func logSuccess(format string, args ...any) {
	log.Info().Msgf("%s "+format, append([]any{greenCheck}, args...)...)
}

func logError(err error, format string, args ...any) error {
	log.Error().Msgf("%s "+format, append([]any{redCross}, args...)...)
	log.Error().Msgf("error: %v", err)
	return BeQuietError{}
}

// truncate shortens s to maxLen runes. Remote diagnostic bodies are not
// guaranteed to be ASCII, so slicing happens on rune boundaries.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
