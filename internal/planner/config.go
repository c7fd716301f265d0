package planner

// Config tunes curriculum planning.
type Config struct {
	// Language selects the prompt bundle language.
	Language string

	// MaxRecordOutputChars bounds each record's system-output text in
	// the prompt. Zero disables truncation.
	MaxRecordOutputChars int

	// MaxTokens caps the completion length.
	MaxTokens int

	// Temperature for the completion call.
	Temperature float64
}

// DefaultConfig returns planner defaults.
func DefaultConfig() Config {
	return Config{
		Language:             "en",
		MaxRecordOutputChars: 2000,
		MaxTokens:            8000,
		Temperature:          0.5,
	}
}
