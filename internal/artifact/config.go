package artifact

// Config controls artifact generation.
type Config struct {
	Language    string
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		Language:    "en",
		MaxTokens:   8000,
		Temperature: 0.7,
	}
}
