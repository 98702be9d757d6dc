package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	StateDir  string
	Ephemeral bool
	Verbose   bool

	// AI flags
	AIProvider  string
	GeminiModel string
	OpenAIModel string

	// Audio flags
	AudioProvider string
	AudioFormat   string
	OpenAIVoice   string
	NoPlay        bool

	// Voice capture
	Recorder string

	// Per-command flags
	Speak   bool
	Yes     bool
	Archive bool
	Add     bool
	All     bool
	Page    int
	Search  string
	SortBy  string
	Letter  string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		AIProvider:    "gemini",
		AudioProvider: "gemini",
		AudioFormat:   "wav",
		OpenAIVoice:   "coral",
		SortBy:        "alpha-es",
		Letter:        "All",
		Page:          1,
	}
}
