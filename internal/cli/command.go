package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/palabra/internal"
)

// Action names a subcommand handled by the processor
type Action string

const (
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
	ActionRecent Action = "recent"
	ActionClean  Action = "clean"
	ActionClear  Action = "clear"
	ActionExport Action = "export"
	ActionImport Action = "import"
	ActionRandom Action = "random"
	ActionSpeak  Action = "speak"
	ActionListen Action = "listen"
	ActionQuiz   Action = "quiz"
	ActionLang   Action = "lang"
	ActionModels Action = "models"
)

// Runner executes an action. It is called after flags and config are parsed.
type Runner func(cmd *cobra.Command, action Action, args []string) error

// DefaultStateDir returns the directory holding the word database
func DefaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "palabra")
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, run Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "palabra",
		Short: "Spanish/Russian vocabulary trainer",
		Long: `palabra keeps a personal list of Spanish words with their Russian
translations and drills them with a multiple-choice quiz.

Translations, mnemonic hints, pronunciation and dictation are provided by
Gemini or OpenAI and fail softly when no API key is configured.

Examples:
  palabra add perro               # Add a word, translating it automatically
  palabra add gato кот --speak    # Add a pair and pronounce it
  palabra list --letter P         # Browse words starting with P
  palabra quiz                    # Start a quiz over all words`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, ActionRecent, args)
		},
		SilenceUsage: true,
	}

	setupFlags(rootCmd, flags)

	commands := []struct {
		action Action
		use    string
		short  string
		args   cobra.PositionalArgs
		flags  func(cmd *cobra.Command)
	}{
		{ActionAdd, "add <spanish> [russian]", "Add a word, translating it when the Russian side is missing", cobra.RangeArgs(1, 2), func(cmd *cobra.Command) {
			cmd.Flags().BoolVar(&flags.Speak, "speak", false, "Pronounce the word after adding it")
		}},
		{ActionEdit, "edit <id> <spanish> <russian>", "Replace the text of an entry", cobra.ExactArgs(3), nil},
		{ActionDelete, "delete <id>...", "Delete entries by id", cobra.MinimumNArgs(1), nil},
		{ActionList, "list", "List words with search, letter filter and sorting", cobra.NoArgs, func(cmd *cobra.Command) {
			cmd.Flags().StringVarP(&flags.Search, "search", "s", "", "Case-insensitive substring in either language")
			cmd.Flags().StringVar(&flags.SortBy, "sort", flags.SortBy, "Sort order: alpha-es or alpha-ru")
			cmd.Flags().StringVarP(&flags.Letter, "letter", "l", flags.Letter, "Only words starting with this letter (All for every word)")
			cmd.Flags().IntVarP(&flags.Page, "page", "p", flags.Page, "Show this many pages of results")
			cmd.Flags().BoolVar(&flags.All, "all", false, "Show every matching word")
		}},
		{ActionRecent, "recent", "Show the most recently added words", cobra.NoArgs, nil},
		{ActionClean, "clean [junk|duplicates|all]", "Remove junk entries and duplicates", cobra.MaximumNArgs(1), func(cmd *cobra.Command) {
			cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Do not ask for confirmation")
			cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Write a snapshot of the list before deleting")
		}},
		{ActionClear, "clear", "Delete every word", cobra.NoArgs, func(cmd *cobra.Command) {
			cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Do not ask for confirmation")
			cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Write a snapshot of the list before deleting")
		}},
		{ActionExport, "export [file]", "Export all words to a text file", cobra.MaximumNArgs(1), nil},
		{ActionImport, "import <file>", "Import words from an exported text file", cobra.ExactArgs(1), nil},
		{ActionRandom, "random", "Suggest a random common word", cobra.NoArgs, func(cmd *cobra.Command) {
			cmd.Flags().StringVarP(&flags.Letter, "letter", "l", flags.Letter, "Starting letter (All for any)")
			cmd.Flags().BoolVar(&flags.Add, "add", false, "Add the suggested word")
		}},
		{ActionSpeak, "speak <text>", "Pronounce Spanish text", cobra.MinimumNArgs(1), nil},
		{ActionListen, "listen", "Dictate a Spanish word with the microphone", cobra.NoArgs, func(cmd *cobra.Command) {
			cmd.Flags().BoolVar(&flags.Add, "add", false, "Add the transcribed word")
		}},
		{ActionQuiz, "quiz", "Run a multiple-choice quiz over all words", cobra.NoArgs, nil},
		{ActionLang, "lang [en|ru]", "Show or set the interface language", cobra.MaximumNArgs(1), nil},
		{ActionModels, "models", "List available OpenAI models for the current API key", cobra.NoArgs, nil},
	}

	for _, c := range commands {
		action := c.action
		cmd := &cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  c.args,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, action, args)
			},
		}
		if c.flags != nil {
			c.flags(cmd)
		}
		rootCmd.AddCommand(cmd)
	}

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	// Global flags
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.palabra.yaml)")
	pf.StringVar(&flags.StateDir, "state-dir", DefaultStateDir(), "Directory holding the word database")
	pf.BoolVar(&flags.Ephemeral, "ephemeral", false, "Keep words in memory only")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	// AI flags
	pf.StringVar(&flags.AIProvider, "ai-provider", flags.AIProvider, "Text and transcription provider: gemini or openai")
	pf.StringVar(&flags.GeminiModel, "gemini-model", "", "Gemini model for text and transcription")
	pf.StringVar(&flags.OpenAIModel, "openai-model", "", "OpenAI chat model for text")

	// Audio flags
	pf.StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "Speech provider: gemini, openai or espeak")
	pf.StringVarP(&flags.AudioFormat, "format", "f", flags.AudioFormat, "Audio format (wav or mp3)")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	pf.BoolVar(&flags.NoPlay, "no-play", false, "Generate audio without playing it")
	pf.StringVar(&flags.Recorder, "recorder", "", "Recording command: arecord or rec (default: first one found)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	viper.BindPFlag("state.directory", pf.Lookup("state-dir"))
	viper.BindPFlag("ai.provider", pf.Lookup("ai-provider"))
	viper.BindPFlag("ai.gemini_model", pf.Lookup("gemini-model"))
	viper.BindPFlag("ai.openai_model", pf.Lookup("openai-model"))
	viper.BindPFlag("audio.provider", pf.Lookup("audio-provider"))
	viper.BindPFlag("audio.format", pf.Lookup("format"))
	viper.BindPFlag("audio.openai_voice", pf.Lookup("openai-voice"))
	viper.BindPFlag("voice.recorder", pf.Lookup("recorder"))
}

// ApplyConfig copies config file values into flags the user did not set
// on the command line
func ApplyConfig(flags *Flags) {
	flags.StateDir = viper.GetString("state.directory")
	flags.AIProvider = viper.GetString("ai.provider")
	flags.GeminiModel = viper.GetString("ai.gemini_model")
	flags.OpenAIModel = viper.GetString("ai.openai_model")
	flags.AudioProvider = viper.GetString("audio.provider")
	flags.AudioFormat = viper.GetString("audio.format")
	flags.OpenAIVoice = viper.GetString("audio.openai_voice")
	flags.Recorder = viper.GetString("voice.recorder")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// API keys may live in a .env file next to the working directory
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".palabra" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".palabra")
	}

	// Environment variables
	viper.SetEnvPrefix("PALABRA")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("ai.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("ai.gemini_key")
}

// NewLogger builds the console logger. Only warnings and errors are shown
// unless verbose is set.
func NewLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
