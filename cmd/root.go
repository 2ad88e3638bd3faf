package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "career-interviewer"

	defaultDatabase = "career.db"
)

type Config struct {
	Database             string             `mapstructure:"database"`
	User                 string             `mapstructure:"user"`
	ExampleQuestionsFile string             `mapstructure:"example-questions-file"`
	Interview            *InterviewConfig   `mapstructure:"interview"`
	Suggestions          *SuggestionsConfig `mapstructure:"suggestions"`
	AI                   *AIConfig          `mapstructure:"ai"`
	Resume               *ResumeConfig      `mapstructure:"resume"`
	Coursera             *CourseraConfig    `mapstructure:"coursera"`
}

type InterviewConfig struct {
	MaxFollowups         int           `mapstructure:"max-followups"`
	SuggestionAttempts   int           `mapstructure:"suggestion-attempts"`
	SuggestionRetryDelay time.Duration `mapstructure:"suggestion-retry-delay"`
}

type SuggestionsConfig struct {
	Max                int      `mapstructure:"max"`
	ExcludeOccupations []string `mapstructure:"exclude-occupations"`
	Disable            []string `mapstructure:"disable"`
}

// AIConfig selects the text generation provider. Embeddings names the
// provider used to index resumes; empty disables resume indexing.
type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	Embeddings   string        `mapstructure:"embeddings"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	Ollama       *OllamaConfig `mapstructure:"ollama"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OllamaConfig struct {
	Host           string `mapstructure:"host"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
}

type OpenAIConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	BaseURL        string `mapstructure:"base-url"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
}

type ResumeConfig struct {
	ChunkSize    int    `mapstructure:"chunk-size"`
	ChunkOverlap int    `mapstructure:"chunk-overlap"`
	TopK         int    `mapstructure:"top-k"`
	TikaURL      string `mapstructure:"tika-url"`
}

type CourseraConfig struct {
	Credentials       string  `mapstructure:"credentials"`
	CredentialsFile   string  `mapstructure:"credentials-file"`
	Limit             int     `mapstructure:"limit"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-interviewer runs an adaptive career interview and suggests career pathways",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"database":                  "CAREER_DB",
		"user":                      "CAREER_USER",
		"ai.gemini.api-key-file":    "GEMINI_API_KEY_FILE",
		"ai.openai.api-key-file":    "OPENAI_API_KEY_FILE",
		"coursera.credentials-file": "COURSERA_CREDENTIALS_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("database", defaultDatabase)
	viper.SetDefault("ai.provider", "gemini")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-interviewer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("user", "u", "", "username of the respondent")
	rootCmd.PersistentFlags().String("database", "", "path to the sqlite database (default is career.db)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
}

func initConfig() {
	// The version command needs no config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()

	// A missing default config is fine: everything has a default or an env binding.
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (cfgFile != "" || !errors.As(err, &notFound)) {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}
	if config.Suggestions == nil {
		config.Suggestions = &SuggestionsConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.Resume == nil {
		config.Resume = &ResumeConfig{}
	}

	return config, nil
}
