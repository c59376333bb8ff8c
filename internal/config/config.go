// Package config provides configuration types and loading for crewboard.
package config

// Config is the root configuration struct.
// Top-level groups: Paths, Store, Providers, Runner, Tools, Trigger, Notify.
type Config struct {
	Paths     PathsConfig     `json:"paths"`
	Store     StoreConfig     `json:"store"`
	Providers ProvidersConfig `json:"providers"`
	Runner    RunnerConfig    `json:"runner"`
	Tools     ToolsConfig     `json:"tools"`
	Trigger   TriggerConfig   `json:"trigger"`
	Notify    NotifyConfig    `json:"notify"`
	Security  SecurityConfig  `json:"security"`
}

// PathsConfig groups filesystem path settings.
type PathsConfig struct {
	Workspace string   `json:"workspace" envconfig:"CREWBOARD_WORKSPACE"`
	SkillsDir string   `json:"skillsDir" envconfig:"CREWBOARD_SKILLS_DIR"`
	FileRoots []string `json:"fileRoots"`
}

// StoreConfig configures the SQLite store.
type StoreConfig struct {
	DBPath string `json:"dbPath" envconfig:"CREWBOARD_DB_PATH"`
}

// ProvidersConfig contains platform-wide LLM provider credentials. These are
// the fallback keys used when a user has no valid BYOK credential.
type ProvidersConfig struct {
	Anthropic ProviderConfig `json:"anthropic"`
	OpenAI    ProviderConfig `json:"openai"`
}

// ProviderConfig contains settings for a single LLM provider.
type ProviderConfig struct {
	APIKey  string `json:"apiKey" envconfig:"API_KEY"`
	APIBase string `json:"apiBase,omitempty" envconfig:"API_BASE"`
}

// RunnerConfig groups agent-run behaviour.
type RunnerConfig struct {
	MaxToolIterations int     `json:"maxToolIterations" envconfig:"CREWBOARD_MAX_TOOL_ITERATIONS"`
	MaxTokens         int     `json:"maxTokens" envconfig:"CREWBOARD_MAX_TOKENS"`
	Temperature       float64 `json:"temperature" envconfig:"CREWBOARD_TEMPERATURE"`
	CommentMaxChars   int     `json:"commentMaxChars" envconfig:"CREWBOARD_COMMENT_MAX_CHARS"`
	RecentComments    int     `json:"recentComments" envconfig:"CREWBOARD_RECENT_COMMENTS"`
}

// ToolsConfig groups tool executor settings.
type ToolsConfig struct {
	ExecTimeoutSeconds int                 `json:"execTimeoutSeconds" envconfig:"CREWBOARD_EXEC_TIMEOUT_SECONDS"`
	MaxOutputChars     int                 `json:"maxOutputChars" envconfig:"CREWBOARD_MAX_OUTPUT_CHARS"`
	ReadMaxLines       int                 `json:"readMaxLines" envconfig:"CREWBOARD_READ_MAX_LINES"`
	FetchMaxChars      int                 `json:"fetchMaxChars" envconfig:"CREWBOARD_FETCH_MAX_CHARS"`
	SearchAPIKey       string              `json:"searchApiKey" envconfig:"CREWBOARD_SEARCH_API_KEY"`
	SearchAPIBase      string              `json:"searchApiBase,omitempty" envconfig:"CREWBOARD_SEARCH_API_BASE"`
	AgentAllowlists    map[string][]string `json:"agentAllowlists"`
	DefaultAllowlist   []string            `json:"defaultAllowlist"`
}

// TriggerConfig configures the Kafka task-event consumer.
type TriggerConfig struct {
	Enabled       bool   `json:"enabled" envconfig:"CREWBOARD_TRIGGER_ENABLED"`
	Brokers       string `json:"brokers" envconfig:"CREWBOARD_KAFKA_BROKERS"`
	Topic         string `json:"topic" envconfig:"CREWBOARD_KAFKA_TOPIC"`
	ConsumerGroup string `json:"consumerGroup" envconfig:"CREWBOARD_KAFKA_CONSUMER_GROUP"`
}

// NotifyConfig configures outbound run notifications.
type NotifyConfig struct {
	SlackEnabled bool   `json:"slackEnabled" envconfig:"CREWBOARD_SLACK_ENABLED"`
	SlackToken   string `json:"slackToken" envconfig:"CREWBOARD_SLACK_TOKEN"`
	SlackChannel string `json:"slackChannel" envconfig:"CREWBOARD_SLACK_CHANNEL"`
}

// SecurityConfig holds the server-side encryption secret for stored API keys.
type SecurityConfig struct {
	EncryptionSecret string `json:"encryptionSecret" envconfig:"CREWBOARD_ENCRYPTION_SECRET"`
}

// DefaultConfig returns a config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Workspace: "~/crewboard",
			SkillsDir: "~/crewboard/skills",
		},
		Store: StoreConfig{
			DBPath: "~/crewboard/crewboard.db",
		},
		Runner: RunnerConfig{
			MaxToolIterations: 10,
			MaxTokens:         4096,
			Temperature:       0.7,
			CommentMaxChars:   4000,
			RecentComments:    5,
		},
		Tools: ToolsConfig{
			ExecTimeoutSeconds: 30,
			MaxOutputChars:     50000,
			ReadMaxLines:       2000,
			FetchMaxChars:      20000,
			DefaultAllowlist:   []string{"web_search", "web_fetch", "read_file"},
		},
		Trigger: TriggerConfig{
			Brokers:       "localhost:9092",
			Topic:         "crewboard.task-events",
			ConsumerGroup: "crewboard-runner",
		},
	}
}
