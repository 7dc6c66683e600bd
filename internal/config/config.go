// Package config loads the engine's configuration from environment
// variables, optionally backed by a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/jordigilh/runbookengine/internal/apperrors"
)

// Config is the complete, validated runtime configuration for the engine.
type Config struct {
	// RunbookMode is the global mode applied to any integration that
	// does not set its own override: "mock" or "live".
	RunbookMode string `validate:"required,oneof=mock live"`

	Mock MockConfig

	ML MLConfig

	ServiceNow ServiceNowConfig
	Datadog    DatadogConfig
	PagerDuty  PagerDutyConfig
	AWS        AWSConfig
	Jira       JiraConfig
	Slack      SlackConfig

	Approval ApprovalConfig

	Redis RedisConfig

	Logging LoggingConfig

	Server ServerConfig
}

// MockConfig configures the scenario-driven mock providers.
type MockConfig struct {
	Scenario     string `validate:"required"`
	DelayEnabled bool
}

// MLConfig configures the ML capability backend.
type MLConfig struct {
	Provider      string `validate:"required,oneof=anthropic bedrock langchain mock"`
	AnthropicKey  string
	Model         string `validate:"required"`
	BedrockRegion string

	// LangchainBaseURL/LangchainAPIKey configure the langchaingo backend,
	// which talks to any OpenAI-compatible chat completions endpoint.
	LangchainBaseURL string
	LangchainAPIKey  string
}

// ServiceNowConfig configures the ServiceNow ticketing adapter.
type ServiceNowConfig struct {
	Mode     string `validate:"omitempty,oneof=mock live"`
	Instance string
	Username string
	Password string
}

// DatadogConfig configures the Datadog monitoring adapter.
type DatadogConfig struct {
	Mode   string `validate:"omitempty,oneof=mock live"`
	APIKey string
	AppKey string
}

// PagerDutyConfig configures the PagerDuty alerting adapter.
type PagerDutyConfig struct {
	Mode   string `validate:"omitempty,oneof=mock live"`
	APIKey string
}

// AWSConfig configures the AWS EC2/SSM compute adapter.
type AWSConfig struct {
	Mode            string `validate:"omitempty,oneof=mock live"`
	AccessKeyID     string
	SecretAccessKey string
	Region          string `validate:"required"`
}

// JiraConfig configures the Jira ticketing adapter.
type JiraConfig struct {
	Mode     string `validate:"omitempty,oneof=mock live"`
	URL      string
	Username string
	APIToken string
}

// SlackConfig configures the Slack communication adapter.
type SlackConfig struct {
	Mode     string `validate:"omitempty,oneof=mock live"`
	BotToken string
}

// ApprovalConfig selects the Approval Evaluator's threshold-policy
// backend: "static" (the compiled-in Policy table) or "rego" (an OPA
// Rego module, hot-editable without a rebuild). RegoPolicyPath is only
// consulted when Backend is "rego"; empty uses the engine's built-in
// default policy document.
type ApprovalConfig struct {
	Backend        string `validate:"omitempty,oneof=static rego"`
	RegoPolicyPath string
}

// RedisConfig configures the optional action-idempotency cache. Addr
// empty disables the cache entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggingConfig configures the zap-backed structured logger.
type LoggingConfig struct {
	Level  string `validate:"required,oneof=debug info warn error"`
	Format string `validate:"required,oneof=json console"`
}

// ServerConfig configures the optional HTTP API surface.
type ServerConfig struct {
	Port        string
	MetricsPort string
}

// AvailableScenarios lists the canned mock scenarios every scenario-keyed
// mock provider understands.
var AvailableScenarios = []string{
	"high_cpu",
	"database_connection",
	"deployment_failure",
	"network_latency",
}

// GetIntegrationMode returns the effective mode for a named integration:
// its own mode override if set, otherwise the global RunbookMode.
func (c *Config) GetIntegrationMode(integration string) string {
	override := ""
	switch integration {
	case "servicenow":
		override = c.ServiceNow.Mode
	case "datadog":
		override = c.Datadog.Mode
	case "pagerduty":
		override = c.PagerDuty.Mode
	case "aws":
		override = c.AWS.Mode
	case "jira":
		override = c.Jira.Mode
	case "slack":
		override = c.Slack.Mode
	}
	if override != "" {
		return override
	}
	return c.RunbookMode
}

var validate = validator.New()

// Load builds a Config from the process environment. A ".env" file in
// the working directory is loaded first, if present, without
// overwriting variables already set in the environment; its absence is
// not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeConfiguration, "failed to read .env file")
	}

	cfg := &Config{
		RunbookMode: getenv("RUNBOOK_MODE", "mock"),
		Mock: MockConfig{
			Scenario:     getenv("MOCK_SCENARIO", "high_cpu"),
			DelayEnabled: getenvBool("MOCK_DELAY_ENABLED", true),
		},
		ML: MLConfig{
			Provider:         getenv("ML_ENGINE_PROVIDER", "anthropic"),
			AnthropicKey:     getenv("ANTHROPIC_API_KEY", ""),
			Model:            getenv("ML_MODEL", "claude-sonnet-4-5-20250929"),
			BedrockRegion:    getenv("ML_BEDROCK_REGION", "us-east-1"),
			LangchainBaseURL: getenv("LANGCHAIN_BASE_URL", ""),
			LangchainAPIKey:  getenv("LANGCHAIN_API_KEY", ""),
		},
		ServiceNow: ServiceNowConfig{
			Mode:     getenv("SERVICENOW_MODE", ""),
			Instance: getenv("SERVICENOW_INSTANCE", ""),
			Username: getenv("SERVICENOW_USERNAME", ""),
			Password: getenv("SERVICENOW_PASSWORD", ""),
		},
		Datadog: DatadogConfig{
			Mode:   getenv("DATADOG_MODE", ""),
			APIKey: getenv("DATADOG_API_KEY", ""),
			AppKey: getenv("DATADOG_APP_KEY", ""),
		},
		PagerDuty: PagerDutyConfig{
			Mode:   getenv("PAGERDUTY_MODE", ""),
			APIKey: getenv("PAGERDUTY_API_KEY", ""),
		},
		AWS: AWSConfig{
			Mode:            getenv("AWS_MODE", ""),
			AccessKeyID:     getenv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getenv("AWS_SECRET_ACCESS_KEY", ""),
			Region:          getenv("AWS_REGION", "us-east-1"),
		},
		Jira: JiraConfig{
			Mode:     getenv("JIRA_MODE", ""),
			URL:      getenv("JIRA_URL", ""),
			Username: getenv("JIRA_USERNAME", ""),
			APIToken: getenv("JIRA_API_TOKEN", ""),
		},
		Slack: SlackConfig{
			Mode:     getenv("SLACK_MODE", ""),
			BotToken: getenv("SLACK_BOT_TOKEN", ""),
		},
		Approval: ApprovalConfig{
			Backend:        getenv("APPROVAL_POLICY_BACKEND", "static"),
			RegoPolicyPath: getenv("APPROVAL_REGO_POLICY_PATH", ""),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
		Server: ServerConfig{
			Port:        getenv("SERVER_PORT", "8080"),
			MetricsPort: getenv("METRICS_PORT", "9090"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs struct-tag validation plus the cross-field checks the
// tags alone cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeConfiguration, "invalid configuration").
			WithDetails(err.Error())
	}

	if cfg.ML.Provider == "anthropic" && cfg.ML.AnthropicKey == "" && cfg.RunbookMode == "live" {
		return apperrors.NewConfigurationError(
			"ANTHROPIC_API_KEY is required when ML_ENGINE_PROVIDER=anthropic and RUNBOOK_MODE=live")
	}

	found := false
	for _, s := range AvailableScenarios {
		if s == cfg.Mock.Scenario {
			found = true
			break
		}
	}
	if !found {
		return apperrors.Newf(apperrors.ErrorTypeConfiguration,
			"unknown mock scenario %q (expected one of %v)", cfg.Mock.Scenario, AvailableScenarios)
	}

	return nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// String implements fmt.Stringer, redacting secrets so a Config can be
// logged safely.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{RunbookMode:%s MockScenario:%s MLProvider:%s ServiceNowMode:%s DatadogMode:%s PagerDutyMode:%s AWSMode:%s JiraMode:%s SlackMode:%s}",
		c.RunbookMode, c.Mock.Scenario, c.ML.Provider,
		c.ServiceNow.Mode, c.Datadog.Mode, c.PagerDuty.Mode, c.AWS.Mode, c.Jira.Mode, c.Slack.Mode,
	)
}
