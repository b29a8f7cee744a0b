package config

// LogLevel controls diagnostic verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
)

// Config is the top-level accesskit configuration, corresponding to
// .accesskit.yml.
type Config struct {
	Port    int    `yaml:"port" koanf:"port"`
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
	// ReportEndpoint receives fire-and-forget consent reports. Empty
	// disables reporting.
	ReportEndpoint string `yaml:"report_endpoint" koanf:"report_endpoint"`
	// GuideAutoDismissSeconds auto-hides the keyboard shortcut guide
	// after this many seconds. Zero keeps it open until dismissed.
	GuideAutoDismissSeconds int      `yaml:"guide_auto_dismiss_seconds" koanf:"guide_auto_dismiss_seconds"`
	AllowAllOrigins         bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	LogLevel                LogLevel `yaml:"log_level" koanf:"log_level"`
}
