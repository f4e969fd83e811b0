package objstore

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the object storage connection settings.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
	Region          string
}

// ConfigError reports required settings that were not provided.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// envBindings maps config keys to the environment variables that may set
// them. The VITE_ name is shared with the web app's .env and wins when both
// are present.
var envBindings = []struct {
	key  string
	envs []string
}{
	{"endpoint", []string{"VITE_AWS_S3_API_URL", "AWS_S3_API_URL"}},
	{"access_key_id", []string{"VITE_AWS_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"}},
	{"secret_access_key", []string{"VITE_AWS_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"}},
	{"bucket", []string{"VITE_AWS_S3_BUCKET_NAME", "AWS_S3_BUCKET_NAME"}},
	{"public_url", []string{"VITE_R2_PUBLIC_URL", "R2_PUBLIC_URL"}},
	{"region", []string{"AWS_REGION"}},
}

// LoadConfig reads storage settings from the environment. A missing bucket
// name or public URL is a *ConfigError.
func LoadConfig() (Config, error) {
	v := viper.New()
	for _, b := range envBindings {
		_ = v.BindEnv(append([]string{b.key}, b.envs...)...)
	}
	v.SetDefault("region", "auto")

	cfg := Config{
		Endpoint:        strings.TrimSpace(v.GetString("endpoint")),
		AccessKeyID:     strings.TrimSpace(v.GetString("access_key_id")),
		SecretAccessKey: strings.TrimSpace(v.GetString("secret_access_key")),
		Bucket:          strings.TrimSpace(v.GetString("bucket")),
		PublicURL:       strings.TrimSpace(v.GetString("public_url")),
		Region:          strings.TrimSpace(v.GetString("region")),
	}

	var missing []string
	if cfg.Bucket == "" {
		missing = append(missing, "AWS_S3_BUCKET_NAME")
	}
	if cfg.PublicURL == "" {
		missing = append(missing, "R2_PUBLIC_URL")
	}
	if len(missing) > 0 {
		return cfg, &ConfigError{Missing: missing}
	}

	return cfg, nil
}
