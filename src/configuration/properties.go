package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/subosito/gotenv"
)

type (
	Properties struct {
		Port     string `env:"PORT" envDefault:"3000"`
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

		Server  HttpServerProperties `envPrefix:"HTTP_"`
		Recraft RecraftProperties    `envPrefix:"RECRAFT_"`
	}

	HttpServerProperties struct {
		Name               string `env:"NAME" envDefault:"style-relay"`
		Mode               string `env:"MODE" envDefault:"release"`
		Pprof              bool   `env:"PPROF" envDefault:"false"`
		MaxMultipartMemory int64  `env:"MAX_MULTIPART_MEMORY" envDefault:"33554432"`
	}

	RecraftProperties struct {
		APIKey  string        `env:"API_KEY"`
		URL     string        `env:"API_URL" envDefault:"https://external.api.recraft.ai/v1/images/imageToImage"`
		Timeout time.Duration `env:"TIMEOUT" envDefault:"0s"`
	}
)

// ReadProperties parses the process environment. Pass env.Options to read
// from an explicit map instead, as the tests do.
func ReadProperties(opts ...env.Options) (*Properties, error) {
	config := &Properties{}

	if err := env.Parse(config, opts...); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}
	return config, nil
}

// LoadDotEnv copies the variables of a dotenv file into the process
// environment. Variables already set are kept. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("can not load %s: %w", path, err)
	}
	return nil
}

// Address is the listen address for the HTTP server.
func (p *Properties) Address() string {
	return fmt.Sprintf(":%s", p.Port)
}

// HasAPIKey reports whether an upstream credential was configured.
func (p *Properties) HasAPIKey() bool {
	return p.Recraft.APIKey != ""
}
