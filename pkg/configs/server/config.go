package server

import (
	"fmt"
	"os"
	"time"

	"github.com/tasklane/tasklane/pkg/utils/base64marshall"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	// port the daemon listens on.
	ServerPort string `yaml:"port"`

	// connection string for database.
	DBURI string `yaml:"database"`

	// path to the schema repository directory.
	//
	// When empty, schema management is left to the operator.
	SchemaRepository string `yaml:"schemaRepository,omitempty"`

	// origins allowed by CORS. empty = same-origin only.
	CORSOrigins []string `yaml:"corsOrigins,omitempty"`

	// when non-nil, mutating APIs require a bearer token.
	Auth *AuthConfig `yaml:"auth,omitempty"`
}

type AuthConfig struct {
	// HMAC-SHA256 secret, base64 encoded in the config file.
	Secret base64marshall.Bytes `yaml:"secret"`

	// lifetime of tokens minted with this secret. default 24h.
	TokenTTL time.Duration `yaml:"tokenTTL,omitempty"`
}

func (a *AuthConfig) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Secret   base64marshall.Bytes `yaml:"secret"`
		TokenTTL string               `yaml:"tokenTTL"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if len(raw.Secret) == 0 {
		return fmt.Errorf("auth: secret is empty")
	}
	a.Secret = raw.Secret

	a.TokenTTL = 24 * time.Hour
	if raw.TokenTTL != "" {
		ttl, err := time.ParseDuration(raw.TokenTTL)
		if err != nil {
			return fmt.Errorf("auth: bad tokenTTL: %w", err)
		}
		a.TokenTTL = ttl
	}

	return nil
}

func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*ServerConfig, error) {
	var out ServerConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
