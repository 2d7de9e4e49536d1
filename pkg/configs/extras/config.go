package extras

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Endpoint declares a path on the daemon to be proxied to another server.
type Endpoint struct {
	// Path is the path prefix to be proxied.
	//
	// This should be a clean absolute path, and may not shadow /api.
	Path string

	// ProxyTo is the root URL of the backend receiving proxied requests.
	//
	// Sub-path in the original request is appended to this path.
	ProxyTo *url.URL
}

var ErrInvalidEndpointPath = errors.New("extras: endpoint path is invalid")
var ErrInvalidProxyTo = errors.New("extras: proxy_to is invalid")

func (e *Endpoint) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Path    string `yaml:"path"`
		ProxyTo string `yaml:"proxy_to"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Path == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidEndpointPath)
	}
	if !path.IsAbs(raw.Path) {
		return fmt.Errorf("%w: not absolute: %s", ErrInvalidEndpointPath, raw.Path)
	}
	if path.Clean(raw.Path) != raw.Path {
		return fmt.Errorf("%w: not clean: %s", ErrInvalidEndpointPath, raw.Path)
	}
	if raw.Path == "/api" || strings.HasPrefix(raw.Path, "/api/") {
		return fmt.Errorf("%w: /api is reserved: %s", ErrInvalidEndpointPath, raw.Path)
	}

	pt, err := url.Parse(raw.ProxyTo)
	if err != nil {
		return err
	}
	if !pt.IsAbs() {
		return fmt.Errorf("%w: not absolute: %s", ErrInvalidProxyTo, raw.ProxyTo)
	}
	if pt.Hostname() == "" {
		return fmt.Errorf("%w: no hostname: %s", ErrInvalidProxyTo, raw.ProxyTo)
	}

	e.Path = raw.Path
	e.ProxyTo = pt
	return nil
}

type Config struct {
	Endpoints []Endpoint
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Endpoints []*Endpoint `yaml:"endpoints,omitempty"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	for _, e := range raw.Endpoints {
		c.Endpoints = append(c.Endpoints, *e)
	}
	return nil
}

// Load loads configuration from the file.
func Load(file string) (Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	cfg := Config{}
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
