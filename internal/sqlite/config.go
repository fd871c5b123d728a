package sqlite

import (
	"net/url"
	"strings"
)

type Config struct {
	uri *url.URL
}

type ConfigFunc = func(c *Config)

// URI sets the database location. Query parameters of the URI are passed to the driver and
// take precedence over the defaults.
func (c *Config) URI(uri string) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		panic("URI can't be blank")
	}
	if uri == memory {
		c.uri = &url.URL{Opaque: memory}
		return
	}
	u, err := url.Parse(uri)
	if err != nil {
		panic("URI is invalid")
	}
	c.uri = u
}

func WithURI(uri string) ConfigFunc {
	return func(c *Config) {
		c.URI(uri)
	}
}
