package onion

import (
	"net/url"
	"strings"
)

// FileConfig describes the SQLite file that caches carriers and keeps layer outputs.
type FileConfig struct {
	path    string
	durable bool
}

// File returns a config for the database at path. Query parameters in path are dropped.
func File(path string) *FileConfig {
	path = strings.TrimSpace(path)
	if path == "" {
		panic("file can't be blank")
	}
	return &FileConfig{path: path}
}

// Durable makes every write wait for a full sync to disk.
func (c *FileConfig) Durable(durable bool) *FileConfig {
	c.durable = durable
	return c
}

func (c *FileConfig) uri() string {
	if c == nil {
		return ":memory:"
	}

	query := url.Values{}
	if c.durable {
		query.Set("_sync", "full")
	}

	uri, err := url.Parse(c.path)
	if err != nil {
		if len(query) == 0 {
			return c.path
		}
		return c.path + "?" + query.Encode()
	}

	uri.RawQuery = query.Encode()

	return uri.String()
}
