// Package web downloads the first layer's carrier from the HTML page that publishes the onion.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/teenjuna/onion"
)

const (
	DefaultURL       = "https://www.tomdalling.com/toms-data-onion/"
	DefaultUserAgent = "toms-data-onion"
)

var (
	// ErrNoPre is returned when the page has no <pre> element.
	ErrNoPre = errors.New("page has no <pre> element")
	// ErrUnclosedPre is returned when the page ends inside a <pre> element.
	ErrUnclosedPre = errors.New("page ends inside a <pre> element")
)

var _ onion.Source = (*Source)(nil)

// Source fetches a page over HTTP and returns the text of its first <pre> element, with HTML
// entities unescaped. It only serves [onion.Layer0].
type Source struct {
	url       string
	userAgent string
	client    *http.Client
}

type Option = func(*Source)

func WithUserAgent(userAgent string) Option {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		panic("user agent can't be blank")
	}
	return func(s *Source) {
		s.userAgent = userAgent
	}
}

func WithClient(client *http.Client) Option {
	if client == nil {
		panic("client can't be nil")
	}
	return func(s *Source) {
		s.client = client
	}
}

func New(url string, options ...Option) *Source {
	url = strings.TrimSpace(url)
	if url == "" {
		panic("url can't be blank")
	}

	s := Source{
		url:       url,
		userAgent: DefaultUserAgent,
		client:    http.DefaultClient,
	}
	for _, opt := range options {
		opt(&s)
	}

	return &s
}

func (s *Source) Carrier(ctx context.Context, layer onion.Layer) ([]byte, error) {
	if layer != onion.Layer0 {
		return nil, fmt.Errorf("%w: %s", onion.ErrNoCarrier, layer)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %s", s.url, resp.Status)
	}

	return Pre(resp.Body)
}

// Pre returns the unescaped text of the first <pre> element of an HTML document. Markup nested
// inside the element is dropped, its text is kept.
func Pre(r io.Reader) ([]byte, error) {
	var (
		z     = html.NewTokenizer(r)
		buf   bytes.Buffer
		depth int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("parse html: %w", err)
			}
			if depth > 0 {
				return nil, ErrUnclosedPre
			}
			return nil, ErrNoPre
		case html.StartTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Pre {
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Pre && depth > 0 {
				depth--
				if depth == 0 {
					return buf.Bytes(), nil
				}
			}
		case html.TextToken:
			if depth > 0 {
				buf.Write(z.Text())
			}
		}
	}
}
