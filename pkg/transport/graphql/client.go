package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avukalov/dashboard-core/pkg/errors"
)

// HTTPDoer is the minimal interface the client needs from a transport.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Response is the standard GraphQL response envelope.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors,omitempty"`
}

// ResponseError is a single error reported by the gateway.
type ResponseError struct {
	Message string `json:"message"`
}

// Client executes GraphQL operations.
type Client struct {
	doer HTTPDoer
}

// NewClient wraps an HTTPDoer (e.g. *http.Client). A nil doer gets a
// default client; options are applied on top.
func NewClient(doer HTTPDoer, opts ...ClientOption) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	c := &Client{doer: doer}
	c.ApplyOptions(opts...)
	return c
}

// Do sends a built request and returns the raw response.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.doer.Do(req)
}

// Execute builds the request, sends it, and decodes the data payload into
// out. Gateway-reported errors surface as ErrGraphQL; a response is atomic
// per operation, so out is only written on full success.
func (c *Client) Execute(ctx context.Context, b *Builder, out interface{}) error {
	req, err := b.Build(ctx)
	if err != nil {
		return errors.WrapError(err, errors.ErrHTTPRequest, "build graphql request")
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return errors.WrapError(err, errors.ErrHTTPRequest, "execute graphql request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.WrapError(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			errors.ErrHTTPResponse,
			"graphql endpoint",
		)
	}

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.WrapError(err, errors.ErrHTTPResponse, "decode graphql response")
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return errors.WrapError(
			fmt.Errorf("%s", strings.Join(msgs, "; ")),
			errors.ErrGraphQL,
			"graphql operation failed",
		)
	}

	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return errors.WrapError(err, errors.ErrHTTPResponse, "unmarshal graphql data")
		}
	}

	return nil
}
