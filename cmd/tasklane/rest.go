package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
	apitasks "github.com/tasklane/tasklane/pkg/api/types/tasks"
	kstrings "github.com/tasklane/tasklane/pkg/utils/strings"
)

// restClient talks to the tasklane API with the wire types.
type restClient struct {
	apiRoot string
	token   string
	httpc   *http.Client
}

func newRestClient(server string, token string) *restClient {
	return &restClient{
		apiRoot: kstrings.SupplySuffix(server, "/") + "api/tasks/",
		token:   token,
		httpc:   http.DefaultClient,
	}
}

func (c *restClient) do(ctx context.Context, method string, path string, query url.Values, body interface{}) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(buf)
	}

	target := c.apiRoot + path
	if len(query) != 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}

	if 400 <= resp.StatusCode {
		defer resp.Body.Close()
		message := apierr.ErrorResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&message); err != nil {
			return nil, fmt.Errorf("server error (status %d)", resp.StatusCode)
		}
		return nil, fmt.Errorf("server error (status %d): %s", resp.StatusCode, message.Message)
	}

	return resp, nil
}

func (c *restClient) List(ctx context.Context, query url.Values) ([]apitasks.Detail, error) {
	resp, err := c.do(ctx, "GET", "", query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	found := []apitasks.Detail{}
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *restClient) Add(ctx context.Context, spec apitasks.TaskSpec) (apitasks.Detail, error) {
	resp, err := c.do(ctx, "POST", "", nil, spec)
	if err != nil {
		return apitasks.Detail{}, err
	}
	defer resp.Body.Close()

	created := apitasks.Detail{}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return apitasks.Detail{}, err
	}
	return created, nil
}

func (c *restClient) SetDone(ctx context.Context, taskId string, done bool) (apitasks.Detail, error) {
	method := "PUT"
	if !done {
		method = "DELETE"
	}
	resp, err := c.do(ctx, method, taskId+"/done/", nil, nil)
	if err != nil {
		return apitasks.Detail{}, err
	}
	defer resp.Body.Close()

	updated := apitasks.Detail{}
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return apitasks.Detail{}, err
	}
	return updated, nil
}

func (c *restClient) Remove(ctx context.Context, taskId string) error {
	resp, err := c.do(ctx, "DELETE", taskId+"/", nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
