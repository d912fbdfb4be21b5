package gohttp

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wallarm/gotestoffsets/internal/config"
	"github.com/wallarm/gotestoffsets/internal/helpers"
	"github.com/wallarm/gotestoffsets/internal/offset"
	"github.com/wallarm/gotestoffsets/internal/scanner/clients"
	"github.com/wallarm/gotestoffsets/internal/scanner/types"
)

var _ clients.HTTPClient = (*Client)(nil)

type Client struct {
	client     *http.Client
	baseURL    string
	headers    map[string]string
	hostHeader string
}

func NewClient(cfg *config.Config) (*Client, error) {
	tr := &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: !cfg.TLSVerify},
		IdleConnTimeout:     time.Duration(cfg.IdleConnTimeout) * time.Second,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns, // net.http hardcodes DefaultMaxIdleConnsPerHost to 2!
	}

	// HTTP_PROXY and friends are not honoured, only an explicit proxy is.
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't parse proxy URL")
		}

		tr.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: tr,
		Timeout:   cfg.RequestTimeout,
	}

	configuredHeaders := helpers.DeepCopyMap(cfg.HTTPHeaders)
	customHeader := strings.SplitN(cfg.AddHeader, ":", 2)
	if len(customHeader) > 1 {
		header := strings.TrimSpace(customHeader[0])
		value := strings.TrimSpace(customHeader[1])
		configuredHeaders[header] = value
	}

	return &Client{
		client:     client,
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		headers:    configuredHeaders,
		hostHeader: configuredHeaders["Host"],
	}, nil
}

func (c *Client) ListOffsets(ctx context.Context) (types.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+clients.ListOffsetsPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't prepare request")
	}

	return c.do(req)
}

func (c *Client) AddOffset(ctx context.Context, payload *offset.Offset) (types.Response, error) {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't encode offset")
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+clients.AddOffsetPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't prepare request")
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) (types.Response, error) {
	for header, value := range c.headers {
		req.Header.Set(header, value)
	}
	if c.hostHeader != "" {
		req.Host = c.hostHeader
	}

	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "sending http request")
	}

	elapsed := time.Since(start)

	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	reasonIndex := strings.Index(resp.Status, " ")
	reason := resp.Status[reasonIndex+1:]

	response := &types.ResponseMeta{
		StatusCode:   resp.StatusCode,
		StatusReason: reason,
		Headers:      resp.Header,
		Content:      bodyBytes,
		Elapsed:      elapsed,
	}

	return response, nil
}
