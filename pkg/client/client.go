package client

import (
	"fmt"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

type Options struct {
	// ProxyURL, when set, routes every upstream request through it.
	ProxyURL string
	// Timeout bounds a whole request including the body. Zero means none,
	// which is what audio streams of unknown length need.
	Timeout time.Duration
}

// TLSClient sends net/http requests through a browser-fingerprinted TLS
// client. It can be used directly (Do) or as the Transport of an
// *http.Client (RoundTrip).
type TLSClient struct {
	innerClient tls_client.HttpClient
}

func (w *TLSClient) Do(req *http.Request) (*http.Response, error) {
	fReq := &fhttp.Request{
		Method:        req.Method,
		URL:           req.URL,
		Proto:         req.Proto,
		ProtoMajor:    req.ProtoMajor,
		ProtoMinor:    req.ProtoMinor,
		Header:        make(fhttp.Header),
		Body:          req.Body,
		ContentLength: req.ContentLength,
		Host:          req.Host,
	}

	for k, v := range req.Header {
		fReq.Header[k] = v
	}

	// Cancelling the inbound request tears down the upstream connection.
	fReq = fReq.WithContext(req.Context())

	resp, err := w.innerClient.Do(fReq)
	if err != nil {
		return nil, err
	}

	netResp := &http.Response{
		Status:           resp.Status,
		StatusCode:       resp.StatusCode,
		Proto:            resp.Proto,
		ProtoMajor:       resp.ProtoMajor,
		ProtoMinor:       resp.ProtoMinor,
		ContentLength:    resp.ContentLength,
		Body:             resp.Body,
		Header:           make(http.Header),
		Uncompressed:     resp.Uncompressed,
		TransferEncoding: resp.TransferEncoding,
		Request:          req,
	}

	for k, v := range resp.Header {
		netResp.Header[k] = v
	}

	return netResp, nil
}

func (w *TLSClient) RoundTrip(req *http.Request) (*http.Response, error) {
	return w.Do(req)
}

// Standard wraps the client into an *http.Client for libraries that want one.
func (w *TLSClient) Standard() *http.Client {
	return &http.Client{Transport: w}
}

func NewHttpClient(opts Options) (*TLSClient, error) {
	jar := tls_client.NewCookieJar()

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutMilliseconds(int(opts.Timeout / time.Millisecond)),
		tls_client.WithClientProfile(profiles.DefaultClientProfile),
		tls_client.WithInsecureSkipVerify(), // some providers hand out plain-http or self-signed mirrors
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithCookieJar(jar),
	}
	if opts.ProxyURL != "" {
		options = append(options, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	c, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	return &TLSClient{innerClient: c}, nil
}
