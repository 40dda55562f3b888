package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Sn1r/shannon/internal/stream"
	"github.com/Sn1r/shannon/internal/wire"
)

// HTTPGateway is a GatewayAPI over plain HTTP: bearer-token auth, one
// converse endpoint and one converse-stream endpoint that answers with
// line-delimited JSON frames. The credential resolver constructs it; no
// ambient process state is read here.
type HTTPGateway struct {
	base   string
	token  string
	client *http.Client
}

// NewHTTPGateway builds a gateway handle for the given base URL. A nil
// httpClient falls back to http.DefaultClient; timeouts are the
// caller's responsibility.
func NewHTTPGateway(baseURL, token string, httpClient *http.Client) *HTTPGateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPGateway{
		base:   strings.TrimRight(baseURL, "/"),
		token:  token,
		client: httpClient,
	}
}

// Invoke performs the synchronous converse operation.
func (g *HTTPGateway) Invoke(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	resp, err := g.post(ctx, req, "converse")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readHTTPError(resp)
	}

	var out wire.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// InvokeStream opens the converse-stream operation. The returned source
// owns the response body and closes it when the stream ends.
func (g *HTTPGateway) InvokeStream(ctx context.Context, req *wire.Request) (stream.FrameSource, error) {
	resp, err := g.post(ctx, req, "converse-stream")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readHTTPError(resp)
	}
	return &frameReader{body: resp.Body, scanner: bufio.NewScanner(resp.Body)}, nil
}

func (g *HTTPGateway) post(ctx context.Context, req *wire.Request, op string) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/model/%s/%s", g.base, url.PathEscape(req.ModelID), op)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.token)
	}

	return g.client.Do(httpReq)
}

func readHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = resp.Status
	}
	return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, text)
}

// frameReader yields one wire frame per line of the streaming body.
type frameReader struct {
	body    io.Closer
	scanner *bufio.Scanner
}

func (r *frameReader) Next(ctx context.Context) (*wire.Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			r.body.Close()
			return nil, err
		}
		if !r.scanner.Scan() {
			r.body.Close()
			if err := r.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var frame wire.Frame
		if err := json.Unmarshal(line, &frame); err != nil {
			r.body.Close()
			return nil, fmt.Errorf("malformed stream frame: %w", err)
		}
		return &frame, nil
	}
}
