package pubsub

import (
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/ratelimit"
)

type client struct {
	*http.Client
	limiter ratelimit.Limiter
}

// newHTTPClient returns a client whose requests are paced to at most
// requestsPerSecond. A non positive rate disables the limit.
func newHTTPClient(requestTimeout time.Duration, requestsPerSecond int) *client {
	limiter := ratelimit.NewUnlimited()
	if requestsPerSecond > 0 {
		limiter = ratelimit.New(requestsPerSecond)
	}
	return &client{&http.Client{Timeout: requestTimeout}, limiter}
}

func (c *client) post(url, bodyString string, header map[string]string) (int, string, error) {
	body := strings.NewReader(bodyString)
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return 0, "", err
	}

	for key, value := range header {
		req.Header.Set(key, value)
	}

	return c.doRequest(req)
}

func (c *client) doRequest(req *http.Request) (int, string, error) {
	c.limiter.Take()

	rs, err := c.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return -1, "", err
	}
	return rs.StatusCode, string(bodyBytes), nil
}
