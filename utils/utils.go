package utils

import (
	"crypto/rand"
	"log"
	"math"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/parnurzeal/gorequest"
	"golang.org/x/xerrors"
)

// Response is a raw HTTP reply. Non-2xx replies are returned as-is.
type Response struct {
	StatusCode int
	Body       []byte
}

// FetchURL returns the HTTP response with retry. Only transport errors are
// retried; an HTTP error status is a valid response.
func FetchURL(url string, timeout time.Duration, retry int) (res Response, err error) {
	for i := 0; i <= retry; i++ {
		if i > 0 {
			wait := math.Pow(float64(i), 2) + float64(randInt()%10)
			log.Printf("retry after %f seconds\n", wait)
			time.Sleep(time.Duration(time.Duration(wait) * time.Second))
		}
		res, err = fetchURL(url, timeout)
		if err == nil {
			return res, nil
		}
	}
	return Response{}, xerrors.Errorf("failed to fetch URL: %w", err)
}

func randInt() int {
	seed, _ := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	return int(seed.Int64())
}

func fetchURL(url string, timeout time.Duration) (Response, error) {
	req := gorequest.New().Get(url)
	if timeout > 0 {
		req = req.Timeout(timeout)
	}
	resp, body, errs := req.Type("text").EndBytes()
	if len(errs) > 0 {
		return Response{}, xerrors.Errorf("HTTP error. url: %s, err: %w", url, errs[0])
	}
	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// IsURL reports whether src should be fetched rather than opened locally.
func IsURL(src string) bool {
	if strings.Contains(src, "::") {
		return true
	}
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func LookupEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultValue
}
