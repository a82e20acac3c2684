package mitre

import (
	"bytes"
	"encoding/json"
	"time"

	"golang.org/x/xerrors"

	"github.com/aquasecurity/msrc-release-enricher/utils"
)

const (
	// RecordURL and APIURL are joined with a CVE-ID.
	// e.g. https://www.cve.org/CVERecord?id=CVE-2024-37985
	RecordURL = "https://www.cve.org/CVERecord?id="
	// e.g. https://cveawg.mitre.org/api/cve/CVE-2024-21317
	APIURL = "https://cveawg.mitre.org/api/cve/"

	NoTitle       = "No title available"
	NoProductName = "No product name available"
	NoMinVersion  = "No product min version available"
	NoMaxVersion  = "No product max version available"
)

// ErrUnexpectedShape is returned when a body is valid JSON but not a CVE
// record at all, e.g. the API's {"error": ..., "message": ...} reply.
var ErrUnexpectedShape = xerrors.New("unexpected CVE record shape")

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithRetry sets how often a transport error is retried. The release
// pipeline never sets it, so failed requests are not retried.
func WithRetry(retry int) Option {
	return func(c *Client) { c.retry = retry }
}

// Client fetches CVE records. A zero timeout waits forever.
type Client struct {
	timeout time.Duration
	retry   int
}

func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the reply for url whatever its status code.
func (c *Client) Fetch(url string) (utils.Response, error) {
	return utils.FetchURL(url, c.timeout, c.retry)
}

// ParseRecord extracts the title and affected products from a CVE record.
// When the title was read before a later field failed, the returned Record
// is non-nil and carries only the title.
func ParseRecord(body []byte) (*Record, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		var typeErr *json.UnmarshalTypeError
		if xerrors.As(err, &typeErr) {
			return nil, ErrUnexpectedShape
		}
		return nil, xerrors.Errorf("failed to decode CVE record: %w", err)
	}
	if len(top) == 0 {
		return nil, xerrors.New("containers not found: empty CVE record")
	}
	if !hasComposite(top) {
		return nil, ErrUnexpectedShape
	}

	var rec cveRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, xerrors.Errorf("failed to decode CVE record: %w", err)
	}
	if rec.Containers == nil {
		return nil, xerrors.New("containers not found")
	}
	details := rec.Containers.Cna
	if details == nil {
		return nil, xerrors.New("containers.cna not found")
	}

	// an explicit null title leaves the cell blank
	r := &Record{Title: details.Title.or(NoTitle)}
	if details.Title.Null {
		r.Title = ""
	}

	if details.Affected == nil {
		return r, xerrors.New("containers.cna.affected not found")
	}
	var products []affected
	if err := json.Unmarshal(*details.Affected, &products); err != nil {
		return r, xerrors.Errorf("failed to decode containers.cna.affected: %w", err)
	}

	var affects []Affected
	for i, p := range products {
		if len(p.Versions) == 0 {
			return r, xerrors.Errorf("containers.cna.affected[%d] has no versions", i)
		}
		v := p.Versions[0]
		if p.Product.Null || v.Version.Null || v.LessThan.Null {
			return r, xerrors.Errorf("containers.cna.affected[%d] has a null product or version", i)
		}
		affects = append(affects, Affected{
			Product:    p.Product.or(NoProductName),
			MinVersion: v.Version.or(NoMinVersion),
			MaxVersion: v.LessThan.or(NoMaxVersion),
		})
	}
	r.Affected = affects
	return r, nil
}

// hasComposite reports whether any top-level value is an object or array.
// A record made only of scalars cannot hold containers.
func hasComposite(top map[string]json.RawMessage) bool {
	for _, v := range top {
		v = bytes.TrimSpace(v)
		if len(v) > 0 && (v[0] == '{' || v[0] == '[') {
			return true
		}
	}
	return false
}
