package release

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/msrc-release-enricher/classifier"
	"github.com/aquasecurity/msrc-release-enricher/config"
	"github.com/aquasecurity/msrc-release-enricher/enricher"
	"github.com/aquasecurity/msrc-release-enricher/mitre"
	"github.com/aquasecurity/msrc-release-enricher/report"
	"github.com/aquasecurity/msrc-release-enricher/table"
	"github.com/aquasecurity/msrc-release-enricher/types"
	"github.com/aquasecurity/msrc-release-enricher/utils"
)

const DefaultDir = "microsoft-security-releases"

type option func(*Config)

func WithInput(input string) option {
	return func(c *Config) { c.input = input }
}

func WithDir(dir string) option {
	return func(c *Config) { c.dir = dir }
}

func WithHeaderRow(row int) option {
	return func(c *Config) { c.headerRow = row }
}

func WithDate(date time.Time) option {
	return func(c *Config) { c.date = date }
}

func WithKeywords(kw config.Keywords) option {
	return func(c *Config) { c.keywords = kw }
}

func WithFetcher(f enricher.Fetcher) option {
	return func(c *Config) { c.fetcher = f }
}

func WithBaseURLs(linkBase, apiBase string) option {
	return func(c *Config) {
		c.linkBase = linkBase
		c.apiBase = apiBase
	}
}

func WithAppFs(fs afero.Fs) option {
	return func(c *Config) { c.appFs = fs }
}

type Config struct {
	input     string
	dir       string
	headerRow int
	date      time.Time
	keywords  config.Keywords
	fetcher   enricher.Fetcher
	linkBase  string
	apiBase   string
	appFs     afero.Fs
}

func NewConfig(opts ...option) *Config {
	c := &Config{
		dir:       DefaultDir,
		headerRow: table.DefaultHeaderRow,
		date:      time.Now(),
		keywords:  config.DefaultKeywords(),
		fetcher:   mitre.NewClient(),
		linkBase:  mitre.RecordURL,
		apiBase:   mitre.APIURL,
		appFs:     afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.input == "" {
		c.input = filepath.Join(c.dir, InputName(c.date))
	}
	return c
}

// InputName returns the export name for the release month of date,
// e.g. "microsoft security release for July 2024.xlsx".
func InputName(date time.Time) string {
	return fmt.Sprintf("microsoft security release for %s %d.xlsx", date.Format("January"), date.Year())
}

// Update runs the whole pipeline and returns the report path.
func (c *Config) Update() (string, error) {
	t, err := c.load()
	if err != nil {
		return "", err
	}

	log.Printf("Loaded %d rows", t.Len())
	t.ForwardFill()
	enricher.DeriveLinks(t, c.linkBase, c.apiBase)

	log.Println("Fetching CVE records...")
	summary := enricher.New(c.fetcher).Enrich(t)
	log.Printf("Enriched: %d, unreadable records: %d, failed: %d", summary.Enriched, summary.ShapeErrors, summary.Failed)

	classifier.New(c.keywords).Classify(t)

	filePath, err := report.NewWriter(c.appFs, c.dir).Write(t, c.date)
	if err != nil {
		return "", xerrors.Errorf("failed to write the report: %w", err)
	}
	log.Printf("Saved %s", filePath)
	return filePath, nil
}

func (c *Config) load() (*table.Table, error) {
	fs, input := c.appFs, c.input
	if utils.IsURL(input) {
		log.Printf("Downloading %s", input)
		tmpFile, err := utils.DownloadToTempFile(context.Background(), input, "msrc-release-*"+remoteExt(input))
		if err != nil {
			return nil, xerrors.Errorf("failed to download the release: %w", err)
		}
		defer os.Remove(tmpFile)
		fs, input = afero.NewOsFs(), tmpFile
	}

	t, err := table.Load(fs, input, c.headerRow)
	if err != nil {
		return nil, xerrors.Errorf("failed to load the release: %w", err)
	}
	if err = t.Require(types.ColumnCVE); err != nil {
		return nil, xerrors.Errorf("invalid release %s: %w", c.input, err)
	}
	return t, nil
}

// remoteExt returns the file extension of a go-getter source,
// ignoring any forced getter prefix and query string.
func remoteExt(src string) string {
	if i := strings.Index(src, "::"); i >= 0 {
		src = src[i+2:]
	}
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}
