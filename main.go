package main

import (
	"flag"
	"log"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/msrc-release-enricher/config"
	"github.com/aquasecurity/msrc-release-enricher/mitre"
	"github.com/aquasecurity/msrc-release-enricher/release"
	"github.com/aquasecurity/msrc-release-enricher/table"
	"github.com/aquasecurity/msrc-release-enricher/utils"
)

var (
	input      = flag.String("input", "", "release export (xlsx or csv), local path or URL (default: <dir>/microsoft security release for <Month> <YYYY>.xlsx)")
	dir        = flag.String("dir", "", "directory of the release exports and reports (default: microsoft-security-releases)")
	headerRow  = flag.Int("header-row", table.DefaultHeaderRow, "zero-based row holding the column names")
	date       = flag.String("date", "", "release date used to name the report (default: today)")
	configPath = flag.String("config", "", "YAML file overriding the team and inventory keywords")
	timeout    = flag.Duration("timeout", 0, "timeout of each CVE record request, 0 waits forever")
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Parse()

	now, err := releaseDate(*date, time.Now())
	if err != nil {
		return err
	}

	keywords, err := config.LoadKeywords(afero.NewOsFs(), *configPath)
	if err != nil {
		return xerrors.Errorf("failed to load keywords: %w", err)
	}

	releaseDir := *dir
	if releaseDir == "" {
		releaseDir = utils.LookupEnv("MSRC_RELEASE_DIR", release.DefaultDir)
	}
	inputPath := *input
	if inputPath == "" {
		inputPath = utils.LookupEnv("MSRC_INPUT", "")
	}

	c := release.NewConfig(
		release.WithInput(inputPath),
		release.WithDir(releaseDir),
		release.WithHeaderRow(*headerRow),
		release.WithDate(now),
		release.WithKeywords(keywords),
		release.WithFetcher(mitre.NewClient(mitre.WithTimeout(*timeout))),
	)
	if _, err = c.Update(); err != nil {
		return xerrors.Errorf("error in release update: %w", err)
	}
	return nil
}

// releaseDate parses s in any format dateparse understands, e.g.
// "2024-07-09" or "Jul 9, 2024". An empty s means now.
func releaseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := dateparse.ParseLocal(s)
	if err != nil {
		return time.Time{}, xerrors.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}
