package enricher

import (
	"log"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/msrc-release-enricher/mitre"
	"github.com/aquasecurity/msrc-release-enricher/table"
	"github.com/aquasecurity/msrc-release-enricher/types"
	"github.com/aquasecurity/msrc-release-enricher/utils"
)

// ShapeErrorTitle replaces the title of a row whose record could not be
// interpreted at all. Existing report filters match on this exact text.
const ShapeErrorTitle = "ValueError: Unable to convert data to DataFrame. Please check link manually."

// Fetcher returns the raw reply for a CVE record URL.
type Fetcher interface {
	Fetch(url string) (utils.Response, error)
}

type Status int

const (
	Enriched Status = iota
	ShapeError
	Failed
)

func (s Status) String() string {
	switch s {
	case Enriched:
		return "enriched"
	case ShapeError:
		return "shape error"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of one row.
type Result struct {
	Row    int
	CVE    string
	Status Status
	Err    error
}

type Summary struct {
	Enriched    int
	ShapeErrors int
	Failed      int
	Results     []Result
}

func (s *Summary) add(r Result) {
	switch r.Status {
	case Enriched:
		s.Enriched++
	case ShapeError:
		s.ShapeErrors++
	case Failed:
		s.Failed++
	}
	s.Results = append(s.Results, r)
}

// DeriveLinks fills Link and JSON Link from the CVE column. The identifier
// is not validated.
func DeriveLinks(t *table.Table, linkBase, apiBase string) {
	for i := range t.Rows {
		cveID := t.Get(i, types.ColumnCVE)
		t.Set(i, types.ColumnLink, linkBase+cveID)
		t.Set(i, types.ColumnJSONLink, apiBase+cveID)
	}
}

type Enricher struct {
	fetcher Fetcher
}

func New(fetcher Fetcher) Enricher {
	return Enricher{fetcher: fetcher}
}

// Enrich fetches the record of every row, in order, and writes Title and
// the product columns. A failing row never stops the run.
func (e Enricher) Enrich(t *table.Table) Summary {
	for _, col := range []string{types.ColumnTitle, types.ColumnProduct, types.ColumnMinVersion, types.ColumnMaxVersion} {
		t.AddColumn(col)
	}

	var summary Summary
	bar := pb.StartNew(t.Len())
	for i := range t.Rows {
		res := e.enrichRow(t, i)
		switch res.Status {
		case ShapeError:
			log.Printf("Unable to interpret the record of %s, please check the link manually: %v", res.CVE, res.Err)
		case Failed:
			log.Printf("An unexpected error occurred for %s: %v", res.CVE, res.Err)
		}
		summary.add(res)
		bar.Increment()
	}
	bar.Finish()

	return summary
}

func (e Enricher) enrichRow(t *table.Table, row int) Result {
	res := Result{Row: row, CVE: t.Get(row, types.ColumnCVE)}
	link := t.Get(row, types.ColumnJSONLink)

	resp, err := e.fetcher.Fetch(link)
	if err != nil {
		res.Status = Failed
		res.Err = xerrors.Errorf("failed to fetch %s: %w", link, err)
		return res
	}

	rec, err := mitre.ParseRecord(resp.Body)
	switch {
	case xerrors.Is(err, mitre.ErrUnexpectedShape):
		t.Set(row, types.ColumnTitle, ShapeErrorTitle)
		res.Status = ShapeError
		res.Err = xerrors.Errorf("status code %d: %w", resp.StatusCode, err)
		return res
	case err != nil:
		// the title is written before the products are walked
		if rec != nil {
			t.Set(row, types.ColumnTitle, rec.Title)
		}
		res.Status = Failed
		res.Err = xerrors.Errorf("status code %d: %w", resp.StatusCode, err)
		return res
	}

	var names, minVersions, maxVersions strings.Builder
	for _, a := range rec.Affected {
		names.WriteString(a.Product + "\n")
		minVersions.WriteString(a.MinVersion + "\n")
		maxVersions.WriteString(a.MaxVersion + "\n")
	}
	t.Set(row, types.ColumnTitle, rec.Title)
	t.Set(row, types.ColumnProduct, names.String())
	t.Set(row, types.ColumnMinVersion, minVersions.String())
	t.Set(row, types.ColumnMaxVersion, maxVersions.String())

	res.Status = Enriched
	return res
}
