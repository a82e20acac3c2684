package report

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/msrc-release-enricher/table"
	"github.com/aquasecurity/msrc-release-enricher/utils"
)

// FileName returns the report name for the release month of date,
// e.g. "microsoft security release for Jul 2024_updated.csv".
func FileName(date time.Time) string {
	return fmt.Sprintf("microsoft security release for %s %d_updated.csv", date.Format("Jan"), date.Year())
}

type Writer struct {
	fs  utils.Fs
	dir string
}

func NewWriter(fs afero.Fs, dir string) Writer {
	return Writer{fs: utils.NewFs(fs), dir: dir}
}

// Write saves t as CSV and returns the file path. The first column holds
// the row number under an empty header. An existing report is never
// overwritten.
func (w Writer) Write(t *table.Table, date time.Time) (string, error) {
	filePath := filepath.Join(w.dir, FileName(date))
	f, err := w.fs.CreateNew(filePath)
	if err != nil {
		return "", xerrors.Errorf("unable to create the report: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err = cw.Write(append([]string{""}, t.Columns...)); err != nil {
		return "", xerrors.Errorf("failed to write the header: %w", err)
	}
	for i, row := range t.Rows {
		if err = cw.Write(append([]string{strconv.Itoa(i)}, row...)); err != nil {
			return "", xerrors.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return "", xerrors.Errorf("failed to flush the report: %w", err)
	}

	return filePath, nil
}
