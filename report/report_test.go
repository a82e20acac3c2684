package report_test

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/msrc-release-enricher/report"
	"github.com/aquasecurity/msrc-release-enricher/table"
)

func TestFileName(t *testing.T) {
	date := time.Date(2024, time.July, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "microsoft security release for Jul 2024_updated.csv", report.FileName(date))
}

func TestWriter_Write(t *testing.T) {
	date := time.Date(2024, time.July, 18, 0, 0, 0, 0, time.UTC)
	tb := &table.Table{
		Columns: []string{"CVE", "Product Name", "Team"},
		Rows: [][]string{
			{"CVE-2024-21317", "Windows Server 2016\nWindows Server 2019\n", "AFM"},
			{"CVE-2024-38095", "", ""},
		},
	}

	tests := []struct {
		name     string
		existing bool
		want     string
		wantErr  string
	}{
		{
			name: "happy path",
			want: ",CVE,Product Name,Team\n" +
				"0,CVE-2024-21317,\"Windows Server 2016\nWindows Server 2019\n\",AFM\n" +
				"1,CVE-2024-38095,,\n",
		},
		{
			name:     "report already exists",
			existing: true,
			wantErr:  "already exists",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			wantPath := "/releases/microsoft security release for Jul 2024_updated.csv"
			if tt.existing {
				require.NoError(t, afero.WriteFile(fs, wantPath, []byte("previous run"), 0644))
			}

			got, err := report.NewWriter(fs, "/releases").Write(tb, date)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				b, err := afero.ReadFile(fs, wantPath)
				require.NoError(t, err)
				assert.Equal(t, "previous run", string(b))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, wantPath, got)

			b, err := afero.ReadFile(fs, got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}
