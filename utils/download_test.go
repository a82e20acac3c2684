package utils_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/msrc-release-enricher/utils"
)

func TestDownloadToTempFile(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		want     string
		wantErr  string
	}{
		{
			name:     "happy path",
			filePath: "/releases/july.csv",
			want:     "CVE\nCVE-2024-21317\n",
		},
		{
			name:     "sad path",
			filePath: "/releases/unknown.csv",
			wantErr:  "bad response code: 404",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/releases/july.csv" {
					http.NotFound(w, r)
					return
				}
				_, _ = w.Write([]byte("CVE\nCVE-2024-21317\n"))
			}))
			defer ts.Close()

			tmpDir := t.TempDir()
			t.Setenv("TMPDIR", tmpDir)

			tmpFile, err := utils.DownloadToTempFile(context.Background(), ts.URL+tt.filePath, "msrc-release-*.csv")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				entries, err := os.ReadDir(tmpDir)
				require.NoError(t, err)
				assert.Empty(t, entries, "temp file left behind")
				return
			}
			require.NoError(t, err)
			defer os.Remove(tmpFile)

			assert.Equal(t, ".csv", filepath.Ext(tmpFile))
			got, err := os.ReadFile(tmpFile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
