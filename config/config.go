package config

import (
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

const (
	TeamApps = "Apps"
	TeamAFM  = "AFM"

	Possibly = "Possibly"
)

// Keywords holds the substring sets used to classify a release row. The
// values are read-only once loaded.
type Keywords struct {
	Apps      []string `yaml:"apps"`
	AFM       []string `yaml:"afm"`
	Inventory []string `yaml:"inventory"`
}

func DefaultKeywords() Keywords {
	return Keywords{
		Apps: []string{
			"Microsoft Dynamics 365",
			".NET",
			"Microsoft Visual Studio",
			"Azure",
		},
		AFM: []string{
			"Microsoft SQL Server",
			"Windows",
			"Microsoft SharePoint",
		},
		Inventory: []string{
			"Windows Server 2016",
			"Windows Server 2019",
			"Windows Server 10 Enterprise",
			"Microsoft SQL Server 2017",
			"Microsoft Dynamics 365 (on-premises) version 9.0",
			"Microsoft Visual Studio 2019 Professional",
			"Microsoft Office 2019",
			"Azure DevOps Server 2022",
		},
	}
}

// LoadKeywords reads a YAML file and overlays it on DefaultKeywords. A list
// missing from the file keeps its default.
func LoadKeywords(fs afero.Fs, path string) (Keywords, error) {
	kw := DefaultKeywords()
	if path == "" {
		return kw, nil
	}

	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return Keywords{}, xerrors.Errorf("unable to read %s: %w", path, err)
	}

	var override Keywords
	if err = yaml.UnmarshalStrict(b, &override); err != nil {
		return Keywords{}, xerrors.Errorf("failed to unmarshal YAML: %w", err)
	}

	if override.Apps != nil {
		kw.Apps = override.Apps
	}
	if override.AFM != nil {
		kw.AFM = override.AFM
	}
	if override.Inventory != nil {
		kw.Inventory = override.Inventory
	}
	return kw, nil
}
