package classifier

import (
	"strings"

	"github.com/samber/lo"

	"github.com/aquasecurity/msrc-release-enricher/config"
	"github.com/aquasecurity/msrc-release-enricher/table"
	"github.com/aquasecurity/msrc-release-enricher/types"
)

type Classifier struct {
	keywords config.Keywords
}

func New(keywords config.Keywords) Classifier {
	return Classifier{keywords: keywords}
}

// Classify fills Team and Affected? from Product Name. Matching is a plain
// case-sensitive substring test.
func (c Classifier) Classify(t *table.Table) {
	t.AddColumn(types.ColumnTeam)
	t.AddColumn(types.ColumnAffected)

	for i := range t.Rows {
		products := t.Get(i, types.ColumnProduct)
		if team := c.Team(products); team != "" {
			t.Set(i, types.ColumnTeam, team)
		}
		if c.Affected(products) {
			t.Set(i, types.ColumnAffected, config.Possibly)
		}
	}
}

// Team returns the owning team of products, or "". The AFM keywords are
// checked after the Apps ones, so a product list matching both belongs to
// AFM.
// TODO: decide with both teams whether a double match should list both.
func (c Classifier) Team(products string) string {
	var team string
	if containsAny(products, c.keywords.Apps) {
		team = config.TeamApps
	}
	if containsAny(products, c.keywords.AFM) {
		team = config.TeamAFM
	}
	return team
}

// Affected reports whether products mentions anything in the inventory.
func (c Classifier) Affected(products string) bool {
	return containsAny(products, c.keywords.Inventory)
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	return lo.SomeBy(keywords, func(k string) bool {
		return strings.Contains(s, k)
	})
}
