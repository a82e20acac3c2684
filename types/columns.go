package types

// Report columns, in the order they are appended to a release table.
const (
	ColumnCVE        = "CVE"
	ColumnLink       = "Link"
	ColumnJSONLink   = "JSON Link"
	ColumnTitle      = "Title"
	ColumnProduct    = "Product Name"
	ColumnMinVersion = "Product Min Version"
	ColumnMaxVersion = "Product Max Version"
	ColumnTeam       = "Team"
	ColumnAffected   = "Affected?"
)
