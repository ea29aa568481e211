package exports

// ExportRunRow backs the recent-exports table on the exports page.
type ExportRunRow struct {
	ExportType string `bun:"export_type"`
	Username   string `bun:"username"`
	RowCount   int64  `bun:"row_count"`
	CreatedAt  string `bun:"created_at"`
}

// PageData backs the exports page view.
type PageData struct {
	Message string
	Runs    []ExportRunRow
}
