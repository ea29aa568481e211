package adminusers

// UserRow backs one row of the users table.
type UserRow struct {
	ID       int64  `bun:"id"`
	Username string `bun:"username"`
	Role     string `bun:"role"`
}

// PageData backs the user admin page view.
type PageData struct {
	Users   []UserRow
	Message string
	Error   string
}
