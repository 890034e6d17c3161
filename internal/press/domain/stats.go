package domain

// Stats are the aggregate counts shown on the admin dashboard.
type Stats struct {
	TotalUsers        int64
	ActiveUsers       int64
	AdminUsers        int64
	TotalArticles     int64
	PublishedArticles int64
	DraftArticles     int64
}
