package core

type DBArticle interface {
	ID() int
	UserID() int
	Title() string
	Slug() string
	Content() string
	PublishedAt() int64 // unix seconds, zero when unpublished
	CoverImage() string // filename within the article's cover folder, or empty
	TsCreated() int64
	DeveloperCount() int // populated by list queries
}

// ArticleFilter narrows GetArticles. Zero values are ignored.
type ArticleFilter struct {
	Search      string // case-insensitive substring of title or content
	DeveloperID int    // restricts to articles associated with this developer
}

type ArticleDB interface {
	GetArticle(id int) (DBArticle, error)
	// GetArticles returns all matching articles ordered by publication
	// timestamp descending, then title, with developer counts populated.
	GetArticles(filter ArticleFilter) ([]DBArticle, error)
	GetArticleDevelopers(articleID int) ([]DBDeveloper, error)
	GetArticleDeveloperIDs(articleID int) ([]int, error)
	InsertArticle(userID int, title, slug, content string, publishedAt int64, developerIDs []int) (int, error)
	UpdateArticle(a DBArticle, title, slug, content string, publishedAt int64, developerIDs []int) error
	DeleteArticle(a DBArticle) error
	SetCoverImage(articleID int, filename string) error
	// SlugExists reports whether the owner already has an article with this
	// slug, excluding the given article id (zero to exclude nothing).
	SlugExists(userID int, slug string, excludeID int) (bool, error)
}
