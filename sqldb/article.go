package sqldb

import (
	"database/sql"
	"strings"
	"time"

	"github.com/wansing/roster/core"
)

type article struct {
	id             int
	userId         int
	slug           string
	title          string
	content        string
	publishedAt    sql.NullInt64
	coverImage     string
	tsCreated      int64
	developerCount int
}

func (a *article) ID() int {
	return a.id
}

func (a *article) UserID() int {
	return a.userId
}

func (a *article) Slug() string {
	return a.slug
}

func (a *article) Title() string {
	return a.title
}

func (a *article) Content() string {
	return a.content
}

func (a *article) PublishedAt() int64 {
	return a.publishedAt.Int64 // zero when NULL
}

func (a *article) CoverImage() string {
	return a.coverImage
}

func (a *article) TsCreated() int64 {
	return a.tsCreated
}

func (a *article) DeveloperCount() int {
	return a.developerCount
}

func nullTs(ts int64) sql.NullInt64 {
	return sql.NullInt64{Int64: ts, Valid: ts != 0}
}

type ArticleDB struct {
	*sql.DB
	associate          *sql.Stmt
	delete             *sql.Stmt
	deleteAssociations *sql.Stmt
	get                *sql.Stmt
	getDeveloperIDs    *sql.Stmt
	getDevelopers      *sql.Stmt
	insert             *sql.Stmt
	setCoverImage      *sql.Stmt
	slugExists         *sql.Stmt
	update             *sql.Stmt
}

func NewArticleDB(db *sql.DB) *ArticleDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS article (
			id INTEGER PRIMARY KEY,
			userId INTEGER NOT NULL,
			slug varchar(255) NOT NULL,
			title varchar(255) NOT NULL,
			content TEXT NOT NULL,
			publishedAt INTEGER,
			coverImage varchar(255) NOT NULL DEFAULT '',
			tsCreated INTEGER NOT NULL,
			UNIQUE(userId, slug)
		);`)

	// shared with DeveloperDB, created in both constructors because their
	// construction order is not fixed
	db.Exec(
		`CREATE TABLE IF NOT EXISTS article_developer (
			articleId INTEGER NOT NULL,
			developerId INTEGER NOT NULL,
			PRIMARY KEY (articleId, developerId)
		);`)

	// the getDevelopers statement joins the developer table, so it must exist
	// before preparing, regardless of whether NewDeveloperDB ran yet
	db.Exec(
		`CREATE TABLE IF NOT EXISTS developer (
			id INTEGER PRIMARY KEY,
			userId INTEGER NOT NULL,
			name varchar(255) NOT NULL,
			mail varchar(128) NOT NULL,
			seniority varchar(2) NOT NULL,
			skills TEXT NOT NULL DEFAULT '[]',
			UNIQUE(mail)
		);`)

	var articleDB = &ArticleDB{}
	articleDB.DB = db
	articleDB.associate = mustPrepare(db, "INSERT OR IGNORE INTO article_developer (articleId, developerId) VALUES (?, ?)")
	articleDB.delete = mustPrepare(db, "DELETE FROM article WHERE id = ?")
	articleDB.deleteAssociations = mustPrepare(db, "DELETE FROM article_developer WHERE articleId = ?")
	articleDB.get = mustPrepare(db, "SELECT id, userId, slug, title, content, publishedAt, coverImage, tsCreated FROM article WHERE id = ? LIMIT 1")
	articleDB.getDeveloperIDs = mustPrepare(db, "SELECT developerId FROM article_developer WHERE articleId = ?")
	articleDB.getDevelopers = mustPrepare(db, `
		SELECT d.id, d.userId, d.name, d.mail, d.seniority, d.skills
		FROM developer d
		JOIN article_developer ad ON ad.developerId = d.id
		WHERE ad.articleId = ?
		ORDER BY d.name`)
	articleDB.insert = mustPrepare(db, "INSERT INTO article (userId, slug, title, content, publishedAt, tsCreated) VALUES (?, ?, ?, ?, ?, ?)")
	articleDB.setCoverImage = mustPrepare(db, "UPDATE article SET coverImage = ? WHERE id = ?")
	articleDB.slugExists = mustPrepare(db, "SELECT EXISTS (SELECT 1 FROM article WHERE userId = ? AND slug = ? AND id != ?)")
	articleDB.update = mustPrepare(db, "UPDATE article SET slug = ?, title = ?, content = ?, publishedAt = ? WHERE id = ?")
	return articleDB
}

func (db *ArticleDB) GetArticle(id int) (core.DBArticle, error) {
	var a = &article{}
	err := db.get.QueryRow(id).Scan(&a.id, &a.userId, &a.slug, &a.title, &a.content, &a.publishedAt, &a.coverImage, &a.tsCreated)
	return a, err
}

// GetArticles is not prepared because the query depends on the filter.
// Unpublished articles sort wherever the database puts NULL in a descending
// order (last in sqlite).
func (db *ArticleDB) GetArticles(filter core.ArticleFilter) ([]core.DBArticle, error) {

	var query = `
		SELECT a.id, a.userId, a.slug, a.title, a.content, a.publishedAt, a.coverImage, a.tsCreated, COUNT(ad.developerId)
		FROM article a
		LEFT JOIN article_developer ad ON ad.articleId = a.id`

	var where []string
	var args []interface{}

	if filter.DeveloperID != 0 {
		query += " JOIN article_developer adf ON adf.articleId = a.id"
		where = append(where, "adf.developerId = ?")
		args = append(args, filter.DeveloperID)
	}
	if filter.Search != "" {
		where = append(where, "(a.title LIKE ? OR a.content LIKE ?)")
		var pattern = "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY a.id ORDER BY a.publishedAt DESC, a.title"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.DBArticle{}

	for rows.Next() {
		var a = &article{}
		err := rows.Scan(&a.id, &a.userId, &a.slug, &a.title, &a.content, &a.publishedAt, &a.coverImage, &a.tsCreated, &a.developerCount)
		if err != nil {
			return nil, err
		}
		all = append(all, a)
	}

	return all, rows.Err()
}

func (db *ArticleDB) GetArticleDevelopers(articleID int) ([]core.DBDeveloper, error) {

	rows, err := db.getDevelopers.Query(articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.DBDeveloper{}

	for rows.Next() {
		var d = &developer{}
		err := rows.Scan(&d.id, &d.userId, &d.name, &d.mail, &d.seniority, &d.skills)
		if err != nil {
			return nil, err
		}
		all = append(all, d)
	}

	return all, rows.Err()
}

func (db *ArticleDB) GetArticleDeveloperIDs(articleID int) ([]int, error) {

	rows, err := db.getDeveloperIDs.Query(articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids = []int{}

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// InsertArticle writes the article and its associations statement by
// statement, there are no transaction boundaries. A slug collision surfaces
// as the constraint error of the INSERT.
func (db *ArticleDB) InsertArticle(userID int, title, slug, content string, publishedAt int64, developerIDs []int) (int, error) {

	result, err := db.insert.Exec(userID, slug, title, content, nullTs(publishedAt), time.Now().Unix())
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, developerID := range developerIDs {
		if _, err := db.associate.Exec(id, developerID); err != nil {
			return int(id), err
		}
	}

	return int(id), nil
}

func (db *ArticleDB) UpdateArticle(a core.DBArticle, title, slug, content string, publishedAt int64, developerIDs []int) error {

	if _, err := db.update.Exec(slug, title, content, nullTs(publishedAt), a.ID()); err != nil {
		return err
	}

	if _, err := db.deleteAssociations.Exec(a.ID()); err != nil {
		return err
	}
	for _, developerID := range developerIDs {
		if _, err := db.associate.Exec(a.ID(), developerID); err != nil {
			return err
		}
	}

	return nil
}

func (db *ArticleDB) DeleteArticle(a core.DBArticle) error {
	if _, err := db.deleteAssociations.Exec(a.ID()); err != nil {
		return err
	}
	_, err := db.delete.Exec(a.ID())
	return err
}

func (db *ArticleDB) SetCoverImage(articleID int, filename string) error {
	_, err := db.setCoverImage.Exec(filename, articleID)
	return err
}

func (db *ArticleDB) SlugExists(userID int, slug string, excludeID int) (bool, error) {
	var exists bool
	err := db.slugExists.QueryRow(userID, slug, excludeID).Scan(&exists)
	return exists, err
}
