package sqldb

import (
	"reflect"
	"testing"

	"github.com/wansing/roster/core"
)

// The stores create their tables on construction and main constructs the
// article store first, so it must not rely on the developer store having
// created the developer table.
func TestConstructionOrder(t *testing.T) {

	sqlDB := testDB(t)
	articleDB := NewArticleDB(sqlDB) // must not panic on a fresh database
	developerDB := NewDeveloperDB(sqlDB)

	if err := developerDB.InsertDeveloper(1, "Alice", "alice@example.com", core.Junior, nil); err != nil {
		t.Fatal(err)
	}
	developers, err := developerDB.GetDevelopers(core.DeveloperFilter{})
	if err != nil {
		t.Fatal(err)
	}

	id, err := articleDB.InsertArticle(1, "Title", "title", "content", 0, []int{developers[0].ID()})
	if err != nil {
		t.Fatal(err)
	}

	joined, err := articleDB.GetArticleDevelopers(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(joined) != 1 || joined[0].Name() != "Alice" {
		t.Errorf("got %d joined developers", len(joined))
	}
}

func TestSlugUniquePerOwner(t *testing.T) {

	db := NewArticleDB(testDB(t))

	if _, err := db.InsertArticle(1, "Meu Artigo", "meu-artigo", "content", 0, nil); err != nil {
		t.Fatal(err)
	}

	// same owner, same slug: constraint violation
	if _, err := db.InsertArticle(1, "Meu Artigo", "meu-artigo", "content", 0, nil); err == nil {
		t.Error("duplicate slug for the same owner: got nil, want constraint error")
	}

	// another owner may reuse the slug
	if _, err := db.InsertArticle(2, "Meu Artigo", "meu-artigo", "content", 0, nil); err != nil {
		t.Errorf("same slug for another owner: %v", err)
	}
}

func TestSlugExists(t *testing.T) {

	db := NewArticleDB(testDB(t))

	id, err := db.InsertArticle(1, "Meu Artigo", "meu-artigo", "content", 0, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		userID    int
		slug      string
		excludeID int
		want      bool
	}{
		{1, "meu-artigo", 0, true},
		{1, "meu-artigo", id, false}, // an article keeps its own slug on save
		{1, "other", 0, false},
		{2, "meu-artigo", 0, false}, // uniqueness is per owner
	}

	for _, test := range tests {
		got, err := db.SlugExists(test.userID, test.slug, test.excludeID)
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("SlugExists(%d, %q, %d): got %v, want %v", test.userID, test.slug, test.excludeID, got, test.want)
		}
	}
}

func TestGetArticlesOrder(t *testing.T) {

	db := NewArticleDB(testDB(t))

	// insertion order deliberately differs from the expected output order
	var seed = []struct {
		title       string
		slug        string
		publishedAt int64
	}{
		{"Old", "old", 1000},
		{"Draft B", "draft-b", 0},
		{"New", "new-article", 2000},
		{"Draft A", "draft-a", 0},
	}
	for _, s := range seed {
		if _, err := db.InsertArticle(1, s.title, s.slug, "content", s.publishedAt, nil); err != nil {
			t.Fatal(err)
		}
	}

	all, err := db.GetArticles(core.ArticleFilter{})
	if err != nil {
		t.Fatal(err)
	}

	var titles []string
	for _, a := range all {
		titles = append(titles, a.Title())
	}

	// newest first, drafts last, drafts ordered by title
	want := []string{"New", "Old", "Draft A", "Draft B"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("got order %v, want %v", titles, want)
	}
}

func TestGetArticlesFilter(t *testing.T) {

	sqlDB := testDB(t)
	developerDB := NewDeveloperDB(sqlDB)
	articleDB := NewArticleDB(sqlDB)

	if err := developerDB.InsertDeveloper(1, "Alice", "alice@example.com", core.Junior, nil); err != nil {
		t.Fatal(err)
	}
	developers, err := developerDB.GetDevelopers(core.DeveloperFilter{})
	if err != nil {
		t.Fatal(err)
	}
	alice := developers[0]

	if _, err := articleDB.InsertArticle(1, "Go Patterns", "go-patterns", "structs and interfaces", 0, []int{alice.ID()}); err != nil {
		t.Fatal(err)
	}
	if _, err := articleDB.InsertArticle(1, "SQL Basics", "sql-basics", "joins explained", 0, nil); err != nil {
		t.Fatal(err)
	}

	bySearch, err := articleDB.GetArticles(core.ArticleFilter{Search: "joins"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySearch) != 1 || bySearch[0].Title() != "SQL Basics" {
		t.Errorf("content search: got %d articles", len(bySearch))
	}

	byDeveloper, err := articleDB.GetArticles(core.ArticleFilter{DeveloperID: alice.ID()})
	if err != nil {
		t.Fatal(err)
	}
	if len(byDeveloper) != 1 || byDeveloper[0].Title() != "Go Patterns" {
		t.Errorf("developer filter: got %d articles", len(byDeveloper))
	}
	if got := byDeveloper[0].DeveloperCount(); got != 1 {
		t.Errorf("got developer count %d, want 1", got)
	}
}

func TestUpdateArticleReplacesAssociations(t *testing.T) {

	sqlDB := testDB(t)
	developerDB := NewDeveloperDB(sqlDB)
	articleDB := NewArticleDB(sqlDB)

	for _, s := range []struct{ name, mail string }{
		{"Alice", "alice@example.com"},
		{"Bob", "bob@example.com"},
	} {
		if err := developerDB.InsertDeveloper(1, s.name, s.mail, core.Junior, nil); err != nil {
			t.Fatal(err)
		}
	}
	developers, err := developerDB.GetDevelopers(core.DeveloperFilter{})
	if err != nil {
		t.Fatal(err)
	}
	alice, bob := developers[0], developers[1]

	id, err := articleDB.InsertArticle(1, "Title", "title", "content", 0, []int{alice.ID()})
	if err != nil {
		t.Fatal(err)
	}

	article, err := articleDB.GetArticle(id)
	if err != nil {
		t.Fatal(err)
	}

	if err := articleDB.UpdateArticle(article, "Title", "title", "content", 1000, []int{bob.ID()}); err != nil {
		t.Fatal(err)
	}

	ids, err := articleDB.GetArticleDeveloperIDs(id)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []int{bob.ID()}) {
		t.Errorf("got associations %v, want %v", ids, []int{bob.ID()})
	}

	article, err = articleDB.GetArticle(id)
	if err != nil {
		t.Fatal(err)
	}
	if article.PublishedAt() != 1000 {
		t.Errorf("got publishedAt %d, want 1000", article.PublishedAt())
	}
}

func TestSetCoverImage(t *testing.T) {

	db := NewArticleDB(testDB(t))

	id, err := db.InsertArticle(1, "Title", "title", "content", 0, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := db.SetCoverImage(id, "cover.jpg"); err != nil {
		t.Fatal(err)
	}

	article, err := db.GetArticle(id)
	if err != nil {
		t.Fatal(err)
	}
	if article.CoverImage() != "cover.jpg" {
		t.Errorf("got cover image %q, want cover.jpg", article.CoverImage())
	}
}
