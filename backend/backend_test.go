package backend

import (
	"bytes"
	"database/sql"
	"fmt"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/roster/core"
	"github.com/wansing/roster/filestore"
	"github.com/wansing/roster/sqldb"
)

func newTestServer(t *testing.T) (*httptest.Server, *core.CoreDB) {

	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1) // each connection gets its own :memory: database

	db := &core.CoreDB{}
	if err := db.Init(sqldb.NewSQLiteSessionStore(sqlDB), ""); err != nil {
		t.Fatal(err)
	}
	db.ArticleDB = sqldb.NewArticleDB(sqlDB)
	db.DeveloperDB = sqldb.NewDeveloperDB(sqlDB)
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.Covers = &filestore.Store{
		CoverDir: t.TempDir(),
	}

	srv := httptest.NewServer(db.SessionManager.LoadAndSave(NewRouter(db, "")))
	t.Cleanup(srv.Close)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return srv, db
}

// newClient returns a client with its own cookie jar, representing one browser session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

type response struct {
	status int
	path   string // after following redirects
	body   string
}

func readResponse(t *testing.T, resp *http.Response, err error) response {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return response{
		status: resp.StatusCode,
		path:   resp.Request.URL.Path,
		body:   string(body),
	}
}

func get(t *testing.T, client *http.Client, url string) response {
	t.Helper()
	resp, err := client.Get(url)
	return readResponse(t, resp, err)
}

func postForm(t *testing.T, client *http.Client, url string, values url.Values) response {
	t.Helper()
	resp, err := client.PostForm(url, values)
	return readResponse(t, resp, err)
}

// postMultipart sends the values as multipart/form-data, like a browser
// submitting a form with a file input.
func postMultipart(t *testing.T, client *http.Client, target string, values url.Values) response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, vals := range values {
		for _, val := range vals {
			if err := writer.WriteField(key, val); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodPost, target, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	return readResponse(t, resp, err)
}

func signupUser(t *testing.T, client *http.Client, baseURL, mail string) {
	t.Helper()
	resp := postForm(t, client, baseURL+"/signup", url.Values{
		"mail":     {mail},
		"password": {"password123"},
		"repeat":   {"password123"},
	})
	if resp.path != "/developers" {
		t.Fatalf("signup of %s landed on %s, want /developers", mail, resp.path)
	}
}

func TestSignupAndLogin(t *testing.T) {

	srv, _ := newTestServer(t)
	client := newClient(t)

	signupUser(t, client, srv.URL, "alice@example.com")

	resp := get(t, client, srv.URL+"/developers")
	if !strings.Contains(resp.body, "alice@example.com") {
		t.Error("developers page does not show the logged-in user")
	}

	resp = get(t, client, srv.URL+"/logout")
	if resp.path != "/login" {
		t.Errorf("logout landed on %s, want /login", resp.path)
	}

	resp = postForm(t, client, srv.URL+"/login", url.Values{
		"mail":     {"alice@example.com"},
		"password": {"wrong password"},
	})
	if resp.status != http.StatusOK || !strings.Contains(resp.body, "wrong email address or password") {
		t.Error("wrong password should redisplay the login form with an alert")
	}

	resp = postForm(t, client, srv.URL+"/login", url.Values{
		"mail":     {"alice@example.com"},
		"password": {"password123"},
	})
	if resp.path != "/developers" {
		t.Errorf("login landed on %s, want /developers", resp.path)
	}
}

func TestRequiresLogin(t *testing.T) {

	srv, _ := newTestServer(t)
	client := newClient(t)

	for _, path := range []string{"/developers", "/articles", "/create-article", "/create-developer"} {
		resp := get(t, client, srv.URL+path)
		if resp.path != "/login" {
			t.Errorf("anonymous %s landed on %s, want /login", path, resp.path)
		}
	}
}

func TestDeveloperOwnership(t *testing.T) {

	srv, db := newTestServer(t)

	alice := newClient(t)
	signupUser(t, alice, srv.URL, "alice@example.com")

	resp := postForm(t, alice, srv.URL+"/create-developer", url.Values{
		"name":      {"Dev One"},
		"mail":      {"dev@example.com"},
		"seniority": {"pl"},
		"skills":    {"Go, SQL"},
	})
	if resp.path != "/developers" {
		t.Fatalf("create developer landed on %s, want /developers", resp.path)
	}
	if !strings.Contains(resp.body, "Dev One") || !strings.Contains(resp.body, "Go, SQL") {
		t.Error("developers page does not show the new developer")
	}

	developers, err := db.GetDevelopers(core.DeveloperFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(developers) != 1 {
		t.Fatalf("got %d developers, want 1", len(developers))
	}
	id := developers[0].ID()

	// the owner can open the edit form
	resp = get(t, alice, fmt.Sprintf("%s/edit-developer/%d", srv.URL, id))
	if resp.status != http.StatusOK || !strings.Contains(resp.body, "Edit Dev One") {
		t.Errorf("owner edit form: got status %d", resp.status)
	}

	// a stranger sees the record as absent
	bob := newClient(t)
	signupUser(t, bob, srv.URL, "bob@example.com")

	resp = get(t, bob, fmt.Sprintf("%s/edit-developer/%d", srv.URL, id))
	if resp.status != http.StatusNotFound {
		t.Errorf("stranger edit form: got status %d, want 404", resp.status)
	}

	resp = postForm(t, bob, fmt.Sprintf("%s/delete-developer/%d", srv.URL, id), url.Values{
		"delete": {"Delete"},
	})
	if resp.status != http.StatusNotFound {
		t.Errorf("stranger delete: got status %d, want 404", resp.status)
	}
	if _, err := db.GetDeveloper(id); err != nil {
		t.Errorf("developer gone after forbidden delete: %v", err)
	}

	// the list shows the card to everybody, but only the owner gets action links
	resp = get(t, bob, srv.URL+"/developers")
	if !strings.Contains(resp.body, "Dev One") {
		t.Error("stranger does not see the developer card")
	}
	if strings.Contains(resp.body, "edit-developer/") {
		t.Error("stranger sees edit links")
	}
}

func TestDevelopersFragment(t *testing.T) {

	srv, _ := newTestServer(t)
	client := newClient(t)
	signupUser(t, client, srv.URL, "alice@example.com")

	postForm(t, client, srv.URL+"/create-developer", url.Values{
		"name":      {"Dev One"},
		"mail":      {"dev@example.com"},
		"seniority": {"jr"},
	})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/developers", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("HX-Request", "true")
	httpResp, err := client.Do(req)
	resp := readResponse(t, httpResp, err)

	if strings.Contains(resp.body, "<html") {
		t.Error("fragment response contains the full page")
	}
	if !strings.Contains(resp.body, "Dev One") {
		t.Error("fragment response does not contain the cards")
	}
}

func TestArticleSlugs(t *testing.T) {

	srv, db := newTestServer(t)

	alice := newClient(t)
	signupUser(t, alice, srv.URL, "alice@example.com")

	createArticle := func(client *http.Client, title string) {
		t.Helper()
		resp := postMultipart(t, client, srv.URL+"/create-article", url.Values{
			"title":   {title},
			"content": {"some content"},
		})
		if !strings.HasPrefix(resp.path, "/article/") {
			t.Fatalf("create article landed on %s, want /article/:id", resp.path)
		}
	}

	createArticle(alice, "Meu Artigo")
	createArticle(alice, "Meu Artigo")

	// another owner may reuse the slug
	bob := newClient(t)
	signupUser(t, bob, srv.URL, "bob@example.com")
	createArticle(bob, "Meu Artigo")

	articles, err := db.GetArticles(core.ArticleFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 3 {
		t.Fatalf("got %d articles, want 3", len(articles))
	}

	var slugsByOwner = make(map[int][]string)
	for _, a := range articles {
		slugsByOwner[a.UserID()] = append(slugsByOwner[a.UserID()], a.Slug())
	}
	for owner, slugs := range slugsByOwner {
		switch len(slugs) {
		case 1:
			if slugs[0] != "meu-artigo" {
				t.Errorf("owner %d: got slug %q, want meu-artigo", owner, slugs[0])
			}
		case 2:
			var joined = strings.Join(slugs, " ")
			if !strings.Contains(joined, "meu-artigo-1") {
				t.Errorf("owner %d: got slugs %v, want a meu-artigo-1 suffix", owner, slugs)
			}
		}
	}
}

func TestArticleAuthorization(t *testing.T) {

	srv, db := newTestServer(t)

	alice := newClient(t)
	signupUser(t, alice, srv.URL, "alice@example.com")

	resp := postMultipart(t, alice, srv.URL+"/create-article", url.Values{
		"title":   {"Original Title"},
		"content": {"original content"},
	})
	if !strings.HasPrefix(resp.path, "/article/") {
		t.Fatalf("create article landed on %s", resp.path)
	}

	articles, err := db.GetArticles(core.ArticleFilter{})
	if err != nil {
		t.Fatal(err)
	}
	id := articles[0].ID()

	// everybody logged in may read, only the owner gets action links
	bob := newClient(t)
	signupUser(t, bob, srv.URL, "bob@example.com")

	resp = get(t, bob, fmt.Sprintf("%s/article/%d", srv.URL, id))
	if resp.status != http.StatusOK || !strings.Contains(resp.body, "Original Title") {
		t.Errorf("stranger read: got status %d", resp.status)
	}
	if strings.Contains(resp.body, "edit-article/") {
		t.Error("stranger sees edit links")
	}

	// write attempts of a stranger are explicitly forbidden
	resp = get(t, bob, fmt.Sprintf("%s/edit-article/%d", srv.URL, id))
	if resp.status != http.StatusForbidden {
		t.Errorf("stranger edit form: got status %d, want 403", resp.status)
	}

	resp = postMultipart(t, bob, fmt.Sprintf("%s/edit-article/%d", srv.URL, id), url.Values{
		"title":   {"Hacked"},
		"content": {"hacked"},
	})
	if resp.status != http.StatusForbidden {
		t.Errorf("stranger edit: got status %d, want 403", resp.status)
	}

	resp = postForm(t, bob, fmt.Sprintf("%s/delete-article/%d", srv.URL, id), url.Values{
		"delete": {"Delete"},
	})
	if resp.status != http.StatusForbidden {
		t.Errorf("stranger delete: got status %d, want 403", resp.status)
	}

	article, err := db.GetArticle(id)
	if err != nil {
		t.Fatal(err)
	}
	if article.Title() != "Original Title" {
		t.Errorf("got title %q after forbidden writes, want the original", article.Title())
	}

	// a superuser may edit foreign articles, ownership stays with the author
	root, err := db.InsertUser("root@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetPassword(root, "password123"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSuperuser(root, true); err != nil {
		t.Fatal(err)
	}

	admin := newClient(t)
	resp = postForm(t, admin, srv.URL+"/login", url.Values{
		"mail":     {"root@example.com"},
		"password": {"password123"},
	})
	if resp.path != "/developers" {
		t.Fatalf("superuser login landed on %s", resp.path)
	}

	resp = postMultipart(t, admin, fmt.Sprintf("%s/edit-article/%d", srv.URL, id), url.Values{
		"title":   {"Moderated Title"},
		"content": {"moderated content"},
	})
	if resp.path != fmt.Sprintf("/article/%d", id) {
		t.Fatalf("superuser edit landed on %s, status %d", resp.path, resp.status)
	}

	article, err = db.GetArticle(id)
	if err != nil {
		t.Fatal(err)
	}
	if article.Title() != "Moderated Title" {
		t.Errorf("got title %q after superuser edit", article.Title())
	}
	if article.UserID() == root.ID() {
		t.Error("superuser edit must not take over ownership")
	}
}

func TestArticlesList(t *testing.T) {

	srv, db := newTestServer(t)

	client := newClient(t)
	signupUser(t, client, srv.URL, "alice@example.com")

	postForm(t, client, srv.URL+"/create-developer", url.Values{
		"name":      {"Dev One"},
		"mail":      {"dev@example.com"},
		"seniority": {"sr"},
	})
	developers, err := db.GetDevelopers(core.DeveloperFilter{})
	if err != nil {
		t.Fatal(err)
	}
	devID := developers[0].ID()

	postMultipart(t, client, srv.URL+"/create-article", url.Values{
		"title":        {"Tagged Article"},
		"content":      {"body text"},
		"published_at": {"2026-08-30T12:00"},
		"developers":   {fmt.Sprint(devID)},
	})
	postMultipart(t, client, srv.URL+"/create-article", url.Values{
		"title":   {"Untagged Draft"},
		"content": {"draft text"},
	})

	resp := get(t, client, srv.URL+"/articles")
	if !strings.Contains(resp.body, "Tagged Article") || !strings.Contains(resp.body, "Untagged Draft") {
		t.Error("articles page misses articles")
	}

	resp = get(t, client, fmt.Sprintf("%s/articles?developer=%d", srv.URL, devID))
	if !strings.Contains(resp.body, "Tagged Article") {
		t.Error("developer filter misses the tagged article")
	}
	if strings.Contains(resp.body, "Untagged Draft") {
		t.Error("developer filter shows unrelated articles")
	}

	resp = get(t, client, srv.URL+"/articles?search=draft+text")
	if strings.Contains(resp.body, "Tagged Article") || !strings.Contains(resp.body, "Untagged Draft") {
		t.Error("search filter is wrong")
	}
}
