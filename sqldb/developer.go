package sqldb

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/wansing/roster/core"
)

type developer struct {
	id           int
	userId       int
	name         string
	mail         string
	seniority    string
	skills       string // JSON array
	articleCount int
}

func (d *developer) ID() int {
	return d.id
}

func (d *developer) UserID() int {
	return d.userId
}

func (d *developer) Name() string {
	return d.name
}

func (d *developer) Mail() string {
	return d.mail
}

func (d *developer) Seniority() core.Seniority {
	return core.Seniority(d.seniority)
}

func (d *developer) Skills() []string {
	if d.skills == "" {
		return nil
	}
	var skills []string
	_ = json.Unmarshal([]byte(d.skills), &skills)
	return skills
}

func (d *developer) ArticleCount() int {
	return d.articleCount
}

func marshalSkills(skills []string) string {
	if skills == nil {
		skills = []string{}
	}
	serialized, _ := json.Marshal(skills)
	return string(serialized)
}

type DeveloperDB struct {
	*sql.DB
	delete             *sql.Stmt
	deleteAssociations *sql.Stmt
	get                *sql.Stmt
	getOwned           *sql.Stmt
	insert             *sql.Stmt
	update             *sql.Stmt
}

func NewDeveloperDB(db *sql.DB) *DeveloperDB {

	// also created by NewArticleDB, whose statements join it
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

	// shared with ArticleDB, see there
	db.Exec(
		`CREATE TABLE IF NOT EXISTS article_developer (
			articleId INTEGER NOT NULL,
			developerId INTEGER NOT NULL,
			PRIMARY KEY (articleId, developerId)
		);`)

	var developerDB = &DeveloperDB{}
	developerDB.DB = db
	developerDB.delete = mustPrepare(db, "DELETE FROM developer WHERE id = ?")
	developerDB.deleteAssociations = mustPrepare(db, "DELETE FROM article_developer WHERE developerId = ?")
	developerDB.get = mustPrepare(db, "SELECT id, userId, name, mail, seniority, skills FROM developer WHERE id = ? LIMIT 1")
	developerDB.getOwned = mustPrepare(db, "SELECT id, userId, name, mail, seniority, skills FROM developer WHERE id = ? AND userId = ? LIMIT 1")
	developerDB.insert = mustPrepare(db, "INSERT INTO developer (userId, name, mail, seniority, skills) VALUES (?, ?, ?, ?, ?)")
	developerDB.update = mustPrepare(db, "UPDATE developer SET name = ?, mail = ?, seniority = ?, skills = ? WHERE id = ?")
	return developerDB
}

func (db *DeveloperDB) GetDeveloper(id int) (core.DBDeveloper, error) {
	var d = &developer{}
	err := db.get.QueryRow(id).Scan(&d.id, &d.userId, &d.name, &d.mail, &d.seniority, &d.skills)
	return d, err
}

// GetDeveloperOwned scopes the lookup to the owner, so a foreign record
// manifests as sql.ErrNoRows.
func (db *DeveloperDB) GetDeveloperOwned(id int, userID int) (core.DBDeveloper, error) {
	var d = &developer{}
	err := db.getOwned.QueryRow(id, userID).Scan(&d.id, &d.userId, &d.name, &d.mail, &d.seniority, &d.skills)
	return d, err
}

// GetDevelopers is not prepared because the WHERE clause depends on the filter.
// LIKE is case-insensitive in sqlite and mysql by default.
func (db *DeveloperDB) GetDevelopers(filter core.DeveloperFilter) ([]core.DBDeveloper, error) {

	var query = `
		SELECT d.id, d.userId, d.name, d.mail, d.seniority, d.skills, COUNT(ad.articleId)
		FROM developer d
		LEFT JOIN article_developer ad ON ad.developerId = d.id`

	var where []string
	var args []interface{}

	if filter.Search != "" {
		where = append(where, "(d.name LIKE ? OR d.mail LIKE ?)")
		var pattern = "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Seniority != "" {
		where = append(where, "d.seniority = ?")
		args = append(args, filter.Seniority)
	}
	if filter.Skill != "" {
		where = append(where, "d.skills LIKE ?")
		args = append(args, "%"+filter.Skill+"%")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY d.id ORDER BY d.name"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.DBDeveloper{}

	for rows.Next() {
		var d = &developer{}
		err := rows.Scan(&d.id, &d.userId, &d.name, &d.mail, &d.seniority, &d.skills, &d.articleCount)
		if err != nil {
			return nil, err
		}
		all = append(all, d)
	}

	return all, rows.Err()
}

func (db *DeveloperDB) InsertDeveloper(userID int, name, mail string, seniority core.Seniority, skills []string) error {
	_, err := db.insert.Exec(userID, name, clean(mail), string(seniority), marshalSkills(skills))
	return err
}

func (db *DeveloperDB) UpdateDeveloper(d core.DBDeveloper, name, mail string, seniority core.Seniority, skills []string) error {
	_, err := db.update.Exec(name, clean(mail), string(seniority), marshalSkills(skills), d.ID())
	return err
}

// DeleteDeveloper removes the developer and its article associations.
// The articles themselves stay.
func (db *DeveloperDB) DeleteDeveloper(d core.DBDeveloper) error {
	if _, err := db.deleteAssociations.Exec(d.ID()); err != nil {
		return err
	}
	_, err := db.delete.Exec(d.ID())
	return err
}
