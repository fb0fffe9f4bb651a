package core

// Seniority is stored as a two-letter code. Labels are for display only.
type Seniority string

const (
	Junior Seniority = "jr"
	Mid    Seniority = "pl"
	Senior Seniority = "sr"
)

var Seniorities = []Seniority{Junior, Mid, Senior}

func (s Seniority) Label() string {
	switch s {
	case Junior:
		return "Junior"
	case Mid:
		return "Mid"
	case Senior:
		return "Senior"
	}
	return string(s)
}

func (s Seniority) Valid() bool {
	switch s {
	case Junior, Mid, Senior:
		return true
	}
	return false
}

type DBDeveloper interface {
	ID() int
	UserID() int
	Name() string
	Mail() string
	Seniority() Seniority
	Skills() []string
	ArticleCount() int // populated by list queries
}

// DeveloperFilter narrows GetDevelopers. Empty fields are ignored.
type DeveloperFilter struct {
	Search    string // case-insensitive substring of name or mail
	Seniority string // exact code
	Skill     string // case-insensitive substring of the serialized skills
}

type DeveloperDB interface {
	GetDeveloper(id int) (DBDeveloper, error)
	// GetDeveloperOwned restricts the lookup to the given owner. A foreign
	// record yields sql.ErrNoRows, indistinguishable from true absence.
	GetDeveloperOwned(id int, userID int) (DBDeveloper, error)
	// GetDevelopers returns all matching developers ordered by name,
	// with article counts populated.
	GetDevelopers(filter DeveloperFilter) ([]DBDeveloper, error)
	InsertDeveloper(userID int, name, mail string, seniority Seniority, skills []string) error
	UpdateDeveloper(d DBDeveloper, name, mail string, seniority Seniority, skills []string) error
	// DeleteDeveloper also removes the developer's article associations.
	DeleteDeveloper(d DBDeveloper) error
}
