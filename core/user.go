package core

type DBUser interface {
	ID() int
	Name() string // email address
	Superuser() bool
}

type UserDB interface {
	Delete(u DBUser) error
	GetUser(id int) (DBUser, error)
	GetUserByName(name string) (DBUser, error)
	InsertUser(name string) (DBUser, error)
	LoginUser(name, password string) (DBUser, error)
	SetPassword(u DBUser, password string) error
	SetSuperuser(u DBUser, superuser bool) error
}
