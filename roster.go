package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/roster/backend"
	"github.com/wansing/roster/core"
	"github.com/wansing/roster/filestore"
	"github.com/wansing/roster/sqldb"
	"github.com/wansing/roster/util"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

const defaultDbURL = "sqlite3:roster.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared"

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	var dbArg string // is in both FlagSets

	// default FlagSet

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", "", "strip off this `prefix` from every HTTP request and prepend it to every link")
	var configArg = flag.String("config", "", "read the keys db, listen, base and covers from this ini `file`, flags take precedence")
	var coverDir = flag.String("covers", "covers", "store cover images in this `directory`")
	flag.StringVar(&dbArg, "db", defaultDbURL, "sql database url, see github.com/xo/dburl")
	var listenAddr = flag.String("listen", "127.0.0.1:8080", "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", defaultDbURL, "sql database url, see github.com/xo/dburl") // copied from above
	var initInsert = initFlags.Bool("insert", false, "creates the given user, prompting for a password")
	var initMakeSuperuser = initFlags.Bool("make-superuser", false, "gives superuser privileges to the given user")
	var username = initFlags.String("user", "", "specifies a user `email address`")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// config file provides defaults for flags that were not set

	if *configArg != "" {

		config, err := util.Ini(*configArg)
		if err != nil {
			log.Printf("could not read config file: %v", err)
			return
		}

		var explicit = map[string]bool{}
		flag.Visit(func(f *flag.Flag) {
			explicit[f.Name] = true
		})

		if v, ok := config["db"]; ok && !explicit["db"] {
			dbArg = v
		}
		if v, ok := config["listen"]; ok && !explicit["listen"] {
			*listenAddr = v
		}
		if v, ok := config["base"]; ok && !explicit["base"] {
			*base = v
		}
		if v, ok := config["covers"]; ok && !explicit["covers"] {
			*coverDir = v
		}
	}

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.String())

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = sqldb.NewMySQLSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqldb.NewSQLiteSessionStore(sqlDB)
	default:
		log.Printf("unknown database backend: %s", dbURL.Driver)
		return
	}

	db := &core.CoreDB{}
	if err := db.Init(sessionStore, *base); err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	db.ArticleDB = sqldb.NewArticleDB(sqlDB)
	db.DeveloperDB = sqldb.NewDeveloperDB(sqlDB)
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.Covers = &filestore.Store{
		CoverDir: *coverDir,
	}

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		if *username == "" {
			log.Println("init requires -user")
			return
		}
		switch {
		case *initInsert:
			insertUser(db, *username)
		case *initMakeSuperuser:
			makeSuperuser(db, *username)
		}
		return
	}

	listen(db, *listenAddr, *base)
}

func insertUser(db *core.CoreDB, name string) {

	fmt.Printf("password for user %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	user, err := db.InsertUser(name)
	if err != nil {
		log.Printf("error creating user %s: %v", name, err)
		return
	}

	if err := db.SetPassword(user, string(pass1)); err != nil {
		log.Printf("error setting password: %v", err)
		return
	}
}

func makeSuperuser(db *core.CoreDB, name string) {

	user, err := db.GetUserByName(name)
	if err != nil {
		log.Printf("error getting user %s: %v", name, err)
		return
	}

	if err := db.SetSuperuser(user, true); err != nil {
		log.Printf("error making %s a superuser: %v", name, err)
		return
	}
}

func listen(db *core.CoreDB, addr string, base string) {

	var waitingControllers sync.WaitGroup

	var mux = http.NewServeMux()
	util.HandlePrefix(mux, base+"/covers", db.Covers)
	util.HandlePrefix(mux, base+"/static", http.FileServer(http.Dir("static")))
	util.HandlePrefix(mux, base, http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			waitingControllers.Add(1)
			defer waitingControllers.Done()
			backend.NewRouter(db, base).ServeHTTP(w, req)
		},
	))

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()

	waitingControllers.Wait()
}
