package filestore

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/wansing/roster/upload"
)

// implements upload.Folder
type Folder struct {
	store     *Store
	articleID int
}

func (f Folder) fs() string {
	return fmt.Sprintf(f.store.CoverDir+"/%d/", f.articleID)
}

func (f Folder) ArticleID() int {
	return f.articleID
}

func (f Folder) Delete(filename string) error {

	filename, err := upload.CleanFilename(filename)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(f.fs(), filename)); err != nil {
		return err
	}

	_ = os.Remove(f.fs()) // try to remove folder, works only if the folder is empty
	return nil
}

func (f Folder) Files() ([]os.FileInfo, error) {
	files, err := ioutil.ReadDir(f.fs())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // assuming the folder was deleted because it was empty
		}
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	return files, nil
}

func (f Folder) HasFile(filename string) (bool, error) {
	filename, err := upload.CleanFilename(filename)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(filepath.Join(f.fs(), filename)); err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	} else {
		return false, err
	}
}

func (f Folder) Upload(filename string, src io.Reader) error {

	filename, err := upload.CleanFilename(filename)
	if err != nil {
		return err
	}

	err = os.MkdirAll(f.fs(), 0755) // 755 is required if the webserver runs as a different user
	if err != nil {
		return err
	}

	has, err := f.HasFile(filename)
	if err != nil {
		return err
	}
	if has {
		return errors.New("file already exists")
	}

	dst, err := os.Create(filepath.Join(f.fs(), filename)) // creates or truncates the named file, umask 0666
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// implements upload.Store
type Store struct {
	CoverDir string // contains folders whose names are article ids
}

func (s *Store) Folder(articleID int) upload.Folder {
	return &Folder{
		store:     s,
		articleID: articleID,
	}
}

// ServeHTTP serves "/<articleID>/<filename>".
func (s *Store) ServeHTTP(writer http.ResponseWriter, req *http.Request) {

	dir, filename := path.Split(req.URL.Path)

	articleID, err := strconv.Atoi(path.Base(path.Clean(dir)))
	if err != nil || articleID <= 0 {
		http.NotFound(writer, req)
		return
	}

	filename, err = upload.CleanFilename(filename)
	if err != nil {
		http.NotFound(writer, req)
		return
	}

	var location = s.Folder(articleID).(*Folder)
	http.ServeFile(writer, req, filepath.Join(location.fs(), filename))
}
