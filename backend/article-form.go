package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/wansing/roster/core"
	"github.com/wansing/roster/upload"
	"github.com/wansing/roster/util"
)

var articleFormTmpl = tmpl(`<h1>{{ .Heading }}</h1>

	<p>
		<a class="btn btn-secondary" href="articles">Cancel</a>
	</p>

	<form method="post" enctype="multipart/form-data">
		<div class="form-group">
			<label>Title</label>
			<input class="form-control" name="title" value="{{ .Title }}" required>
		</div>
		<div class="form-group">
			<label>Slug</label>
			<input class="form-control" name="slug" value="{{ .Slug }}" onkeyup="javascript:normalizeSlug(this);">
			<small class="form-text text-muted">Optional, leave empty to derive it from the title.</small>
		</div>
		<div class="form-group">
			<label>Content</label>
			<textarea class="form-control" name="content" required>{{ .Content }}</textarea>
			<small class="form-text text-muted">Markdown.</small>
		</div>
		<div class="form-group">
			<label>Published at</label>
			<input type="datetime-local" class="form-control" name="published_at" value="{{ .PublishedAtInput }}">
			<small class="form-text text-muted">Optional, leave empty for a draft.</small>
		</div>
		<div class="form-group">
			<label>Cover image</label>
			{{ with .CoverImage }}
				<div class="form-check">
					<input type="checkbox" class="form-check-input" name="delete_cover" id="delete_cover" value="1">
					<label class="form-check-label" for="delete_cover">Delete {{ . }}</label>
				</div>
			{{ end }}
			<input type="file" class="form-control-file" name="cover">
		</div>
		<div class="form-group">
			<label>Developers</label>
			{{ range .Developers }}
				<div class="form-check">
					<input type="checkbox" class="form-check-input" name="developers" id="developer-{{ .ID }}" value="{{ .ID }}" {{ if index $.Selected .ID }}checked{{ end }}>
					<label class="form-check-label" for="developer-{{ .ID }}">{{ .Name }}</label>
				</div>
			{{ end }}
		</div>
		<button type="submit" class="btn btn-primary" name="save">Save</button>
	</form>`)

type articleFormData struct {
	*Route
	Heading          string
	Title            string
	Slug             string
	Content          string
	PublishedAtInput string // datetime-local format
	CoverImage       string
	Developers       []core.DBDeveloper
	Selected         map[int]bool // developer ids
}

type articleForm struct {
	Title            string
	Slug             string
	Content          string
	PublishedAt      int64
	PublishedAtInput string
	DeveloperIDs     []int
}

func parseArticleForm(req *http.Request) (*articleForm, error) {

	// the form carries the cover image, so it is multipart
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		return &articleForm{}, err
	}

	var form = &articleForm{
		Title:            strings.TrimSpace(req.PostFormValue("title")),
		Slug:             core.NormalizeSlug(req.PostFormValue("slug")),
		Content:          strings.TrimSpace(req.PostFormValue("content")),
		PublishedAtInput: strings.TrimSpace(req.PostFormValue("published_at")),
	}

	for _, value := range req.Form["developers"] {
		if id, err := strconv.Atoi(value); err == nil {
			form.DeveloperIDs = append(form.DeveloperIDs, id)
		}
	}

	if form.Title == "" {
		return form, errors.New("a title is required")
	}
	if form.Content == "" {
		return form, errors.New("content is required")
	}

	if form.PublishedAtInput != "" {
		var err error
		form.PublishedAt, err = util.ParseInputTime(form.PublishedAtInput)
		if err != nil {
			return form, errors.New("invalid publication time")
		}
	}

	return form, nil
}

func (form *articleForm) selected() map[int]bool {
	var selected = make(map[int]bool)
	for _, id := range form.DeveloperIDs {
		selected[id] = true
	}
	return selected
}

// storeCover saves an uploaded cover image into the article's folder and
// returns its filename. It returns an empty name if nothing was uploaded.
func storeCover(r *Route, articleID int, req *http.Request) (string, error) {

	file, header, err := req.FormFile("cover")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	filename, err := upload.CleanFilename(header.Filename)
	if err != nil {
		return "", err
	}

	var folder = r.db.Covers.Folder(articleID)

	// replace a file of the same name
	if has, _ := folder.HasFile(filename); has {
		if err := folder.Delete(filename); err != nil {
			return "", err
		}
	}

	if err := folder.Upload(filename, file); err != nil {
		return "", err
	}

	return filename, nil
}
