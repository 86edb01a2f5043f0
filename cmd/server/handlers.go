package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"library-manager/internal/librarymanager"
)

var apiJSON = jsoniter.Config{
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

// Request-level errors, reported before the manager is called.
const (
	errTextInvalidID   = "Book id must be an integer"
	errTextInvalidBody = "Request body is not valid JSON"
	errTextInternal    = "Internal server error"
)

type addBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (app *application) healthHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *application) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	app.mu.Lock()
	books := app.manager.ListBooks()
	app.mu.Unlock()

	app.writeJSON(w, http.StatusOK, books)
}

func (app *application) searchBooksHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	app.mu.Lock()
	books := app.manager.FindBooks(query)
	app.mu.Unlock()

	app.writeJSON(w, http.StatusOK, books)
}

func (app *application) addBookHandler(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := apiJSON.NewDecoder(r.Body).Decode(&req); err != nil {
		app.logger.Debug().Err(err).Msg("Rejected add request body")
		app.writeError(w, http.StatusBadRequest, errTextInvalidBody)
		return
	}

	app.mu.Lock()
	result, err := app.manager.AddBook(req.Title, req.Author, req.Year)
	app.mu.Unlock()

	app.writeResult(w, http.StatusCreated, result, err)
}

func (app *application) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.bookID(w, r)
	if !ok {
		return
	}

	app.mu.Lock()
	result, err := app.manager.DeleteBook(id)
	app.mu.Unlock()

	app.writeResult(w, http.StatusOK, result, err)
}

func (app *application) changeStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.bookID(w, r)
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := apiJSON.NewDecoder(r.Body).Decode(&req); err != nil {
		app.logger.Debug().Err(err).Msg("Rejected status request body")
		app.writeError(w, http.StatusBadRequest, errTextInvalidBody)
		return
	}

	app.mu.Lock()
	result, err := app.manager.ChangeStatus(id, req.Status)
	app.mu.Unlock()

	app.writeResult(w, http.StatusOK, result, err)
}

// bookID parses the {bookID} URL parameter, answering 400 when it is not
// an integer.
func (app *application) bookID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "bookID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		app.writeError(w, http.StatusBadRequest, errTextInvalidID)
		return 0, false
	}
	return id, true
}

// writeResult answers with a Result body. Rejections map to 404 for an
// unknown id and 400 otherwise; a storage failure becomes a 500.
func (app *application) writeResult(w http.ResponseWriter, okStatus int, result librarymanager.Result, err error) {
	if err != nil {
		app.logger.Error().Err(err).Msg("Library operation failed")
		app.writeError(w, http.StatusInternalServerError, errTextInternal)
		return
	}

	status := okStatus
	switch result.Kind {
	case librarymanager.KindNone:
	case librarymanager.KindNotFound:
		status = http.StatusNotFound
	default:
		status = http.StatusBadRequest
	}
	app.writeJSON(w, status, result)
}

func (app *application) writeError(w http.ResponseWriter, status int, text string) {
	app.writeJSON(w, status, librarymanager.Result{Error: text})
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := apiJSON.Marshal(data)
	if err != nil {
		app.logger.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, errTextInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
