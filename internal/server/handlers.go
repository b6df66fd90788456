package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elpatron68/todo-web/internal/auth"
	applog "github.com/elpatron68/todo-web/internal/log"
	"github.com/elpatron68/todo-web/internal/store"
	"github.com/elpatron68/todo-web/internal/todo"
)

const activityFooterSize = 5

func (s *Server) basePage(w http.ResponseWriter, r *http.Request, title, page string) pageData {
	username, _ := auth.UsernameFromRequest(r)
	d := pageData{
		Title:        title,
		Page:         page,
		User:         username,
		Flash:        s.takeFlash(w, r),
		CSRFToken:    s.ensureCSRFToken(w, r),
		ShowActivity: s.showActivity(r),
		ReturnURL:    r.URL.RequestURI(),
	}
	if d.ShowActivity {
		for _, e := range s.activity.List(username, activityFooterSize) {
			d.Activity = append(d.Activity, activityView{When: e.When.Format("15:04:05"), Action: e.Action, Detail: e.Detail})
		}
	}
	return d
}

func (s *Server) record(r *http.Request, action string, details ...string) {
	username, _ := auth.UsernameFromRequest(r)
	s.activity.Append(username, action, details...)
	applog.Infof("%s %s", action, strings.Join(details, " "))
}

// storeError maps store errors to responses.
func (s *Server) storeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, store.ErrEmptyTask):
		http.Error(w, "Task cannot be empty", http.StatusBadRequest)
	default:
		applog.Errorf("%s: %v", what, err)
		http.Error(w, "Failed to "+what, http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	todos, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, err, "retrieve tasks")
		return
	}
	d := s.basePage(w, r, "Todos", "list")
	status, err := todo.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		d.Warning = fmt.Sprintf("Unknown filter %q, showing all tasks.", r.URL.Query().Get("status"))
		status = todo.StatusAll
	}
	d.Active = status
	d.Statuses = todo.Statuses
	d.Counts = todo.Counts(todos)
	d.Rows = buildRows(todos, status, s.now())
	s.render(w, s.listTpl, d)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if !validateCSRFToken(r, r.FormValue("csrf_token")) {
		s.setFlash(w, "error", "Invalid security token. Please refresh the page and try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	task := strings.TrimSpace(r.FormValue("task"))
	if task == "" {
		http.Error(w, "Task cannot be empty", http.StatusBadRequest)
		return
	}
	due, err := todo.ParseDueDate(r.FormValue("due_date"))
	if err != nil {
		http.Error(w, "Invalid date format", http.StatusBadRequest)
		return
	}
	added, err := s.store.Add(r.Context(), todo.Todo{Task: task, DueDate: due, Category: r.FormValue("category")})
	if err != nil {
		s.storeError(w, err, "add task")
		return
	}
	s.record(r, "add", fmt.Sprintf("#%d", added.ID), shorten(added.Task, 60))
	s.setFlash(w, "success", "Task added")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleComplete toggles completion and redirects back to the list.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	completed, err := s.store.ToggleCompleted(r.Context(), id)
	if err != nil {
		s.storeError(w, err, "update task")
		return
	}
	state := "pending"
	if completed {
		state = "completed"
	}
	s.record(r, "toggle", fmt.Sprintf("#%d", id), state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, err, "delete task")
		return
	}
	s.record(r, "delete", fmt.Sprintf("#%d", id))
	s.setFlash(w, "success", fmt.Sprintf("Task #%d deleted", id))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, err, "retrieve task")
		return
	}
	d := s.basePage(w, r, fmt.Sprintf("Edit #%d", id), "edit")
	d.Todo = t
	s.render(w, s.editTpl, d)
}

func (s *Server) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id, err := parseID(r.FormValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !validateCSRFToken(r, r.FormValue("csrf_token")) {
		s.setFlash(w, "error", "Invalid security token. Please refresh the page and try again.")
		http.Redirect(w, r, fmt.Sprintf("/edit?id=%d", id), http.StatusSeeOther)
		return
	}
	due, err := todo.ParseDueDate(r.FormValue("due_date"))
	if err != nil {
		http.Error(w, "Invalid date format", http.StatusBadRequest)
		return
	}
	t := todo.Todo{ID: id, Task: r.FormValue("task"), DueDate: due, Category: r.FormValue("category")}
	if err := s.store.Update(r.Context(), t); err != nil {
		s.storeError(w, err, "update task")
		return
	}
	s.record(r, "edit", fmt.Sprintf("#%d", id), shorten(t.Task, 60))
	s.setFlash(w, "success", "Task updated")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleActivityToggle stores the footer preference in a cookie.
func (s *Server) handleActivityToggle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("show") {
	case "0":
		http.SetCookie(w, &http.Cookie{Name: activityCookie, Value: "off", Path: "/", MaxAge: 86400 * 365})
	case "1":
		http.SetCookie(w, &http.Cookie{Name: activityCookie, Value: "on", Path: "/", MaxAge: 86400 * 365})
	}
	http.Redirect(w, r, safeReturn(r.URL.Query().Get("return")), http.StatusSeeOther)
}
