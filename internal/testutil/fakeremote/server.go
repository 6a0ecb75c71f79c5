// Package fakeremote is an in-process stand-in for the job-execution service
// used by adapter and CLI tests.
package fakeremote

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Submission is what the server received on POST /tasks.
type Submission struct {
	Code            string
	FileName        string
	FileContentType string
	FileContent     string
	Authorization   string
}

// Server serves the remote service contract from memory. Zero-value
// failure fields mean the route behaves normally.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	users       map[string]string
	tokens      map[string]struct{}
	status      domain.PoolStatus
	tasks       []domain.Task
	hits        map[string]int
	submissions []Submission
	failures    map[string]int
	submitError string
	estimate    time.Duration
	now         func() time.Time
}

func New() *Server {
	s := &Server{
		users:    map[string]string{},
		tokens:   map[string]struct{}{},
		hits:     map[string]int{},
		failures: map[string]int{},
		estimate: 2 * time.Minute,
		now:      time.Now,
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/validate", s.authorized(s.handleValidate)).Methods(http.MethodGet)
	r.HandleFunc("/status", s.authorized(s.handleStatus)).Methods(http.MethodGet)
	r.HandleFunc("/tasks", s.authorized(s.handleListTasks)).Methods(http.MethodGet)
	r.HandleFunc("/tasks", s.authorized(s.handleSubmitTask)).Methods(http.MethodPost)
	r.Use(s.countHits)

	s.Server = httptest.NewServer(r)
	return s
}

// AddUser registers credentials that /auth/login accepts.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// IssueToken makes token valid without a login round trip.
func (s *Server) IssueToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
}

func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]struct{}{}
}

func (s *Server) SetStatus(status domain.PoolStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *Server) SetTasks(tasks []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]domain.Task(nil), tasks...)
}

// FailPath makes every request to path answer with code.
func (s *Server) FailPath(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = code
}

// RejectSubmissions makes POST /tasks fail with a JSON message body.
func (s *Server) RejectSubmissions(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitError = message
}

func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		code := s.failures[r.URL.Path]
		s.mu.Unlock()

		if code != 0 {
			writeJSON(w, code, map[string]string{"message": http.StatusText(code)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Malformed request"})
		return
	}

	s.mu.Lock()
	expected, ok := s.users[creds.Username]
	if !ok || expected != creds.Password {
		s.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
		return
	}
	token := uuid.NewString()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

func (s *Server) handleValidate(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	tasks := append([]domain.Task{}, s.tasks...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed multipart body"})
		return
	}

	submission := Submission{
		Code:          r.FormValue("code"),
		Authorization: r.Header.Get("Authorization"),
	}
	if file, header, err := r.FormFile("file"); err == nil {
		content, _ := io.ReadAll(file)
		_ = file.Close()
		submission.FileName = header.Filename
		submission.FileContentType = header.Header.Get("Content-Type")
		submission.FileContent = string(content)
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, submission)
	rejection := s.submitError
	s.mu.Unlock()

	if rejection != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": rejection})
		return
	}
	if submission.Code == "" && submission.FileName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No code or file provided"})
		return
	}

	now := s.now().UTC()
	estimated := now.Add(s.estimate)
	task := domain.Task{
		ID:                      uuid.NewString(),
		Status:                  domain.TaskStatusPending,
		Code:                    submission.Code,
		FileName:                submission.FileName,
		EstimatedCompletionTime: &estimated,
		CreatedAt:               now,
	}

	s.mu.Lock()
	s.tasks = append([]domain.Task{task}, s.tasks...)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, task)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
