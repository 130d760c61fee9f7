// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/kitchen-table/apiclient"
	"github.com/danielhkuo/kitchen-table/auth"
	"github.com/danielhkuo/kitchen-table/models"
)

// Defaults used by NewFakeAPI
const (
	ViewerID       int64 = 1
	TableID        int64 = 3
	OtherTableID   int64 = 7
	PromptID       int64 = 100
	ViewerPassword       = "correct-horse"
	ResetToken           = "reset-token-123"
	TokenSecret          = "test-jwt-secret"
)

// Call is one request received by the fake API
type Call struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

type errorReply struct {
	status  int
	message string
}

// FakeAPI is an in-memory Kitchen Table server. Tests mutate its exported
// state directly (under Lock/Unlock when a poller may be running).
type FakeAPI struct {
	mu     sync.Mutex
	Server *httptest.Server
	calls  []Call
	errors map[string]errorReply

	User           models.User
	Table          models.Table
	Tables         []models.TableSummary
	CurrentTableID int64
	Members        []models.Member
	Today          string
	Prompt         models.Prompt
	// All responses to today's prompt, viewer's included
	Responses              []models.Response
	SecondsUntilNextPrompt *int64
	DatePayloads           map[string]models.DatePayload
}

// NewFakeAPI starts a fake server with one viewer who owns table 3 and is a
// member of table 7. Today's prompt has one response from another member.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	now := time.Now()
	f := &FakeAPI{
		errors: map[string]errorReply{},
		User:   models.User{ID: ViewerID, Username: "alice", DisplayName: "Alice", Email: "alice@example.com"},
		Table: models.Table{
			ID: TableID, Name: "The Smiths", InviteCode: "ABCD-EFGH",
			PromptTime: "17:00", IsOwner: true, Role: models.RoleOwner,
		},
		Tables: []models.TableSummary{
			{ID: TableID, Name: "The Smiths", Role: models.RoleOwner, IsCurrent: true},
			{ID: OtherTableID, Name: "Book Club", Role: models.RoleMember},
		},
		CurrentTableID: TableID,
		Members: []models.Member{
			{Username: "alice", DisplayName: "Alice", Role: models.RoleOwner},
			{Username: "bob", DisplayName: "Bob", Role: models.RoleMember},
		},
		Today: now.Format("2006-01-02"),
		Prompt: models.Prompt{
			ID: PromptID, TableID: TableID, PromptText: "What made you smile today?",
			PromptDate: now.Format("2006-01-02"), IsEditable: true,
		},
		Responses: []models.Response{
			{ID: 1, PromptID: PromptID, UserID: 2, DisplayName: "Bob", Username: "bob",
				ResponseText: "The sunrise", CreatedAt: now.Add(-2 * time.Hour)},
		},
		DatePayloads: map[string]models.DatePayload{},
	}

	mux := http.NewServeMux()
	f.routes(mux)
	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the fake server's base URL
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Client returns an API client with its own cookie jar pointed at the fake
func (f *FakeAPI) Client() *apiclient.Client {
	jar, _ := cookiejar.New(nil)
	return apiclient.New(f.URL(), &http.Client{Jar: jar})
}

// Lock guards direct state mutation while a client may be running
func (f *FakeAPI) Lock()   { f.mu.Lock() }
func (f *FakeAPI) Unlock() { f.mu.Unlock() }

// Calls returns every request received so far
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns requests matching method and path
func (f *FakeAPI) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets the recorded requests
func (f *FakeAPI) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// FailWith makes every request to method+path fail with status and message.
// An empty message produces an error body without an "error" field.
func (f *FakeAPI) FailWith(method, path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[method+" "+path] = errorReply{status: status, message: message}
}

// ClearFailures removes all injected failures
func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = map[string]errorReply{}
}

// AddResponse simulates another member answering today's prompt
func (f *FakeAPI) AddResponse(userID int64, name, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses = append(f.Responses, models.Response{
		ID: int64(len(f.Responses) + 1), PromptID: f.Prompt.ID, UserID: userID,
		DisplayName: name, ResponseText: text, CreatedAt: time.Now(),
	})
}

// ViewerAnswered adds a response from the viewer to today's prompt
func (f *FakeAPI) ViewerAnswered(text string) {
	f.AddResponse(f.User.ID, f.User.DisplayName, text)
}

// SessionToken returns a signed auth_token for the viewer
func (f *FakeAPI) SessionToken() string {
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.SessionClaims{
		UserID: f.User.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}).SignedString([]byte(TokenSecret))
	return token
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			r.Body.Close()
			if len(data) > 0 {
				_ = json.Unmarshal(data, &body)
			}
			r.Body = io.NopCloser(bytes.NewReader(data))
		}

		f.mu.Lock()
		f.calls = append(f.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		reply, failing := f.errors[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if failing {
			if reply.message == "" {
				JSONResponse(w, reply.status, map[string]string{})
				return
			}
			ErrorResponse(w, reply.status, reply.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) viewerResponse() *models.Response {
	for i := range f.Responses {
		if f.Responses[i].UserID == f.User.ID {
			r := f.Responses[i]
			return &r
		}
	}
	return nil
}

func (f *FakeAPI) routes(mux *http.ServeMux) {
	redirect := func(w http.ResponseWriter, message, to string) {
		JSONResponse(w, http.StatusOK, models.MessageResponse{Message: message, Redirect: to})
	}
	setSession := func(w http.ResponseWriter) {
		http.SetCookie(w, &http.Cookie{Name: auth.SessionCookie, Value: f.SessionToken(), Path: "/", HttpOnly: true, MaxAge: 30 * 24 * 60 * 60})
	}

	mux.HandleFunc("POST /api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		setSession(w)
		redirect(w, "Account created successfully", "/create-table")
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		ParseJSONBody(r, &req)
		if req.Password != ViewerPassword {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		setSession(w)
		redirect(w, "Login successful", "/table")
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: auth.SessionCookie, Value: "", Path: "/", MaxAge: -1})
		JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
	})
	mux.HandleFunc("POST /api/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		JSONResponse(w, http.StatusOK, models.MessageResponse{
			Message:    "If an account exists with that email, a reset link has been sent.",
			ResetToken: ResetToken,
		})
	})
	mux.HandleFunc("POST /api/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var req models.ResetPasswordRequest
		ParseJSONBody(r, &req)
		if req.Token != ResetToken {
			ErrorResponse(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		redirect(w, "Password reset successful", "/login")
	})

	mux.HandleFunc("POST /api/table/create", func(w http.ResponseWriter, r *http.Request) {
		redirect(w, "Table created successfully", "/table")
	})
	mux.HandleFunc("POST /api/table/join", func(w http.ResponseWriter, r *http.Request) {
		var req models.JoinTableRequest
		ParseJSONBody(r, &req)
		if strings.TrimSpace(req.InviteCode) == "" {
			ErrorResponse(w, http.StatusBadRequest, "Invite code required")
			return
		}
		redirect(w, "Joined table", "/table")
	})
	mux.HandleFunc("GET /api/table/info", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		user := f.User
		JSONResponse(w, http.StatusOK, models.TableInfo{Table: f.Table, User: &user, Members: f.Members})
	})
	mux.HandleFunc("PUT /api/table/settings", func(w http.ResponseWriter, r *http.Request) {
		var req models.TableSettingsRequest
		ParseJSONBody(r, &req)
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.Table.IsOwner {
			ErrorResponse(w, http.StatusForbidden, "Only the table owner can update settings")
			return
		}
		if req.Name != "" {
			f.Table.Name = req.Name
		}
		if req.PromptTime != "" {
			f.Table.PromptTime = req.PromptTime
		}
		JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Settings updated successfully"})
	})
	mux.HandleFunc("POST /api/table/leave", func(w http.ResponseWriter, r *http.Request) {
		redirect(w, "You have left the table", "/create-table")
	})
	mux.HandleFunc("GET /api/table/list", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		tables := make([]models.TableSummary, len(f.Tables))
		for i, t := range f.Tables {
			t.IsCurrent = t.ID == f.CurrentTableID
			tables[i] = t
		}
		JSONResponse(w, http.StatusOK, models.TableList{Tables: tables, CurrentTableID: f.CurrentTableID})
	})
	mux.HandleFunc("POST /api/table/switch", func(w http.ResponseWriter, r *http.Request) {
		var req models.SwitchTableRequest
		ParseJSONBody(r, &req)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, t := range f.Tables {
			if t.ID == req.TableID {
				f.CurrentTableID = t.ID
				JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Switched to " + t.Name})
				return
			}
		}
		ErrorResponse(w, http.StatusNotFound, "Table not found")
	})

	mux.HandleFunc("POST /api/user/delete", func(w http.ResponseWriter, r *http.Request) {
		var req models.DeleteAccountRequest
		ParseJSONBody(r, &req)
		if req.Password != ViewerPassword {
			ErrorResponse(w, http.StatusUnauthorized, "Incorrect password")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: auth.SessionCookie, Value: "", Path: "/", MaxAge: -1})
		redirect(w, "Account deleted", "/")
	})
	mux.HandleFunc("PUT /api/user/profile", func(w http.ResponseWriter, r *http.Request) {
		var req models.ProfileRequest
		ParseJSONBody(r, &req)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.User.DisplayName = req.DisplayName
		JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Profile updated"})
	})

	mux.HandleFunc("GET /api/prompt/today", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		prompt := f.Prompt
		prompt.ResponseCount = len(f.Responses)
		own := f.viewerResponse()
		prompt.UserHasResponded = own != nil
		prompt.Responses = []models.Response{}
		if own != nil {
			prompt.Responses = append(prompt.Responses, f.Responses...)
		}
		JSONResponse(w, http.StatusOK, models.TodayPayload{
			Prompt: prompt, UserResponse: own, Date: f.Today,
			SecondsUntilNextPrompt: f.SecondsUntilNextPrompt,
		})
	})
	mux.HandleFunc("GET /api/prompt/yesterday", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		today, _ := time.Parse("2006-01-02", f.Today)
		f.serveDate(w, today.AddDate(0, 0, -1).Format("2006-01-02"))
	})
	mux.HandleFunc("GET /api/prompt/date/{date}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.serveDate(w, r.PathValue("date"))
	})

	mux.HandleFunc("POST /api/response/submit", func(w http.ResponseWriter, r *http.Request) {
		var req models.SubmitResponseRequest
		ParseJSONBody(r, &req)
		text := strings.TrimSpace(req.Response)
		if text == "" {
			ErrorResponse(w, http.StatusBadRequest, "Response cannot be empty")
			return
		}
		f.mu.Lock()
		if f.viewerResponse() != nil {
			f.mu.Unlock()
			ErrorResponse(w, http.StatusBadRequest, "You have already responded today")
			return
		}
		f.mu.Unlock()
		f.ViewerAnswered(text)
		JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Response submitted"})
	})
	mux.HandleFunc("PUT /api/response/edit", func(w http.ResponseWriter, r *http.Request) {
		var req models.EditResponseRequest
		ParseJSONBody(r, &req)
		f.mu.Lock()
		defer f.mu.Unlock()
		if req.PromptID != f.Prompt.ID || !f.Prompt.IsEditable {
			ErrorResponse(w, http.StatusBadRequest, "Cannot edit responses from previous days")
			return
		}
		for i := range f.Responses {
			if f.Responses[i].UserID == f.User.ID {
				now := time.Now()
				f.Responses[i].ResponseText = strings.TrimSpace(req.Response)
				f.Responses[i].EditedAt = &now
				JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Response updated successfully"})
				return
			}
		}
		ErrorResponse(w, http.StatusNotFound, "Response not found")
	})
	mux.HandleFunc("GET /api/response/poll", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.viewerResponse() == nil {
			JSONResponse(w, http.StatusOK, models.PollPayload{NewResponses: []models.Response{}})
			return
		}
		JSONResponse(w, http.StatusOK, models.PollPayload{Responses: f.Responses, Count: len(f.Responses)})
	})
}

func (f *FakeAPI) serveDate(w http.ResponseWriter, date string) {
	payload, ok := f.DatePayloads[date]
	if !ok {
		ErrorResponse(w, http.StatusNotFound, "No prompt for this date")
		return
	}
	payload.Date = date
	JSONResponse(w, http.StatusOK, payload)
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{Error: message})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
