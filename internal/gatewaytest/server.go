// Package gatewaytest runs an in-process imitation of the SignalBridge
// gateway for tests. It keeps a balance, bills sends by segment, records
// transactions and answers with the gateway's JSON shapes and status codes.
package gatewaytest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/nugsoft/signalbridge-go/segments"
)

// Server is a running fake gateway. Its API root is URL().
type Server struct {
	srv *httptest.Server

	mu           sync.Mutex
	token        string
	revoked      bool
	currency     string
	balance      decimal.Decimal
	segmentPrice decimal.Decimal
	nextID       int
	transactions []transaction
	failures     map[string]failure
	requests     []Recorded
}

// Recorded is one request the server received.
type Recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type failure struct {
	status int
	body   string
}

type transaction struct {
	ID           int             `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description"`
	CreatedAt    string          `json:"created_at"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// New starts a fake gateway accepting token, with balance in UGX at
// segmentPrice per segment. Call Close when done.
func New(token string, balance, segmentPrice decimal.Decimal) *Server {
	s := &Server{
		token:        token,
		currency:     "UGX",
		balance:      balance,
		segmentPrice: segmentPrice,
		nextID:       1,
		failures:     map[string]failure{},
	}
	s.srv = httptest.NewServer(s.router())
	return s
}

// URL is the API root to configure the client with.
func (s *Server) URL() string { return s.srv.URL + "/api" }

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// Fail makes every request to "METHOD /path" (path relative to the API
// root) answer with status and body.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Requests returns everything received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Balance returns the current balance.
func (s *Server) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.record, s.injectFailures, s.authenticate)
	api.HandleFunc("/sms/send", s.handleSend).Methods(http.MethodPost)
	api.HandleFunc("/sms/send-batch", s.handleSendBatch).Methods(http.MethodPost)
	api.HandleFunc("/balance", s.handleBalance).Methods(http.MethodGet)
	api.HandleFunc("/balance/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/balance/transactions", s.handleTransactions).Methods(http.MethodGet)
	api.HandleFunc("/tokens", s.handleTokens).Methods(http.MethodGet)
	api.HandleFunc("/tokens/current", s.handleRevoke).Methods(http.MethodDelete)
	return r
}

// ------------------------------
// Middleware
// ------------------------------

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method: r.Method,
			Path:   strings.TrimPrefix(r.URL.Path, "/api"),
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api")]
		s.mu.Unlock()
		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		ok := !s.revoked && r.Header.Get("Authorization") == "Bearer "+s.token
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------
// Messaging
// ------------------------------

type outbound struct {
	Recipient   string         `json:"recipient"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata"`
	IsTest      bool           `json:"is_test"`
	SenderID    *string        `json:"sender_id"`
	ScheduledAt *string        `json:"scheduled_at"`
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var in outbound
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Malformed JSON"})
		return
	}
	if errs := validate(in); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result, short := s.charge(in)
	if short != nil {
		writeJSON(w, http.StatusPaymentRequired, map[string]any{"message": "Insufficient balance", "data": short})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "SMS sent successfully", "data": result})
}

func (s *Server) handleSendBatch(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Messages []outbound `json:"messages"`
		IsTest   bool       `json:"is_test"`
		SenderID *string    `json:"sender_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Malformed JSON"})
		return
	}
	if len(in.Messages) == 0 {
		writeValidation(w, [][2]string{{"messages", "The messages field is required."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]map[string]any, 0, len(in.Messages))
	ok := 0
	for _, m := range in.Messages {
		m.IsTest = m.IsTest || in.IsTest
		if m.SenderID == nil {
			m.SenderID = in.SenderID
		}
		if errs := validate(m); len(errs) > 0 {
			items = append(items, map[string]any{"recipient": m.Recipient, "success": false, "error": errs[0][1]})
			continue
		}
		result, short := s.charge(m)
		if short != nil {
			items = append(items, map[string]any{"recipient": m.Recipient, "success": false, "error": "Insufficient balance"})
			continue
		}
		ok++
		items = append(items, map[string]any{"recipient": m.Recipient, "success": true, "data": result})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Batch processed",
		"data": map[string]any{
			"total":      len(in.Messages),
			"successful": ok,
			"failed":     len(in.Messages) - ok,
			"messages":   items,
		},
	})
}

// charge bills one message. Callers hold s.mu.
func (s *Server) charge(m outbound) (map[string]any, map[string]any) {
	segs := segments.Count(m.Message)
	cost := segments.EstimateCost(m.Message, s.segmentPrice)
	if m.IsTest {
		cost = decimal.Zero
	}
	if cost.GreaterThan(s.balance) {
		return nil, map[string]any{
			"required_balance": cost,
			"current_balance":  s.balance,
			"segments":         segs,
		}
	}
	s.balance = s.balance.Sub(cost)
	id := s.nextID
	s.nextID++
	s.transactions = append(s.transactions, transaction{
		ID:           id,
		Type:         "debit",
		Amount:       cost,
		Currency:     s.currency,
		Description:  "SMS to " + m.Recipient,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		BalanceAfter: s.balance,
	})
	result := map[string]any{
		"message_id":    id,
		"recipient":     m.Recipient,
		"status":        "queued",
		"segments":      segs,
		"cost":          cost,
		"balance_after": s.balance,
	}
	if m.ScheduledAt != nil {
		result["status"] = "scheduled"
		result["scheduled_at"] = *m.ScheduledAt
	}
	return result, nil
}

func validate(m outbound) [][2]string {
	var errs [][2]string
	if m.Recipient == "" {
		errs = append(errs, [2]string{"recipient", "The recipient field is required."})
	} else if !digits(m.Recipient) {
		errs = append(errs, [2]string{"recipient", "The recipient must be a valid phone number."})
	}
	if m.Message == "" {
		errs = append(errs, [2]string{"message", "The message field is required."})
	} else if segments.Length(m.Message) > segments.MaxMessageLength {
		errs = append(errs, [2]string{"message", "The message may not be greater than 1000 characters."})
	}
	return errs
}

func digits(s string) bool {
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ------------------------------
// Balance
// ------------------------------

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	s.mu.Lock()
	defer s.mu.Unlock()
	if currency != s.currency {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "No balance for currency " + currency})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balance":           s.balance,
		"available_balance": s.balance,
		"segment_price":     s.segmentPrice,
		"currency":          s.currency,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := s.transactions
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"balances":            []any{map[string]any{"currency": s.currency, "balance": s.balance}},
			"recent_transactions": recent,
			"messages_sent":       len(s.transactions),
		},
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := atoiDefault(q.Get("page"), 1)
	perPage := atoiDefault(q.Get("per_page"), 15)

	s.mu.Lock()
	defer s.mu.Unlock()
	var filtered []transaction
	for _, tx := range s.transactions {
		if t := q.Get("type"); t != "" && tx.Type != t {
			continue
		}
		day := tx.CreatedAt[:10]
		if sd := q.Get("start_date"); sd != "" && day < sd {
			continue
		}
		if ed := q.Get("end_date"); ed != "" && day > ed {
			continue
		}
		filtered = append(filtered, tx)
	}
	from := (page - 1) * perPage
	if from > len(filtered) {
		from = len(filtered)
	}
	to := from + perPage
	if to > len(filtered) {
		to = len(filtered)
	}
	lastPage := (len(filtered) + perPage - 1) / perPage
	if lastPage == 0 {
		lastPage = 1
	}
	data := filtered[from:to]
	if data == nil {
		data = []transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"pagination": map[string]any{
			"current_page": page,
			"per_page":     perPage,
			"total":        len(filtered),
			"last_page":    lastPage,
		},
	})
}

// ------------------------------
// Tokens
// ------------------------------

func (s *Server) handleTokens(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data": []any{map[string]any{"id": 1, "name": "default", "abilities": []string{"*"}}},
	})
}

func (s *Server) handleRevoke(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.revoked = true
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "Token revoked successfully"})
}

// ------------------------------
// Helpers
// ------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeValidation(w http.ResponseWriter, errs [][2]string) {
	// Build the errors object by hand so field order is stable.
	var b strings.Builder
	b.WriteString(`{"message":"The given data was invalid.","errors":{`)
	seen := map[string]int{}
	var order []string
	grouped := map[string][]string{}
	for _, e := range errs {
		if _, ok := seen[e[0]]; !ok {
			seen[e[0]] = len(order)
			order = append(order, e[0])
		}
		grouped[e[0]] = append(grouped[e[0]], e[1])
	}
	for i, field := range order {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(field)
		v, _ := json.Marshal(grouped[field])
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteString("}}")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_, _ = w.Write([]byte(b.String()))
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
