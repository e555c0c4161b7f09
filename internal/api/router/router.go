// Package router wires the route table.
package router

import (
	"net/http"

	mw "github.com/openshelf/elibrary/internal/api/middlewares"
	"github.com/openshelf/elibrary/internal/auth"
	"github.com/openshelf/elibrary/internal/catalog"
)

// New builds the route table. Session loading happens in the outer middleware
// chain; gated routes are additionally wrapped in RequireSession here.
func New(authH *auth.Handler, cat *catalog.Handler) http.Handler {
	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /{$}", cat.Home)
	mux.HandleFunc("GET /explore/{$}", cat.Explore)
	mux.HandleFunc("GET /viewBook/{book_id}/{$}", cat.ViewBook)

	// Auth
	mux.HandleFunc("GET /register/{$}", authH.RegisterPage)
	mux.HandleFunc("POST /register/{$}", authH.Register)
	mux.HandleFunc("GET /login/{$}", authH.LoginPage)
	mux.HandleFunc("POST /login/{$}", authH.Login)
	mux.Handle("GET /logout/{$}", mw.RequireSession(http.HandlerFunc(authH.Logout)))

	// Gated book management
	mux.Handle("GET /addBook/{user_id}/{$}", mw.RequireSession(http.HandlerFunc(cat.AddBookPage)))
	mux.Handle("POST /addBook/{user_id}/{$}", mw.RequireSession(http.HandlerFunc(cat.AddBook)))
	mux.Handle("GET /contri/{user_id}/{$}", mw.RequireSession(http.HandlerFunc(cat.Contri)))
	mux.Handle("GET /editBook/{book_id}/{$}", mw.RequireSession(http.HandlerFunc(cat.EditBookPage)))
	mux.Handle("POST /editBook/{book_id}/{$}", mw.RequireSession(http.HandlerFunc(cat.EditBook)))
	mux.Handle("GET /deleteBook/{book_id}/{$}", mw.RequireSession(http.HandlerFunc(cat.DeleteBook)))

	return mux
}
