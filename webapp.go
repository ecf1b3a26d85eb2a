package main

import (
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"text/template"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/term"

	"github.com/walterschell/dragboard/chessboard"
	"github.com/walterschell/dragboard/table"
)

const clientQueueSize = 32

//go:embed assets
var assets embed.FS
var static fs.FS
var templates fs.FS

var log = slog.Default().With("package", "main")

func init() {
	static, _ = fs.Sub(assets, "assets/static")
	templates, _ = fs.Sub(assets, "assets/templates")
}

func stdoutLogger(next http.Handler) http.Handler {
	return handlers.LoggingHandler(os.Stdout, next)
}

type Client struct {
	id          string
	name        string
	conn        *websocket.Conn
	send        chan []byte
	application *Application
}

// enqueue queues msg for the writer. It reports false when the client is not
// keeping up.
func (c *Client) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Warn("Error writing message", "client", c.name, "error", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

type Application struct {
	router      *mux.Router
	templates   *template.Template
	table       *table.Table
	config      Config
	clients     map[*Client]interface{}
	clientsLock sync.RWMutex
	upgrader    websocket.Upgrader
	unsubscribe func()
}

func NewApplication(cfg Config, tbl *table.Table) *Application {
	templateParser := template.New("")
	templateParser.Delims("[[", "]]")
	result := Application{
		router:    mux.NewRouter(),
		templates: template.Must(templateParser.ParseFS(templates, "*.html.gotmpl")),
		table:     tbl,
		config:    cfg,
		clients:   make(map[*Client]interface{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	result.router.NotFoundHandler = stdoutLogger(http.HandlerFunc(notFoundHandler))
	result.router.Use(stdoutLogger)

	result.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	result.router.HandleFunc("/", result.indexHandler).Methods(http.MethodGet)
	result.router.HandleFunc("/ws", result.wsHandler)
	result.router.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)

	api := result.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/board", result.boardHandler).Methods(http.MethodGet)
	api.HandleFunc("/legal", result.legalHandler).Methods(http.MethodPost)
	api.HandleFunc("/move", result.moveHandler).Methods(http.MethodPost)
	api.HandleFunc("/reset", result.resetHandler).Methods(http.MethodPost)
	api.HandleFunc("/history", result.historyHandler).Methods(http.MethodGet)

	result.unsubscribe = tbl.Subscribe(func(snap table.Snapshot) {
		result.broadcast(encode(TypeBoard, snap))
	})
	return &result
}

// Close detaches the application from its table and disconnects clients.
func (app *Application) Close() {
	app.unsubscribe()
	app.clientsLock.Lock()
	defer app.clientsLock.Unlock()
	for client := range app.clients {
		client.conn.Close()
	}
}

func (app *Application) indexHandler(w http.ResponseWriter, r *http.Request) {
	snap := app.table.Snapshot()
	boardJSON, err := json.Marshal(snap.Board)
	if err != nil {
		log.Error("Error encoding board", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	templateVars := struct {
		Title       string
		BoardPixels float64
		PiecePixels float64
		LightColor  string
		DarkColor   string
		Board       string
		FEN         string
	}{
		Title:       "dragboard",
		BoardPixels: app.config.BoardPixels,
		PiecePixels: app.config.PiecePixels,
		LightColor:  app.config.LightColor,
		DarkColor:   app.config.DarkColor,
		Board:       string(boardJSON),
		FEN:         snap.FEN,
	}

	err = app.templates.ExecuteTemplate(w, "index.html.gotmpl", templateVars)
	if err != nil {
		log.Error("Error rendering template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (application *Application) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := application.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Error upgrading connection", "error", err)
		return
	}
	client := &Client{
		id:          uuid.NewString(),
		name:        petname.Generate(2, "-"),
		conn:        conn,
		send:        make(chan []byte, clientQueueSize),
		application: application,
	}
	log.Info("New websocket connection", "remote", conn.RemoteAddr(), "client", client.name, "id", client.id)

	application.clientsLock.Lock()
	application.clients[client] = nil
	application.clientsLock.Unlock()
	go client.writePump()

	client.enqueue(encode(TypeWelcome, welcomeData{
		ID:   client.id,
		Name: client.name,
		Geometry: geometry{
			BoardPixels: application.config.BoardPixels,
			PiecePixels: application.config.PiecePixels,
		},
		Snapshot: application.table.Snapshot(),
	}))

	go func() {
		defer application.disconnect(client)
		for {
			_, messageJson, err := client.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn("Error reading message", "client", client.name, "error", err)
				}
				return
			}
			var message gestureMessage
			if err := json.Unmarshal(messageJson, &message); err != nil {
				log.Warn("Error parsing message", "client", client.name, "error", err)
				client.enqueue(encode(TypeError, errorData{Message: "malformed message"}))
				continue
			}
			client.enqueue(application.handleGesture(client, message))
		}
	}()
}

// handleGesture forwards one pointer event to the table and returns the reply.
func (app *Application) handleGesture(client *Client, message gestureMessage) []byte {
	switch message.Type {
	case TypeTouch:
		res, err := app.table.Touch(client.id, message.square(), message.pointer())
		if err != nil {
			return encode(TypeError, errorData{Message: err.Error()})
		}
		return encode(TypeTargets, res)

	case TypeMove:
		hl, err := app.table.Move(client.id, message.pointer())
		if err != nil {
			return encode(TypeError, errorData{Message: err.Error()})
		}
		return encode(TypeHighlight, hl)

	case TypeRelease:
		res, err := app.table.Release(client.id, message.pointer())
		if err != nil {
			return encode(TypeError, errorData{Message: err.Error()})
		}
		if res.Committed {
			return encode(TypeDrop, res)
		}
		return encode(TypeRevert, res)
	}
	return encode(TypeError, errorData{Message: fmt.Sprintf("unknown message type %q", message.Type)})
}

func (app *Application) disconnect(client *Client) {
	app.table.Cancel(client.id)
	app.clientsLock.Lock()
	if _, ok := app.clients[client]; ok {
		delete(app.clients, client)
		close(client.send)
	}
	app.clientsLock.Unlock()
	log.Info("Websocket closed", "client", client.name)
}

func (app *Application) broadcast(message []byte) {
	app.clientsLock.RLock()
	defer app.clientsLock.RUnlock()
	for client := range app.clients {
		if !client.enqueue(message) {
			log.Warn("Dropping slow client", "client", client.name)
			client.conn.Close()
		}
	}
}

func (app *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	app.router.ServeHTTP(w, r)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "File Not Found", http.StatusNotFound)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func printBoard() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	return chessboard.Render(os.Stdout, chessboard.InitialBoard())
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if cfg.Print {
		if err := printBoard(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		return
	}

	tbl, err := table.New(
		table.WithBoardPixels(cfg.BoardPixels),
		table.WithPiecePixels(cfg.PiecePixels),
		table.WithHighlightColors(cfg.LegalColor, cfg.IllegalColor),
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Printf("Starting server on :%d\n", cfg.Port)
	app := NewApplication(cfg, tbl)
	defer app.Close()

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), app); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
