package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walterschell/dragboard/chessanalysis"
	"github.com/walterschell/dragboard/chessboard"
	"github.com/walterschell/dragboard/table"
)

const maxJSONBodyBytes int64 = 1 << 16

type moveRequest struct {
	From chessboard.Square `json:"from"`
	To   chessboard.Square `json:"to"`
}

type moveResponse struct {
	Verdict  chessboard.Verdict `json:"verdict"`
	Snapshot table.Snapshot     `json:"snapshot"`
}

type historyResponse struct {
	Start chessboard.Board             `json:"start"`
	Moves []chessanalysis.MoveAnalysis `json:"moves"`
}

func (app *Application) boardHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, app.table.Snapshot())
}

func (app *Application) legalHandler(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, app.table.Evaluate(req.From, req.To))
}

func (app *Application) moveHandler(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	snap, verdict, err := app.table.TryMove(req.From, req.To)
	switch {
	case errors.Is(err, table.ErrIllegalMove):
		writeJSON(w, http.StatusUnprocessableEntity, moveResponse{Verdict: verdict, Snapshot: snap})
	case errors.Is(err, table.ErrDragInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		log.Error("Error applying move", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, moveResponse{Verdict: verdict, Snapshot: snap})
	}
}

func (app *Application) resetHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, app.table.Reset())
}

// historyHandler reviews every move committed since the last reset.
func (app *Application) historyHandler(w http.ResponseWriter, r *http.Request) {
	start, history := app.table.History()
	moves := make([]chessanalysis.Move, len(history))
	for i, m := range history {
		moves[i] = chessanalysis.Move{From: m.From, To: m.To}
	}
	analyses, err := chessanalysis.AnalyzeMoves(start, moves)
	if err != nil {
		log.Error("Error analyzing history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Start: start, Moves: analyses})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		log.Warn("Error decoding request", "path", r.URL.Path, "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error writing response", "error", err)
	}
}
