package main

import (
	"encoding/json"

	"github.com/walterschell/dragboard/chessboard"
	"github.com/walterschell/dragboard/drag"
	"github.com/walterschell/dragboard/table"
)

type MessageType string

const (
	// Client to server.
	TypeTouch   MessageType = "touch"
	TypeMove    MessageType = "move"
	TypeRelease MessageType = "release"

	// Server to client.
	TypeWelcome   MessageType = "welcome"
	TypeBoard     MessageType = "board"
	TypeTargets   MessageType = "targets"
	TypeHighlight MessageType = "highlight"
	TypeDrop      MessageType = "drop"
	TypeRevert    MessageType = "revert"
	TypeError     MessageType = "error"
)

// gestureMessage is a pointer event sent by the board page. Row and Col are
// only meaningful for touch.
type gestureMessage struct {
	Type MessageType `json:"type"`
	Row  int         `json:"row"`
	Col  int         `json:"col"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}

func (m gestureMessage) square() chessboard.Square {
	return chessboard.Sq(m.Row, m.Col)
}

func (m gestureMessage) pointer() drag.Point {
	return drag.Point{X: m.X, Y: m.Y}
}

// envelope is every message sent to the board page.
type envelope struct {
	Type MessageType `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type welcomeData struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Geometry geometry       `json:"geometry"`
	Snapshot table.Snapshot `json:"snapshot"`
}

type geometry struct {
	BoardPixels float64 `json:"boardPixels"`
	PiecePixels float64 `json:"piecePixels"`
}

type errorData struct {
	Message string `json:"message"`
}

func encode(t MessageType, data interface{}) []byte {
	msg, err := json.Marshal(envelope{Type: t, Data: data})
	if err != nil {
		log.Error("Error encoding message", "type", t, "error", err)
		msg, _ = json.Marshal(envelope{Type: TypeError, Data: errorData{Message: "internal error"}})
	}
	return msg
}
