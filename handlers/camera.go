package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"courseware/camera"
	"courseware/recognition"
	"courseware/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same-origin is enforced by the CORS layer on the HTTP side;
		// camera frames carry no secrets
		return true
	},
}

type cameraMessage struct {
	Type string `json:"type"` // "frame" or "recognize"
	Data string `json:"data"` // data URI or base64 capture
}

type cameraReply struct {
	Type       string  `json:"type"`
	Faces      int     `json:"faces,omitempty"`
	Error      string  `json:"error,omitempty"`
	State      string  `json:"state,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Backend    string  `json:"backend,omitempty"`
}

// CameraSocket streams live feedback for the login page camera: face counts
// for preview frames, and full recognition verdicts on demand. The actual
// session cookie is set by a follow-up HTTP login with the matched frame,
// since the socket is already hijacked by then.
func CameraSocket(c *gin.Context) {
	cameraID := c.Query("camera")
	if cameraID == "" {
		cameraID = utils.Rand16BytesToBase62()
	}
	session, err := camera.Acquire(cameraID, 0)
	if err != nil {
		if errors.Is(err, camera.ErrCameraBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer session.Release()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if string(message) == "ping" {
			conn.WriteMessage(websocket.TextMessage, []byte("pong"))
			continue
		}
		var msg cameraMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			writeReply(conn, cameraReply{Type: "error", Error: "bad message"})
			continue
		}
		session.FrameReceived()
		switch msg.Type {
		case "frame":
			regions, err := recognition.Default.DetectFaces([]byte(msg.Data))
			if err != nil {
				writeReply(conn, cameraReply{Type: "preview", Error: faceFailureMessage(err)})
				continue
			}
			writeReply(conn, cameraReply{Type: "preview", Faces: len(regions)})
		case "recognize":
			outcome := recognition.Default.Recognize(c.Request.Context(), []byte(msg.Data))
			reply := cameraReply{
				Type:  "verdict",
				State: outcome.State.String(),
				Faces: outcome.FaceCount,
			}
			if outcome.State == recognition.StateAccepted {
				session.MatchRecorded()
				reply.Confidence = outcome.Confidence
				reply.Backend = outcome.BackendTag
			}
			if outcome.Err != nil {
				reply.Error = faceFailureMessage(outcome.Err)
			}
			writeReply(conn, reply)
		default:
			writeReply(conn, cameraReply{Type: "error", Error: "unknown message type"})
		}
	}
}

func writeReply(conn *websocket.Conn, reply cameraReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Println("write err:", err)
	}
}
