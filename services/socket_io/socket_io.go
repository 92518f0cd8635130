package socket_io

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer carries the room membership hints: clients join the room
// for the game they are watching and receive "game-started" /
// "score-updated" nudges. State always flows through the polled HTTP
// read path; these events only shorten the poll latency and carry no
// payload logic.
type SocketServer struct {
	Sio_server *socket.Server
}

func (sio *SocketServer) Start(router *gin.Engine) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load
	// and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		client.On("join-game", func(args ...interface{}) {
			if gameCode, ok := firstString(args); ok {
				client.Join(socket.Room(gameCode))
			}
		})

		client.On("leave-game", func(args ...interface{}) {
			if gameCode, ok := firstString(args); ok {
				client.Leave(socket.Room(gameCode))
			}
		})
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}

// BroadcastToGame emits an advisory event to everyone in the game's room.
func (sio *SocketServer) BroadcastToGame(gameCode string, event string, payload interface{}) {
	if sio.Sio_server == nil {
		return
	}
	sio.Sio_server.To(socket.Room(gameCode)).Emit(event, payload)
}

func firstString(args []interface{}) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok && s != ""
}
