package web

import (
	"log"
	"net/http"
	"os"
	"path"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/scenenode/graph"
)

// Server exposes a single scene graph over http. Handlers serialize access to
// the graph.
type Server struct {
	lock  sync.RWMutex
	graph *graph.Graph

	upgrader websocket.Upgrader
}

func NewServer(g *graph.Graph) *Server {
	return &Server{
		graph: g,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Graph returns the graph currently served.
func (s *Server) Graph() *graph.Graph {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.graph
}

func (s *Server) Router(webPath string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/scene", s.HandlerAjaxScene).Methods("GET")
	r.HandleFunc("/json/node/{index}", s.HandlerAjaxNode).Methods("GET")
	r.HandleFunc("/dump/node/{index}", s.HandlerDumpNode).Methods("GET")
	r.HandleFunc("/action/node/{index}/{action}", s.HandlerActionNode).Methods("POST")
	r.HandleFunc("/export/scene.glb", s.HandlerExportGLB).Methods("GET")
	r.HandleFunc("/export/scene.scn", s.HandlerExportScene).Methods("GET")
	r.HandleFunc("/export/node/{index}.json", s.HandlerExportNode).Methods("GET")
	r.HandleFunc("/upload/scene", s.HandlerUploadScene).Methods("POST")
	r.HandleFunc("/upload/node", s.HandlerUploadNode).Methods("POST")
	r.HandleFunc("/ws/status", s.HandlerStatusWebsocket)

	if webPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))
	}
	return r
}

func StartServer(addr string, g *graph.Graph, webPath string) error {
	s := NewServer(g)

	h := handlers.RecoveryHandler()(s.Router(webPath))
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
