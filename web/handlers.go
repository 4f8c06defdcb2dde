package web

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/scenenode/graph"
	"github.com/mogaika/scenenode/scene"
	"github.com/mogaika/scenenode/scene/base"
	"github.com/mogaika/scenenode/status"
	"github.com/mogaika/scenenode/utils"
	"github.com/mogaika/scenenode/utils/gltfutils"
	"github.com/mogaika/scenenode/webutils"
)

type NodeInfo struct {
	Handle   base.Handle
	Parent   base.Handle
	Children []base.Handle
	Kind     scene.Kind
	Name     string
	Tag      string
	Visible  bool
}

type SceneInfo struct {
	Title string
	Nodes []NodeInfo
}

type NodeData struct {
	Handle base.Handle
	Node   *scene.Node
}

func (s *Server) HandlerAjaxScene(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	info := SceneInfo{Title: s.graph.Title, Nodes: make([]NodeInfo, 0, s.graph.Len())}
	s.graph.ForEach(func(h base.Handle, n *scene.Node) {
		info.Nodes = append(info.Nodes, NodeInfo{
			Handle:   h,
			Parent:   n.Parent(),
			Children: n.Children(),
			Kind:     n.Kind(),
			Name:     n.Name(),
			Tag:      n.Tag(),
			Visible:  n.Visibility(),
		})
	})
	webutils.WriteJson(w, &info)
}

// nodeFromRequest resolves the {index} route parameter. Must be called with
// the lock held.
func (s *Server) nodeFromRequest(r *http.Request) (base.Handle, *scene.Node, error) {
	param := mux.Vars(r)["index"]
	index, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		return base.NoHandle, nil, errors.Errorf("Node index %q is not integer", param)
	}
	h, ok := s.graph.HandleAt(uint32(index))
	if !ok {
		return base.NoHandle, nil, errors.Errorf("Node %d not found", index)
	}
	return h, s.graph.Get(h), nil
}

func (s *Server) HandlerAjaxNode(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	h, n, err := s.nodeFromRequest(r)
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, err)
		return
	}
	webutils.WriteJson(w, &NodeData{Handle: h, Node: n})
}

func (s *Server) HandlerDumpNode(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	h, n, err := s.nodeFromRequest(r)
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%v %v\n", h, n)
	webutils.WriteResult(w, []byte(utils.SDump(n.Payload())))
}

func (s *Server) HandlerActionNode(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	defer s.lock.Unlock()

	h, n, err := s.nodeFromRequest(r)
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, err)
		return
	}

	action := mux.Vars(r)["action"]
	switch action {
	case "remove":
		desc := n.String()
		removed, err := s.graph.Remove(h)
		if err != nil {
			webutils.WriteErrorCode(w, http.StatusBadRequest, err)
			return
		}
		status.Info("Removed %s with %d descendants", desc, len(removed)-1)
	case "unlink":
		if err := s.graph.Unlink(h); err != nil {
			webutils.WriteErrorCode(w, http.StatusBadRequest, err)
			return
		}
	case "show":
		n.SetVisibility(true)
	case "hide":
		n.SetVisibility(false)
	default:
		webutils.WriteErrorCode(w, http.StatusBadRequest, errors.Errorf("Unknown action %q", action))
		return
	}
	s.graph.UpdateHierarchy()
	webutils.WriteJson(w, map[string]interface{}{"Action": action, "Handle": h})
}

func (s *Server) HandlerExportGLB(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	status.Progress(0, "Exporting scene %q", s.graph.Title)
	doc, err := s.graph.ExportGLTF()
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to export gltf"))
		return
	}
	var buf bytes.Buffer
	if err := gltfutils.ExportBinary(&buf, doc); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to encode gltf"))
		return
	}
	status.Progress(1, "Exported scene %q: %d nodes, %d meshes", s.graph.Title, len(doc.Nodes), len(doc.Meshes))
	webutils.WriteFile(w, &buf, "scene.glb")
}

func (s *Server) HandlerExportNode(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	h, n, err := s.nodeFromRequest(r)
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, err)
		return
	}
	webutils.WriteJsonFile(w, n, fmt.Sprintf("node_%d", h.Index))
}

func (s *Server) HandlerExportScene(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var buf bytes.Buffer
	if err := s.graph.Save(&buf); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to save scene"))
		return
	}
	webutils.WriteFile(w, &buf, "scene.scn")
}

func (s *Server) HandlerUploadScene(w http.ResponseWriter, r *http.Request) {
	data, err := webutils.ReadFormFile(r, "data")
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusBadRequest, err)
		return
	}

	g, err := graph.Load(bytes.NewReader(data))
	if err != nil {
		status.Error("Failed to load uploaded scene: %v", err)
		webutils.WriteErrorCode(w, http.StatusBadRequest, err)
		return
	}

	s.lock.Lock()
	s.graph = g
	s.lock.Unlock()

	status.Info("Loaded scene %q with %d nodes", g.Title, g.Len())
	webutils.WriteJson(w, map[string]interface{}{"Title": g.Title, "Nodes": g.Len()})
}

func (s *Server) HandlerUploadNode(w http.ResponseWriter, r *http.Request) {
	var n scene.Node
	if err := webutils.ReadJsonFile(r, "data", &n); err != nil {
		webutils.WriteErrorCode(w, http.StatusBadRequest, err)
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	h := s.graph.Add(n)
	s.graph.UpdateHierarchy()

	log.Printf("[web] Added %v as %v", s.graph.Get(h), h)
	webutils.WriteJson(w, &NodeData{Handle: h, Node: s.graph.Get(h)})
}

func (s *Server) HandlerStatusWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] Websocket upgrade failed: %v", err)
		return
	}
	status.NewClient(conn)
}
