package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rook-computer/d3doverlay/internal/sim"
)

// Status is the simulator's view of one overlay installation.
type Status struct {
	State               string            `json:"state"`
	Visible             bool              `json:"visible"`
	WantCaptureMouse    bool              `json:"wantCaptureMouse"`
	WantCaptureKeyboard bool              `json:"wantCaptureKeyboard"`
	Session             string            `json:"session,omitempty"`
	ScriptTicks         uint64            `json:"scriptTicks"`
	Host                sim.HostStats     `json:"host"`
	Renderer            sim.RendererStats `json:"renderer"`
}

// Controller is what the API drives. The simulator implements it.
type Controller interface {
	Status() Status
	Faults() sim.Faults
	SetFaults(sim.Faults)
	ResetDevice() uintptr
	Key(vk uintptr)
	SetVisible(v bool)
	WriteSnapshot(w io.Writer) error
	Shutdown()
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type resetResponse struct {
	OK     bool   `json:"ok"`
	Result string `json:"result"`
}

func apiV1Router(c Controller) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, c) })
	mux.HandleFunc("/faults", func(w http.ResponseWriter, r *http.Request) { handleFaults(w, r, c) })
	mux.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) { handleReset(w, r, c) })
	mux.HandleFunc("/key", func(w http.ResponseWriter, r *http.Request) { handleKey(w, r, c) })
	mux.HandleFunc("/visible", func(w http.ResponseWriter, r *http.Request) { handleVisible(w, r, c) })
	mux.HandleFunc("/snapshot.png", func(w http.ResponseWriter, r *http.Request) { handleSnapshot(w, r, c) })
	mux.HandleFunc("/shutdown", func(w http.ResponseWriter, r *http.Request) { handleShutdown(w, r, c) })
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, c Controller) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, c.Status())
}

func handleFaults(w http.ResponseWriter, r *http.Request, c Controller) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, c.Faults())
	case http.MethodPost:
		var patch struct {
			ProbeFailures  *int  `json:"probeFailures"`
			ResetFail      *bool `json:"resetFail"`
			EngineInitFail *bool `json:"engineInitFail"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_json", "invalid json")
			return
		}
		current := c.Faults()
		if patch.ProbeFailures != nil {
			if *patch.ProbeFailures < 0 {
				writeAPIError(w, http.StatusBadRequest, "invalid_value", "probeFailures must not be negative")
				return
			}
			current.ProbeFailures = *patch.ProbeFailures
		}
		if patch.ResetFail != nil {
			current.ResetFail = *patch.ResetFail
		}
		if patch.EngineInitFail != nil {
			current.EngineInitFail = *patch.EngineInitFail
		}
		c.SetFaults(current)
		writeJSON(w, http.StatusOK, current)
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func handleReset(w http.ResponseWriter, r *http.Request, c Controller) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	hr := c.ResetDevice()
	writeJSON(w, http.StatusOK, resetResponse{OK: int32(hr) >= 0, Result: fmt.Sprintf("0x%08x", uint32(hr))})
}

func handleKey(w http.ResponseWriter, r *http.Request, c Controller) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var body struct {
		VK *uint16 `json:"vk"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.VK == nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json", "expected {\"vk\": <virtual-key code>}")
		return
	}
	c.Key(uintptr(*body.VK))
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleVisible(w http.ResponseWriter, r *http.Request, c Controller) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	var body struct {
		Visible *bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Visible == nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json", "expected {\"visible\": true|false}")
		return
	}
	c.SetVisible(*body.Visible)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleSnapshot(w http.ResponseWriter, r *http.Request, c Controller) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	// Headers are already out by the time encoding can fail.
	_ = c.WriteSnapshot(w)
}

func handleShutdown(w http.ResponseWriter, r *http.Request, c Controller) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	c.Shutdown()
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
