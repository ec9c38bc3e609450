// Package api exposes the controller over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"math"
	"strconv"

	"github.com/matt-g-everett/ledanim/momentum"
	"github.com/matt-g-everett/ledanim/sprite"
	"github.com/matt-g-everett/ledanim/stream"
	"github.com/matt-g-everett/ledanim/tween"
)

// Controller is the part of stream.Controller the Api drives.
type Controller interface {
	Status() stream.Status
	Fling(velocity float64) error
	Next() *tween.Promise
	Play()
	Pause()
	Stop()
	Forward()
	Reverse()
	SetFrame(frame float64) error
	SetSpeed(rate float64) error
}

type Api struct {
	controller Controller
	mux        *http.ServeMux
}

// NewApi creates an instance of an Api.
func NewApi(controller Controller) *Api {
	a := new(Api)
	a.controller = controller
	a.mux = http.NewServeMux()

	a.mux.HandleFunc("GET /status", a.handleStatus)
	a.mux.HandleFunc("POST /fling", a.handleFling)
	a.mux.HandleFunc("POST /sprite/next", a.handleNext)
	a.mux.HandleFunc("POST /sprite/play", a.action(controller.Play))
	a.mux.HandleFunc("POST /sprite/pause", a.action(controller.Pause))
	a.mux.HandleFunc("POST /sprite/stop", a.action(controller.Stop))
	a.mux.HandleFunc("POST /sprite/forward", a.action(controller.Forward))
	a.mux.HandleFunc("POST /sprite/reverse", a.action(controller.Reverse))
	a.mux.HandleFunc("POST /sprite/frame", a.valued(controller.SetFrame))
	a.mux.HandleFunc("POST /sprite/speed", a.valued(controller.SetSpeed))
	return a
}

// Handler returns the Api's routes.
func (a *Api) Handler() http.Handler {
	return a.mux
}

// Serve listens on addr until the server fails.
func (a *Api) Serve(addr string) error {
	log.Printf("Listening on %s", addr)
	return http.ListenAndServe(addr, a.mux)
}

func (a *Api) writeStatus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.controller.Status()); err != nil {
		log.Printf("Failed to write status: %v", err)
	}
}

func (a *Api) handleStatus(w http.ResponseWriter, _ *http.Request) {
	a.writeStatus(w)
}

func (a *Api) handleFling(w http.ResponseWriter, r *http.Request) {
	velocity, err := parseFinite(r, "velocity")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := a.controller.Fling(velocity); err != nil {
		writeError(w, err)
		return
	}
	a.writeStatus(w)
}

// handleNext starts the crossfade to the following sprite. With wait=true
// the response is held until the new sprite is playing.
func (a *Api) handleNext(w http.ResponseWriter, r *http.Request) {
	promise := a.controller.Next()
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		if _, err := promise.Wait(r.Context()); err != nil && !errors.Is(err, tween.ErrKilled) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	a.writeStatus(w)
}

func (a *Api) action(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		fn()
		a.writeStatus(w)
	}
}

func (a *Api) valued(fn func(float64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value, err := parseFinite(r, "value")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := fn(value); err != nil {
			writeError(w, err)
			return
		}
		a.writeStatus(w)
	}
}

// parseFinite reads a finite number from the named query parameter.
func parseFinite(r *http.Request, name string) (float64, error) {
	value, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be a finite number", name)
	}
	return value, nil
}

// writeError maps rejected values to 400 and anything else to 409.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusConflict
	if errors.Is(err, momentum.ErrInvalidConfiguration) || errors.Is(err, sprite.ErrInvalidConfiguration) {
		code = http.StatusBadRequest
	}
	http.Error(w, err.Error(), code)
}
