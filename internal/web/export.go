package web

import (
	"context"
	"net/http"
	"regexp"
	"strconv"

	"calendr/internal/ics"
	"calendr/internal/model"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// findEvent looks an event up by ID within the request's selection.
func (s *Server) findEvent(ctx context.Context, r *http.Request) (model.Event, error) {
	sel, err := s.yearSelection(r)
	if err != nil {
		return model.Event{}, err
	}
	snap, err := s.snapshot(ctx, sel)
	if err != nil {
		return model.Event{}, err
	}
	id := r.PathValue("id")
	for _, e := range snap.Events {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Event{}, notFound("event not found")
}

func (s *Server) handleEventICS(w http.ResponseWriter, r *http.Request) {
	e, err := s.findEvent(r.Context(), r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeCalendar(w, "event-"+e.ID+".ics", ics.Export([]model.Event{e}, s.now()))
}

func (s *Server) handleEventGCal(w http.ResponseWriter, r *http.Request) {
	e, err := s.findEvent(r.Context(), r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	http.Redirect(w, r, ics.GoogleCalendarURL(e), http.StatusFound)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sel, err := s.yearSelection(r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	snap, err := s.snapshot(r.Context(), sel)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	name := "calendr-" + sel.region + "-" + strconv.Itoa(sel.year) + ".ics"
	writeCalendar(w, name, ics.Export(snap.Events, s.now()))
}

func writeCalendar(w http.ResponseWriter, filename, body string) {
	filename = unsafeFilename.ReplaceAllString(filename, "_")
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
