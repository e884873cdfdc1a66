package server

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uncalendar/pkg/errors"
	"github.com/matzehuels/uncalendar/pkg/observability"
	"github.com/matzehuels/uncalendar/pkg/pipeline"
)

var indexTemplate = template.Must(template.New("index").Parse(`
    <h1>🗓 Useless Calendar API</h1>
    <p>Get your calendar as PNG:</p>
    <a href="{{.}}">{{.}}</a>
    `))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, calendarURL(r)); err != nil {
		log.FromContext(r.Context()).Error("write index", "error", err)
	}
}

// calendarURL returns the absolute URL of the calendar endpoint as seen by
// the client, honoring X-Forwarded-Proto from a reverse proxy.
func calendarURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host + "/calendar"
}

// handleCalendar renders one calendar per request. Every failure, including
// malformed query values, is answered with 500.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	opts, err := s.requestOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Logger = logger

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logger.Debug("calendar text\n" + res.Text)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PNG)))
	if opts.Seed == 0 {
		w.Header().Set("Cache-Control", "no-store")
	}
	if _, err := w.Write(res.PNG); err != nil {
		logger.Warn("write image", "error", err)
	}
}

// requestOptions merges the query parameters over the server defaults.
//
//	year  calendar year, default next year
//	hide  probability in [0,1] of hiding each day, default random
//	seed  non-zero seed for a reproducible (and cached) image
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Year = 0
	opts.HideProbability = nil
	opts.Seed = 0
	opts.Refresh = false

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidYear, err, "year %q is not an integer", v)
		}
		// Zero would otherwise select the default year.
		if err := errors.ValidateYear(year); err != nil {
			return opts, err
		}
		opts.Year = year
	}
	if v := q.Get("hide"); v != "" {
		hide, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "hide %q is not a number", v)
		}
		opts.HideProbability = pipeline.Hide(hide)
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "seed %q is not an unsigned integer", v)
		}
		opts.Seed = seed
	}
	return opts, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContext(r.Context()).Error("calendar failed", "code", errors.GetCode(err), "error", err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	http.Error(w, errors.UserMessage(err), http.StatusInternalServerError)
}
