package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ssargent/ipd/pkg/archive"
	"github.com/ssargent/ipd/pkg/interp"
	"github.com/ssargent/ipd/pkg/ipd"
	"github.com/ssargent/ipd/pkg/query"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.store.List()
	if err != nil {
		s.internalError(w, "Failed to list snapshots", err)
		return
	}
	sendSuccess(w, snaps)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.lookupError(w, err)
		return
	}
	sendSuccess(w, snap)
}

func (s *Server) handleListDatabases(w http.ResponseWriter, r *http.Request) {
	f, err := s.file(chi.URLParam(r, "id"))
	if err != nil {
		s.lookupError(w, err)
		return
	}

	dbs := make([]DatabaseInfo, 0, f.Len())
	for _, db := range f.Databases() {
		dbs = append(dbs, DatabaseInfo{Name: db.Name(), Index: db.Index(), Records: db.Len()})
	}
	sendSuccess(w, dbs)
}

// handleListRecords returns the records of one database. The optional type,
// op and value parameters filter on a field; raw=true skips interpreters in
// the output but not in the filter.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	name, err := databaseName(r)
	if err != nil {
		sendError(w, "Invalid database name encoding", http.StatusBadRequest)
		return
	}

	params := r.URL.Query()
	raw := false
	if v := params.Get("raw"); v != "" {
		raw, err = strconv.ParseBool(v)
		if err != nil {
			sendError(w, "Invalid raw parameter", http.StatusBadRequest)
			return
		}
	}

	f, err := s.file(chi.URLParam(r, "id"))
	if err != nil {
		s.lookupError(w, err)
		return
	}

	var records []*ipd.Record
	if typ := params.Get("type"); typ != "" {
		q, err := query.ParseFieldQuery(typ, params.Get("op"), params.Get("value"))
		if err != nil {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		it, err := query.NewFileEngine(f, s.registry).ExecuteQuery(r.Context(), name, q)
		if err != nil {
			if errors.Is(err, ipd.ErrNotFound) {
				s.lookupError(w, err)
				return
			}
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		records = query.Collect(it)
	} else {
		db, err := f.Database(name)
		if err != nil {
			s.lookupError(w, err)
			return
		}
		records = db.Records()
	}

	views := make([]interp.RecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, s.registry.View(name, rec, raw))
	}
	s.metrics.RecordRecordsServed(name, len(views))

	sendSuccess(w, RecordsResponse{Database: name, Count: len(views), Records: views})
}

// databaseName returns the decoded {name} parameter. chi matches against
// RawPath when the request carried one (an escaped "/" in the name), leaving
// the parameter escaped; otherwise it is already decoded.
func databaseName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

// lookupError maps missing snapshots and databases to 404.
func (s *Server) lookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, archive.ErrSnapshotNotFound), errors.Is(err, ipd.ErrNotFound):
		sendError(w, err.Error(), http.StatusNotFound)
	default:
		s.internalError(w, "Failed to load snapshot", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, message string, err error) {
	s.logger.Error(message, zap.Error(err))
	sendError(w, message, http.StatusInternalServerError)
}
