package httpd

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/pedigree"
	"github.com/populationgenomics/pedviz/pkg/pipeline"
	"github.com/populationgenomics/pedviz/pkg/render"
)

// familySummary is one row of the family listing.
type familySummary struct {
	FamilyID    string `json:"family_id"`
	Individuals int    `json:"individuals"`
	Founders    int    `json:"founders"`
	Affected    int    `json:"affected"`
}

func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	opts := s.baseOptions(r)
	if err := opts.ValidateForParse(); err != nil {
		writeError(w, err)
		return
	}
	data, err := pipeline.LoadSource(opts)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := readEntries(data, opts.Format)
	if err != nil {
		writeError(w, err)
		return
	}
	families, err := pedigree.Families(entries)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidPedigree, err, "group families"))
		return
	}

	summaries := make([]familySummary, 0, len(families))
	for _, f := range families {
		sum := familySummary{
			FamilyID:    f.FamilyID,
			Individuals: f.Len(),
			Founders:    len(f.Founders()),
		}
		for _, e := range f.Entries() {
			if pedigree.StatusFromCode(e.Affected) == pedigree.StatusAffected {
				sum.Affected++
			}
		}
		summaries = append(summaries, sum)
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.familyOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[pipeline.FormatJSON])
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.familyOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[pipeline.FormatSVG])
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.familyOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatPNG}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[pipeline.FormatPNG])
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	opts, err := s.familyOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatDOT}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[pipeline.FormatDOT])
}

// handleGraphSVG serves the node-link view of a family as an image,
// letting Graphviz do its own layout instead of the tangled tree.
func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.familyOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := s.runner.Parse(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	dot := render.ToDOT(p, render.DOTOptions{
		Detailed: r.URL.Query().Get("detailed") == "true",
	})
	svg, err := render.GraphvizSVG(r.Context(), dot)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render graph for family %s", opts.FamilyID))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// baseOptions builds pipeline options for the configured input plus the
// shared query parameters.
func (s *Server) baseOptions(r *http.Request) pipeline.Options {
	q := r.URL.Query()
	return pipeline.Options{
		Input:        s.input,
		Style:        q.Get("style"),
		Labels:       q.Get("labels") == "true",
		Legend:       q.Get("legend") == "true",
		ShowUnplaced: q.Get("unplaced") == "true",
		Refresh:      q.Get("refresh") == "true",
		Logger:       s.logger,
	}
}

// familyOptions is baseOptions plus the family selected by the route.
// The route parameter is untrusted input, so it is validated before it
// reaches the cache or the filesystem.
func (s *Server) familyOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.baseOptions(r)
	opts.FamilyID = chi.URLParam(r, "id")
	if err := errors.ValidateFamilyID(opts.FamilyID); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func readEntries(data []byte, format string) ([]pedigree.Entry, error) {
	if format == pipeline.InputJSON {
		return pedigree.ReadJSON(bytes.NewReader(data))
	}
	return pedigree.ReadPED(bytes.NewReader(data))
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeFamilyNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPedigree, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidPath, errors.ErrCodeNoData:
		status = http.StatusBadRequest
	case errors.ErrCodeLayoutUnstable:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}

	writeJSON(w, status, errorResponse{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
