// SPDX-License-Identifier: MIT
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"signallab/internal/analysis"
	"signallab/internal/catalog"
	"signallab/internal/dataset"
	"signallab/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Backend is alive",
	})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"datasets": s.catalog.List()})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.catalog.Get(r.PathValue("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Dataset not found"})
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// handleUpload ingests a JSON or delimited-text body. The format comes from
// the name query parameter's extension, falling back to the Content-Type.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Error:   "PayloadTooLarge",
				Message: err.Error(),
			})
			return
		}
		writeInternal(w, r, err)
		return
	}

	name := r.URL.Query().Get("name")
	format := dataset.DetectFormat(name)
	if filepath.Ext(name) == "" && isJSONContent(r) {
		format = dataset.FormatJSON
	}
	source := ""
	if name != "" {
		source = filepath.Base(name)
	}

	ds, err := dataset.Parse(format, raw, source)
	if err != nil {
		if dataset.IsValidationError(err) {
			writeValidation(w, string(dataset.KindOf(err)), err.Error())
			return
		}
		writeInternal(w, r, err)
		return
	}

	if err := s.catalog.Add(ds); err != nil {
		writeInternal(w, r, err)
		return
	}
	log.Infof("Server: ingested %s dataset %q (%d channels)", format, ds.ID, len(ds.Channels))
	writeJSON(w, http.StatusCreated, ds.Summary())
}

func isJSONContent(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

type analyzeRequest struct {
	DatasetID             string                 `json:"datasetId"`
	ChannelID             string                 `json:"channelId"`
	Filter                *analysis.FilterConfig `json:"filter"`
	ThresholdRMS          analysis.Param         `json:"thresholdRms"`
	AnalysisWindowSeconds nullZeroParam          `json:"analysisWindowSeconds"`
}

// nullZeroParam reads an explicit null as 0. Only an absent field keeps the
// default.
type nullZeroParam struct {
	analysis.Param
}

func (p *nullZeroParam) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		p.Param = analysis.Value(0)
		return nil
	}
	return p.Param.UnmarshalJSON(b)
}

// request resolves the body against the configured defaults. A filter with
// a type but no cutoffs picks up the default cutoffs.
func (s *Server) request(body analyzeRequest, ds *dataset.Dataset) analysis.Request {
	filter := s.pipeline.FilterConfig()
	if body.Filter != nil {
		filter.Type = body.Filter.Type
		if body.Filter.LowCutHz.IsSet() {
			filter.LowCutHz = body.Filter.LowCutHz
		}
		if body.Filter.HighCutHz.IsSet() {
			filter.HighCutHz = body.Filter.HighCutHz
		}
	}

	classify := s.pipeline.ClassifyOptions()
	if body.ThresholdRMS.IsSet() {
		classify.ThresholdRMS = body.ThresholdRMS
	}
	if body.AnalysisWindowSeconds.IsSet() {
		classify.AnalysisWindowSeconds = body.AnalysisWindowSeconds.Param
	}

	return analysis.Request{
		Dataset:   ds,
		ChannelID: body.ChannelID,
		Filter:    filter,
		Classify:  classify,
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		writeValidation(w, string(dataset.KindInvalidJSON), err.Error())
		return
	}

	var body analyzeRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&body); err != nil {
		writeValidation(w, string(dataset.KindInvalidJSON), err.Error())
		return
	}

	ds, err := s.catalog.Get(body.DatasetID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Dataset not found"})
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	res, err := s.runner.Run(r.Context(), s.request(body, ds))
	if errors.Is(err, analysis.ErrUnknownChannel) {
		writeValidation(w, "UnknownChannel", err.Error())
		return
	}
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
