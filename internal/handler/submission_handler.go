package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/leadform/leadform/internal/apperr"
	"github.com/leadform/leadform/internal/integration"
	"github.com/leadform/leadform/internal/service"
)

// multipartOverhead leaves room for the non-file parts of an upload.
const multipartOverhead = 1 << 20

type SubmissionHandler struct {
	svc       *service.SubmissionService
	maxUpload int64
}

func NewSubmissionHandler(svc *service.SubmissionService, maxUpload int64) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, maxUpload: maxUpload}
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// Create accepts multipart/form-data with form_id, data (a JSON object as
// text) and an optional file part. A JSON body {form_id, data} is also
// accepted for submissions without a file.
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)

	var (
		formID  int64
		payload []byte
		upload  *integration.Upload
		err     error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		formID, payload, upload, err = h.parseMultipart(r)
	} else {
		formID, payload, err = parseJSONSubmission(r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := h.svc.Record(r.Context(), formID, payload, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubmissionHandler) parseMultipart(r *http.Request) (int64, []byte, *integration.Upload, error) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		if isTooLarge(err) {
			return 0, nil, nil, apperr.TooLarge("File too large")
		}
		return 0, nil, nil, apperr.Validation("Invalid multipart body")
	}
	formID := parseFormID(r.FormValue("form_id"))
	payload := []byte(r.FormValue("data"))

	file, fh, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return formID, payload, nil, nil
	}
	if err != nil {
		return 0, nil, nil, apperr.Validation("Invalid file upload")
	}
	defer file.Close()
	if fh.Size > h.maxUpload {
		return 0, nil, nil, apperr.TooLarge("File too large")
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return 0, nil, nil, apperr.Internal(err)
	}
	return formID, payload, &integration.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func parseJSONSubmission(r *http.Request) (int64, []byte, error) {
	var req struct {
		FormID json.RawMessage `json:"form_id"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isTooLarge(err) {
			return 0, nil, apperr.TooLarge("Request body too large")
		}
		return 0, nil, apperr.Validation("Invalid request body")
	}
	payload := []byte(req.Data)
	// data may arrive as a JSON string holding the object, as in multipart.
	var s string
	if json.Unmarshal(req.Data, &s) == nil {
		payload = []byte(s)
	}
	return parseFormID(strings.Trim(string(req.FormID), `"`)), payload, nil
}

// parseFormID returns 0 for anything that is not a positive integer; the
// recorder rejects it.
func parseFormID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Submission deleted successfully")
}
