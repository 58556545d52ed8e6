package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"faturamento/internal/core"
)

type loginRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

func parseLoginRequest(r *http.Request) (loginRequest, error) {
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		return req, fmt.Errorf("decode login body: %w", err)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Secret == "" {
		return req, errors.New("username and secret are required")
	}
	return req, nil
}

func openUploadFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("read upload form: %w", err)
	}
	return file, header, nil
}

// filterRequest mirrors core.Filter on the wire. A dimension that is
// absent from the JSON body (nil slice) defaults to the session's full
// domain, i.e. that filter is disabled. An explicitly empty list is
// kept as-is and selects zero rows; clearing a filter is not the same
// as disabling it.
type filterRequest struct {
	Years           []int    `json:"years"`
	Months          []int    `json:"months"`
	Physicians      []string `json:"physicians"`
	Facilities      []string `json:"facilities"`
	ServiceTypes    []string `json:"service_types"`
	PayerCategories []string `json:"payer_categories"`
}

func parseFilterRequest(r *http.Request, opts core.Options) (core.Filter, error) {
	filter := opts.Filter()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return filter, fmt.Errorf("read filter body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		// No body at all: nothing filtered.
		return filter, nil
	}

	var req filterRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return filter, fmt.Errorf("decode filter body: %w", err)
	}

	if req.Years != nil {
		filter.Years = req.Years
	}
	if req.Months != nil {
		filter.Months = req.Months
	}
	if req.Physicians != nil {
		filter.Physicians = req.Physicians
	}
	if req.Facilities != nil {
		filter.Facilities = req.Facilities
	}
	if req.ServiceTypes != nil {
		filter.ServiceTypes = req.ServiceTypes
	}
	if req.PayerCategories != nil {
		filter.PayerCategories = req.PayerCategories
	}
	return filter, nil
}
