package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pwnz15/Kre/internal/entity"
	"github.com/pwnz15/Kre/internal/middleware"
	"github.com/pwnz15/Kre/internal/port/storage"
	"github.com/pwnz15/Kre/internal/usecase"
	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20

type ListingHandler struct {
	uc     *usecase.ListingUsecase
	logger *zap.Logger
}

func NewListingHandler(uc *usecase.ListingUsecase, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{uc: uc, logger: logger}
}

// preferencesField accepts both a structured object and a JSON-encoded
// string, normalizing the latter before anything downstream sees it.
type preferencesField struct {
	entity.Preferences
}

func (p *preferencesField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	return json.Unmarshal(data, &p.Preferences)
}

type createListingRequest struct {
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Governorate      string               `json:"governorate"`
	City             string               `json:"city"`
	Address          string               `json:"address"`
	University       string               `json:"university"`
	CurrentOccupants int                  `json:"current_occupants"`
	TotalCapacity    int                  `json:"total_capacity"`
	PricePerPerson   float64              `json:"price_per_person"`
	Preferences      preferencesField     `json:"preferences"`
	Status           entity.ListingStatus `json:"status,omitempty"`
}

type updateListingRequest struct {
	Title            *string           `json:"title"`
	Description      *string           `json:"description"`
	Governorate      *string           `json:"governorate"`
	City             *string           `json:"city"`
	Address          *string           `json:"address"`
	University       *string           `json:"university"`
	CurrentOccupants *int              `json:"current_occupants"`
	TotalCapacity    *int              `json:"total_capacity"`
	PricePerPerson   *float64          `json:"price_per_person"`
	Preferences      *preferencesField `json:"preferences"`
}

type deleteListingResponse struct {
	Deleted  bool     `json:"deleted"`
	Warnings []string `json:"warnings,omitempty"`
}

// decodeBody reads the request payload. Requests carrying photos use
// multipart/form-data with the JSON fields in a "data" part and the files
// under "photos"; plain JSON bodies work when no files are sent.
func decodeBody(r *http.Request, dst any) ([]storage.File, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		// A missing "data" part means no field changes, photos only.
		if raw := r.FormValue("data"); raw != "" {
			if err := json.Unmarshal([]byte(raw), dst); err != nil {
				return nil, fmt.Errorf("invalid data field: %w", err)
			}
		}
		files, err := readFiles(r.MultipartForm.File["photos"])
		if err != nil {
			return nil, err
		}
		return files, nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return nil, nil
}

func readFiles(headers []*multipart.FileHeader) ([]storage.File, error) {
	var files []storage.File
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
		}
		files = append(files, storage.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}

func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing authenticated user", http.StatusUnauthorized)
		return
	}

	var req createListingRequest
	files, err := decodeBody(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	input := usecase.CreateListingInput{
		Title:            req.Title,
		Description:      req.Description,
		Governorate:      req.Governorate,
		City:             req.City,
		Address:          req.Address,
		University:       req.University,
		CurrentOccupants: req.CurrentOccupants,
		TotalCapacity:    req.TotalCapacity,
		PricePerPerson:   req.PricePerPerson,
		Preferences:      req.Preferences.Preferences,
		Status:           req.Status,
	}

	listing, err := h.uc.Create(r.Context(), userID, input, files)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing authenticated user", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var req updateListingRequest
	files, err := decodeBody(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fields := usecase.UpdateFields{
		Title:            req.Title,
		Description:      req.Description,
		Governorate:      req.Governorate,
		City:             req.City,
		Address:          req.Address,
		University:       req.University,
		CurrentOccupants: req.CurrentOccupants,
		TotalCapacity:    req.TotalCapacity,
		PricePerPerson:   req.PricePerPerson,
	}
	if req.Preferences != nil {
		fields.Preferences = &req.Preferences.Preferences
	}

	listing, err := h.uc.Update(r.Context(), userID, id, fields, files)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) HandleUpdateListingStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing authenticated user", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var req struct {
		Status entity.ListingStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	listing, err := h.uc.UpdateStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing authenticated user", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	warnings, err := h.uc.Delete(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, deleteListingResponse{Deleted: true, Warnings: warnings})
}

func (h *ListingHandler) HandleGetListingByID(w http.ResponseWriter, r *http.Request) {
	listing, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := entity.Filter{
		Governorate: q.Get("governorate"),
		Status:      entity.ListingStatus(q.Get("status")),
		Gender:      entity.Gender(q.Get("gender")),
	}
	if v := q.Get("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "min_price must be a number", http.StatusBadRequest)
			return
		}
		filter.MinPrice = &p
	}
	if v := q.Get("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "max_price must be a number", http.StatusBadRequest)
			return
		}
		filter.MaxPrice = &p
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	result, err := h.uc.List(r.Context(), filter, page, pageSize)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *ListingHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *ListingHandler) writeError(w http.ResponseWriter, err error) {
	var validationErr *usecase.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation failed",
			"reasons": validationErr.Violations,
		})
	case errors.Is(err, usecase.ErrListingNotFound):
		http.Error(w, "listing not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrForbidden):
		http.Error(w, "you do not own this listing", http.StatusForbidden)
	default:
		h.logger.Error("listing operation failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
