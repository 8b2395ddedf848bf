package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"depconstraints/application/dto"
	"depconstraints/application/ports"
	"depconstraints/domain/services"
	pkgerrors "depconstraints/pkg/errors"
	"depconstraints/pkg/utils"
)

// CatalogueHandler handles constraint-catalogue CRUD requests.
type CatalogueHandler struct {
	repository ports.CatalogueRepository
	validator *services.CatalogueValidator
	logger *zap.Logger
}

// NewCatalogueHandler wires a CatalogueHandler over the given repository.
func NewCatalogueHandler(repository ports.CatalogueRepository, logger *zap.Logger) *CatalogueHandler {
	return &CatalogueHandler{repository: repository, validator: services.NewCatalogueValidator(), logger: logger}
}

// SaveCatalogueRequest is the body of POST /v1/catalogues.
type SaveCatalogueRequest struct {
	ID string `json:"id,omitempty"`
	Constraints []dto.ConstraintRecordDTO `json:"constraints" validate:"required,min=1,dive"`
}

// SaveCatalogueResponse is the body of a successful save response.
type SaveCatalogueResponse struct {
	ID string `json:"id"`
}

// Save handles POST /v1/catalogues, schema-validating every record before
// persisting the catalogue as a whole.
//
// @Summary Upload a constraint catalogue
// @Router /v1/catalogues [post]
func (h *CatalogueHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveCatalogueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	raws := make([]services.RawConstraint, 0, len(req.Constraints))
	records := make([]ports.RawConstraintRecord, 0, len(req.Constraints))
	for _, c := range req.Constraints {
		records = append(records, c.ToRawConstraintRecord())
		raws = append(raws, services.RawConstraint{
			Description: c.Description,
			Penalty: c.Penalty,
			Boost: c.Boost,
			Premise: c.Premise,
			Condition: c.Condition,
		})
	}
	if errs := h.validator.ValidateAll(raws); len(errs) > 0 {
		h.respondError(w, errs[0])
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	if err := h.repository.Save(r.Context(), id, records); err != nil {
		h.logger.Error("failed to save catalogue", zap.String("catalogueId", id), zap.Error(err))
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, SaveCatalogueResponse{ID: id})
}

// GetCatalogueResponse is the body of a successful get response.
type GetCatalogueResponse struct {
	ID string `json:"id"`
	Constraints []dto.ConstraintRecordDTO `json:"constraints"`
}

// Get handles GET /v1/catalogues/{id}.
//
// @Summary Retrieve a constraint catalogue by id
// @Router /v1/catalogues/{id} [get]
func (h *CatalogueHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, pkgerrors.NewValidationError("catalogue id is required"))
		return
	}
	records, err := h.repository.Load(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]dto.ConstraintRecordDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, dto.FromRawConstraintRecord(r))
	}
	h.respondJSON(w, http.StatusOK, GetCatalogueResponse{ID: id, Constraints: dtos})
}

// Delete handles DELETE /v1/catalogues/{id}.
//
// @Summary Delete a constraint catalogue
// @Router /v1/catalogues/{id} [delete]
func (h *CatalogueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, pkgerrors.NewValidationError("catalogue id is required"))
		return
	}
	if err := h.repository.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogueHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *CatalogueHandler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case pkgerrors.IsValidation(err), pkgerrors.IsSchema(err):
		status = http.StatusBadRequest
	case pkgerrors.IsNotFound(err):
		status = http.StatusNotFound
	case pkgerrors.IsInvalidState(err):
		status = http.StatusUnprocessableEntity
	}
	h.respondJSON(w, status, map[string]interface{}{
		"error": true,
		"message": err.Error(),
		"code": status,
	})
}
