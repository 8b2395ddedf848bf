// Package handlers holds the REST handlers exposing the parser service and
// catalogue repository over HTTP, grounded on this codebase's
// interfaces/http/rest/handlers/node_handler.go: decode, validate,
// delegate, respond.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"depconstraints/application/adapters"
	"depconstraints/application/dto"
	appservices "depconstraints/application/services"
	"depconstraints/domain/core/aggregates"
	"depconstraints/domain/core/valueobjects"
	"depconstraints/domain/services"
	pkgerrors "depconstraints/pkg/errors"
	"depconstraints/pkg/utils"
)

// SentenceHandler handles sentence validate/solve/explain requests.
type SentenceHandler struct {
	parser *appservices.ParserService
	compiler *services.CatalogueCompiler
	logger *zap.Logger
}

// NewSentenceHandler wires a SentenceHandler over an already-constructed
// ParserService.
func NewSentenceHandler(parser *appservices.ParserService, logger *zap.Logger) *SentenceHandler {
	return &SentenceHandler{parser: parser, compiler: services.NewCatalogueCompiler(), logger: logger}
}

// ValidateRequest is the body of POST /v1/sentences/validate.
type ValidateRequest struct {
	Sentence dto.SentenceDTO `json:"sentence" validate:"required"`
	Tree dto.TreeDTO `json:"tree,omitempty"`
	Catalogue []dto.ConstraintRecordDTO `json:"catalogue,omitempty" validate:"omitempty,dive"`
}

// ValidateResponse is the body of a successful validate response.
type ValidateResponse struct {
	Violations dto.ViolationsDTO `json:"violations"`
}

// Validate handles POST /v1/sentences/validate.
//
// @Summary Validate a sentence against a constraint catalogue
// @Router /v1/sentences/validate [post]
func (h *SentenceHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	sentenceID := req.Sentence.ID
	if sentenceID == "" {
		sentenceID = uuid.New().String()
	}
	sentence, err := req.Sentence.ToDomain(sentenceID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	catalogue, errs := dto.CompileConstraints(h.compiler, req.Catalogue)
	if len(errs) > 0 {
		h.respondError(w, errs[0])
		return
	}

	t, err := h.treeFromRequest(req.Tree, sentence.Order())
	if err != nil {
		h.respondError(w, err)
		return
	}

	result, err := h.parser.Validate(r.Context(), sentence, t, catalogue)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ValidateResponse{Violations: dto.FromViolations(result.Violations)})
}

// SolveRequest is the body of POST /v1/sentences/solve.
type SolveRequest struct {
	Sentence dto.SentenceDTO `json:"sentence" validate:"required"`
	ArcScores dto.ArcScoreMatrixDTO `json:"arcScores" validate:"required"`
	Configurations dto.ConfigurationMapDTO `json:"configurations" validate:"required"`
	Catalogue []dto.ConstraintRecordDTO `json:"catalogue,omitempty" validate:"omitempty,dive"`
}

// SolveResponse is the body of a successful solve response.
type SolveResponse struct {
	Tree dto.TreeDTO `json:"tree"`
	Score float64 `json:"score"`
	Morphologies dto.SurvivingMorphologiesDTO `json:"morphologies"`
}

// Solve handles POST /v1/sentences/solve. The scored arc matrix and scored
// configuration candidates travel in the request body (this
// service never scores arcs or labels itself) and are adapted into
// one-shot application/ports implementations for the duration of the call.
//
// @Summary Solve a sentence's dependency tree from pre-scored candidates
// @Router /v1/sentences/solve [post]
func (h *SentenceHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.respondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	sentenceID := req.Sentence.ID
	if sentenceID == "" {
		sentenceID = uuid.New().String()
	}
	sentence, err := req.Sentence.ToDomain(sentenceID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	arcScores, err := req.ArcScores.ToDomain()
	if err != nil {
		h.respondError(w, err)
		return
	}
	configurations, err := req.Configurations.ToDomain()
	if err != nil {
		h.respondError(w, err)
		return
	}
	catalogue, errs := dto.CompileConstraints(h.compiler, req.Catalogue)
	if len(errs) > 0 {
		h.respondError(w, errs[0])
		return
	}

	parser := h.parser.WithScorers(
		adapters.NewStaticArcScorer(arcScores),
		adapters.NewStaticConfigurationScorer(configurations),
	)

	result, err := parser.Solve(r.Context(), sentence, catalogue)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, SolveResponse{
		Tree: dto.FromTree(result.Tree),
		Score: result.Tree.Score().Float64(),
		Morphologies: dto.FromSurvivingMorphologies(result.Morphologies),
	})
}

// Explain handles GET /v1/sentences/{id}/violations, returning the
// violations map recorded by the most recent validate call for that
// sentence id.
//
// @Summary Return the last recorded violations for a sentence
// @Router /v1/sentences/{id}/violations [get]
func (h *SentenceHandler) Explain(w http.ResponseWriter, r *http.Request) {
	sentenceID := chi.URLParam(r, "id")
	if sentenceID == "" {
		h.respondError(w, pkgerrors.NewValidationError("sentence id is required"))
		return
	}
	violations, ok := h.parser.LastViolations(sentenceID)
	if !ok {
		h.respondError(w, pkgerrors.NewNotFoundError("violations for sentence "+sentenceID))
		return
	}
	h.respondJSON(w, http.StatusOK, ValidateResponse{Violations: dto.FromViolations(violations)})
}

func (h *SentenceHandler) treeFromRequest(tree dto.TreeDTO, order []valueobjects.TokenID) (*aggregates.DependencyTree, error) {
	if len(tree) == 0 {
		return nil, nil
	}
	return tree.ToDomain(order)
}

func (h *SentenceHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *SentenceHandler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case pkgerrors.IsValidation(err), pkgerrors.IsSchema(err):
		status = http.StatusBadRequest
	case pkgerrors.IsNotFound(err):
		status = http.StatusNotFound
	case pkgerrors.IsInvalidState(err):
		status = http.StatusUnprocessableEntity
	case pkgerrors.IsInternal(err):
		status = http.StatusInternalServerError
	}
	h.respondJSON(w, status, map[string]interface{}{
		"error": true,
		"message": err.Error(),
		"code": status,
	})
}
