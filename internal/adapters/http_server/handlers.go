package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Nenad034/OlympicHub-sub000/internal/app"
	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
)

type Handlers struct {
	Q   *app.QueryService
	PL  *app.PriceListService
	Imp *app.ImportService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/price-lists", h.createPriceList)
	s.mux.Get("/v1/price-lists/{id}", h.getPriceList)
	s.mux.Get("/v1/properties/{propertyID}/price-lists", h.listPriceLists)

	s.mux.Post("/v1/price-lists/{id}/room-types/{roomTypeID}/rules/generate", h.generateRules)
	s.mux.Put("/v1/price-lists/{id}/room-types/{roomTypeID}/rules/{ruleID}", h.updateRule)
	s.mux.Post("/v1/rules/price", h.priceRule)

	s.mux.Post("/v1/price-lists/{id}/imports", h.startImport)
	s.mux.Get("/v1/imports/{sessionID}", h.getImport)
	s.mux.Post("/v1/imports/{sessionID}/approve", h.approveImport)
	s.mux.Post("/v1/imports/{sessionID}/reject", h.rejectImport)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeDomainErr maps the engine's error taxonomy onto HTTP statuses.
func writeDomainErr(w http.ResponseWriter, err error) {
	var ce *domain.ConfigurationError
	var pf *domain.ParseFailure
	switch {
	case errors.As(err, &ce):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Room Configuration", ce.Error())
	case errors.As(err, &pf):
		writeProblem(w, http.StatusBadGateway, "Parse Failure", pf.Error())
	case errors.Is(err, domain.ErrApprovalBlocked):
		writeProblem(w, http.StatusConflict, "Approval Blocked", err.Error())
	case errors.Is(err, domain.ErrReasonRequired):
		writeProblem(w, http.StatusBadRequest, "Reason Required", err.Error())
	case errors.Is(err, domain.ErrPreviewConsumed):
		writeProblem(w, http.StatusGone, "Preview Gone", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- price lists ----

func (h *Handlers) createPriceList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string    `json:"name"`
		PropertyID string    `json:"propertyId"`
		ValidFrom  time.Time `json:"validFrom"`
		ValidTo    time.Time `json:"validTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	pl, err := h.PL.CreatePriceList(r.Context(), req.Name, req.PropertyID, req.ValidFrom, req.ValidTo)
	if err != nil {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Price List", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, pl)
}

func (h *Handlers) getPriceList(w http.ResponseWriter, r *http.Request) {
	pl, err := h.Q.GetPriceList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	etag, body := calcETagAndBody(pl)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getPriceList body")
	}
}

func (h *Handlers) listPriceLists(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListPriceLists(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- rules ----

func (h *Handlers) generateRules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		domain.RoomType
		IncludePermutations bool `json:"includePermutations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	req.RoomType.RoomTypeID = chi.URLParam(r, "roomTypeID")

	block, err := h.PL.RegenerateRules(r.Context(), chi.URLParam(r, "id"), req.RoomType, req.IncludePermutations)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (h *Handlers) updateRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BasePrice  float64                `json:"basePrice"`
		Discounts  []domain.PriceModifier `json:"discounts"`
		Surcharges []domain.PriceModifier `json:"surcharges"`
		Notes      string                 `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	rule, err := h.PL.UpdateRulePrice(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "roomTypeID"), chi.URLParam(r, "ruleID"),
		req.BasePrice, req.Discounts, req.Surcharges, req.Notes)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// priceRule is the stateless calculator: post a rule, get its final price.
func (h *Handlers) priceRule(w http.ResponseWriter, r *http.Request) {
	var rule domain.PricingRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"finalPrice": domain.CalculateFinalPrice(rule)})
}

// ---- imports ----

const maxImportBytes = 16 << 20 // 16 MiB upload cap

func (h *Handlers) startImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "multipart field \"file\" is required")
		return
	}
	defer file.Close()
	content, err := io.ReadAll(io.LimitReader(file, maxImportBytes))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", err.Error())
		return
	}

	sess, err := h.Imp.StartImport(r.Context(), chi.URLParam(r, "id"), header.Filename, content)
	if err != nil {
		// unsupported extension: back to NoImport, nothing retained
		if errors.Is(err, domain.ErrUnsupportedFileType) {
			writeProblem(w, http.StatusUnsupportedMediaType, "Unsupported File Type", err.Error())
			return
		}
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handlers) getImport(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Imp.Session(chi.URLParam(r, "sessionID"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "import session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) approveImport(w http.ResponseWriter, r *http.Request) {
	pl, err := h.Imp.Approve(r.Context(), chi.URLParam(r, "sessionID"), actor(r))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

func (h *Handlers) rejectImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.Imp.Reject(r.Context(), chi.URLParam(r, "sessionID"), req.Reason, actor(r)); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func actor(r *http.Request) string {
	if v := r.Header.Get("X-Operator"); v != "" {
		return v
	}
	return "unknown"
}
