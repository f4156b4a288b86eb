package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nenad034/OlympicHub-sub000/internal/adapters/observability"
	"github.com/Nenad034/OlympicHub-sub000/internal/domain"
)

// ImportSession is one in-flight import in the Preview(pending) state. The
// preview is transient: it lives only in this process and is discarded on
// either decision.
type ImportSession struct {
	ID          string               `json:"id"`
	PriceListID string               `json:"priceListId"`
	FileName    string               `json:"fileName"`
	FileType    domain.FileType      `json:"fileType"`
	Preview     domain.ImportPreview `json:"preview"`
}

// ImportService drives the import state machine:
//
//	NoImport -> Parsing -> Preview(pending) -> Approved | Rejected
//
// An unsupported file type falls straight back to NoImport with no state
// retained. Approval is gated on zero validation errors here, not in the UI.
type ImportService struct {
	parser domain.PriceListParser
	repo   domain.PriceListRepository
	cache  domain.Cache

	mu       sync.Mutex
	sessions map[string]*ImportSession
}

func NewImportService(p domain.PriceListParser, r domain.PriceListRepository, c domain.Cache) *ImportService {
	return &ImportService{parser: p, repo: r, cache: c, sessions: map[string]*ImportSession{}}
}

// StartImport runs NoImport -> Parsing -> Preview(pending). The returned
// session carries the normalized preview with its warnings and errors so the
// operator can inspect it before deciding.
func (s *ImportService) StartImport(ctx context.Context, listID, fileName string, content []byte) (ImportSession, error) {
	ft, ok := domain.FileTypeFor(fileName)
	if !ok {
		return ImportSession{}, fmt.Errorf("%w: %q (expected excel, pdf, json, xml or html)", domain.ErrUnsupportedFileType, fileName)
	}

	// The live list must exist; its registry and room types drive validation.
	live, err := s.repo.GetPriceList(ctx, listID)
	if err != nil {
		return ImportSession{}, err
	}

	doc, err := s.parser.Parse(ctx, fileName, ft, content)
	if err != nil {
		// Surface the adapter failure verbatim with the file name; nothing
		// partial is retained.
		return ImportSession{}, &domain.ParseFailure{FileName: fileName, FileType: ft, Err: err}
	}

	preview := NormalizePreview(doc)
	known := make(map[string]bool, len(live.RoomTypePricing))
	for _, rtp := range live.RoomTypePricing {
		known[rtp.RoomTypeID] = true
	}
	errs, warns := domain.ValidateImportPreview(preview, known)
	preview.Errors = append(preview.Errors, errs...)
	preview.Warnings = append(preview.Warnings, warns...)

	sess := &ImportSession{
		ID:          uuid.NewString(),
		PriceListID: listID,
		FileName:    fileName,
		FileType:    ft,
		Preview:     preview,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	_ = s.repo.AppendImportAudit(ctx, domain.ImportAudit{
		SessionID: sess.ID, PriceListID: listID, FileName: fileName, Action: "parsed",
	})
	observability.ObserveImport("parsed")
	log.Info().
		Str("session", sess.ID).
		Str("file", fileName).
		Str("type", string(ft)).
		Int("errors", len(preview.Errors)).
		Int("warnings", len(preview.Warnings)).
		Msg("import preview ready")
	return *sess, nil
}

// Session returns a pending session's current snapshot.
func (s *ImportService) Session(sessionID string) (ImportSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ImportSession{}, false
	}
	return *sess, true
}

// Approve merges a pending preview into the live price list. Blocked while
// any validation error is outstanding. The merge is atomic: categories and
// room pricing move together, and only after a successful persist is the
// session discarded.
func (s *ImportService) Approve(ctx context.Context, sessionID, actor string) (domain.PriceList, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return domain.PriceList{}, domain.ErrPreviewConsumed
	}
	if len(sess.Preview.Errors) > 0 {
		return domain.PriceList{}, domain.ErrApprovalBlocked
	}

	live, err := s.repo.GetPriceList(ctx, sess.PriceListID)
	if err != nil {
		return domain.PriceList{}, err
	}
	live.ApplyImport(sess.Preview, sess.FileName)
	if err := s.repo.UpsertPriceList(ctx, live); err != nil {
		// Persistence failures are retryable; the session stays pending.
		return domain.PriceList{}, fmt.Errorf("persist approved import: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	_ = s.repo.AppendImportAudit(ctx, domain.ImportAudit{
		SessionID: sessionID, PriceListID: live.ID, FileName: sess.FileName, Action: "approved", Actor: actor,
	})
	s.invalidate(ctx, live.ID)
	observability.ObserveImport("approved")
	log.Info().Str("session", sessionID).Str("price_list", live.ID).Msg("import approved")
	return live, nil
}

// Reject discards a pending preview. Always allowed, but the free-text
// reason is mandatory for the audit trail. The live list's content is left
// untouched; only its validation status moves to rejected.
func (s *ImportService) Reject(ctx context.Context, sessionID, reason, actor string) error {
	if reason == "" {
		return domain.ErrReasonRequired
	}
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return domain.ErrPreviewConsumed
	}

	live, err := s.repo.GetPriceList(ctx, sess.PriceListID)
	if err != nil {
		return err
	}
	live.ValidationStatus = domain.StatusRejected
	if err := s.repo.UpsertPriceList(ctx, live); err != nil {
		return fmt.Errorf("persist rejected status: %w", err)
	}

	_ = s.repo.AppendImportAudit(ctx, domain.ImportAudit{
		SessionID: sessionID, PriceListID: live.ID, FileName: sess.FileName,
		Action: "rejected", Reason: reason, Actor: actor,
	})
	s.invalidate(ctx, live.ID)
	observability.ObserveImport("rejected")
	log.Info().Str("session", sessionID).Str("reason", reason).Msg("import rejected")
	return nil
}

func (s *ImportService) invalidate(ctx context.Context, listID string) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, priceListKey(listID))
	}
}
