package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/docview/internal/providers"
	"github.com/jackzampolin/docview/internal/types"
	"github.com/jackzampolin/docview/internal/upload"
)

// Options selects the providers and limits the Manager uses.
type Options struct {
	Extractor   string
	ChatBackend string
	// Parser names a chat backend that can also re-parse documents.
	Parser string

	Limits                    upload.Limits
	IncludeMarginalia         bool
	IncludeMetadataInMarkdown bool
}

// UploadRequest is one document to extract. Nil flags use the configured
// defaults.
type UploadRequest struct {
	FileName                  string
	Data                      []byte
	IncludeMarginalia         *bool
	IncludeMetadataInMarkdown *bool
	Pages                     string
}

// Manager runs the user actions of the viewer against the configured
// providers and records their outcomes on sessions.
type Manager struct {
	store    *Store
	registry *providers.Registry
	logger   *slog.Logger

	mu   sync.RWMutex
	opts Options
}

// NewManager creates a manager over store and registry.
func NewManager(store *Store, registry *providers.Registry, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    store,
		registry: registry,
		logger:   logger,
		opts:     opts,
	}
}

// Store returns the session store.
func (m *Manager) Store() *Store {
	return m.store
}

// Options returns the current options.
func (m *Manager) Options() Options {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts
}

// SetOptions replaces the options, as on config reload.
func (m *Manager) SetOptions(opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
}

// Upload validates the file, creates a session and extracts it. Validation
// failures return before any session exists or any network call is made.
// An extraction failure is recorded on the returned session and also
// returned as the error.
func (m *Manager) Upload(ctx context.Context, req UploadRequest) (*Session, error) {
	opts := m.Options()

	file, err := opts.Limits.Validate(req.FileName, req.Data)
	if err != nil {
		return nil, err
	}

	extractor, err := m.registry.GetExtractor(opts.Extractor)
	if err != nil {
		return nil, err
	}

	sess := m.store.create(file)
	if err := sess.Begin(ActionExtract); err != nil {
		return sess, err
	}
	defer sess.End(ActionExtract)

	extractReq := &providers.ExtractRequest{
		FileName:                  file.Name,
		Kind:                      file.Kind,
		Data:                      file.Data,
		IncludeMarginalia:         boolOr(req.IncludeMarginalia, opts.IncludeMarginalia),
		IncludeMetadataInMarkdown: boolOr(req.IncludeMetadataInMarkdown, opts.IncludeMetadataInMarkdown),
		Pages:                     req.Pages,
	}

	var result *providers.ExtractResult
	var localPages int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := extractor.Extract(gctx, extractReq)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if file.Kind == upload.KindPDF && file.PageCount == 0 {
		g.Go(func() error {
			n, err := upload.PDFPageCount(file.Data)
			if err != nil {
				m.logger.Debug("local page count failed", "file", file.Name, "error", err)
				return nil
			}
			localPages = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		sess.SetError(err)
		m.logger.Warn("extraction failed", "id", sess.ID, "file", file.Name, "extractor", extractor.Name(), "error", err)
		return sess, fmt.Errorf("extraction failed: %w", err)
	}

	if localPages > 0 {
		sess.setLocalPages(localPages)
	} else if file.PageCount > 0 {
		sess.setLocalPages(file.PageCount)
	}

	doc := result.Document
	if err := doc.Validate(); err != nil {
		m.logger.Warn("extracted document has inconsistencies", "id", sess.ID, "error", err)
	}
	sess.SetDocument(&doc, result.Sample)

	m.logger.Info("document extracted",
		"id", sess.ID,
		"file", file.Name,
		"chunks", len(doc.Chunks),
		"pages", doc.ComputedPageCount(),
		"page_errors", len(doc.Errors),
		"sample", result.Sample,
		"duration", result.ExecutionTime)
	return sess, nil
}

// Reparse asks the parser backend to extract the document again.
func (m *Manager) Reparse(ctx context.Context, id string) (*Session, error) {
	sess, err := m.store.Get(id)
	if err != nil {
		return nil, err
	}

	parser, err := m.registry.GetParser(m.Options().Parser)
	if err != nil {
		return sess, err
	}

	// A re-parse resets the transcript, so it cannot overlap a chat call.
	if err := sess.Begin(ActionExtract, ActionChat, ActionSuggest); err != nil {
		return sess, err
	}
	defer sess.End(ActionExtract)

	documentID := sess.ID
	if doc := sess.Document(); doc != nil && doc.DocumentID != "" {
		documentID = doc.DocumentID
	}

	doc, err := parser.Parse(ctx, documentID)
	if err != nil {
		sess.SetError(err)
		m.logger.Warn("re-parse failed", "id", sess.ID, "document_id", documentID, "error", err)
		return sess, fmt.Errorf("parse failed: %w", err)
	}
	sess.SetDocument(doc, false)

	m.logger.Info("document re-parsed", "id", sess.ID, "chunks", len(doc.Chunks))
	return sess, nil
}

// Chat runs one chat turn. The transcript always gains the user entry and
// an assistant entry unless the message is blank or another turn is in
// flight.
func (m *Manager) Chat(ctx context.Context, id, message string) (types.ChatMessage, error) {
	sess, err := m.store.Get(id)
	if err != nil {
		return types.ChatMessage{}, err
	}
	doc := sess.Document()
	if doc == nil {
		return types.ChatMessage{}, ErrNoDocument
	}

	backend, err := m.registry.GetChat(m.Options().ChatBackend)
	if err != nil {
		return types.ChatMessage{}, err
	}

	if err := sess.Begin(ActionChat, ActionExtract); err != nil {
		return types.ChatMessage{}, err
	}
	defer sess.End(ActionChat)

	reply, err := sess.Conversation().Turn(ctx, backend, doc, message)
	if err != nil {
		m.logger.Warn("chat turn failed", "id", sess.ID, "backend", backend.Name(), "error", err)
		return reply, err
	}
	return reply, nil
}

// Suggest refreshes the suggested questions.
func (m *Manager) Suggest(ctx context.Context, id string) ([]string, error) {
	sess, err := m.store.Get(id)
	if err != nil {
		return nil, err
	}
	doc := sess.Document()
	if doc == nil {
		return nil, ErrNoDocument
	}

	backend, err := m.registry.GetChat(m.Options().ChatBackend)
	if err != nil {
		return nil, err
	}

	if err := sess.Begin(ActionSuggest, ActionExtract); err != nil {
		return nil, err
	}
	defer sess.End(ActionSuggest)

	qs, err := sess.Conversation().RefreshSuggestions(ctx, backend, doc)
	if err != nil {
		m.logger.Warn("suggest questions failed", "id", sess.ID, "backend", backend.Name(), "error", err)
		return qs, err
	}
	return qs, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
