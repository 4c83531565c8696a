package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/jackzampolin/docview/internal/chat"
	"github.com/jackzampolin/docview/internal/markdown"
	"github.com/jackzampolin/docview/internal/overlay"
	"github.com/jackzampolin/docview/internal/types"
	"github.com/jackzampolin/docview/internal/upload"
)

// Action is a user-triggered network call. At most one of each kind is
// outstanding per session.
type Action string

const (
	ActionExtract Action = "extract"
	ActionChat    Action = "chat"
	ActionSuggest Action = "suggest"
)

// Status is the view a session presents.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Session is one uploaded document and everything the viewer shows for it.
type Session struct {
	ID       string
	FileName string
	Kind     upload.Kind
	Created  time.Time

	mu         sync.RWMutex
	source     []byte
	localPages int
	doc        *types.DocumentResponse
	sample     bool
	viewer     *overlay.Viewer
	errState   *ErrorState
	busy       map[Action]bool
	lastAccess time.Time

	conv *chat.Conversation
}

func newSession(id string, file *upload.File, now time.Time) *Session {
	return &Session{
		ID:         id,
		FileName:   file.Name,
		Kind:       file.Kind,
		Created:    now,
		source:     file.Data,
		localPages: file.PageCount,
		busy:       make(map[Action]bool),
		lastAccess: now,
		conv:       chat.New(),
	}
}

// Begin marks action as in flight. It returns ErrBusy when action or any
// of conflicts already is.
func (s *Session) Begin(action Action, conflicts ...Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[action] {
		return ErrBusy
	}
	for _, c := range conflicts {
		if s.busy[c] {
			return fmt.Errorf("%w: %s in progress", ErrBusy, c)
		}
	}
	s.busy[action] = true
	return nil
}

// End clears the in-flight mark for action.
func (s *Session) End(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, action)
}

// Busy reports whether action is in flight.
func (s *Session) Busy(action Action) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy[action]
}

// SetDocument installs extracted content, clearing any error state and
// resetting the viewer and conversation.
func (s *Session) SetDocument(doc *types.DocumentResponse, sample bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.PageCount == 0 && s.localPages > 0 {
		doc.PageCount = s.localPages
	}
	s.doc = doc
	s.sample = sample
	s.errState = nil
	s.viewer = overlay.NewViewer(doc)
	s.conv.Reset()
}

// SetError records a failed extraction.
func (s *Session) SetError(err error) {
	state := Classify(err)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errState = &state
}

// setLocalPages records the page count read from the uploaded file.
func (s *Session) setLocalPages(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localPages = n
	if s.doc != nil && s.doc.PageCount == 0 {
		s.doc.PageCount = n
		s.viewer = overlay.NewViewer(s.doc)
	}
}

// Document returns the extracted content, or nil before extraction completes.
func (s *Session) Document() *types.DocumentResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Source returns the uploaded bytes and their content type.
func (s *Session) Source() ([]byte, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source, string(s.Kind)
}

// Conversation returns the chat transcript.
func (s *Session) Conversation() *chat.Conversation {
	return s.conv
}

// Status reports whether the session is loading, ready or failed.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status()
}

func (s *Session) status() Status {
	switch {
	case s.errState != nil:
		return StatusError
	case s.doc == nil:
		return StatusLoading
	default:
		return StatusReady
	}
}

// Select selects a chunk from the overlay ("box") or content pane ("list").
func (s *Session) Select(source, chunkID string) (overlay.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewer == nil {
		return overlay.State{}, ErrNoDocument
	}
	if err := s.viewer.SelectFrom(source, chunkID); err != nil {
		return s.viewer.State(), err
	}
	return s.viewer.State(), nil
}

// GoTo moves to a 1-based page, clamped to the document.
func (s *Session) GoTo(page int) (overlay.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewer == nil {
		return overlay.State{}, ErrNoDocument
	}
	s.viewer.GoTo(page)
	return s.viewer.State(), nil
}

// Step moves delta pages from the current one.
func (s *Session) Step(delta int) (overlay.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewer == nil {
		return overlay.State{}, ErrNoDocument
	}
	s.viewer.GoTo(s.viewer.State().Page + delta)
	return s.viewer.State(), nil
}

// ClearSelection drops the selected chunk.
func (s *Session) ClearSelection() (overlay.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewer == nil {
		return overlay.State{}, ErrNoDocument
	}
	s.viewer.ClearSelection()
	return s.viewer.State(), nil
}

// PageView is the overlay for one page.
type PageView struct {
	Page      int           `json:"page"`
	PageCount int           `json:"page_count"`
	Boxes     []overlay.Box `json:"boxes"`

	// ChunkIDs lists the chunks grounded on the page, in document order.
	ChunkIDs []string `json:"chunk_ids"`
	Selected string   `json:"selected_chunk_id,omitempty"`
}

// Page returns the boxes for a 1-based page; page 0 means the current one.
func (s *Session) Page(page int) (*PageView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewer == nil {
		return nil, ErrNoDocument
	}
	state := s.viewer.State()
	if page == 0 {
		page = state.Page
	}
	if page < 1 || page > state.PageCount {
		return nil, ErrPageOutOfRange
	}
	boxes := overlay.BoxesOnPage(s.doc.Chunks, page)
	if boxes == nil {
		boxes = []overlay.Box{}
	}
	ids := []string{}
	for _, c := range overlay.ChunksOnPage(s.doc.Chunks, page) {
		ids = append(ids, c.ChunkID)
	}
	return &PageView{
		Page:      page,
		PageCount: state.PageCount,
		Boxes:     boxes,
		ChunkIDs:  ids,
		Selected:  state.SelectedChunkID,
	}, nil
}

// ChunkView is one chunk with its rendered body.
type ChunkView struct {
	types.DocumentChunk
	HTML    string `json:"html"`
	HasMath bool   `json:"has_math"`
	// Page is the 1-based page of the first grounding entry, 0 if ungrounded.
	Page int `json:"page"`
}

// Chunk returns one chunk rendered through renderer.
func (s *Session) Chunk(renderer *markdown.Renderer, chunkID string) (*ChunkView, error) {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	if doc == nil {
		return nil, ErrNoDocument
	}
	ch, ok := doc.ChunkByID(chunkID)
	if !ok {
		return nil, overlay.ErrUnknownChunk
	}
	rendered, err := renderer.Render(ch.Text)
	if err != nil {
		return nil, err
	}
	view := &ChunkView{DocumentChunk: ch, HTML: rendered.HTML, HasMath: markdown.HasMath(ch.Text)}
	if p, ok := ch.FirstPage(); ok {
		view.Page = types.UIPage(p)
	}
	return view, nil
}

// View is the JSON snapshot of a session.
type View struct {
	ID        string                  `json:"id"`
	FileName  string                  `json:"file_name"`
	Kind      upload.Kind             `json:"content_type"`
	Status    Status                  `json:"status"`
	Sample    bool                    `json:"sample,omitempty"`
	Error     *ErrorState             `json:"error,omitempty"`
	Data      *types.DocumentResponse `json:"data,omitempty"`
	PageCount int                     `json:"page_count"`
	Viewer    *overlay.State          `json:"viewer,omitempty"`
	Busy      []Action                `json:"busy,omitempty"`
	Created   time.Time               `json:"created_at"`
}

// Summary is the list form of a session.
type Summary struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Status    Status    `json:"status"`
	PageCount int       `json:"page_count"`
	Chunks    int       `json:"chunks"`
	Created   time.Time `json:"created_at"`
}

// View returns a snapshot; withData includes the full document.
func (s *Session) View(withData bool) View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		ID:       s.ID,
		FileName: s.FileName,
		Kind:     s.Kind,
		Status:   s.status(),
		Sample:   s.sample,
		Error:    s.errState,
		Created:  s.Created,
	}
	if s.viewer != nil {
		state := s.viewer.State()
		v.Viewer = &state
		v.PageCount = state.PageCount
	}
	if withData {
		v.Data = s.doc
	}
	for _, a := range []Action{ActionExtract, ActionChat, ActionSuggest} {
		if s.busy[a] {
			v.Busy = append(v.Busy, a)
		}
	}
	return v
}

// Summary returns the list form of the session.
func (s *Session) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := Summary{
		ID:       s.ID,
		FileName: s.FileName,
		Status:   s.status(),
		Created:  s.Created,
	}
	if s.doc != nil {
		sum.Chunks = len(s.doc.Chunks)
		sum.PageCount = s.doc.ComputedPageCount()
	}
	return sum
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastAccess = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAccess
}

func (s *Session) anyBusy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.busy) > 0
}
