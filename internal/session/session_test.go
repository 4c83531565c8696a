package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/docview/internal/chat"
	"github.com/jackzampolin/docview/internal/markdown"
	"github.com/jackzampolin/docview/internal/overlay"
	"github.com/jackzampolin/docview/internal/providers"
	"github.com/jackzampolin/docview/internal/types"
	"github.com/jackzampolin/docview/internal/upload"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// blockingChat holds each call until release is closed.
type blockingChat struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingChat) Name() string { return "blocking" }

func (b *blockingChat) Chat(ctx context.Context, _ *types.DocumentResponse, _ string) (*types.ChatResponse, error) {
	b.started <- struct{}{}
	<-b.release
	return &types.ChatResponse{Message: "done"}, nil
}

func (b *blockingChat) SuggestQuestions(context.Context, *types.DocumentResponse) ([]string, error) {
	return nil, nil
}

// blockingParser is a blockingChat that can also re-parse.
type blockingParser struct {
	blockingChat
}

func (b *blockingParser) Parse(context.Context, string) (*types.DocumentResponse, error) {
	return providers.SampleDocument(), nil
}

type countingExtractor struct {
	calls int
}

func (c *countingExtractor) Name() string { return "counting" }

func (c *countingExtractor) Extract(context.Context, *providers.ExtractRequest) (*providers.ExtractResult, error) {
	c.calls++
	return &providers.ExtractResult{Document: *providers.SampleDocument()}, nil
}

func newTestManager(t *testing.T) (*Manager, *providers.Registry) {
	t.Helper()
	reg := providers.NewRegistry()
	reg.SetLogger(quietLogger())
	ext := providers.NewMockExtractor()
	ext.Latency = 0
	reg.RegisterExtractor("mock", ext)
	ch := providers.NewMockChat()
	ch.Latency = 0
	reg.RegisterChat("mock", ch)

	m := NewManager(NewStore(time.Hour, quietLogger()), reg, Options{
		Extractor:   "mock",
		ChatBackend: "mock",
		Parser:      "mock",
		Limits:      upload.DefaultLimits(),
	}, quietLogger())
	return m, reg
}

func TestUpload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m, _ := newTestManager(t)
		sess, err := m.Upload(context.Background(), UploadRequest{FileName: "invoice.png", Data: pngData})
		require.NoError(t, err)

		assert.Equal(t, StatusReady, sess.Status())
		view := sess.View(true)
		require.NotNil(t, view.Data)
		assert.Len(t, view.Data.Chunks, 6)
		require.NotNil(t, view.Viewer)
		assert.Equal(t, 1, view.Viewer.Page)
		assert.Empty(t, view.Busy)

		data, ct := sess.Source()
		assert.Equal(t, pngData, data)
		assert.Equal(t, "image/png", ct)
		assert.Equal(t, 1, m.Store().Len())
	})

	t.Run("oversized file rejected before extraction", func(t *testing.T) {
		m, reg := newTestManager(t)
		ext := &countingExtractor{}
		reg.RegisterExtractor("counting", ext)
		opts := m.Options()
		opts.Extractor = "counting"
		opts.Limits.MaxBytes = 32
		m.SetOptions(opts)

		_, err := m.Upload(context.Background(), UploadRequest{FileName: "big.png", Data: pngData})
		require.ErrorIs(t, err, upload.ErrTooLarge)
		assert.Zero(t, ext.calls)
		assert.Zero(t, m.Store().Len())
	})

	t.Run("unsupported type rejected", func(t *testing.T) {
		m, _ := newTestManager(t)
		_, err := m.Upload(context.Background(), UploadRequest{FileName: "notes.txt", Data: []byte("hello there")})
		require.ErrorIs(t, err, upload.ErrUnsupportedType)
		assert.Equal(t, KindValidation, Classify(err).Kind)
	})

	t.Run("extraction failure sets error state", func(t *testing.T) {
		m, reg := newTestManager(t)
		failing := providers.NewMockExtractor()
		failing.ShouldFail = true
		reg.RegisterExtractor("mock", failing)

		sess, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
		require.Error(t, err)
		require.NotNil(t, sess)

		view := sess.View(false)
		assert.Equal(t, StatusError, view.Status)
		require.NotNil(t, view.Error)
		assert.Equal(t, KindAPI, view.Error.Kind)
		assert.Equal(t, 500, view.Error.Status)
		assert.False(t, sess.Busy(ActionExtract))
	})

	t.Run("unknown extractor", func(t *testing.T) {
		m, _ := newTestManager(t)
		opts := m.Options()
		opts.Extractor = "missing"
		m.SetOptions(opts)
		_, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
		require.Error(t, err)
		assert.Zero(t, m.Store().Len())
	})
}

func TestChat(t *testing.T) {
	t.Run("turn recorded", func(t *testing.T) {
		m, _ := newTestManager(t)
		sess, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
		require.NoError(t, err)

		reply, err := m.Chat(context.Background(), sess.ID, "Who is billed?")
		require.NoError(t, err)
		assert.Equal(t, types.RoleAssistant, reply.Role)
		assert.Equal(t, 2, sess.Conversation().Len())
	})

	t.Run("failure records fallback", func(t *testing.T) {
		m, reg := newTestManager(t)
		sess, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
		require.NoError(t, err)

		failing := providers.NewMockChat()
		failing.ShouldFail = true
		reg.RegisterChat("mock", failing)

		reply, err := m.Chat(context.Background(), sess.ID, "anything")
		require.Error(t, err)
		assert.Equal(t, chat.FallbackReply, reply.Content)
		msgs := sess.Conversation().Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, chat.FallbackReply, msgs[1].Content)
	})

	t.Run("second turn while busy", func(t *testing.T) {
		m, reg := newTestManager(t)
		sess, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
		require.NoError(t, err)

		b := &blockingChat{started: make(chan struct{}), release: make(chan struct{})}
		reg.RegisterChat("mock", b)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Chat(context.Background(), sess.ID, "first")
		}()
		<-b.started

		_, err = m.Chat(context.Background(), sess.ID, "second")
		assert.ErrorIs(t, err, ErrBusy)
		assert.Contains(t, sess.View(false).Busy, ActionChat)

		close(b.release)
		wg.Wait()
		assert.False(t, sess.Busy(ActionChat))
		assert.Equal(t, 2, sess.Conversation().Len(), "busy turn records nothing")
	})

	t.Run("unknown session", func(t *testing.T) {
		m, _ := newTestManager(t)
		_, err := m.Chat(context.Background(), "nope", "hi")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("suggest", func(t *testing.T) {
		m, _ := newTestManager(t)
		sess, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
		require.NoError(t, err)

		qs, err := m.Suggest(context.Background(), sess.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, qs)
		assert.Equal(t, qs, sess.Conversation().Suggestions())
	})
}

func TestReparse(t *testing.T) {
	m, _ := newTestManager(t)
	sess, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
	require.NoError(t, err)

	// The mock chat backend cannot parse.
	_, err = m.Reparse(context.Background(), sess.ID)
	require.Error(t, err)
	assert.Equal(t, StatusReady, sess.Status())
}

func TestReparseDuringChat(t *testing.T) {
	m, reg := newTestManager(t)
	sess, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
	require.NoError(t, err)

	b := &blockingParser{blockingChat{started: make(chan struct{}), release: make(chan struct{})}}
	reg.RegisterChat("mock", b)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = m.Chat(context.Background(), sess.ID, "first")
	}()
	<-b.started

	_, err = m.Reparse(context.Background(), sess.ID)
	require.ErrorIs(t, err, ErrBusy)
	assert.False(t, sess.Busy(ActionExtract))

	close(b.release)
	wg.Wait()

	msgs := sess.Conversation().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleUser, msgs[0].Role)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, types.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "done", msgs[1].Content)

	// Once the turn is done the re-parse goes through and starts a new transcript.
	_, err = m.Reparse(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Zero(t, sess.Conversation().Len())
}

func TestChatDuringReparse(t *testing.T) {
	m, _ := newTestManager(t)
	sess, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
	require.NoError(t, err)

	require.NoError(t, sess.Begin(ActionExtract))
	_, err = m.Chat(context.Background(), sess.ID, "hello")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = m.Suggest(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Zero(t, sess.Conversation().Len(), "refused turn records nothing")
	sess.End(ActionExtract)

	_, err = m.Chat(context.Background(), sess.ID, "hello")
	require.NoError(t, err)
}

func TestSessionViewer(t *testing.T) {
	m, _ := newTestManager(t)
	sess, err := m.Upload(context.Background(), UploadRequest{FileName: "a.png", Data: pngData})
	require.NoError(t, err)

	t.Run("select from list", func(t *testing.T) {
		state, err := sess.Select(overlay.SourceList, "5e0d6a91")
		require.NoError(t, err)
		assert.Equal(t, "5e0d6a91", state.SelectedChunkID)
		assert.Equal(t, 1, state.Page)
	})

	t.Run("unknown chunk", func(t *testing.T) {
		_, err := sess.Select(overlay.SourceBox, "missing")
		assert.ErrorIs(t, err, overlay.ErrUnknownChunk)
	})

	t.Run("navigation clamps", func(t *testing.T) {
		state, err := sess.GoTo(9)
		require.NoError(t, err)
		assert.Equal(t, 1, state.Page)
		state, err = sess.Step(-3)
		require.NoError(t, err)
		assert.Equal(t, 1, state.Page)
	})

	t.Run("page boxes", func(t *testing.T) {
		pv, err := sess.Page(1)
		require.NoError(t, err)
		assert.Len(t, pv.Boxes, 6)
		assert.Len(t, pv.ChunkIDs, 6)
		assert.Equal(t, "3f1c0a2e", pv.ChunkIDs[0])
		_, err = sess.Page(2)
		assert.ErrorIs(t, err, ErrPageOutOfRange)
	})

	t.Run("chunk rendered", func(t *testing.T) {
		cv, err := sess.Chunk(markdown.Default(), "5e0d6a91")
		require.NoError(t, err)
		assert.Contains(t, cv.HTML, "<table>")
		assert.Equal(t, 1, cv.Page)

		cv, err = sess.Chunk(markdown.Default(), "9a4b2c33")
		require.NoError(t, err)
		assert.True(t, cv.HasMath)
	})

	t.Run("clear selection", func(t *testing.T) {
		state, err := sess.ClearSelection()
		require.NoError(t, err)
		assert.Empty(t, state.SelectedChunkID)
	})
}

func TestLoadingSession(t *testing.T) {
	st := NewStore(time.Hour, quietLogger())
	sess := st.create(&upload.File{Name: "a.png", Kind: upload.KindPNG, Data: pngData, PageCount: 1})

	assert.Equal(t, StatusLoading, sess.Status())
	_, err := sess.GoTo(1)
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = sess.Chunk(markdown.Default(), "x")
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestBeginEnd(t *testing.T) {
	st := NewStore(time.Hour, quietLogger())
	sess := st.create(&upload.File{Name: "a.png", Kind: upload.KindPNG, Data: pngData})

	require.NoError(t, sess.Begin(ActionChat))
	assert.ErrorIs(t, sess.Begin(ActionChat), ErrBusy)
	require.NoError(t, sess.Begin(ActionSuggest), "actions are independent")
	sess.End(ActionChat)
	require.NoError(t, sess.Begin(ActionChat))
	sess.End(ActionSuggest)

	assert.ErrorIs(t, sess.Begin(ActionExtract, ActionChat, ActionSuggest), ErrBusy)
	assert.False(t, sess.Busy(ActionExtract), "refused action is not marked")
}

func TestStoreSweep(t *testing.T) {
	st := NewStore(10*time.Minute, quietLogger())
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	st.now = func() time.Time { return now }

	idle := st.create(&upload.File{Name: "idle.png", Kind: upload.KindPNG, Data: pngData})
	active := st.create(&upload.File{Name: "active.png", Kind: upload.KindPNG, Data: pngData})
	busy := st.create(&upload.File{Name: "busy.png", Kind: upload.KindPNG, Data: pngData})
	require.NoError(t, busy.Begin(ActionExtract))

	now = base.Add(8 * time.Minute)
	_, err := st.Get(active.ID)
	require.NoError(t, err)

	removed := st.Sweep(base.Add(15 * time.Minute))
	assert.Equal(t, 1, removed)

	_, err = st.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(active.ID)
	assert.NoError(t, err)
	_, err = st.Get(busy.ID)
	assert.NoError(t, err)

	t.Run("zero ttl keeps everything", func(t *testing.T) {
		st.SetTTL(0)
		assert.Zero(t, st.Sweep(base.Add(1000*time.Hour)))
	})
}

func TestStoreListAndDelete(t *testing.T) {
	st := NewStore(time.Hour, quietLogger())
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	st.now = func() time.Time { return now }

	first := st.create(&upload.File{Name: "first.png", Kind: upload.KindPNG, Data: pngData})
	now = base.Add(time.Minute)
	second := st.create(&upload.File{Name: "second.png", Kind: upload.KindPNG, Data: pngData})

	list := st.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, StatusLoading, list[0].Status)

	require.NoError(t, st.Delete(first.ID))
	assert.ErrorIs(t, st.Delete(first.ID), ErrNotFound)
	assert.Equal(t, 1, st.Len())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"api", &providers.APIError{Service: "extraction", Status: 401, Detail: "bad key"}, KindAPI},
		{"transport", &providers.TransportError{Service: "extraction", Err: errors.New("reset")}, KindTransport},
		{"wrapped api", errors.Join(errors.New("ctx"), &providers.APIError{Status: 500}), KindAPI},
		{"too large", upload.ErrTooLarge, KindValidation},
		{"other", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err).Kind)
		})
	}
	assert.Equal(t, "bad key", Classify(tests[0].err).Message)
}
