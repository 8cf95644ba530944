package history

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comigor/jarvis-chat/internal/logger"
	"github.com/comigor/jarvis-chat/internal/loop"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeClient struct {
	payload    Payload
	historyErr error
	deleteErr  error
	clearErr   error

	historyCalls int
	deleted      []string
	clears       int
}

func (f *fakeClient) History(ctx context.Context) (Payload, error) {
	f.historyCalls++
	return f.payload, f.historyErr
}

func (f *fakeClient) DeleteHistoryItem(ctx context.Context, message string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, message)
	var kept []Entry
	for _, e := range f.payload[Today] {
		if e.Message != message {
			kept = append(kept, e)
		}
	}
	f.payload[Today] = kept
	return nil
}

func (f *fakeClient) ClearHistory(ctx context.Context) error {
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.payload = nil
	return nil
}

type fakeConfirm struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirm) Confirm(prompt string, answer func(bool)) {
	f.prompts = append(f.prompts, prompt)
	answer(f.answer)
}

type fakeTranscript struct{ clears int }

func (f *fakeTranscript) Clear() { f.clears++ }

type fixture struct {
	client     *fakeClient
	loop       *loop.Manual
	confirm    *fakeConfirm
	transcript *fakeTranscript
	panel      *Panel
	resubmits  []string
	changes    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		client: &fakeClient{payload: Payload{
			Today: {
				{Type: EntryUser, Message: "what's new?"},
				{Type: EntryBot, Message: "not much"},
				{Type: EntryUser, Message: "hello"},
			},
		}},
		loop:       loop.NewManual(),
		confirm:    &fakeConfirm{},
		transcript: &fakeTranscript{},
	}
	f.panel = NewPanel(context.Background(), f.client, f.loop, f.confirm, f.transcript)
	f.panel.SetResubmit(func(text string) { f.resubmits = append(f.resubmits, text) })
	f.panel.OnChange(func() { f.changes++ })
	return f
}

func TestRefreshRebuildsSections(t *testing.T) {
	f := newFixture(t)

	f.panel.Refresh()
	assert.Empty(t, f.panel.Sections())
	f.loop.Drain()

	require.Len(t, f.panel.Sections(), 1)
	rows := f.panel.Sections()[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "what's new?", rows[0].Label)
	assert.Equal(t, "hello", rows[1].Label)
	assert.Equal(t, 1, f.changes)
}

func TestRefreshFailureKeepsSidebar(t *testing.T) {
	f := newFixture(t)
	f.panel.Refresh()
	f.loop.Drain()
	before := f.panel.Sections()

	f.client.historyErr = errors.New("boom")
	f.panel.Refresh()
	f.loop.Drain()

	assert.Equal(t, before, f.panel.Sections())
	assert.Equal(t, 1, f.changes)
}

func TestRefreshMissingHistoryRendersNothing(t *testing.T) {
	f := newFixture(t)
	f.client.payload = nil

	f.panel.Refresh()
	f.loop.Drain()

	assert.Empty(t, f.panel.Sections())
	assert.Equal(t, 1, f.changes)
}

func TestRowClickResubmits(t *testing.T) {
	f := newFixture(t)
	f.panel.Refresh()
	f.loop.Drain()

	row := f.panel.Sections()[0].Rows[1]
	require.NoError(t, f.panel.Click(row, TargetRow))

	assert.Equal(t, []string{"hello"}, f.resubmits)
	assert.Empty(t, f.client.deleted)
}

func TestDeleteQuotedEntryDoesNotResubmit(t *testing.T) {
	f := newFixture(t)
	f.panel.Refresh()
	f.loop.Drain()

	row := f.panel.Sections()[0].Rows[0]
	require.NoError(t, f.panel.Click(row, TargetDelete))

	// the row stays until the refresh that follows the delete lands
	assert.Len(t, f.panel.Sections()[0].Rows, 2)
	f.loop.Drain()

	assert.Equal(t, []string{"what's new?"}, f.client.deleted)
	assert.Empty(t, f.resubmits)
	require.Len(t, f.panel.Sections()[0].Rows, 1)
	assert.Equal(t, "hello", f.panel.Sections()[0].Rows[0].Label)
	assert.Equal(t, 2, f.client.historyCalls)
}

func TestDeleteFailureDoesNotRefresh(t *testing.T) {
	f := newFixture(t)
	f.client.deleteErr = errors.New("nope")

	f.panel.DeleteEntry("hello")
	f.loop.Drain()

	assert.Zero(t, f.client.historyCalls)
}

func TestClearAllDeclined(t *testing.T) {
	f := newFixture(t)
	f.panel.Refresh()
	f.loop.Drain()
	before := f.panel.Sections()

	f.confirm.answer = false
	f.panel.ClearAll()
	f.loop.Drain()

	assert.Equal(t, []string{ClearPrompt}, f.confirm.prompts)
	assert.Zero(t, f.client.clears)
	assert.Zero(t, f.transcript.clears)
	assert.Equal(t, before, f.panel.Sections())
}

func TestClearAllConfirmed(t *testing.T) {
	f := newFixture(t)
	f.panel.Refresh()
	f.loop.Drain()

	f.confirm.answer = true
	f.panel.ClearAll()
	f.loop.Drain()

	assert.Equal(t, 1, f.client.clears)
	assert.Equal(t, 1, f.transcript.clears)
	assert.Empty(t, f.panel.Sections())
}

func TestClearAllFailureStillClearsTranscript(t *testing.T) {
	f := newFixture(t)
	f.client.clearErr = errors.New("down")
	f.confirm.answer = true

	f.panel.ClearAll()
	f.loop.Drain()

	assert.Equal(t, 1, f.transcript.clears)
	assert.Equal(t, 1, f.client.historyCalls)
}

func TestDispatchRejectsBadBinding(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.panel.Dispatch("loadChat('broken"), ErrMalformedAction)
	assert.Empty(t, f.resubmits)
}
