package orch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSummaryUnknownRoom(t *testing.T) {
	o := newTestOrchestrator(t, &gatedTranscriber{}, &fakeSummarizer{})

	_, err := o.GenerateSummary(context.Background(), "nonexistent-room")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestGenerateSummaryRoomWithoutTranscript(t *testing.T) {
	o := newTestOrchestrator(t, &gatedTranscriber{}, &fakeSummarizer{})
	o.Rooms.GetOrCreate("r1")

	// A room that exists but never transcribed anything is still not found;
	// an empty-string summary is never produced.
	_, err := o.GenerateSummary(context.Background(), "r1")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestGenerateSummaryReturnsVerbatim(t *testing.T) {
	sum := &fakeSummarizer{text: "Summary.\n- do the thing\n- ship it"}
	o := newTestOrchestrator(t, &gatedTranscriber{}, sum)
	room := o.Rooms.GetOrCreate("r1")
	room.AppendTranscript("bar")
	room.AppendTranscript("foo")

	got, err := o.GenerateSummary(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, sum.text, got)

	require.Len(t, sum.prompts, 1)
	assert.True(t, strings.HasSuffix(sum.prompts[0], "Transcript:\nbar foo"))
	assert.Contains(t, sum.prompts[0], "bullet list of key action items")
}

func TestGenerateSummaryDoesNotCloseRoom(t *testing.T) {
	sum := &fakeSummarizer{text: "done"}
	o := newTestOrchestrator(t, &gatedTranscriber{}, sum)
	room := o.Rooms.GetOrCreate("r1")
	room.AppendTranscript("before")

	_, err := o.GenerateSummary(context.Background(), "r1")
	require.NoError(t, err)

	// The room keeps accepting activity after a summary was generated.
	room.AppendTranscript("after")
	got, ok := room.Transcript()
	require.True(t, ok)
	assert.Equal(t, "before after", got)
}

func TestGenerateSummaryCollaboratorError(t *testing.T) {
	sum := &fakeSummarizer{err: errors.New("quota exceeded")}
	o := newTestOrchestrator(t, &gatedTranscriber{}, sum)
	o.Rooms.GetOrCreate("r1").AppendTranscript("words")

	_, err := o.GenerateSummary(context.Background(), "r1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoTranscript)
}
