package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enrichment/internal/model"
)

const (
	skuBlock = "SKU #\tSKU Title (English)\n1\tWidget"
	seqBlock = "Name (English)\tAttribute value (English, DEFAULT)\tPurpose\nWarn\tHot\tSafety"
)

func TestNewSessionIsIdle(t *testing.T) {
	s := New()
	assert.Equal(t, StateIdle, s.State())
	assert.True(t, s.Can(ActionPastePrimary))
	assert.True(t, s.Can(ActionClear))
	assert.True(t, s.Can(ActionRecall))
	assert.False(t, s.Can(ActionPasteSecondary))
	assert.False(t, s.Can(ActionGoBack))
	assert.False(t, s.Can(ActionComplete))
}

func TestStepSequence(t *testing.T) {
	s := New()

	require.NoError(t, s.PasteRecord(skuBlock))
	assert.Equal(t, StateAwaitingSecondary, s.State())
	assert.False(t, s.Can(ActionPastePrimary))
	assert.True(t, s.Can(ActionPasteSecondary))
	assert.True(t, s.Can(ActionGoBack))
	assert.False(t, s.Can(ActionComplete))

	require.NoError(t, s.PasteSecondary(seqBlock))
	assert.Equal(t, StateSecondaryCaptured, s.State())
	assert.True(t, s.Can(ActionAddAnother))
	assert.True(t, s.Can(ActionSkip))
	assert.True(t, s.Can(ActionComplete))

	require.NoError(t, s.AddAnother())
	assert.Equal(t, StateIdle, s.State())
	assert.Len(t, s.PrimaryBlocks(), 1)
	assert.Len(t, s.SecondaryBlocks(), 1)

	require.NoError(t, s.PasteRecord("SKU #\n2"))
	blocks := s.SecondaryBlocks()
	assert.Equal(t, 0, blocks[0].PrimaryIndex)
}

func TestPasteRecordTrimsInput(t *testing.T) {
	s := New()
	require.NoError(t, s.PasteRecord("  \n"+skuBlock+"\n\n"))
	assert.Equal(t, []string{skuBlock}, s.PrimaryBlocks())
}

func TestPasteRecordThenGoBackRestoresBlocks(t *testing.T) {
	s := New()
	require.NoError(t, s.PasteRecord(skuBlock))
	require.NoError(t, s.PasteSecondary(seqBlock))
	require.NoError(t, s.AddAnother())

	before := s.Run()
	require.NoError(t, s.PasteRecord("SKU #\n2"))
	assert.True(t, s.GoBack())

	assert.Equal(t, before, s.Run())
	assert.Equal(t, StateIdle, s.State())
}

func TestGoBackPopsSecondaryFirst(t *testing.T) {
	s := New()
	require.NoError(t, s.PasteRecord(skuBlock))
	require.NoError(t, s.PasteSecondary(seqBlock))

	assert.True(t, s.GoBack())
	assert.Equal(t, StateAwaitingSecondary, s.State())
	assert.Empty(t, s.SecondaryBlocks())
	assert.Len(t, s.PrimaryBlocks(), 1)

	assert.True(t, s.GoBack())
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.PrimaryBlocks())

	assert.False(t, s.GoBack())
	assert.Equal(t, StateIdle, s.State())
}

func TestPasteSecondaryEmptyLeavesSessionUnchanged(t *testing.T) {
	s := New()
	require.NoError(t, s.PasteRecord(skuBlock))

	err := s.PasteSecondary("   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEmptyInput))
	assert.Empty(t, s.SecondaryBlocks())
	assert.Equal(t, StateAwaitingSecondary, s.State())
}

func TestPasteRecordEmpty(t *testing.T) {
	s := New()
	err := s.PasteRecord("\n\t ")
	assert.True(t, errors.Is(err, model.ErrEmptyInput))
	assert.Empty(t, s.PrimaryBlocks())
}

func TestUnavailableActionsFail(t *testing.T) {
	s := New()

	err := s.PasteSecondary(seqBlock)
	assert.True(t, errors.Is(err, model.ErrActionUnavailable))
	assert.True(t, errors.Is(s.AddAnother(), model.ErrActionUnavailable))
	assert.True(t, errors.Is(s.Skip(), model.ErrActionUnavailable))
	assert.True(t, errors.Is(s.CanComplete(), model.ErrActionUnavailable))

	require.NoError(t, s.PasteRecord(skuBlock))
	assert.True(t, errors.Is(s.PasteRecord(skuBlock), model.ErrActionUnavailable))
	assert.Len(t, s.PrimaryBlocks(), 1)
}

func TestSkipMarksKnownGroupsOnly(t *testing.T) {
	s := New()
	require.NoError(t, s.PasteRecord(skuBlock))
	require.NoError(t, s.PasteSecondary(seqBlock))

	require.NoError(t, s.Skip())
	assert.Equal(t, StateSkipped, s.State())
	assert.Empty(t, s.SkippedGroups())
	assert.True(t, s.SkipUsed())
	assert.Len(t, s.SecondaryBlocks(), 1)

	s.MarkComplete([]string{"Tools", "Garden", "Tools"})
	assert.Equal(t, []string{"Tools", "Garden"}, s.Groups())

	require.NoError(t, s.AddAnother())
	require.NoError(t, s.PasteRecord(skuBlock))
	require.NoError(t, s.PasteSecondary(seqBlock))
	require.NoError(t, s.Skip())
	assert.Equal(t, []string{"Tools", "Garden"}, s.SkippedGroups())
	assert.Len(t, s.PrimaryBlocks(), 2)
}

func TestCompleteAllowedAfterSkipWithoutNewSecondary(t *testing.T) {
	s := New()
	require.NoError(t, s.PasteRecord(skuBlock))
	require.NoError(t, s.PasteSecondary(seqBlock))
	require.NoError(t, s.Skip())
	s.GoBack()

	assert.Empty(t, s.SecondaryBlocks())
	assert.NoError(t, s.CanComplete())
}

func TestResetClearsEverything(t *testing.T) {
	s := New()
	require.NoError(t, s.PasteRecord(skuBlock))
	require.NoError(t, s.PasteSecondary(seqBlock))
	require.NoError(t, s.Skip())
	s.MarkComplete([]string{"Tools"})

	s.Reset()
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.PrimaryBlocks())
	assert.Empty(t, s.SecondaryBlocks())
	assert.Empty(t, s.Groups())
	assert.False(t, s.SkipUsed())
}

func TestLoadDerivesState(t *testing.T) {
	tests := []struct {
		name string
		run  model.Run
		want State
	}{
		{"empty", model.Run{}, StateIdle},
		{"awaiting", model.Run{SKUData: []string{"a", "b"}, SeqNameData: []string{"x"}}, StateAwaitingSecondary},
		{"captured", model.Run{SKUData: []string{"a"}, SeqNameData: []string{"x"}}, StateSecondaryCaptured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Load(tt.run)
			assert.Equal(t, tt.want, s.State())
			assert.Equal(t, len(tt.run.SKUData), len(s.PrimaryBlocks()))
		})
	}
}

func TestLoadCopiesRun(t *testing.T) {
	run := model.Run{SKUData: []string{"a"}, SeqNameData: []string{"x"}}
	s := New()
	s.Load(run)
	run.SKUData[0] = "changed"
	assert.Equal(t, []string{"a"}, s.PrimaryBlocks())
}

func TestAvailableCoversAllActions(t *testing.T) {
	s := New()
	got := s.Available()
	assert.Len(t, got, len(Actions))
	for _, a := range Actions {
		assert.NotEmpty(t, a.Label())
	}
}
