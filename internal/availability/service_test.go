package availability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository())
}

func TestAddSlotsAndList(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	slots, err := svc.AddSlots(ctx, "doc-1", []SlotInput{
		{Day: "Wednesday", StartTime: "09:00", EndTime: "10:00"},
		{Day: "Friday", StartTime: "14:00", EndTime: "15:30"},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.NotEqual(t, uuid.Nil, s.ID)
		assert.Equal(t, "doc-1", s.PractitionerID)
	}

	listed, err := svc.ListFor(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestAddSlotsAcceptsDuplicates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	in := SlotInput{Day: "Monday", StartTime: "09:00", EndTime: "10:00"}
	_, err := svc.AddSlots(ctx, "doc-1", []SlotInput{in})
	require.NoError(t, err)
	_, err = svc.AddSlots(ctx, "doc-1", []SlotInput{in})
	require.NoError(t, err)

	listed, err := svc.ListFor(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, listed, 2, "duplicate day/time pairs are accepted silently")
}

func TestAddSlotsValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddSlots(ctx, "doc-1", []SlotInput{
		{Day: "Funday", StartTime: "09:00", EndTime: "10:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = svc.AddSlots(ctx, "doc-1", []SlotInput{
		{Day: "Monday", StartTime: "9:00", EndTime: "10:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = svc.AddSlots(ctx, "doc-1", []SlotInput{
		{Day: "Monday", StartTime: "10:00", EndTime: "10:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.AddSlots(ctx, "doc-1", []SlotInput{
		{Day: "Monday", StartTime: "11:00", EndTime: "10:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)

	// Nothing may be written when any slot in the batch is rejected.
	listed, err := svc.ListFor(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestUpdateSlot(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	slots, err := svc.AddSlots(ctx, "doc-1", []SlotInput{
		{Day: "Tuesday", StartTime: "09:00", EndTime: "10:00"},
	})
	require.NoError(t, err)
	id := slots[0].ID

	updated, err := svc.UpdateSlot(ctx, id, "10:00", "11:30")
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, "11:30", updated.EndTime)
	assert.Equal(t, "Tuesday", updated.Day)

	_, err = svc.UpdateSlot(ctx, id, "12:00", "11:00")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.UpdateSlot(ctx, uuid.New(), "09:00", "10:00")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestDeleteAndClear(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	slots, err := svc.AddSlots(ctx, "doc-1", []SlotInput{
		{Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
		{Day: "Tuesday", StartTime: "09:00", EndTime: "10:00"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSlot(ctx, slots[0].ID))
	assert.ErrorIs(t, svc.DeleteSlot(ctx, slots[0].ID), ErrSlotNotFound)

	_, err = svc.AddSlots(ctx, "doc-2", []SlotInput{
		{Day: "Friday", StartTime: "09:00", EndTime: "10:00"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll(ctx, "doc-1"))

	byPractitioner, err := svc.ListForMany(ctx, []string{"doc-1", "doc-2"})
	require.NoError(t, err)
	assert.Empty(t, byPractitioner["doc-1"])
	assert.Len(t, byPractitioner["doc-2"], 1)
}
