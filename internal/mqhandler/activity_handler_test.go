package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mqcontracts "skincare-tracker/contracts/mq"
	"skincare-tracker/internal/model"
	"skincare-tracker/pkg/mq"
)

type fakeRecorder struct {
	recorded []*model.Activity
	err      error
}

func (f *fakeRecorder) Record(ctx context.Context, a *model.Activity) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, a)
	return nil
}

type fakeDeduper struct {
	seen     map[string]bool
	released []string
}

func (f *fakeDeduper) AcquireOnce(ctx context.Context, handler, eventID string) bool {
	key := handler + ":" + eventID
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}

func (f *fakeDeduper) Release(ctx context.Context, handler, eventID string) {
	delete(f.seen, handler+":"+eventID)
	f.released = append(f.released, eventID)
}

type fakeRetries struct {
	counts map[string]int64
}

func (f *fakeRetries) IncrementAndGet(ctx context.Context, key string) (int64, error) {
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRetries) Reset(ctx context.Context, key string) error {
	delete(f.counts, key)
	return nil
}

type dlqMessage struct {
	routingKey string
	cause      string
}

type fakeDLQ struct {
	published []dlqMessage
}

func (f *fakeDLQ) PublishToDLQ(routingKey string, payload []byte, originalError string) error {
	f.published = append(f.published, dlqMessage{routingKey: routingKey, cause: originalError})
	return nil
}

type harness struct {
	handler  *ActivityHandler
	recorder *fakeRecorder
	deduper  *fakeDeduper
	retries  *fakeRetries
	dlq      *fakeDLQ
}

func newHarness() *harness {
	h := &harness{
		recorder: &fakeRecorder{},
		deduper:  &fakeDeduper{seen: map[string]bool{}},
		retries:  &fakeRetries{counts: map[string]int64{}},
		dlq:      &fakeDLQ{},
	}
	h.handler = NewActivityHandler(h.recorder, h.deduper, h.retries, h.dlq, 2, zap.NewNop())
	return h
}

func envelope(t *testing.T, eventType string, payload any) json.RawMessage {
	t.Helper()
	evt, err := mq.NewEvent(eventType, payload)
	require.NoError(t, err)
	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	return raw
}

func TestHandleRecordsEachEventType(t *testing.T) {
	at := time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC)
	cases := []struct {
		eventType string
		payload   any
		want      model.ActivityType
		subject   string
		name      string
	}{
		{mqcontracts.EventProductAdded, mqcontracts.ProductAddedPayload{UserID: "u1", ProductID: "p1", Name: "Serum", AddedAt: at}, model.ActivityProductAdded, "p1", "Serum"},
		{mqcontracts.EventRoutineCompleted, mqcontracts.RoutineCompletedPayload{UserID: "u1", RoutineID: "r1", Name: "AM", Date: "2024-01-03", CompletedAt: at}, model.ActivityRoutineCompleted, "r1", "AM"},
		{mqcontracts.EventTaskCompleted, mqcontracts.TaskCompletedPayload{UserID: "u1", TaskID: "t1", Title: "Mask", Date: "2024-01-03", CompletedAt: at}, model.ActivityTaskCompleted, "t1", "Mask"},
		{mqcontracts.EventReviewPosted, mqcontracts.ReviewPostedPayload{UserID: "u1", ReviewID: "rv1", ProductID: "p1", Rating: 4, PostedAt: at}, model.ActivityReviewPosted, "p1", "4-star review"},
	}
	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			h := newHarness()
			require.NoError(t, h.handler.Handle(context.Background(), envelope(t, tc.eventType, tc.payload)))

			require.Len(t, h.recorder.recorded, 1)
			a := h.recorder.recorded[0]
			assert.Equal(t, "u1", a.UserID)
			assert.Equal(t, tc.want, a.Type)
			assert.Equal(t, tc.subject, a.SubjectID)
			assert.Equal(t, tc.name, a.SubjectName)
			assert.True(t, a.Timestamp.Equal(at))
			assert.True(t, a.CreatedAt.Equal(at))
			assert.NotEmpty(t, a.EventID)
		})
	}
}

func TestHandleSkipsDuplicateDelivery(t *testing.T) {
	h := newHarness()
	raw := envelope(t, mqcontracts.EventProductAdded, mqcontracts.ProductAddedPayload{UserID: "u1", ProductID: "p1", Name: "Serum"})

	require.NoError(t, h.handler.Handle(context.Background(), raw))
	require.NoError(t, h.handler.Handle(context.Background(), raw))
	assert.Len(t, h.recorder.recorded, 1)
}

func TestHandleIgnoresUnknownType(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.handler.Handle(context.Background(), envelope(t, "product.deleted", map[string]string{"id": "p1"})))
	assert.Empty(t, h.recorder.recorded)
	assert.Empty(t, h.dlq.published)
}

func TestHandleDeadLettersBadPayload(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.handler.Handle(context.Background(), json.RawMessage(`{not json`)))
	require.Len(t, h.dlq.published, 1)
	assert.Equal(t, "activity.unknown", h.dlq.published[0].routingKey)

	raw := envelope(t, mqcontracts.EventTaskCompleted, mqcontracts.TaskCompletedPayload{TaskID: "t1"})
	require.NoError(t, h.handler.Handle(context.Background(), raw))
	require.Len(t, h.dlq.published, 2)
	assert.Equal(t, "activity.task.completed", h.dlq.published[1].routingKey)
	assert.Empty(t, h.retries.counts)
}

func TestHandleRetriesThenDeadLetters(t *testing.T) {
	h := newHarness()
	h.recorder.err = errors.New("store unavailable")
	raw := envelope(t, mqcontracts.EventProductAdded, mqcontracts.ProductAddedPayload{UserID: "u1", ProductID: "p1", Name: "Serum"})

	// two redeliveries fail and are requeued
	assert.Error(t, h.handler.Handle(context.Background(), raw))
	assert.Error(t, h.handler.Handle(context.Background(), raw))
	assert.Empty(t, h.dlq.published)
	assert.Len(t, h.deduper.released, 2)

	require.NoError(t, h.handler.Handle(context.Background(), raw))
	require.Len(t, h.dlq.published, 1)
	assert.Equal(t, "activity.product.added", h.dlq.published[0].routingKey)
	assert.Contains(t, h.dlq.published[0].cause, "store unavailable")
	assert.Empty(t, h.retries.counts)
}
