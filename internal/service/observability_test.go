package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/alexanderramin/holdings/internal/app"
	"github.com/alexanderramin/holdings/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestObserver_ReportsSuccessAndFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	obs := &recordingObserver{}
	svc := NewCategoryService(nil, testutil.NewTestUoW(database), obs)
	ctx := context.Background()

	_, err := svc.Create(ctx, app.CategoryRequest{Name: "Cash"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, app.CategoryRequest{Name: ""})
	require.Error(t, err)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "create-category", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.False(t, obs.events[1].Success)
	assert.Error(t, obs.events[1].Err)
	assert.Equal(t, "Cash", obs.events[0].Fields["name"])
}

func TestLogUseCaseObserver_WritesSlogLine(t *testing.T) {
	var buf bytes.Buffer
	database := testutil.NewTestDB(t)
	svc := NewRecordService(testutil.NewTestUoW(database), NewLogUseCaseObserver(&buf))

	err := svc.DeleteValuation(context.Background(), "missing")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "service_use_case")
	assert.Contains(t, out, "use_case=delete-valuation")
	assert.Contains(t, out, "success=false")
	assert.Contains(t, out, "level=ERROR")
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}
