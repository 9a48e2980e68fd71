package session

import (
	"context"
	"sync"
	"testing"

	"github.com/skydeskhq/skydesk/model"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, st Store){
		"test create assigns id":     testCreateAssignsId,
		"test get unknown session":   testGetUnknownSession,
		"test save round trip":       testSaveRoundTrip,
		"test get returns isolation": testGetReturnsIsolation,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewInMemoryStore())
		})
	}
}

func testCreateAssignsId(t *testing.T, st Store) {
	sess, err := st.Create(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, sess.Id)
	require.Equal(t, model.SESSION_ACTIVE, sess.Status)
	require.NotNil(t, sess.Collected)
	require.NotNil(t, sess.Results)
}

func testGetUnknownSession(t *testing.T, st Store) {
	_, err := st.Get(context.Background(), "missing")
	require.Error(t, err)
	_, ok := err.(SessionNotFoundError)
	require.True(t, ok)
}

func testSaveRoundTrip(t *testing.T, st Store) {
	ctx := context.Background()
	sess, err := st.Create(ctx)
	require.NoError(t, err)

	sess.RequestTypeId = "cancel-trip"
	sess.Collected["pnr"] = "ABC123"
	sess.Status = model.SESSION_AWAITING_INPUT
	sess.Append(model.SENDER_USER, "cancel my trip", false, "")
	require.NoError(t, st.Save(ctx, sess))

	got, err := st.Get(ctx, sess.Id)
	require.NoError(t, err)
	require.Equal(t, "cancel-trip", got.RequestTypeId)
	require.Equal(t, "ABC123", got.Collected["pnr"])
	require.Equal(t, model.SESSION_AWAITING_INPUT, got.Status)
	require.Len(t, got.History, 1)
}

func testGetReturnsIsolation(t *testing.T, st Store) {
	ctx := context.Background()
	sess, err := st.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, sess))

	first, err := st.Get(ctx, sess.Id)
	require.NoError(t, err)
	first.Collected["pnr"] = "ZZZ999"

	second, err := st.Get(ctx, sess.Id)
	require.NoError(t, err)
	require.NotContains(t, second.Collected, "pnr")
}

func TestKeyLock(t *testing.T) {
	kl := NewKeyLock()
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kl.Lock("session-1")
			counter++
			kl.Unlock("session-1")
		}()
	}
	wg.Wait()
	require.Equal(t, 64, counter)
}
