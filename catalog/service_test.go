package catalog

import (
	"testing"

	"github.com/skydeskhq/skydesk/model"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, svc *Service){
		"test save and get":            testSaveAndGet,
		"test save rejects invalid":    testSaveRejectsInvalid,
		"test get unknown":             testGetUnknown,
		"test delete invalidates":      testDeleteInvalidates,
		"test get active sorted":       testGetActiveSorted,
		"test seed populates builtins": testSeedPopulatesBuiltins,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewService(NewInMemoryStorage()))
		})
	}
}

func testSaveAndGet(t *testing.T, svc *Service) {
	rt := validRequestType()
	require.NoError(t, svc.Save(rt))

	got, err := svc.Get(rt.Id)
	require.NoError(t, err)
	require.Equal(t, rt.Id, got.Id)
	require.Len(t, got.Tasks, 3)

	// second read is served from cache
	got, err = svc.Get(rt.Id)
	require.NoError(t, err)
	require.Equal(t, rt.Name, got.Name)
}

func testSaveRejectsInvalid(t *testing.T, svc *Service) {
	rt := validRequestType()
	rt.Tasks = nil
	err := svc.Save(rt)
	require.Error(t, err)
	_, ok := err.(InvalidWorkflowDefinitionError)
	require.True(t, ok)
}

func testGetUnknown(t *testing.T, svc *Service) {
	_, err := svc.Get("no-such-type")
	require.Error(t, err)
	_, ok := err.(RequestTypeNotFoundError)
	require.True(t, ok)
}

func testDeleteInvalidates(t *testing.T, svc *Service) {
	rt := validRequestType()
	require.NoError(t, svc.Save(rt))
	_, err := svc.Get(rt.Id)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(rt.Id))
	_, err = svc.Get(rt.Id)
	require.Error(t, err)
}

func testGetActiveSorted(t *testing.T, svc *Service) {
	b := validRequestType()
	b.Id = "b-type"
	a := validRequestType()
	a.Id = "a-type"
	require.NoError(t, svc.Save(b))
	require.NoError(t, svc.Save(a))

	types, err := svc.GetActive()
	require.NoError(t, err)
	require.Len(t, types, 2)
	require.Equal(t, "a-type", types[0].Id)
	require.Equal(t, "b-type", types[1].Id)
}

func testSeedPopulatesBuiltins(t *testing.T, svc *Service) {
	require.NoError(t, Seed(svc))

	types, err := svc.GetActive()
	require.NoError(t, err)
	require.Len(t, types, len(BuiltinRequestTypes()))

	rt, err := svc.Get(REQUEST_TYPE_CANCEL_TRIP)
	require.NoError(t, err)
	require.Equal(t, model.TASK_TYPE_RESPONSE, rt.Tasks[len(rt.Tasks)-1].TaskType)

	// seeding an already populated catalog is a no-op
	require.NoError(t, Seed(svc))
	types, err = svc.GetActive()
	require.NoError(t, err)
	require.Len(t, types, len(BuiltinRequestTypes()))
}
