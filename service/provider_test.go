package service_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelengine/core/service"
)

type fakeService struct {
	service.Base
	name   string
	closed *[]string
}

func (f *fakeService) Close() error {
	*f.closed = append(*f.closed, f.name)
	return nil
}

func newFakeService(name string, closed *[]string) func(*service.Provider) (*fakeService, error) {
	return func(p *service.Provider) (*fakeService, error) {
		return &fakeService{name: name, closed: closed}, nil
	}
}

// otherFakeService is a distinct type from fakeService: Provider keys
// services by Go type, so exercising teardown order needs two types, not
// two instances of one.
type otherFakeService struct {
	service.Base
	name   string
	closed *[]string
}

func (f *otherFakeService) Close() error {
	*f.closed = append(*f.closed, f.name)
	return nil
}

func TestProviderTeardownIsReverseOrder(t *testing.T) {
	p := service.NewProvider()
	var closed []string

	_, err := service.Provide(p, newFakeService("a", &closed))
	require.NoError(t, err)

	_, err = service.Provide(p, func(pr *service.Provider) (*otherFakeService, error) {
		return &otherFakeService{name: "b", closed: &closed}, nil
	})
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.Equal(t, []string{"b", "a"}, closed)
}

func TestProviderLocate(t *testing.T) {
	p := service.NewProvider()
	_, err := service.Provide(p, newFakeService("only", &[]string{}))
	require.NoError(t, err)

	got, ok := service.Locate[*fakeService](p)
	require.True(t, ok)
	require.Equal(t, "only", got.name)
}

func TestProviderDestroySplicesOutOfTeardownOrder(t *testing.T) {
	p := service.NewProvider()
	var closed []string

	_, err := service.Provide(p, newFakeService("first", &closed))
	require.NoError(t, err)

	require.NoError(t, service.Destroy[*fakeService](p))
	require.Equal(t, []string{"first"}, closed)

	require.NoError(t, p.Close())
	require.Equal(t, []string{"first"}, closed, "Close must not tear down an already-destroyed service again")
}

func TestProviderCtorFailureIsPropagated(t *testing.T) {
	p := service.NewProvider()
	_, err := service.Provide(p, func(pr *service.Provider) (*fakeService, error) {
		return nil, fmt.Errorf("boom")
	})
	require.Error(t, err)

	_, ok := service.Locate[*fakeService](p)
	require.False(t, ok)
}
