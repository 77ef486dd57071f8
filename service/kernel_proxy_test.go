package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelengine/core/service"
)

func TestKernelProxyRequestsShutdownOnKernel(t *testing.T) {
	k := service.NewKernel(service.BuildConfig{})
	proxy, ok := service.SetupService(k, true, func(p *service.Provider) (*service.KernelProxy, error) {
		return service.NewKernelProxy(k)
	})
	require.True(t, ok)

	proxy.RequestShutdown(7)
	require.Equal(t, int32(7), k.ExitCode())
}
