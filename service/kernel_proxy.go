package service

// KernelProxy exposes just enough of a Kernel for other services to request
// shutdown without holding a direct *Kernel reference, breaking the
// otherwise-circular dependency between the Kernel and the services it owns
// (the original's Core/KernelProxy.hpp serves exactly this purpose).
type KernelProxy struct {
	Base
	kernel *Kernel
}

// NewKernelProxy constructs a proxy bound to kernel. It always succeeds.
func NewKernelProxy(kernel *Kernel) (*KernelProxy, error) {
	return &KernelProxy{kernel: kernel}, nil
}

// RequestShutdown forwards to the bound Kernel.
func (k *KernelProxy) RequestShutdown(exitCode int32) {
	k.kernel.RequestShutdown(exitCode)
}

var _ Service = (*KernelProxy)(nil)
