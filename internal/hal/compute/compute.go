// Package compute implements the HAL compute-device service: enumerating the
// devices AiOS could schedule work on. The host backend probes the real CPU
// through gopsutil; the simulated backend reports a single generic CPU and is
// the fallback when probing fails.
package compute

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"aios/internal/logging"
)

// DeviceType classifies a compute device.
type DeviceType string

const (
	CPU DeviceType = "CPU"
	GPU DeviceType = "GPU"
	NPU DeviceType = "NPU"
)

// Device describes a single compute device.
type Device struct {
	Name         string     `json:"name"`
	Type         DeviceType `json:"type"`
	Capabilities string     `json:"capabilities"`
}

// Service enumerates available compute devices.
type Service interface {
	ListDevices() ([]Device, error)
}

// SimulatedService reports a single generic CPU device.
type SimulatedService struct{}

// NewSimulatedService returns the simulated backend.
func NewSimulatedService() *SimulatedService { return &SimulatedService{} }

var _ Service = (*SimulatedService)(nil)

func (s *SimulatedService) ListDevices() ([]Device, error) {
	return []Device{
		{Name: "Host CPU", Type: CPU, Capabilities: "General purpose computation"},
	}, nil
}

// HostService probes the host machine for its CPU. Probe failures fall back
// to the simulated device list rather than erroring the command.
type HostService struct{}

// NewHostService returns the host-probing backend.
func NewHostService() *HostService { return &HostService{} }

var _ Service = (*HostService)(nil)

func (s *HostService) ListDevices() ([]Device, error) {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		logging.HAL("cpu probe failed (%v), using simulated device list", err)
		return NewSimulatedService().ListDevices()
	}

	name := infos[0].ModelName
	if name == "" {
		name = "Host CPU"
	}

	caps := fmt.Sprintf("%d physical cores", infos[0].Cores)
	if logical, err := cpu.Counts(true); err == nil {
		caps = fmt.Sprintf("%s, %d threads", caps, logical)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		caps = fmt.Sprintf("%s, %.1f GiB RAM", caps, float64(vm.Total)/(1<<30))
	}

	return []Device{{Name: name, Type: CPU, Capabilities: caps}}, nil
}
