package provider

import (
	"os/exec"
	"strings"
)

const (
	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// ResolveDevice picks the inference device and numeric precision.
// "auto" selects cuda when nvidia-smi is on PATH. An empty or "auto" compute
// type follows the device: float16 on cuda, int8 on cpu.
func ResolveDevice(device, computeType string) (string, string) {
	device = strings.ToLower(strings.TrimSpace(device))
	switch device {
	case DeviceCPU, DeviceCUDA:
	default:
		device = DeviceCPU
		if _, err := lookPath("nvidia-smi"); err == nil {
			device = DeviceCUDA
		}
	}

	computeType = strings.ToLower(strings.TrimSpace(computeType))
	if computeType == "" || computeType == DeviceAuto {
		if device == DeviceCUDA {
			computeType = "float16"
		} else {
			computeType = "int8"
		}
	}
	return device, computeType
}
