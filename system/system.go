package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats is a point-in-time snapshot of host resource usage.
type Stats struct {
	CPUPercent float64
	MemPercent float64
}

// GetCPUUsage returns the current CPU usage as a percentage
func GetCPUUsage() (float64, error) {
	percentages, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(percentages) == 0 {
		return 0, fmt.Errorf("could not get CPU usage")
	}
	return percentages[0], nil
}

// GetMemoryUsage returns the current memory usage as a percentage
func GetMemoryUsage() (float64, error) {
	virtualMem, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return virtualMem.UsedPercent, nil
}

// Snapshot gathers both usage figures for the status readout.
func Snapshot() (*Stats, error) {
	cpuUsage, err := GetCPUUsage()
	if err != nil {
		return nil, err
	}
	memUsage, err := GetMemoryUsage()
	if err != nil {
		return nil, err
	}
	return &Stats{CPUPercent: cpuUsage, MemPercent: memUsage}, nil
}

// String formats the snapshot for the status readout.
func (s *Stats) String() string {
	return fmt.Sprintf("CPU %.1f%% | MEM %.1f%%", s.CPUPercent, s.MemPercent)
}
