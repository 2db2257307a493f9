// Package sysinfo describes the host once so the crash reporter never has to
// query the system while a fault is being handled.
package sysinfo

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/host"
)

const lookupTimeout = 2 * time.Second

// hostInfo is replaced in tests.
var hostInfo = host.InfoWithContext

// Describe returns "platform version, kernel version" for the current host,
// or an error when the host cannot be queried.
func Describe() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	info, err := hostInfo(ctx)
	if err != nil {
		return "", errors.Wrap(err, "query host info")
	}
	return format(info), nil
}

func format(info *host.InfoStat) string {
	if info == nil {
		return ""
	}

	platform := strings.TrimSpace(strings.Join([]string{info.Platform, info.PlatformVersion}, " "))
	var parts []string
	if platform != "" {
		parts = append(parts, platform)
	}
	if info.KernelVersion != "" {
		parts = append(parts, "kernel "+info.KernelVersion)
	}
	return strings.Join(parts, ", ")
}
