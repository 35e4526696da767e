package utils

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// StationID identifies the scanning device in logs so door staff at several
// entrances can be told apart. It prefers a hardware UUID and falls back to
// the hostname.
func StationID() string {
	ids, err := deviceFingerprints()
	if err == nil && len(ids) > 0 {
		return ids[0]
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}

func deviceFingerprints() ([]string, error) {
	switch runtime.GOOS {
	case "darwin":
		return getMacOSUUID()
	case "linux":
		return getLinuxUUID()
	case "windows":
		return getWindowsUUID()
	case "android", "ios":
		// Not readable from Go; the host app passes its own identifier.
		return nil, errors.New(runtime.GOOS + ": station id must come from the app")
	default:
		return nil, errors.New("unsupported platform: " + runtime.GOOS)
	}
}

func getMacOSUUID() ([]string, error) {
	out, err := exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "IOPlatformUUID") {
			parts := strings.Split(line, "\"")
			if len(parts) >= 4 {
				ids = append(ids, parts[3])
			}
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("no IOPlatformUUID found")
	}
	return ids, nil
}

func getLinuxUUID() ([]string, error) {
	for _, path := range []string{"/etc/machine-id", "/sys/class/dmi/id/product_uuid"} {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(b)); id != "" {
			return []string{id}, nil
		}
	}
	return nil, errors.New("no machine id found on Linux")
}

func getWindowsUUID() ([]string, error) {
	out, err := exec.Command("wmic", "csproduct", "get", "UUID").Output()
	if err != nil {
		return nil, err
	}
	for _, line := range bytes.Split(out, []byte("\n")) {
		str := strings.TrimSpace(string(line))
		if str != "" && !strings.EqualFold(str, "UUID") {
			return []string{str}, nil
		}
	}
	return nil, errors.New("no hardware UUID found on Windows")
}
