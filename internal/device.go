package internal

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

var (
	deviceOnce sync.Once
	deviceID   string
)

// DeviceID returns a stable per-install device identifier sent with
// login requests. Derived from the hostname; a random UUID when the
// hostname is unavailable.
func DeviceID() string {
	deviceOnce.Do(func() {
		host, err := os.Hostname()
		if err != nil || host == "" {
			deviceID = fmt.Sprintf("device-%s", uuid.NewString())
			return
		}
		deviceID = fmt.Sprintf("device-%s", host)
	})
	return deviceID
}
