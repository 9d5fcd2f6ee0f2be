package cryptox

import "sync"

var (
	pepperMu sync.RWMutex
	pepper   string
)

// SetPepper installs the process-wide secret appended to every password
// before hashing. Changing it invalidates all stored hashes.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

// GetPepper returns the configured pepper. An empty pepper is valid and
// simply disables peppering.
func GetPepper() string {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper
}
