package jwtx

import (
	"errors"
	"slices"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

type keyEntry struct {
	alg string
	key any
}

// KeySet holds every key tokens may be verified against, addressed by kid.
// It is safe for concurrent use.
type KeySet struct {
	mu   sync.RWMutex
	keys map[string]keyEntry
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]keyEntry)}
}

// AddSigner registers the verification key of s under its kid.
func (k *KeySet) AddSigner(s Signer) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return k.Add(s.KID(), s.Alg(), s.VerificationKey())
}

// Add registers key for kid. A kid bound to a different algorithm is
// rejected; re-adding the same kid replaces the key.
func (k *KeySet) Add(kid, alg string, key any) error {
	if kid == "" {
		return errors.New("jwtx: empty kid")
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if prev, ok := k.keys[kid]; ok && prev.alg != alg {
		return ErrAlgMismatch
	}
	k.keys[kid] = keyEntry{alg: alg, key: key}
	return nil
}

// Remove drops kid from the set. Tokens signed with it stop verifying.
func (k *KeySet) Remove(kid string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.keys, kid)
}

// Get returns the algorithm and key registered for kid.
func (k *KeySet) Get(kid string) (string, any, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	e, ok := k.keys[kid]
	if !ok {
		return "", nil, ErrNoKey
	}
	return e.alg, e.key, nil
}

// Algorithms lists the distinct algorithms present in the set, sorted.
func (k *KeySet) Algorithms() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	algs := make([]string, 0, len(k.keys))
	for _, e := range k.keys {
		if !slices.Contains(algs, e.alg) {
			algs = append(algs, e.alg)
		}
	}
	slices.Sort(algs)
	return algs
}

// IsReady returns true if the KeySet has at least one key loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys) > 0
}
