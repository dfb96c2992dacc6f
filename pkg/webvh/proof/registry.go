package proof

import (
	"context"
	"sync"
)

// Cryptosuite describes a pluggable (suite-name, key-prefix, verifier)
// triple, per §9: "other cryptosuites can be added by registering a
// (suite-name, key-prefix, verifier) triple." The core itself only ever
// requires eddsa-jcs-2022 (registered by default); a host can register more
// without this module importing their packages.
type Cryptosuite struct {
	Name      string
	KeyPrefix []byte
	Verify    func(signature, message, publicKey []byte) (bool, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Cryptosuite{}
)

func init() {
	RegisterCryptosuite(Cryptosuite{
		Name:      "eddsa-jcs-2022",
		KeyPrefix: append([]byte{}, ed25519PublicPrefix...),
		Verify: func(signature, message, publicKey []byte) (bool, error) {
			v := NewSoftwareEd25519Verifier()
			return v.Verify(context.Background(), signature, message, publicKey)
		},
	})
}

// RegisterCryptosuite adds or replaces a cryptosuite by name.
func RegisterCryptosuite(suite Cryptosuite) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[suite.Name] = suite
}

// LookupCryptosuite returns the registered suite by name, if any.
func LookupCryptosuite(name string) (Cryptosuite, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	suite, ok := registry[name]
	return suite, ok
}
