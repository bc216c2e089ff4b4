package credential

import (
	"github.com/cockroachdb/errors"
	"github.com/zalando/go-keyring"
)

// KeyringStore keeps the API key in the system keyring.
type KeyringStore struct {
	service string
	user    string
}

// NewKeyringStore creates a keyring-backed store under the given service and
// user names.
func NewKeyringStore(service, user string) *KeyringStore {
	return &KeyringStore{service: service, user: user}
}

func (s *KeyringStore) Load() (string, error) {
	key, err := keyring.Get(s.service, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", errors.Wrap(err, "failed to read key from keyring")
	}
	return key, nil
}

func (s *KeyringStore) Save(key string) error {
	if err := keyring.Set(s.service, s.user, key); err != nil {
		return errors.Wrap(err, "failed to write key to keyring")
	}
	return nil
}

func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(s.service, s.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return errors.Wrap(err, "failed to remove key from keyring")
	}
	return nil
}
