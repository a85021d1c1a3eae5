package storefake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store that keeps the encoded record,
// so tests exercise the same encoding as the durable stores.
type FakeStore struct {
	data    []byte
	saves   int
	saveErr error
	lock    sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// NewFakeStoreWith returns a store already holding creds.
func NewFakeStoreWith(creds credentials.Credentials) *FakeStore {
	s := NewFakeStore()
	s.data, _ = credentials.Encode(creds)
	return s
}

func (s *FakeStore) Load(_ context.Context) (credentials.Credentials, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.data == nil {
		return credentials.Credentials{}, credentials.ErrNotFound
	}
	return credentials.Decode(s.data)
}

func (s *FakeStore) Save(_ context.Context, creds credentials.Credentials) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := credentials.Encode(creds)
	if err != nil {
		return err
	}
	s.data = data
	s.saves++
	return nil
}

// SetRaw replaces the stored record with arbitrary bytes.
func (s *FakeStore) SetRaw(data []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data = data
}

func (s *FakeStore) Raw() []byte {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.data
}

// FailSaves makes every subsequent Save return err. A nil err restores normal behaviour.
func (s *FakeStore) FailSaves(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.saveErr = err
}

func (s *FakeStore) Saves() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.saves
}
