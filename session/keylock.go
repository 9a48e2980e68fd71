package session

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// KeyLock serializes orchestration turns per session id. Two concurrent
// messages for the same session must not race on the task pointer;
// unrelated sessions proceed independently.
type KeyLock struct {
	stripes [lockStripes]sync.Mutex
}

func NewKeyLock() *KeyLock {
	return &KeyLock{}
}

func (kl *KeyLock) stripe(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &kl.stripes[h.Sum32()%lockStripes]
}

func (kl *KeyLock) Lock(key string) {
	kl.stripe(key).Lock()
}

func (kl *KeyLock) Unlock(key string) {
	kl.stripe(key).Unlock()
}
