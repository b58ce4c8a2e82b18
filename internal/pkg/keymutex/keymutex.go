// Package keymutex はキー単位の排他制御を提供する。
// 同一フライト・同一予約に対する操作を直列化しつつ、
// 異なるキーへの操作が互いにブロックしないようにするための仕組み。
package keymutex

import "sync"

// KeyedMutex はキーごとに独立したミューテックスを管理する
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New は新しいKeyedMutexを作成する
func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Lock はキーに対応するミューテックスを取得し、解放関数を返す
// 使用中のキーがなくなった時点でエントリは破棄される（キー数は無制限に増えない）
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
