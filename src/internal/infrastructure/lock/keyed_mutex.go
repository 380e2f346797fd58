package lock

import "sync"

// ===========================
// KeyedMutex 依鍵序列化
// ===========================

// KeyedMutex 每個鍵一把互斥鎖（同一使用者的帳本追加在本程序內單一寫入者）
//
// 沒有人持有或等待的鍵會被移除，map 不會隨使用者數無限成長。
// 跨程序的衝突仍由資料庫的 (user_id, sequence) 唯一索引處理。
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex 建構函數
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock 取得 key 的鎖，返回解鎖函數（只能呼叫一次）
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}

// Len 目前追蹤中的鍵數
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
