/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package atomic

// Map is a concurrent-safe key/value store over a generic comparable key and
// an any value, backed by sync.Map.
type Map[K comparable] interface {
	// Load returns the value stored for key, or ok=false if absent.
	Load(key K) (value any, ok bool)
	// Store sets the value for key, overwriting any existing value.
	Store(key K, value any)
	// LoadOrStore returns the existing value for key if present; otherwise it
	// stores and returns the given value.
	LoadOrStore(key K, value any) (actual any, loaded bool)
	// LoadAndDelete removes the value for key, returning it if it was present.
	LoadAndDelete(key K) (value any, loaded bool)
	// Delete removes the value for key.
	Delete(key K)
	// Swap stores value for key and returns the previous value, if any.
	Swap(key K, value any) (previous any, loaded bool)
	// CompareAndSwap swaps old for new at key only if the current value equals old.
	CompareAndSwap(key K, old, new any) bool
	// CompareAndDelete deletes the entry at key only if the current value equals old.
	CompareAndDelete(key K, old any) (deleted bool)
	// Range calls f for every key/value pair until f returns false.
	Range(f func(key K, value any) bool)
}

// NewMapAny returns a new Map with the given key type, backed by sync.Map.
func NewMapAny[K comparable]() Map[K] {
	return &ma[K]{}
}
