// Package cache stores synthesized audio on disk so repeated lines are
// not synthesized twice.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"

	"github.com/dgnsrekt/sayline/tts"
)

const fileExt = ".zst"

// DiskCache is a zstd-compressed, LRU-evicted audio cache. Entries are one
// file per key; the index is rebuilt by scanning the directory at open.
type DiskCache struct {
	basePath string
	capacity int64 // Maximum size in bytes
	size     int64 // Current size in bytes

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*entry

	mu sync.Mutex

	stats Stats
}

// entry describes one cached file.
type entry struct {
	key        string
	path       string
	size       int64
	lastAccess time.Time
}

// Stats tracks cache effectiveness.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// cachedAudio is the on-disk representation of a cache entry.
type cachedAudio struct {
	SampleRate int
	Channels   int
	Data       []byte
}

// Key derives the cache key for one item: the same text spoken by the same
// engine, voice, and rate maps to the same audio.
func Key(engine, voice string, rate int, text string) string {
	h := sha256.New()
	h.Write([]byte(engine))
	h.Write([]byte{0})
	h.Write([]byte(voice))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(rate)))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// New opens (or creates) a disk cache at basePath capped at capacity bytes.
func New(basePath string, capacity int64) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*entry),
	}

	if err := dc.rebuildIndex(); err != nil {
		return nil, err
	}

	log.Debug("audio cache opened",
		"path", basePath,
		"entries", len(dc.index),
		"size", humanize.Bytes(uint64(dc.size)),
		"capacity", humanize.Bytes(uint64(capacity)))
	return dc, nil
}

// Get returns the cached audio for key, if present.
func (dc *DiskCache) Get(key string) (*tts.Audio, bool) {
	dc.mu.Lock()
	ent, ok := dc.index[key]
	if !ok {
		dc.stats.Misses++
		dc.mu.Unlock()
		return nil, false
	}
	ent.lastAccess = time.Now()
	path := ent.path
	dc.mu.Unlock()

	compressed, err := os.ReadFile(path)
	if err != nil {
		// Entry vanished underneath us; drop it from the index.
		dc.remove(key)
		return nil, false
	}

	raw, err := dc.decoder.DecodeAll(compressed, nil)
	if err != nil {
		log.Warn("discarding corrupt cache entry", "key", key[:8], "error", err)
		dc.remove(key)
		return nil, false
	}

	var ca cachedAudio
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&ca); err != nil {
		log.Warn("discarding unreadable cache entry", "key", key[:8], "error", err)
		dc.remove(key)
		return nil, false
	}

	dc.mu.Lock()
	dc.stats.Hits++
	dc.mu.Unlock()

	return &tts.Audio{
		Data:       ca.Data,
		SampleRate: ca.SampleRate,
		Channels:   ca.Channels,
		Duration:   tts.PCMDuration(len(ca.Data), ca.SampleRate, ca.Channels),
	}, true
}

// Put stores audio under key, evicting old entries if needed.
func (dc *DiskCache) Put(key string, a *tts.Audio) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cachedAudio{
		SampleRate: a.SampleRate,
		Channels:   a.Channels,
		Data:       a.Data,
	}); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	compressed := dc.encoder.EncodeAll(buf.Bytes(), nil)
	path := filepath.Join(dc.basePath, key+fileExt)

	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	dc.mu.Lock()
	if old, ok := dc.index[key]; ok {
		dc.size -= old.size
	}
	dc.index[key] = &entry{
		key:        key,
		path:       path,
		size:       int64(len(compressed)),
		lastAccess: time.Now(),
	}
	dc.size += int64(len(compressed))
	dc.evictLocked()
	dc.mu.Unlock()
	return nil
}

// Close releases the compressor state.
func (dc *DiskCache) Close() error {
	dc.encoder.Close()
	dc.decoder.Close()
	return nil
}

// GetStats returns a snapshot of the cache statistics.
func (dc *DiskCache) GetStats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.stats
}

// Size returns the current on-disk size in bytes.
func (dc *DiskCache) Size() int64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.size
}

// rebuildIndex scans the cache directory. Modification time stands in for
// last access across runs.
func (dc *DiskCache) rebuildIndex() error {
	entries, err := os.ReadDir(dc.basePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != fileExt {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		key := de.Name()[:len(de.Name())-len(fileExt)]
		dc.index[key] = &entry{
			key:        key,
			path:       filepath.Join(dc.basePath, de.Name()),
			size:       info.Size(),
			lastAccess: info.ModTime(),
		}
		dc.size += info.Size()
	}

	dc.evictLocked()
	return nil
}

// evictLocked drops least-recently-used entries until under capacity.
// Caller holds dc.mu.
func (dc *DiskCache) evictLocked() {
	if dc.size <= dc.capacity {
		return
	}

	byAge := make([]*entry, 0, len(dc.index))
	for _, ent := range dc.index {
		byAge = append(byAge, ent)
	}
	sort.Slice(byAge, func(i, j int) bool {
		return byAge[i].lastAccess.Before(byAge[j].lastAccess)
	})

	for _, ent := range byAge {
		if dc.size <= dc.capacity {
			break
		}
		if err := os.Remove(ent.path); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to evict cache entry", "key", ent.key[:8], "error", err)
			continue
		}
		dc.size -= ent.size
		delete(dc.index, ent.key)
		dc.stats.Evictions++
		log.Debug("evicted cache entry", "key", ent.key[:8], "freed", humanize.Bytes(uint64(ent.size)))
	}
}

// remove drops one entry from disk and the index.
func (dc *DiskCache) remove(key string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	ent, ok := dc.index[key]
	if !ok {
		return
	}
	_ = os.Remove(ent.path)
	dc.size -= ent.size
	delete(dc.index, key)
}
