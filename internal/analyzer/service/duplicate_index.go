package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"

	"golang-sentiment-scryper/internal/analyzer/repository"
	"golang-sentiment-scryper/pkg/logger"
)

// DuplicateIndex is the set of (title, source, model) fingerprints already
// persisted. It is safe for concurrent use.
type DuplicateIndex struct {
	mu      sync.RWMutex
	entries map[string]struct{}
	repo    repository.SentimentResultRepository
	logger  *logger.Logger
}

// NewDuplicateIndex creates an empty index. Call Load to seed it from storage.
func NewDuplicateIndex(repo repository.SentimentResultRepository, log *logger.Logger) *DuplicateIndex {
	return &DuplicateIndex{
		entries: make(map[string]struct{}),
		repo:    repo,
		logger:  log,
	}
}

// Fingerprint returns the md5 hex digest of the lowercased, trimmed fields
// joined with "|".
func Fingerprint(title, source, model string) string {
	key := strings.ToLower(strings.TrimSpace(title)) + "|" +
		strings.ToLower(strings.TrimSpace(source)) + "|" +
		strings.ToLower(strings.TrimSpace(model))
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Load merges every persisted row into the index. On failure the index keeps
// its current contents, which is empty on first load.
func (d *DuplicateIndex) Load(ctx context.Context) error {
	rows, err := d.repo.FindFingerprintFields(ctx)
	if err != nil {
		d.logger.Error("Failed to load existing sentiment results", logger.ErrorField(err))
		return err
	}

	loaded := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		loaded[Fingerprint(row.Title, row.Source, row.Model)] = struct{}{}
	}

	d.mu.Lock()
	for fp := range loaded {
		d.entries[fp] = struct{}{}
	}
	size := len(d.entries)
	d.mu.Unlock()

	d.logger.Info("Loaded duplicate index", logger.IntField("rows", len(rows)), logger.IntField("entries", size))
	return nil
}

// IsDuplicate reports whether the fingerprint is already known.
func (d *DuplicateIndex) IsDuplicate(title, source, model string) bool {
	fp := Fingerprint(title, source, model)
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.entries[fp]
	return ok
}

// Record adds the fingerprint to the index.
func (d *DuplicateIndex) Record(title, source, model string) {
	fp := Fingerprint(title, source, model)
	d.mu.Lock()
	d.entries[fp] = struct{}{}
	d.mu.Unlock()
}

// Claim atomically records the fingerprint and reports whether it was new.
// A caller that claimed a fingerprint and then failed to persist must Release it.
func (d *DuplicateIndex) Claim(title, source, model string) bool {
	fp := Fingerprint(title, source, model)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[fp]; ok {
		return false
	}
	d.entries[fp] = struct{}{}
	return true
}

// Release forgets a fingerprint claimed by Claim.
func (d *DuplicateIndex) Release(title, source, model string) {
	fp := Fingerprint(title, source, model)
	d.mu.Lock()
	delete(d.entries, fp)
	d.mu.Unlock()
}

// Len returns the number of known fingerprints.
func (d *DuplicateIndex) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
