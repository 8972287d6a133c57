// Copyright 2025 Vaal AI Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vaalai/sentinel/index"
)

const (
	// IndexSuffix is appended to the base path for the serialized index.
	IndexSuffix = ".hnsw"

	// TextsSuffix is appended to the base path for the document texts.
	TextsSuffix = ".texts.json"
)

// LoadOption configures validation performed when loading an index.
type LoadOption func(*loadOptions)

type loadOptions struct {
	expectDimension int
	expectMetric    *index.Metric
}

// WithExpectedDimension rejects a load whose stored index does not have
// the given dimension. Use it when the engine's embedding model is known
// so stale snapshots from a different model fail fast.
func WithExpectedDimension(dim int) LoadOption {
	return func(o *loadOptions) { o.expectDimension = dim }
}

// WithExpectedMetric rejects a load whose stored index was built with a
// different distance metric.
func WithExpectedMetric(metric index.Metric) LoadOption {
	return func(o *loadOptions) { o.expectMetric = &metric }
}

// SaveIndex persists the named knowledge base as a file pair:
// "{path}.hnsw" holding the serialized index and "{path}.texts.json"
// holding the document texts. Both files are written atomically, so a
// crash mid-save never leaves a truncated file behind — though it can
// leave the pair from different generations.
func (e *Engine) SaveIndex(name, path string) error {
	kb, err := e.snapshot(name)
	if err != nil {
		return err
	}

	blob, err := kb.index.Serialize()
	if err != nil {
		return fmt.Errorf("serialize index %q: %w", name, err)
	}
	if err := writeAtomic(path+IndexSuffix, blob); err != nil {
		return fmt.Errorf("write index file: %w", err)
	}

	texts, err := json.Marshal(kb.texts)
	if err != nil {
		return fmt.Errorf("marshal texts for %q: %w", name, err)
	}
	if err := writeAtomic(path+TextsSuffix, texts); err != nil {
		return fmt.Errorf("write texts file: %w", err)
	}

	e.logger.Info("knowledge base saved", "name", name, "path", path, "documents", len(kb.texts))
	return nil
}

// LoadIndex restores a knowledge base from the file pair written by
// SaveIndex and registers it under name, replacing any existing knowledge
// base with that name. The stored index is self-describing; its checksum,
// dimension, and metric are verified against the data rather than trusted
// from the caller.
func (e *Engine) LoadIndex(name, path string, opts ...LoadOption) error {
	options := loadOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	blob, err := os.ReadFile(path + IndexSuffix)
	if err != nil {
		return fmt.Errorf("read index file: %w", err)
	}
	idx, err := index.Deserialize(blob)
	if err != nil {
		return fmt.Errorf("deserialize index %q: %w", name, err)
	}

	textsData, err := os.ReadFile(path + TextsSuffix)
	if err != nil {
		return fmt.Errorf("read texts file: %w", err)
	}
	var texts []string
	if err := json.Unmarshal(textsData, &texts); err != nil {
		return fmt.Errorf("unmarshal texts for %q: %w", name, err)
	}

	if len(texts) != idx.Size() {
		return fmt.Errorf("index/texts mismatch for %q: %d vectors, %d texts", name, idx.Size(), len(texts))
	}
	if options.expectDimension > 0 && idx.Dimension() != options.expectDimension {
		return fmt.Errorf("index %q has dimension %d, expected %d", name, idx.Dimension(), options.expectDimension)
	}
	if options.expectMetric != nil && idx.Metric() != *options.expectMetric {
		return fmt.Errorf("index %q uses metric %s, expected %s", name, idx.Metric(), *options.expectMetric)
	}

	e.register(name, &knowledgeBase{index: idx, texts: texts})

	e.logger.Info("knowledge base loaded", "name", name, "path", path, "documents", len(texts))
	return nil
}

// writeAtomic writes data to path via a temp file and rename, so readers
// never observe a partial write.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
