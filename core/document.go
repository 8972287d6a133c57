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


package core

import (
	"encoding/json"
	"fmt"
)

// Document is the unit of indexable content. It is a sum of two shapes:
// plain text, used verbatim, or a structured record whose indexable text is
// derived through an extraction chain.
type Document struct {
	text   string
	fields map[string]any
}

// PlainText creates a document whose text is used verbatim.
func PlainText(text string) Document {
	return Document{text: text}
}

// Structured creates a document from a structured record. Its indexable text
// is resolved by Text.
func Structured(fields map[string]any) Document {
	return Document{fields: fields}
}

// IsStructured reports whether the document was created from a structured
// record rather than plain text.
func (d Document) IsStructured() bool {
	return d.fields != nil
}

// Text returns the indexable text for the document.
//
// Plain-text documents return their text verbatim. Structured documents use
// the "text" field, falling back to the "content" field, falling back to a
// JSON rendering of the whole record when neither field is present.
func (d Document) Text() string {
	if d.fields == nil {
		return d.text
	}
	if s, ok := d.fields["text"].(string); ok {
		return s
	}
	if s, ok := d.fields["content"].(string); ok {
		return s
	}
	data, err := json.Marshal(d.fields)
	if err != nil {
		// Maps of JSON-decoded values always marshal; anything else is a
		// programming error on the caller's side.
		return fmt.Sprintf("%v", d.fields)
	}
	return string(data)
}

// ExtractTexts flattens documents into their indexable text, preserving order.
func ExtractTexts(docs []Document) []string {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text()
	}
	return texts
}

// DocumentsFromJSON decodes a JSON array of mixed entries into documents.
// String entries become plain-text documents, object entries become
// structured documents, and any other entry is kept as the plain text of its
// JSON rendering.
func DocumentsFromJSON(data []byte) ([]Document, error) {
	var entries []any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		switch v := entry.(type) {
		case string:
			docs = append(docs, PlainText(v))
		case map[string]any:
			docs = append(docs, Structured(v))
		default:
			rendered, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("render document entry: %w", err)
			}
			docs = append(docs, PlainText(string(rendered)))
		}
	}
	return docs, nil
}
