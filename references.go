// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cssg

import "sort"

// maxLinkLabelLength is the byte cap on [link labels].
//
// [link labels]: https://spec.commonmark.org/0.30/#link-label
const maxLinkLabelLength = 1000

// A reference is a single link reference definition.
// Its url and title are already cleaned for rendering.
type reference struct {
	label string
	url   []byte
	title []byte
	age   int
	size  int
}

// A referenceMap is a set of link reference definitions keyed by
// [normalized label].
// Creation order is remembered so that duplicate definitions
// resolve to the first in source order.
//
// [normalized label]: https://spec.commonmark.org/0.30/#matches
type referenceMap struct {
	refs   []*reference
	sorted []*reference

	// refSize and maxRefSize guard against exponential output growth
	// from repeated reference expansion.
	refSize    int
	maxRefSize int
}

// normalizeLabel case-folds the label, trims its ends,
// and collapses interior whitespace runs.
// It returns the empty string for labels
// that are empty or all whitespace.
func normalizeLabel(label []byte) string {
	if len(label) == 0 {
		return ""
	}
	folded := caseFold(label)
	return string(normalizeWhitespace(nil, trimBytes(folded)))
}

// create records a definition for label.
// Duplicate labels are kept:
// lookup resolves them first-in-source-order at stabilization time.
// create must not be called after the first lookup.
func (m *referenceMap) create(label, url, title []byte) {
	normalized := normalizeLabel(label)
	if normalized == "" {
		return
	}
	if m.sorted != nil {
		panic("reference created after map was stabilized")
	}
	ref := &reference{
		label: normalized,
		url:   cleanURL(url),
		title: cleanTitle(title),
		age:   len(m.refs),
	}
	ref.size = len(ref.url) + len(ref.title)
	m.refs = append(m.refs, ref)
}

// stabilize sorts the entries by (label, age)
// and compacts adjacent duplicates,
// keeping only the oldest entry per label.
func (m *referenceMap) stabilize() {
	sorted := make([]*reference, len(m.refs))
	copy(sorted, m.refs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].label != sorted[j].label {
			return sorted[i].label < sorted[j].label
		}
		return sorted[i].age < sorted[j].age
	})
	last := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].label != sorted[last].label {
			last++
			sorted[last] = sorted[i]
		}
	}
	m.sorted = sorted[:last+1]
}

// lookup returns the definition for label or nil.
// The first lookup stabilizes the map;
// subsequent lookups are binary searches.
// If a maximum expansion size is set and the definition would
// push the total expansion past it, lookup reports no match.
func (m *referenceMap) lookup(label []byte) *reference {
	if len(label) < 1 || len(label) > maxLinkLabelLength {
		return nil
	}
	if m == nil || len(m.refs) == 0 {
		return nil
	}
	normalized := normalizeLabel(label)
	if normalized == "" {
		return nil
	}
	if m.sorted == nil {
		m.stabilize()
	}
	i := sort.Search(len(m.sorted), func(i int) bool {
		return m.sorted[i].label >= normalized
	})
	if i >= len(m.sorted) || m.sorted[i].label != normalized {
		return nil
	}
	ref := m.sorted[i]
	if m.maxRefSize > 0 && ref.size > m.maxRefSize-m.refSize {
		return nil
	}
	m.refSize += ref.size
	return ref
}
