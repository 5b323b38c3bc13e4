// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"strings"
	"sync"
)

// Secret holds a credential such as an API key. Clear zeroes the held bytes.
//
// Go may copy memory at any time and every Reveal returns an immutable string
// copy, so Clear shortens the exposure window without guaranteeing erasure.
type Secret struct {
	mu   sync.RWMutex
	data []byte
}

// NewSecret copies s into a mutable buffer.
func NewSecret(s string) *Secret {
	data := make([]byte, len(s))
	copy(data, s)
	return &Secret{data: data}
}

// Reveal returns the plain value. Use only where the value is sent.
func (s *Secret) Reveal() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.data)
}

// IsSet reports whether the secret holds a non-empty value.
func (s *Secret) IsSet() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data) > 0
}

// Clear overwrites the value with zeros and drops it. It is idempotent.
func (s *Secret) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
}

// String masks the value so a Secret is safe to log or print.
func (s *Secret) String() string {
	return Mask(s.Reveal())
}

// Mask keeps the last four characters of values longer than eight.
func Mask(value string) string {
	switch {
	case value == "":
		return ""
	case len(value) <= 8:
		return strings.Repeat("*", len(value))
	default:
		return strings.Repeat("*", 4) + value[len(value)-4:]
	}
}
