// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks that a result has the shape the rest of the system relies
// on. Every violation is reported as ErrMalformedResponse.
func (r *Result) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: empty result", ErrMalformedResponse)
	}
	if err := validatorInstance().Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	seen := make(map[int]struct{}, len(r.Risks))
	for _, risk := range r.Risks {
		if _, dup := seen[risk.ID]; dup {
			return fmt.Errorf("%w: duplicate risk id %d", ErrMalformedResponse, risk.ID)
		}
		seen[risk.ID] = struct{}{}
	}
	return nil
}

// Decode reads a JSON analysis payload and validates it.
func Decode(body io.Reader) (*Result, error) {
	var result Result
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}
