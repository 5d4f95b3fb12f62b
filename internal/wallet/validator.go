/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package wallet validates the external wallet addresses accounts connect.
package wallet

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
)

var ErrUnsupportedFormat = errors.New("unsupported wallet format")

// Validator decides whether an address may be connected to an account
type Validator interface {
	Validate(address string) error
}

// ValidatorFunc adapts a plain function to Validator
type ValidatorFunc func(address string) error

func (f ValidatorFunc) Validate(address string) error {
	return f(address)
}

var evmAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// EVMValidator accepts 0x-prefixed 20-byte hex addresses. Checksum casing is
// not enforced.
type EVMValidator struct{}

func (EVMValidator) Validate(addr string) error {
	if !evmAddressPattern.MatchString(addr) {
		return fmt.Errorf("not an EVM address: %q", addr)
	}
	return nil
}

// NeoValidator accepts base58check NEO N3 addresses
type NeoValidator struct{}

func (NeoValidator) Validate(addr string) error {
	if _, err := address.StringToUint160(addr); err != nil {
		return fmt.Errorf("not a NEO address: %q: %w", addr, err)
	}
	return nil
}

// NonEmpty accepts any address that is not blank
var NonEmpty = ValidatorFunc(func(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("address is empty")
	}
	return nil
})

// AnyOf accepts an address when at least one validator does. With no
// validators every address is rejected.
func AnyOf(validators ...Validator) Validator {
	return ValidatorFunc(func(addr string) error {
		var errs []error
		for _, v := range validators {
			err := v.Validate(addr)
			if err == nil {
				return nil
			}
			errs = append(errs, err)
		}
		if len(errs) == 0 {
			return fmt.Errorf("no wallet formats configured for %q", addr)
		}
		return errors.Join(errs...)
	})
}

// FromFormats builds a validator from format names ("evm", "neo", "any").
// An empty list falls back to NonEmpty.
func FromFormats(formats []string) (Validator, error) {
	var validators []Validator
	for _, format := range formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "":
			continue
		case "evm", "eth", "ethereum":
			validators = append(validators, EVMValidator{})
		case "neo", "n3":
			validators = append(validators, NeoValidator{})
		case "any":
			validators = append(validators, NonEmpty)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
		}
	}

	if len(validators) == 0 {
		return NonEmpty, nil
	}
	if len(validators) == 1 {
		return validators[0], nil
	}
	return AnyOf(validators...), nil
}
