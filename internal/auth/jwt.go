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

// Package auth resolves request credentials to ledger principals.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
)

// Principal is the authenticated caller. Non-admin principals may only act
// on their own account.
type Principal struct {
	AccountId string
	Admin     bool
}

// PrincipalResolver maps an opaque credential to a Principal
type PrincipalResolver interface {
	Resolve(ctx context.Context, credential string) (Principal, error)
}

// Claims carried by ledger access tokens. The account id is the JWT subject.
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver verifies HS256-signed tokens
type JWTResolver struct {
	secret []byte
	issuer string
}

func NewJWTResolver(secret, issuer string) (*JWTResolver, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTResolver{secret: []byte(secret), issuer: issuer}, nil
}

func (r *JWTResolver) Resolve(ctx context.Context, credential string) (Principal, error) {
	if credential == "" {
		return Principal{}, ErrMissingCredential
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, opts...)
	if err != nil {
		zap.L().Debug("Token validation failed", zap.Error(err))
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !token.Valid {
		return Principal{}, ErrInvalidCredential
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: token has no subject", ErrInvalidCredential)
	}

	return Principal{AccountId: claims.Subject, Admin: claims.Admin}, nil
}

// Issue signs a token for accountId valid for ttl
func (r *JWTResolver) Issue(accountId string, admin bool, ttl time.Duration, now time.Time) (string, error) {
	if accountId == "" {
		return "", errors.New("account id is required")
	}
	if ttl <= 0 {
		return "", errors.New("token ttl must be positive")
	}

	claims := Claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountId,
			Issuer:    r.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
