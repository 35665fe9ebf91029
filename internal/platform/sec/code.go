// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	codeKeyInfo   = "yamdb/confirmation-code/v1"
	codeDigestLen = 16
)

// CodeSubject is the account state a confirmation code is bound to.
//
// Any change to these values (typically LastLoginAt, stamped when a code is
// redeemed) invalidates every code issued before it.
type CodeSubject struct {
	UserID      int64
	Username    string
	Email       string
	Role        Role
	LastLoginAt *time.Time
}

// CodeGenerator issues and checks stateless confirmation codes.
//
// A code has the form "<issued-at base36>-<hex hmac>".
type CodeGenerator struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodeGenerator derives the signing key from secret and returns a generator
// whose codes expire after ttl.
func NewCodeGenerator(secret string, ttl time.Duration) (*CodeGenerator, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: confirmation secret is empty")
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(codeKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("auth: failed to derive confirmation key: %w", err)
	}

	return &CodeGenerator{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source. Used by tests.
func (generator *CodeGenerator) WithClock(now func() time.Time) *CodeGenerator {
	generator.now = now
	return generator
}

// Generate returns a code for the subject's current state.
func (generator *CodeGenerator) Generate(subject CodeSubject) string {
	issuedAt := generator.now().Unix()
	return generator.make(subject, issuedAt)
}

// Check reports whether code was issued for the subject's current state and
// has not expired.
func (generator *CodeGenerator) Check(subject CodeSubject, code string) bool {
	stamp, _, found := strings.Cut(code, "-")
	if !found {
		return false
	}

	issuedAt, err := strconv.ParseInt(stamp, 36, 64)
	if err != nil {
		return false
	}

	age := generator.now().Sub(time.Unix(issuedAt, 0))
	if age < 0 || age > generator.ttl {
		return false
	}

	expected := generator.make(subject, issuedAt)
	return hmac.Equal([]byte(expected), []byte(code))
}

func (generator *CodeGenerator) make(subject CodeSubject, issuedAt int64) string {
	var lastLogin string
	if subject.LastLoginAt != nil {
		lastLogin = strconv.FormatInt(subject.LastLoginAt.UTC().UnixMicro(), 10)
	}

	mac := hmac.New(sha256.New, generator.key)
	fmt.Fprintf(mac, "%d|%s|%s|%s|%s|%d", subject.UserID, subject.Username, subject.Email, subject.Role, lastLogin, issuedAt)
	digest := mac.Sum(nil)[:codeDigestLen]

	return strconv.FormatInt(issuedAt, 36) + "-" + hex.EncodeToString(digest)
}
