// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access makes the authorization decisions of the API.

Every decision is an explicit call taking the caller (nil when anonymous), the
verb, and when relevant the owner of the target object. A nil error means the
call may proceed; otherwise the returned [*apperr.AppError] is 401 for anonymous
callers and 403 for authenticated ones.

Two policies cover the whole API:

  - [AdminOrReadOnly]: catalog resources (categories, genres, titles).
  - [ResponsibleOrReadOnly]: reviews and comments, which belong to their author.
*/
package access

import (
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// Verb is the kind of operation being authorized.
type Verb int

const (
	VerbRead Verb = iota
	VerbCreate
	VerbUpdate
	VerbDelete
)

// Safe reports whether the verb leaves state unchanged.
func (v Verb) Safe() bool { return v == VerbRead }

// VerbOf classifies an HTTP method.
func VerbOf(method string) Verb {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return VerbRead
	case http.MethodPost:
		return VerbCreate
	case http.MethodDelete:
		return VerbDelete
	default:
		return VerbUpdate
	}
}

var (
	errAuthRequired = apperr.Unauthorized("Authentication required")
	errAdminOnly    = apperr.Forbidden("Admin role required")
	errNotOwner     = apperr.Forbidden("Only the author, a moderator or an admin may change this resource")
)

// Authenticated rejects anonymous callers.
func Authenticated(identity *sec.Identity) error {
	if identity == nil {
		return errAuthRequired
	}
	return nil
}

// Admin requires the admin role regardless of the verb.
func Admin(identity *sec.Identity) error {
	if identity == nil {
		return errAuthRequired
	}
	if !identity.IsAdmin() {
		return errAdminOnly
	}
	return nil
}

// AdminOrReadOnly lets anyone read and only admins write.
func AdminOrReadOnly(identity *sec.Identity, verb Verb) error {
	if verb.Safe() {
		return nil
	}
	return Admin(identity)
}

// ResponsibleOrReadOnly lets anyone read and any authenticated caller create.
// Updating or deleting requires the caller to be the owner, a moderator or an admin.
func ResponsibleOrReadOnly(identity *sec.Identity, verb Verb, ownerID int64) error {
	if verb.Safe() {
		return nil
	}
	if identity == nil {
		return errAuthRequired
	}
	if verb == VerbCreate || identity.IsStaff() || identity.UserID == ownerID {
		return nil
	}
	return errNotOwner
}
