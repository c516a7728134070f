// Copyright (c) 2026 Critica. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package perm is the pure permission evaluator for the Critica API.

It answers exactly one question: may this actor perform this action on this
resource? The answer is a plain value, never an error. The evaluator touches
no storage and carries no state: the caller supplies the actor's identity and
the resource's author reference, and the decision follows from the rule table
alone.

Rule Precedence:

 1. Reads on catalog resources (category, genre, title) are open to everyone,
    anonymous actors included.
 2. Catalog mutations require an admin.
 3. Reads on contributions (review, comment) are open to everyone.
 4. Creating a contribution requires authentication, any role.
 5. Mutating a contribution requires authorship, or moderator rank or above.
 6. Account administration requires an admin; self-service access to one's own
    record is always allowed.

Denials carry a machine-readable reason for logging. Clients receive a
generic forbidden message; the reason is for operators.
*/
package perm

import "github.com/taibuivan/critica/internal/platform/sec"

// Action identifies what the actor wants to do.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ResourceKind buckets resources by their permission profile.
type ResourceKind string

const (
	// KindCatalog covers categories, genres and titles. Admin-curated,
	// publicly readable, not owned by any user.
	KindCatalog ResourceKind = "catalog"

	// KindContribution covers reviews and comments. User-authored content
	// with ownership-based mutation rights.
	KindContribution ResourceKind = "contribution"

	// KindAccount covers user records and the user listing.
	KindAccount ResourceKind = "account"
)

// Reason explains a denial. Empty on an allowed decision.
type Reason string

const (
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonInsufficientRole Reason = "insufficient-role"
	ReasonNotAuthor        Reason = "not-author"
)

// Actor is the identity a decision is made for. A zero Actor is anonymous.
type Actor struct {
	Authenticated bool
	UserID        string
	Role          sec.UserRole
	IsSuperuser   bool
}

// IsAdmin reports whether the actor holds admin privileges. The superuser
// flag is admin-equivalent regardless of the stored role.
func (actor Actor) IsAdmin() bool {
	return actor.Authenticated && (actor.IsSuperuser || actor.Role == sec.RoleAdmin)
}

// IsModerator reports whether the actor holds moderator rank or above.
func (actor Actor) IsModerator() bool {
	return actor.Authenticated && (actor.IsSuperuser || actor.Role.AtLeast(sec.RoleModerator))
}

// ActorFromClaims builds an Actor from verified token claims. A nil claims
// value yields the anonymous actor.
func ActorFromClaims(claims *sec.AuthClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{
		Authenticated: true,
		UserID:        claims.UserID,
		Role:          sec.UserRole(claims.Role),
		IsSuperuser:   claims.IsSuperuser,
	}
}

// Resource is the target of a decision.
//
// AuthorID is the owning user's ID for contributions, or the record owner's
// ID for accounts. It is empty for catalog resources and for collection-level
// account operations (user listing, administrative creation).
type Resource struct {
	Kind     ResourceKind
	AuthorID string
}

// Decision is the evaluator's verdict.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Decide evaluates the rule table for (actor, action, resource).
//
// Decide never fails: absence of permission is a normal return value. Rules
// are checked in precedence order; the first matching rule wins.
func Decide(actor Actor, action Action, resource Resource) Decision {
	switch resource.Kind {

	case KindCatalog:
		// Rule 1: catalog reads are public.
		if action == ActionRead {
			return allow()
		}
		// Rule 2: catalog mutations are admin-only.
		if actor.IsAdmin() {
			return allow()
		}
		if !actor.Authenticated {
			return deny(ReasonUnauthenticated)
		}
		return deny(ReasonInsufficientRole)

	case KindContribution:
		// Rule 3: contribution reads are public.
		if action == ActionRead {
			return allow()
		}
		if !actor.Authenticated {
			return deny(ReasonUnauthenticated)
		}
		// Rule 4: any authenticated actor may create.
		if action == ActionCreate {
			return allow()
		}
		// Rule 5: author, moderator or admin may mutate.
		if resource.AuthorID != "" && resource.AuthorID == actor.UserID {
			return allow()
		}
		if actor.IsModerator() {
			return allow()
		}
		return deny(ReasonNotAuthor)

	case KindAccount:
		if !actor.Authenticated {
			return deny(ReasonUnauthenticated)
		}
		// Rule 6: self-service access to one's own record.
		if resource.AuthorID != "" && resource.AuthorID == actor.UserID {
			return allow()
		}
		if actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonInsufficientRole)
	}

	// Unknown resource kinds are denied rather than guessed at.
	return deny(ReasonInsufficientRole)
}
