package auth

import (
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/db/controller/membership"
	"github.com/kajilog/kajilog/internal/web/selectedgroup"
)

// Verdict is the outcome of resolving the group context of a request.
type Verdict int

const (
	// VerdictAuthorized means the user is a member of the selected group.
	VerdictAuthorized Verdict = iota
	// VerdictUnauthenticated means there is no valid session.
	VerdictUnauthenticated
	// VerdictNoGroupSelected means the selected-group cookie is absent or unparseable.
	VerdictNoGroupSelected
	// VerdictForbidden means the selected group exists in the cookie but the
	// user is not a member of it (stale or forged cookie value).
	VerdictForbidden
)

// String names the verdict for logs.
func (v Verdict) String() string {
	switch v {
	case VerdictAuthorized:
		return "authorized"
	case VerdictUnauthenticated:
		return "unauthenticated"
	case VerdictNoGroupSelected:
		return "no-group-selected"
	case VerdictForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// GroupContext is the resolved authorization context of a group-scoped request.
type GroupContext struct {
	UserID  uint64
	GroupID uint
	Verdict Verdict
}

// ResolveGroupContext combines the authenticated user id, the raw
// selected-group cookie value and the membership store into a verdict.
//
// It is evaluated on every group-scoped request and never cached across
// requests: the user may have been removed from the group since the last
// one, and the cookie is only a hint.
func ResolveGroupContext(db *gorm.DB, userID uint64, rawCookie string) (GroupContext, error) {
	if userID == 0 {
		return GroupContext{Verdict: VerdictUnauthenticated}, nil
	}

	groupID, ok := selectedgroup.Parse(rawCookie)
	if !ok {
		return GroupContext{UserID: userID, Verdict: VerdictNoGroupSelected}, nil
	}

	isMember, err := membership.IsUserInGroup(db, userID, groupID)
	if err != nil {
		return GroupContext{}, err
	}

	if !isMember {
		return GroupContext{UserID: userID, GroupID: groupID, Verdict: VerdictForbidden}, nil
	}

	return GroupContext{UserID: userID, GroupID: groupID, Verdict: VerdictAuthorized}, nil
}
