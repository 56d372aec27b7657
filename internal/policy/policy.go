package policy

import (
	"github.com/google/uuid"

	"jigswap.app/jigswap/internal/entity"
)

// Action names a thing a user can try to do to a resource.
type Action string

const (
	ActionUpdatePuzzle     Action = "puzzle.update"
	ActionDeletePuzzle     Action = "puzzle.delete"
	ActionRespondTrade     Action = "trade.respond"
	ActionCompleteTrade    Action = "trade.complete"
	ActionCancelTrade      Action = "trade.cancel"
	ActionViewTrade        Action = "trade.view"
	ActionMessageTrade     Action = "trade.message"
	ActionReviewTrade      Action = "trade.review"
	ActionManageCategories Action = "categories.manage"
)

// Decision is an explicit allow/deny with the reason for the denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Subject is the minimal identity the policy needs about the caller.
type Subject struct {
	UserID uuid.UUID
	Role   string
}

// AllowPuzzle decides whether subject may perform action on the puzzle.
// Owners manage their own puzzles; admins may delete any listing.
func AllowPuzzle(s Subject, action Action, puzzle *entity.Puzzle) Decision {
	if puzzle.OwnerID == s.UserID {
		return allow()
	}
	if action == ActionDeletePuzzle && s.Role == entity.RoleAdmin {
		return allow()
	}
	return deny("puzzle belongs to another user")
}

// AllowTrade decides whether subject may perform action on the trade request.
func AllowTrade(s Subject, action Action, trade *entity.TradeRequest) Decision {
	isOwner := trade.OwnerID == s.UserID
	isRequester := trade.RequesterID == s.UserID

	if !isOwner && !isRequester {
		return deny("not a participant of this trade request")
	}

	switch action {
	case ActionRespondTrade:
		if !isOwner {
			return deny("only the puzzle owner can accept or decline a trade request")
		}
	case ActionCompleteTrade, ActionCancelTrade, ActionViewTrade, ActionMessageTrade, ActionReviewTrade:
		// either participant
	default:
		return deny("unknown trade action")
	}

	return allow()
}

// AllowAdmin decides admin-only actions such as taxonomy management.
func AllowAdmin(s Subject, action Action) Decision {
	if s.Role != entity.RoleAdmin {
		return deny("admin access required")
	}
	return allow()
}
