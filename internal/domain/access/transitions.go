package access

import (
	"fmt"

	"github.com/jhoicas/farm-directory-api/internal/domain"
	"github.com/jhoicas/farm-directory-api/internal/domain/entity"
)

var userTransitions = map[entity.UserStatus][]entity.UserStatus{
	entity.UserPendingApproval: {entity.UserApproved, entity.UserRejected},
	entity.UserApproved:        {entity.UserSuspended},
	entity.UserSuspended:       {entity.UserApproved},
	entity.UserRejected:        {entity.UserApproved},
}

var farmTransitions = map[entity.FarmStatus][]entity.FarmStatus{
	entity.FarmPendingApproval: {entity.FarmApproved, entity.FarmSuspended},
	entity.FarmApproved:        {entity.FarmSuspended, entity.FarmDeleted},
	entity.FarmSuspended:       {entity.FarmApproved, entity.FarmDeleted},
}

// AllowedUserTransitions lists the statuses an admin may move an account to from "from".
func AllowedUserTransitions(from entity.UserStatus) []entity.UserStatus {
	return append([]entity.UserStatus(nil), userTransitions[from]...)
}

// AllowedFarmTransitions lists the statuses an admin may move a listing to from "from".
func AllowedFarmTransitions(from entity.FarmStatus) []entity.FarmStatus {
	return append([]entity.FarmStatus(nil), farmTransitions[from]...)
}

// CanTransitionUser reports whether from -> to is in the account table.
func CanTransitionUser(from, to entity.UserStatus) bool {
	for _, s := range userTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionFarm reports whether from -> to is in the listing table.
func CanTransitionFarm(from, to entity.FarmStatus) bool {
	for _, s := range farmTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateUserTransition returns domain.ErrInvalidInput for an unknown target
// and domain.ErrInvalidTransition for a move outside the table.
func ValidateUserTransition(from, to entity.UserStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown account status %q", domain.ErrInvalidInput, to)
	}
	if !CanTransitionUser(from, to) {
		return fmt.Errorf("%w: account %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateFarmTransition is ValidateUserTransition for listings.
func ValidateFarmTransition(from, to entity.FarmStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown farm status %q", domain.ErrInvalidInput, to)
	}
	if !CanTransitionFarm(from, to) {
		return fmt.Errorf("%w: farm %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}
