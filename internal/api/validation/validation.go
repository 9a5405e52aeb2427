// Package validation checks request payload shape before any business logic
// runs. Business rules (purse, sale state, bid ordering) live in the ledger.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

var shortCodeRegex = regexp.MustCompile(`^[A-Z0-9]{2,5}$`)

// FieldError reports a validation failure on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CreateAuctionRequest mirrors the fields checked for auction event creation.
type CreateAuctionRequest struct {
	Name string
}

// ValidateCreateAuctionRequest validates an auction event creation payload.
func ValidateCreateAuctionRequest(req CreateAuctionRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	return errs
}

// CreateTeamRequest mirrors the fields checked for team creation.
type CreateTeamRequest struct {
	Name       string
	ShortCode  string
	TotalPurse int64
}

// ValidateCreateTeamRequest validates a team creation payload.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	if req.ShortCode == "" {
		errs = append(errs, FieldError{Field: "short_code", Message: "short_code is required"})
	} else if !shortCodeRegex.MatchString(req.ShortCode) {
		errs = append(errs, FieldError{Field: "short_code", Message: "short_code must be 2-5 uppercase letters or digits"})
	}

	if req.TotalPurse <= 0 {
		errs = append(errs, FieldError{Field: "total_purse", Message: "total_purse must be positive"})
	}

	return errs
}

// UpdateTeamRequest mirrors the fields checked for a team edit. Nil fields
// are not being changed.
type UpdateTeamRequest struct {
	Name       *string
	ShortCode  *string
	TotalPurse *int64
}

// ValidateUpdateTeamRequest validates a team edit payload.
func ValidateUpdateTeamRequest(req UpdateTeamRequest) []FieldError {
	var errs []FieldError

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			errs = append(errs, FieldError{Field: "name", Message: "name must not be empty"})
		} else if len(name) > 255 {
			errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
		}
	}
	if req.ShortCode != nil && !shortCodeRegex.MatchString(*req.ShortCode) {
		errs = append(errs, FieldError{Field: "short_code", Message: "short_code must be 2-5 uppercase letters or digits"})
	}
	if req.TotalPurse != nil && *req.TotalPurse <= 0 {
		errs = append(errs, FieldError{Field: "total_purse", Message: "total_purse must be positive"})
	}

	return errs
}

// CreatePlayerRequest mirrors the fields checked for player creation.
type CreatePlayerRequest struct {
	Name      string
	Role      string
	Country   string
	BasePrice int64
}

// ValidateCreatePlayerRequest validates a player creation payload.
func ValidateCreatePlayerRequest(req CreatePlayerRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	if req.Role == "" {
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	} else if !store.Role(req.Role).Valid() {
		errs = append(errs, FieldError{Field: "role", Message: fmt.Sprintf("role must be one of %v", store.Roles())})
	}

	if strings.TrimSpace(req.Country) == "" {
		errs = append(errs, FieldError{Field: "country", Message: "country is required"})
	}

	if req.BasePrice <= 0 {
		errs = append(errs, FieldError{Field: "base_price", Message: "base_price must be positive"})
	}

	return errs
}

// RaiseBidRequest mirrors the fields checked for a bid raise.
type RaiseBidRequest struct {
	Amount int64
}

// ValidateRaiseBidRequest validates a bid raise payload.
func ValidateRaiseBidRequest(req RaiseBidRequest) []FieldError {
	var errs []FieldError
	if req.Amount <= 0 {
		errs = append(errs, FieldError{Field: "amount", Message: "amount must be positive"})
	}
	return errs
}

// SettleSoldRequest mirrors the fields checked for a sold settlement.
type SettleSoldRequest struct {
	TeamID     string
	FinalPrice int64
}

// ValidateSettleSoldRequest validates a sold settlement payload.
func ValidateSettleSoldRequest(req SettleSoldRequest) []FieldError {
	var errs []FieldError
	if req.TeamID == "" {
		errs = append(errs, FieldError{Field: "team_id", Message: "team_id is required"})
	}
	if req.FinalPrice <= 0 {
		errs = append(errs, FieldError{Field: "final_price", Message: "final_price must be positive"})
	}
	return errs
}
