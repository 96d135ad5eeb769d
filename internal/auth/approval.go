package auth

import "github.com/hartono/familytree/internal/models"

// ApprovalPolicy decides the initial status of a freshly registered account.
// The policy has changed once already in the product's history (registration
// used to require admin approval), so it stays isolated and swappable rather
// than inlined at the registration site.
type ApprovalPolicy func(role models.Role) models.Status

// AutoApprove is the current policy: every registration is approved
// immediately.
func AutoApprove(models.Role) models.Status {
	return models.StatusApproved
}

// RequireApproval holds new non-superadmin accounts in pending until an admin
// acts on them.
func RequireApproval(role models.Role) models.Status {
	if role == models.RoleSuperadmin {
		return models.StatusApproved
	}
	return models.StatusPending
}
