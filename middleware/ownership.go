// middleware/ownership.go
package middleware

import (
	"github.com/google/uuid"

	"farmnav.ao/api/models"
)

// CanAct is the ownership policy shared by every domain handler. The caller
// may act on a resource when, in order:
//
//  1. the caller is an administrator;
//  2. the caller is an organization-scoped role (NGO, GOVERNMENT) and both
//     caller and resource belong to the same organization;
//  3. the caller owns the resource.
func CanAct(callerID uuid.UUID, callerRole string, callerOrg *uuid.UUID, ownerID uuid.UUID, resourceOrg *uuid.UUID) bool {
	if callerRole == models.RoleAdmin {
		return true
	}
	if (callerRole == models.RoleNGO || callerRole == models.RoleGovernment) &&
		callerOrg != nil && resourceOrg != nil && *callerOrg == *resourceOrg {
		return true
	}
	return callerID == ownerID
}

// CallerCanAct applies CanAct for an already-loaded caller.
func CallerCanAct(caller models.User, ownerID uuid.UUID, resourceOrg *uuid.UUID) bool {
	return CanAct(caller.ID, caller.Role, caller.OrganizationID, ownerID, resourceOrg)
}
