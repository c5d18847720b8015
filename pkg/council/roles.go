package council

import "github.com/arnavshah/council-api-go/pkg/models"

// Roles is the rotation used when duties are assigned automatically
var Roles = []models.DutyRole{
	models.DutyCoordinator,
	models.DutyVolunteer,
	models.DutyRegistration,
	models.DutyTechnical,
	models.DutyPublicity,
	models.DutyDecoration,
}

// RoleAt returns the role given to the index-th council member in roster order
func RoleAt(index int) models.DutyRole {
	return Roles[index%len(Roles)]
}
