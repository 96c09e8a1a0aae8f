package orchestrator

import "neuraldiscourse-backend/internal/models"

// NextSpeaker returns the slot that speaks next, given the number of
// participant slots (2 or 3) and the role of the most recently persisted
// message. An empty last role means the history is empty, in which case
// model_b opens by replying to the human starter. Two-way conversations
// alternate A and B; three-way conversations cycle A, B, C.
//
// The decision is a pure function of (participants, last), so an
// interrupted run can be resumed from persisted history alone and compute
// the identical next speaker.
func NextSpeaker(participants int, last models.Role) models.Role {
	switch last {
	case models.RoleModelA:
		return models.RoleModelB
	case models.RoleModelB:
		if participants == 3 {
			return models.RoleModelC
		}
		return models.RoleModelA
	case models.RoleModelC:
		return models.RoleModelA
	default:
		return models.RoleModelB
	}
}

// LastRole returns the role of the most recent message, or "" for an empty
// history.
func LastRole(history []models.Message) models.Role {
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1].Role
}
