package orchestrator

import (
	"neuraldiscourse-backend/internal/models"
	"neuraldiscourse-backend/internal/providers"
)

// Perspectives holds, per participant slot, the transcript that slot's
// provider is shown: its own past output tagged assistant, everyone else's
// tagged user. All views are derived from the one canonical message log so
// they cannot diverge from each other.
type Perspectives map[models.Role][]providers.ChatMessage

// BuildPerspectives reconstructs every slot's view from the persisted
// history. When the history is empty, the human starter message is seeded
// as a counterpart (user) entry into every slot except model_a, whose reply
// the starter stands in for.
func BuildPerspectives(conv *models.Conversation, history []models.Message) Perspectives {
	roles := participantRoles(conv.Participants())
	p := make(Perspectives, len(roles))
	for _, r := range roles {
		p[r] = []providers.ChatMessage{}
	}

	for _, msg := range history {
		p.Append(msg.Role, msg.Content)
	}

	if len(history) == 0 {
		for _, r := range roles {
			if r == models.RoleModelA {
				continue
			}
			p[r] = append(p[r], providers.ChatMessage{
				Role:    providers.ChatRoleUser,
				Content: conv.StarterMessage,
			})
		}
	}

	return p
}

// Append records a newly produced message in every slot's view: assistant
// for the speaker, user for all other slots.
func (p Perspectives) Append(speaker models.Role, content string) {
	for r := range p {
		role := providers.ChatRoleUser
		if r == speaker {
			role = providers.ChatRoleAssistant
		}
		p[r] = append(p[r], providers.ChatMessage{Role: role, Content: content})
	}
}

func participantRoles(participants int) []models.Role {
	roles := []models.Role{models.RoleModelA, models.RoleModelB}
	if participants == 3 {
		roles = append(roles, models.RoleModelC)
	}
	return roles
}
