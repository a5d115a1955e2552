package connections

import (
	"fmt"

	"github.com/spigell/affinity/internal/profile"
)

const (
	StarterRecharge = "What's your ideal way to recharge after a busy week?"
	StarterOpenness = "What's something new you've tried recently that surprised you?"
)

// ConversationStarters returns icebreakers in rule priority order. Interests
// are taken in the seeker's insertion order. The result is never nil.
func (g *Generator) ConversationStarters(seeker, candidate *profile.UserProfile) []string {
	out := []string{}

	if shared := profile.SharedTags(seeker.Interests, candidate.Interests); len(shared) > 0 {
		out = append(out, fmt.Sprintf("I noticed you're also interested in %s!", shared[0]))
	}

	if (seeker.MBTI.IsExtravert() && candidate.MBTI.IsIntrovert()) ||
		(seeker.MBTI.IsIntrovert() && candidate.MBTI.IsExtravert()) {
		out = append(out, StarterRecharge)
	}

	if seeker.BigFive.Openness >= highTrait && candidate.BigFive.Openness >= highTrait {
		out = append(out, StarterOpenness)
	}

	if seeker.SocialMedia != nil && candidate.SocialMedia != nil {
		topics := profile.SharedTags(seeker.SocialMedia.Topics, candidate.SocialMedia.Topics)
		if len(topics) > 0 {
			out = append(out, fmt.Sprintf("I saw you post about %s too. What got you into it?", topics[0]))
		}
	}

	return out
}
