package model

// EmotionalTrigger is a self-reported motivational tag captured once per
// checkout attempt and immutable after order submission.
type EmotionalTrigger string

const (
	TriggerStress      EmotionalTrigger = "stress"
	TriggerBoredom     EmotionalTrigger = "boredom"
	TriggerCelebration EmotionalTrigger = "celebration"
	TriggerSocial      EmotionalTrigger = "social"
	TriggerSadness     EmotionalTrigger = "sadness"
	TriggerImpulse     EmotionalTrigger = "impulse"
	TriggerFOMO        EmotionalTrigger = "fomo"
	TriggerPlanned     EmotionalTrigger = "planned"
)

// TriggerInfo describes one entry in the trigger catalog.
type TriggerInfo struct {
	ID          EmotionalTrigger `json:"id"`
	Label       string           `json:"label"`
	Description string           `json:"description"`
	Tip         string           `json:"tip,omitempty"`
}

// EmotionalTriggers is the fixed trigger catalog in display order. Every
// trigger except "planned" carries a mindfulness tip.
var EmotionalTriggers = []TriggerInfo{
	{
		ID:          TriggerStress,
		Label:       "Stress",
		Description: "Feeling overwhelmed or anxious",
		Tip:         "Consider taking a few deep breaths and waiting 24 hours before making this purchase. Stress shopping often leads to regret.",
	},
	{
		ID:          TriggerBoredom,
		Label:       "Boredom",
		Description: "Looking for entertainment or distraction",
		Tip:         "Try making a wishlist instead of buying right away. Come back when you have a specific need rather than seeking entertainment.",
	},
	{
		ID:          TriggerCelebration,
		Label:       "Celebration",
		Description: "Rewarding yourself or feeling happy",
		Tip:         "While it's okay to treat yourself, make sure this purchase fits within your budget and brings lasting joy.",
	},
	{
		ID:          TriggerSocial,
		Label:       "Social Pressure",
		Description: "Influenced by others or social media",
		Tip:         "Remember that your financial well-being is more important than keeping up with trends or others' expectations.",
	},
	{
		ID:          TriggerSadness,
		Label:       "Sadness",
		Description: "Seeking comfort or mood improvement",
		Tip:         "Shopping might provide temporary relief, but consider if there are other activities that could help improve your mood.",
	},
	{
		ID:          TriggerImpulse,
		Label:       "Impulse",
		Description: "Sudden urge to buy",
		Tip:         "Take a moment to evaluate if this purchase aligns with your budget and values. The urge to buy often passes with time.",
	},
	{
		ID:          TriggerFOMO,
		Label:       "FOMO",
		Description: "Fear of missing out on a deal or trend",
		Tip:         "Ask yourself if you really need this item or if you're just afraid of missing out. There will always be more deals.",
	},
	{
		ID:          TriggerPlanned,
		Label:       "Planned Purchase",
		Description: "Thoughtful, pre-planned decision",
	},
}

// ValidTrigger reports whether t is part of the trigger catalog.
func ValidTrigger(t EmotionalTrigger) bool {
	for _, info := range EmotionalTriggers {
		if info.ID == t {
			return true
		}
	}
	return false
}
