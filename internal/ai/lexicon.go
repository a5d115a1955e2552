package ai

// cue is a pair of word lists pulling a trait up or down.
type cue struct {
	up   []string
	down []string
}

var (
	extraversionCue = cue{
		up:   []string{"party", "parties", "friends", "people", "social", "outgoing", "crowd", "talk", "talking", "meet", "energized", "festival"},
		down: []string{"quiet", "alone", "solitude", "introvert", "recharge", "home", "book", "books", "reading", "calm", "small", "private"},
	}
	intuitionCue = cue{
		up:   []string{"ideas", "idea", "imagine", "future", "possibilities", "abstract", "meaning", "theory", "vision", "dream", "creative", "why"},
		down: []string{"facts", "practical", "details", "concrete", "realistic", "experience", "proven", "hands", "present", "specific"},
	}
	thinkingCue = cue{
		up:   []string{"logic", "logical", "analyze", "analysis", "objective", "reason", "rational", "efficient", "fair", "truth"},
		down: []string{"feel", "feelings", "feeling", "empathy", "harmony", "heart", "values", "compassion", "emotions", "care"},
	}
	judgingCue = cue{
		up:   []string{"plan", "plans", "planning", "schedule", "organized", "routine", "structure", "deadline", "decide", "list"},
		down: []string{"spontaneous", "flexible", "improvise", "adventure", "whatever", "open", "wander", "explore", "surprise", "adapt"},
	}

	opennessCue = cue{
		up:   []string{"new", "art", "curious", "travel", "creative", "learn", "learning", "explore", "philosophy", "music", "culture", "novel"},
		down: []string{"routine", "traditional", "familiar", "usual", "same", "conventional"},
	}
	conscientiousnessCue = cue{
		up:   []string{"plan", "organized", "goal", "goals", "discipline", "work", "responsible", "reliable", "careful", "prepared", "tidy"},
		down: []string{"messy", "late", "procrastinate", "forget", "lazy", "careless"},
	}
	agreeablenessCue = cue{
		up:   []string{"kind", "help", "helping", "care", "together", "trust", "support", "gentle", "forgive", "share", "listen"},
		down: []string{"argue", "compete", "competitive", "critical", "stubborn", "blunt", "selfish"},
	}
	neuroticismCue = cue{
		up:   []string{"worry", "worried", "anxious", "anxiety", "stress", "stressed", "nervous", "upset", "overwhelmed", "afraid"},
		down: []string{"calm", "relaxed", "stable", "secure", "peaceful", "confident", "steady"},
	}

	valueCues = map[string]cue{
		"tradition":      {up: []string{"tradition", "family", "faith", "heritage", "religion", "customs"}, down: []string{"rebel", "unconventional"}},
		"security":       {up: []string{"safe", "safety", "security", "stable", "savings", "insurance"}, down: []string{"risk", "risky", "gamble"}},
		"power":          {up: []string{"power", "status", "wealth", "control", "influence", "lead"}, down: []string{"humble", "modest"}},
		"achievement":    {up: []string{"success", "achieve", "ambitious", "career", "win", "goals"}, down: []string{"content", "enough"}},
		"hedonism":       {up: []string{"fun", "pleasure", "enjoy", "party", "food", "wine"}, down: []string{"discipline", "restraint"}},
		"stimulation":    {up: []string{"adventure", "exciting", "thrill", "new", "travel", "challenge"}, down: []string{"routine", "predictable"}},
		"self_direction": {up: []string{"freedom", "independent", "creative", "curious", "choose", "own"}, down: []string{"obey", "follow"}},
		"universalism":   {up: []string{"nature", "environment", "equality", "justice", "world", "peace"}, down: []string{"nationalist"}},
		"benevolence":    {up: []string{"help", "kind", "loyal", "honest", "friends", "family"}, down: []string{"selfish"}},
	}

	needCues = map[string]cue{
		"affection":    {up: []string{"love", "hug", "affection", "cuddle", "romantic", "touch"}},
		"independence": {up: []string{"independent", "space", "freedom", "alone", "own"}, down: []string{"together", "clingy"}},
		"stability":    {up: []string{"stable", "stability", "commitment", "secure", "routine", "settle"}, down: []string{"change", "spontaneous"}},
		"growth":       {up: []string{"grow", "growth", "learn", "improve", "better", "challenge"}},
		"recognition":  {up: []string{"appreciated", "recognition", "praise", "respect", "noticed", "valued"}},
	}

	sentimentCue = cue{
		up:   []string{"love", "happy", "great", "amazing", "wonderful", "excited", "beautiful", "good", "fun", "grateful", "awesome", "best"},
		down: []string{"hate", "sad", "bad", "terrible", "awful", "angry", "tired", "worst", "boring", "annoying", "lonely"},
	}

	topicWords = map[string]string{
		"code": "technology", "coding": "technology", "software": "technology", "tech": "technology", "ai": "technology", "startup": "technology",
		"paint": "arts", "painting": "arts", "museum": "arts", "gallery": "arts", "music": "arts", "concert": "arts", "photography": "arts",
		"trip": "travel", "flight": "travel", "travel": "travel", "beach": "travel", "abroad": "travel",
		"hike": "fitness", "hiking": "fitness", "run": "fitness", "running": "fitness", "gym": "fitness", "yoga": "fitness",
		"cook": "food", "cooking": "food", "recipe": "food", "restaurant": "food", "baking": "food",
		"book": "books", "books": "books", "novel": "books", "reading": "books",
		"game": "gaming", "games": "gaming", "gaming": "gaming",
		"dog": "pets", "cat": "pets", "puppy": "pets",
	}
)
