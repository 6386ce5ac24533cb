package config

const (
	// MinEssayTopicLength and MaxEssayTopicLength bound essay topics.
	MinEssayTopicLength = 3
	MaxEssayTopicLength = 500

	// MinEssayWordCount and MaxEssayWordCount bound requested essay length.
	MinEssayWordCount = 100
	MaxEssayWordCount = 5000

	// MinDetectTextLength and MaxDetectTextLength bound detector input.
	// Below 50 characters the detector has too little signal to score.
	MinDetectTextLength = 50
	MaxDetectTextLength = 50000

	// MinHumanizeTextLength and MaxHumanizeTextLength bound humanizer input.
	MinHumanizeTextLength = 10
	MaxHumanizeTextLength = 50000

	// MaxStudyGuideTopicLength bounds study guide topics.
	MaxStudyGuideTopicLength = 5000

	// MaxSubjectLength bounds subject fields across features.
	MaxSubjectLength = 100

	// MaxProfileNameLength is the maximum length for user display names.
	// Limited to 50 for reasonable UX in the sidebar.
	MaxProfileNameLength = 50

	// MaxRequestBodyBytes caps JSON request bodies. File uploads arrive
	// inline as data URLs, so this must cover a few megabytes of base64.
	MaxRequestBodyBytes = 10 << 20
)
