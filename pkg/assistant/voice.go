package assistant

// Voice is a prebuilt voice name understood by the speech platform.
type Voice string

const (
	VoiceKore   Voice = "Kore"
	VoiceZephyr Voice = "Zephyr"
	VoicePuck   Voice = "Puck"
	VoiceCharon Voice = "Charon"
	VoiceFenrir Voice = "Fenrir"
)

// DefaultVoice is used when the caller picks nothing.
const DefaultVoice = VoiceKore

// VoiceIdentity is a voice as presented to people: a protocol voice plus
// its Ukrainian display name and blurb.
type VoiceIdentity struct {
	Voice       Voice
	Name        string
	Description string
}

// ExposedVoices are the identities offered in the picker. The remaining
// protocol voices stay valid for direct configuration.
var ExposedVoices = []VoiceIdentity{
	{Voice: VoiceKore, Name: "Рідний", Description: "Класичний теплий голос"},
	{Voice: VoiceZephyr, Name: "Ніжний", Description: "Мелодійне емоційне звучання"},
}

// ValidVoice reports whether v is one of the protocol voices.
func ValidVoice(v Voice) bool {
	switch v {
	case VoiceKore, VoiceZephyr, VoicePuck, VoiceCharon, VoiceFenrir:
		return true
	}
	return false
}
