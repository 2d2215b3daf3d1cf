package scan

// Cue identifies an audio feedback sound for a scan outcome. Waveform
// synthesis belongs to the audio collaborator; the core only selects cues.
type Cue string

const (
	CueSuccess   Cue = "success"
	CueError     Cue = "error"
	CueWarning   Cue = "warning"
	CueDuplicate Cue = "duplicate"
)

// Player plays audio cues. Advisory only: implementations must return
// quickly and never block outcome delivery.
type Player interface {
	Play(Cue)
}

// NopPlayer discards every cue. Used when audio is disabled.
type NopPlayer struct{}

// Play implements Player.
func (NopPlayer) Play(Cue) {}

// cueFor maps a scan outcome to its audio cue.
func cueFor(status Status) Cue {
	switch status {
	case StatusInvalid:
		return CueError
	case StatusUnknown:
		return CueWarning
	case StatusDuplicate:
		return CueDuplicate
	default:
		return CueSuccess
	}
}
