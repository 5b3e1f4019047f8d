package story

// Speaker identifies who delivers a scene's text.
type Speaker string

const (
	SpeakerPlayer         Speaker = "PLAYER"
	SpeakerIris           Speaker = "IRIS"
	SpeakerSarah          Speaker = "SARAH"
	SpeakerSystem         Speaker = "SYSTEM"
	SpeakerCollective     Speaker = "COLLECTIVE"
	SpeakerUnknown        Speaker = "UNKNOWN"
	SpeakerHallucination  Speaker = "HALLUCINATION"
	SpeakerDrZhao         Speaker = "DR_ZHAO"
	SpeakerCassandra      Speaker = "CASSANDRA"
	SpeakerMarcus         Speaker = "MARCUS"
	SpeakerAva            Speaker = "AVA"
	SpeakerJennifer       Speaker = "JENNIFER"
	SpeakerAlex           Speaker = "ALEX"
	SpeakerDigitalAlex    Speaker = "DIGITAL_ALEX"
	SpeakerCommitteeChair Speaker = "COMMITTEE_CHAIR"
)

// DisplayName returns the label presentation should render for a speaker.
// Total over the enum: a speaker tag the engine does not know degrades to
// "???" instead of failing.
func (s Speaker) DisplayName() string {
	switch s {
	case SpeakerPlayer:
		return "YOU"
	case SpeakerIris:
		return "DR. IRIS CHEN"
	case SpeakerSarah:
		return "DET. SARAH REEVES"
	case SpeakerSystem:
		return "SYSTEM ALERT"
	case SpeakerCollective:
		return "THE COLLECTIVE"
	case SpeakerUnknown:
		// Plain narration carries no speaker label.
		return ""
	case SpeakerHallucination:
		return "???"
	case SpeakerDrZhao:
		return "DR. ZHAO"
	case SpeakerCassandra:
		return "CASSANDRA VALE"
	case SpeakerMarcus:
		return "MARCUS WEBB"
	case SpeakerAva:
		return "DR. AVA WINTERS"
	case SpeakerJennifer:
		return "JENNIFER PARK"
	case SpeakerAlex:
		return "ALEX (FRAGMENT)"
	case SpeakerDigitalAlex:
		return "DIGITAL ALEX"
	case SpeakerCommitteeChair:
		return "COMMITTEE CHAIR"
	default:
		return "???"
	}
}
