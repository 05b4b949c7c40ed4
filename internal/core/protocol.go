package core

// Command kinds carried in the "cmd" field of every record.
const (
	CmdJoin    = "join"
	CmdChat    = "chat"
	CmdWhisper = "whisper"
	CmdInfo    = "info"
	CmdOnline  = "online"
)

// Inbound is the union of every client command shape.
type Inbound struct {
	Cmd     string `json:"cmd"`
	Channel string `json:"channel,omitempty"`
	Nick    string `json:"nick,omitempty"`
	Text    string `json:"text,omitempty"`
}

type ChatMessage struct {
	Cmd  string `json:"cmd"`
	Nick string `json:"nick"`
	Text string `json:"text"`
}

type WhisperMessage struct {
	Cmd  string `json:"cmd"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type InfoMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text"`
}

type OnlineMessage struct {
	Cmd   string   `json:"cmd"`
	Nicks []string `json:"nicks"`
}

func NewChat(nick, text string) ChatMessage {
	return ChatMessage{Cmd: CmdChat, Nick: nick, Text: text}
}

func NewWhisper(from, to, text string) WhisperMessage {
	return WhisperMessage{Cmd: CmdWhisper, From: from, To: to, Text: text}
}

func NewInfo(text string) InfoMessage {
	return InfoMessage{Cmd: CmdInfo, Text: text}
}

// NewOnline never encodes a null list.
func NewOnline(nicks []string) OnlineMessage {
	if nicks == nil {
		nicks = []string{}
	}
	return OnlineMessage{Cmd: CmdOnline, Nicks: nicks}
}
