package net

import "fmt"

var constructors = map[Opcode]func() Message{
	OpConnectionData:            func() Message { return &ConnectionData{} },
	OpRequestClientNames:        func() Message { return &RequestClientNames{} },
	OpRequestCvarList:           func() Message { return &RequestCvarList{} },
	OpGoldChange:                func() Message { return &GoldChange{} },
	OpStartGame:                 func() Message { return &StartGame{} },
	OpPlayerReady:               func() Message { return &PlayerReady{} },
	OpRematchRequest:            func() Message { return &RematchRequest{} },
	OpTargetAdded:               func() Message { return &TargetAdded{} },
	OpSkillCast:                 func() Message { return &SkillCast{} },
	OpItemAdded:                 func() Message { return &ItemAdded{} },
	OpItemRemoved:               func() Message { return &ItemRemoved{} },
	OpChatMessage:               func() Message { return &ChatMessage{} },
	OpConnectionSuccess:         func() Message { return &ConnectionSuccess{} },
	OpAddPlayer:                 func() Message { return &AddPlayer{} },
	OpPlayerDisconnected:        func() Message { return &PlayerDisconnected{} },
	OpObjectRemoved:             func() Message { return &ObjectRemoved{} },
	OpConnectedClients:          func() Message { return &ConnectedClients{} },
	OpCvarChange:                func() Message { return &CvarChange{} },
	OpCvarList:                  func() Message { return &CvarList{} },
	OpWorldUpdate:               func() Message { return &WorldUpdate{} },
	OpProjectilePlayerCollision: func() Message { return &ProjectilePlayerCollision{} },
	OpRoundStart:                func() Message { return &RoundStart{} },
	OpChangeToShopping:          func() Message { return &ChangeToShopping{} },
	OpChangeToPlaying:           func() Message { return &ChangeToPlaying{} },
	OpRoundEnded:                func() Message { return &RoundEnded{} },
	OpGameOver:                  func() Message { return &GameOver{} },
	OpPlayerEliminated:          func() Message { return &PlayerEliminated{} },
	OpStateTimer:                func() Message { return &StateTimer{} },
	OpCountdownTick:             func() Message { return &CountdownTick{} },
	OpFloodStart:                func() Message { return &FloodStart{} },
	OpArenaRadius:               func() Message { return &ArenaRadius{} },
	OpServerShutdown:            func() Message { return &ServerShutdown{} },
	OpPerformRematch:            func() Message { return &PerformRematch{} },
}

// Encode serializes m with its opcode prefix.
func Encode(m Message) []byte {
	w := NewWriter(m.Opcode())
	m.encode(w)
	return w.Bytes()
}

// Decode parses one message. Unknown opcodes and truncated bodies are
// reported as errors; trailing bytes are ignored.
func Decode(b []byte) (Message, error) {
	if len(b) == 0 {
		return nil, ErrEmptyMessage
	}
	op := Opcode(b[0])
	newMsg, ok := constructors[op]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOpcode, b[0])
	}
	m := newMsg()
	r := NewReader(b[1:])
	m.decode(r)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", op, err)
	}
	return m, nil
}
