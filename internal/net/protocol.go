package net

import "fmt"

// Opcode is the first byte of every message on the wire.
type Opcode uint8

// Client → Server messages
const (
	OpConnectionData Opcode = iota + 1
	OpRequestClientNames
	OpRequestCvarList
	OpGoldChange
	OpStartGame
	OpPlayerReady
	OpRematchRequest
)

// Relayed in both directions
const (
	OpTargetAdded Opcode = iota + 32
	OpSkillCast
	OpItemAdded
	OpItemRemoved
	OpChatMessage
)

// Server → Client messages
const (
	OpConnectionSuccess Opcode = iota + 64
	OpAddPlayer
	OpPlayerDisconnected
	OpObjectRemoved
	OpConnectedClients
	OpCvarChange
	OpCvarList
	OpWorldUpdate
	OpProjectilePlayerCollision
	OpRoundStart
	OpChangeToShopping
	OpChangeToPlaying
	OpRoundEnded
	OpGameOver
	OpPlayerEliminated
	OpStateTimer
	OpCountdownTick
	OpFloodStart
	OpArenaRadius
	OpServerShutdown
	OpPerformRematch
)

var opcodeNames = map[Opcode]string{
	OpConnectionData:            "CONNECTION_DATA",
	OpRequestClientNames:        "REQUEST_CLIENT_NAMES",
	OpRequestCvarList:           "REQUEST_CVAR_LIST",
	OpGoldChange:                "GOLD_CHANGE",
	OpStartGame:                 "START_GAME",
	OpPlayerReady:               "PLAYER_READY",
	OpRematchRequest:            "REMATCH_REQUEST",
	OpTargetAdded:               "TARGET_ADDED",
	OpSkillCast:                 "SKILL_CAST",
	OpItemAdded:                 "ITEM_ADDED",
	OpItemRemoved:               "ITEM_REMOVED",
	OpChatMessage:               "CHAT_MESSAGE",
	OpConnectionSuccess:         "CONNECTION_SUCCESS",
	OpAddPlayer:                 "ADD_PLAYER",
	OpPlayerDisconnected:        "PLAYER_DISCONNECTED",
	OpObjectRemoved:             "OBJECT_REMOVED",
	OpConnectedClients:          "CONNECTED_CLIENTS",
	OpCvarChange:                "CVAR_CHANGE",
	OpCvarList:                  "CVAR_LIST",
	OpWorldUpdate:               "WORLD_UPDATE",
	OpProjectilePlayerCollision: "PROJECTILE_PLAYER_COLLISION",
	OpRoundStart:                "ROUND_START",
	OpChangeToShopping:          "CHANGETO_SHOPPING",
	OpChangeToPlaying:           "CHANGETO_PLAYING",
	OpRoundEnded:                "ROUND_ENDED",
	OpGameOver:                  "GAME_OVER",
	OpPlayerEliminated:          "PLAYER_ELIMINATED",
	OpStateTimer:                "STATE_TIMER",
	OpCountdownTick:             "COUNTDOWN_TICK",
	OpFloodStart:                "FLOOD_START",
	OpArenaRadius:               "ARENA_RADIUS",
	OpServerShutdown:            "SERVER_SHUTDOWN",
	OpPerformRematch:            "PERFORM_REMATCH",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return "NMSG_" + name
	}
	return fmt.Sprintf("NMSG_UNKNOWN(%d)", uint8(o))
}

// EntityType tags the variant of a world entity on the wire.
type EntityType uint8

const (
	EntityPlayer     EntityType = 1
	EntityProjectile EntityType = 2
)

func (t EntityType) String() string {
	switch t {
	case EntityPlayer:
		return "player"
	case EntityProjectile:
		return "projectile"
	default:
		return fmt.Sprintf("entity(%d)", uint8(t))
	}
}

// Timing shared by server and client.
const (
	SimTickHz   = 60
	BroadcastHz = 20
)

// Message is implemented by every wire message. Encoding is fixed-layout:
// one opcode byte followed by the opcode-specific fields.
type Message interface {
	Opcode() Opcode
	// Reliable reports whether the message needs ordered-reliable delivery.
	// High-frequency state may be dropped by the transport.
	Reliable() bool
	encode(w *Writer)
	decode(r *Reader)
}
